package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"priceScope/internal/model"
)

// DefaultRPCURL is the public Arbitrum One endpoint.
const DefaultRPCURL = "https://arb1.arbitrum.io/rpc"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL             string
	Interval           time.Duration
	LogLevel           string
	Out                string
	PostgresDSN        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisChannelPrefix string
	MetricsAddr        string
	NoColor            bool
	MaxRetries         int
	RetryBackoff       time.Duration
	FetchTimeout       time.Duration
	Pools              []model.PoolDescriptor
}

// Load merges .env, config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PRICESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", DefaultRPCURL)
	v.SetDefault("interval", 60*time.Second)
	v.SetDefault("log-level", "info")
	v.SetDefault("redis-channel-prefix", "pricescope:prices")
	v.SetDefault("max-retries", 0)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("fetch-timeout", time.Duration(0))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	pools, err := loadPools(v)
	if err != nil {
		return Config{}, err
	}
	pools, err = filterPools(pools, getStringSlice(v, "only"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:             strings.TrimSpace(v.GetString("rpc")),
		Interval:           v.GetDuration("interval"),
		LogLevel:           v.GetString("log-level"),
		Out:                v.GetString("out"),
		PostgresDSN:        v.GetString("pg-dsn"),
		RedisAddr:          v.GetString("redis-addr"),
		RedisPassword:      v.GetString("redis-password"),
		RedisDB:            v.GetInt("redis-db"),
		RedisChannelPrefix: v.GetString("redis-channel-prefix"),
		MetricsAddr:        v.GetString("metrics-addr"),
		NoColor:            v.GetBool("no-color"),
		MaxRetries:         v.GetInt("max-retries"),
		RetryBackoff:       v.GetDuration("retry-backoff"),
		FetchTimeout:       v.GetDuration("fetch-timeout"),
		Pools:              pools,
	}

	if cfg.RPCURL == "" {
		return Config{}, fmt.Errorf("rpc url is required")
	}
	if cfg.MaxRetries < 0 {
		return Config{}, fmt.Errorf("max-retries must not be negative")
	}
	if cfg.FetchTimeout < 0 {
		return Config{}, fmt.Errorf("fetch-timeout must not be negative")
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
