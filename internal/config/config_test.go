package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceScope/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "log-level: debug\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, 60*time.Second, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, time.Duration(0), cfg.FetchTimeout)
	assert.Equal(t, DefaultPools(), cfg.Pools)
}

func TestLoadPoolsFromFile(t *testing.T) {
	path := writeConfig(t, `
rpc: http://localhost:8545
interval: 15s
pools:
  - id: eth
    address: "0x905dfCD5649217c42684f23958568e533C711Aa3"
    model: reserve-ratio
    base-asset: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
    base-decimals: 18
    quote-decimals: 6
  - label: ENO
    address: "0xe5ba76eb3d51f523c80ec6af77c46d0aca82f3e0"
    model: v3
    decimal-adjustment: 12
    display-decimals: 8
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, 15*time.Second, cfg.Interval)
	require.Len(t, cfg.Pools, 2)

	eth := cfg.Pools[0]
	assert.Equal(t, "eth", eth.ID)
	assert.Equal(t, "ETH", eth.Label)
	assert.Equal(t, model.ModelReserveRatio, eth.Model)
	assert.Equal(t, uint8(18), eth.BaseDecimals)
	assert.Equal(t, uint8(6), eth.QuoteDecimals)
	assert.Equal(t, 2, eth.DisplayDecimals)

	eno := cfg.Pools[1]
	assert.Equal(t, "eno", eno.ID)
	assert.Equal(t, model.ModelTick, eno.Model)
	assert.Equal(t, 12, eno.DecimalAdjustment)
	assert.Equal(t, 8, eno.DisplayDecimals)
}

func TestLoadRejectsInvalidPools(t *testing.T) {
	cases := map[string]string{
		"bad address": `
pools:
  - id: x
    address: "0x1234"
    model: tick
`,
		"bad model": `
pools:
  - id: x
    address: "0xe5ba76eb3d51f523c80ec6af77c46d0aca82f3e0"
    model: orderbook
`,
		"missing base asset": `
pools:
  - id: x
    address: "0x905dfCD5649217c42684f23958568e533C711Aa3"
    model: reserve-ratio
`,
		"duplicate id": `
pools:
  - id: x
    address: "0xe5ba76eb3d51f523c80ec6af77c46d0aca82f3e0"
    model: tick
  - id: X
    address: "0xe5ba76eb3d51f523c80ec6af77c46d0aca82f3e0"
    model: tick
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvAndFlagsOverride(t *testing.T) {
	path := writeConfig(t, "interval: 15s\nmax-retries: 1\n")
	t.Setenv("PRICESCOPE_MAX_RETRIES", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("interval", 60*time.Second, "")
	flags.StringSlice("only", nil, "")
	require.NoError(t, flags.Parse([]string{"--interval=5s", "--only=eno"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, 3, cfg.MaxRetries)
	require.Len(t, cfg.Pools, 1)
	assert.Equal(t, "eno", cfg.Pools[0].ID)
}

func TestLoadUnknownOnlyPool(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringSlice("only", nil, "")
	require.NoError(t, flags.Parse([]string{"--only=btc"}))

	_, err := Load(writeConfig(t, "{}\n"), flags)
	assert.Error(t, err)
}
