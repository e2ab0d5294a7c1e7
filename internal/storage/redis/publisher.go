package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

const DefaultChannelPrefix = "pricescope:prices"

// Options configures the publisher connection.
type Options struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// Publisher publishes every sample as JSON on <prefix>:<pool id>.
type Publisher struct {
	client *goredis.Client
	prefix string
	logger *zap.Logger
}

// NewPublisher connects and pings Redis.
func NewPublisher(ctx context.Context, opts Options, logger *zap.Logger) (*Publisher, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := opts.ChannelPrefix
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis publisher connected", zap.String("addr", opts.Addr), zap.String("prefix", prefix))
	return newPublisher(client, prefix, logger), nil
}

func newPublisher(client *goredis.Client, prefix string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, prefix: prefix, logger: logger}
}

func (p *Publisher) Name() string { return "redis" }

// Channel returns the channel samples of poolID are published on.
func (p *Publisher) Channel(poolID string) string {
	return p.prefix + ":" + poolID
}

// PutSamples publishes all samples in one pipeline.
func (p *Publisher) PutSamples(ctx context.Context, samples []model.PriceSample) error {
	if len(samples) == 0 {
		return nil
	}
	pipe := p.client.Pipeline()
	for _, sample := range samples {
		payload, err := json.Marshal(sample)
		if err != nil {
			return fmt.Errorf("marshal sample %s: %w", sample.PoolID, err)
		}
		pipe.Publish(ctx, p.Channel(sample.PoolID), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish samples: %w", err)
	}
	p.logger.Debug("samples published", zap.Int("count", len(samples)))
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
