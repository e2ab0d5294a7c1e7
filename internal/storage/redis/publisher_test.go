package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChannelNaming(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	p := newPublisher(client, DefaultChannelPrefix, zap.NewNop())
	assert.Equal(t, "pricescope:prices:eth", p.Channel("eth"))
	assert.Equal(t, "redis", p.Name())
	assert.NoError(t, p.PutSamples(context.Background(), nil))
}

func TestNewPublisherRequiresAddr(t *testing.T) {
	_, err := NewPublisher(context.Background(), Options{}, nil)
	require.Error(t, err)
}
