package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/cache"
	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
)

func TestOptions(t *testing.T) {
	opts := cache.Options(config.RedisConfig{
		Host:        "redis.internal",
		Port:        6380,
		Password:    "secret",
		DB:          2,
		DialTimeout: time.Second,
		OpTimeout:   200 * time.Millisecond,
		PoolSize:    7,
	})

	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 200*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 7, opts.PoolSize)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	start := time.Now()

	_, err := cache.NewRedisClient(context.Background(), config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 200 * time.Millisecond,
		OpTimeout:   200 * time.Millisecond,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.Less(t, time.Since(start), 5*time.Second)
}
