package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the Locker selected by configuration
type Factory struct {
	lockCfg               config.LockConfig
	redisCfg              config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable redis degrades to
// the in-process locker instead of failing startup
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a Factory
func NewFactory(lockCfg config.LockConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		lockCfg:  lockCfg,
		redisCfg: redisCfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the locker and a close function for its resources
func (f *Factory) Create() (Locker, func() error, error) {
	noop := func() error { return nil }

	if f.lockCfg.Driver != "redis" {
		f.logger.Info("Using in-memory record locks")
		return NewMemoryLocker(f.lockCfg.WaitTime), noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.redisCfg.Addr(),
		Password: f.redisCfg.Password,
		DB:       f.redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", f.redisCfg.Addr(), err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory record locks",
			zap.String("addr", f.redisCfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryLocker(f.lockCfg.WaitTime), noop, nil
	}

	f.logger.Info("Using redis record locks", zap.String("addr", f.redisCfg.Addr()))
	return NewRedisLocker(client, f.lockCfg.TTL, f.lockCfg.WaitTime, f.lockCfg.RetryDelay, f.lockCfg.KeyPrefix), client.Close, nil
}
