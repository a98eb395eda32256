package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/tgchat/config"
	"github.com/target/tgchat/internal/adapters/devtelegram"
	"github.com/target/tgchat/internal/adapters/memory"
	redisadapter "github.com/target/tgchat/internal/adapters/redis"
	"github.com/target/tgchat/internal/adapters/telegram"
	"github.com/target/tgchat/internal/observability/metrics"
	"github.com/target/tgchat/internal/ports"
)

// Stores holds the session backend chosen by configuration.
type Stores struct {
	Sessions ports.SessionStore
	// Memory is set for the in-memory backend so the reaper can sweep it.
	Memory *memory.SessionStore
	// Redis is set for the redis backend and closed by Close.
	Redis redis.UniversalClient
}

// Close releases backend connections.
func (s *Stores) Close() error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}

// StoreConfig contains configuration for the session store.
type StoreConfig struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// BuildStores creates the session store for the configured backend.
func BuildStores(ctx context.Context, cfg StoreConfig) (*Stores, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := ConnectRedis(ctx, RedisConnConfig{RedisConfig: cfg.Redis, Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Stores{
			Sessions: redisadapter.NewSessionStoreWithPrefix(client, cfg.Session.RedisPrefix),
			Redis:    client,
		}, nil
	default:
		store := memory.NewSessionStore()
		return &Stores{Sessions: store, Memory: store}, nil
	}
}

// ClientConfig contains configuration for the protocol client factory.
type ClientConfig struct {
	Telegram config.TelegramConfig
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// BuildClientFactory creates the protocol client factory for the configured
// mode, instrumented with metrics.
//
//nolint:ireturn // the factory is chosen at runtime between MTProto and the dev provider.
func BuildClientFactory(cfg ClientConfig) (ports.ClientFactory, error) {
	var factory ports.ClientFactory
	switch cfg.Telegram.Mode {
	case config.TelegramModeMock:
		if cfg.Logger != nil {
			cfg.Logger.Warn("using mock telegram provider; no real accounts are reachable")
		}
		factory = devtelegram.NewProvider(devtelegram.Config{
			Code:     cfg.Telegram.Mock.Code,
			Password: cfg.Telegram.Mock.Password,
		})
	default:
		f, err := telegram.NewFactory(telegram.FactoryOptions{
			AppID:   cfg.Telegram.AppID,
			AppHash: cfg.Telegram.AppHash,
			TestDC:  cfg.Telegram.TestDC,
			Logger:  cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create telegram client factory: %w", err)
		}
		factory = f
	}
	return metrics.InstrumentFactory(factory, cfg.Metrics), nil
}
