// Package app builds the server components from configuration
package app

import (
	"context"
	"fmt"
	"piratepoker-server/internal/config"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/notify"
	"piratepoker-server/pkg/store"
	"piratepoker-server/pkg/store/memory"
	"piratepoker-server/pkg/store/postgres"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const dbWait = time.Second * 10

const (
	relayMinBackoff = time.Second
	relayMaxBackoff = time.Second * 30
)

// SetupLogger applies the configured level and format to the standard logger
func SetupLogger(cfg config.Config) error {
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("could not parse level: %w", err)
		}

		logrus.SetLevel(level)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Log.Format)
	}

	return nil
}

// OpenStore opens the configured store
// Postgres stores are migrated before they are returned
func OpenStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return memory.New(), nil
	case config.StorePostgres:
		s, err := postgres.WaitForDB(cfg.PGDSN, dbWait)
		if err != nil {
			return nil, err
		}

		if err := s.Migrate(cfg.MigrationsPath); err != nil {
			_ = s.Close()
			return nil, err
		}

		return s, nil
	}

	return nil, fmt.Errorf("unknown store: %s", cfg.Store)
}

// NewNotifier returns a Redis notifier when Redis is configured, otherwise an in-process one
// The Redis relay runs until ctx is done
func NewNotifier(ctx context.Context, logger logrus.FieldLogger, cfg config.Config) notify.Notifier {
	if cfg.Redis.Addr == "" {
		return notify.NewLocal(logger)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	n := notify.NewRedis(logger, client, cfg.Redis.Channel)
	go func() {
		defer client.Close()
		n.RunWithRetry(ctx, relayMinBackoff, relayMaxBackoff)
	}()

	return n
}

// NewEngine returns an engine using the configured game options
func NewEngine(logger logrus.FieldLogger, s store.Store, n engine.Notifier, cfg config.Config) *engine.Engine {
	opts := engine.DefaultOptions()
	opts.StartingDoubloons = cfg.Game.StartingDoubloons
	opts.ListLimit = cfg.Game.ListLimit
	opts.Notifier = n

	return engine.New(logger, s, opts)
}
