package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/carprompt"
	"github.com/poiesic/carprompt/ai/offline"
	"github.com/poiesic/carprompt/config"
	"github.com/poiesic/carprompt/metrics"
	"github.com/poiesic/carprompt/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

// environment is what every database-backed command runs against.
type environment struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	db       *carprompt.Database
}

// loadConfig reads the config file and environment, then applies the global
// flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
		cfg.Database.InMemory = false
	}
	if c.Bool("offline") {
		cfg.AI.Offline = true
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openEnvironment(c *cli.Context) (*environment, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(c.App.ErrWriter, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	registry := metrics.NewRegistry()
	opts := []carprompt.DatabaseOption{
		carprompt.WithLogger(logger),
		carprompt.WithMetrics(metrics.New(registry)),
	}
	if cfg.UseOffline() {
		opts = append(opts, carprompt.WithAIProvider(offline.NewProvider()))
	} else {
		opts = append(opts, carprompt.WithAIConfig(cfg.AIConfig()))
	}
	if cfg.Database.InMemory {
		opts = append(opts, carprompt.WithInMemory())
	}
	if cfg.Cache.Addr != "" {
		opts = append(opts, carprompt.WithEmbeddingCache(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		}, cfg.Cache.TTL))
	}

	db, err := carprompt.NewDatabase(cfg.Database.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", cfg.Database.Path, "in_memory", cfg.Database.InMemory, "offline", cfg.UseOffline())

	return &environment{
		config:   cfg,
		logger:   logger,
		registry: registry,
		db:       db,
	}, nil
}

func (e *environment) newSearcher() (*search.Searcher, error) {
	var opts []search.Option
	if e.config.Search.PoolSize > 0 {
		opts = append(opts, search.WithPoolSize(e.config.Search.PoolSize))
	}
	return e.db.NewSearcher(opts...)
}

func (e *environment) Close() error {
	return e.db.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
