// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package carprompt

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/ai/cache"
	"github.com/poiesic/carprompt/ai/offline"
	"github.com/poiesic/carprompt/ai/openai"
	"github.com/poiesic/carprompt/ingestion"
	"github.com/poiesic/carprompt/metrics"
	"github.com/poiesic/carprompt/reembed"
	"github.com/poiesic/carprompt/search"
	"github.com/poiesic/carprompt/seed"
	"github.com/poiesic/carprompt/storage"
	"github.com/poiesic/carprompt/storage/badger"
	"github.com/redis/go-redis/v9"
)

// Database owns the listing store and the AI provider, and builds the
// components that use them.
type Database struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	redis    *redis.Client
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	cache    *redis.Options
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// WithAIConfig selects the OpenAI-compatible provider. Without credentials
// the offline provider is used instead.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider uses provider as is, ignoring any AI config.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithEmbeddingCache caches embeddings in Redis for ttl.
func WithEmbeddingCache(options *redis.Options, ttl time.Duration) DatabaseOption {
	return func(o *databaseOptions) {
		o.cache = options
		o.cacheTTL = ttl
	}
}

// WithMetrics reports searches and background embedding to m.
func WithMetrics(m *metrics.Metrics) DatabaseOption {
	return func(o *databaseOptions) {
		o.metrics = m
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	repos, err := badger.OpenRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := newProvider(options)
	if err != nil {
		repos.Close()
		return nil, err
	}

	db := &Database{
		repos:    repos,
		provider: provider,
		metrics:  options.metrics,
		logger:   options.logger,
	}

	if options.cache != nil {
		db.redis = redis.NewClient(options.cache)
		prefix := cache.DefaultKeyPrefix
		if options.aiConfig != nil && options.provider == nil {
			prefix += options.aiConfig.EmbeddingModel + ":"
		}
		db.provider = cache.NewProvider(provider, db.redis,
			cache.WithTTL(options.cacheTTL),
			cache.WithKeyPrefix(prefix),
			cache.WithLogger(options.logger))
	}

	return db, nil
}

func newProvider(options *databaseOptions) (ai.AIProvider, error) {
	if options.provider != nil {
		return options.provider, nil
	}
	if options.aiConfig == nil || !options.aiConfig.HasCredentials() {
		return offline.NewProvider(), nil
	}
	return openai.NewProvider(options.aiConfig)
}

// Close releases the provider, the cache client and the store. Every
// resource is closed even when an earlier one fails.
func (db *Database) Close() error {
	var errs []error
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if db.redis != nil {
		if err := db.redis.Close(); err != nil {
			db.logger.Error("error closing embedding cache", "err", err)
			errs = append(errs, err)
		}
	}
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (db *Database) ListingRepository() storage.ListingRepository {
	return db.repos.Listings
}

func (db *Database) GarageRepository() storage.GarageRepository {
	return db.repos.Garages
}

func (db *Database) SearchLogRepository() storage.SearchLogRepository {
	return db.repos.SearchLogs
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewSearcher returns a searcher that logs searches and reports to the
// configured metrics. opts are applied after those defaults.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	defaults := []search.Option{
		search.WithLogger(db.logger),
		search.WithSearchLog(db.repos.SearchLogs),
	}
	if db.metrics != nil {
		defaults = append(defaults, search.WithMonitor(db.metrics))
	}
	return search.NewSearcher(db.repos.Listings, db.provider, append(defaults, opts...)...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	defaults := []ingestion.Option{ingestion.WithLogger(db.logger)}
	if db.metrics != nil {
		defaults = append(defaults, ingestion.WithObserver(db.metrics))
	}
	return ingestion.NewPipeline(db.repos.Listings, db.provider, append(defaults, opts...)...)
}

// NewSeeder returns a seeder writing listings through ingester, or straight
// to the store when ingester is nil.
func (db *Database) NewSeeder(ingester seed.Ingester) (*seed.Seeder, error) {
	return seed.NewSeeder(db.repos.Garages, db.repos.Listings, ingester, db.logger)
}

func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.repos.Listings, db.provider.Embedder(), config, progress)
}
