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

// Package server exposes the search engine, the listing catalog and the
// admin operations over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/search"
	"github.com/poiesic/carprompt/seed"
	"github.com/poiesic/carprompt/storage"
)

const (
	// DefaultVersion is reported by the root route.
	DefaultVersion = "0.2.0"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server routes HTTP requests to a searcher and the repositories behind it.
type Server struct {
	searcher   *search.Searcher
	listings   storage.ListingRepository
	garages    storage.GarageRepository
	ingester   seed.Ingester
	seeder     *seed.Seeder
	catalog    *seed.Catalog
	seedSecret string
	metrics    http.Handler
	version    string
	logger     *slog.Logger
	engine     *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithIngester sets how created listings are stored. Without it listings are
// written straight to the repository and never embedded.
func WithIngester(ingester seed.Ingester) Option {
	return func(s *Server) {
		s.ingester = ingester
	}
}

// WithSeeder enables POST /api/admin/seed, which writes catalog when the
// request's secret matches.
func WithSeeder(seeder *seed.Seeder, catalog *seed.Catalog, secret string) Option {
	return func(s *Server) {
		s.seeder = seeder
		s.catalog = catalog
		s.seedSecret = secret
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server and builds its routes.
func New(searcher *search.Searcher, listings storage.ListingRepository, garages storage.GarageRepository, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if listings == nil || garages == nil {
		return nil, ErrRepositoryRequired
	}
	s := &Server{
		searcher: searcher,
		listings: listings,
		garages:  garages,
		version:  DefaultVersion,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeder != nil && (s.catalog == nil || s.seedSecret == "") {
		return nil, ErrSeedSecretRequired
	}
	if s.ingester == nil {
		s.ingester = ingestFunc(listings.AddListings)
	}
	s.logger = s.logger.With("component", "server")
	s.engine = s.routes()
	return s, nil
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(s.logger), gin.Recovery())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := r.Group("/api")

	searches := api.Group("/search")
	searches.POST("", s.basicSearch)
	searches.POST("/advanced", s.advancedSearch)
	searches.POST("/compare", s.compare)
	searches.GET("/test-queries", s.testQueries)

	listings := api.Group("/listings")
	listings.GET("", s.listListings)
	listings.GET("/:id", s.getListing)
	listings.POST("", s.createListing)

	garages := api.Group("/garages")
	garages.GET("", s.listGarages)
	garages.GET("/:id", s.getGarage)
	garages.POST("", s.createGarage)

	admin := api.Group("/admin")
	if s.seeder != nil {
		admin.POST("/seed", s.seed)
	}
	admin.GET("/health-check", s.healthCheck)

	return r
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Car Prompt API", "version": s.version})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ingestFunc func(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

func (f ingestFunc) Ingest(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	return f(ctx, listings...)
}
