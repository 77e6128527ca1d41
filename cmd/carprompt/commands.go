package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/carprompt/metrics"
	"github.com/poiesic/carprompt/reembed"
	"github.com/poiesic/carprompt/search"
	"github.com/poiesic/carprompt/seed"
	"github.com/poiesic/carprompt/server"
	"github.com/urfave/cli/v2"
)

// Search modes accepted by --mode.
const (
	modeBasic    = "basic"
	modeHybrid   = "hybrid"
	modeAdvanced = "advanced"
	modeVector   = "vector"
)

var errPromptRequired = errors.New("a search prompt is required")

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the HTTP API",
		Action: serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search listings with a natural-language prompt",
		ArgsUsage: "PROMPT",
		Action:    searchAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Search algorithm (basic, hybrid, advanced, vector)",
				Value:   modeHybrid,
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "spell-check",
				Usage: "Correct manufacturer names before parsing (advanced mode)",
			},
			&cli.BoolFlag{
				Name:  "expand",
				Usage: "Report related search terms (advanced mode)",
			},
		},
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Run every search algorithm on a prompt and compare the results",
		ArgsUsage: "PROMPT",
		Action:    compareAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results per algorithm",
				Value:   20,
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Load the development catalog of garages and listings",
		Action: seedAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Path to a TOML catalog (defaults to the built-in catalog)",
			},
			&cli.BoolFlag{
				Name:  "no-embed",
				Usage: "Store listings without generating embeddings",
			},
		},
	}
}

func reembedCommand() *cli.Command {
	defaults := reembed.DefaultConfig()
	return &cli.Command{
		Name:   "reembed",
		Usage:  "Regenerate listing embeddings",
		Action: reembedAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of listings to process in each batch",
				Value: defaults.BatchSize,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N listings",
				Value: defaults.ReportInterval,
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum retry attempts for failed batches",
				Value: defaults.MaxRetries,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: defaults.RetryDelay,
			},
			&cli.BoolFlag{
				Name:  "only-missing",
				Usage: "Only embed listings that have no embedding yet",
			},
		},
	}
}

func testQueriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-queries",
		Usage: "List sample prompts for evaluating the algorithms",
		Action: func(c *cli.Context) error {
			for _, q := range search.TestQueries() {
				fmt.Fprintf(c.App.Writer, "%-50s %s\n", q.Query, q.Description)
			}
			return nil
		},
	}
}

func promptArg(c *cli.Context) (string, error) {
	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		return "", errPromptRequired
	}
	return prompt, nil
}

func serveAction(c *cli.Context) error {
	env, err := openEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	searcher, err := env.newSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	pipeline, err := env.db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	seeder, err := env.db.NewSeeder(pipeline)
	if err != nil {
		return fmt.Errorf("failed to create seeder: %w", err)
	}
	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return err
	}

	if env.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.New(searcher, env.db.ListingRepository(), env.db.GarageRepository(),
		server.WithIngester(pipeline),
		server.WithSeeder(seeder, catalog, env.config.Server.SeedSecret),
		server.WithMetricsHandler(metrics.Handler(env.registry)),
		server.WithLogger(env.logger),
	)
	if err != nil {
		return err
	}

	addr := env.config.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	return srv.ListenAndServe(c.Context, addr)
}

func searchAction(c *cli.Context) error {
	prompt, err := promptArg(c)
	if err != nil {
		return err
	}
	mode := c.String("mode")
	switch mode {
	case modeBasic, modeHybrid, modeAdvanced, modeVector:
	default:
		return fmt.Errorf("unknown search mode %q: must be one of basic, hybrid, advanced, vector", mode)
	}

	env, err := openEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	searcher, err := env.newSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	req := search.Request{Prompt: prompt, Limit: c.Int("limit"), Hybrid: true}
	var result any
	switch mode {
	case modeBasic:
		result, err = searcher.Basic(c.Context, prompt)
	case modeHybrid:
		result, err = searcher.Search(c.Context, req)
	case modeAdvanced:
		req.SpellCheck = c.Bool("spell-check")
		result, err = searcher.Advanced(c.Context, search.AdvancedRequest{Request: req, ExpandQuery: c.Bool("expand")})
	case modeVector:
		result, err = searcher.VectorOnly(c.Context, req)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printJSON(c.App.Writer, result)
}

func compareAction(c *cli.Context) error {
	prompt, err := promptArg(c)
	if err != nil {
		return err
	}

	env, err := openEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	searcher, err := env.newSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	cmp, err := searcher.Compare(c.Context, search.Request{Prompt: prompt, Limit: c.Int("limit")})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	return printJSON(c.App.Writer, cmp)
}

func seedAction(c *cli.Context) error {
	catalog, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	env, err := openEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	var ingester seed.Ingester
	if !c.Bool("no-embed") {
		pipeline, err := env.db.NewIngestionPipeline()
		if err != nil {
			return fmt.Errorf("failed to create ingestion pipeline: %w", err)
		}
		// Release waits for the background embedding to finish.
		defer pipeline.Release()
		ingester = pipeline
	}

	seeder, err := env.db.NewSeeder(ingester)
	if err != nil {
		return fmt.Errorf("failed to create seeder: %w", err)
	}
	result, err := seeder.Seed(c.Context, catalog)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	return printJSON(c.App.Writer, result)
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return seed.ParseCatalog(data)
}

func reembedAction(c *cli.Context) error {
	cfg := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		OnlyMissing:    c.Bool("only-missing"),
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if cfg.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	env, err := openEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	reembedder, err := env.db.NewReembedder(cfg, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", env.config.Database.Path)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", env.config.AI.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	start := time.Now()
	summary, err := reembedder.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reembedding failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	return printJSON(c.App.Writer, summary)
}
