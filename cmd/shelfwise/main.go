// Copyright 2025 Shelfwise Labs
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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shelfwise/shelfwise"
	"github.com/shelfwise/shelfwise/ai"
	"github.com/shelfwise/shelfwise/ai/openai"
	"github.com/shelfwise/shelfwise/catalog/badger"
	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/ingestion"
	"github.com/shelfwise/shelfwise/query"
	"github.com/shelfwise/shelfwise/reembed"
	"github.com/shelfwise/shelfwise/store"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "shelfwise",
		Usage:  "Semantic book recommendation engine",
		Flags:  globalFlags(),
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Load a catalog CSV file into the recommender",
				ArgsUsage: "<catalog.csv>",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "min-ratings",
						Usage: "Drop books with fewer ratings",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Keep only books in this language (empty keeps all)",
						Value: "en",
					},
					&cli.IntFlag{
						Name:  "year-start",
						Usage: "Drop books published before this year",
						Value: 1900,
					},
					&cli.IntFlag{
						Name:  "year-end",
						Usage: "Drop books published after this year",
						Value: 2025,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Embedding worker pool size (0 uses the default)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Books embedded per worker task",
						Value: ingestion.DefaultBatchSize,
					},
				),
			},
			{
				Name:      "recommend",
				Usage:     "Recommend books for a free-text query",
				ArgsUsage: "<query>",
				Action:    recommendCommand,
				Flags:     append(storeFlags(), queryFlags()...),
			},
			{
				Name:      "similar",
				Usage:     "Find books similar to a book id",
				ArgsUsage: "<book-id>",
				Action:    similarCommand,
				Flags:     append(storeFlags(), queryFlags()...),
			},
			{
				Name:      "author",
				Usage:     "Recommend books by an author",
				ArgsUsage: "<author>",
				Action:    authorCommand,
				Flags:     append(storeFlags(), queryFlags()...),
			},
			{
				Name:      "series",
				Usage:     "Recommend books in a series",
				ArgsUsage: "<series>",
				Action:    seriesCommand,
				Flags:     append(storeFlags(), queryFlags()...),
			},
			{
				Name:      "save",
				Usage:     "Write the vector index snapshot to a path prefix",
				ArgsUsage: "<path-prefix>",
				Action:    saveCommand,
				Flags:     storeFlags(),
			},
			{
				Name:   "rebuild",
				Usage:  "Re-embed the catalog and rebuild the vector index",
				Action: rebuildCommand,
				Flags:  storeFlags(),
			},
			{
				Name:      "reembed",
				Usage:     "Re-embed every catalog book and write a fresh index snapshot",
				ArgsUsage: "<snapshot-prefix>",
				Action:    reembedCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of books to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N books",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
	}
}

// storeFlags are shared by every command that opens the catalog and the
// vector store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the catalog database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Vector index snapshot path prefix to load on startup",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model for query enhancement and explanations",
			Value: "qwen2.5:3b",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding dimension",
			Value: shelfwise.DefaultDimension,
		},
	}
}

// queryFlags restrict and size recommendation output.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "top-k",
			Aliases: []string{"k"},
			Usage:   "Number of results to return",
			Value:   5,
		},
		&cli.StringSliceFlag{
			Name:  "genre",
			Usage: "Keep only books with one of these genres",
		},
		&cli.Float64Flag{
			Name:  "min-rating",
			Usage: "Keep only books rated at least this",
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "Keep only books in this language",
		},
		&cli.IntFlag{
			Name:  "year-start",
			Usage: "Keep only books published in or after this year",
		},
		&cli.IntFlag{
			Name:  "year-end",
			Usage: "Keep only books published in or before this year",
		},
		&cli.BoolFlag{
			Name:  "ebook",
			Usage: "Keep only ebooks",
		},
	}
}

func openRecommender(c *cli.Context) (*shelfwise.Recommender, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	r, err := shelfwise.NewRecommender(c.String("db"),
		shelfwise.WithAIConfig(cfg),
		shelfwise.WithDimension(c.Int("dimension")))
	if err != nil {
		return nil, fmt.Errorf("failed to open recommender: %w", err)
	}

	if snapshot := c.String("snapshot"); snapshot != "" {
		if err := r.Load(snapshot); err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}
	return r, nil
}

func buildFilter(c *cli.Context) *query.Filter {
	filter := &query.Filter{
		Genres:    c.StringSlice("genre"),
		EbookOnly: c.Bool("ebook"),
	}
	if c.IsSet("min-rating") {
		minRating := c.Float64("min-rating")
		filter.MinRating = &minRating
	}
	if c.IsSet("language") {
		language := c.String("language")
		filter.Language = &language
	}
	if c.IsSet("year-start") {
		yearStart := c.Int("year-start")
		filter.YearStart = &yearStart
	}
	if c.IsSet("year-end") {
		yearEnd := c.Int("year-end")
		filter.YearEnd = &yearEnd
	}
	return filter
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one catalog file argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	var opts []ingestion.Option
	if c.Int("pool-size") > 0 {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	opts = append(opts, ingestion.WithBatchSize(c.Int("batch-size")))

	pipeline, err := r.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	filters := ingestion.Filters{
		MinRatingsCount: c.Int("min-ratings"),
		Language:        c.String("language"),
		YearStart:       c.Int("year-start"),
		YearEnd:         c.Int("year-end"),
	}

	ingested, err := pipeline.IngestFile(context.Background(), c.Args().First(),
		ingestion.WithFilters(filters))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d books\n", ingested)
	return nil
}

func recommendCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected a query argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	results, err := r.Recommend(context.Background(),
		strings.Join(c.Args().Slice(), " "), buildFilter(c), c.Int("top-k"))
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func similarCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one book id argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	results, err := r.SimilarTo(context.Background(), c.Args().First(), buildFilter(c), c.Int("top-k"))
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func authorCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected an author argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	results, err := r.ByAuthor(context.Background(),
		strings.Join(c.Args().Slice(), " "), buildFilter(c), c.Int("top-k"))
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func seriesCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected a series argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	results, err := r.BySeries(context.Background(),
		strings.Join(c.Args().Slice(), " "), buildFilter(c), c.Int("top-k"))
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func saveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one path prefix argument")
	}

	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	if r.VectorStore().Len() == 0 {
		if err := r.Rebuild(context.Background()); err != nil {
			return fmt.Errorf("rebuild before save failed: %w", err)
		}
	}
	if err := r.Save(c.Args().First()); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}

	fmt.Printf("Saved %d documents\n", r.VectorStore().Len())
	return nil
}

func reembedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one snapshot prefix argument")
	}

	cfg := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewBookRepository(backend)
	defer repo.Close()

	embedder, err := openai.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	vectors, err := store.New(c.Int("dimension"))
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, vectors, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	if err := vectors.Save(c.Args().First()); err != nil {
		return fmt.Errorf("snapshot save failed: %w", err)
	}
	fmt.Printf("Saved %d documents\n", vectors.Len())
	return nil
}

func rebuildCommand(c *cli.Context) error {
	r, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Rebuild(context.Background()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Printf("Rebuilt index with %d documents\n", r.VectorStore().Len())
	return nil
}

func printResults(results []*core.RecommendationResult) {
	if len(results) == 0 {
		fmt.Println("No recommendations found")
		return
	}

	for i, result := range results {
		book := result.Book
		fmt.Printf("%d. %s by %s [%.3f]\n", i+1, book.Title, book.Author, result.Similarity)
		fmt.Printf("   Rating %.2f/5 from %d readers", book.AverageRating, book.RatingsCount)
		if book.Series != "" {
			fmt.Printf(", %s series", book.Series)
		}
		fmt.Println()
		if result.Explanation != "" {
			fmt.Printf("   %s\n", result.Explanation)
		}
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
