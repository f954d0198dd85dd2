package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	legalrag "github.com/mburaksayici/legal-rag"
	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/chunking"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/ingestion"
	"github.com/mburaksayici/legal-rag/reembed"
)

func main() {
	app := &cli.App{
		Name:  "legalrag",
		Usage: "Semantic document ingestion and retrieval for legal corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document or a folder of documents into chunks",
				ArgsUsage: "<file-or-folder>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings and rewriting",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "rewrite-model",
						Usage: "Sentence rewriting model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents processed concurrently",
						Value: 4,
					},
					&cli.Float64Flag{
						Name:  "percentile",
						Usage: "Dissimilarity percentile for chunk boundaries",
						Value: 85,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Show the status of an ingestion job",
				ArgsUsage: "<job-id>",
				Action:    statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "jobs",
				Usage:  "List ingestion jobs, most recent first",
				Action: jobsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of jobs to list (0 for all)",
						Value: 20,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for all stored chunks",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
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
				},
			},
			{
				Name:      "search",
				Usage:     "Search ingested chunks by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	source := c.Args().First()
	if source == "" {
		return fmt.Errorf("a file or folder to ingest is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithRewriteModel(c.String("rewrite-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := legalrag.NewDatabase(c.String("db"), legalrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	coordinator, err := db.NewCoordinator(
		ingestion.WithPoolSize(c.Int("workers")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ingestion.WithThresholdPolicy(chunking.PercentilePolicy{Percentile: c.Float64("percentile")}),
	)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	defer coordinator.Close()

	ctx := context.Background()
	jobID, err := coordinator.Submit(ctx, source)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Job %s submitted for %s\n", jobID, source)

	// First interrupt cancels the job cooperatively; in-flight documents
	// finish before the command exits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Cancellation requested, letting in-flight documents finish...")
		if cancelErr := coordinator.Cancel(context.Background(), jobID); cancelErr != nil {
			slog.Error("cancel failed", "err", cancelErr)
		}
	}()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				snapshot, statusErr := coordinator.Status(ctx, jobID)
				if statusErr != nil {
					continue
				}
				printProgress(snapshot)
			}
		}
	}()

	snapshot, err := coordinator.WaitForCompletion(ctx, jobID)
	close(done)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}

	printSummary(snapshot)
	if snapshot.Job.Status == core.JobStatusCompleted {
		return nil
	}
	return fmt.Errorf("job finished with status %s", snapshot.Job.Status)
}

func statusCommand(c *cli.Context) error {
	jobID := c.Args().First()
	if jobID == "" {
		return fmt.Errorf("a job ID is required")
	}

	db, err := legalrag.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	coordinator, err := db.NewCoordinator()
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	defer coordinator.Close()

	snapshot, err := coordinator.Status(context.Background(), jobID)
	if err != nil {
		return err
	}

	printSummary(snapshot)
	return nil
}

func jobsCommand(c *cli.Context) error {
	db, err := legalrag.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	jobs, err := db.JobRepository().ListJobs(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	for _, job := range jobs {
		fmt.Printf("%s  %-22s  %d/%d documents  %s  %s\n",
			job.ID,
			job.Status,
			job.ProcessedCount(),
			job.TotalDocuments,
			job.Source,
			job.CreatedAt.Local().Format(time.RFC3339))
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := legalrag.NewDatabase(c.String("db"), legalrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	config := &reembed.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return db.NewReembedder(config, os.Stderr).Run(ctx)
}

func searchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := legalrag.NewDatabase(c.String("db"), legalrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.FindSimilar(context.Background(), query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching chunks found.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s #%d\n", i+1, result.Score, result.Chunk.DocumentRef, result.Chunk.Ordinal)
		fmt.Printf("    %s\n", result.Chunk.Text)
	}
	return nil
}

func printProgress(snapshot *core.JobSnapshot) {
	line := fmt.Sprintf("%.1f%% (%d/%d)",
		snapshot.ProgressPercentage,
		snapshot.Job.ProcessedCount(),
		snapshot.Job.TotalDocuments)
	if snapshot.CurrentDocument != "" {
		line += "  " + snapshot.CurrentDocument
	}
	if snapshot.EstimatedRemaining != nil {
		line += fmt.Sprintf("  ~%s remaining", snapshot.EstimatedRemaining.Round(time.Second))
	}
	fmt.Fprintln(os.Stderr, line)
}

func printSummary(snapshot *core.JobSnapshot) {
	job := snapshot.Job
	fmt.Printf("Job:        %s\n", job.ID)
	fmt.Printf("Source:     %s\n", job.Source)
	fmt.Printf("Status:     %s\n", job.Status)
	fmt.Printf("Documents:  %d total, %d succeeded, %d failed\n",
		job.TotalDocuments, job.SuccessCount, job.FailureCount)
	if !job.CompletedAt.IsZero() {
		fmt.Printf("Duration:   %s\n", job.CompletedAt.Sub(job.CreatedAt).Round(time.Millisecond))
	}
	for _, failed := range snapshot.FailedDocuments {
		fmt.Printf("  failed: %s: %s\n", failed.DocumentRef, failed.ErrorSummary)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
