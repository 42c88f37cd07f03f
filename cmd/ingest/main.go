package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-yaml"
	_ "github.com/lib/pq"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/eventbroker/nats"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/repository/postgres"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/storage/minio"
	"github.com/tongard/graphsense-tagpack-tool/internal/config"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/harmonize"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/ingest"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/taxonomy"
)

func main() {

	var (
		taxonomyPath string
		trustFile    string
		allowPartial bool
		workers      int
	)

	flag.StringVar(&taxonomyPath, "taxonomy", "", "Path to the taxonomy definition (overrides TAXONOMY_PATH)")
	flag.StringVar(&trustFile, "trust", "", "Path to the per-source trust weights file (overrides INGEST_TRUST_FILE)")
	flag.BoolVar(&allowPartial, "allow-partial", false, "Ingest the valid subset of a pack instead of rejecting it")
	flag.IntVar(&workers, "workers", 0, "Number of concurrent ingestion workers (overrides INGEST_WORKERS)")
	flag.Parse()

	locations := flag.Args()
	if len(locations) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ingest [flags] <tagpack.yaml> [tagpack.yaml ...]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if taxonomyPath == "" {
		taxonomyPath = cfg.Taxonomy.Path
	}
	if taxonomyPath == "" {
		logger.Error("taxonomy path is required, set -taxonomy or TAXONOMY_PATH")
		os.Exit(1)
	}
	if trustFile == "" {
		trustFile = cfg.Ingest.TrustFile
	}
	if workers <= 0 {
		workers = cfg.Ingest.Workers
	}
	allowPartial = allowPartial || cfg.Ingest.AllowPartial

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	registry, err := taxonomy.NewRegistry(taxonomyPath, logger)
	if err != nil {
		logger.Error("failed to load taxonomy", "path", taxonomyPath, "error", err)
		os.Exit(1)
	}
	logger.Info("taxonomy loaded", "path", taxonomyPath, "concepts", registry.Snapshot().Len())

	trust, err := loadTrust(trustFile)
	if err != nil {
		logger.Error("failed to load trust weights", "path", trustFile, "error", err)
		os.Exit(1)
	}

	var archive port.PackArchive
	if cfg.Archive.Endpoint != "" {
		adapter, err := minio.NewAdapter(ctx, cfg.Archive, logger)
		if err != nil {
			logger.Error("failed to init archive", "error", err)
			os.Exit(1)
		}
		archive = adapter
		logger.Info("archive adapter initialized", "bucket", cfg.Archive.BucketName)
	}

	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init event publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		events = publisher
		logger.Info("event publisher initialized", "stream", cfg.NATS.StreamName)
	}

	unitOfWork := postgres.NewUnitOfWork(db)
	engine := ingest.NewEngine(unitOfWork, registry, archive, events, ingest.Config{
		AllowPartial: allowPartial,
		Workers:      workers,
		Trust:        trust,
	}, logger)

	report, err := engine.IngestBatch(ctx, locations)
	if err != nil {
		logger.Warn("batch interrupted", "error", err)
	}

	for _, p := range report.Packs {
		switch p.Status {
		case domain.PackAccepted:
			logger.Info("pack accepted",
				"location", p.Location,
				"source", p.Source,
				"title", p.Title,
				"version", p.Version,
				"ingested", p.TagsIngested,
				"skipped", p.TagsSkipped,
			)
		case domain.PackRejected:
			logger.Warn("pack rejected", "location", p.Location, "error", p.Err)
			if p.Validation != nil {
				for _, failure := range p.Validation.Failures() {
					logger.Warn("invalid tag",
						"location", p.Location,
						"index", failure.Index,
						"outcome", failure.Outcome.String(),
						"detail", failure.Detail,
					)
				}
			}
		case domain.PackFailed:
			logger.Error("pack failed", "location", p.Location, "error", p.Err)
		}
	}

	logger.Info("batch finished",
		"accepted", report.Accepted(),
		"rejected", report.Rejected(),
		"failed", report.Failed(),
	)

	if report.Failed() > 0 || report.Rejected() > 0 {
		os.Exit(1)
	}
}

// loadTrust reads a yaml map of source name to trust weight. An empty path
// means every source gets the default trust.
func loadTrust(path string) (harmonize.TrustMap, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var trust harmonize.TrustMap
	if err := yaml.Unmarshal(data, &trust); err != nil {
		return nil, fmt.Errorf("malformed trust file: %w", err)
	}
	return trust, nil
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
