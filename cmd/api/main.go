package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/handlers/http/chi"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/handlers/http/chi/v1/entity"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/handlers/http/chi/v1/pack"
	"github.com/tongard/graphsense-tagpack-tool/internal/adapters/repository/postgres"
	"github.com/tongard/graphsense-tagpack-tool/internal/config"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/maintenance"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/service/query"
)

func main() {

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

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//repositories
	harmonizedRepo := postgres.NewSqlHarmonizedRepository(db)
	packRepo := postgres.NewSqlPackRepository(db)
	unitOfWork := postgres.NewUnitOfWork(db)

	queryService := query.NewQueryService(harmonizedRepo, packRepo)
	maintenanceService := maintenance.NewMaintenanceService(unitOfWork, logger)

	//http
	entityHandler := entity.NewEntityHandlerV1(queryService, logger)
	packHandler := pack.NewPackHandlerV1(queryService, logger)

	router := chi.NewRouter(logger, entityHandler, packHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init dedup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initDedupTask(ctx, maintenanceService, cfg.Ingest.DedupEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

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

func initDedupTask(ctx context.Context, service *maintenance.Service, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("dedup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("dedup task starting")
			removed, err := service.RemoveDuplicates(ctx)
			if err != nil {
				logger.Error("failed to remove duplicate tags", "error", err)
			} else {
				logger.Info("dedup task completed successfully", "removed", removed)
			}
		case <-ctx.Done():
			logger.Info("dedup task stopped")
			return
		}
	}

}
