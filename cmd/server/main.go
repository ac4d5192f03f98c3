// Command server runs the WhatsApp sales assistant API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tiendabot/salesrag-go/internal/adapters/catalog"
	"github.com/tiendabot/salesrag-go/internal/adapters/gateway"
	"github.com/tiendabot/salesrag-go/internal/adapters/history"
	"github.com/tiendabot/salesrag-go/internal/adapters/registry"
	"github.com/tiendabot/salesrag-go/internal/adapters/vectordb"
	"github.com/tiendabot/salesrag-go/internal/config"
	"github.com/tiendabot/salesrag-go/internal/domain/ports"
	"github.com/tiendabot/salesrag-go/internal/domain/usecases"
	httpserver "github.com/tiendabot/salesrag-go/internal/infrastructure/http"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config YAML")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	policy, err := config.LoadPolicy(cfg.Policy.Path)
	if err != nil {
		logger.Error("failed to load sales policy", "error", err)
		os.Exit(1)
	}

	provider := gateway.NewProvider(&gateway.Config{
		BaseURL:         cfg.Gateway.BaseURL,
		APIKey:          cfg.APIKey,
		EmbeddingModel:  cfg.Gateway.EmbeddingModel,
		CompletionModel: cfg.Gateway.CompletionModel,
		MaxRetries:      cfg.Gateway.MaxRetries,
		Timeout:         time.Duration(cfg.Gateway.TimeoutSecs) * time.Second,
	})

	var vectors ports.VectorStore
	switch cfg.Store.Type {
	case "memory":
		vectors = vectordb.NewInMemoryStore()
	case "sqlite":
		store, err := vectordb.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		vectors = store
	case "postgres":
		store, err := vectordb.NewPostgresStore(cfg.Store.DSN)
		if err != nil {
			logger.Error("failed to open postgres store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		vectors = store
	}

	products := registry.NewInMemoryRegistry()
	conversations := history.NewInMemoryStore()

	ingestUC := usecases.NewIngestUseCase(
		provider, vectors, products,
		cfg.Retrieval.ChunkSize, *cfg.Retrieval.ChunkOverlap,
		logger,
	)
	askUC := usecases.NewAskUseCase(
		provider, provider, vectors, conversations,
		policy,
		*cfg.Retrieval.SimilarityThreshold, cfg.Retrieval.MaxHistory,
		logger,
	)

	server := httpserver.NewServer(ingestUC, askUC, cfg.Server.Addr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Start(ctx)
	})

	if cfg.Catalog.WatchDir != "" {
		watcher, err := catalog.NewFSNotifyWatcher()
		if err != nil {
			logger.Error("failed to create catalog watcher", "error", err)
			os.Exit(1)
		}
		defer watcher.Stop()
		runner := catalog.NewRunner(watcher, ingestUC, logger)
		group.Go(func() error {
			return runner.Run(ctx, cfg.Catalog.WatchDir)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
