package catalog

import (
	"context"
	"log/slog"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
	"github.com/tiendabot/salesrag-go/internal/domain/ports"
)

// Ingester is the slice of the ingestion orchestrator the runner needs.
type Ingester interface {
	Ingest(ctx context.Context, products []entities.Product) (int, error)
}

// Runner consumes catalog events and ingests each batch file. Failures
// (malformed files, duplicate codes) are logged and skipped; they never
// stop the watch loop.
type Runner struct {
	watcher  ports.CatalogWatcher
	ingester Ingester
	logger   *slog.Logger
}

// NewRunner creates a catalog runner.
func NewRunner(watcher ports.CatalogWatcher, ingester Ingester, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		watcher:  watcher,
		ingester: ingester,
		logger:   logger,
	}
}

// Run watches dir until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, dir string) error {
	events, err := r.watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "watching catalog directory", "dir", dir)

	for event := range events {
		r.process(ctx, event.Path)
	}
	return nil
}

func (r *Runner) process(ctx context.Context, path string) {
	products, err := LoadBatch(path)
	if err != nil {
		r.logger.WarnContext(ctx, "skipping catalog file", "path", path, "error", err)
		return
	}
	total, err := r.ingester.Ingest(ctx, products)
	if err != nil {
		r.logger.WarnContext(ctx, "catalog file rejected", "path", path, "error", err)
		return
	}
	r.logger.InfoContext(ctx, "catalog file ingested", "path", path, "products", total)
}
