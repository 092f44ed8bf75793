// Package worker holds the server's background loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecofamily/famsync/internal/snapshot"
)

// BackupSource resolves the database file to back up.
type BackupSource interface {
	Path(ctx context.Context) (string, error)
}

// BackupWorker periodically uploads the families database to backup storage.
type BackupWorker struct {
	source   BackupSource
	uploader snapshot.Uploader
	interval time.Duration
}

// NewBackupWorker creates a worker with the given source, uploader and interval.
func NewBackupWorker(source BackupSource, uploader snapshot.Uploader, interval time.Duration) *BackupWorker {
	return &BackupWorker{
		source:   source,
		uploader: uploader,
		interval: interval,
	}
}

// Run starts the worker loop. Uploads immediately on start, then on each
// interval. Respects context cancellation for graceful shutdown.
func (w *BackupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.backup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"worker", "backup",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.backup(ctx)
		}
	}
}

func (w *BackupWorker) backup(ctx context.Context) {
	path, err := w.source.Path(ctx)
	if err != nil {
		slog.Warn("backup skipped", "worker", "backup", "error", err)
		return
	}

	if err := w.uploader.Upload(ctx, path); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("backup failed", "worker", "backup", "error", err)
		return
	}
	slog.Info("backup complete", "worker", "backup", "path", path)
}
