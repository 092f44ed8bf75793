package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/internal/api"
	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/hub"
	"github.com/ecofamily/famsync/internal/metrics"
	"github.com/ecofamily/famsync/internal/snapshot"
	"github.com/ecofamily/famsync/internal/store"
	"github.com/ecofamily/famsync/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "famsync",
	Short: "Famsync - shared family calendar sync",
	Long:  "Famsync keeps a family's shared calendar, meal plan and lists in sync across devices. Run without a subcommand to start the server.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(mealCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(watchCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 3. Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	// 4. Initialize store (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// 5. Push hub and metrics
	pushHub := hub.New()
	m := metrics.New()

	// 6. HTTP router
	handler := api.NewHandler(db, pushHub, m, cfg.Family.MinCodeLength, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 8. Background workers
	var wg sync.WaitGroup
	uploader, err := snapshot.NewUploader(cfg.Backup)
	if err != nil {
		return err
	}
	if _, noop := uploader.(*snapshot.NoopUploader); !noop {
		backup := worker.NewBackupWorker(db, uploader, time.Duration(cfg.Backup.Interval))
		startWorker(ctx, &wg, "backup", backup.Run)
	}

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error on graceful Shutdown. Any
		// other error is a real failure and triggers shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context
// cancellation. Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
