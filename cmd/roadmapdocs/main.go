package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/roadmapdocs/internal/config"
	"github.com/dgallion1/roadmapdocs/internal/metrics"
	"github.com/dgallion1/roadmapdocs/internal/pipeline"
	"github.com/dgallion1/roadmapdocs/internal/preview"
	"github.com/dgallion1/roadmapdocs/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := upstream.NewClient(upstream.Options{
		GraphURL:   cfg.GraphURL,
		ListingURL: cfg.ListingURL,
		RawBaseURL: cfg.RawBaseURL,
		Token:      cfg.GitHubToken,
		Timeout:    cfg.RequestTimeout,
	})
	defer client.Close()
	reg := metrics.NewRegistry()

	log.Info("starting roadmapdocs", "title", cfg.Title, "output", cfg.OutputDir)
	snap, err := pipeline.Run(ctx, cfg, client, reg, log)
	if err != nil {
		log.Error("run failed", "error", err, "run", snap.RunID)
		client.Close()
		stop()
		os.Exit(1)
	}
	log.Info("run complete",
		"sections", snap.Counts.Sections,
		"documents", snap.Counts.Documents,
		"placeholders", snap.Counts.Placeholders,
		"extras", snap.Counts.Extras,
		"degraded", snap.Degraded,
		"elapsed", snap.Elapsed,
	)

	if cfg.PreviewAddr == "" {
		return
	}
	if err := servePreview(ctx, cfg, reg, log); err != nil {
		log.Error("preview server error", "error", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// servePreview serves the written tree until ctx is cancelled.
func servePreview(ctx context.Context, cfg config.Config, reg *metrics.Registry, log *slog.Logger) error {
	httpServer := &http.Server{
		Addr:         cfg.PreviewAddr,
		Handler:      preview.NewServer(cfg.OutputDir, cfg.Title, reg, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving preview", "addr", cfg.PreviewAddr, "dir", cfg.OutputDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
