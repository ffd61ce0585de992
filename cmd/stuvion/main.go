// ABOUTME: Main entry point for the stuVion radio metadata service
// ABOUTME: Loads config, wires the pipeline, runs the HTTP server
package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SteKarstens/stuvion-radio-player/internal/application/config"
	"github.com/SteKarstens/stuvion-radio-player/internal/application/poller"
	"github.com/SteKarstens/stuvion-radio-player/internal/application/resolver"
	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/artwork"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/history"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/http"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/metrics"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/upstream"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger := newLogger(cfg.Logging)

	repo, err := history.Open(cfg.Database.URL)
	if err != nil {
		return errors.Wrap(err, "open history store")
	}
	defer repo.Close()

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.New(registry)

	sources := make([]domain.SourceAdapter, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		adapter, err := upstream.New(upstream.Config{
			Kind:    src.Type,
			URL:     src.URL,
			Timeout: time.Duration(src.TimeoutMs) * time.Millisecond,
		}, logger)
		if err != nil {
			return errors.Wrap(err, "build source adapter")
		}
		sources = append(sources, adapter)
	}

	artworkProvider := artwork.NewITunes(artwork.Config{
		Endpoint: cfg.Artwork.Endpoint,
		Timeout:  time.Duration(cfg.Artwork.TimeoutMs) * time.Millisecond,
	}, logger)

	pipeline := resolver.New(sources, artworkProvider, repo, logger, pipelineMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nowPlaying := pipeline.Resolve
	if cfg.Poll.Enabled {
		p := poller.New(pipeline, time.Duration(cfg.Poll.IntervalMs)*time.Millisecond, logger)
		go p.Run(ctx)
		nowPlaying = func(context.Context) domain.NowPlaying {
			return p.Current()
		}
	}

	handlers := http.NewHandlers(nowPlaying, repo, http.StationInfo{
		Name:      cfg.Station.Name,
		StreamURL: cfg.Station.StreamURL,
	}, logger)
	router := http.NewRouter(handlers, registry)

	addr := fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := router.Start(addr); err != nil && err != nethttp.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "http server")
	case <-sigint:
		logger.Info("shutting down")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := new(slog.LevelVar)
	switch cfg.Level {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
