package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"slopes/config"
	"slopes/level"
	"slopes/network"
	"slopes/room"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("slopes server starting", "addr", cfg.Addr, "static", cfg.StaticDir)

	lvl := level.Default()
	if cfg.Level != "" {
		if lvl, err = level.Load(cfg.Level); err != nil {
			return fmt.Errorf("loading level: %w", err)
		}
	}
	slog.Info("level loaded", "name", lvl.Name, "samples", lvl.Terrain.Count(), "players", len(lvl.Players))

	metrics, err := room.NewMetrics()
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	rooms := room.NewManager(lvl, room.Options{
		FrameHz:     cfg.FrameHz,
		BroadcastHz: cfg.BroadcastHz,
		MaxFrame:    cfg.MaxFrame(),
		IdleTimeout: cfg.RoomIdle(),
		Logger:      logger,
		Metrics:     metrics,
	})
	defer rooms.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           network.NewServer(rooms, cfg.StaticDir, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("listening", "addr", cfg.Addr, "ws", "/ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
