package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scriptkid03/audioscript/config"
	"github.com/scriptkid03/audioscript/handlers"
	"github.com/scriptkid03/audioscript/internal/aiclient"
	"github.com/scriptkid03/audioscript/internal/db"
	"github.com/scriptkid03/audioscript/internal/ffmpeg"
	"github.com/scriptkid03/audioscript/internal/grpcserver"
	"github.com/scriptkid03/audioscript/internal/worker"
	"github.com/scriptkid03/audioscript/server"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(*envFiles...); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transcriber, err := aiclient.New(cfg, logger)
	if err != nil {
		return err
	}

	h := handlers.NewApplicationHandler(transcriber, logger)
	h.TranscribeTimeout = cfg.TranscribeTimeout

	if prober, err := ffmpeg.NewProber(); err != nil {
		logger.WithError(err).Warn("Audio durations will not be recorded")
	} else {
		h.Prober = prober
	}

	var dispatcher *worker.Dispatcher
	if cfg.HistoryEnabled() {
		client, err := config.NewSupabaseClient(cfg)
		if err != nil {
			return err
		}
		dispatcher = worker.NewDispatcher(cfg.HistoryWorkers, cfg.HistoryQueueSize, logger)
		dispatcher.Run()
		// Deferred before the HTTP server starts, so it runs after Fiber has shut down.
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := dispatcher.Shutdown(ctx); err != nil {
				logger.WithError(err).Warn("History queue not fully drained")
			}
		}()

		h.History = db.NewStore(client)
		h.Jobs = dispatcher
		logger.WithField("workers", cfg.HistoryWorkers).Info("Transcription history enabled")
	}

	errCh := make(chan error, 2)

	if cfg.GRPCHealthAddr != "" {
		hs, err := grpcserver.NewHealthServer(cfg.GRPCHealthAddr, logger)
		if err != nil {
			return err
		}
		defer hs.Stop()
		go func() { errCh <- hs.Serve() }()
	}

	app := server.New(h, logger, server.Options{
		AllowOrigins: cfg.AllowOrigins,
		MaxUploadMB:  cfg.MaxUploadMB,
	})
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     cfg.ListenAddr(),
			"provider": transcriber.Name(),
		}).Info("Starting AudioScript API")
		errCh <- app.Listen(cfg.ListenAddr())
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
