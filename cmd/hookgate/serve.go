package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hookgate-io/hookgate/internal/config"
	"github.com/hookgate-io/hookgate/internal/dispatch"
	"github.com/hookgate-io/hookgate/internal/handlers"
	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/ratelimit"
	"github.com/hookgate-io/hookgate/internal/server"
	"github.com/hookgate-io/hookgate/internal/signature"
	"github.com/hookgate-io/hookgate/internal/sink"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook gateway",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("hookgate"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook gateway",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)

	// Rate limiter
	var rateLimiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Ingestion.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Ingestion.RateLimitRequests,
			cfg.Ingestion.RateLimitWindow,
		)
		if err != nil {
			slog.Warn("Failed to initialize Redis rate limiter, continuing without rate limiting",
				logging.Error(err))
			rateLimiter = &ratelimit.NoOpRateLimiter{}
		} else {
			rateLimiter = limiter
			slog.Info("Rate limiting enabled",
				slog.Int("requests", cfg.Ingestion.RateLimitRequests),
				slog.Duration("window", cfg.Ingestion.RateLimitWindow),
			)
		}
	} else {
		rateLimiter = &ratelimit.NoOpRateLimiter{}
		slog.Info("Rate limiting disabled")
	}
	defer rateLimiter.Close()

	// Signature verification
	verifier := signature.NewHMAC(cfg.Providers.GitHub.Secret)
	if verifier.Enabled() {
		slog.Info("GitHub signature verification enabled")
	} else {
		slog.Info("GitHub signature verification disabled, accepting unsigned deliveries")
	}

	// Event forwarder
	dispatchOpts := []dispatch.Option{}
	if cfg.Forwarder.Enabled {
		sinkCfg := sink.DefaultConfig()
		sinkCfg.URL = cfg.Forwarder.NatsURL
		if cfg.Forwarder.SubjectPrefix != "" {
			sinkCfg.SubjectPrefix = cfg.Forwarder.SubjectPrefix
		}

		forwarder, err := sink.NewNATSForwarder(sinkCfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize NATS forwarder: %w", err)
		}
		defer forwarder.Close()

		dispatchOpts = append(dispatchOpts, dispatch.WithForwarder(forwarder))
		slog.Info("Event forwarding enabled",
			slog.String("nats_url", cfg.Forwarder.NatsURL),
			slog.String("subject_prefix", sinkCfg.SubjectPrefix),
		)
	} else {
		slog.Info("Event forwarding disabled")
	}

	dispatcher := dispatch.New(logger, dispatchOpts...)

	handler := handlers.NewWebhookHandler(
		dispatcher,
		rateLimiter,
		verifier,
		logger,
		cfg.Ingestion.MaxBodySize,
	)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Gateway listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
