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

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/api"
	"github.com/aradsms/clickatell_gateway/internal/clickatell/app"
	httptransport "github.com/aradsms/clickatell_gateway/internal/clickatell/transport/http"
	"github.com/aradsms/clickatell_gateway/internal/platform/config"
	"github.com/aradsms/clickatell_gateway/internal/platform/logger"
	"github.com/aradsms/clickatell_gateway/internal/platform/messagebroker"
	"github.com/aradsms/clickatell_gateway/internal/platform/telemetry"
)

const serviceName = "clickatell_service"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)

	if err := cfg.Validate(); err != nil {
		appLogger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Clickatell service shut down.")
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	mainCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Clickatell service starting...",
		"port", cfg.ServerPort,
		"provider", cfg.ProviderName,
		"webhook_prefix", cfg.WebhookPrefix,
		"gateway_host", cfg.ClickatellHost,
		"log_level", cfg.LogLevel,
	)

	shutdownTracing, err := telemetry.InitTracing(mainCtx, serviceName, cfg.OTelExporterEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	var receiver app.Receiver
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			return err
		}
		defer natsClient.Close()
		appLogger.Info("Successfully connected to NATS", "url", cfg.NATSUrl)
		receiver = app.NewEventPublisher(natsClient, appLogger)
	} else {
		appLogger.Warn("NATS_URL not configured, inbound events will only be logged")
		receiver = app.NewLogReceiver(appLogger)
	}

	client := api.NewClient(api.ClientConfig{
		APIID:      cfg.ClickatellAPIID,
		User:       cfg.ClickatellUser,
		Password:   cfg.ClickatellPassword,
		HTTPS:      cfg.ClickatellHTTPS,
		Host:       cfg.ClickatellHost,
		HTTPMethod: cfg.ClickatellHTTPMethod,
	}, &http.Client{Timeout: cfg.ClickatellHTTPTimeout}, appLogger)

	provider := app.NewProvider(cfg.ProviderName, client, receiver, appLogger)

	validate := validator.New()
	router := httptransport.NewRouter(
		httptransport.NewWebhookHandler(provider, appLogger, validate),
		httptransport.NewMessageHandler(provider, appLogger, validate),
		cfg.WebhookPrefix,
		appLogger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ClickatellHTTPTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server ListenAndServe error", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutdown signal received, shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		} else {
			appLogger.Info("HTTP server shut down gracefully.")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
