package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pitchside/matchpipe/internal/app"
	"github.com/pitchside/matchpipe/internal/config"
)

// RunWorker starts the match ingestion worker pool with graceful shutdown
// support. Loads configuration, initializes the DI container, ensures the
// consumer group exists and drains deliveries until receiving SIGINT/SIGTERM.
// In-flight deliveries finish processing; unsettled ones are redelivered by
// the broker on the next start.
func RunWorker(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	stream, err := container.Stream()
	if err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	consumer, err := container.Consumer()
	if err != nil {
		return fmt.Errorf("failed to initialize consumer: %w", err)
	}

	// Metrics are served from the worker as well so each process exposes
	// its own /metrics endpoint.
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := stream.EnsureGroup(ctx); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	deliveries, err := stream.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			metricsErr <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Run the worker pool until the context is cancelled or the delivery
	// channel closes.
	runErr := consumer.Run(ctx, deliveries)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ProcessTimeout)
	defer shutdownCancel()

	var shutdownErrors []error
	if runErr != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("consumer error: %w", runErr))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
	}

	select {
	case err := <-metricsErr:
		shutdownErrors = append(shutdownErrors, err)
	default:
	}

	if len(shutdownErrors) > 0 {
		return errors.Join(shutdownErrors...)
	}

	logger.Info("worker stopped")
	return nil
}
