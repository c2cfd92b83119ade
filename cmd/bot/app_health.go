package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	storeMonitoring "github.com/vixenbot/vixen/pkg/dataaccess/monitoring"
)

func (a *App) healthCheck() Controller {
	checker := health.NewChecker(
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1*time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2*time.Second),

		// Monitor the health of the storage backend (MongoDB or the file store).
		health.WithCheck(health.Check{
			Name: "Storage",
			Check: func(ctx context.Context) error {
				backend := "file"
				if dataaccess.MongoDB != nil {
					backend = "mongo"
				}

				// Create a new timer to measure the latency of the check.
				t := prometheus.NewTimer(storeMonitoring.StoreLatency.WithLabelValues("health_check", "ping", backend, "-"))
				defer t.ObserveDuration()
				storeMonitoring.StoreTotalRequests.WithLabelValues("health_check", "ping", backend, "-").Inc()

				if dataaccess.MongoDB != nil {
					if err := dataaccess.MongoDB.Ping(ctx, nil); err != nil {
						return fmt.Errorf("failed to ping MongoDB: %w", err)
					}
					return nil
				}

				if dataaccess.FileStore == nil {
					return fmt.Errorf("no storage backend connected")
				}
				if err := dataaccess.FileStore.Ping(); err != nil {
					return fmt.Errorf("failed to ping file store: %w", err)
				}
				return nil
			},
			Timeout:            2 * time.Second,
			MaxTimeInError:     0,
			MaxContiguousFails: 0,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Log().Info("Storage health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
			Interceptors:         nil,
			DisablePanicRecovery: false,
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:            3 * time.Second,
			MaxTimeInError:     0,
			MaxContiguousFails: 0,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Log().Info("Discord API health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
			Interceptors:         nil,
			DisablePanicRecovery: false,
		}),
	)

	return Controller(health.NewHandler(checker))
}
