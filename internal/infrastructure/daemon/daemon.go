// Package daemon assembles the running service: metrics, the mediator
// with every simulation handler, the auto-run loop and the websocket
// server. Both the daemon binary and the CLI serve command call Run.
package daemon

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andrescamacho/gridfleet-go/internal/adapters/metrics"
	"github.com/andrescamacho/gridfleet-go/internal/adapters/ws"
	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/setup"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
)

// Run wires the daemon and serves until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config, logger common.Logger) error {
	// 1. Metrics (optional)
	var (
		middlewares    []mediator.Middleware
		metricsHandler http.Handler
		recorder       common.MetricsRecorder = common.NoopMetricsRecorder{}
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandCollector := metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}

		simulationCollector := metrics.NewSimulationMetricsCollector()
		if err := simulationCollector.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}

		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandCollector))
		metricsHandler = metrics.Handler()
		recorder = simulationCollector
		fmt.Printf("Metrics enabled at %s\n", cfg.Metrics.Path)
	}

	// 2. Simulation core: session, auto-run loop, handlers
	session := sim.NewSession()
	runner := sim.NewRunner(ctx, cfg.Simulation.TickRate, nil)

	registry := setup.NewHandlerRegistry(session, runner, recorder, nil)
	med, err := registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	dispatcher := sim.NewDispatcher(med)
	fmt.Println("Simulation handlers registered")

	// 3. Transport: hub, router, tick binding, server
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	router := ws.NewRouter(dispatcher, hub, logger)
	runner.Bind(router.TickFunc())

	server := ws.NewServer(cfg.Server.Address, hub, router, cfg.Metrics.Path, metricsHandler, logger)

	fmt.Printf("\n✓ Daemon is ready on %s\n", cfg.Server.Address)
	fmt.Println("Press Ctrl+C to stop")

	// Blocks until ctx is cancelled or the listener fails
	serveErr := server.ListenAndServe(ctx)

	// Stop stepping before the transport goes away
	runner.Stop()

	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	fmt.Println("\nDaemon stopped")
	return nil
}
