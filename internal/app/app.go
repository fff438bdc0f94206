package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"tower-wars/server/internal/hub"
	servernet "tower-wars/server/internal/net"
	"tower-wars/server/internal/net/ws"
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
	loggingSinks "tower-wars/server/logging/sinks"
)

// Run serves the game until ctx is cancelled, then shuts the HTTP server,
// the simulation and the logging router down in that order.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(telemetry.StandardLogger); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	sinks, err := buildSinks(cfg.Logging)
	if err != nil {
		return err
	}
	router, err := logging.NewRouter(logging.SystemClock{}, cfg.Logging, sinks, fallbackLogger)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hubCfg := hub.DefaultConfig()
	hubCfg.Game = cfg.Game
	gameHub, err := hub.New(hubCfg, hub.Deps{
		Logger:    telemetryLogger,
		Publisher: router,
	})
	if err != nil {
		return fmt.Errorf("failed to construct hub: %w", err)
	}

	simCtx, stopSim := context.WithCancel(context.Background())
	var simWG sync.WaitGroup
	simWG.Add(1)
	go func() {
		defer simWG.Done()
		gameHub.Run(simCtx)
	}()
	defer func() {
		gameHub.Close()
		stopSim()
		simWG.Wait()
	}()

	handler := servernet.NewHTTPHandler(gameHub, servernet.HTTPHandlerConfig{
		ClientDir:     cfg.ClientDir,
		Logger:        telemetryLogger,
		Observability: cfg.Observability,
		LoggingStats:  router.Stats,
		WebSocket: ws.HandlerConfig{
			Logger:      telemetryLogger,
			Publisher:   router,
			MessageRate: cfg.MessageRate,
			ChatRate:    cfg.ChatRate,
		},
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	serveErr := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("server listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	telemetryLogger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func buildSinks(cfg logging.Config) ([]logging.NamedSink, error) {
	sinks := []logging.NamedSink{{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout)}}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		file, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log %s: %w", cfg.JSON.FilePath, err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, cfg.JSON.FlushInterval)})
	}
	return sinks, nil
}
