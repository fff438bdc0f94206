package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"

	"tower-wars/server/internal/hub"
	"tower-wars/server/internal/net/proto"
	"tower-wars/server/internal/net/ws"
	"tower-wars/server/internal/observability"
	"tower-wars/server/internal/sim"
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
)

type HTTPHandlerConfig struct {
	ClientDir     string
	Logger        telemetry.Logger
	Clock         logging.Clock
	WebSocket     ws.HandlerConfig
	Observability observability.Config
	// LoggingStats reports structured logging router counters on /diagnostics.
	LoggingStats func() logging.RouterStats
}

func NewHTTPHandler(h *hub.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	clock := cfg.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	wsConfig := cfg.WebSocket
	if wsConfig.Logger == nil {
		wsConfig.Logger = logger
	}
	if wsConfig.Clock == nil {
		wsConfig.Clock = clock
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		payload := struct {
			Status     string               `json:"status"`
			ServerTime int64                `json:"serverTime"`
			TickRate   int                  `json:"tickRate"`
			Simulation hub.Diagnostics      `json:"simulation"`
			Metrics    map[string]uint64    `json:"metrics"`
			Logging    *logging.RouterStats `json:"logging,omitempty"`
		}{
			Status:     "ok",
			ServerTime: clock.Now().UnixMilli(),
			TickRate:   sim.DefaultTickRate,
			Simulation: h.Diagnostics(),
			Metrics:    h.Metrics().Snapshot(),
		}
		if cfg.LoggingStats != nil {
			stats := cfg.LoggingStats()
			payload.Logging = &stats
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Printf("failed to encode diagnostics: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/protocol/schema", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		data, err := proto.SchemaJSON()
		if err != nil {
			logger.Printf("failed to build protocol schema: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", ws.NewHandler(h, wsConfig).Handle)

	if observability.Register(mux, cfg.Observability) {
		logger.Printf("pprof endpoints mounted under /debug/pprof/")
	}

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
