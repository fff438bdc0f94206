package app

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/net/ws"
	"tower-wars/server/internal/observability"
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
)

const (
	DefaultPort            = 3000
	DefaultShutdownTimeout = 5 * time.Second
)

type Config struct {
	Logger        telemetry.Logger
	Addr          string
	ClientDir     string
	Game          game.Config
	Logging       logging.Config
	Observability observability.Config
	MessageRate   float64
	ChatRate      float64
	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:            fmt.Sprintf(":%d", DefaultPort),
		Game:            game.DefaultConfig(),
		Logging:         logging.DefaultConfig(),
		MessageRate:     ws.DefaultMessageRate,
		ChatRate:        ws.DefaultChatRate,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfig reads the process environment through getenv. Invalid values
// are reported through logger and the default is kept.
func LoadConfig(getenv func(string) string, logger telemetry.Logger) Config {
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	cfg := DefaultConfig()
	cfg.Logger = logger

	if raw := getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port <= 65535 {
			cfg.Addr = fmt.Sprintf(":%d", port)
		} else {
			logger.Printf("invalid PORT=%q, using %d", raw, DefaultPort)
		}
	}
	cfg.ClientDir = strings.TrimSpace(getenv("CLIENT_DIR"))

	readInt(getenv, logger, "ROUND_SECONDS", &cfg.Game.RoundSeconds)
	readInt(getenv, logger, "MAX_ROUNDS", &cfg.Game.MaxRounds)
	readInt(getenv, logger, "MAX_TEAM_SIZE", &cfg.Game.MaxTeamSize)
	if raw := strings.TrimSpace(getenv("WORLD_SEED")); raw != "" {
		cfg.Game.Seed = raw
	}

	if path := strings.TrimSpace(getenv("LOG_JSON_PATH")); path != "" {
		cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, "json")
		cfg.Logging.JSON.FilePath = path
	}
	if raw := getenv("LOG_MIN_SEVERITY"); raw != "" {
		if severity, err := logging.ParseSeverity(raw); err == nil {
			cfg.Logging.MinimumSeverity = severity
		} else {
			logger.Printf("invalid LOG_MIN_SEVERITY=%q: %v", raw, err)
		}
	}

	if raw := getenv("ENABLE_PPROF"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Observability.EnablePprof = value
		} else {
			logger.Printf("invalid ENABLE_PPROF=%q: %v", raw, err)
		}
	}

	readRate(getenv, logger, "MESSAGE_RATE_PER_SEC", &cfg.MessageRate)
	readRate(getenv, logger, "CHAT_RATE_PER_SEC", &cfg.ChatRate)
	return cfg
}

func readInt(getenv func(string) string, logger telemetry.Logger, key string, dst *int) {
	raw := getenv(key)
	if raw == "" {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		logger.Printf("invalid %s=%q, using %d", key, raw, *dst)
		return
	}
	*dst = value
}

func readRate(getenv func(string) string, logger telemetry.Logger, key string, dst *float64) {
	raw := getenv(key)
	if raw == "" {
		return
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		logger.Printf("invalid %s=%q, using %g", key, raw, *dst)
		return
	}
	*dst = value
}
