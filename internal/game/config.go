package game

import (
	"strings"
	"time"
)

const (
	DefaultSeed              = "tower-wars"
	DefaultRoundSeconds      = 180
	DefaultMaxRounds         = 5
	DefaultMaxTeamSize       = 4
	DefaultIntermissionDelay = 5 * time.Second
	DefaultResetDelay        = 10 * time.Second
)

// Config tunes the lifecycle. Arena geometry and the weapon table are fixed.
type Config struct {
	RoundSeconds      int           `json:"roundSeconds"`
	MaxRounds         int           `json:"maxRounds"`
	MaxTeamSize       int           `json:"maxTeamSize"`
	IntermissionDelay time.Duration `json:"intermissionDelay"`
	ResetDelay        time.Duration `json:"resetDelay"`
	Seed              string        `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		RoundSeconds:      DefaultRoundSeconds,
		MaxRounds:         DefaultMaxRounds,
		MaxTeamSize:       DefaultMaxTeamSize,
		IntermissionDelay: DefaultIntermissionDelay,
		ResetDelay:        DefaultResetDelay,
		Seed:              DefaultSeed,
	}
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.RoundSeconds <= 0 {
		normalized.RoundSeconds = DefaultRoundSeconds
	}
	if normalized.MaxRounds <= 0 {
		normalized.MaxRounds = DefaultMaxRounds
	}
	if normalized.MaxTeamSize <= 0 {
		normalized.MaxTeamSize = DefaultMaxTeamSize
	}
	if normalized.IntermissionDelay <= 0 {
		normalized.IntermissionDelay = DefaultIntermissionDelay
	}
	if normalized.ResetDelay <= 0 {
		normalized.ResetDelay = DefaultResetDelay
	}
	return normalized
}

func (cfg Config) Normalized() Config {
	return cfg.normalized()
}
