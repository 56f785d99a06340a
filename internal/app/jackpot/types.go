package jackpot

import (
	"time"

	"neon-casino/internal/config"
	"neon-casino/internal/store"
)

// PoolConfig is the tunable part of one pool. MaxAmount nil means no cap.
type PoolConfig struct {
	SeedAmount       int64
	MaxAmount        *int64
	ContributionRate float64
}

// ConfigUpdate is a partial config change for one pool type. Nil fields
// keep their current value; a MaxAmount of 0 clears the cap.
type ConfigUpdate struct {
	SeedAmount       *int64   `json:"seed_amount"`
	MaxAmount        *int64   `json:"max_amount"`
	ContributionRate *float64 `json:"contribution_rate"`
}

// ContributionResult reports what one wager added to each pool tier.
type ContributionResult struct {
	Contributions map[store.JackpotType]int64 `json:"contributions"`
	Total         int64                       `json:"total"`
}

// WinResult reports a settled jackpot win.
type WinResult struct {
	Type          store.JackpotType `json:"type"`
	WinAmount     int64             `json:"win_amount"`
	RemainingPool int64             `json:"remaining_pool"`
	WonAt         time.Time         `json:"won_at"`
}

// DefaultsFromConfig maps the bootstrap env config onto pool defaults.
// A zero max in the env means uncapped.
func DefaultsFromConfig(cfg config.JackpotConfig) map[store.JackpotType]PoolConfig {
	return map[store.JackpotType]PoolConfig{
		store.JackpotMinor: {SeedAmount: cfg.MinorSeed, MaxAmount: optionalMax(cfg.MinorMax), ContributionRate: cfg.MinorRate},
		store.JackpotMajor: {SeedAmount: cfg.MajorSeed, MaxAmount: optionalMax(cfg.MajorMax), ContributionRate: cfg.MajorRate},
		store.JackpotGrand: {SeedAmount: cfg.GrandSeed, MaxAmount: optionalMax(cfg.GrandMax), ContributionRate: cfg.GrandRate},
	}
}

func optionalMax(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
