package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"bezique/internal/domain"
)

// StakeTier is a table stake level. The winner of a match collects the
// combined stakes of every human player at the table.
type StakeTier struct {
	ID    string `json:"id"`
	Stake int64  `json:"stake"`
}

type GameConfig struct {
	RakeRate    float64     `json:"rake_rate"`
	DefaultTier string      `json:"default_tier"`
	Tiers       []StakeTier `json:"tiers"`

	// DefaultTargetScore is used when a lobby does not pick one of the
	// accepted targets explicitly.
	DefaultTargetScore   int    `json:"default_target_score"`
	AcceptedTargetScores []int  `json:"accepted_target_scores"`
	DefaultMode          string `json:"default_mode"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before
	// seating a bot opposite a solo human in the lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	BotMinDelayMs           int `json:"bot_min_delay_ms"`
	BotMaxDelayMs           int `json:"bot_max_delay_ms"`

	BotIdentitiesPath string `json:"bot_identities_path"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetStake returns the table stake for a given tier ID, or the default
// tier's stake if not found.
func GetStake(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.Stake
		}
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.Stake
		}
	}

	return 100
}

// GetTargetScore validates a requested win target against the accepted
// list, falling back to the default for anything unknown. Without a loaded
// config (or with an empty accepted list) the rules' own target set applies.
func GetTargetScore(requested int) int {
	if cfg == nil || len(cfg.AcceptedTargetScores) == 0 {
		if domain.ValidTargetScore(requested) {
			return requested
		}
		return domain.DefaultTargetScore
	}
	for _, t := range cfg.AcceptedTargetScores {
		if t == requested {
			return requested
		}
	}
	if cfg.DefaultTargetScore > 0 {
		return cfg.DefaultTargetScore
	}
	return domain.DefaultTargetScore
}

// GetTurnDurationSeconds returns the per-turn time budget.
func GetTurnDurationSeconds() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}
