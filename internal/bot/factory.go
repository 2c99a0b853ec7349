package bot

import "fmt"

// BotLevel selects a strategy implementation.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelStandard
)

// LevelFromString maps identity-pool difficulty labels to levels.
func LevelFromString(s string) BotLevel {
	if s == "easy" {
		return BotLevelEasy
	}
	return BotLevelStandard
}

// NewBrain creates a bot brain for the given level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &EasyBot{}, nil
	case BotLevelStandard:
		return NewStandardBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a provisioned bot identity.
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelStandard
	if identity, ok := GetBotConfig(userID); ok {
		level = LevelFromString(identity.Difficulty)
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: GetBotDisplayName(userID), Strategy: brain}, nil
}
