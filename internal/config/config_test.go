package config

import (
	"testing"

	"bezique/internal/domain"
)

// No config file is loaded in tests: the accessors must fall back to the
// rules' own constants.
func TestGetTargetScoreWithoutConfig(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "DefaultTarget", requested: 1000, want: 1000},
		{name: "MidTarget", requested: 1500, want: 1500},
		{name: "HighTarget", requested: 2000, want: 2000},
		{name: "UnknownTarget", requested: 999, want: domain.DefaultTargetScore},
		{name: "ZeroTarget", requested: 0, want: domain.DefaultTargetScore},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := GetTargetScore(test.requested); got != test.want {
				t.Fatalf("GetTargetScore(%d) = %d, want %d", test.requested, got, test.want)
			}
		})
	}
}

func TestGetStakeWithoutConfig(t *testing.T) {
	if got := GetStake("high"); got != 100 {
		t.Fatalf("GetStake() = %d, want safe default 100", got)
	}
}

func TestGetTurnDurationWithoutConfig(t *testing.T) {
	if got := GetTurnDurationSeconds(); got != 30 {
		t.Fatalf("GetTurnDurationSeconds() = %d, want 30", got)
	}
}
