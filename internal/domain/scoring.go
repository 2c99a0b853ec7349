package domain

// Trick card values. Only Aces and Tens carry trick points.
const (
	AceTrickPoints = 11
	TenTrickPoints = 10
)

// Fixed bonuses and penalties.
const (
	SevenOfTrumpBonus = 10 // flipping, holding-and-switching, or dealing the trump Seven
	LastTrickBonus    = 10 // winning the final trick of a round
	MeldAceTenBonus   = 10 // advanced mode: per Ace or Ten inside a declared meld
	TimeoutPenalty    = 10 // deducted when a turn timer expires
)

// DefaultTargetScore is used when game creation does not name a target.
const DefaultTargetScore = 1000

// acceptedTargets is the closed set of winning-score thresholds a game may
// be created with.
var acceptedTargets = map[int]bool{1000: true, 1500: true, 2000: true}

// ValidTargetScore reports whether the given winning threshold is accepted.
func ValidTargetScore(target int) bool {
	return acceptedTargets[target]
}

// TrickCardPoints returns the trick value of a single card. Jokers are
// worthless in tricks.
func TrickCardPoints(c Card) int {
	if c.Joker {
		return 0
	}
	switch c.Rank {
	case Ace:
		return AceTrickPoints
	case Ten:
		return TenTrickPoints
	default:
		return 0
	}
}
