package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTrickFull is returned when a play is recorded on a complete trick.
	ErrTrickFull = errors.New("trick already complete")
	// ErrAlreadyPlayed is returned when a player plays twice into one trick.
	ErrAlreadyPlayed = errors.New("player already played this trick")
)

// PlayedCard pairs a player with the card they put into the current trick.
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Trick is the in-progress trick: an insertion-ordered association of
// player to card with a fixed capacity. Resolution tie-breaks depend on the
// insertion order, so the order is authoritative.
type Trick struct {
	plays    []PlayedCard
	capacity int
}

// NewTrick creates an empty trick sized for the given player count.
func NewTrick(capacity int) *Trick {
	return &Trick{plays: make([]PlayedCard, 0, capacity), capacity: capacity}
}

// Add records a play. Each player may appear at most once and the trick
// never exceeds its capacity.
func (t *Trick) Add(playerID string, c Card) error {
	if len(t.plays) >= t.capacity {
		return ErrTrickFull
	}
	for _, p := range t.plays {
		if p.PlayerID == playerID {
			return fmt.Errorf("%w: %s", ErrAlreadyPlayed, playerID)
		}
	}
	t.plays = append(t.plays, PlayedCard{PlayerID: playerID, Card: c})
	return nil
}

// Len returns the number of recorded plays.
func (t *Trick) Len() int { return len(t.plays) }

// IsComplete reports whether every seat has played.
func (t *Trick) IsComplete() bool { return len(t.plays) == t.capacity }

// Plays returns the recorded plays in insertion order.
func (t *Trick) Plays() []PlayedCard { return t.plays }

// CardOf returns the card a player put into this trick.
func (t *Trick) CardOf(playerID string) (Card, bool) {
	for _, p := range t.plays {
		if p.PlayerID == playerID {
			return p.Card, true
		}
	}
	return Card{}, false
}

// LeadSuit returns the suit of the first non-joker card played, if any.
// Jokers played first never establish a lead suit.
func (t *Trick) LeadSuit() (Suit, bool) {
	for _, p := range t.plays {
		if !p.Card.Joker {
			return p.Card.Suit, true
		}
	}
	return 0, false
}

// LeadSuitOrTrump resolves the effective lead suit for legality checks,
// defaulting to the trump suit while only jokers have been played.
func (t *Trick) LeadSuitOrTrump(trump Suit) Suit {
	if s, ok := t.LeadSuit(); ok {
		return s
	}
	return trump
}

// DetermineWinner resolves a complete set of plays to the winning play.
//
// Without jokers: the highest trump wins; failing that the highest lead-suit
// card; failing that the first card played. Equal ranks are broken by play
// order, earliest first.
//
// With a joker led, only trump can beat it: the highest trump wins, else the
// earliest non-joker card. A joker played after the first card is inert and
// the first-played card wins outright. An all-joker trick goes to the first
// player to act.
func DetermineWinner(plays []PlayedCard, trump, lead Suit) PlayedCard {
	if len(plays) == 0 {
		panic("determine winner on empty trick")
	}

	jokerSeen := false
	for _, p := range plays {
		if p.Card.Joker {
			jokerSeen = true
			break
		}
	}

	if jokerSeen {
		if first := plays[0]; !first.Card.Joker {
			return first
		}
		if best, ok := highestOfSuit(plays, trump); ok {
			return best
		}
		for _, p := range plays {
			if !p.Card.Joker {
				return p
			}
		}
		return plays[0]
	}

	if best, ok := highestOfSuit(plays, trump); ok {
		return best
	}
	if best, ok := highestOfSuit(plays, lead); ok {
		return best
	}
	return plays[0]
}

// highestOfSuit finds the highest-ranked non-joker play of the given suit,
// earliest-played winning ties between duplicate physical cards.
func highestOfSuit(plays []PlayedCard, suit Suit) (PlayedCard, bool) {
	var best PlayedCard
	found := false
	for _, p := range plays {
		if p.Card.Joker || p.Card.Suit != suit {
			continue
		}
		if !found || p.Card.Rank > best.Card.Rank {
			best = p
			found = true
		}
	}
	return best, found
}

// TrickPoints sums the trick values of the played cards.
func TrickPoints(plays []PlayedCard) int {
	total := 0
	for _, p := range plays {
		total += TrickCardPoints(p.Card)
	}
	return total
}

// IsValidPlay reports whether the candidate card may legally be played from
// the hand into the trick.
//
// Jokers are always legal. Outside the last phase the only obligation is to
// follow the lead suit if able. Inside the last phase the obligations are
// strict and evaluated in priority order: beat the highest lead-suit card
// played if able, else follow suit, else play trump, else anything.
func IsValidPlay(card Card, hand []Card, trick *Trick, trump Suit, lastPhase bool) bool {
	if card.Joker {
		return true
	}
	lead, haveLead := trick.LeadSuit()
	if !haveLead {
		// Leading, or only jokers on the table so far.
		return true
	}

	if !lastPhase {
		if card.Suit == lead {
			return true
		}
		return !holdsSuit(hand, lead)
	}

	highestLead, _ := highestOfSuit(trick.Plays(), lead)
	if holdsBeatingCard(hand, lead, highestLead.Card.Rank) {
		return card.Suit == lead && card.Rank > highestLead.Card.Rank
	}
	if holdsSuit(hand, lead) {
		return card.Suit == lead
	}
	if holdsSuit(hand, trump) {
		return card.Suit == trump
	}
	return true
}

func holdsSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if !c.Joker && c.Suit == suit {
			return true
		}
	}
	return false
}

func holdsBeatingCard(hand []Card, suit Suit, rank Rank) bool {
	for _, c := range hand {
		if !c.Joker && c.Suit == suit && c.Rank > rank {
			return true
		}
	}
	return false
}
