package domain

// Player holds the per-participant state for a game. Hand membership uses
// value equality, so duplicate physical copies of a card are interchangeable.
type Player struct {
	ID       string
	Name     string
	Seat     int
	IsDealer bool
	IsBot    bool

	Hand  []Card
	Score int

	// Melds declared this round. Declared cards stay in the hand and remain
	// playable; MeldedCards tracks which card values have already counted
	// toward an accepted meld.
	Melds       []Meld
	MeldedCards map[Card]bool
}

// NewPlayer creates a player with empty round state.
func NewPlayer(id, name string, seat int, isBot bool) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Seat:        seat,
		IsBot:       isBot,
		MeldedCards: make(map[Card]bool),
	}
}

// ResetRound clears hand, melds and melded-card tracking. Scores persist
// across rounds.
func (p *Player) ResetRound() {
	if p.MeldedCards == nil {
		panic("player never initialized: " + p.ID)
	}
	p.Hand = p.Hand[:0]
	p.Melds = nil
	p.MeldedCards = make(map[Card]bool)
}

// HasCard reports whether the hand holds at least one copy of the card.
func (p *Player) HasCard(c Card) bool {
	for _, h := range p.Hand {
		if h == c {
			return true
		}
	}
	return false
}

// HasCards reports whether the hand covers the full multiset of cards.
func (p *Player) HasCards(cards []Card) bool {
	needed := make(map[Card]int, len(cards))
	for _, c := range cards {
		needed[c]++
	}
	for _, h := range p.Hand {
		if needed[h] > 0 {
			needed[h]--
		}
	}
	for _, n := range needed {
		if n > 0 {
			return false
		}
	}
	return true
}

// RemoveCard removes one copy of the card from the hand.
func (p *Player) RemoveCard(c Card) bool {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceCard swaps one copy of old for replacement, keeping hand order.
func (p *Player) ReplaceCard(old, replacement Card) bool {
	for i, h := range p.Hand {
		if h == old {
			p.Hand[i] = replacement
			return true
		}
	}
	return false
}

// HasNewMeldCard reports whether at least one card of the proposed set has
// never counted toward an accepted meld this round.
func (p *Player) HasNewMeldCard(cards []Card) bool {
	for _, c := range cards {
		if !p.MeldedCards[c] {
			return true
		}
	}
	return false
}

// HasDeclaredMeld reports whether the exact card set was already declared
// this round.
func (p *Player) HasDeclaredMeld(cards []Card) bool {
	for _, m := range p.Melds {
		if sameCardSet(m.Cards, cards) {
			return true
		}
	}
	return false
}

// RecordMeld stores an accepted meld and marks its cards as used.
func (p *Player) RecordMeld(m Meld) {
	p.Melds = append(p.Melds, m)
	for _, c := range m.Cards {
		p.MeldedCards[c] = true
	}
}

// TrumpCount returns the number of trump-suited cards held.
func (p *Player) TrumpCount(trump Suit) int {
	n := 0
	for _, c := range p.Hand {
		if !c.Joker && c.Suit == trump {
			n++
		}
	}
	return n
}

// sameCardSet compares two card lists as multisets.
func sameCardSet(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[Card]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}
