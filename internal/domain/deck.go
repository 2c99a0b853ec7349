package domain

import (
	"errors"
	"math/rand"
)

const (
	// DeckCopies is the number of physical 33-card sub-decks shuffled together.
	DeckCopies = 4
	// CardsPerCopy is one copy's size: 4 suits x 8 ranks plus one joker.
	CardsPerCopy = 33
	// DeckSize is the full pile size before dealing begins.
	DeckSize = DeckCopies * CardsPerCopy
)

// ErrDeckEmpty is returned when a draw or flip is attempted on an empty pile.
var ErrDeckEmpty = errors.New("deck is empty")

// Deck is an order-sensitive draw pile plus a separate trump-card slot.
// Draws come from the top; the trump slot is disjoint from the pile and,
// once its card is taken, stays empty for the rest of the round.
type Deck struct {
	cards     []Card
	trumpCard *Card
}

// NewDeck builds the full fixed composition and shuffles it with rng.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, DeckSize)
	for copyIdx := 0; copyIdx < DeckCopies; copyIdx++ {
		for s := Spades; s <= Clubs; s++ {
			for r := Seven; r <= Ace; r++ {
				cards = append(cards, Card{Suit: s, Rank: r})
			}
		}
		cards = append(cards, Card{Joker: true})
	}
	d := &Deck{cards: cards}
	d.Shuffle(rng)
	return d
}

// Shuffle applies a uniform random permutation to the remaining pile.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Remaining returns the number of cards left in the draw pile. The trump
// slot is not counted.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// DrawTop removes and returns the top card of the pile.
func (d *Deck) DrawTop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, true
}

// returnToBottom places a card under the pile. Used when a flipped joker
// cannot serve as the trump up-card.
func (d *Deck) returnToBottom(c Card) {
	d.cards = append([]Card{c}, d.cards...)
}

// FlipTrumpCard draws one card into the trump slot. Jokers cannot determine
// a trump suit, so a flipped joker is returned to the bottom of the pile and
// the flip repeats.
func (d *Deck) FlipTrumpCard() error {
	for {
		c, ok := d.DrawTop()
		if !ok {
			return ErrDeckEmpty
		}
		if c.Joker {
			d.returnToBottom(c)
			continue
		}
		d.trumpCard = &c
		return nil
	}
}

// PeekTrumpCard returns the trump slot's card without removing it.
func (d *Deck) PeekTrumpCard() (Card, bool) {
	if d.trumpCard == nil {
		return Card{}, false
	}
	return *d.trumpCard, true
}

// HasTrumpCard reports whether the trump slot is occupied.
func (d *Deck) HasTrumpCard() bool {
	return d.trumpCard != nil
}

// TakeTrumpCard removes and returns the trump slot's card, leaving the slot
// empty for the rest of the round.
func (d *Deck) TakeTrumpCard() (Card, bool) {
	if d.trumpCard == nil {
		return Card{}, false
	}
	c := *d.trumpCard
	d.trumpCard = nil
	return c, true
}

// SwapTrumpCard exchanges the given card for the one in the trump slot and
// returns the previous occupant. Used for the seven-of-trump switch.
func (d *Deck) SwapTrumpCard(c Card) (Card, bool) {
	if d.trumpCard == nil {
		return Card{}, false
	}
	prev := *d.trumpCard
	d.trumpCard = &c
	return prev, true
}
