package domain

import "fmt"

// Suit identifies one of the four card suits.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Rank identifies a card rank. The order of the constants is the trick-taking
// order: Seven is the weakest rank and Ace the strongest.
type Rank int

const (
	Seven Rank = iota
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Card is a single playing card. Two cards with the same fields are the same
// card for all rule purposes; the deck holds physically duplicate copies.
type Card struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"rank"`
	Joker bool `json:"joker,omitempty"`
}

var suitNames = [...]string{"Spades", "Hearts", "Diamonds", "Clubs"}
var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}
var rankNames = [...]string{"7", "8", "9", "10", "J", "Q", "K", "A"}

func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

func (r Rank) String() string {
	if r < Seven || r > Ace {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

func (c Card) String() string {
	if c.Joker {
		return "Joker"
	}
	return c.Rank.String() + suitSymbols[c.Suit]
}

// Power returns the total-order value of a card. Jokers sort above every
// ranked card and are mutually equal.
func (c Card) Power() int {
	if c.Joker {
		return int(Ace)*4 + 4
	}
	return int(c.Rank)*4 + int(c.Suit)
}

// Less orders cards by (joker, rank, suit).
func (c Card) Less(other Card) bool {
	return c.Power() < other.Power()
}

// Beats reports whether c outranks other within the same suit comparison.
// Jokers never beat anything; nothing beats a joker either, the trick
// resolver treats them separately.
func (c Card) Beats(other Card) bool {
	if c.Joker || other.Joker {
		return false
	}
	return c.Rank > other.Rank
}
