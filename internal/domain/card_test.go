package domain

import "testing"

func TestCardOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		less bool
	}{
		{"rank orders within suit", Card{Suit: Spades, Rank: Seven}, Card{Suit: Spades, Rank: Eight}, true},
		{"ten below jack", Card{Suit: Hearts, Rank: Ten}, Card{Suit: Hearts, Rank: Jack}, true},
		{"ace above king", Card{Suit: Clubs, Rank: King}, Card{Suit: Clubs, Rank: Ace}, true},
		{"joker above ace", Card{Suit: Spades, Rank: Ace}, Card{Joker: true}, true},
		{"jokers mutually equal", Card{Joker: true}, Card{Joker: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.less {
				t.Errorf("(%s).Less(%s) = %v, want %v", tt.a, tt.b, got, tt.less)
			}
		})
	}
}

func TestCardEqualityIsStructural(t *testing.T) {
	a := Card{Suit: Hearts, Rank: Queen}
	b := Card{Suit: Hearts, Rank: Queen}
	if a != b {
		t.Fatal("identical cards must compare equal")
	}
	if (Card{Joker: true}) != (Card{Joker: true}) {
		t.Fatal("jokers must compare equal")
	}
}

func TestCardString(t *testing.T) {
	if got := (Card{Suit: Spades, Rank: Queen}).String(); got != "Q♠" {
		t.Errorf("String() = %q", got)
	}
	if got := (Card{Joker: true}).String(); got != "Joker" {
		t.Errorf("joker String() = %q", got)
	}
}
