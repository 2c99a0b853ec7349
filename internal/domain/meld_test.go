package domain

import "testing"

func TestDetermineMeldType(t *testing.T) {
	trump := Clubs
	tests := []struct {
		name     string
		cards    []Card
		expected MeldType
	}{
		{
			name:     "trump seven",
			cards:    []Card{{Suit: Clubs, Rank: Seven}},
			expected: MeldTrumpSeven,
		},
		{
			name:     "non-trump seven invalid",
			cards:    []Card{{Suit: Hearts, Rank: Seven}},
			expected: MeldInvalid,
		},
		{
			name:     "marriage",
			cards:    []Card{{Suit: Hearts, Rank: King}, {Suit: Hearts, Rank: Queen}},
			expected: MeldMarriage,
		},
		{
			name:     "trump marriage",
			cards:    []Card{{Suit: Clubs, Rank: Queen}, {Suit: Clubs, Rank: King}},
			expected: MeldTrumpMarriage,
		},
		{
			name:     "mixed-suit king queen invalid",
			cards:    []Card{{Suit: Hearts, Rank: King}, {Suit: Spades, Rank: Queen}},
			expected: MeldInvalid,
		},
		{
			name:     "bezique",
			cards:    []Card{{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack}},
			expected: MeldBezique,
		},
		{
			name: "double bezique",
			cards: []Card{
				{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack},
				{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack},
			},
			expected: MeldDoubleBezique,
		},
		{
			name: "four kings",
			cards: []Card{
				{Suit: Spades, Rank: King}, {Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: King}, {Suit: Clubs, Rank: King},
			},
			expected: MeldFourKings,
		},
		{
			name: "four aces with joker",
			cards: []Card{
				{Suit: Spades, Rank: Ace}, {Suit: Hearts, Rank: Ace},
				{Suit: Diamonds, Rank: Ace}, {Joker: true},
			},
			expected: MeldFourAces,
		},
		{
			name: "four jokers invalid",
			cards: []Card{
				{Joker: true}, {Joker: true}, {Joker: true}, {Joker: true},
			},
			expected: MeldInvalid,
		},
		{
			name: "four tens invalid",
			cards: []Card{
				{Suit: Spades, Rank: Ten}, {Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Ten}, {Suit: Clubs, Rank: Ten},
			},
			expected: MeldInvalid,
		},
		{
			name: "trump run",
			cards: []Card{
				{Suit: Clubs, Rank: Ace}, {Suit: Clubs, Rank: Ten}, {Suit: Clubs, Rank: King},
				{Suit: Clubs, Rank: Queen}, {Suit: Clubs, Rank: Jack},
			},
			expected: MeldTrumpRun,
		},
		{
			name: "non-trump run invalid",
			cards: []Card{
				{Suit: Hearts, Rank: Ace}, {Suit: Hearts, Rank: Ten}, {Suit: Hearts, Rank: King},
				{Suit: Hearts, Rank: Queen}, {Suit: Hearts, Rank: Jack},
			},
			expected: MeldInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineMeldType(tt.cards, trump); got != tt.expected {
				t.Errorf("DetermineMeldType = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMeldPoints(t *testing.T) {
	tests := []struct {
		meldType MeldType
		points   int
	}{
		{MeldTrumpSeven, 10},
		{MeldMarriage, 20},
		{MeldTrumpMarriage, 40},
		{MeldBezique, 40},
		{MeldDoubleBezique, 500},
		{MeldFourJacks, 40},
		{MeldFourQueens, 60},
		{MeldFourKings, 80},
		{MeldFourAces, 100},
		{MeldTrumpRun, 250},
	}
	for _, tt := range tests {
		if got := tt.meldType.Points(); got != tt.points {
			t.Errorf("%v.Points() = %d, want %d", tt.meldType, got, tt.points)
		}
	}
}

func TestFindAllPossibleMeldsDoubleBezique(t *testing.T) {
	// Two full bezique pairs yield the 500-point double, not two singles.
	hand := []Card{
		{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack},
		{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack},
	}
	melds := FindAllPossibleMelds(hand, Clubs)

	doubles, singles := 0, 0
	for _, m := range melds {
		switch m.Type {
		case MeldDoubleBezique:
			doubles++
		case MeldBezique:
			singles++
		}
	}
	if doubles != 1 {
		t.Errorf("double bezique offered %d times, want 1", doubles)
	}
	if singles != 0 {
		t.Errorf("single bezique offered %d times alongside a double, want 0", singles)
	}
}

func TestFindAllPossibleMeldsJokerSubstitution(t *testing.T) {
	hand := []Card{
		{Suit: Spades, Rank: Ace}, {Suit: Hearts, Rank: Ace},
		{Suit: Diamonds, Rank: Ace}, {Joker: true},
	}
	melds := FindAllPossibleMelds(hand, Clubs)

	found := false
	for _, m := range melds {
		if m.Type == MeldFourAces {
			found = true
			if len(m.Cards) != 4 {
				t.Errorf("four aces meld has %d cards", len(m.Cards))
			}
		}
	}
	if !found {
		t.Fatal("three aces plus joker must yield four aces")
	}
}

func TestFindAllPossibleMeldsSortedDescending(t *testing.T) {
	hand := []Card{
		{Suit: Clubs, Rank: Seven},
		{Suit: Hearts, Rank: King}, {Suit: Hearts, Rank: Queen},
		{Suit: Spades, Rank: Queen}, {Suit: Diamonds, Rank: Jack},
	}
	melds := FindAllPossibleMelds(hand, Clubs)
	if len(melds) < 3 {
		t.Fatalf("found %d melds, want at least 3", len(melds))
	}
	for i := 1; i < len(melds); i++ {
		if melds[i].Points() > melds[i-1].Points() {
			t.Errorf("melds out of order at %d: %d before %d", i, melds[i-1].Points(), melds[i].Points())
		}
	}
}
