package domain

import (
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestNewDeckComposition(t *testing.T) {
	d := NewDeck(testRNG())
	if d.Remaining() != DeckSize {
		t.Fatalf("Remaining() = %d, want %d", d.Remaining(), DeckSize)
	}

	counts := make(map[Card]int)
	jokers := 0
	for {
		c, ok := d.DrawTop()
		if !ok {
			break
		}
		if c.Joker {
			jokers++
			continue
		}
		counts[c]++
	}

	if jokers != DeckCopies {
		t.Errorf("joker count = %d, want %d", jokers, DeckCopies)
	}
	if len(counts) != 32 {
		t.Errorf("distinct ranked cards = %d, want 32", len(counts))
	}
	for c, n := range counts {
		if n != DeckCopies {
			t.Errorf("card %s appears %d times, want %d", c, n, DeckCopies)
		}
	}
}

func TestDeckDrawDecreases(t *testing.T) {
	d := NewDeck(testRNG())
	before := d.Remaining()
	if _, ok := d.DrawTop(); !ok {
		t.Fatal("draw from full deck failed")
	}
	if d.Remaining() != before-1 {
		t.Errorf("Remaining() = %d, want %d", d.Remaining(), before-1)
	}
}

func TestTrumpSlot(t *testing.T) {
	d := NewDeck(testRNG())
	if _, ok := d.PeekTrumpCard(); ok {
		t.Fatal("trump slot should start empty")
	}

	if err := d.FlipTrumpCard(); err != nil {
		t.Fatalf("FlipTrumpCard: %v", err)
	}
	up, ok := d.PeekTrumpCard()
	if !ok {
		t.Fatal("trump slot empty after flip")
	}
	if up.Joker {
		t.Fatal("flipped trump card must not be a joker")
	}

	taken, ok := d.TakeTrumpCard()
	if !ok || taken != up {
		t.Fatalf("TakeTrumpCard = %v, %v; want %v, true", taken, ok, up)
	}
	if _, ok := d.PeekTrumpCard(); ok {
		t.Fatal("trump slot must stay empty once taken")
	}
	if _, ok := d.TakeTrumpCard(); ok {
		t.Fatal("second take must fail")
	}
}

func TestSwapTrumpCard(t *testing.T) {
	d := NewDeck(testRNG())
	if err := d.FlipTrumpCard(); err != nil {
		t.Fatalf("FlipTrumpCard: %v", err)
	}
	up, _ := d.PeekTrumpCard()
	seven := Card{Suit: up.Suit, Rank: Seven}

	prev, ok := d.SwapTrumpCard(seven)
	if !ok || prev != up {
		t.Fatalf("SwapTrumpCard = %v, %v; want %v, true", prev, ok, up)
	}
	now, _ := d.PeekTrumpCard()
	if now != seven {
		t.Errorf("trump slot holds %v after swap, want %v", now, seven)
	}
}

func TestFlipSkipsJokers(t *testing.T) {
	d := &Deck{cards: []Card{{Suit: Hearts, Rank: King}, {Joker: true}}}
	if err := d.FlipTrumpCard(); err != nil {
		t.Fatalf("FlipTrumpCard: %v", err)
	}
	up, _ := d.PeekTrumpCard()
	if up.Joker {
		t.Fatal("joker must not occupy the trump slot")
	}
	if d.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1 (joker returned to pile)", d.Remaining())
	}
}
