package bot

import (
	"math/rand"
	"testing"

	"bezique/internal/domain"
)

func card(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r}
}

// testGame builds a minimal in-play game around one player and hand. The
// deck is fresh and unflipped so no trump up-card is available.
func testGame(t *testing.T, trump domain.Suit, hand []domain.Card) (*domain.Game, *domain.Player) {
	t.Helper()
	p := domain.NewPlayer("p1", "P1", 0, true)
	p.Hand = hand
	return &domain.Game{
		Players:   []*domain.Player{p},
		Phase:     domain.PhasePlaying,
		Deck:      domain.NewDeck(rand.New(rand.NewSource(1))),
		TrumpSuit: trump,
		Trick:     domain.NewTrick(2),
	}, p
}

func TestChooseLeadPrefersTrumpsWhenHoldingThree(t *testing.T) {
	b := NewStandardBot()
	hand := []domain.Card{
		card(domain.Hearts, domain.Nine),
		card(domain.Hearts, domain.King),
		card(domain.Hearts, domain.Ten),
		card(domain.Spades, domain.Ace),
	}
	got := b.chooseLead(hand, domain.Hearts)
	want := card(domain.Hearts, domain.King)
	if got != want {
		t.Fatalf("chooseLead = %v, want highest trump %v", got, want)
	}
}

func TestChooseLeadPicksStrongestSideSuit(t *testing.T) {
	b := NewStandardBot()
	hand := []domain.Card{
		card(domain.Hearts, domain.Ace), // lone trump, not led
		card(domain.Spades, domain.Eight),
		card(domain.Clubs, domain.Ace),
		card(domain.Clubs, domain.Queen),
	}
	got := b.chooseLead(hand, domain.Hearts)
	want := card(domain.Clubs, domain.Ace)
	if got != want {
		t.Fatalf("chooseLead = %v, want top of strongest side suit %v", got, want)
	}
}

func TestChooseLeadOnlyTrumpsAndJokers(t *testing.T) {
	b := NewStandardBot()
	hand := []domain.Card{
		{Joker: true},
		card(domain.Hearts, domain.Queen),
	}
	got := b.chooseLead(hand, domain.Hearts)
	want := card(domain.Hearts, domain.Queen)
	if got != want {
		t.Fatalf("chooseLead = %v, want %v", got, want)
	}
}

func TestCheapestWinner(t *testing.T) {
	b := NewStandardBot()
	g, _ := testGame(t, domain.Hearts, nil)
	if err := g.Trick.Add("opp", card(domain.Spades, domain.Queen)); err != nil {
		t.Fatalf("seed trick: %v", err)
	}

	t.Run("picks lowest card that still wins", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Nine), // loses
			card(domain.Spades, domain.Ace),  // wins, expensive
			card(domain.Spades, domain.King), // wins, cheap
		}
		got, ok := b.cheapestWinner(g, legal)
		if !ok {
			t.Fatal("cheapestWinner found nothing")
		}
		if want := card(domain.Spades, domain.King); got != want {
			t.Fatalf("cheapestWinner = %v, want %v", got, want)
		}
	})

	t.Run("cheap trump beats dear side card", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Jack),
			card(domain.Hearts, domain.Seven),
		}
		got, ok := b.cheapestWinner(g, legal)
		if !ok {
			t.Fatal("cheapestWinner found nothing")
		}
		if want := card(domain.Hearts, domain.Seven); got != want {
			t.Fatalf("cheapestWinner = %v, want %v", got, want)
		}
	})

	t.Run("reports no winner", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Seven),
			{Joker: true},
		}
		if got, ok := b.cheapestWinner(g, legal); ok {
			t.Fatalf("cheapestWinner = %v, want none", got)
		}
	})
}

func TestChooseDiscard(t *testing.T) {
	b := NewStandardBot()
	trump := domain.Hearts

	t.Run("trump seven first", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Eight),
			card(trump, domain.Seven),
		}
		if got, want := b.chooseDiscard(legal, trump), card(trump, domain.Seven); got != want {
			t.Fatalf("chooseDiscard = %v, want %v", got, want)
		}
	})

	t.Run("protects aces and tens", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Ten),
			card(domain.Clubs, domain.Ace),
			card(domain.Diamonds, domain.Jack),
		}
		if got, want := b.chooseDiscard(legal, trump), card(domain.Diamonds, domain.Jack); got != want {
			t.Fatalf("chooseDiscard = %v, want %v", got, want)
		}
	})

	t.Run("falls back to lowest when only point cards remain", func(t *testing.T) {
		legal := []domain.Card{
			card(domain.Spades, domain.Ace),
			card(domain.Clubs, domain.Ten),
		}
		if got, want := b.chooseDiscard(legal, trump), card(domain.Clubs, domain.Ten); got != want {
			t.Fatalf("chooseDiscard = %v, want %v", got, want)
		}
	})
}

func TestMeldDecision(t *testing.T) {
	trump := domain.Clubs

	t.Run("declares highest available meld", func(t *testing.T) {
		g, p := testGame(t, trump, []domain.Card{
			card(domain.Spades, domain.Queen),
			card(domain.Diamonds, domain.Jack),
			card(domain.Hearts, domain.King),
			card(domain.Hearts, domain.Queen),
		})
		move := meldDecision(g, p)
		if move.DeclareMeld == nil {
			t.Fatal("expected a meld declaration, got skip")
		}
		if got := domain.DetermineMeldType(move.DeclareMeld, trump); got != domain.MeldBezique {
			t.Fatalf("declared %v, want the higher-scoring bezique", got)
		}
	})

	t.Run("skips when every meld is fully reused", func(t *testing.T) {
		g, p := testGame(t, trump, []domain.Card{
			card(domain.Hearts, domain.King),
			card(domain.Hearts, domain.Queen),
		})
		p.RecordMeld(domain.Meld{
			Type:  domain.MeldMarriage,
			Cards: []domain.Card{card(domain.Hearts, domain.King), card(domain.Hearts, domain.Queen)},
		})
		if move := meldDecision(g, p); !move.SkipMeld {
			t.Fatalf("expected skip, got %+v", move)
		}
	})
}

func TestStandardBotFollowsAndWinsCheap(t *testing.T) {
	b := NewStandardBot()
	g, p := testGame(t, domain.Hearts, []domain.Card{
		card(domain.Spades, domain.Nine),
		card(domain.Spades, domain.King),
		card(domain.Spades, domain.Ace),
	})
	if err := g.Trick.Add("opp", card(domain.Spades, domain.Queen)); err != nil {
		t.Fatalf("seed trick: %v", err)
	}

	move, err := b.ChooseMove(g, p)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if move.PlayCard == nil {
		t.Fatalf("expected a card play, got %+v", move)
	}
	if want := card(domain.Spades, domain.King); *move.PlayCard != want {
		t.Fatalf("played %v, want %v", *move.PlayCard, want)
	}
}

func TestEasyBotPlaysLowestLegal(t *testing.T) {
	b := &EasyBot{}
	g, p := testGame(t, domain.Hearts, []domain.Card{
		card(domain.Hearts, domain.Ace),
		card(domain.Spades, domain.Ten),
		card(domain.Clubs, domain.Eight),
	})

	move, err := b.ChooseMove(g, p)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if move.PlayCard == nil {
		t.Fatalf("expected a card play, got %+v", move)
	}
	if want := card(domain.Clubs, domain.Eight); *move.PlayCard != want {
		t.Fatalf("played %v, want %v", *move.PlayCard, want)
	}
}

func TestIsBotRecognizesFallbackIDs(t *testing.T) {
	if !IsBot("bot-1234") {
		t.Error("generated bot id not recognized")
	}
	if IsBot("some-human") {
		t.Error("human id flagged as bot")
	}
}
