package app

import (
	"errors"
	"math/rand"
	"testing"

	"bezique/internal/domain"
)

func startTestGame(t *testing.T) (*Service, *domain.Game, []Event) {
	t.Helper()
	svc := NewService(rand.New(rand.NewSource(7)))
	game, events, err := svc.StartGame([]Seat{
		{ID: "p1", Name: "One"},
		{ID: "p2", Name: "Two", IsBot: true},
	}, domain.ModeStandard, 1000)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return svc, game, events
}

func TestStartGameEvents(t *testing.T) {
	_, game, events := startTestGame(t)

	if game.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want playing", game.Phase)
	}

	kinds := make(map[EventKind]int)
	for _, ev := range events {
		kinds[ev.Kind]++
	}
	if kinds[EventGameStarted] != 1 {
		t.Errorf("game_started events = %d, want 1", kinds[EventGameStarted])
	}
	if kinds[EventHandDealt] != 2 {
		t.Errorf("hand_dealt events = %d, want 2", kinds[EventHandDealt])
	}
	if kinds[EventTrumpDetermined] != 1 {
		t.Errorf("trump_determined events = %d, want 1", kinds[EventTrumpDetermined])
	}
	if kinds[EventTurnChanged] != 1 {
		t.Errorf("turn_changed events = %d, want 1", kinds[EventTurnChanged])
	}

	// Hands are dealt privately.
	for _, ev := range events {
		if ev.Kind != EventHandDealt {
			continue
		}
		p := ev.Payload.(HandDealtPayload)
		if len(ev.Recipients) != 1 || ev.Recipients[0] != p.PlayerID {
			t.Errorf("hand for %s addressed to %v", p.PlayerID, ev.Recipients)
		}
	}
}

func TestStartGameRejectsBadSeatCounts(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))

	if _, _, err := svc.StartGame([]Seat{{ID: "p1"}}, domain.ModeStandard, 1000); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("one seat: err = %v, want ErrTooFewPlayers", err)
	}
	seats := []Seat{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	if _, _, err := svc.StartGame(seats, domain.ModeStandard, 1000); !errors.Is(err, ErrBadPlayerCount) {
		t.Errorf("three seats: err = %v, want ErrBadPlayerCount", err)
	}
}

func TestPlayCardRejectsWrongActor(t *testing.T) {
	svc, game, _ := startTestGame(t)

	waiting := game.CurrentPlayer()
	var other *domain.Player
	for _, p := range game.Players {
		if p.ID != waiting.ID {
			other = p
		}
	}

	if _, err := svc.PlayCard(game, other.ID, other.Hand[0]); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Errorf("err = %v, want ErrNotYourTurn", err)
	}
	if _, err := svc.PlayCard(game, "ghost", domain.Card{}); !errors.Is(err, ErrUnknownActor) {
		t.Errorf("err = %v, want ErrUnknownActor", err)
	}
}

func TestPlayCardEmitsTurnOrTrick(t *testing.T) {
	svc, game, _ := startTestGame(t)

	actor := game.CurrentPlayer()
	events, err := svc.PlayCard(game, actor.ID, actor.Hand[0])
	if err != nil {
		t.Fatalf("PlayCard: %v", err)
	}

	if events[0].Kind != EventCardPlayed {
		t.Fatalf("first event = %s, want card_played", events[0].Kind)
	}
	last := events[len(events)-1]
	if last.Kind != EventTurnChanged {
		t.Fatalf("last event = %s, want turn_changed", last.Kind)
	}
	next := last.Payload.(TurnChangedPayload)
	if next.PlayerID != game.CurrentPlayer().ID {
		t.Errorf("turn handed to %s, game says %s", next.PlayerID, game.CurrentPlayer().ID)
	}
}

func TestCommandResultShape(t *testing.T) {
	_, game, _ := startTestGame(t)

	ok := ResultOf(game, nil)
	if !ok.Success || ok.State != string(domain.PhasePlaying) || ok.NextActorID == "" {
		t.Errorf("success result = %+v", ok)
	}

	bad := ResultOf(game, domain.ErrNotYourTurn)
	if bad.Success || bad.Error == "" {
		t.Errorf("failure result = %+v", bad)
	}
}

func TestSnapshotFiltersHands(t *testing.T) {
	_, game, _ := startTestGame(t)

	snap := BuildSnapshot(game, "p1")
	if snap.State != string(domain.PhasePlaying) {
		t.Errorf("state = %s", snap.State)
	}
	if snap.TrumpCard == nil {
		t.Error("trump card must be visible while held")
	}
	if snap.DeckCount != game.Deck.Remaining() {
		t.Errorf("deck count = %d", snap.DeckCount)
	}

	for _, ps := range snap.Players {
		if ps.HandCount != domain.HandSize {
			t.Errorf("player %s hand count = %d, want %d", ps.ID, ps.HandCount, domain.HandSize)
		}
		if ps.ID == "p1" && len(ps.Hand) != domain.HandSize {
			t.Errorf("requester hand hidden: %d cards", len(ps.Hand))
		}
		if ps.ID != "p1" && ps.Hand != nil {
			t.Errorf("player %s hand leaked to requester", ps.ID)
		}
	}
}

func TestForfeitTurnEmitsPenalty(t *testing.T) {
	svc, game, _ := startTestGame(t)

	actor := game.CurrentPlayer()
	events, err := svc.ForfeitTurn(game, actor.ID)
	if err != nil {
		t.Fatalf("ForfeitTurn: %v", err)
	}

	first := events[0]
	if first.Kind != EventTurnChanged {
		t.Fatalf("first event = %s, want forfeit turn_changed", first.Kind)
	}
	p := first.Payload.(TurnChangedPayload)
	if !p.Forfeit || p.Penalty != domain.TimeoutPenalty {
		t.Errorf("forfeit payload = %+v", p)
	}
	if game.RoundScores[actor.ID] != -domain.TimeoutPenalty {
		t.Errorf("round score = %d, want %d", game.RoundScores[actor.ID], -domain.TimeoutPenalty)
	}
}
