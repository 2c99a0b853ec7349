package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"bezique/internal/domain"
)

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrBadPlayerCount = errors.New("table seats 2 or 4 players")
	ErrUnknownActor   = errors.New("actor not in game")
)

// Seat describes one occupied seat handed to StartGame.
type Seat struct {
	ID    string
	Name  string
	IsBot bool
}

// Service contains the game use-cases operating on domain state. One command
// executes at a time per service: the mutex serializes player commands
// against timer-driven forfeits racing for the same turn; whoever acquires
// it first acts, the loser fails the turn/phase checks.
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// CommandResult is the structured outcome reported to the command's sender.
type CommandResult struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	State       string `json:"state,omitempty"`
	NextActorID string `json:"next_actor_id,omitempty"`
}

// ResultOf summarizes a command outcome for the reply to its sender.
func ResultOf(g *domain.Game, err error) CommandResult {
	res := CommandResult{Success: err == nil}
	if err != nil {
		res.Error = err.Error()
	}
	if g != nil {
		res.State = string(g.Phase)
		res.NextActorID = currentActorID(g)
	}
	return res
}

// currentActorID resolves whose action the game is waiting for: the meld
// window owner when one is open, the current player otherwise.
func currentActorID(g *domain.Game) string {
	if g.Phase == domain.PhaseEnded {
		return ""
	}
	if id := g.MeldWindow(); id != "" {
		return id
	}
	if g.Phase == domain.PhasePlaying || g.Phase == domain.PhaseLastPhase {
		return g.CurrentPlayer().ID
	}
	return ""
}

// StartGame creates the domain Game for the occupied seats and deals the
// first round. Seats with empty IDs are skipped.
func (s *Service) StartGame(seats []Seat, mode domain.Mode, target int) (*domain.Game, []Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var players []*domain.Player
	for i, seat := range seats {
		if seat.ID == "" {
			continue
		}
		players = append(players, domain.NewPlayer(seat.ID, seat.Name, i, seat.IsBot))
	}
	if len(players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	if !AllowedPlayerCounts[len(players)] {
		return nil, nil, fmt.Errorf("%w: got %d", ErrBadPlayerCount, len(players))
	}

	game, err := domain.NewGame(players, mode, target, s.rng)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.startRoundLocked(game)
	if err != nil {
		return nil, nil, err
	}
	return game, events, nil
}

// StartNextRound deals the next round after a round ended without a winner.
func (s *Service) StartNextRound(g *domain.Game) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startRoundLocked(g)
}

func (s *Service) startRoundLocked(g *domain.Game) ([]Event, error) {
	start, err := g.StartRound()
	if err != nil {
		return nil, err
	}

	briefs := make([]PlayerBrief, len(g.Players))
	for i, p := range g.Players {
		briefs[i] = PlayerBrief{ID: p.ID, Name: p.Name, Seat: p.Seat, IsBot: p.IsBot}
	}

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Round:    start.Round,
			Mode:     g.Mode,
			Target:   g.Target,
			DealerID: g.Dealer().ID,
			LeaderID: start.Leader,
			Players:  briefs,
		},
	}}
	for _, p := range g.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: append([]domain.Card(nil), p.Hand...)},
			Recipients: []string{p.ID},
		})
	}
	events = append(events, Event{
		Kind: EventTrumpDetermined,
		Payload: TrumpDeterminedPayload{
			TrumpSuit:        start.TrumpSuit,
			TrumpCard:        start.TrumpCard,
			DealerSevenBonus: start.DealerSevenBonus,
		},
	})
	events = append(events, turnEvent(start.Leader))
	return events, nil
}

// PlayCard processes a card play for the given actor.
func (s *Service) PlayCard(g *domain.Game, actorID string, card domain.Card) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := g.PlayerByID(actorID); !ok {
		return nil, ErrUnknownActor
	}
	res, err := g.PlayCard(actorID, card)
	if err != nil {
		return nil, err
	}
	return s.playEvents(g, res), nil
}

func (s *Service) playEvents(g *domain.Game, res *domain.PlayResult) []Event {
	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{PlayerID: res.PlayerID, Card: res.Card},
	}}

	if !res.TrickComplete {
		events = append(events, turnEvent(res.NextPlayer))
		return events
	}

	events = append(events, Event{
		Kind: EventTrickResolved,
		Payload: TrickResolvedPayload{
			WinnerID:   res.TrickWinner,
			Points:     res.TrickPoints,
			Plays:      res.TrickPlays,
			MeldWindow: res.MeldWindow,
		},
	})

	if res.RoundEnded {
		events = append(events, roundEndedEvent(res.RoundResult))
	}
	if res.GameOver {
		events = append(events, gameEndedEvent(g))
		return events
	}
	if res.NextPlayer != "" {
		events = append(events, turnEvent(res.NextPlayer))
	}
	return events
}

// DeclareMeld processes a meld declaration by the trick winner.
func (s *Service) DeclareMeld(g *domain.Game, actorID string, cards []domain.Card) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := g.PlayerByID(actorID); !ok {
		return nil, ErrUnknownActor
	}
	res, err := g.DeclareMeld(actorID, cards)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventMeldDeclared,
		Payload: MeldDeclaredPayload{
			PlayerID: actorID,
			MeldType: res.Meld.Type.String(),
			Cards:    res.Meld.Cards,
			Points:   res.Points,
		},
	}}
	return append(events, s.afterMeldEvents(g, res)...), nil
}

// SkipMeld declines the meld opportunity.
func (s *Service) SkipMeld(g *domain.Game, actorID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := g.PlayerByID(actorID); !ok {
		return nil, ErrUnknownActor
	}
	res, err := g.SkipMeld(actorID)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventMeldSkipped,
		Payload: MeldSkippedPayload{PlayerID: actorID},
	}}
	return append(events, s.afterMeldEvents(g, res)...), nil
}

// afterMeldEvents emits the draw, last-phase and turn events that follow a
// closed meld window.
func (s *Service) afterMeldEvents(g *domain.Game, res *domain.MeldResult) []Event {
	var events []Event

	if res.GameOver {
		return append(events, gameEndedEvent(g))
	}

	if len(res.Draws) > 0 {
		briefs := make([]DrawBrief, len(res.Draws))
		for i, d := range res.Draws {
			briefs[i] = DrawBrief{PlayerID: d.PlayerID, FromTrumpSlot: d.FromTrumpSlot}
			events = append(events, Event{
				Kind:       EventCardDrawn,
				Payload:    CardDrawnPayload{PlayerID: d.PlayerID, Card: d.Card},
				Recipients: []string{d.PlayerID},
			})
		}
		events = append(events, Event{
			Kind:    EventCardsDrawn,
			Payload: CardsDrawnPayload{Draws: briefs, DeckCount: g.Deck.Remaining()},
		})
	}

	if res.LastPhaseStarted {
		events = append(events, Event{
			Kind:    EventLastPhase,
			Payload: LastPhasePayload{DeckCount: g.Deck.Remaining()},
		})
	}

	return append(events, turnEvent(res.NextPlayer))
}

// SwitchSevenOfTrump exchanges the actor's trump Seven for the up-card.
func (s *Service) SwitchSevenOfTrump(g *domain.Game, actorID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := g.PlayerByID(actorID); !ok {
		return nil, ErrUnknownActor
	}
	res, err := g.SwitchSevenOfTrump(actorID)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventSevenSwitched,
		Payload: SevenSwitchedPayload{PlayerID: actorID, TakenCard: res.TakenCard},
	}}
	if res.GameOver {
		events = append(events, gameEndedEvent(g))
	}
	return events, nil
}

// ForfeitTurn is the turn-timer expiry path: penalty plus the engine-chosen
// fallback action on the actor's behalf.
func (s *Service) ForfeitTurn(g *domain.Game, actorID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := g.PlayerByID(actorID); !ok {
		return nil, ErrUnknownActor
	}
	res, err := g.ForfeitTurn(actorID)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventTurnChanged,
		Payload: TurnChangedPayload{PlayerID: actorID, Forfeit: true, Penalty: res.Penalty},
	}}
	switch {
	case res.Play != nil:
		events = append(events, s.playEvents(g, res.Play)...)
	case res.Skip != nil:
		events = append(events, Event{
			Kind:    EventMeldSkipped,
			Payload: MeldSkippedPayload{PlayerID: actorID},
		})
		events = append(events, s.afterMeldEvents(g, res.Skip)...)
	}
	return events, nil
}

func turnEvent(playerID string) Event {
	return Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{PlayerID: playerID}}
}

func roundEndedEvent(rr *domain.RoundResult) Event {
	return Event{
		Kind: EventRoundEnded,
		Payload: RoundEndedPayload{
			Round:       rr.Round,
			LastTrickTo: rr.LastTrickTo,
			MeldBonuses: rr.MeldBonuses,
			Scores:      rr.Scores,
			Totals:      rr.Totals,
		},
	}
}

func gameEndedEvent(g *domain.Game) Event {
	totals := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		totals[p.ID] = p.Score
	}
	return Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{WinnerID: g.Winner, Totals: totals},
	}
}
