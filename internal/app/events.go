package app

import "bezique/internal/domain"

// EventKind identifies emitted domain events for dispatch to the
// presentation/transport layer.
type EventKind string

const (
	EventGameStarted     EventKind = "game_started"
	EventHandDealt       EventKind = "hand_dealt"
	EventTrumpDetermined EventKind = "trump_determined"
	EventCardPlayed      EventKind = "card_played"
	EventTrickResolved   EventKind = "trick_resolved"
	EventMeldDeclared    EventKind = "meld_declared"
	EventMeldSkipped     EventKind = "meld_skipped"
	EventSevenSwitched   EventKind = "seven_switched"
	EventCardsDrawn      EventKind = "cards_drawn"
	EventCardDrawn       EventKind = "card_drawn" // private: the drawn card itself
	EventLastPhase       EventKind = "last_phase"
	EventTurnChanged     EventKind = "turn_changed"
	EventRoundEnded      EventKind = "round_ended"
	EventGameEnded       EventKind = "game_ended"
	EventError           EventKind = "error"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type GameStartedPayload struct {
	Round    int           `json:"round"`
	Mode     domain.Mode   `json:"mode"`
	Target   int           `json:"target"`
	DealerID string        `json:"dealer_id"`
	LeaderID string        `json:"leader_id"`
	Players  []PlayerBrief `json:"players"`
}

// PlayerBrief is the public sliver of a player used inside payloads.
type PlayerBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	IsBot bool   `json:"is_bot"`
}

type HandDealtPayload struct {
	PlayerID string        `json:"player_id"`
	Hand     []domain.Card `json:"hand"`
}

type TrumpDeterminedPayload struct {
	TrumpSuit        domain.Suit `json:"trump_suit"`
	TrumpCard        domain.Card `json:"trump_card"`
	DealerSevenBonus bool        `json:"dealer_seven_bonus"`
}

type CardPlayedPayload struct {
	PlayerID string      `json:"player_id"`
	Card     domain.Card `json:"card"`
}

type TrickResolvedPayload struct {
	WinnerID   string              `json:"winner_id"`
	Points     int                 `json:"points"`
	Plays      []domain.PlayedCard `json:"plays"`
	MeldWindow bool                `json:"meld_window"`
}

type MeldDeclaredPayload struct {
	PlayerID string        `json:"player_id"`
	MeldType string        `json:"meld_type"`
	Cards    []domain.Card `json:"cards"`
	Points   int           `json:"points"`
}

type MeldSkippedPayload struct {
	PlayerID string `json:"player_id"`
}

type SevenSwitchedPayload struct {
	PlayerID  string      `json:"player_id"`
	TakenCard domain.Card `json:"taken_card"`
}

// DrawBrief is the public record of one draw: who drew and from where, the
// card itself travels only in the private CardDrawn event.
type DrawBrief struct {
	PlayerID      string `json:"player_id"`
	FromTrumpSlot bool   `json:"from_trump_slot"`
}

type CardsDrawnPayload struct {
	Draws     []DrawBrief `json:"draws"`
	DeckCount int         `json:"deck_count"`
}

type CardDrawnPayload struct {
	PlayerID string      `json:"player_id"`
	Card     domain.Card `json:"card"`
}

type LastPhasePayload struct {
	DeckCount int `json:"deck_count"`
}

type TurnChangedPayload struct {
	PlayerID string `json:"player_id"`
	Forfeit  bool   `json:"forfeit,omitempty"` // previous turn ended by timeout
	Penalty  int    `json:"penalty,omitempty"`
}

type RoundEndedPayload struct {
	Round       int            `json:"round"`
	LastTrickTo string         `json:"last_trick_to"`
	MeldBonuses map[string]int `json:"meld_bonuses,omitempty"`
	Scores      map[string]int `json:"scores"`
	Totals      map[string]int `json:"totals"`
}

type GameEndedPayload struct {
	WinnerID string         `json:"winner_id"`
	Totals   map[string]int `json:"totals"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
