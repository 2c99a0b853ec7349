package app

import "bezique/internal/domain"

// PlayerSnapshot is one player's entry in a snapshot. Hand is populated only
// for the requesting player; everyone else sees the count.
type PlayerSnapshot struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Seat            int           `json:"seat"`
	Score           int           `json:"score"`
	IsDealer        bool          `json:"is_dealer"`
	IsBot           bool          `json:"is_bot"`
	HandCount       int           `json:"hand_count"`
	Hand            []domain.Card `json:"hand,omitempty"`
	Melds           []domain.Meld `json:"melds,omitempty"`
	MeldedCardCount int           `json:"melded_card_count"`
}

// TrickSnapshot shows the in-progress trick.
type TrickSnapshot struct {
	Plays      []domain.PlayedCard `json:"plays"`
	Count      int                 `json:"count"`
	IsComplete bool                `json:"is_complete"`
}

// Snapshot is the per-requester filtered view of a game.
type Snapshot struct {
	State          string           `json:"state"`
	Round          int              `json:"round"`
	Mode           domain.Mode      `json:"mode"`
	Target         int              `json:"target"`
	Players        []PlayerSnapshot `json:"players"`
	TrumpSuit      domain.Suit      `json:"trump_suit"`
	TrumpCard      *domain.Card     `json:"trump_card,omitempty"`
	CurrentTrick   TrickSnapshot    `json:"current_trick"`
	CurrentActorID string           `json:"current_actor_id,omitempty"`
	MeldWindowID   string           `json:"meld_window_id,omitempty"`
	DealerID       string           `json:"dealer_id"`
	DeckCount      int              `json:"deck_count"`
	IsLastPhase    bool             `json:"is_last_phase"`
	LeadSuit       *domain.Suit     `json:"lead_suit,omitempty"`
	RoundScores    map[string]int   `json:"round_scores"`
	WinnerID       string           `json:"winner_id,omitempty"`
}

// BuildSnapshot produces the view of the game as seen by requesterID. The
// requester's own hand is shown fully; other hands only as a count. The
// face-up trump card and declared melds are public information.
func BuildSnapshot(g *domain.Game, requesterID string) Snapshot {
	snap := Snapshot{
		State:          string(g.Phase),
		Round:          g.Round,
		Mode:           g.Mode,
		Target:         g.Target,
		CurrentActorID: currentActorID(g),
		MeldWindowID:   g.MeldWindow(),
		DealerID:       g.Dealer().ID,
		IsLastPhase:    g.IsLastPhase(),
		WinnerID:       g.Winner,
		RoundScores:    make(map[string]int, len(g.Players)),
	}

	for id, score := range g.RoundScores {
		snap.RoundScores[id] = score
	}

	if g.Deck != nil {
		snap.DeckCount = g.Deck.Remaining()
		if up, ok := g.Deck.PeekTrumpCard(); ok {
			card := up
			snap.TrumpCard = &card
		}
	}
	snap.TrumpSuit = g.TrumpSuit

	if g.Trick != nil {
		plays := append([]domain.PlayedCard(nil), g.Trick.Plays()...)
		snap.CurrentTrick = TrickSnapshot{
			Plays:      plays,
			Count:      g.Trick.Len(),
			IsComplete: g.Trick.IsComplete(),
		}
		if lead, ok := g.Trick.LeadSuit(); ok {
			suit := lead
			snap.LeadSuit = &suit
		}
	}

	snap.Players = make([]PlayerSnapshot, len(g.Players))
	for i, p := range g.Players {
		ps := PlayerSnapshot{
			ID:              p.ID,
			Name:            p.Name,
			Seat:            p.Seat,
			Score:           p.Score,
			IsDealer:        p.IsDealer,
			IsBot:           p.IsBot,
			HandCount:       len(p.Hand),
			Melds:           append([]domain.Meld(nil), p.Melds...),
			MeldedCardCount: len(p.MeldedCards),
		}
		if p.ID == requesterID {
			ps.Hand = append([]domain.Card(nil), p.Hand...)
		}
		snap.Players[i] = ps
	}
	return snap
}
