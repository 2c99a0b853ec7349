package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

// Mode selects the rule variant.
type Mode string

const (
	ModeStandard Mode = "standard"
	// ModeAdvanced adds round-end bonuses for Aces and Tens inside declared melds.
	ModeAdvanced Mode = "advanced"
)

// Phase is the lifecycle stage of a game.
type Phase string

const (
	PhaseInit          Phase = "init"
	PhaseDealing       Phase = "dealing"
	PhaseTrumpSelected Phase = "trump_selected"
	PhasePlaying       Phase = "playing"
	PhaseLastPhase     Phase = "last_phase"
	PhaseRoundEnd      Phase = "round_end"
	PhaseEnded         Phase = "ended"
)

const (
	// HandSize is the per-player deal.
	HandSize = 8
	// DealBatch is how many cards go to each player per dealing pass.
	DealBatch = 4
)

var (
	ErrWrongPhase     = errors.New("action not allowed in current phase")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrUnknownPlayer  = errors.New("player not in game")
	ErrCardNotHeld    = errors.New("card not in hand")
	ErrIllegalPlay    = errors.New("card is not a legal play")
	ErrMeldPending    = errors.New("meld decision pending")
	ErrNoMeldWindow   = errors.New("no meld opportunity open")
	ErrInvalidMeld    = errors.New("cards do not form a meld")
	ErrMeldAllReused  = errors.New("every card was already used in a meld")
	ErrMeldDuplicate  = errors.New("exact meld already declared")
	ErrNoTrumpSeven   = errors.New("trump seven not in hand")
	ErrTrumpCardTaken = errors.New("trump card no longer available")
	ErrPlayerCount    = errors.New("player count must be 2 or 4")
	ErrBadTarget      = errors.New("unsupported winning score target")
)

// Game is the authoritative state machine for one table. Players are created
// once per game and reset, not recreated, between rounds.
type Game struct {
	Players []*Player
	Mode    Mode
	Target  int

	Phase       Phase
	Round       int
	Deck        *Deck
	TrumpSuit   Suit
	Trick       *Trick
	RoundScores map[string]int
	Winner      string

	current    int
	dealer     int
	meldWindow string
	rng        *rand.Rand
}

// NewGame creates a game over the given players in turn order.
func NewGame(players []*Player, mode Mode, target int, rng *rand.Rand) (*Game, error) {
	if len(players) != 2 && len(players) != 4 {
		return nil, ErrPlayerCount
	}
	if target == 0 {
		target = DefaultTargetScore
	}
	if !ValidTargetScore(target) {
		return nil, fmt.Errorf("%w: %d", ErrBadTarget, target)
	}
	if mode != ModeStandard && mode != ModeAdvanced {
		mode = ModeStandard
	}
	g := &Game{
		Players:     players,
		Mode:        mode,
		Target:      target,
		Phase:       PhaseInit,
		RoundScores: make(map[string]int),
		dealer:      len(players) - 1,
		rng:         rng,
	}
	players[g.dealer].IsDealer = true
	return g, nil
}

// RoundStart reports the outcome of dealing a new round.
type RoundStart struct {
	Round            int
	TrumpCard        Card
	TrumpSuit        Suit
	DealerSevenBonus bool
	Leader           string
}

// StartRound rebuilds and shuffles the deck, resets per-round player state,
// deals hands in fixed batches in turn order, and flips the trump card. If
// the up-card is the trump Seven the dealer scores its bonus immediately.
func (g *Game) StartRound() (*RoundStart, error) {
	if g.Phase != PhaseInit && g.Phase != PhaseRoundEnd {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	g.Round++
	g.Deck = NewDeck(g.rng)
	g.RoundScores = make(map[string]int)
	g.meldWindow = ""
	for _, p := range g.Players {
		p.ResetRound()
	}

	g.Phase = PhaseDealing
	for dealt := 0; dealt < HandSize; dealt += DealBatch {
		for offset := 1; offset <= len(g.Players); offset++ {
			p := g.Players[(g.dealer+offset)%len(g.Players)]
			for i := 0; i < DealBatch; i++ {
				c, ok := g.Deck.DrawTop()
				if !ok {
					panic("deck exhausted during deal")
				}
				p.Hand = append(p.Hand, c)
			}
		}
	}

	if err := g.Deck.FlipTrumpCard(); err != nil {
		panic("deck exhausted before trump flip")
	}
	up, _ := g.Deck.PeekTrumpCard()
	g.TrumpSuit = up.Suit
	g.Phase = PhaseTrumpSelected

	start := &RoundStart{Round: g.Round, TrumpCard: up, TrumpSuit: g.TrumpSuit}
	if up.Rank == Seven {
		g.addScore(g.Players[g.dealer], SevenOfTrumpBonus)
		start.DealerSevenBonus = true
	}

	g.current = (g.dealer + 1) % len(g.Players)
	g.Trick = NewTrick(len(g.Players))
	if g.Phase != PhaseEnded {
		g.Phase = PhasePlaying
	}
	start.Leader = g.Players[g.current].ID
	return start, nil
}

// CurrentPlayer returns the player whose action is awaited.
func (g *Game) CurrentPlayer() *Player { return g.Players[g.current] }

// Dealer returns the current dealer.
func (g *Game) Dealer() *Player { return g.Players[g.dealer] }

// MeldWindow returns the id of the player holding an open meld opportunity,
// or the empty string.
func (g *Game) MeldWindow() string { return g.meldWindow }

// IsLastPhase reports whether the strict end-of-round rules are in force.
func (g *Game) IsLastPhase() bool { return g.Phase == PhaseLastPhase }

// PlayerByID finds a player by id.
func (g *Game) PlayerByID(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) playerIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// addScore credits points and transitions to game end the moment any player
// reaches the winning target.
func (g *Game) addScore(p *Player, points int) {
	p.Score += points
	g.RoundScores[p.ID] += points
	if points > 0 && g.Winner == "" && p.Score >= g.Target {
		g.Winner = p.ID
		g.Phase = PhaseEnded
	}
}

// Draw records one card moving from the pile (or the trump slot) to a hand.
type Draw struct {
	PlayerID      string
	Card          Card
	FromTrumpSlot bool
}

// PlayResult describes everything that happened as a consequence of one play.
type PlayResult struct {
	PlayerID string
	Card     Card

	TrickComplete bool
	TrickWinner   string
	TrickPoints   int
	TrickPlays    []PlayedCard

	MeldWindow  bool
	RoundEnded  bool
	RoundResult *RoundResult
	GameOver    bool
	NextPlayer  string
}

// PlayCard validates and records a card play for the current player, and
// resolves the trick when it completes. During the normal phase the trick
// winner is granted a meld opportunity; draws happen once that opportunity
// is used or skipped. During the last phase play continues immediately.
func (g *Game) PlayCard(playerID string, card Card) (*PlayResult, error) {
	if g.Phase != PhasePlaying && g.Phase != PhaseLastPhase {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.meldWindow != "" {
		return nil, ErrMeldPending
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if g.CurrentPlayer().ID != playerID {
		return nil, ErrNotYourTurn
	}
	if !p.HasCard(card) {
		return nil, ErrCardNotHeld
	}
	if !IsValidPlay(card, p.Hand, g.Trick, g.TrumpSuit, g.Phase == PhaseLastPhase) {
		return nil, ErrIllegalPlay
	}

	p.RemoveCard(card)
	if err := g.Trick.Add(playerID, card); err != nil {
		panic("trick accepted an invalid play: " + err.Error())
	}

	res := &PlayResult{PlayerID: playerID, Card: card}
	if !g.Trick.IsComplete() {
		g.current = (g.current + 1) % len(g.Players)
		res.NextPlayer = g.CurrentPlayer().ID
		return res, nil
	}

	g.resolveTrick(res)
	return res, nil
}

func (g *Game) resolveTrick(res *PlayResult) {
	plays := g.Trick.Plays()
	lead := g.Trick.LeadSuitOrTrump(g.TrumpSuit)
	winning := DetermineWinner(plays, g.TrumpSuit, lead)
	winner, _ := g.PlayerByID(winning.PlayerID)

	res.TrickComplete = true
	res.TrickWinner = winner.ID
	res.TrickPoints = TrickPoints(plays)
	res.TrickPlays = append([]PlayedCard(nil), plays...)

	lastPhase := g.Phase == PhaseLastPhase
	g.addScore(winner, res.TrickPoints)
	g.current = g.playerIndex(winner.ID)

	if g.Phase == PhaseEnded {
		res.GameOver = true
		return
	}

	if !lastPhase {
		// Melding and drawing wait for the winner's meld decision.
		g.meldWindow = winner.ID
		res.MeldWindow = true
		res.NextPlayer = winner.ID
		return
	}

	g.Trick = NewTrick(len(g.Players))
	if len(winner.Hand) == 0 {
		res.RoundEnded = true
		res.RoundResult = g.finishRound(winner)
		res.GameOver = g.Phase == PhaseEnded
		return
	}
	res.NextPlayer = winner.ID
}

// MeldResult describes the outcome of a meld declaration or skip, including
// the draws that follow it.
type MeldResult struct {
	PlayerID string
	Meld     *Meld
	Points   int

	Draws            []Draw
	LastPhaseStarted bool
	GameOver         bool
	NextPlayer       string
}

// DeclareMeld validates a proposed meld for the player holding the open meld
// window. The declaration must contain at least one card never counted in a
// previous meld and may not repeat an exact earlier declaration. Points are
// awarded immediately and irreversibly.
func (g *Game) DeclareMeld(playerID string, cards []Card) (*MeldResult, error) {
	if g.Phase != PhasePlaying {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.meldWindow != playerID {
		return nil, ErrNoMeldWindow
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if !p.HasCards(cards) {
		return nil, ErrCardNotHeld
	}
	meldType := DetermineMeldType(cards, g.TrumpSuit)
	if meldType == MeldInvalid {
		return nil, ErrInvalidMeld
	}
	if !p.HasNewMeldCard(cards) {
		return nil, ErrMeldAllReused
	}
	if p.HasDeclaredMeld(cards) {
		return nil, ErrMeldDuplicate
	}

	meld := Meld{Type: meldType, Cards: append([]Card(nil), cards...)}
	p.RecordMeld(meld)
	g.addScore(p, meld.Points())
	g.meldWindow = ""

	res := &MeldResult{PlayerID: playerID, Meld: &meld, Points: meld.Points()}
	if g.Phase == PhaseEnded {
		res.GameOver = true
		return res, nil
	}
	g.drawAfterTrick(res)
	return res, nil
}

// SkipMeld closes the meld window without a declaration and triggers the draws.
func (g *Game) SkipMeld(playerID string) (*MeldResult, error) {
	if g.Phase != PhasePlaying {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.meldWindow != playerID {
		return nil, ErrNoMeldWindow
	}
	g.meldWindow = ""
	res := &MeldResult{PlayerID: playerID}
	g.drawAfterTrick(res)
	return res, nil
}

// drawAfterTrick hands out cards after the meld window closes: winner first,
// then the others in seat order. When the pile can no longer serve a full
// draw the remaining pile cards go to the earliest drawers and the held
// trump card to the final one, and the last phase begins.
func (g *Game) drawAfterTrick(res *MeldResult) {
	n := len(g.Players)
	normal := g.Deck.Remaining() >= n
	for offset := 0; offset < n; offset++ {
		p := g.Players[(g.current+offset)%n]
		if c, ok := g.Deck.DrawTop(); ok {
			p.Hand = append(p.Hand, c)
			res.Draws = append(res.Draws, Draw{PlayerID: p.ID, Card: c})
			continue
		}
		c, ok := g.Deck.TakeTrumpCard()
		if !ok {
			panic("no card available for post-trick draw")
		}
		p.Hand = append(p.Hand, c)
		res.Draws = append(res.Draws, Draw{PlayerID: p.ID, Card: c, FromTrumpSlot: true})
	}

	if !normal {
		g.Phase = PhaseLastPhase
		res.LastPhaseStarted = true
	}
	g.Trick = NewTrick(n)
	res.NextPlayer = g.CurrentPlayer().ID
}

// RoundResult carries the closing numbers of a round.
type RoundResult struct {
	Round       int
	LastTrickTo string
	MeldBonuses map[string]int
	Scores      map[string]int
	Totals      map[string]int
	Winner      string
	GameOver    bool
}

// finishRound applies the last-trick bonus, the advanced-mode meld scan, and
// either ends the game or rotates the dealer for the next round.
func (g *Game) finishRound(lastWinner *Player) *RoundResult {
	res := &RoundResult{
		Round:       g.Round,
		LastTrickTo: lastWinner.ID,
		MeldBonuses: make(map[string]int),
	}
	g.addScore(lastWinner, LastTrickBonus)

	if g.Mode == ModeAdvanced {
		for _, p := range g.Players {
			bonus := 0
			for _, m := range p.Melds {
				for _, c := range m.Cards {
					if !c.Joker && (c.Rank == Ace || c.Rank == Ten) {
						bonus += MeldAceTenBonus
					}
				}
			}
			if bonus > 0 {
				res.MeldBonuses[p.ID] = bonus
				g.addScore(p, bonus)
			}
		}
	}

	res.Scores = make(map[string]int, len(g.Players))
	res.Totals = make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		res.Scores[p.ID] = g.RoundScores[p.ID]
		res.Totals[p.ID] = p.Score
	}

	if g.Winner != "" {
		res.Winner = g.Winner
		res.GameOver = true
		return res
	}

	g.Phase = PhaseRoundEnd
	g.Players[g.dealer].IsDealer = false
	g.dealer = (g.dealer + 1) % len(g.Players)
	g.Players[g.dealer].IsDealer = true
	return res
}

// SwitchResult reports a completed seven-of-trump exchange.
type SwitchResult struct {
	PlayerID  string
	TakenCard Card
	GameOver  bool
}

// SwitchSevenOfTrump lets the current player exchange a held trump Seven for
// the face-up trump card, scoring the seven bonus. Only possible during the
// normal phase while the trump slot is occupied.
func (g *Game) SwitchSevenOfTrump(playerID string) (*SwitchResult, error) {
	if g.Phase != PhasePlaying {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if g.CurrentPlayer().ID != playerID && g.meldWindow != playerID {
		return nil, ErrNotYourTurn
	}
	seven := Card{Suit: g.TrumpSuit, Rank: Seven}
	if !p.HasCard(seven) {
		return nil, ErrNoTrumpSeven
	}
	up, ok := g.Deck.PeekTrumpCard()
	if !ok {
		return nil, ErrTrumpCardTaken
	}
	if up == seven {
		// Swapping a seven for the flipped seven is pointless.
		return nil, ErrTrumpCardTaken
	}

	p.ReplaceCard(seven, up)
	g.Deck.SwapTrumpCard(seven)
	g.addScore(p, SevenOfTrumpBonus)

	return &SwitchResult{PlayerID: playerID, TakenCard: up, GameOver: g.Phase == PhaseEnded}, nil
}

// ForfeitResult reports a timer-driven forfeiture: the penalty plus whatever
// fallback action the engine took on the player's behalf.
type ForfeitResult struct {
	PlayerID string
	Penalty  int
	Play     *PlayResult
	Skip     *MeldResult
}

// ForfeitTurn is the turn-timer expiry path. It deducts the timeout penalty
// and either skips the pending meld window or plays the lowest legal card.
// Forfeiture is a phase transition, not an error.
func (g *Game) ForfeitTurn(playerID string) (*ForfeitResult, error) {
	if g.Phase != PhasePlaying && g.Phase != PhaseLastPhase {
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if g.meldWindow != playerID && g.CurrentPlayer().ID != playerID {
		return nil, ErrNotYourTurn
	}

	p.Score -= TimeoutPenalty
	g.RoundScores[p.ID] -= TimeoutPenalty
	res := &ForfeitResult{PlayerID: playerID, Penalty: TimeoutPenalty}

	if g.meldWindow == playerID {
		skip, err := g.SkipMeld(playerID)
		if err != nil {
			return nil, err
		}
		res.Skip = skip
		return res, nil
	}

	fallback, ok := g.lowestLegalCard(p)
	if !ok {
		panic("current player has no legal card to forfeit with")
	}
	play, err := g.PlayCard(playerID, fallback)
	if err != nil {
		return nil, err
	}
	res.Play = play
	return res, nil
}

func (g *Game) lowestLegalCard(p *Player) (Card, bool) {
	var best Card
	found := false
	for _, c := range p.Hand {
		if !IsValidPlay(c, p.Hand, g.Trick, g.TrumpSuit, g.Phase == PhaseLastPhase) {
			continue
		}
		if !found || c.Less(best) {
			best = c
			found = true
		}
	}
	return best, found
}
