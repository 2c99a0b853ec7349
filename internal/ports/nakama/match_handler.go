package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"bezique/internal/app"
	"bezique/internal/bot"
	"bezique/internal/config"
	"bezique/internal/domain"
	"bezique/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// nextRoundDelayTicks is how long the round-end scoreboard stays up before
// the next round is dealt automatically.
const nextRoundDelayTicks = 5

// matchLabel is the JSON document indexed for match listing queries.
type matchLabel struct {
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Open  bool   `json:"open"`
	Seats int    `json:"seats"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string                   `json:"seats"`      // user IDs, empty string means the seat is free
	OwnerSeat int                         `json:"owner_seat"` // seat index of the match owner
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // user ID -> presence for targeted messaging
	App       *app.Service                `json:"-"`
	Game      *domain.Game                `json:"-"` // nil while in the lobby

	StakeTier string `json:"stake_tier"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`       // min seconds a bot waits before acting
	BotMaxDelay          int                   `json:"bot_max_delay"`       // max seconds a bot waits before acting
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"` // seconds before seating a bot opposite a solo human
	BotWaitUntil         int64                 `json:"bot_wait_until"`      // tick when the scheduled bot acts
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	TurnSeconds      int    `json:"turn_seconds"`
	TurnDeadlineTick int64  `json:"turn_deadline_tick"` // tick at which the waiting actor forfeits
	LastActorID      string `json:"last_actor_id"`
	NextRoundTick    int64  `json:"next_round_tick"` // tick at which the next round deals, 0 when unset

	Economy ports.EconomyPort `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userID := seats[seatIndex]
	return userID != "" && !bot.IsBot(userID)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

// waitingActorID resolves whose action the game is waiting on: the meld
// window owner when one is open, the player whose turn it is otherwise.
func waitingActorID(g *domain.Game) string {
	if g == nil {
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

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	identitiesPath := "data/bot_identities.json"
	if cfg := config.GetGameConfig(); cfg != nil && cfg.BotIdentitiesPath != "" {
		identitiesPath = cfg.BotIdentitiesPath
	}
	if err := bot.LoadIdentities(identitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	state := &MatchState{
		OwnerSeat:   -1,
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		Bots:        make(map[string]*bot.Agent),
		Economy:     NewNakamaEconomyAdapter(nk),
		TurnSeconds: config.GetTurnDurationSeconds(),
	}
	if cfg := config.GetGameConfig(); cfg != nil {
		state.BotMinDelay = cfg.BotMinDelayMs / 1000
		state.BotMaxDelay = cfg.BotMaxDelayMs / 1000
		state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["bezique_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["bezique_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["bezique_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["bezique_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	label, err := json.Marshal(matchLabel{Game: "bezique", Phase: "lobby", Open: true, Seats: 0})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(label)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A returning player may reclaim their seat mid-game.
	for _, seat := range matchState.Seats {
		if seat == presence.GetUserId() {
			return state, true, ""
		}
	}

	// Otherwise allow join if there is an empty seat or, pre-game, a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for _, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				assigned = true // rejoin, seat kept
				break
			}
		}

		if !assigned {
			for i, seatUserID := range matchState.Seats {
				if seatUserID == "" {
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
			continue
		}

		// Catch a mid-game joiner up on the state they missed.
		if matchState.Game != nil {
			mh.sendSnapshot(matchState, dispatcher, logger, p.GetUserId())
		}
	}

	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// Mid-game the seat is kept so the player can rejoin; their turns
		// fall to the forfeit timer meanwhile. In the lobby the seat frees up.
		if matchState.Game == nil {
			for i, seatUserID := range matchState.Seats {
				if seatUserID == p.GetUserId() {
					matchState.Seats[i] = ""
					logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
					break
				}
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpDeclareMeld:
			mh.handleDeclareMeld(ctx, matchState, dispatcher, logger, msg)
		case OpSkipMeld:
			mh.handleSkipMeld(ctx, matchState, dispatcher, logger, msg)
		case OpSwitchSeven:
			mh.handleSwitchSeven(ctx, matchState, dispatcher, logger, msg)
		case OpRequestState:
			mh.sendSnapshot(matchState, dispatcher, logger, msg.GetUserId())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	mh.processTurnTimer(ctx, matchState, dispatcher, logger)
	mh.processNextRound(ctx, matchState, dispatcher, logger)
	mh.trackActor(matchState)

	return matchState
}

// trackActor resets the turn deadline and bot schedule whenever the actor
// the game waits on changes.
func (mh *matchHandler) trackActor(state *MatchState) {
	actor := waitingActorID(state.Game)
	if actor == state.LastActorID {
		return
	}
	state.LastActorID = actor
	state.BotWaitUntil = 0
	if actor == "" {
		state.TurnDeadlineTick = 0
		return
	}
	state.TurnDeadlineTick = state.Tick + int64(state.TurnSeconds)
}

// processTurnTimer forfeits the waiting actor's turn when the deadline
// passes. Bots normally act well before this fires, so it also serves as a
// backstop against a stuck agent.
func (mh *matchHandler) processTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.TurnDeadlineTick == 0 || state.Tick < state.TurnDeadlineTick {
		return
	}
	actor := waitingActorID(state.Game)
	if actor == "" {
		state.TurnDeadlineTick = 0
		return
	}

	logger.Info("processTurnTimer: Actor %s timed out, forfeiting turn.", actor)
	events, err := state.App.ForfeitTurn(state.Game, actor)
	if err != nil {
		logger.Error("processTurnTimer: Forfeit for %s failed: %v", actor, err)
		state.TurnDeadlineTick = 0
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// processNextRound deals the next round a few seconds after a round ends
// without a game winner.
func (mh *matchHandler) processNextRound(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Phase != domain.PhaseRoundEnd {
		state.NextRoundTick = 0
		return
	}
	if state.NextRoundTick == 0 {
		state.NextRoundTick = state.Tick + nextRoundDelayTicks
		return
	}
	if state.Tick < state.NextRoundTick {
		return
	}
	state.NextRoundTick = 0

	events, err := state.App.StartNextRound(state.Game)
	if err != nil {
		logger.Error("processNextRound: Failed to deal next round: %v", err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Seat a bot opposite a solo human after the auto-fill delay.
	if state.Game == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 && state.GetOccupiedSeatCount() < app.MinPlayersToStartGame {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					botID := identity.UserID
					state.Seats[i] = botID

					agent, err := bot.NewAgent(botID)
					if err != nil {
						logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
						state.Seats[i] = ""
						break
					}
					state.Bots[botID] = agent

					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.DisplayName, botID, i)
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastLobbyState(state, dispatcher, logger)
					break
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// In-game: act for the bot the game is waiting on, after a small delay.
	actorID := waitingActorID(state.Game)
	if actorID == "" || !bot.IsBot(actorID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", actorID, state.BotWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[actorID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(actorID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[actorID] = agent
	}

	move, err := agent.ChooseMove(state.Game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to choose a move: %v", actorID, err)
		return
	}

	var events []app.Event
	switch {
	case move.PlayCard != nil:
		events, err = state.App.PlayCard(state.Game, actorID, *move.PlayCard)
	case move.DeclareMeld != nil:
		events, err = state.App.DeclareMeld(state.Game, actorID, move.DeclareMeld)
	case move.SkipMeld:
		events, err = state.App.SkipMeld(state.Game, actorID)
	case move.SwitchSeven:
		events, err = state.App.SwitchSevenOfTrump(state.Game, actorID)
	default:
		logger.Error("processBots: Bot %s returned an empty move.", actorID)
		return
	}
	if err != nil {
		logger.Error("processBots: Bot %s move rejected: %v", actorID, err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// startGameRequest is the OpStartGame payload.
type startGameRequest struct {
	Mode   string `json:"mode,omitempty"`
	Target int    `json:"target,omitempty"`
	Tier   string `json:"tier,omitempty"`
}

type playCardRequest struct {
	Card domain.Card `json:"card"`
}

type declareMeldRequest struct {
	Cards []domain.Card `json:"cards"`
}

// lobbyStatePayload is broadcast whenever seating changes outside a game.
type lobbyStatePayload struct {
	Seats     []lobbySeat `json:"seats"`
	OwnerSeat int         `json:"owner_seat"`
	Phase     string      `json:"phase"`
}

type lobbySeat struct {
	Seat        int    `json:"seat"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsOwner     bool   `json:"is_owner"`
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := seatOf(state, senderID)

	logger.Info("StartGame: Request from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil && state.Game.Phase != domain.PhaseEnded {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game already in progress")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the table owner can start the game")
		return
	}

	var request startGameRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "invalid start request")
			return
		}
	}

	seats := make([]app.Seat, 0, len(state.Seats))
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		seats = append(seats, app.Seat{
			ID:    userID,
			Name:  displayNameFor(state, userID),
			IsBot: bot.IsBot(userID),
		})
	}

	modeName := request.Mode
	if modeName == "" {
		if cfg := config.GetGameConfig(); cfg != nil {
			modeName = cfg.DefaultMode
		}
	}
	mode := domain.ModeStandard
	if modeName == string(domain.ModeAdvanced) {
		mode = domain.ModeAdvanced
	}
	target := config.GetTargetScore(request.Target)

	game, events, err := state.App.StartGame(seats, mode, target)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	state.StakeTier = request.Tier
	state.LastActorID = ""

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: Game started with %d players, target %d.", len(seats), target)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}

	var request playCardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCard: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid play request")
		return
	}

	events, err := state.App.PlayCard(state.Game, senderID, request.Card)
	if err != nil {
		logger.Warn("handlePlayCard: User %s failed to play %v: %v", senderID, request.Card, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleDeclareMeld(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}

	var request declareMeldRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleDeclareMeld: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid meld request")
		return
	}

	events, err := state.App.DeclareMeld(state.Game, senderID, request.Cards)
	if err != nil {
		logger.Warn("handleDeclareMeld: User %s failed to declare meld: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleSkipMeld(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}

	events, err := state.App.SkipMeld(state.Game, senderID)
	if err != nil {
		logger.Warn("handleSkipMeld: User %s failed to skip meld: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleSwitchSeven(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}

	events, err := state.App.SwitchSevenOfTrump(state.Game, senderID)
	if err != nil {
		logger.Warn("handleSwitchSeven: User %s failed to switch seven: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// eventOpCodes maps app events to wire opcodes.
var eventOpCodes = map[app.EventKind]int64{
	app.EventGameStarted:     OpGameStarted,
	app.EventHandDealt:       OpHandDealt,
	app.EventTrumpDetermined: OpTrumpDetermined,
	app.EventCardPlayed:      OpCardPlayed,
	app.EventTrickResolved:   OpTrickResolved,
	app.EventMeldDeclared:    OpMeldDeclared,
	app.EventMeldSkipped:     OpMeldSkipped,
	app.EventSevenSwitched:   OpSevenSwitched,
	app.EventCardsDrawn:      OpCardsDrawn,
	app.EventCardDrawn:       OpCardDrawn,
	app.EventLastPhase:       OpLastPhase,
	app.EventTurnChanged:     OpTurnChanged,
	app.EventRoundEnded:      OpRoundEnded,
	app.EventGameEnded:       OpGameEnded,
	app.EventError:           OpError,
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	// Every accepted action restarts the turn clock, even when the same
	// player stays the waiting actor (a trick won as follower chains play,
	// meld window and next lead under one ID).
	state.LastActorID = ""

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent dispatches one app event to its recipients, running the
// game-over settlement as a side effect of the final event.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Targeted events whose recipients are all offline (bots) must not
		// fall back to a broadcast: they carry private hands.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)

	if ev.Kind == app.EventGameEnded {
		if payload, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settleGame(ctx, state, dispatcher, logger, payload.WinnerID)
		}
	}
}

// settleGame applies the table stakes to the humans' wallets and returns the
// match to the lobby.
func (mh *matchHandler) settleGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, winnerID string) {
	stake := config.GetStake(state.StakeTier)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	var updates []ports.WalletUpdate
	var pot int64
	for _, userID := range state.Seats {
		if userID == "" || userID == winnerID || bot.IsBot(userID) {
			continue
		}
		if state.Game != nil {
			if _, ok := state.Game.PlayerByID(userID); !ok {
				continue
			}
		}
		pot += stake
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: -stake,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "game_settlement",
			},
		})
	}

	if winnerID != "" && !bot.IsBot(winnerID) && pot > 0 {
		payout := pot
		if cfg := config.GetGameConfig(); cfg != nil && cfg.RakeRate > 0 {
			payout = int64(float64(pot) * (1 - cfg.RakeRate))
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: winnerID,
			Amount: payout,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "game_settlement",
			},
		})
	}

	if state.Economy != nil && len(updates) > 0 {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settleGame: Failed to update balances: %v", err)
		}
	}

	state.Game = nil
	state.TurnDeadlineTick = 0
	state.LastActorID = ""

	// Humans who disconnected mid-game kept their seat for a possible
	// rejoin; back in the lobby those seats free up.
	for i, userID := range state.Seats {
		if userID == "" || bot.IsBot(userID) {
			continue
		}
		if _, connected := state.Presences[userID]; !connected {
			state.Seats[i] = ""
		}
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

// sendSnapshot sends the requesting user their filtered view of the game.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	if state.Game == nil {
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}

	snap := app.BuildSnapshot(state.Game, userID)
	bytes, err := json.Marshal(snap)
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpSnapshot, bytes, []runtime.Presence{presence}, nil, true)
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload := app.ErrorPayload{Code: code, Message: message}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	payload := lobbyStatePayload{OwnerSeat: state.OwnerSeat, Phase: "lobby"}
	if state.Game != nil {
		payload.Phase = string(state.Game.Phase)
	}
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		payload.Seats = append(payload.Seats, lobbySeat{
			Seat:        i,
			UserID:      userID,
			DisplayName: displayNameFor(state, userID),
			IsBot:       bot.IsBot(userID),
			IsOwner:     i == state.OwnerSeat,
		})
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastLobbyState: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpLobbyState, bytes, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
	}

	label := matchLabel{
		Game:  "bezique",
		Phase: phase,
		Open:  state.Game == nil && state.GetOpenSeatsCount() > 0,
		Seats: state.GetOccupiedSeatCount(),
	}
	bytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(bytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func seatOf(state *MatchState, userID string) int {
	for i, seatUserID := range state.Seats {
		if seatUserID == userID {
			return i
		}
	}
	return -1
}

func displayNameFor(state *MatchState, userID string) string {
	if p, exists := state.Presences[userID]; exists {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
