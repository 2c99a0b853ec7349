package bot

import "bezique/internal/domain"

// Move is the decision a brain returns for the state it was shown. Exactly
// one of the fields is set.
type Move struct {
	PlayCard    *domain.Card
	DeclareMeld []domain.Card
	SkipMeld    bool
	SwitchSeven bool
}

// Brain is the interface all bot strategies implement. ChooseMove is called
// with the game and the bot's own player; it must only ever construct legal
// actions, the engine treats a brain's rule violation as a hard failure.
type Brain interface {
	ChooseMove(game *domain.Game, player *domain.Player) (Move, error)
}
