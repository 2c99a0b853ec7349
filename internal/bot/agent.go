package bot

import "bezique/internal/domain"

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// ChooseMove asks the agent to decide its next action for the current state.
func (a *Agent) ChooseMove(game *domain.Game) (Move, error) {
	player, ok := game.PlayerByID(a.ID)
	if !ok {
		// Agent is not part of this game; nothing sensible to do.
		return Move{SkipMeld: true}, nil
	}
	return a.Strategy.ChooseMove(game, player)
}
