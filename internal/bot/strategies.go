package bot

import "bezique/internal/domain"

// StandardBot is the default opponent policy. It drains trumps when holding
// three or more, follows with the cheapest card that still wins the trick,
// and always declares the highest-point meld available.
type StandardBot struct {
	powers powerTable
}

// NewStandardBot creates a standard-strength brain with its own power cache.
func NewStandardBot() *StandardBot {
	return &StandardBot{}
}

func (b *StandardBot) ChooseMove(game *domain.Game, player *domain.Player) (Move, error) {
	if game.MeldWindow() == player.ID {
		return meldDecision(game, player), nil
	}

	// Grab the up-card for a held trump Seven before leading.
	if canSwitchSeven(game, player) {
		return Move{SwitchSeven: true}, nil
	}

	trump := game.TrumpSuit
	legal := legalCards(game, player)
	if len(legal) == 0 {
		// Cannot happen: some card is always legal once it is our turn.
		return Move{}, domain.ErrIllegalPlay
	}

	if game.Trick.Len() == 0 {
		c := b.chooseLead(player.Hand, trump)
		return Move{PlayCard: &c}, nil
	}

	if c, ok := b.cheapestWinner(game, legal); ok {
		return Move{PlayCard: &c}, nil
	}
	c := b.chooseDiscard(legal, trump)
	return Move{PlayCard: &c}, nil
}

// chooseLead picks the opening card of a trick: trump when holding three or
// more, otherwise the strongest non-trump suit by summed power, falling back
// to the single highest non-trump card.
func (b *StandardBot) chooseLead(hand []domain.Card, trump domain.Suit) domain.Card {
	if countSuit(hand, trump) >= 3 {
		return b.highestOfSuit(hand, trump)
	}

	bestSuit, bestSum := trump, -1
	for s := domain.Spades; s <= domain.Clubs; s++ {
		if s == trump {
			continue
		}
		sum := 0
		for _, c := range hand {
			if !c.Joker && c.Suit == s {
				sum += b.powers.power(c, trump)
			}
		}
		if sum > bestSum {
			bestSuit, bestSum = s, sum
		}
	}
	if bestSum > 0 {
		return b.highestOfSuit(hand, bestSuit)
	}

	// Nothing but trumps and jokers left.
	best := hand[0]
	for _, c := range hand[1:] {
		if b.powers.power(c, trump) > b.powers.power(best, trump) {
			best = c
		}
	}
	return best
}

// cheapestWinner returns the lowest-power legal card that would currently
// win the trick.
func (b *StandardBot) cheapestWinner(game *domain.Game, legal []domain.Card) (domain.Card, bool) {
	trump := game.TrumpSuit
	plays := game.Trick.Plays()
	lead := game.Trick.LeadSuitOrTrump(trump)

	var best domain.Card
	found := false
	for _, c := range legal {
		candidate := append(append([]domain.PlayedCard(nil), plays...), domain.PlayedCard{PlayerID: "_", Card: c})
		if domain.DetermineWinner(candidate, trump, lead).PlayerID != "_" {
			continue
		}
		if !found || b.powers.power(c, trump) < b.powers.power(best, trump) {
			best = c
			found = true
		}
	}
	return best, found
}

// chooseDiscard throws the trump Seven for its bonus value, else the lowest
// card that is not an Ace or Ten, else the lowest card outright.
func (b *StandardBot) chooseDiscard(legal []domain.Card, trump domain.Suit) domain.Card {
	seven := domain.Card{Suit: trump, Rank: domain.Seven}
	var lowest, lowestCheap domain.Card
	haveLowest, haveCheap := false, false
	for _, c := range legal {
		if c == seven {
			return c
		}
		if !haveLowest || b.powers.power(c, trump) < b.powers.power(lowest, trump) {
			lowest = c
			haveLowest = true
		}
		if c.Joker || c.Rank == domain.Ace || c.Rank == domain.Ten {
			continue
		}
		if !haveCheap || b.powers.power(c, trump) < b.powers.power(lowestCheap, trump) {
			lowestCheap = c
			haveCheap = true
		}
	}
	if haveCheap {
		return lowestCheap
	}
	return lowest
}

func (b *StandardBot) highestOfSuit(hand []domain.Card, suit domain.Suit) domain.Card {
	var best domain.Card
	found := false
	for _, c := range hand {
		if c.Joker || c.Suit != suit {
			continue
		}
		if !found || c.Rank > best.Rank {
			best = c
			found = true
		}
	}
	return best
}

// EasyBot plays the lowest legal card and never fights for tricks, but it
// still takes every meld it sees: leaving meld points on the table reads as
// broken, not easy.
type EasyBot struct {
	powers powerTable
}

func (b *EasyBot) ChooseMove(game *domain.Game, player *domain.Player) (Move, error) {
	if game.MeldWindow() == player.ID {
		return meldDecision(game, player), nil
	}

	legal := legalCards(game, player)
	if len(legal) == 0 {
		return Move{}, domain.ErrIllegalPlay
	}
	lowest := legal[0]
	for _, c := range legal[1:] {
		if b.powers.power(c, game.TrumpSuit) < b.powers.power(lowest, game.TrumpSuit) {
			lowest = c
		}
	}
	return Move{PlayCard: &lowest}, nil
}

// meldDecision declares the highest-point meld that passes the reuse and
// duplicate rules, or skips.
func meldDecision(game *domain.Game, player *domain.Player) Move {
	for _, m := range domain.FindAllPossibleMelds(player.Hand, game.TrumpSuit) {
		if !player.HasNewMeldCard(m.Cards) || player.HasDeclaredMeld(m.Cards) {
			continue
		}
		return Move{DeclareMeld: m.Cards}
	}
	return Move{SkipMeld: true}
}

func canSwitchSeven(game *domain.Game, player *domain.Player) bool {
	if game.Phase != domain.PhasePlaying || !game.Deck.HasTrumpCard() {
		return false
	}
	seven := domain.Card{Suit: game.TrumpSuit, Rank: domain.Seven}
	up, _ := game.Deck.PeekTrumpCard()
	return up != seven && player.HasCard(seven)
}

func legalCards(game *domain.Game, player *domain.Player) []domain.Card {
	var legal []domain.Card
	for _, c := range player.Hand {
		if domain.IsValidPlay(c, player.Hand, game.Trick, game.TrumpSuit, game.IsLastPhase()) {
			legal = append(legal, c)
		}
	}
	return legal
}

func countSuit(hand []domain.Card, suit domain.Suit) int {
	n := 0
	for _, c := range hand {
		if !c.Joker && c.Suit == suit {
			n++
		}
	}
	return n
}
