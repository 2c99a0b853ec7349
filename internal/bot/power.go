package bot

import "bezique/internal/domain"

// powerKey identifies a cached card-power entry.
type powerKey struct {
	suit  domain.Suit
	rank  domain.Rank
	joker bool
}

// powerTable memoizes the numeric power of every card for a fixed trump
// suit. The trump suit is stable within a round, so the table is owned by a
// single bot instance and rebuilt whenever the trump suit changes.
type powerTable struct {
	trump domain.Suit
	built bool
	table map[powerKey]int
}

// Trump cards outrank all non-trump cards; within a suit, higher rank
// outranks lower. Jokers have no trick-winning power at all.
func (t *powerTable) power(c domain.Card, trump domain.Suit) int {
	if !t.built || t.trump != trump {
		t.rebuild(trump)
	}
	return t.table[powerKey{suit: c.Suit, rank: c.Rank, joker: c.Joker}]
}

func (t *powerTable) rebuild(trump domain.Suit) {
	t.trump = trump
	t.built = true
	t.table = make(map[powerKey]int, 33)
	for s := domain.Spades; s <= domain.Clubs; s++ {
		for r := domain.Seven; r <= domain.Ace; r++ {
			p := 1 + int(r)
			if s == trump {
				p += 100
			}
			t.table[powerKey{suit: s, rank: r}] = p
		}
	}
	t.table[powerKey{joker: true}] = 0
}
