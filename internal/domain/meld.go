package domain

import "sort"

// MeldType is the closed catalogue of declarable combinations.
type MeldType int

const (
	MeldInvalid MeldType = iota
	MeldTrumpSeven
	MeldMarriage
	MeldTrumpMarriage
	MeldBezique
	MeldDoubleBezique
	MeldFourJacks
	MeldFourQueens
	MeldFourKings
	MeldFourAces
	MeldTrumpRun
)

var meldPoints = map[MeldType]int{
	MeldTrumpSeven:    10,
	MeldMarriage:      20,
	MeldTrumpMarriage: 40,
	MeldBezique:       40,
	MeldDoubleBezique: 500,
	MeldFourJacks:     40,
	MeldFourQueens:    60,
	MeldFourKings:     80,
	MeldFourAces:      100,
	MeldTrumpRun:      250,
}

var meldNames = map[MeldType]string{
	MeldInvalid:       "invalid",
	MeldTrumpSeven:    "trump_seven",
	MeldMarriage:      "marriage",
	MeldTrumpMarriage: "trump_marriage",
	MeldBezique:       "bezique",
	MeldDoubleBezique: "double_bezique",
	MeldFourJacks:     "four_jacks",
	MeldFourQueens:    "four_queens",
	MeldFourKings:     "four_kings",
	MeldFourAces:      "four_aces",
	MeldTrumpRun:      "trump_run",
}

func (t MeldType) String() string { return meldNames[t] }

// Points returns the fixed score for a meld type, 0 for invalid.
func (t MeldType) Points() int { return meldPoints[t] }

// Meld is a declared combination. Points are derived from the type.
type Meld struct {
	Type  MeldType `json:"type"`
	Cards []Card   `json:"cards"`
}

// Points returns the score awarded for declaring this meld.
func (m Meld) Points() int { return m.Type.Points() }

// fourOfRank maps each meldable rank to its four-of-a-kind type.
var fourOfRank = map[Rank]MeldType{
	Jack:  MeldFourJacks,
	Queen: MeldFourQueens,
	King:  MeldFourKings,
	Ace:   MeldFourAces,
}

// DetermineMeldType classifies an arbitrary card set into exactly one meld
// type, or MeldInvalid. Classification is driven by cardinality and then by
// suit/rank predicates; jokers only ever substitute inside four-of-a-kind
// melds.
func DetermineMeldType(cards []Card, trump Suit) MeldType {
	switch len(cards) {
	case 1:
		c := cards[0]
		if !c.Joker && c.Rank == Seven && c.Suit == trump {
			return MeldTrumpSeven
		}
	case 2:
		return classifyPair(cards[0], cards[1], trump)
	case 4:
		if isDoubleBezique(cards) {
			return MeldDoubleBezique
		}
		return classifyFour(cards)
	case 5:
		if isTrumpRun(cards, trump) {
			return MeldTrumpRun
		}
	}
	return MeldInvalid
}

// IsValidMeld reports whether the card set forms any meld at all.
func IsValidMeld(cards []Card, trump Suit) bool {
	return DetermineMeldType(cards, trump) != MeldInvalid
}

func classifyPair(a, b Card, trump Suit) MeldType {
	if a.Joker || b.Joker {
		return MeldInvalid
	}
	// King + Queen of one suit is a marriage.
	if a.Suit == b.Suit {
		if (a.Rank == King && b.Rank == Queen) || (a.Rank == Queen && b.Rank == King) {
			if a.Suit == trump {
				return MeldTrumpMarriage
			}
			return MeldMarriage
		}
	}
	if isBeziquePair(a, b) {
		return MeldBezique
	}
	return MeldInvalid
}

func isBeziquePair(a, b Card) bool {
	if isQueenOfSpades(a) && isJackOfDiamonds(b) {
		return true
	}
	return isQueenOfSpades(b) && isJackOfDiamonds(a)
}

func isQueenOfSpades(c Card) bool  { return !c.Joker && c.Rank == Queen && c.Suit == Spades }
func isJackOfDiamonds(c Card) bool { return !c.Joker && c.Rank == Jack && c.Suit == Diamonds }

func isDoubleBezique(cards []Card) bool {
	queens, jacks := 0, 0
	for _, c := range cards {
		switch {
		case isQueenOfSpades(c):
			queens++
		case isJackOfDiamonds(c):
			jacks++
		default:
			return false
		}
	}
	return queens == 2 && jacks == 2
}

// classifyFour recognizes four-of-a-kind sets of Jacks, Queens, Kings or
// Aces. Jokers may stand in for missing cards, but at least one real card
// must name the rank.
func classifyFour(cards []Card) MeldType {
	var rank Rank
	real, jokers := 0, 0
	for _, c := range cards {
		if c.Joker {
			jokers++
			continue
		}
		if real == 0 {
			rank = c.Rank
		} else if c.Rank != rank {
			return MeldInvalid
		}
		real++
	}
	if real == 0 {
		return MeldInvalid
	}
	t, ok := fourOfRank[rank]
	if !ok || real+jokers != 4 {
		return MeldInvalid
	}
	return t
}

func isTrumpRun(cards []Card, trump Suit) bool {
	needed := map[Rank]bool{Ace: false, Ten: false, King: false, Queen: false, Jack: false}
	for _, c := range cards {
		if c.Joker || c.Suit != trump {
			return false
		}
		seen, wanted := needed[c.Rank]
		if !wanted || seen {
			return false
		}
		needed[c.Rank] = true
	}
	return true
}

// FindAllPossibleMelds enumerates every meld the hand currently supports,
// sorted by descending points. When a double bezique is present the single
// bezique is not offered separately.
func FindAllPossibleMelds(hand []Card, trump Suit) []Meld {
	var melds []Meld

	if run := collectTrumpRun(hand, trump); run != nil {
		melds = append(melds, Meld{Type: MeldTrumpRun, Cards: run})
	}

	queens := collectCards(hand, Card{Suit: Spades, Rank: Queen}, 2)
	jacks := collectCards(hand, Card{Suit: Diamonds, Rank: Jack}, 2)
	if len(queens) == 2 && len(jacks) == 2 {
		melds = append(melds, Meld{Type: MeldDoubleBezique, Cards: append(queens, jacks...)})
	} else if len(queens) >= 1 && len(jacks) >= 1 {
		melds = append(melds, Meld{Type: MeldBezique, Cards: []Card{queens[0], jacks[0]}})
	}

	for _, rank := range []Rank{Ace, King, Queen, Jack} {
		if set := collectFourOf(hand, rank); set != nil {
			melds = append(melds, Meld{Type: fourOfRank[rank], Cards: set})
		}
	}

	for s := Spades; s <= Clubs; s++ {
		king := collectCards(hand, Card{Suit: s, Rank: King}, 1)
		queen := collectCards(hand, Card{Suit: s, Rank: Queen}, 1)
		if len(king) == 1 && len(queen) == 1 {
			t := MeldMarriage
			if s == trump {
				t = MeldTrumpMarriage
			}
			melds = append(melds, Meld{Type: t, Cards: []Card{king[0], queen[0]}})
		}
	}

	if seven := collectCards(hand, Card{Suit: trump, Rank: Seven}, 1); len(seven) == 1 {
		melds = append(melds, Meld{Type: MeldTrumpSeven, Cards: seven})
	}

	sort.SliceStable(melds, func(i, j int) bool {
		return melds[i].Points() > melds[j].Points()
	})
	return melds
}

// collectCards gathers up to max copies of the wanted card from the hand.
func collectCards(hand []Card, want Card, max int) []Card {
	var out []Card
	for _, c := range hand {
		if c == want {
			out = append(out, c)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

// collectFourOf assembles a four-of-a-kind of the given rank, substituting
// jokers for missing copies. Returns nil when the hand cannot supply four.
func collectFourOf(hand []Card, rank Rank) []Card {
	var set []Card
	for _, c := range hand {
		if !c.Joker && c.Rank == rank && len(set) < 4 {
			set = append(set, c)
		}
	}
	if len(set) == 0 {
		return nil
	}
	for _, c := range hand {
		if len(set) == 4 {
			break
		}
		if c.Joker {
			set = append(set, c)
		}
	}
	if len(set) < 4 {
		return nil
	}
	return set
}

func collectTrumpRun(hand []Card, trump Suit) []Card {
	var run []Card
	for _, rank := range []Rank{Ace, Ten, King, Queen, Jack} {
		c := collectCards(hand, Card{Suit: trump, Rank: rank}, 1)
		if len(c) == 0 {
			return nil
		}
		run = append(run, c[0])
	}
	return run
}
