package games

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Jacks-or-better video poker: deal five, one draw against a hold mask,
// settle on the final hand rank.

type PokerRank string

const (
	PokerNothing       PokerRank = "nothing"
	PokerJacksOrBetter PokerRank = "jacks-or-better"
	PokerTwoPair       PokerRank = "two-pair"
	PokerThreeOfAKind  PokerRank = "three-of-a-kind"
	PokerStraight      PokerRank = "straight"
	PokerFlush         PokerRank = "flush"
	PokerFullHouse     PokerRank = "full-house"
	PokerFourOfAKind   PokerRank = "four-of-a-kind"
	PokerStraightFlush PokerRank = "straight-flush"
	PokerRoyalFlush    PokerRank = "royal-flush"
)

// 9/6 paytable, bet multipliers.
var pokerPaytable = map[PokerRank]string{
	PokerJacksOrBetter: "1",
	PokerTwoPair:       "2",
	PokerThreeOfAKind:  "3",
	PokerStraight:      "4",
	PokerFlush:         "6",
	PokerFullHouse:     "9",
	PokerFourOfAKind:   "25",
	PokerStraightFlush: "50",
	PokerRoyalFlush:    "250",
}

// VideoPokerState is the engine-opaque session blob between deal and draw.
type VideoPokerState struct {
	V       int    `json:"v"`
	Deck    []Card `json:"deck"`
	DeckPos int    `json:"deck_pos"`
	Hand    []Card `json:"hand"`
	Drawn   bool   `json:"drawn"`
}

type VideoPokerResult struct {
	Hand       []Card          `json:"hand"`
	Rank       PokerRank       `json:"rank"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

func NewVideoPokerRound(next FloatSource) *VideoPokerState {
	deck := NewDeck()
	Shuffle(deck, next)
	return &VideoPokerState{
		V:       1,
		Deck:    deck,
		DeckPos: 5,
		Hand:    append([]Card(nil), deck[:5]...),
	}
}

// Draw replaces every unheld card from the top of the deck and settles.
func (s *VideoPokerState) Draw(bet int64, holds [5]bool) (*VideoPokerResult, error) {
	if s.Drawn {
		return nil, ErrRoundOver
	}
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	for i := 0; i < 5; i++ {
		if !holds[i] {
			s.Hand[i] = s.Deck[s.DeckPos]
			s.DeckPos++
		}
	}
	s.Drawn = true

	rank := EvaluatePokerHand(s.Hand)
	result := &VideoPokerResult{
		Hand:       s.Hand,
		Rank:       rank,
		Multiplier: decimal.Zero,
	}
	if mult, ok := pokerPaytable[rank]; ok {
		result.Multiplier = decimal.RequireFromString(mult)
		result.Payout = Payout(bet, result.Multiplier)
	}
	return result, nil
}

func EvaluatePokerHand(hand []Card) PokerRank {
	orders := make([]int, len(hand))
	rankCounts := map[int]int{}
	suitCounts := map[Suit]int{}
	for i, c := range hand {
		orders[i] = c.rankOrder()
		rankCounts[orders[i]]++
		suitCounts[c.Suit]++
	}
	sort.Ints(orders)

	flush := len(suitCounts) == 1
	straight, high := isStraight(orders)

	switch {
	case flush && straight && high == 14:
		return PokerRoyalFlush
	case flush && straight:
		return PokerStraightFlush
	}

	var counts []int
	for _, n := range rankCounts {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	switch {
	case counts[0] == 4:
		return PokerFourOfAKind
	case counts[0] == 3 && counts[1] == 2:
		return PokerFullHouse
	case flush:
		return PokerFlush
	case straight:
		return PokerStraight
	case counts[0] == 3:
		return PokerThreeOfAKind
	case counts[0] == 2 && counts[1] == 2:
		return PokerTwoPair
	case counts[0] == 2:
		for order, n := range rankCounts {
			if n == 2 && (order >= 11) { // J, Q, K, A
				return PokerJacksOrBetter
			}
		}
	}
	return PokerNothing
}

// isStraight expects sorted ace-high orders; the wheel (A-2-3-4-5) counts
// with five high.
func isStraight(orders []int) (bool, int) {
	distinct := true
	for i := 1; i < len(orders); i++ {
		if orders[i] == orders[i-1] {
			distinct = false
		}
	}
	if !distinct {
		return false, 0
	}
	if orders[len(orders)-1]-orders[0] == len(orders)-1 {
		return true, orders[len(orders)-1]
	}
	// Ace low: A,2,3,4,5 sorts as 2,3,4,5,14.
	if orders[len(orders)-1] == 14 && orders[0] == 2 &&
		orders[len(orders)-2]-orders[0] == len(orders)-2 {
		return true, 5
	}
	return false, 0
}
