package games

import "fmt"

type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

type Card struct {
	Rank string `json:"rank"`
	Suit Suit   `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// BaseValue counts aces as 11; soft-ace demotion happens in EvaluateHand.
func (c Card) BaseValue() int {
	switch c.Rank {
	case "A":
		return 11
	case "K", "Q", "J", "10":
		return 10
	default:
		n := 0
		for _, ch := range c.Rank {
			n = n*10 + int(ch-'0')
		}
		return n
	}
}

// rankOrder is the card's position within a suit, ace high for poker
// straights (ace-low straights are special-cased).
func (c Card) rankOrder() int {
	for i, r := range ranks {
		if r == c.Rank {
			if i == 0 {
				return 14 // ace
			}
			return i + 1
		}
	}
	return 0
}

type HandValue struct {
	Value       int  `json:"value"`
	IsSoft      bool `json:"is_soft"`
	IsBusted    bool `json:"is_busted"`
	IsBlackjack bool `json:"is_blackjack"`
}

// EvaluateHand totals a blackjack hand. Aces start at 11 and are demoted
// to 1, one at a time, while the total exceeds 21.
func EvaluateHand(cards []Card) HandValue {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.BaseValue()
		if c.Rank == "A" {
			aces++
		}
	}
	soft := aces > 0
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	if aces == 0 {
		soft = false
	}
	return HandValue{
		Value:       total,
		IsSoft:      soft,
		IsBusted:    total > 21,
		IsBlackjack: len(cards) == 2 && total == 21,
	}
}

func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

func NewShoe(decks int) []Card {
	shoe := make([]Card, 0, decks*52)
	for i := 0; i < decks; i++ {
		shoe = append(shoe, NewDeck()...)
	}
	return shoe
}

// Shuffle runs a Fisher-Yates pass driven entirely by the float source, so
// a revealed seed reproduces the exact card order.
func Shuffle(cards []Card, next FloatSource) {
	for i := len(cards) - 1; i > 0; i-- {
		j := drawIndex(next, i+1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
