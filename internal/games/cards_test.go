package games_test

import (
	"testing"

	"token-casino-backend/internal/games"
)

func hand(cards ...string) []games.Card {
	out := make([]games.Card, len(cards))
	for i, c := range cards {
		out[i] = games.Card{Rank: c[:len(c)-1], Suit: games.Suit(c[len(c)-1:])}
	}
	return out
}

func TestEvaluateHand(t *testing.T) {
	cases := []struct {
		cards     []games.Card
		value     int
		soft      bool
		busted    bool
		blackjack bool
	}{
		{hand("AS", "KS"), 21, true, false, true},
		{hand("AS", "AD"), 12, true, false, false},
		{hand("AS", "6D"), 17, true, false, false},
		{hand("AS", "6D", "10C"), 17, false, false, false},
		{hand("10S", "9D", "2C"), 21, false, false, false},
		{hand("KS", "QD", "2C"), 22, false, true, false},
		{hand("AS", "AD", "9C"), 21, true, false, false},
		{hand("5S", "5D"), 10, false, false, false},
	}
	for _, c := range cases {
		v := games.EvaluateHand(c.cards)
		if v.Value != c.value || v.IsSoft != c.soft || v.IsBusted != c.busted || v.IsBlackjack != c.blackjack {
			t.Errorf("EvaluateHand(%v) = %+v, want value=%d soft=%v busted=%v blackjack=%v",
				c.cards, v, c.value, c.soft, c.busted, c.blackjack)
		}
	}
}

func TestShuffleIsReproducible(t *testing.T) {
	a := games.NewDeck()
	b := games.NewDeck()
	games.Shuffle(a, lcg(42))
	games.Shuffle(b, lcg(42))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same source produced different orders at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestShuffleIsAPermutation(t *testing.T) {
	deck := games.NewDeck()
	games.Shuffle(deck, lcg(1))
	seen := map[games.Card]int{}
	for _, c := range deck {
		seen[c]++
	}
	if len(seen) != 52 {
		t.Fatalf("shuffled deck has %d distinct cards, want 52", len(seen))
	}
}

func TestNewShoeSize(t *testing.T) {
	if got := len(games.NewShoe(6)); got != 312 {
		t.Errorf("six-deck shoe has %d cards, want 312", got)
	}
}
