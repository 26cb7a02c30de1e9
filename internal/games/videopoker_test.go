package games_test

import (
	"errors"
	"testing"

	"token-casino-backend/internal/games"
)

func TestEvaluatePokerHand(t *testing.T) {
	cases := []struct {
		cards []games.Card
		want  games.PokerRank
	}{
		{hand("10S", "JS", "QS", "KS", "AS"), games.PokerRoyalFlush},
		{hand("5H", "6H", "7H", "8H", "9H"), games.PokerStraightFlush},
		{hand("AS", "2S", "3S", "4S", "5S"), games.PokerStraightFlush},
		{hand("7S", "7H", "7D", "7C", "2S"), games.PokerFourOfAKind},
		{hand("7S", "7H", "7D", "2C", "2S"), games.PokerFullHouse},
		{hand("2H", "5H", "9H", "JH", "KH"), games.PokerFlush},
		{hand("4S", "5H", "6D", "7C", "8S"), games.PokerStraight},
		{hand("AS", "2H", "3D", "4C", "5S"), games.PokerStraight},
		{hand("9S", "9H", "9D", "4C", "2S"), games.PokerThreeOfAKind},
		{hand("9S", "9H", "4D", "4C", "2S"), games.PokerTwoPair},
		{hand("JS", "JH", "4D", "7C", "2S"), games.PokerJacksOrBetter},
		{hand("AS", "AH", "4D", "7C", "2S"), games.PokerJacksOrBetter},
		{hand("10S", "10H", "4D", "7C", "2S"), games.PokerNothing},
		{hand("2S", "5H", "9D", "JC", "KS"), games.PokerNothing},
		{hand("2S", "3H", "4D", "5C", "7S"), games.PokerNothing},
	}
	for _, c := range cases {
		if got := games.EvaluatePokerHand(c.cards); got != c.want {
			t.Errorf("EvaluatePokerHand(%v) = %s, want %s", c.cards, got, c.want)
		}
	}
}

func TestNewVideoPokerRoundDealsFive(t *testing.T) {
	state := games.NewVideoPokerRound(lcg(9))
	if len(state.Hand) != 5 {
		t.Fatalf("dealt %d cards, want 5", len(state.Hand))
	}
	if len(state.Deck) != 52 || state.DeckPos != 5 {
		t.Errorf("deck %d cards at position %d", len(state.Deck), state.DeckPos)
	}
	for i, c := range state.Hand {
		if c != state.Deck[i] {
			t.Errorf("hand card %d does not match the deck top", i)
		}
	}
}

func TestVideoPokerDrawReplacesUnheldCards(t *testing.T) {
	deck := append(
		hand("JS", "JH", "2D", "5C", "9S"), // dealt hand: pair of jacks
		hand("JD", "JC", "3H", "4H", "6H")...,
	)
	deck = append(deck, games.NewDeck()...)
	state := &games.VideoPokerState{
		V:       1,
		Deck:    deck,
		DeckPos: 5,
		Hand:    append([]games.Card(nil), deck[:5]...),
	}

	result, err := state.Draw(100, [5]bool{true, true, false, false, false})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	// Held jacks plus drawn JD, JC make four of a kind.
	if result.Rank != games.PokerFourOfAKind {
		t.Errorf("rank = %s, want four of a kind", result.Rank)
	}
	if result.Multiplier.String() != "25" || result.Payout != 2500 {
		t.Errorf("payout = %s x -> %d, want 25x -> 2500", result.Multiplier, result.Payout)
	}
	if state.DeckPos != 8 {
		t.Errorf("deck position = %d, want 8 after three replacements", state.DeckPos)
	}

	if _, err := state.Draw(100, [5]bool{}); !errors.Is(err, games.ErrRoundOver) {
		t.Errorf("second Draw = %v, want ErrRoundOver", err)
	}
}

func TestVideoPokerLosingHandPaysNothing(t *testing.T) {
	deck := append(
		hand("2S", "5H", "9D", "JC", "KS"),
		games.NewDeck()...,
	)
	state := &games.VideoPokerState{
		V:       1,
		Deck:    deck,
		DeckPos: 5,
		Hand:    append([]games.Card(nil), deck[:5]...),
	}
	result, err := state.Draw(100, [5]bool{true, true, true, true, true})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if result.Rank != games.PokerNothing || result.Payout != 0 {
		t.Errorf("held junk = %s, payout %d", result.Rank, result.Payout)
	}
	if !result.Multiplier.IsZero() {
		t.Errorf("losing multiplier = %s, want 0", result.Multiplier)
	}
}
