package games_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"token-casino-backend/internal/games"
)

func TestSurvivalMultiplier(t *testing.T) {
	rtp := decimal.RequireFromString("0.99")
	cases := []struct {
		k    int
		want string
	}{
		{0, "1"},
		{1, "1.12"},
		{5, "1.99"},
	}
	for _, c := range cases {
		got := games.SurvivalMultiplier(25, 3, c.k, rtp)
		if got.String() != c.want {
			t.Errorf("SurvivalMultiplier(25, 3, %d) = %s, want %s", c.k, got, c.want)
		}
	}
}

func TestSurvivalMultiplierStrictlyIncreases(t *testing.T) {
	rtp := decimal.RequireFromString("0.99")
	prev := games.SurvivalMultiplier(25, 3, 0, rtp)
	for k := 1; k <= 22; k++ {
		cur := games.SurvivalMultiplier(25, 3, k, rtp)
		if !cur.GreaterThan(prev) {
			t.Fatalf("multiplier did not increase at k=%d: %s then %s", k, prev, cur)
		}
		prev = cur
	}
}

func TestNewMinesRoundPlacement(t *testing.T) {
	// Repeated zero draws collide on 0 and probe forward.
	state, err := games.NewMinesRound(3, script(0.0))
	if err != nil {
		t.Fatalf("NewMinesRound: %v", err)
	}
	want := []int{0, 1, 2}
	if len(state.Mines) != 3 {
		t.Fatalf("placed %d mines, want 3", len(state.Mines))
	}
	for i, m := range state.Mines {
		if m != want[i] {
			t.Errorf("mine %d at %d, want %d", i, m, want[i])
		}
	}

	if _, err := games.NewMinesRound(0, script(0.0)); err == nil {
		t.Error("zero mines should be rejected")
	}
	if _, err := games.NewMinesRound(25, script(0.0)); err == nil {
		t.Error("25 mines should be rejected")
	}
}

func TestMinesRevealSafeThenBust(t *testing.T) {
	state, err := games.NewMinesRound(3, script(0.0)) // mines at 0, 1, 2
	if err != nil {
		t.Fatalf("NewMinesRound: %v", err)
	}

	result, err := state.Reveal(10)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if result.IsMine || result.GameOver {
		t.Fatal("tile 10 is safe")
	}
	if result.Multiplier.String() != "1.12" {
		t.Errorf("multiplier after one reveal = %s, want 1.12", result.Multiplier)
	}

	if _, err := state.Reveal(10); err == nil {
		t.Error("re-revealing a tile should fail")
	}
	if _, err := state.Reveal(25); err == nil {
		t.Error("out-of-range tile should fail")
	}

	result, err = state.Reveal(1)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if !result.IsMine || !result.GameOver {
		t.Fatal("tile 1 holds a mine")
	}
	if len(result.Mines) != 3 {
		t.Error("bust should expose the full layout")
	}
	if !result.Multiplier.IsZero() {
		t.Errorf("bust multiplier = %s, want 0", result.Multiplier)
	}

	if _, err := state.Reveal(5); !errors.Is(err, games.ErrRoundOver) {
		t.Errorf("Reveal after bust = %v, want ErrRoundOver", err)
	}
}

func TestMinesFullClearForcesGameOver(t *testing.T) {
	state, err := games.NewMinesRound(24, script(0.0)) // only tile 24 is safe
	if err != nil {
		t.Fatalf("NewMinesRound: %v", err)
	}
	result, err := state.Reveal(24)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if result.IsMine {
		t.Fatal("tile 24 is the one safe tile")
	}
	if !result.GameOver {
		t.Error("clearing every safe tile should end the round")
	}
}
