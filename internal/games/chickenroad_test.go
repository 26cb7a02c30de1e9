package games_test

import (
	"errors"
	"testing"

	"token-casino-backend/internal/games"
)

func TestNewChickenRoundLayout(t *testing.T) {
	state, err := games.NewChickenRound(games.ChickenEasy, script(0.0))
	if err != nil {
		t.Fatalf("NewChickenRound: %v", err)
	}
	if state.Columns != 20 || state.Tiles != 5 || state.BoneCount != 1 {
		t.Errorf("easy board = %d columns, %d tiles, %d bones",
			state.Columns, state.Tiles, state.BoneCount)
	}
	for col, bones := range state.Bones {
		if len(bones) != 1 || bones[0] != 0 {
			t.Errorf("column %d bones = %v, want [0]", col, bones)
		}
	}

	if _, err := games.NewChickenRound(games.ChickenDifficulty("nightmare"), script(0.0)); err == nil {
		t.Error("unknown difficulty should be rejected")
	}
}

func TestChickenStepMultipliers(t *testing.T) {
	state, err := games.NewChickenRound(games.ChickenEasy, script(0.0)) // bone on tile 0 everywhere
	if err != nil {
		t.Fatalf("NewChickenRound: %v", err)
	}

	result, err := state.Step(2)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if result.HitBone || result.GameOver {
		t.Fatal("tile 2 is safe")
	}
	// (5/4) * 0.98 = 1.225, floored to 1.22.
	if result.Multiplier.String() != "1.22" {
		t.Errorf("multiplier after one column = %s, want 1.22", result.Multiplier)
	}

	result, err = state.Step(3)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	// (5/4)^2 * 0.98 = 1.53125, floored to 1.53.
	if result.Multiplier.String() != "1.53" {
		t.Errorf("multiplier after two columns = %s, want 1.53", result.Multiplier)
	}
}

func TestChickenStepOnBoneEndsRound(t *testing.T) {
	state, err := games.NewChickenRound(games.ChickenHard, script(0.0))
	if err != nil {
		t.Fatalf("NewChickenRound: %v", err)
	}
	result, err := state.Step(0)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !result.HitBone || !result.GameOver || !result.Multiplier.IsZero() {
		t.Errorf("bone step = %+v", result)
	}
	if len(result.Bones) != state.Columns {
		t.Error("death should expose the full layout")
	}
	if _, err := state.Step(1); !errors.Is(err, games.ErrRoundOver) {
		t.Errorf("Step after death = %v, want ErrRoundOver", err)
	}
}

func TestChickenCrossingEveryColumnEndsRound(t *testing.T) {
	state, err := games.NewChickenRound(games.ChickenHard, script(0.0))
	if err != nil {
		t.Fatalf("NewChickenRound: %v", err)
	}
	for col := 0; col < state.Columns; col++ {
		result, err := state.Step(1)
		if err != nil {
			t.Fatalf("Step at column %d: %v", col, err)
		}
		if result.HitBone {
			t.Fatalf("tile 1 is safe everywhere, died at column %d", col)
		}
		if result.GameOver != (col == state.Columns-1) {
			t.Fatalf("game over flag wrong at column %d", col)
		}
	}
	if _, err := state.Step(1); !errors.Is(err, games.ErrRoundOver) {
		t.Errorf("Step past the last column = %v, want ErrRoundOver", err)
	}
}

func TestChickenStepRejectsBadTile(t *testing.T) {
	state, err := games.NewChickenRound(games.ChickenMedium, script(0.0))
	if err != nil {
		t.Fatalf("NewChickenRound: %v", err)
	}
	if _, err := state.Step(4); err == nil {
		t.Error("medium has four tiles per column, tile 4 should be rejected")
	}
	if _, err := state.Step(-1); err == nil {
		t.Error("negative tile should be rejected")
	}
}
