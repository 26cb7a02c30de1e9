package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var chickenRTP = decimal.NewFromFloat(0.98)

type ChickenDifficulty string

const (
	ChickenEasy   ChickenDifficulty = "easy"
	ChickenMedium ChickenDifficulty = "medium"
	ChickenHard   ChickenDifficulty = "hard"
)

type chickenConfig struct {
	columns int
	tiles   int // tiles per column, the fixed per-column board size
	bones   int
}

var chickenConfigs = map[ChickenDifficulty]chickenConfig{
	ChickenEasy:   {columns: 20, tiles: 5, bones: 1},
	ChickenMedium: {columns: 18, tiles: 4, bones: 1},
	ChickenHard:   {columns: 15, tiles: 3, bones: 1},
}

// ChickenState is the engine-opaque session blob for a chicken-road
// round. Bone positions for every column are drawn up front so the whole
// road is reproducible from the stream.
type ChickenState struct {
	V          int               `json:"v"`
	Difficulty ChickenDifficulty `json:"difficulty"`
	Columns    int               `json:"columns"`
	Tiles      int               `json:"tiles"`
	BoneCount  int               `json:"bone_count"`
	Bones      [][]int           `json:"bones"` // per column
	Position   int               `json:"position"`
	Dead       bool              `json:"dead"`
}

type ChickenStepResult struct {
	Column     int             `json:"column"`
	Tile       int             `json:"tile"`
	HitBone    bool            `json:"hit_bone"`
	Bones      [][]int         `json:"bones,omitempty"` // full layout, only on death
	Multiplier decimal.Decimal `json:"multiplier"`
	GameOver   bool            `json:"game_over"`
}

func NewChickenRound(difficulty ChickenDifficulty, next FloatSource) (*ChickenState, error) {
	cfg, ok := chickenConfigs[difficulty]
	if !ok {
		return nil, fmt.Errorf("unknown chicken-road difficulty %q", difficulty)
	}

	bones := make([][]int, cfg.columns)
	for col := range bones {
		used := make(map[int]bool, cfg.bones)
		for len(bones[col]) < cfg.bones {
			pos := drawIndex(next, cfg.tiles)
			for used[pos] {
				pos = (pos + 1) % cfg.tiles
			}
			used[pos] = true
			bones[col] = append(bones[col], pos)
		}
	}

	return &ChickenState{
		V:          1,
		Difficulty: difficulty,
		Columns:    cfg.columns,
		Tiles:      cfg.tiles,
		BoneCount:  cfg.bones,
		Bones:      bones,
	}, nil
}

// Step crosses the next column on the chosen tile.
func (s *ChickenState) Step(tile int) (*ChickenStepResult, error) {
	if s.Dead || s.Position >= s.Columns {
		return nil, ErrRoundOver
	}
	if tile < 0 || tile >= s.Tiles {
		return nil, fmt.Errorf("tile out of range: %d", tile)
	}

	col := s.Position
	for _, bone := range s.Bones[col] {
		if bone == tile {
			s.Dead = true
			return &ChickenStepResult{
				Column:     col,
				Tile:       tile,
				HitBone:    true,
				Bones:      s.Bones,
				Multiplier: decimal.Zero,
				GameOver:   true,
			}, nil
		}
	}

	s.Position++
	return &ChickenStepResult{
		Column:     col,
		Tile:       tile,
		Multiplier: s.Multiplier(),
		GameOver:   s.Position == s.Columns,
	}, nil
}

// Multiplier applies the survival formula per completed column with the
// fixed per-column board size: probability = (safe/tiles)^k.
func (s *ChickenState) Multiplier() decimal.Decimal {
	k := s.Position
	if k <= 0 {
		return one
	}
	safe := decimal.NewFromInt(int64(s.Tiles - s.BoneCount))
	tiles := decimal.NewFromInt(int64(s.Tiles))
	prob := one
	for i := 0; i < k; i++ {
		prob = prob.Mul(safe.Div(tiles))
	}
	return Floor2(one.Div(prob).Mul(chickenRTP))
}
