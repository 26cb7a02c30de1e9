package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinesBoardSize = 25
	minesMinMines  = 1
	minesMaxMines  = 24
)

var minesRTP = decimal.NewFromFloat(0.99)

// MinesState is the engine-opaque session blob for a mines round.
type MinesState struct {
	V         int   `json:"v"`
	MineCount int   `json:"mine_count"`
	Mines     []int `json:"mines"`
	Revealed  []int `json:"revealed"`
	Busted    bool  `json:"busted"`
}

type MinesRevealResult struct {
	Position   int             `json:"position"`
	IsMine     bool            `json:"is_mine"`
	Revealed   []int           `json:"revealed"`
	Mines      []int           `json:"mines,omitempty"` // full layout, only on bust
	Multiplier decimal.Decimal `json:"multiplier"`
	GameOver   bool            `json:"game_over"`
}

// NewMinesRound places the mines with one float draw each, probing
// forward on collision so the layout stays reproducible from the stream.
func NewMinesRound(mineCount int, next FloatSource) (*MinesState, error) {
	if mineCount < minesMinMines || mineCount > minesMaxMines {
		return nil, fmt.Errorf("mine count out of range: %d", mineCount)
	}
	used := make(map[int]bool, mineCount)
	mines := make([]int, 0, mineCount)
	for len(mines) < mineCount {
		pos := drawIndex(next, MinesBoardSize)
		for used[pos] {
			pos = (pos + 1) % MinesBoardSize
		}
		used[pos] = true
		mines = append(mines, pos)
	}
	return &MinesState{V: 1, MineCount: mineCount, Mines: mines}, nil
}

func (s *MinesState) isMine(pos int) bool {
	for _, m := range s.Mines {
		if m == pos {
			return true
		}
	}
	return false
}

func (s *MinesState) isRevealed(pos int) bool {
	for _, r := range s.Revealed {
		if r == pos {
			return true
		}
	}
	return false
}

// Reveal opens one tile. A mine ends the round with the full layout
// exposed; a safe tile advances the survival multiplier.
func (s *MinesState) Reveal(pos int) (*MinesRevealResult, error) {
	if s.Busted {
		return nil, ErrRoundOver
	}
	if pos < 0 || pos >= MinesBoardSize {
		return nil, fmt.Errorf("position out of range: %d", pos)
	}
	if s.isRevealed(pos) {
		return nil, fmt.Errorf("position already revealed: %d", pos)
	}

	if s.isMine(pos) {
		s.Busted = true
		return &MinesRevealResult{
			Position:   pos,
			IsMine:     true,
			Revealed:   s.Revealed,
			Mines:      s.Mines,
			Multiplier: decimal.Zero,
			GameOver:   true,
		}, nil
	}

	s.Revealed = append(s.Revealed, pos)
	result := &MinesRevealResult{
		Position:   pos,
		Revealed:   s.Revealed,
		Multiplier: s.Multiplier(),
	}
	// Every safe tile revealed forces a cash-out.
	if len(s.Revealed) == MinesBoardSize-s.MineCount {
		result.GameOver = true
	}
	return result, nil
}

func (s *MinesState) Multiplier() decimal.Decimal {
	return SurvivalMultiplier(MinesBoardSize, s.MineCount, len(s.Revealed), minesRTP)
}

// SurvivalMultiplier is the closed-form fair multiplier after k safe
// reveals from a board of total tiles holding bad mines:
//
//	probability = prod_{i=0..k-1} (safe-i)/(total-i)
//	multiplier  = floor2((1/probability) * rtp)
//
// k = 0 is exactly 1.
func SurvivalMultiplier(total, bad, k int, rtp decimal.Decimal) decimal.Decimal {
	if k <= 0 {
		return one
	}
	safe := total - bad
	prob := one
	for i := 0; i < k; i++ {
		prob = prob.Mul(decimal.NewFromInt(int64(safe - i)).Div(decimal.NewFromInt(int64(total - i))))
	}
	return Floor2(one.Div(prob).Mul(rtp))
}
