package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var rouletteRTP = decimal.NewFromFloat(0.99)

type RouletteBetKind string

const (
	RouletteStraight RouletteBetKind = "straight"
	RouletteRed      RouletteBetKind = "red"
	RouletteBlack    RouletteBetKind = "black"
	RouletteOdd      RouletteBetKind = "odd"
	RouletteEven     RouletteBetKind = "even"
	RouletteLow      RouletteBetKind = "low"  // 1-18
	RouletteHigh     RouletteBetKind = "high" // 19-36
	RouletteDozen    RouletteBetKind = "dozen"
	RouletteColumn   RouletteBetKind = "column"
)

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

type RouletteParams struct {
	Kind   RouletteBetKind
	Number int // straight: pocket 0-36; dozen/column: 1-3
}

type RouletteResult struct {
	Pocket     int             `json:"pocket"`
	Kind       RouletteBetKind `json:"kind"`
	Win        bool            `json:"win"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

// PlayRoulette spins a single-zero wheel: pocket = floor(f * 37).
func PlayRoulette(bet int64, p RouletteParams, next FloatSource) (*RouletteResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	covered, err := rouletteCoverage(p)
	if err != nil {
		return nil, err
	}

	pocket := drawIndex(next, 37)
	win := covered(pocket)

	// 37 pockets; win chance in percent drives the fair multiplier.
	winChance := decimal.NewFromInt(int64(countCovered(covered))).Mul(hundred).Div(decimal.NewFromInt(37))
	multiplier := FairMultiplier(winChance, rouletteRTP)

	result := &RouletteResult{
		Pocket:     pocket,
		Kind:       p.Kind,
		Win:        win,
		Multiplier: multiplier,
	}
	if win {
		result.Payout = Payout(bet, multiplier)
	}
	return result, nil
}

func rouletteCoverage(p RouletteParams) (func(int) bool, error) {
	switch p.Kind {
	case RouletteStraight:
		if p.Number < 0 || p.Number > 36 {
			return nil, fmt.Errorf("straight bet on pocket %d", p.Number)
		}
		n := p.Number
		return func(pocket int) bool { return pocket == n }, nil
	case RouletteRed:
		return func(pocket int) bool { return redPockets[pocket] }, nil
	case RouletteBlack:
		return func(pocket int) bool { return pocket != 0 && !redPockets[pocket] }, nil
	case RouletteOdd:
		return func(pocket int) bool { return pocket != 0 && pocket%2 == 1 }, nil
	case RouletteEven:
		return func(pocket int) bool { return pocket != 0 && pocket%2 == 0 }, nil
	case RouletteLow:
		return func(pocket int) bool { return pocket >= 1 && pocket <= 18 }, nil
	case RouletteHigh:
		return func(pocket int) bool { return pocket >= 19 && pocket <= 36 }, nil
	case RouletteDozen:
		if p.Number < 1 || p.Number > 3 {
			return nil, fmt.Errorf("dozen bet on group %d", p.Number)
		}
		lo, hi := (p.Number-1)*12+1, p.Number*12
		return func(pocket int) bool { return pocket >= lo && pocket <= hi }, nil
	case RouletteColumn:
		if p.Number < 1 || p.Number > 3 {
			return nil, fmt.Errorf("column bet on group %d", p.Number)
		}
		col := p.Number
		return func(pocket int) bool { return pocket != 0 && (pocket-1)%3+1 == col }, nil
	default:
		return nil, fmt.Errorf("unknown roulette bet kind %q", p.Kind)
	}
}

func countCovered(covered func(int) bool) int {
	n := 0
	for pocket := 0; pocket <= 36; pocket++ {
		if covered(pocket) {
			n++
		}
	}
	return n
}
