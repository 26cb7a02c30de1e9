// Package games holds the pure outcome engines. Every engine is a
// synchronous function of its inputs (bet, persisted state, a float
// source) and performs no I/O; the caller owns balance changes and
// persistence.
package games

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrRoundOver rejects moves against a round that already settled.
	ErrRoundOver = errors.New("round already over")
	// ErrInvalidMove rejects a transition the current state does not allow.
	ErrInvalidMove = errors.New("invalid move")
)

// FloatSource yields floats in [0, 1). Provably-fair play wires in the
// HMAC stream; ambient play wires in crypto/rand. Engines never reach for
// randomness any other way.
type FloatSource func() float64

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Floor2 is the single rounding rule for multipliers: floor to two decimal
// places, so every implementation reproduces identical values.
func Floor2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Floor().Div(hundred)
}

// FairMultiplier returns floor2((100 / winChancePercent) * rtp).
func FairMultiplier(winChance, rtp decimal.Decimal) decimal.Decimal {
	return Floor2(hundred.Div(winChance).Mul(rtp))
}

// Payout applies a multiplier to a bet and floors to whole tokens.
func Payout(bet int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(bet).Mul(multiplier).Floor().IntPart()
}

// drawIndex maps one float onto [0, n).
func drawIndex(next FloatSource, n int) int {
	i := int(next() * float64(n))
	if i >= n { // next() < 1, but guard the boundary anyway
		i = n - 1
	}
	return i
}

// weighted is one entry of a weight table.
type weighted struct {
	value  int
	weight int
}

// drawWeighted walks the cumulative weights with a single float.
func drawWeighted(table []weighted, next FloatSource) int {
	total := 0
	for _, w := range table {
		total += w.weight
	}
	threshold := next() * float64(total)
	acc := 0.0
	for _, w := range table {
		acc += float64(w.weight)
		if threshold < acc {
			return w.value
		}
	}
	return table[len(table)-1].value
}

func validateBet(bet int64) error {
	if bet <= 0 {
		return fmt.Errorf("bet must be positive, got %d", bet)
	}
	return nil
}
