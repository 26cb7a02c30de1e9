package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var diceRTP = decimal.NewFromFloat(0.99)

// diceEpsilon widens the losing side of an over bet by one roll step so
// the over/under edges stay symmetric.
var diceEpsilon = decimal.NewFromFloat(0.01)

type DiceParams struct {
	Target float64 // 1.00 .. 98.99
	Over   bool
}

type DiceResult struct {
	Roll       float64         `json:"roll"`
	Target     float64         `json:"target"`
	Over       bool            `json:"over"`
	Win        bool            `json:"win"`
	WinChance  float64         `json:"win_chance"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

// PlayDice draws one float and scales it to a 0.00-99.99 roll. An over bet
// wins on roll > target, an under bet on roll < target.
func PlayDice(bet int64, p DiceParams, next FloatSource) (*DiceResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	if p.Target < 1 || p.Target > 98.99 {
		return nil, fmt.Errorf("dice target out of range: %.2f", p.Target)
	}

	target := decimal.NewFromFloat(p.Target).Round(2)
	roll := decimal.NewFromFloat(next() * 10000).Floor().Div(hundred)

	var win bool
	var winChance, chanceForMultiplier decimal.Decimal
	if p.Over {
		win = roll.GreaterThan(target)
		winChance = hundred.Sub(target).Sub(diceEpsilon)
		chanceForMultiplier = hundred.Sub(target).Add(diceEpsilon)
	} else {
		win = roll.LessThan(target)
		winChance = target
		chanceForMultiplier = target
	}

	multiplier := FairMultiplier(chanceForMultiplier, diceRTP)

	result := &DiceResult{
		Roll:       roll.InexactFloat64(),
		Target:     target.InexactFloat64(),
		Over:       p.Over,
		Win:        win,
		WinChance:  winChance.InexactFloat64(),
		Multiplier: multiplier,
	}
	if win {
		result.Payout = Payout(bet, multiplier)
	}
	return result, nil
}
