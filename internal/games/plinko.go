package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const plinkoRows = 16

// plinkoWeights are the binomial coefficients C(16, k): the chance of the
// ball ending in bucket k after 16 left/right pegs.
var plinkoWeights = [plinkoRows + 1]int64{
	1, 16, 120, 560, 1820, 4368, 8008, 11440, 12870,
	11440, 8008, 4368, 1820, 560, 120, 16, 1,
}

// Bucket multipliers per risk, edges rich, center poor.
var plinkoMultipliers = map[RiskLevel][plinkoRows + 1]string{
	RiskLow: {
		"16", "9", "2", "1.4", "1.4", "1.2", "1.1", "1", "0.5",
		"1", "1.1", "1.2", "1.4", "1.4", "2", "9", "16",
	},
	RiskMedium: {
		"110", "41", "10", "5", "3", "1.5", "1", "0.5", "0.3",
		"0.5", "1", "1.5", "3", "5", "10", "41", "110",
	},
	RiskHigh: {
		"1000", "130", "26", "9", "4", "2", "0.2", "0.2", "0.2",
		"0.2", "0.2", "2", "4", "9", "26", "130", "1000",
	},
}

type PlinkoResult struct {
	Bucket     int             `json:"bucket"`
	Risk       RiskLevel       `json:"risk"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

// PlayPlinko drops one ball: a single float threshold-walks the binomial
// weight table to a bucket.
func PlayPlinko(bet int64, risk RiskLevel, next FloatSource) (*PlinkoResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	multipliers, ok := plinkoMultipliers[risk]
	if !ok {
		return nil, fmt.Errorf("unknown plinko risk %q", risk)
	}

	var total int64
	for _, w := range plinkoWeights {
		total += w
	}
	threshold := next() * float64(total)
	acc := 0.0
	bucket := plinkoRows
	for i, w := range plinkoWeights {
		acc += float64(w)
		if threshold < acc {
			bucket = i
			break
		}
	}

	multiplier := decimal.RequireFromString(multipliers[bucket])
	return &PlinkoResult{
		Bucket:     bucket,
		Risk:       risk,
		Multiplier: multiplier,
		Payout:     Payout(bet, multiplier),
	}, nil
}
