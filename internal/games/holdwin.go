package games

import "github.com/shopspring/decimal"

// Hold-and-win respin sub-feature, shared by wolf gold and coin strike.
// Coins hold their cell for the rest of the feature; landing any new coin
// resets the respin counter; the loop ends on counter exhaustion or a
// full grid, which additionally pays the jackpot tier.

type CoinCell struct {
	Reel  int             `json:"reel"`
	Row   int             `json:"row"`
	Value decimal.Decimal `json:"value"` // bet multiplier
}

type holdWinConfig struct {
	reels, rows int
	respins     int
	// chance (percent) of a new coin landing in an empty cell per respin
	landChance float64
	values     []string // coin value literals
	weights    []int    // parallel to values
	jackpot    string   // full-grid bet multiplier, paid on top of coins
}

type HoldWinResult struct {
	Coins      []CoinCell      `json:"coins"`
	Respins    int             `json:"respins"` // respins consumed
	FullGrid   bool            `json:"full_grid"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

func (c holdWinConfig) drawValue(next FloatSource) decimal.Decimal {
	table := make([]weighted, len(c.values))
	for i := range c.values {
		table[i] = weighted{value: i, weight: c.weights[i]}
	}
	return decimal.RequireFromString(c.values[drawWeighted(table, next)])
}

// runHoldAndWin starts from the trigger coins already on the grid and runs
// the bounded respin loop.
func runHoldAndWin(bet int64, trigger []CoinCell, cfg holdWinConfig, next FloatSource) *HoldWinResult {
	held := make(map[[2]int]decimal.Decimal, len(trigger))
	for _, c := range trigger {
		held[[2]int{c.Reel, c.Row}] = c.Value
	}

	cells := cfg.reels * cfg.rows
	remaining := cfg.respins
	used := 0
	for remaining > 0 && len(held) < cells {
		remaining--
		used++
		landed := false
		for reel := 0; reel < cfg.reels; reel++ {
			for row := 0; row < cfg.rows; row++ {
				if _, ok := held[[2]int{reel, row}]; ok {
					continue
				}
				if next()*100 < cfg.landChance {
					held[[2]int{reel, row}] = cfg.drawValue(next)
					landed = true
				}
			}
		}
		if landed {
			remaining = cfg.respins
		}
	}

	result := &HoldWinResult{Respins: used, Multiplier: decimal.Zero}
	for reel := 0; reel < cfg.reels; reel++ {
		for row := 0; row < cfg.rows; row++ {
			if val, ok := held[[2]int{reel, row}]; ok {
				result.Coins = append(result.Coins, CoinCell{Reel: reel, Row: row, Value: val})
				result.Multiplier = result.Multiplier.Add(val)
			}
		}
	}
	if len(held) == cells {
		result.FullGrid = true
		result.Multiplier = result.Multiplier.Add(decimal.RequireFromString(cfg.jackpot))
	}
	result.Payout = Payout(bet, result.Multiplier)
	return result
}
