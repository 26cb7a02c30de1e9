package games

// Coin strike: 5x3 fruit game scored as ways-to-win (adjacent-reel
// products from the left), plus a hold-and-win loop with richer coin
// tiers than wolf gold.

const (
	csCherry = iota
	csLemon
	csPlum
	csGrape
	csMelon
	csStar
	csSeven
	csWild
	csCoin
)

const (
	csReels = 5
	csRows  = 3
)

var csWeights = symbolTable{
	{csCherry, 20},
	{csLemon, 18},
	{csPlum, 16},
	{csGrape, 13},
	{csMelon, 10},
	{csStar, 7},
	{csSeven, 5},
	{csWild, 3},
	{csCoin, 4},
}

// Per-way multipliers; the ways product scales them.
var csPaytable = linePaytable{
	csCherry: {3: "0.05", 4: "0.2", 5: "0.6"},
	csLemon:  {3: "0.05", 4: "0.2", 5: "0.6"},
	csPlum:   {3: "0.1", 4: "0.3", 5: "0.8"},
	csGrape:  {3: "0.1", 4: "0.3", 5: "0.8"},
	csMelon:  {3: "0.2", 4: "0.5", 5: "1.5"},
	csStar:   {3: "0.4", 4: "1", 5: "3"},
	csSeven:  {3: "1", 4: "2.5", 5: "7.5"},
}

const csCoinTrigger = 6

var csHoldWin = holdWinConfig{
	reels:      csReels,
	rows:       csRows,
	respins:    3,
	landChance: 11,
	values:     []string{"1", "2", "3", "5", "10", "25", "100"},
	weights:    []int{32, 24, 18, 13, 8, 4, 1},
	jackpot:    "1000",
}

type CoinStrikeResult struct {
	Grid       Grid           `json:"grid"`
	Wins       []WaysWin      `json:"wins"`
	WaysWin    int64          `json:"ways_win"`
	Coins      int            `json:"coins"`
	HoldAndWin *HoldWinResult `json:"hold_and_win,omitempty"`
	Payout     int64          `json:"payout"`
}

func PlayCoinStrike(bet int64, next FloatSource) (*CoinStrikeResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := newGrid(csReels, csRows, csWeights, next)
	wins, _, winMult := evalWays(grid, csPaytable, csWild)

	result := &CoinStrikeResult{
		Grid:    grid.clone(),
		Wins:    wins,
		WaysWin: Payout(bet, winMult),
		Coins:   grid.count(csCoin),
	}
	result.Payout = result.WaysWin

	if result.Coins >= csCoinTrigger {
		var trigger []CoinCell
		for reel := range grid {
			for row, v := range grid[reel] {
				if v == csCoin {
					trigger = append(trigger, CoinCell{Reel: reel, Row: row, Value: csHoldWin.drawValue(next)})
				}
			}
		}
		result.HoldAndWin = runHoldAndWin(bet, trigger, csHoldWin, next)
		result.Payout += result.HoldAndWin.Payout
	}
	return result, nil
}
