package games

// Wolf gold: 5x3 over 25 lines with a wild, plus the moon-coin
// hold-and-win feature: six or more coins on the spin enter the bounded
// respin loop where coins stick, and a full grid pays the mega jackpot.

const (
	wgNine = iota
	wgTen
	wgJack
	wgQueen
	wgKing
	wgAce
	wgHorse
	wgEagle
	wgPuma
	wgBuffalo
	wgWild
	wgCoin
)

const (
	wgReels = 5
	wgRows  = 3
)

var wgWeights = symbolTable{
	{wgNine, 16},
	{wgTen, 15},
	{wgJack, 14},
	{wgQueen, 13},
	{wgKing, 12},
	{wgAce, 10},
	{wgHorse, 7},
	{wgEagle, 6},
	{wgPuma, 5},
	{wgBuffalo, 4},
	{wgWild, 3},
	{wgCoin, 5},
}

var wgPaytable = linePaytable{
	wgNine:    {3: "0.1", 4: "0.4", 5: "1"},
	wgTen:     {3: "0.1", 4: "0.4", 5: "1"},
	wgJack:    {3: "0.15", 4: "0.5", 5: "1.5"},
	wgQueen:   {3: "0.15", 4: "0.5", 5: "1.5"},
	wgKing:    {3: "0.2", 4: "0.8", 5: "2"},
	wgAce:     {3: "0.2", 4: "0.8", 5: "2"},
	wgHorse:   {3: "0.5", 4: "1.2", 5: "4"},
	wgEagle:   {3: "0.6", 4: "1.6", 5: "5"},
	wgPuma:    {3: "0.8", 4: "2", 5: "8"},
	wgBuffalo: {3: "1", 4: "4", 5: "10"},
	wgWild:    {3: "1", 4: "4", 5: "10"},
}

const wgCoinTrigger = 6

var wgHoldWin = holdWinConfig{
	reels:      wgReels,
	rows:       wgRows,
	respins:    3,
	landChance: 12,
	values:     []string{"0.5", "1", "1.5", "2.5", "5", "10", "30"},
	weights:    []int{30, 25, 18, 12, 8, 5, 2},
	jackpot:    "250",
}

type WolfGoldResult struct {
	Grid       Grid           `json:"grid"`
	Wins       []LineWin      `json:"wins"`
	LineWin    int64          `json:"line_win"`
	Coins      int            `json:"coins"`
	HoldAndWin *HoldWinResult `json:"hold_and_win,omitempty"`
	Payout     int64          `json:"payout"`
}

func PlayWolfGold(bet int64, next FloatSource) (*WolfGoldResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := newGrid(wgReels, wgRows, wgWeights, next)
	wins, _, winMult := evalLines(grid, lines25, wgPaytable, wgWild, false)

	result := &WolfGoldResult{
		Grid:    grid.clone(),
		Wins:    wins,
		LineWin: Payout(bet, winMult),
		Coins:   grid.count(wgCoin),
	}
	result.Payout = result.LineWin

	if result.Coins >= wgCoinTrigger {
		var trigger []CoinCell
		for reel := range grid {
			for row, v := range grid[reel] {
				if v == wgCoin {
					trigger = append(trigger, CoinCell{Reel: reel, Row: row, Value: wgHoldWin.drawValue(next)})
				}
			}
		}
		result.HoldAndWin = runHoldAndWin(bet, trigger, wgHoldWin, next)
		result.Payout += result.HoldAndWin.Payout
	}
	return result, nil
}
