package games

// Starburst: 5x3, ten lines scored in both directions. A wild landing on
// one of the three middle reels expands over its reel, locks there and
// awards a respin of the remaining reels; locked wilds are unbreakable
// until the round ends.

const (
	stPurple = iota
	stBlue
	stOrange
	stGreen
	stYellow
	stBar
	stSeven
	stWild
)

const (
	stReels = 5
	stRows  = 3
)

var stWeights = symbolTable{
	{stPurple, 22},
	{stBlue, 20},
	{stOrange, 17},
	{stGreen, 15},
	{stYellow, 12},
	{stBar, 6},
	{stSeven, 4},
}

// Wilds appear only on the middle three reels.
var stWeightsWithWild = append(append(symbolTable{}, stWeights...), weighted{stWild, 4})

var stPaytable = linePaytable{
	stPurple: {3: "0.25", 4: "0.6", 5: "1.25"},
	stBlue:   {3: "0.3", 4: "0.75", 5: "2"},
	stOrange: {3: "0.4", 4: "1", 5: "2.5"},
	stGreen:  {3: "0.5", 4: "2", 5: "4"},
	stYellow: {3: "0.6", 4: "2.5", 5: "6"},
	stBar:    {3: "1", 4: "5", 5: "12.5"},
	stSeven:  {3: "2.5", 4: "12", 5: "25"},
}

type StarburstSpin struct {
	Grid     Grid      `json:"grid"`
	Wins     []LineWin `json:"wins"`
	Payout   int64     `json:"payout"`
	NewWilds []int     `json:"new_wilds,omitempty"` // reels that expanded
}

type StarburstResult struct {
	Spins   []StarburstSpin `json:"spins"`
	Respins int             `json:"respins"`
	Payout  int64           `json:"payout"`
}

func starburstReelTable(reel int) symbolTable {
	if reel >= 1 && reel <= 3 {
		return stWeightsWithWild
	}
	return stWeights
}

func starburstDrawReel(reel int, next FloatSource) []int {
	col := make([]int, stRows)
	table := starburstReelTable(reel)
	for row := range col {
		col[row] = drawWeighted(table, next)
	}
	return col
}

func PlayStarburst(bet int64, next FloatSource) (*StarburstResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := make(Grid, stReels)
	for reel := range grid {
		grid[reel] = starburstDrawReel(reel, next)
	}

	result := &StarburstResult{}
	locked := make(map[int]bool)

	// At most one respin per middle reel, so the loop is bounded.
	for {
		var expanded []int
		for reel := 1; reel <= 3; reel++ {
			if locked[reel] {
				continue
			}
			for _, v := range grid[reel] {
				if v == stWild {
					expanded = append(expanded, reel)
					break
				}
			}
		}
		for _, reel := range expanded {
			locked[reel] = true
			for row := range grid[reel] {
				grid[reel][row] = stWild
			}
		}

		wins, _, winMult := evalLines(grid, lines10, stPaytable, stWild, true)
		spin := StarburstSpin{
			Grid:     grid.clone(),
			Wins:     wins,
			Payout:   Payout(bet, winMult),
			NewWilds: expanded,
		}
		result.Spins = append(result.Spins, spin)
		result.Payout += spin.Payout

		if len(expanded) == 0 {
			break
		}
		result.Respins++
		for reel := range grid {
			if !locked[reel] {
				grid[reel] = starburstDrawReel(reel, next)
			}
		}
	}
	return result, nil
}
