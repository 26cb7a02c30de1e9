package games

import "github.com/shopspring/decimal"

// Gonzo's quest: 5x3 avalanche over ten fixed paylines. Each successive
// avalanche within a spin climbs the multiplier schedule; three scatters
// start ten free falls played on the elevated schedule.

const (
	gqBlue = iota
	gqGreen
	gqPurple
	gqBrown
	gqGold
	gqMoon
	gqScatter
)

const (
	gqReels = 5
	gqRows  = 3
)

var gqWeights = symbolTable{
	{gqBlue, 24},
	{gqGreen, 22},
	{gqPurple, 18},
	{gqBrown, 14},
	{gqGold, 10},
	{gqMoon, 7},
	{gqScatter, 5},
}

var gqPaytable = linePaytable{
	gqBlue:   {3: "0.3", 4: "0.75", 5: "2.5"},
	gqGreen:  {3: "0.4", 4: "1", 5: "3.5"},
	gqPurple: {3: "0.5", 4: "1.5", 5: "5"},
	gqBrown:  {3: "1", 4: "2.5", 5: "10"},
	gqGold:   {3: "2.5", 4: "7.5", 5: "25"},
	gqMoon:   {3: "5", 4: "15", 5: "125"},
}

const (
	gqScatterTrigger = 3
	gqFreeFalls      = 10
)

type GonzoResult struct {
	Grid        Grid          `json:"grid"`
	Steps       []CascadeStep `json:"steps"`
	Scatters    int           `json:"scatters"`
	FreeFalls   int           `json:"free_falls"`
	BonusPayout int64         `json:"bonus_payout"`
	Payout      int64         `json:"payout"`
}

func gonzoEval(g Grid) (cellMask, decimal.Decimal) {
	_, mask, win := evalLines(g, lines10, gqPaytable, -1, false)
	return mask, win
}

func PlayGonzo(bet int64, next FloatSource) (*GonzoResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := newGrid(gqReels, gqRows, gqWeights, next)
	result := &GonzoResult{Grid: grid.clone(), Scatters: grid.count(gqScatter)}

	steps, payout := runCascades(bet, grid, gqWeights, cascadeBaseSchedule, gonzoEval, nil, next)
	result.Steps = steps
	result.Payout = payout

	if result.Scatters >= gqScatterTrigger {
		result.FreeFalls = gqFreeFalls
		for i := 0; i < result.FreeFalls; i++ {
			g := newGrid(gqReels, gqRows, gqWeights, next)
			_, win := runCascades(bet, g, gqWeights, cascadeBonusSchedule, gonzoEval, nil, next)
			result.BonusPayout += win
		}
		result.Payout += result.BonusPayout
	}
	return result, nil
}
