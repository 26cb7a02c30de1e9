package games

import "github.com/shopspring/decimal"

// Sweet bonanza: 6x5 pay-anywhere grid. Any symbol appearing 8+ times
// anywhere pays and tumbles; 4+ scatters award free spins played at the
// bonus multiplier schedule.

const (
	sbBanana = iota
	sbGrape
	sbWatermelon
	sbPlum
	sbApple
	sbBlueCandy
	sbGreenCandy
	sbRedCandy
	sbScatter
)

const (
	sbReels = 6
	sbRows  = 5
)

var sbWeights = symbolTable{
	{sbBanana, 20},
	{sbGrape, 18},
	{sbWatermelon, 16},
	{sbPlum, 14},
	{sbApple, 12},
	{sbBlueCandy, 8},
	{sbGreenCandy, 6},
	{sbRedCandy, 4},
	{sbScatter, 2},
}

var sbPaytable = clusterPaytable{
	sbBanana:     {{8, "0.25"}, {10, "0.75"}, {12, "2"}},
	sbGrape:      {{8, "0.4"}, {10, "0.9"}, {12, "4"}},
	sbWatermelon: {{8, "0.5"}, {10, "1"}, {12, "5"}},
	sbPlum:       {{8, "0.8"}, {10, "1.2"}, {12, "8"}},
	sbApple:      {{8, "1"}, {10, "1.5"}, {12, "10"}},
	sbBlueCandy:  {{8, "1.5"}, {10, "2"}, {12, "12"}},
	sbGreenCandy: {{8, "2"}, {10, "5"}, {12, "15"}},
	sbRedCandy:   {{8, "10"}, {10, "25"}, {12, "50"}},
}

const (
	sbScatterTrigger  = 4
	sbBaseFreeSpins   = 10
	sbExtraPerScatter = 2
)

type SweetBonanzaResult struct {
	Grid        Grid          `json:"grid"` // initial drop
	Steps       []CascadeStep `json:"steps"`
	Scatters    int           `json:"scatters"`
	FreeSpins   int           `json:"free_spins"`
	BonusPayout int64         `json:"bonus_payout"`
	Payout      int64         `json:"payout"`
}

func sweetBonanzaEval(g Grid) (cellMask, decimal.Decimal) {
	_, mask, win := evalClusters(g, sbPaytable)
	return mask, win
}

func PlaySweetBonanza(bet int64, next FloatSource) (*SweetBonanzaResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := newGrid(sbReels, sbRows, sbWeights, next)
	result := &SweetBonanzaResult{Grid: grid.clone(), Scatters: grid.count(sbScatter)}

	steps, payout := runCascades(bet, grid, sbWeights, cascadeBaseSchedule, sweetBonanzaEval, nil, next)
	result.Steps = steps
	result.Payout = payout

	if result.Scatters >= sbScatterTrigger {
		result.FreeSpins = sbBaseFreeSpins + sbExtraPerScatter*(result.Scatters-sbScatterTrigger)
		for i := 0; i < result.FreeSpins; i++ {
			g := newGrid(sbReels, sbRows, sbWeights, next)
			_, win := runCascades(bet, g, sbWeights, cascadeBonusSchedule, sweetBonanzaEval, nil, next)
			result.BonusPayout += win
		}
		result.Payout += result.BonusPayout
	}
	return result, nil
}
