package games

import "github.com/shopspring/decimal"

// Shared machinery for the cascading reel games: grid generation, win
// evaluation strategies, the remove/gravity/refill loop and the cascade
// multiplier schedules.

// Grid is indexed [reel][row], row 0 at the top.
type Grid [][]int

type cellMask [][]bool

func newMask(reels, rows int) cellMask {
	m := make(cellMask, reels)
	for i := range m {
		m[i] = make([]bool, rows)
	}
	return m
}

func (m cellMask) any() bool {
	for _, col := range m {
		for _, v := range col {
			if v {
				return true
			}
		}
	}
	return false
}

type symbolTable []weighted

func newGrid(reels, rows int, table symbolTable, next FloatSource) Grid {
	g := make(Grid, reels)
	for reel := range g {
		g[reel] = make([]int, rows)
		for row := range g[reel] {
			g[reel][row] = drawWeighted(table, next)
		}
	}
	return g
}

func (g Grid) clone() Grid {
	out := make(Grid, len(g))
	for i, col := range g {
		out[i] = append([]int(nil), col...)
	}
	return out
}

func (g Grid) count(symbol int) int {
	n := 0
	for _, col := range g {
		for _, v := range col {
			if v == symbol {
				n++
			}
		}
	}
	return n
}

// tumble removes the masked cells, drops the survivors of each reel
// downward and refills the emptied cells at the top with fresh weighted
// draws. Cells for which locked returns true are never removed and keep
// their position.
func (g Grid) tumble(remove cellMask, table symbolTable, next FloatSource, locked func(reel, row int) bool) {
	for reel := range g {
		rows := len(g[reel])
		kept := make([]int, 0, rows)
		lockedRows := make(map[int]int) // row -> symbol
		for row := 0; row < rows; row++ {
			if locked != nil && locked(reel, row) {
				lockedRows[row] = g[reel][row]
				continue
			}
			if !remove[reel][row] {
				kept = append(kept, g[reel][row])
			}
		}
		free := rows - len(lockedRows)
		refills := free - len(kept)
		column := make([]int, 0, free)
		for i := 0; i < refills; i++ {
			column = append(column, drawWeighted(table, next))
		}
		column = append(column, kept...)
		// Reassemble top to bottom, locked cells pinned in place.
		idx := 0
		for row := 0; row < rows; row++ {
			if sym, ok := lockedRows[row]; ok {
				g[reel][row] = sym
				continue
			}
			g[reel][row] = column[idx]
			idx++
		}
	}
}

// Cascade multiplier schedules; the index saturates at the last entry.
var (
	cascadeBaseSchedule  = []int64{1, 2, 3, 5}
	cascadeBonusSchedule = []int64{3, 6, 9, 15}
)

func scheduleMultiplier(schedule []int64, step int) int64 {
	if step >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[step]
}

type CascadeStep struct {
	Step       int             `json:"step"`
	Multiplier int64           `json:"multiplier"`
	Win        decimal.Decimal `json:"win"` // bet multiplier before the cascade multiplier
	Payout     int64           `json:"payout"`
}

// maxCascades bounds the tumble loop; with finite weight tables a no-win
// pass is always reachable long before this.
const maxCascades = 64

type cascadeEvaluator func(g Grid) (cellMask, decimal.Decimal)

// runCascades drives the avalanche loop on g in place: evaluate, pay the
// step at the schedule's current multiplier, remove, refill, repeat until
// a pass yields nothing.
func runCascades(bet int64, g Grid, table symbolTable, schedule []int64, eval cascadeEvaluator, locked func(reel, row int) bool, next FloatSource) ([]CascadeStep, int64) {
	var steps []CascadeStep
	var total int64
	for step := 0; step < maxCascades; step++ {
		mask, win := eval(g)
		if !win.IsPositive() {
			break
		}
		mult := scheduleMultiplier(schedule, step)
		payout := Payout(bet, win.Mul(decimal.NewFromInt(mult)))
		steps = append(steps, CascadeStep{Step: step, Multiplier: mult, Win: win, Payout: payout})
		total += payout
		g.tumble(mask, table, next, locked)
	}
	return steps, total
}

// linePaytable maps symbol -> match length -> bet multiplier literal.
type linePaytable map[int]map[int]string

type LineWin struct {
	Line       int             `json:"line"`
	Symbol     int             `json:"symbol"`
	Count      int             `json:"count"`
	Reversed   bool            `json:"reversed,omitempty"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// evalLines scores fixed paylines from the left; with bothWays it also
// scores each line right-to-left. A payline is one row index per reel.
func evalLines(g Grid, lines [][]int, pays linePaytable, wild int, bothWays bool) ([]LineWin, cellMask, decimal.Decimal) {
	mask := newMask(len(g), len(g[0]))
	total := decimal.Zero
	var wins []LineWin

	score := func(line int, rows []int, reversed bool) {
		reelAt := func(i int) int {
			if reversed {
				return len(g) - 1 - i
			}
			return i
		}
		first := -1
		count := 0
		for i := 0; i < len(g); i++ {
			sym := g[reelAt(i)][rows[reelAt(i)]]
			if sym == wild {
				count++
				continue
			}
			if first == -1 {
				first = sym
				count++
				continue
			}
			if sym == first {
				count++
				continue
			}
			break
		}
		if first == -1 { // all wilds
			first = wild
		}
		mults, ok := pays[first]
		if !ok {
			return
		}
		mult, ok := mults[count]
		if !ok {
			return
		}
		m := decimal.RequireFromString(mult)
		wins = append(wins, LineWin{Line: line, Symbol: first, Count: count, Reversed: reversed, Multiplier: m})
		total = total.Add(m)
		for i := 0; i < count; i++ {
			mask[reelAt(i)][rows[reelAt(i)]] = true
		}
	}

	for li, rows := range lines {
		score(li, rows, false)
		if bothWays {
			score(li, rows, true)
		}
	}
	return wins, mask, total
}

// clusterTier pays mult when at least min copies of the symbol are
// anywhere on the grid.
type clusterTier struct {
	min  int
	mult string
}

type clusterPaytable map[int][]clusterTier

type ClusterWin struct {
	Symbol     int             `json:"symbol"`
	Count      int             `json:"count"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// evalClusters scores pay-anywhere symbol counts; tiers must be sorted by
// ascending min, the richest matching tier pays.
func evalClusters(g Grid, pays clusterPaytable) ([]ClusterWin, cellMask, decimal.Decimal) {
	mask := newMask(len(g), len(g[0]))
	total := decimal.Zero
	var wins []ClusterWin

	for symbol, tiers := range pays {
		n := g.count(symbol)
		best := ""
		for _, t := range tiers {
			if n >= t.min {
				best = t.mult
			}
		}
		if best == "" {
			continue
		}
		m := decimal.RequireFromString(best)
		wins = append(wins, ClusterWin{Symbol: symbol, Count: n, Multiplier: m})
		total = total.Add(m)
		for reel := range g {
			for row := range g[reel] {
				if g[reel][row] == symbol {
					mask[reel][row] = true
				}
			}
		}
	}
	return wins, mask, total
}

type WaysWin struct {
	Symbol     int             `json:"symbol"`
	Reels      int             `json:"reels"`
	Ways       int             `json:"ways"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// evalWays scores all left-to-right adjacent-reel combinations: the win for
// a symbol is the product of its per-reel hit counts across the contiguous
// run starting at reel 0.
func evalWays(g Grid, pays linePaytable, wild int) ([]WaysWin, cellMask, decimal.Decimal) {
	mask := newMask(len(g), len(g[0]))
	total := decimal.Zero
	var wins []WaysWin

	for symbol, mults := range pays {
		if symbol == wild {
			continue
		}
		ways := 1
		reels := 0
		for reel := 0; reel < len(g); reel++ {
			hits := 0
			for _, v := range g[reel] {
				if v == symbol || v == wild {
					hits++
				}
			}
			if hits == 0 {
				break
			}
			ways *= hits
			reels++
		}
		mult, ok := mults[reels]
		if !ok {
			continue
		}
		m := decimal.RequireFromString(mult).Mul(decimal.NewFromInt(int64(ways)))
		wins = append(wins, WaysWin{Symbol: symbol, Reels: reels, Ways: ways, Multiplier: m})
		total = total.Add(m)
		for reel := 0; reel < reels; reel++ {
			for row, v := range g[reel] {
				if v == symbol || v == wild {
					mask[reel][row] = true
				}
			}
		}
	}
	return wins, mask, total
}
