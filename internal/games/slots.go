package games

import "github.com/shopspring/decimal"

// Classic 3x3 slot, five lines: three rows plus both diagonals.

const (
	slotCherry = iota
	slotLemon
	slotOrange
	slotBell
	slotBar
	slotSeven
)

var slotNames = []string{"cherry", "lemon", "orange", "bell", "bar", "seven"}

var slotWeights = []weighted{
	{slotCherry, 28},
	{slotLemon, 24},
	{slotOrange, 20},
	{slotBell, 14},
	{slotBar, 10},
	{slotSeven, 4},
}

// Three-of-a-kind multipliers per symbol.
var slotPaytable = map[int]string{
	slotCherry: "2",
	slotLemon:  "3",
	slotOrange: "4",
	slotBell:   "8",
	slotBar:    "16",
	slotSeven:  "60",
}

var slotLines = [5][3][2]int{
	{{0, 0}, {1, 0}, {2, 0}}, // top row
	{{0, 1}, {1, 1}, {2, 1}}, // middle row
	{{0, 2}, {1, 2}, {2, 2}}, // bottom row
	{{0, 0}, {1, 1}, {2, 2}}, // diagonal
	{{0, 2}, {1, 1}, {2, 0}}, // anti-diagonal
}

type SlotLineWin struct {
	Line       int             `json:"line"`
	Symbol     string          `json:"symbol"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type SlotsResult struct {
	Grid       [3][3]string    `json:"grid"` // [reel][row]
	LineWins   []SlotLineWin   `json:"line_wins"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

// PlaySlots draws nine weighted symbols and scores all five lines; line
// multipliers add up.
func PlaySlots(bet int64, next FloatSource) (*SlotsResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	var grid [3][3]int
	for reel := 0; reel < 3; reel++ {
		for row := 0; row < 3; row++ {
			grid[reel][row] = drawWeighted(slotWeights, next)
		}
	}

	result := &SlotsResult{Multiplier: decimal.Zero}
	for line, cells := range slotLines {
		a := grid[cells[0][0]][cells[0][1]]
		b := grid[cells[1][0]][cells[1][1]]
		c := grid[cells[2][0]][cells[2][1]]
		if a == b && b == c {
			mult := decimal.RequireFromString(slotPaytable[a])
			result.LineWins = append(result.LineWins, SlotLineWin{
				Line:       line,
				Symbol:     slotNames[a],
				Multiplier: mult,
			})
			result.Multiplier = result.Multiplier.Add(mult)
		}
	}

	for reel := 0; reel < 3; reel++ {
		for row := 0; row < 3; row++ {
			result.Grid[reel][row] = slotNames[grid[reel][row]]
		}
	}
	result.Payout = Payout(bet, result.Multiplier)
	return result, nil
}
