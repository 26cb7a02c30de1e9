package games

import "github.com/shopspring/decimal"

// Book of dead: 5x3 over ten lines. The book is both wild and scatter;
// three or more books award ten free spins with a randomly chosen
// expanding symbol that pays scatter-style across all lines whenever it
// lands on enough reels.

const (
	bdTen = iota
	bdJack
	bdQueen
	bdKing
	bdAce
	bdAnubis
	bdHorus
	bdExplorer
	bdBook
)

const (
	bdReels = 5
	bdRows  = 3
)

var bdWeights = symbolTable{
	{bdTen, 18},
	{bdJack, 17},
	{bdQueen, 16},
	{bdKing, 14},
	{bdAce, 12},
	{bdAnubis, 8},
	{bdHorus, 6},
	{bdExplorer, 4},
	{bdBook, 5},
}

var bdPaytable = linePaytable{
	bdTen:      {3: "0.25", 4: "1", 5: "3"},
	bdJack:     {3: "0.25", 4: "1", 5: "3"},
	bdQueen:    {3: "0.25", 4: "1", 5: "4"},
	bdKing:     {3: "0.25", 4: "1", 5: "4"},
	bdAce:      {3: "0.25", 4: "1.5", 5: "6"},
	bdAnubis:   {2: "0.25", 3: "1.5", 4: "10", 5: "30"},
	bdHorus:    {2: "0.25", 3: "2", 4: "20", 5: "80"},
	bdExplorer: {2: "0.5", 3: "5", 4: "40", 5: "200"},
}

// Book counts pay scatter-style on the whole bet regardless of position.
var bdScatterPays = map[int]string{3: "0.2", 4: "2", 5: "200"}

const (
	bdScatterTrigger = 3
	bdFreeSpins      = 10
)

// Symbols eligible to become the expanding special in free spins.
var bdExpandable = []int{bdTen, bdJack, bdQueen, bdKing, bdAce, bdAnubis, bdHorus, bdExplorer}

type BookOfDeadResult struct {
	Grid          Grid      `json:"grid"`
	Wins          []LineWin `json:"wins"`
	Books         int       `json:"books"`
	ScatterPayout int64     `json:"scatter_payout"`
	FreeSpins     int       `json:"free_spins"`
	SpecialSymbol int       `json:"special_symbol,omitempty"`
	BonusPayout   int64     `json:"bonus_payout"`
	Payout        int64     `json:"payout"`
}

func bookSpinWin(g Grid) (wins []LineWin, payout decimal.Decimal) {
	wins, _, payout = evalLines(g, lines10, bdPaytable, bdBook, false)
	return wins, payout
}

func PlayBookOfDead(bet int64, next FloatSource) (*BookOfDeadResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}

	grid := newGrid(bdReels, bdRows, bdWeights, next)
	wins, winMult := bookSpinWin(grid)

	result := &BookOfDeadResult{
		Grid:  grid.clone(),
		Wins:  wins,
		Books: grid.count(bdBook),
	}
	result.Payout = Payout(bet, winMult)

	if pay, ok := bdScatterPays[min(result.Books, 5)]; ok && result.Books >= bdScatterTrigger {
		result.ScatterPayout = Payout(bet, decimal.RequireFromString(pay))
		result.Payout += result.ScatterPayout
	}

	if result.Books >= bdScatterTrigger {
		result.FreeSpins = bdFreeSpins
		result.SpecialSymbol = bdExpandable[drawIndex(next, len(bdExpandable))]
		for i := 0; i < result.FreeSpins; i++ {
			g := newGrid(bdReels, bdRows, bdWeights, next)
			_, spinMult := bookSpinWin(g)
			spinPayout := Payout(bet, spinMult)

			// The special symbol expands over its reels and pays like a
			// scatter across every line when it hits enough reels.
			reelsHit := 0
			for reel := range g {
				for _, v := range g[reel] {
					if v == result.SpecialSymbol {
						reelsHit++
						break
					}
				}
			}
			if mult, ok := bdPaytable[result.SpecialSymbol][reelsHit]; ok {
				m := decimal.RequireFromString(mult).Mul(decimal.NewFromInt(int64(len(lines10))))
				spinPayout += Payout(bet, m)
			}
			result.BonusPayout += spinPayout
		}
		result.Payout += result.BonusPayout
	}
	return result, nil
}
