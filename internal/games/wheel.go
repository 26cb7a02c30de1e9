package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type wheelSegment struct {
	weight     int
	multiplier string // decimal literal, RTP already baked into the table
}

// Segment tables sum to weight 100; a single float picks the segment by
// threshold walk.
var wheelTables = map[RiskLevel][]wheelSegment{
	RiskLow: {
		{30, "0"},
		{40, "1.2"},
		{20, "1.5"},
		{10, "2.4"},
	},
	RiskMedium: {
		{45, "0"},
		{25, "1.5"},
		{15, "2"},
		{10, "3"},
		{5, "5.4"},
	},
	RiskHigh: {
		{70, "0"},
		{15, "2"},
		{10, "4.5"},
		{4, "12"},
		{1, "49.5"},
	},
}

type WheelResult struct {
	Segment    int             `json:"segment"`
	Risk       RiskLevel       `json:"risk"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     int64           `json:"payout"`
}

func PlayWheel(bet int64, risk RiskLevel, next FloatSource) (*WheelResult, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	table, ok := wheelTables[risk]
	if !ok {
		return nil, fmt.Errorf("unknown wheel risk %q", risk)
	}

	threshold := next() * 100
	acc := 0.0
	segment := len(table) - 1
	for i, s := range table {
		acc += float64(s.weight)
		if threshold < acc {
			segment = i
			break
		}
	}

	multiplier := decimal.RequireFromString(table[segment].multiplier)
	return &WheelResult{
		Segment:    segment,
		Risk:       risk,
		Multiplier: multiplier,
		Payout:     Payout(bet, multiplier),
	}, nil
}
