package models

// SpinRequest covers every single-shot game; the per-game fields are only
// read by the engine the GameType selects.
type SpinRequest struct {
	GameType GameType `json:"game_type" binding:"required"`
	Amount   int64    `json:"amount" binding:"required"`

	// Dice.
	Target float64 `json:"target,omitempty"`
	Over   bool    `json:"over,omitempty"`

	// Roulette.
	BetKind string `json:"bet_kind,omitempty"`
	Number  int    `json:"number,omitempty"`

	// Wheel / plinko.
	Risk string `json:"risk,omitempty"`
}

type BlackjackStartRequest struct {
	Bets []int64 `json:"bets" binding:"required"`
}

type BlackjackActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Action    string `json:"action" binding:"required"` // hit, stand, double, split, insurance
}

type MinesStartRequest struct {
	Amount    int64 `json:"amount" binding:"required"`
	MineCount int   `json:"mine_count"`
}

type MinesRevealRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Position  int    `json:"position" binding:"min=0,max=24"`
}

type ChickenStartRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	Difficulty string `json:"difficulty,omitempty"`
}

type ChickenStepRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Tile      int    `json:"tile"`
}

type VideoPokerDealRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type VideoPokerDrawRequest struct {
	SessionID string  `json:"session_id" binding:"required"`
	Holds     [5]bool `json:"holds"`
}

type CashoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type AdminAdjustRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
}

type ClientSeedRequest struct {
	GameType   GameType `json:"game_type" binding:"required"`
	ClientSeed string   `json:"client_seed" binding:"required,max=64"`
}

type VerifyRequest struct {
	ServerSeed string `json:"server_seed" binding:"required"`
	ClientSeed string `json:"client_seed" binding:"required"`
	Nonce      int64  `json:"nonce"`
	Count      int    `json:"count" binding:"required,min=1,max=256"`
}
