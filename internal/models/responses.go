package models

// SpinResponse settles a single-shot round in one reply. Result carries
// the engine's own result type for the game played.
type SpinResponse struct {
	GameType  GameType `json:"game_type"`
	SessionID string   `json:"session_id"`
	BetAmount int64    `json:"bet_amount"`
	Payout    int64    `json:"payout"`
	Balance   int64    `json:"balance"`
	Provable  bool     `json:"provable"`
	Nonce     int64    `json:"nonce,omitempty"`
	Result    any      `json:"result"`
}

// RoundResponse is the shared envelope for multi-step rounds. State is a
// sanitized view: hidden cards, mines and bones stay hidden until the
// round exposes them.
type RoundResponse struct {
	SessionID string   `json:"session_id"`
	GameType  GameType `json:"game_type"`
	Status    string   `json:"status"`
	BetAmount int64    `json:"bet_amount"`
	WinAmount int64    `json:"win_amount,omitempty"`
	Balance   int64    `json:"balance"`
	Provable  bool     `json:"provable"`
	Nonce     int64    `json:"nonce,omitempty"`
	State     any      `json:"state,omitempty"`
	Result    any      `json:"result,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
