package models

import "encoding/json"

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// GameSession is one multi-step round. State is the owning engine's opaque
// blob; nothing outside that engine interprets it. Status moves from active
// to completed exactly once, after which the session is immutable and
// WinAmount is fixed. Version increments on every stored write; writes
// carry the version they loaded, so concurrent actions cannot interleave.
type GameSession struct {
	ID        string          `json:"id" redis:"id"`
	UserID    int64           `json:"user_id" redis:"user_id"`
	GameType  GameType        `json:"game_type" redis:"game_type"`
	BetAmount int64           `json:"bet_amount" redis:"bet_amount"`
	Status    string          `json:"status" redis:"status"`
	Version   int64           `json:"version" redis:"version"`
	State     json.RawMessage `json:"state,omitempty" redis:"state"`
	WinAmount int64           `json:"win_amount" redis:"win_amount"`
	Nonce     int64           `json:"nonce" redis:"nonce"`
	CreatedAt int64           `json:"created_at" redis:"created_at"`
	UpdatedAt int64           `json:"updated_at" redis:"updated_at"`
	EndedAt   int64           `json:"ended_at,omitempty" redis:"ended_at"`
}

func (s *GameSession) Finished() bool {
	return s.Status == SessionStatusCompleted
}
