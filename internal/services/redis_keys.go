package services

import "time"

const (
	KeyUserInfo           = "user:%d:info"
	KeyUsername           = "username:%s"
	KeyNextUserID         = "user:next_id"
	KeyWallet             = "wallet:%d"
	KeyGameSession        = "game:session:%s"
	KeyUserActiveGames    = "user:%d:active_games"
	KeyUserCompletedGames = "user:%d:completed_games"
	KeyTransaction        = "transaction:%s"
	KeyUserTransactions   = "user:%d:transactions"
	KeySeed               = "seed:%d:%s" // user, game type
	KeyFaucet             = "faucet:%d"
	KeyRateLimit          = "ratelimit:%d:%s"

	TTLGameSession = 7 * 24 * time.Hour
	TTLTransaction = 30 * 24 * time.Hour

	// Per-user history is capped; older entries fall off the sorted sets.
	MaxTransactionHistory = 500
	MaxGameHistory        = 100

	DefaultRateLimitBets    = 30 // bets per minute
	DefaultRateLimitActions = 120
)
