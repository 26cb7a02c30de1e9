package models

// Wallet tracks a user's token balance. Amounts are whole tokens; the
// balance is the running sum of all transaction amounts and never goes
// negative.
type Wallet struct {
	UserID       int64 `json:"user_id" redis:"user_id"`
	Balance      int64 `json:"balance" redis:"balance"`
	TotalWagered int64 `json:"total_wagered" redis:"total_wagered"`
	TotalWon     int64 `json:"total_won" redis:"total_won"`
}

type BalanceResponse struct {
	Balance      int64 `json:"balance"`
	TotalWagered int64 `json:"total_wagered"`
	TotalWon     int64 `json:"total_won"`
}
