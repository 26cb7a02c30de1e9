package models

type TransactionType string

const (
	TransactionTypeBet         TransactionType = "BET"
	TransactionTypeWin         TransactionType = "WIN"
	TransactionTypeAdminCredit TransactionType = "ADMIN_CREDIT"
	TransactionTypeAdminDebit  TransactionType = "ADMIN_DEBIT"
	TransactionTypeFaucet      TransactionType = "FAUCET"
	TransactionTypeRefund      TransactionType = "REFUND"
)

// Transaction is one immutable row of the ledger. Amount is signed:
// negative for debits, positive for credits. BalanceAfter snapshots the
// wallet at the instant the row was appended.
type Transaction struct {
	ID            string          `json:"id" redis:"id"`
	UserID        int64           `json:"user_id" redis:"user_id"`
	Type          TransactionType `json:"type" redis:"type"`
	Amount        int64           `json:"amount" redis:"amount"`
	BalanceBefore int64           `json:"balance_before" redis:"balance_before"`
	BalanceAfter  int64           `json:"balance_after" redis:"balance_after"`
	GameType      GameType        `json:"game_type,omitempty" redis:"game_type"`
	SessionID     string          `json:"session_id,omitempty" redis:"session_id"`
	Description   string          `json:"description,omitempty" redis:"description"`
	CreatedAt     int64           `json:"created_at" redis:"created_at"`
}
