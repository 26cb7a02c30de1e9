package services

import (
	"fmt"
	"time"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/logger"
	"token-casino-backend/internal/models"
	"token-casino-backend/internal/monitor"
)

// WalletService wraps the ledger with the betting rules: bet bounds,
// refunds, the faucet and admin adjustments. Every mutation lands as one
// atomic wallet+transaction write in Redis.
type WalletService struct {
	redis   *RedisService
	cfg     *config.Config
	metrics *monitor.Metrics
}

func NewWalletService(redis *RedisService, cfg *config.Config, metrics *monitor.Metrics) *WalletService {
	return &WalletService{redis: redis, cfg: cfg, metrics: metrics}
}

func (w *WalletService) GetBalance(userID int64) (*models.BalanceResponse, error) {
	wallet, err := w.redis.GetWallet(userID)
	if err != nil {
		return nil, err
	}
	return &models.BalanceResponse{
		Balance:      wallet.Balance,
		TotalWagered: wallet.TotalWagered,
		TotalWon:     wallet.TotalWon,
	}, nil
}

func (w *WalletService) GetTransactions(userID, limit int64) ([]*models.Transaction, error) {
	return w.redis.GetUserTransactions(userID, limit)
}

// PlaceBet debits the stake after checking the configured bet bounds.
func (w *WalletService) PlaceBet(userID int64, gameType models.GameType, sessionID string, amount int64) (int64, error) {
	if amount < w.cfg.MinBet || amount > w.cfg.MaxBet {
		return 0, models.ErrInvalidBetAmount
	}
	return w.DebitStake(userID, gameType, sessionID, amount)
}

// DebitStake debits without the bounds check, for follow-up stakes whose
// bounds the caller already enforced: doubles, splits, insurance.
func (w *WalletService) DebitStake(userID int64, gameType models.GameType, sessionID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, models.ErrInvalidBetAmount
	}
	if _, err := w.redis.GetWallet(userID); err != nil {
		return 0, err
	}

	tx := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeBet,
		Amount:    -amount,
		GameType:  gameType,
		SessionID: sessionID,
		CreatedAt: time.Now().Unix(),
	}
	balance, err := w.redis.ApplyBalanceChange(userID, -amount, tx, true, false)
	if err != nil {
		return 0, err
	}
	logger.Log.Debugw("bet placed",
		"user_id", userID, "game", gameType, "session", sessionID,
		"amount", amount, "balance", balance)
	return balance, nil
}

// CreditWinnings pays out a settled round. Zero and negative amounts are
// no-ops that report the current balance.
func (w *WalletService) CreditWinnings(userID int64, gameType models.GameType, sessionID string, amount int64) (int64, error) {
	if amount <= 0 {
		wallet, err := w.redis.GetWallet(userID)
		if err != nil {
			return 0, err
		}
		return wallet.Balance, nil
	}

	tx := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeWin,
		Amount:    amount,
		GameType:  gameType,
		SessionID: sessionID,
		CreatedAt: time.Now().Unix(),
	}
	balance, err := w.redis.ApplyBalanceChange(userID, amount, tx, false, true)
	if err != nil {
		return 0, err
	}
	logger.Log.Debugw("winnings credited",
		"user_id", userID, "game", gameType, "session", sessionID,
		"amount", amount, "balance", balance)
	return balance, nil
}

// SettleRound completes a multi-step session and credits its payout in a
// single atomic write, so a round can never finish with the win dropped.
// Zero and negative amounts settle a losing round.
func (w *WalletService) SettleRound(session *models.GameSession, amount int64) (int64, error) {
	tx := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    session.UserID,
		Type:      models.TransactionTypeWin,
		Amount:    amount,
		GameType:  session.GameType,
		SessionID: session.ID,
		CreatedAt: time.Now().Unix(),
	}
	balance, err := w.redis.SettleGameSession(session, amount, tx)
	if err != nil {
		return 0, err
	}
	logger.Log.Debugw("round settled",
		"user_id", session.UserID, "game", session.GameType, "session", session.ID,
		"amount", amount, "balance", balance)
	return balance, nil
}

// RefundBet returns a stake after an engine failure; the wager counter is
// rolled back with it.
func (w *WalletService) RefundBet(userID int64, gameType models.GameType, sessionID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("refund must be positive, got %d", amount)
	}

	tx := &models.Transaction{
		ID:          models.GenerateTransactionID(),
		UserID:      userID,
		Type:        models.TransactionTypeRefund,
		Amount:      amount,
		GameType:    gameType,
		SessionID:   sessionID,
		Description: "bet refund",
		CreatedAt:   time.Now().Unix(),
	}
	balance, err := w.redis.ApplyBalanceChange(userID, amount, tx, true, false)
	if err != nil {
		return 0, err
	}
	logger.Log.Warnw("bet refunded",
		"user_id", userID, "game", gameType, "session", sessionID, "amount", amount)
	return balance, nil
}

// Faucet grants the configured amount once per cooldown window.
func (w *WalletService) Faucet(userID int64) (int64, error) {
	if _, err := w.redis.GetWallet(userID); err != nil {
		return 0, err
	}

	tx := &models.Transaction{
		ID:          models.GenerateTransactionID(),
		UserID:      userID,
		Type:        models.TransactionTypeFaucet,
		Amount:      w.cfg.FaucetAmount,
		Description: "faucet claim",
		CreatedAt:   time.Now().Unix(),
	}
	balance, err := w.redis.ClaimFaucet(userID, w.cfg.FaucetAmount, w.cfg.FaucetCooldown, tx)
	if err != nil {
		return 0, err
	}
	if w.metrics != nil {
		w.metrics.FaucetClaims.Inc()
	}
	logger.Log.Infow("faucet claimed", "user_id", userID, "amount", w.cfg.FaucetAmount)
	return balance, nil
}

// AdminAdjust credits or debits a wallet outside of play. The reason is
// mandatory and lands in the ledger row.
func (w *WalletService) AdminAdjust(userID, amount int64, reason string) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("adjustment amount must be non-zero")
	}
	if reason == "" {
		return 0, fmt.Errorf("adjustment reason is required")
	}
	if _, err := w.redis.GetWallet(userID); err != nil {
		return 0, err
	}

	txType := models.TransactionTypeAdminCredit
	if amount < 0 {
		txType = models.TransactionTypeAdminDebit
	}
	tx := &models.Transaction{
		ID:          models.GenerateTransactionID(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: reason,
		CreatedAt:   time.Now().Unix(),
	}
	balance, err := w.redis.ApplyBalanceChange(userID, amount, tx, false, false)
	if err != nil {
		return 0, err
	}
	logger.Log.Infow("admin adjustment",
		"user_id", userID, "amount", amount, "reason", reason, "balance", balance)
	return balance, nil
}
