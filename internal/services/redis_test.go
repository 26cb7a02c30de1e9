package services_test

import (
	"errors"
	"testing"
	"time"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/models"
	"token-casino-backend/internal/services"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	t.Helper()

	cfg := &config.Config{
		RedisURL:        "localhost:6379",
		RedisPass:       "",
		RedisDB:         0,
		StartingBalance: 10000,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return redisService
}

func TestRedisWalletLedger(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999901)
	defer redisService.DeleteWallet(userID)

	wallet, err := redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.Balance != 10000 {
		t.Errorf("Expected starting balance 10000, got %d", wallet.Balance)
	}

	bet := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeBet,
		Amount:    -1000,
		CreatedAt: time.Now().Unix(),
	}
	balance, err := redisService.ApplyBalanceChange(userID, -1000, bet, true, false)
	if err != nil {
		t.Fatalf("Failed to apply bet: %v", err)
	}
	if balance != 9000 {
		t.Errorf("Expected balance 9000 after bet, got %d", balance)
	}

	win := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeWin,
		Amount:    500,
		CreatedAt: time.Now().Unix(),
	}
	balance, err = redisService.ApplyBalanceChange(userID, 500, win, false, true)
	if err != nil {
		t.Fatalf("Failed to apply win: %v", err)
	}
	if balance != 9500 {
		t.Errorf("Expected balance 9500 after win, got %d", balance)
	}

	wallet, err = redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.TotalWagered != 1000 {
		t.Errorf("Expected total wagered 1000, got %d", wallet.TotalWagered)
	}
	if wallet.TotalWon != 500 {
		t.Errorf("Expected total won 500, got %d", wallet.TotalWon)
	}

	overdraw := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeBet,
		Amount:    -100000,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := redisService.ApplyBalanceChange(userID, -100000, overdraw, true, false); !errors.Is(err, models.ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}

	transactions, err := redisService.GetUserTransactions(userID, 10)
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	// Starting balance credit, bet, win; the rejected bet leaves no row.
	if len(transactions) != 3 {
		t.Fatalf("Expected 3 ledger rows, got %d", len(transactions))
	}
	if transactions[0].Type != models.TransactionTypeWin {
		t.Errorf("Expected most recent row to be the win, got %s", transactions[0].Type)
	}
	if transactions[0].BalanceBefore != 9000 || transactions[0].BalanceAfter != 9500 {
		t.Errorf("Win row snapshots %d -> %d, want 9000 -> 9500",
			transactions[0].BalanceBefore, transactions[0].BalanceAfter)
	}
}

func TestRedisRefundRollsBackWagered(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999902)
	defer redisService.DeleteWallet(userID)

	if _, err := redisService.GetWallet(userID); err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}

	bet := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeBet,
		Amount:    -200,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := redisService.ApplyBalanceChange(userID, -200, bet, true, false); err != nil {
		t.Fatalf("Failed to apply bet: %v", err)
	}

	refund := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeRefund,
		Amount:    200,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := redisService.ApplyBalanceChange(userID, 200, refund, true, false); err != nil {
		t.Fatalf("Failed to apply refund: %v", err)
	}

	wallet, err := redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.Balance != 10000 {
		t.Errorf("Expected balance restored to 10000, got %d", wallet.Balance)
	}
	if wallet.TotalWagered != 0 {
		t.Errorf("Expected wagered counter rolled back to 0, got %d", wallet.TotalWagered)
	}
}

func TestRedisSessionLifecycle(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999903)
	session := &models.GameSession{
		ID:        "test_session_lifecycle",
		UserID:    userID,
		GameType:  models.GameTypeMines,
		BetAmount: 100,
		Status:    models.SessionStatusActive,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	defer redisService.DeleteGameSession(session.ID)

	if err := redisService.SaveGameSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	retrieved, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if retrieved.Status != models.SessionStatusActive {
		t.Errorf("Expected active session, got %s", retrieved.Status)
	}

	active, err := redisService.GetUserActiveGames(userID)
	if err != nil {
		t.Fatalf("Failed to get active games: %v", err)
	}
	if len(active) != 1 || active[0].ID != session.ID {
		t.Errorf("Expected the session in the active set, got %v", active)
	}

	session.WinAmount = 250
	if err := redisService.FinalizeGameSession(session); err != nil {
		t.Fatalf("Failed to finalize session: %v", err)
	}

	retrieved, err = redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get finalized session: %v", err)
	}
	if !retrieved.Finished() {
		t.Error("Expected session completed after finalize")
	}
	if retrieved.WinAmount != 250 {
		t.Errorf("Expected win amount 250, got %d", retrieved.WinAmount)
	}

	if err := redisService.FinalizeGameSession(session); !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished on second finalize, got %v", err)
	}

	if _, err := redisService.GetGameSession("no_such_session"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionUpdateAfterFinalize(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999907)
	session := &models.GameSession{
		ID:        "test_session_update_guard",
		UserID:    userID,
		GameType:  models.GameTypeMines,
		BetAmount: 100,
		Status:    models.SessionStatusActive,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	defer redisService.DeleteGameSession(session.ID)

	if err := redisService.SaveGameSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// A second request holds a stale active copy while the round settles.
	stale, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}

	session.WinAmount = 300
	if err := redisService.FinalizeGameSession(session); err != nil {
		t.Fatalf("Failed to finalize session: %v", err)
	}

	if err := redisService.UpdateGameSession(stale); !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished writing to a settled session, got %v", err)
	}

	// The settled record survives untouched.
	retrieved, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if !retrieved.Finished() {
		t.Error("Expected the session to stay completed")
	}
	if retrieved.WinAmount != 300 {
		t.Errorf("Expected win amount 300 preserved, got %d", retrieved.WinAmount)
	}
}

func TestRedisSessionVersionConflict(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999908)
	session := &models.GameSession{
		ID:        "test_session_version_conflict",
		UserID:    userID,
		GameType:  models.GameTypeBlackjack,
		BetAmount: 100,
		Status:    models.SessionStatusActive,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	defer redisService.DeleteGameSession(session.ID)

	if err := redisService.SaveGameSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	first, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	second, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}

	if err := redisService.UpdateGameSession(first); err != nil {
		t.Fatalf("Failed to update session: %v", err)
	}

	// The copy loaded before the first write lost the race; its transition
	// must not clobber the one that landed.
	if err := redisService.UpdateGameSession(second); !errors.Is(err, models.ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction on a stale write, got %v", err)
	}

	retrieved, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if retrieved.Version != 1 {
		t.Errorf("Expected version 1 after one update, got %d", retrieved.Version)
	}

	// The winner can keep playing and settle.
	if err := redisService.FinalizeGameSession(first); err != nil {
		t.Fatalf("Failed to finalize session: %v", err)
	}
}

func TestRedisSettleSessionCreditsAtomically(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999909)
	defer redisService.DeleteWallet(userID)

	if _, err := redisService.GetWallet(userID); err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}

	session := &models.GameSession{
		ID:        "test_session_settle",
		UserID:    userID,
		GameType:  models.GameTypeMines,
		BetAmount: 100,
		Status:    models.SessionStatusActive,
		WinAmount: 250,
		CreatedAt: time.Now().Unix(),
		UpdatedAt: time.Now().Unix(),
	}
	defer redisService.DeleteGameSession(session.ID)

	if err := redisService.SaveGameSession(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	tx := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeWin,
		Amount:    250,
		GameType:  session.GameType,
		SessionID: session.ID,
		CreatedAt: time.Now().Unix(),
	}
	balance, err := redisService.SettleGameSession(session, 250, tx)
	if err != nil {
		t.Fatalf("Failed to settle session: %v", err)
	}
	if balance != 10250 {
		t.Errorf("Expected balance 10250 after settle, got %d", balance)
	}

	retrieved, err := redisService.GetGameSession(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if !retrieved.Finished() {
		t.Error("Expected session completed after settle")
	}
	if retrieved.WinAmount != 250 {
		t.Errorf("Expected win amount 250, got %d", retrieved.WinAmount)
	}

	wallet, err := redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.TotalWon != 250 {
		t.Errorf("Expected total won 250, got %d", wallet.TotalWon)
	}

	transactions, err := redisService.GetUserTransactions(userID, 10)
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(transactions) == 0 || transactions[0].Type != models.TransactionTypeWin {
		t.Fatal("Expected the win row in the ledger")
	}
	if transactions[0].BalanceBefore != 10000 || transactions[0].BalanceAfter != 10250 {
		t.Errorf("Win row snapshots %d -> %d, want 10000 -> 10250",
			transactions[0].BalanceBefore, transactions[0].BalanceAfter)
	}

	// A replayed settle neither flips the session nor pays twice.
	retry := &models.Transaction{
		ID:        models.GenerateTransactionID(),
		UserID:    userID,
		Type:      models.TransactionTypeWin,
		Amount:    250,
		GameType:  session.GameType,
		SessionID: session.ID,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := redisService.SettleGameSession(session, 250, retry); !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished on a second settle, got %v", err)
	}
	wallet, err = redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.Balance != 10250 {
		t.Errorf("Expected balance still 10250 after the replay, got %d", wallet.Balance)
	}
}

func TestRedisSeedNonce(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999904)
	defer redisService.DeleteSeed(userID, models.GameTypeDice)

	if _, err := redisService.GetSeed(userID, models.GameTypeDice); !errors.Is(err, models.ErrFairnessRecordMissing) {
		t.Errorf("Expected ErrFairnessRecordMissing, got %v", err)
	}

	seed := &models.FairnessSeed{
		ID:             models.GenerateSeedID(),
		UserID:         userID,
		GameType:       models.GameTypeDice,
		ServerSeed:     "server-seed",
		ServerSeedHash: services.HashServerSeed("server-seed"),
		ClientSeed:     "client-seed",
		CreatedAt:      time.Now().Unix(),
	}
	if err := redisService.SaveSeed(seed); err != nil {
		t.Fatalf("Failed to save seed: %v", err)
	}

	nonce, err := redisService.CommitSeedNonce(userID, models.GameTypeDice)
	if err != nil {
		t.Fatalf("Failed to commit nonce: %v", err)
	}
	if nonce != 1 {
		t.Errorf("Expected nonce 1 after first commit, got %d", nonce)
	}

	nonce, err = redisService.CommitSeedNonce(userID, models.GameTypeDice)
	if err != nil {
		t.Fatalf("Failed to commit nonce: %v", err)
	}
	if nonce != 2 {
		t.Errorf("Expected nonce 2 after second commit, got %d", nonce)
	}

	stored, err := redisService.GetSeed(userID, models.GameTypeDice)
	if err != nil {
		t.Fatalf("Failed to get seed: %v", err)
	}
	if stored.Nonce != 2 {
		t.Errorf("Expected stored nonce 2, got %d", stored.Nonce)
	}
	if stored.ServerSeed != "server-seed" {
		t.Error("Expected server seed to survive the nonce commit")
	}
}

func TestRedisFaucetCooldown(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999905)
	defer redisService.DeleteWallet(userID)

	if _, err := redisService.GetWallet(userID); err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}

	claim := func() (int64, error) {
		tx := &models.Transaction{
			ID:        models.GenerateTransactionID(),
			UserID:    userID,
			Type:      models.TransactionTypeFaucet,
			Amount:    1000,
			CreatedAt: time.Now().Unix(),
		}
		return redisService.ClaimFaucet(userID, 1000, time.Minute, tx)
	}

	balance, err := claim()
	if err != nil {
		t.Fatalf("Failed to claim faucet: %v", err)
	}
	if balance != 11000 {
		t.Errorf("Expected balance 11000 after faucet, got %d", balance)
	}

	if _, err := claim(); !errors.Is(err, models.ErrFaucetOnCooldown) {
		t.Errorf("Expected ErrFaucetOnCooldown, got %v", err)
	}
}

func TestRedisRateLimit(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999906)
	defer redisService.ClearRateLimit(userID, "test")

	for i := 0; i < 3; i++ {
		allowed, err := redisService.CheckRateLimit(userID, "test", 3, time.Minute)
		if err != nil {
			t.Fatalf("Failed to check rate limit: %v", err)
		}
		if !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}

	allowed, err := redisService.CheckRateLimit(userID, "test", 3, time.Minute)
	if err != nil {
		t.Fatalf("Failed to check rate limit: %v", err)
	}
	if allowed {
		t.Error("Fourth request should be rejected")
	}
}
