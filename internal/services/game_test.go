package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/models"
	"token-casino-backend/internal/monitor"
	"token-casino-backend/internal/services"
)

func setupTestEngine(t *testing.T) (*services.GameEngine, *services.RedisService) {
	t.Helper()

	cfg := &config.Config{
		RedisURL:        "localhost:6379",
		RedisPass:       "",
		RedisDB:         0,
		StartingBalance: 10000,
		MinBet:          1,
		MaxBet:          10000,
		FaucetAmount:    1000,
		FaucetCooldown:  time.Minute,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	walletService := services.NewWalletService(redisService, cfg, nil)
	seedManager := services.NewSeedManager(redisService)
	engine := services.NewGameEngine(redisService, walletService, seedManager, cfg, nil)
	return engine, redisService
}

func cleanupTestUser(redisService *services.RedisService, userID int64, gameTypes ...models.GameType) {
	redisService.DeleteWallet(userID)
	for _, g := range gameTypes {
		redisService.DeleteSeed(userID, g)
	}
}

func TestGameEngineSpinDice(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	userID := int64(999910)
	defer cleanupTestUser(redisService, userID, models.GameTypeDice)

	response, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeDice,
		Amount:   100,
		Target:   50,
		Over:     true,
	})
	if err != nil {
		t.Fatalf("Failed to spin: %v", err)
	}

	if response.Balance != 10000-100+response.Payout {
		t.Errorf("Balance %d does not conserve: start 10000, bet 100, payout %d",
			response.Balance, response.Payout)
	}
	if !response.Provable {
		t.Error("Expected a provable round by default")
	}
	if response.Nonce != 0 {
		t.Errorf("Expected first round at nonce 0, got %d", response.Nonce)
	}

	// The nonce advances for the next round.
	seed, err := redisService.GetSeed(userID, models.GameTypeDice)
	if err != nil {
		t.Fatalf("Failed to get seed: %v", err)
	}
	if seed.Nonce != 1 {
		t.Errorf("Expected nonce 1 after one round, got %d", seed.Nonce)
	}

	defer redisService.DeleteGameSession(response.SessionID)

	history, err := engine.History(userID, 10)
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	found := false
	for _, s := range history {
		if s.ID == response.SessionID {
			found = true
			if !s.Finished() {
				t.Error("Expected the spin session completed")
			}
		}
	}
	if !found {
		t.Error("Expected the spin in the history")
	}
}

func TestGameEngineSpinRejectsStatefulGames(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	userID := int64(999911)
	defer cleanupTestUser(redisService, userID)

	if _, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeBlackjack,
		Amount:   100,
	}); err == nil {
		t.Error("Expected spin to reject a multi-step game")
	}
}

func TestGameEngineSpinRejectsBadBet(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	userID := int64(999912)
	defer cleanupTestUser(redisService, userID, models.GameTypeDice)

	if _, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeDice,
		Amount:   20000,
		Target:   50,
		Over:     true,
	}); !errors.Is(err, models.ErrInvalidBetAmount) {
		t.Errorf("Expected ErrInvalidBetAmount, got %v", err)
	}
}

func TestGameEngineSpinRefundsEngineRejection(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	userID := int64(999913)
	defer cleanupTestUser(redisService, userID, models.GameTypeDice)

	// Target 99.5 is outside the dice range, so the engine rejects after
	// the stake was taken.
	if _, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeDice,
		Amount:   100,
		Target:   99.5,
		Over:     true,
	}); err == nil {
		t.Fatal("Expected the engine to reject the target")
	}

	wallet, err := redisService.GetWallet(userID)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	if wallet.Balance != 10000 {
		t.Errorf("Expected the stake refunded, balance %d", wallet.Balance)
	}
	if wallet.TotalWagered != 0 {
		t.Errorf("Expected wagered counter rolled back, got %d", wallet.TotalWagered)
	}

	seed, err := redisService.GetSeed(userID, models.GameTypeDice)
	if err != nil {
		t.Fatalf("Failed to get seed: %v", err)
	}
	if seed.Nonce != 0 {
		t.Errorf("Expected the nonce untouched after a rejection, got %d", seed.Nonce)
	}
}

func TestGameEngineMinesCashout(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	userID := int64(999914)
	defer cleanupTestUser(redisService, userID, models.GameTypeMines)

	start, err := engine.StartMines(userID, &models.MinesStartRequest{
		Amount:    100,
		MineCount: 3,
	})
	if err != nil {
		t.Fatalf("Failed to start mines: %v", err)
	}
	defer redisService.DeleteGameSession(start.SessionID)

	if start.Status != models.SessionStatusActive {
		t.Errorf("Expected an active round, got %s", start.Status)
	}
	if start.Balance != 9900 {
		t.Errorf("Expected balance 9900 after the stake, got %d", start.Balance)
	}

	// Cashing out before any reveal returns the stake at 1x.
	cashout, err := engine.CashoutMines(userID, &models.CashoutRequest{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("Failed to cash out: %v", err)
	}
	if cashout.WinAmount != 100 {
		t.Errorf("Expected 1x cashout of 100, got %d", cashout.WinAmount)
	}
	if cashout.Balance != 10000 {
		t.Errorf("Expected balance restored to 10000, got %d", cashout.Balance)
	}

	if _, err := engine.CashoutMines(userID, &models.CashoutRequest{SessionID: start.SessionID}); !errors.Is(err, models.ErrAlreadyFinished) {
		t.Errorf("Expected ErrAlreadyFinished on a second cashout, got %v", err)
	}
}

func TestGameEngineRoundsAreOwnerScoped(t *testing.T) {
	engine, redisService := setupTestEngine(t)
	defer redisService.Close()

	owner := int64(999915)
	stranger := int64(999916)
	defer cleanupTestUser(redisService, owner, models.GameTypeMines)
	defer cleanupTestUser(redisService, stranger)

	start, err := engine.StartMines(owner, &models.MinesStartRequest{Amount: 100})
	if err != nil {
		t.Fatalf("Failed to start mines: %v", err)
	}
	defer redisService.DeleteGameSession(start.SessionID)

	if _, err := engine.RevealMine(stranger, &models.MinesRevealRequest{
		SessionID: start.SessionID,
		Position:  0,
	}); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for a foreign session, got %v", err)
	}

	// The round is still playable for its owner.
	if _, err := engine.CashoutMines(owner, &models.CashoutRequest{SessionID: start.SessionID}); err != nil {
		t.Errorf("Owner cashout failed: %v", err)
	}
}

func TestGameEngineSettlementRecordsMetrics(t *testing.T) {
	_, redisService := setupTestEngine(t)
	defer redisService.Close()

	cfg := &config.Config{
		RedisURL:        "localhost:6379",
		StartingBalance: 10000,
		MinBet:          1,
		MaxBet:          10000,
	}
	metrics := monitor.NewMetrics("casino_test")
	walletService := services.NewWalletService(redisService, cfg, metrics)
	seedManager := services.NewSeedManager(redisService)
	engine := services.NewGameEngine(redisService, walletService, seedManager, cfg, metrics)

	userID := int64(999918)
	defer cleanupTestUser(redisService, userID, models.GameTypeDice, models.GameTypeMines)

	// A single-shot round settles through the recorder.
	spin, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeDice,
		Amount:   100,
		Target:   50,
		Over:     true,
	})
	if err != nil {
		t.Fatalf("Failed to spin: %v", err)
	}
	defer redisService.DeleteGameSession(spin.SessionID)

	if got := testutil.ToFloat64(metrics.BetsPlaced.WithLabelValues("dice")); got != 1 {
		t.Errorf("Expected 1 dice bet recorded, got %v", got)
	}

	// A multi-step cashout settles through the same recorder.
	start, err := engine.StartMines(userID, &models.MinesStartRequest{Amount: 100, MineCount: 3})
	if err != nil {
		t.Fatalf("Failed to start mines: %v", err)
	}
	defer redisService.DeleteGameSession(start.SessionID)

	cashout, err := engine.CashoutMines(userID, &models.CashoutRequest{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("Failed to cash out: %v", err)
	}
	if cashout.WinAmount != 100 {
		t.Errorf("Expected 1x cashout of 100, got %d", cashout.WinAmount)
	}

	if got := testutil.ToFloat64(metrics.RoundsSettled.WithLabelValues("mines", "win")); got != 1 {
		t.Errorf("Expected 1 settled mines round recorded, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.TokensPaid.WithLabelValues("mines")); got != 100 {
		t.Errorf("Expected 100 tokens paid recorded for mines, got %v", got)
	}
}

func TestGameEngineDisabledGame(t *testing.T) {
	_, redisService := setupTestEngine(t)
	defer redisService.Close()

	cfg := &config.Config{
		RedisURL:        "localhost:6379",
		StartingBalance: 10000,
		MinBet:          1,
		MaxBet:          10000,
		DisabledGames:   []string{"dice"},
	}
	walletService := services.NewWalletService(redisService, cfg, nil)
	seedManager := services.NewSeedManager(redisService)
	engine := services.NewGameEngine(redisService, walletService, seedManager, cfg, nil)

	userID := int64(999917)
	defer cleanupTestUser(redisService, userID)

	if _, err := engine.Spin(userID, &models.SpinRequest{
		GameType: models.GameTypeDice,
		Amount:   100,
		Target:   50,
		Over:     true,
	}); !errors.Is(err, models.ErrGameDisabled) {
		t.Errorf("Expected ErrGameDisabled, got %v", err)
	}
}
