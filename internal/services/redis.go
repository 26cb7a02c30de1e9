package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/models"
)

// RedisService owns every read and write against Redis. All balance
// mutations go through Lua scripts so the wallet update and its ledger row
// land in one atomic step; plain GET/SET is reserved for data only ever
// touched by a single writer.
type RedisService struct {
	client          *redis.Client
	ctx             context.Context
	startingBalance int64
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{
		client:          client,
		ctx:             ctx,
		startingBalance: cfg.StartingBalance,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// ----- users -----

func (s *RedisService) GetUser(userID int64) (*models.User, error) {
	data, err := s.client.Get(s.ctx, fmt.Sprintf(KeyUserInfo, userID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("user not found: %d", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %v", err)
	}
	return &user, nil
}

// GetOrCreateUser resolves a username to a user, allocating an ID on first
// login. SETNX settles concurrent first logins for the same name.
func (s *RedisService) GetOrCreateUser(username string) (*models.User, error) {
	nameKey := fmt.Sprintf(KeyUsername, strings.ToLower(username))

	id, err := s.client.Get(s.ctx, nameKey).Int64()
	if err == nil {
		return s.GetUser(id)
	}
	if err != redis.Nil {
		return nil, fmt.Errorf("failed to look up username: %v", err)
	}

	newID, err := s.client.Incr(s.ctx, KeyNextUserID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %v", err)
	}

	claimed, err := s.client.SetNX(s.ctx, nameKey, newID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim username: %v", err)
	}
	if !claimed {
		id, err := s.client.Get(s.ctx, nameKey).Int64()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve username: %v", err)
		}
		return s.GetUser(id)
	}

	user := &models.User{
		ID:        newID,
		Username:  username,
		CreatedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %v", err)
	}
	if err := s.client.Set(s.ctx, fmt.Sprintf(KeyUserInfo, newID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to store user: %v", err)
	}
	return user, nil
}

// ----- wallets and the ledger -----

// applyBalanceScript moves the balance and appends the ledger row in one
// step. The transaction JSON arrives with zeroed balance snapshots; the
// script fills them from the wallet it just read so the pair can never
// disagree.
var applyBalanceScript = redis.NewScript(`
	local wallet_key = KEYS[1]
	local tx_key = KEYS[2]
	local list_key = KEYS[3]
	local amount = tonumber(ARGV[1])
	local wagered = ARGV[2] == "1"
	local won = ARGV[3] == "1"
	local now = tonumber(ARGV[4])
	local tx_ttl = tonumber(ARGV[5])

	local data = redis.call("GET", wallet_key)
	if not data then
		return redis.error_reply("wallet not found")
	end

	local wallet = cjson.decode(data)
	if wallet.balance + amount < 0 then
		return redis.error_reply("insufficient balance")
	end

	local tx = cjson.decode(ARGV[6])
	tx.balance_before = wallet.balance

	wallet.balance = wallet.balance + amount
	if wagered then
		wallet.total_wagered = wallet.total_wagered - amount
	end
	if won then
		wallet.total_won = wallet.total_won + amount
	end
	tx.balance_after = wallet.balance

	redis.call("SET", wallet_key, cjson.encode(wallet))
	redis.call("SET", tx_key, cjson.encode(tx), "EX", tx_ttl)
	redis.call("ZADD", list_key, now, tx.id)
	redis.call("ZREMRANGEBYRANK", list_key, 0, -(tonumber(ARGV[7]) + 1))

	return wallet.balance
`)

// faucetScript is the balance script plus a cooldown gate, so a double
// claim can never pay twice.
var faucetScript = redis.NewScript(`
	local wallet_key = KEYS[1]
	local tx_key = KEYS[2]
	local list_key = KEYS[3]
	local faucet_key = KEYS[4]
	local amount = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local tx_ttl = tonumber(ARGV[3])
	local cooldown = tonumber(ARGV[4])

	if redis.call("EXISTS", faucet_key) == 1 then
		return redis.error_reply("faucet on cooldown")
	end

	local data = redis.call("GET", wallet_key)
	if not data then
		return redis.error_reply("wallet not found")
	end

	local wallet = cjson.decode(data)
	local tx = cjson.decode(ARGV[5])
	tx.balance_before = wallet.balance
	wallet.balance = wallet.balance + amount
	tx.balance_after = wallet.balance

	redis.call("SET", wallet_key, cjson.encode(wallet))
	redis.call("SET", tx_key, cjson.encode(tx), "EX", tx_ttl)
	redis.call("ZADD", list_key, now, tx.id)
	redis.call("ZREMRANGEBYRANK", list_key, 0, -(tonumber(ARGV[6]) + 1))
	redis.call("SET", faucet_key, "1", "EX", cooldown)

	return wallet.balance
`)

func (s *RedisService) GetWallet(userID int64) (*models.Wallet, error) {
	key := fmt.Sprintf(KeyWallet, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return s.createWallet(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %v", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}
	return &wallet, nil
}

// createWallet writes an empty wallet, then credits the starting balance
// through the ledger so the first row already balances.
func (s *RedisService) createWallet(userID int64) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID}
	data, err := json.Marshal(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %v", err)
	}

	created, err := s.client.SetNX(s.ctx, fmt.Sprintf(KeyWallet, userID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %v", err)
	}
	if created && s.startingBalance > 0 {
		tx := &models.Transaction{
			ID:          models.GenerateTransactionID(),
			UserID:      userID,
			Type:        models.TransactionTypeAdminCredit,
			Amount:      s.startingBalance,
			Description: "starting balance",
			CreatedAt:   time.Now().Unix(),
		}
		if _, err := s.ApplyBalanceChange(userID, s.startingBalance, tx, false, false); err != nil {
			return nil, err
		}
	}
	return s.GetWallet(userID)
}

// ApplyBalanceChange runs the atomic wallet+ledger script. amount is
// signed; wagered and won steer the lifetime counters. It returns the new
// balance.
func (s *RedisService) ApplyBalanceChange(userID, amount int64, tx *models.Transaction, wagered, won bool) (int64, error) {
	txData, err := json.Marshal(tx)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transaction: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyWallet, userID),
		fmt.Sprintf(KeyTransaction, tx.ID),
		fmt.Sprintf(KeyUserTransactions, userID),
	}
	balance, err := applyBalanceScript.Run(s.ctx, s.client, keys,
		amount,
		boolArg(wagered),
		boolArg(won),
		time.Now().Unix(),
		int(TTLTransaction.Seconds()),
		string(txData),
		MaxTransactionHistory,
	).Int64()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient balance") {
			return 0, models.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to apply balance change: %v", err)
	}
	return balance, nil
}

// ClaimFaucet credits the faucet amount unless the cooldown key is live.
func (s *RedisService) ClaimFaucet(userID, amount int64, cooldown time.Duration, tx *models.Transaction) (int64, error) {
	txData, err := json.Marshal(tx)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transaction: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyWallet, userID),
		fmt.Sprintf(KeyTransaction, tx.ID),
		fmt.Sprintf(KeyUserTransactions, userID),
		fmt.Sprintf(KeyFaucet, userID),
	}
	balance, err := faucetScript.Run(s.ctx, s.client, keys,
		amount,
		time.Now().Unix(),
		int(TTLTransaction.Seconds()),
		int(cooldown.Seconds()),
		string(txData),
		MaxTransactionHistory,
	).Int64()
	if err != nil {
		if strings.Contains(err.Error(), "faucet on cooldown") {
			return 0, models.ErrFaucetOnCooldown
		}
		return 0, fmt.Errorf("failed to claim faucet: %v", err)
	}
	return balance, nil
}

func (s *RedisService) GetUserTransactions(userID, limit int64) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	txIDs, err := s.client.ZRevRange(s.ctx, fmt.Sprintf(KeyUserTransactions, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %v", err)
	}

	var transactions []*models.Transaction
	for _, txID := range txIDs {
		data, err := s.client.Get(s.ctx, fmt.Sprintf(KeyTransaction, txID)).Result()
		if err != nil {
			continue // expired rows fall out of the window
		}
		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nil
}

// ----- game sessions -----

// updateSessionScript replaces a session blob only while the session is
// still active and still at the version the caller loaded. A completed
// session is immutable; a version mismatch means another request already
// advanced this round.
var updateSessionScript = redis.NewScript(`
	local data = redis.call("GET", KEYS[1])
	if not data then
		return redis.error_reply("session not found")
	end
	local session = cjson.decode(data)
	if session.status ~= "active" then
		return redis.error_reply("session already completed")
	end
	if session.version ~= tonumber(ARGV[3]) then
		return redis.error_reply("session version conflict")
	end
	redis.call("SET", KEYS[1], ARGV[1], "EX", tonumber(ARGV[2]))
	return "OK"
`)

// finalizeSessionScript swaps a session to its completed form only while
// it is still active and unchanged since the caller loaded it, so a
// session can settle exactly once.
var finalizeSessionScript = redis.NewScript(`
	local data = redis.call("GET", KEYS[1])
	if not data then
		return redis.error_reply("session not found")
	end
	local session = cjson.decode(data)
	if session.status ~= "active" then
		return redis.error_reply("session already completed")
	end
	if session.version ~= tonumber(ARGV[3]) then
		return redis.error_reply("session version conflict")
	end
	redis.call("SET", KEYS[1], ARGV[1], "EX", tonumber(ARGV[2]))
	return "OK"
`)

// settleSessionScript is the finalize CAS plus the winnings credit in the
// same atomic step, so a session can never complete with its payout lost.
// Losing rounds pass amount 0 and only flip the status.
var settleSessionScript = redis.NewScript(`
	local data = redis.call("GET", KEYS[1])
	if not data then
		return redis.error_reply("session not found")
	end
	local session = cjson.decode(data)
	if session.status ~= "active" then
		return redis.error_reply("session already completed")
	end
	if session.version ~= tonumber(ARGV[3]) then
		return redis.error_reply("session version conflict")
	end

	local wdata = redis.call("GET", KEYS[2])
	if not wdata then
		return redis.error_reply("wallet not found")
	end
	local wallet = cjson.decode(wdata)

	local amount = tonumber(ARGV[4])
	if amount > 0 then
		local tx = cjson.decode(ARGV[5])
		tx.balance_before = wallet.balance
		wallet.balance = wallet.balance + amount
		wallet.total_won = wallet.total_won + amount
		tx.balance_after = wallet.balance
		redis.call("SET", KEYS[2], cjson.encode(wallet))
		redis.call("SET", KEYS[3], cjson.encode(tx), "EX", tonumber(ARGV[6]))
		redis.call("ZADD", KEYS[4], tonumber(ARGV[8]), tx.id)
		redis.call("ZREMRANGEBYRANK", KEYS[4], 0, -(tonumber(ARGV[7]) + 1))
	end

	redis.call("SET", KEYS[1], ARGV[1], "EX", tonumber(ARGV[2]))
	return wallet.balance
`)

// sessionScriptErr maps the session script error replies onto the API
// error taxonomy; anything else passes through as nil for the caller to
// wrap.
func sessionScriptErr(err error) error {
	switch {
	case strings.Contains(err.Error(), "session not found"):
		return models.ErrSessionNotFound
	case strings.Contains(err.Error(), "already completed"):
		return models.ErrAlreadyFinished
	case strings.Contains(err.Error(), "version conflict"):
		return models.ErrInvalidAction
	}
	return nil
}

func (s *RedisService) SaveGameSession(session *models.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %v", err)
	}

	key := fmt.Sprintf(KeyGameSession, session.ID)
	if err := s.client.Set(s.ctx, key, data, TTLGameSession).Err(); err != nil {
		return fmt.Errorf("failed to save game session: %v", err)
	}

	if session.Status == models.SessionStatusActive {
		activeKey := fmt.Sprintf(KeyUserActiveGames, session.UserID)
		if err := s.client.SAdd(s.ctx, activeKey, session.ID).Err(); err != nil {
			return fmt.Errorf("failed to add to active games: %v", err)
		}
		s.client.Expire(s.ctx, activeKey, TTLGameSession)
	}
	return nil
}

func (s *RedisService) GetGameSession(sessionID string) (*models.GameSession, error) {
	data, err := s.client.Get(s.ctx, fmt.Sprintf(KeyGameSession, sessionID)).Result()
	if err == redis.Nil {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %v", err)
	}

	var session models.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game session: %v", err)
	}
	return &session, nil
}

// UpdateGameSession persists a state transition on an active session.
// The write carries the version the caller loaded; a completed session
// returns ErrAlreadyFinished, a concurrent transition ErrInvalidAction.
func (s *RedisService) UpdateGameSession(session *models.GameSession) error {
	expected := session.Version
	session.Version++
	session.UpdatedAt = time.Now().Unix()

	data, err := json.Marshal(session)
	if err != nil {
		session.Version = expected
		return fmt.Errorf("failed to marshal game session: %v", err)
	}
	key := fmt.Sprintf(KeyGameSession, session.ID)
	err = updateSessionScript.Run(s.ctx, s.client, []string{key},
		string(data), int(TTLGameSession.Seconds()), expected).Err()
	if err != nil {
		session.Version = expected
		if mapped := sessionScriptErr(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update game session: %v", err)
	}
	return nil
}

// FinalizeGameSession completes a session with compare-and-set semantics
// and moves it from the active set to the completed history.
func (s *RedisService) FinalizeGameSession(session *models.GameSession) error {
	now := time.Now().Unix()
	expected := session.Version
	session.Version++
	session.Status = models.SessionStatusCompleted
	session.UpdatedAt = now
	session.EndedAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %v", err)
	}

	key := fmt.Sprintf(KeyGameSession, session.ID)
	err = finalizeSessionScript.Run(s.ctx, s.client, []string{key},
		string(data), int(TTLGameSession.Seconds()), expected).Err()
	if err != nil {
		if mapped := sessionScriptErr(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to finalize game session: %v", err)
	}

	return s.recordSessionCompleted(session, now)
}

// SettleGameSession completes a session and credits its payout in one
// atomic script. amount <= 0 settles a losing round without a ledger row.
// It returns the wallet balance after the credit.
func (s *RedisService) SettleGameSession(session *models.GameSession, amount int64, tx *models.Transaction) (int64, error) {
	now := time.Now().Unix()
	expected := session.Version
	session.Version++
	session.Status = models.SessionStatusCompleted
	session.UpdatedAt = now
	session.EndedAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal game session: %v", err)
	}
	txData, err := json.Marshal(tx)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal transaction: %v", err)
	}

	keys := []string{
		fmt.Sprintf(KeyGameSession, session.ID),
		fmt.Sprintf(KeyWallet, session.UserID),
		fmt.Sprintf(KeyTransaction, tx.ID),
		fmt.Sprintf(KeyUserTransactions, session.UserID),
	}
	balance, err := settleSessionScript.Run(s.ctx, s.client, keys,
		string(data),
		int(TTLGameSession.Seconds()),
		expected,
		amount,
		string(txData),
		int(TTLTransaction.Seconds()),
		MaxTransactionHistory,
		now,
	).Int64()
	if err != nil {
		if mapped := sessionScriptErr(err); mapped != nil {
			return 0, mapped
		}
		return 0, fmt.Errorf("failed to settle game session: %v", err)
	}

	if err := s.recordSessionCompleted(session, now); err != nil {
		return 0, err
	}
	return balance, nil
}

// recordSessionCompleted moves a settled session out of the active set
// and into the completed history zset.
func (s *RedisService) recordSessionCompleted(session *models.GameSession, now int64) error {
	activeKey := fmt.Sprintf(KeyUserActiveGames, session.UserID)
	if err := s.client.SRem(s.ctx, activeKey, session.ID).Err(); err != nil {
		return fmt.Errorf("failed to remove from active games: %v", err)
	}

	completedKey := fmt.Sprintf(KeyUserCompletedGames, session.UserID)
	if err := s.client.ZAdd(s.ctx, completedKey, redis.Z{
		Score:  float64(now),
		Member: session.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to completed games: %v", err)
	}
	s.client.ZRemRangeByRank(s.ctx, completedKey, 0, -(MaxGameHistory + 1))

	return nil
}

func (s *RedisService) GetUserActiveGames(userID int64) ([]*models.GameSession, error) {
	ids, err := s.client.SMembers(s.ctx, fmt.Sprintf(KeyUserActiveGames, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active games: %v", err)
	}
	return s.bulkGetGameSessions(ids)
}

func (s *RedisService) GetGameHistory(userID, limit int64) ([]*models.GameSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(s.ctx, fmt.Sprintf(KeyUserCompletedGames, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game history: %v", err)
	}
	return s.bulkGetGameSessions(ids)
}

func (s *RedisService) bulkGetGameSessions(sessionIDs []string) ([]*models.GameSession, error) {
	if len(sessionIDs) == 0 {
		return []*models.GameSession{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(sessionIDs))
	for i, id := range sessionIDs {
		cmds[i] = pipe.Get(s.ctx, fmt.Sprintf(KeyGameSession, id))
	}
	if _, err := pipe.Exec(s.ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pipeline execution failed: %v", err)
	}

	var sessions []*models.GameSession
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		var session models.GameSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

// ----- fairness seeds -----

// commitSeedNonceScript bumps the nonce inside the stored seed record; one
// bump per completed round.
var commitSeedNonceScript = redis.NewScript(`
	local data = redis.call("GET", KEYS[1])
	if not data then
		return redis.error_reply("seed not found")
	end
	local seed = cjson.decode(data)
	seed.nonce = seed.nonce + 1
	redis.call("SET", KEYS[1], cjson.encode(seed))
	return seed.nonce
`)

func (s *RedisService) GetSeed(userID int64, gameType models.GameType) (*models.FairnessSeed, error) {
	data, err := s.client.Get(s.ctx, fmt.Sprintf(KeySeed, userID, gameType)).Result()
	if err == redis.Nil {
		return nil, models.ErrFairnessRecordMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seed: %v", err)
	}

	var seed models.FairnessSeed
	if err := json.Unmarshal([]byte(data), &seed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed: %v", err)
	}
	return &seed, nil
}

func (s *RedisService) SaveSeed(seed *models.FairnessSeed) error {
	data, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("failed to marshal seed: %v", err)
	}
	return s.client.Set(s.ctx, fmt.Sprintf(KeySeed, seed.UserID, seed.GameType), data, 0).Err()
}

func (s *RedisService) CommitSeedNonce(userID int64, gameType models.GameType) (int64, error) {
	key := fmt.Sprintf(KeySeed, userID, gameType)
	nonce, err := commitSeedNonceScript.Run(s.ctx, s.client, []string{key}).Int64()
	if err != nil {
		if strings.Contains(err.Error(), "seed not found") {
			return 0, models.ErrFairnessRecordMissing
		}
		return 0, fmt.Errorf("failed to commit nonce: %v", err)
	}
	return nonce, nil
}

// ----- rate limiting -----

func (s *RedisService) CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}
	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}
	return count <= int64(limit), nil
}

// ----- cleanup helpers, used by tests -----

func (s *RedisService) DeleteWallet(userID int64) error {
	return s.client.Del(s.ctx,
		fmt.Sprintf(KeyWallet, userID),
		fmt.Sprintf(KeyUserTransactions, userID),
		fmt.Sprintf(KeyFaucet, userID),
	).Err()
}

func (s *RedisService) DeleteGameSession(sessionID string) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeyGameSession, sessionID)).Err()
}

func (s *RedisService) DeleteSeed(userID int64, gameType models.GameType) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeySeed, userID, gameType)).Err()
}

func (s *RedisService) ClearRateLimit(userID int64, action string) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeyRateLimit, userID, action)).Err()
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
