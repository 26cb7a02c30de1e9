package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/games"
	"token-casino-backend/internal/logger"
	"token-casino-backend/internal/models"
	"token-casino-backend/internal/monitor"
)

// GameEngine dispatches bets to the pure engines and owns the money flow
// around them: debit, derive the float stream, evaluate, credit, commit
// the fairness nonce. Multi-step rounds persist their engine state as an
// opaque blob on the session and replay it on every action.
type GameEngine struct {
	redis       *RedisService
	wallet      *WalletService
	seeds       *SeedManager
	cfg         *config.Config
	metrics     *monitor.Metrics
	broadcaster Broadcaster
}

func NewGameEngine(redis *RedisService, wallet *WalletService, seeds *SeedManager, cfg *config.Config, metrics *monitor.Metrics) *GameEngine {
	return &GameEngine{
		redis:   redis,
		wallet:  wallet,
		seeds:   seeds,
		cfg:     cfg,
		metrics: metrics,
	}
}

// SetBroadcaster wires the websocket hub in after construction; the hub
// needs the engine's services first.
func (e *GameEngine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

func (e *GameEngine) pushBalance(userID, balance int64) {
	if e.broadcaster != nil {
		e.broadcaster.BroadcastBalance(userID, balance)
	}
}

func (e *GameEngine) pushRound(userID int64, payload any) {
	if e.broadcaster != nil {
		e.broadcaster.BroadcastRound(userID, payload)
	}
}

func (e *GameEngine) recordBet(gameType models.GameType, amount int64) {
	if e.metrics != nil {
		e.metrics.RecordBet(string(gameType), amount)
	}
}

func (e *GameEngine) recordSettlement(gameType models.GameType, payout int64) {
	if e.metrics != nil {
		e.metrics.RecordSettlement(string(gameType), payout)
	}
}

// roundSource picks the float stream for one round: the per-(user, game)
// HMAC stream, or crypto/rand for games configured as ambient.
func (e *GameEngine) roundSource(userID int64, gameType models.GameType) (games.FloatSource, int64, bool, error) {
	if e.cfg.GameUsesAmbientRandomness(string(gameType)) {
		return AmbientSource(), 0, false, nil
	}
	seed, err := e.seeds.GetOrCreate(userID, gameType)
	if err != nil {
		return nil, 0, false, err
	}
	return e.seeds.Round(seed), seed.Nonce, true, nil
}

// commitNonce advances the stream after a round consumed it. Failure here
// must not lose the round, so it is logged and play continues.
func (e *GameEngine) commitNonce(userID int64, gameType models.GameType, provable bool) {
	if !provable {
		return
	}
	if _, err := e.seeds.Commit(userID, gameType); err != nil {
		logger.Log.Errorw("failed to commit fairness nonce",
			"user_id", userID, "game", gameType, "error", err)
	}
}

// mapEngineErr translates engine sentinels into the API error taxonomy.
func mapEngineErr(err error) error {
	switch {
	case errors.Is(err, games.ErrRoundOver):
		return models.ErrAlreadyFinished
	case errors.Is(err, games.ErrInvalidMove):
		return models.ErrInvalidAction
	default:
		return err
	}
}

func (e *GameEngine) checkPlayable(gameType models.GameType) error {
	if !gameType.Valid() {
		return fmt.Errorf("unknown game type %q", gameType)
	}
	if e.cfg.GameDisabled(string(gameType)) {
		return models.ErrGameDisabled
	}
	return nil
}

// ----- single-shot games -----

// Spin runs one complete round of a single-shot game: debit, derive,
// evaluate, credit, commit. An engine rejection refunds the stake and
// leaves the nonce untouched.
func (e *GameEngine) Spin(userID int64, req *models.SpinRequest) (*models.SpinResponse, error) {
	gameType := req.GameType
	if err := e.checkPlayable(gameType); err != nil {
		return nil, err
	}
	if gameType.Stateful() {
		return nil, fmt.Errorf("%s rounds run through their own endpoints", gameType)
	}

	source, nonce, provable, err := e.roundSource(userID, gameType)
	if err != nil {
		return nil, err
	}

	sessionID := models.GenerateSessionID()
	if _, err := e.wallet.PlaceBet(userID, gameType, sessionID, req.Amount); err != nil {
		return nil, err
	}
	e.recordBet(gameType, req.Amount)

	result, payout, err := e.evaluateSpin(gameType, req, source)
	if err != nil {
		if _, refundErr := e.wallet.RefundBet(userID, gameType, sessionID, req.Amount); refundErr != nil {
			logger.Log.Errorw("refund after engine failure failed",
				"user_id", userID, "session", sessionID, "error", refundErr)
		}
		return nil, err
	}
	e.commitNonce(userID, gameType, provable)

	balance, err := e.wallet.CreditWinnings(userID, gameType, sessionID, payout)
	if err != nil {
		return nil, err
	}
	e.recordSettlement(gameType, payout)

	if err := e.recordInstantRound(userID, gameType, sessionID, req.Amount, payout, nonce, result); err != nil {
		logger.Log.Errorw("failed to record round",
			"user_id", userID, "session", sessionID, "error", err)
	}

	e.pushBalance(userID, balance)
	response := &models.SpinResponse{
		GameType:  gameType,
		SessionID: sessionID,
		BetAmount: req.Amount,
		Payout:    payout,
		Balance:   balance,
		Provable:  provable,
		Nonce:     nonce,
		Result:    result,
	}
	e.pushRound(userID, response)
	return response, nil
}

func (e *GameEngine) evaluateSpin(gameType models.GameType, req *models.SpinRequest, source games.FloatSource) (any, int64, error) {
	switch gameType {
	case models.GameTypeDice:
		result, err := games.PlayDice(req.Amount, games.DiceParams{Target: req.Target, Over: req.Over}, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeRoulette:
		params := games.RouletteParams{Kind: games.RouletteBetKind(req.BetKind), Number: req.Number}
		result, err := games.PlayRoulette(req.Amount, params, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeWheel:
		result, err := games.PlayWheel(req.Amount, riskOrDefault(req.Risk), source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypePlinko:
		result, err := games.PlayPlinko(req.Amount, riskOrDefault(req.Risk), source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeSlots:
		result, err := games.PlaySlots(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeSweetBonanza:
		result, err := games.PlaySweetBonanza(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeStarburst:
		result, err := games.PlayStarburst(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeGonzo:
		result, err := games.PlayGonzo(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeWolfGold:
		result, err := games.PlayWolfGold(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeCoinStrike:
		result, err := games.PlayCoinStrike(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	case models.GameTypeBookOfDead:
		result, err := games.PlayBookOfDead(req.Amount, source)
		if err != nil {
			return nil, 0, err
		}
		return result, result.Payout, nil
	default:
		return nil, 0, fmt.Errorf("unknown game type %q", gameType)
	}
}

func riskOrDefault(risk string) games.RiskLevel {
	if risk == "" {
		return games.RiskMedium
	}
	return games.RiskLevel(risk)
}

// recordInstantRound persists a settled single-shot round into the
// session history.
func (e *GameEngine) recordInstantRound(userID int64, gameType models.GameType, sessionID string, bet, payout, nonce int64, result any) error {
	state, err := json.Marshal(result)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	session := &models.GameSession{
		ID:        sessionID,
		UserID:    userID,
		GameType:  gameType,
		BetAmount: bet,
		Status:    models.SessionStatusActive,
		State:     state,
		Nonce:     nonce,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.redis.SaveGameSession(session); err != nil {
		return err
	}
	session.WinAmount = payout
	return e.redis.FinalizeGameSession(session)
}

// ----- shared multi-step plumbing -----

// startRound debits the stake, builds the engine state from the round's
// float stream and persists the active session. The nonce commits at
// start: the stream is consumed the moment the layout is drawn.
func (e *GameEngine) startRound(userID int64, gameType models.GameType, bet int64,
	build func(games.FloatSource) (any, error)) (*models.GameSession, int64, bool, error) {

	if err := e.checkPlayable(gameType); err != nil {
		return nil, 0, false, err
	}

	source, nonce, provable, err := e.roundSource(userID, gameType)
	if err != nil {
		return nil, 0, false, err
	}

	sessionID := models.GenerateSessionID()
	if _, err := e.wallet.PlaceBet(userID, gameType, sessionID, bet); err != nil {
		return nil, 0, false, err
	}
	e.recordBet(gameType, bet)

	state, err := build(source)
	if err != nil {
		if _, refundErr := e.wallet.RefundBet(userID, gameType, sessionID, bet); refundErr != nil {
			logger.Log.Errorw("refund after engine failure failed",
				"user_id", userID, "session", sessionID, "error", refundErr)
		}
		return nil, 0, false, err
	}
	e.commitNonce(userID, gameType, provable)

	blob, err := json.Marshal(state)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to marshal round state: %v", err)
	}
	now := time.Now().Unix()
	session := &models.GameSession{
		ID:        sessionID,
		UserID:    userID,
		GameType:  gameType,
		BetAmount: bet,
		Status:    models.SessionStatusActive,
		State:     blob,
		Nonce:     nonce,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.redis.SaveGameSession(session); err != nil {
		return nil, 0, false, err
	}
	return session, nonce, provable, nil
}

// loadRound fetches an active session and enforces ownership. A session
// belonging to someone else is indistinguishable from a missing one.
func (e *GameEngine) loadRound(userID int64, sessionID string, gameType models.GameType) (*models.GameSession, error) {
	session, err := e.redis.GetGameSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID || session.GameType != gameType {
		return nil, models.ErrSessionNotFound
	}
	if session.Finished() {
		return nil, models.ErrAlreadyFinished
	}
	return session, nil
}

// finishRound settles a session exactly once. The status flip and the
// payout land in one atomic write, so a completed session can never be
// left unpaid.
func (e *GameEngine) finishRound(session *models.GameSession, winAmount int64) (int64, error) {
	session.WinAmount = winAmount
	balance, err := e.wallet.SettleRound(session, winAmount)
	if err != nil {
		return 0, err
	}
	e.recordSettlement(session.GameType, winAmount)
	e.pushBalance(session.UserID, balance)
	return balance, nil
}

func (e *GameEngine) saveRoundState(session *models.GameSession, state any) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal round state: %v", err)
	}
	session.State = blob
	return e.redis.UpdateGameSession(session)
}

func (e *GameEngine) balanceOf(userID int64) int64 {
	wallet, err := e.redis.GetWallet(userID)
	if err != nil {
		return 0
	}
	return wallet.Balance
}

// ----- blackjack -----

// blackjackView hides the shoe always and the dealer hole card until the
// round settles.
type blackjackView struct {
	Phase      games.BlackjackPhase   `json:"phase"`
	Spots      []*games.BlackjackSpot `json:"spots"`
	DealerUp   *games.Card            `json:"dealer_up,omitempty"`
	Dealer     []games.Card           `json:"dealer,omitempty"`
	ActiveSpot int                    `json:"active_spot"`
	ActiveHand int                    `json:"active_hand"`
}

func newBlackjackView(state *games.BlackjackState) *blackjackView {
	view := &blackjackView{
		Phase:      state.Phase,
		Spots:      state.Spots,
		ActiveSpot: state.ActiveSpot,
		ActiveHand: state.ActiveHand,
	}
	if state.Phase == games.PhaseSettled {
		view.Dealer = state.Dealer
	} else if len(state.Dealer) > 0 {
		view.DealerUp = &state.Dealer[0]
	}
	return view
}

func (e *GameEngine) StartBlackjack(userID int64, req *models.BlackjackStartRequest) (*models.RoundResponse, error) {
	for _, bet := range req.Bets {
		if bet < e.cfg.MinBet || bet > e.cfg.MaxBet {
			return nil, models.ErrInvalidBetAmount
		}
	}
	total := int64(0)
	for _, bet := range req.Bets {
		total += bet
	}

	var state *games.BlackjackState
	session, nonce, provable, err := e.startRound(userID, models.GameTypeBlackjack, total,
		func(source games.FloatSource) (any, error) {
			var buildErr error
			state, buildErr = games.NewBlackjackRound(req.Bets, source)
			return state, buildErr
		})
	if err != nil {
		return nil, err
	}

	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeBlackjack,
		Status:    session.Status,
		BetAmount: total,
		Balance:   e.balanceOf(userID),
		Provable:  provable,
		Nonce:     nonce,
		State:     newBlackjackView(state),
	}

	// Every spot dealt a natural: the round settles on the spot.
	if state.Phase == games.PhaseSettled {
		return e.settleBlackjack(session, state, response)
	}
	return response, nil
}

func (e *GameEngine) BlackjackAction(userID int64, req *models.BlackjackActionRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeBlackjack)
	if err != nil {
		return nil, err
	}

	var state games.BlackjackState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	switch req.Action {
	case "hit":
		err = state.Hit()
	case "stand":
		err = state.Stand()
	case "double":
		err = e.blackjackDouble(userID, session, &state)
	case "split":
		err = e.blackjackSplit(userID, session, &state)
	case "insurance":
		err = e.blackjackInsure(userID, session, &state)
	default:
		err = models.ErrInvalidAction
	}
	if err != nil {
		return nil, mapEngineErr(err)
	}

	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeBlackjack,
		Status:    session.Status,
		BetAmount: session.BetAmount,
		Balance:   e.balanceOf(userID),
		Provable:  !e.cfg.GameUsesAmbientRandomness(string(models.GameTypeBlackjack)),
		Nonce:     session.Nonce,
		State:     newBlackjackView(&state),
	}

	if state.Phase == games.PhaseSettled {
		return e.settleBlackjack(session, &state, response)
	}
	if err := e.saveRoundState(session, &state); err != nil {
		return nil, err
	}
	return response, nil
}

// blackjackDouble secures the extra stake before the state mutates; the
// doubled portion is a second BET row against the same session.
func (e *GameEngine) blackjackDouble(userID int64, session *models.GameSession, state *games.BlackjackState) error {
	if !state.CanDouble() {
		return models.ErrInvalidAction
	}
	extra := state.Spots[state.ActiveSpot].Hands[state.ActiveHand].Bet
	if _, err := e.wallet.DebitStake(userID, models.GameTypeBlackjack, session.ID, extra); err != nil {
		return err
	}
	session.BetAmount += extra
	return state.Double()
}

func (e *GameEngine) blackjackSplit(userID int64, session *models.GameSession, state *games.BlackjackState) error {
	if !state.CanSplit() {
		return models.ErrInvalidAction
	}
	extra := state.Spots[state.ActiveSpot].Hands[state.ActiveHand].Bet
	if _, err := e.wallet.DebitStake(userID, models.GameTypeBlackjack, session.ID, extra); err != nil {
		return err
	}
	session.BetAmount += extra
	return state.Split()
}

func (e *GameEngine) blackjackInsure(userID int64, session *models.GameSession, state *games.BlackjackState) error {
	if !state.CanInsure() {
		return models.ErrInvalidAction
	}
	stake := state.Spots[state.ActiveSpot].Bet / 2
	if _, err := e.wallet.DebitStake(userID, models.GameTypeBlackjack, session.ID, stake); err != nil {
		return err
	}
	session.BetAmount += stake
	_, err := state.Insure()
	return err
}

func (e *GameEngine) settleBlackjack(session *models.GameSession, state *games.BlackjackState, response *models.RoundResponse) (*models.RoundResponse, error) {
	settlement, err := state.Settle()
	if err != nil {
		return nil, mapEngineErr(err)
	}
	if err := e.saveRoundState(session, state); err != nil {
		return nil, err
	}
	balance, err := e.finishRound(session, settlement.Total)
	if err != nil {
		return nil, err
	}
	response.Status = models.SessionStatusCompleted
	response.WinAmount = settlement.Total
	response.Balance = balance
	response.State = newBlackjackView(state)
	response.Result = settlement
	e.pushRound(session.UserID, response)
	return response, nil
}

// ----- mines -----

// minesView hides the layout until the round is over.
type minesView struct {
	MineCount  int    `json:"mine_count"`
	Revealed   []int  `json:"revealed"`
	Multiplier string `json:"multiplier"`
}

func newMinesView(state *games.MinesState) *minesView {
	return &minesView{
		MineCount:  state.MineCount,
		Revealed:   state.Revealed,
		Multiplier: state.Multiplier().String(),
	}
}

func (e *GameEngine) StartMines(userID int64, req *models.MinesStartRequest) (*models.RoundResponse, error) {
	mineCount := req.MineCount
	if mineCount == 0 {
		mineCount = 3
	}

	var state *games.MinesState
	session, nonce, provable, err := e.startRound(userID, models.GameTypeMines, req.Amount,
		func(source games.FloatSource) (any, error) {
			var buildErr error
			state, buildErr = games.NewMinesRound(mineCount, source)
			return state, buildErr
		})
	if err != nil {
		return nil, err
	}

	return &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeMines,
		Status:    session.Status,
		BetAmount: req.Amount,
		Balance:   e.balanceOf(userID),
		Provable:  provable,
		Nonce:     nonce,
		State:     newMinesView(state),
	}, nil
}

func (e *GameEngine) RevealMine(userID int64, req *models.MinesRevealRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeMines)
	if err != nil {
		return nil, err
	}

	var state games.MinesState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	result, err := state.Reveal(req.Position)
	if err != nil {
		return nil, mapEngineErr(err)
	}

	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeMines,
		Status:    session.Status,
		BetAmount: session.BetAmount,
		Nonce:     session.Nonce,
		State:     newMinesView(&state),
		Result:    result,
	}

	if result.GameOver {
		winAmount := int64(0)
		if !result.IsMine {
			// Every safe tile cleared forces the cash-out.
			winAmount = games.Payout(session.BetAmount, result.Multiplier)
		}
		if err := e.saveRoundState(session, &state); err != nil {
			return nil, err
		}
		balance, err := e.finishRound(session, winAmount)
		if err != nil {
			return nil, err
		}
		response.Status = models.SessionStatusCompleted
		response.WinAmount = winAmount
		response.Balance = balance
		e.pushRound(userID, response)
		return response, nil
	}

	if err := e.saveRoundState(session, &state); err != nil {
		return nil, err
	}
	response.Balance = e.balanceOf(userID)
	return response, nil
}

func (e *GameEngine) CashoutMines(userID int64, req *models.CashoutRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeMines)
	if err != nil {
		return nil, err
	}

	var state games.MinesState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	winAmount := games.Payout(session.BetAmount, state.Multiplier())
	balance, err := e.finishRound(session, winAmount)
	if err != nil {
		return nil, err
	}
	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeMines,
		Status:    models.SessionStatusCompleted,
		BetAmount: session.BetAmount,
		WinAmount: winAmount,
		Balance:   balance,
		Nonce:     session.Nonce,
		State:     newMinesView(&state),
	}
	e.pushRound(userID, response)
	return response, nil
}

// ----- chicken road -----

type chickenView struct {
	Difficulty games.ChickenDifficulty `json:"difficulty"`
	Columns    int                     `json:"columns"`
	Tiles      int                     `json:"tiles"`
	Position   int                     `json:"position"`
	Multiplier string                  `json:"multiplier"`
}

func newChickenView(state *games.ChickenState) *chickenView {
	return &chickenView{
		Difficulty: state.Difficulty,
		Columns:    state.Columns,
		Tiles:      state.Tiles,
		Position:   state.Position,
		Multiplier: state.Multiplier().String(),
	}
}

func (e *GameEngine) StartChicken(userID int64, req *models.ChickenStartRequest) (*models.RoundResponse, error) {
	difficulty := games.ChickenDifficulty(req.Difficulty)
	if req.Difficulty == "" {
		difficulty = games.ChickenEasy
	}

	var state *games.ChickenState
	session, nonce, provable, err := e.startRound(userID, models.GameTypeChickenRoad, req.Amount,
		func(source games.FloatSource) (any, error) {
			var buildErr error
			state, buildErr = games.NewChickenRound(difficulty, source)
			return state, buildErr
		})
	if err != nil {
		return nil, err
	}

	return &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeChickenRoad,
		Status:    session.Status,
		BetAmount: req.Amount,
		Balance:   e.balanceOf(userID),
		Provable:  provable,
		Nonce:     nonce,
		State:     newChickenView(state),
	}, nil
}

func (e *GameEngine) ChickenStep(userID int64, req *models.ChickenStepRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeChickenRoad)
	if err != nil {
		return nil, err
	}

	var state games.ChickenState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	result, err := state.Step(req.Tile)
	if err != nil {
		return nil, mapEngineErr(err)
	}

	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeChickenRoad,
		Status:    session.Status,
		BetAmount: session.BetAmount,
		Nonce:     session.Nonce,
		State:     newChickenView(&state),
		Result:    result,
	}

	if result.GameOver {
		winAmount := int64(0)
		if !result.HitBone {
			// Crossing the final column cashes out automatically.
			winAmount = games.Payout(session.BetAmount, result.Multiplier)
		}
		if err := e.saveRoundState(session, &state); err != nil {
			return nil, err
		}
		balance, err := e.finishRound(session, winAmount)
		if err != nil {
			return nil, err
		}
		response.Status = models.SessionStatusCompleted
		response.WinAmount = winAmount
		response.Balance = balance
		e.pushRound(userID, response)
		return response, nil
	}

	if err := e.saveRoundState(session, &state); err != nil {
		return nil, err
	}
	response.Balance = e.balanceOf(userID)
	return response, nil
}

func (e *GameEngine) CashoutChicken(userID int64, req *models.CashoutRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeChickenRoad)
	if err != nil {
		return nil, err
	}

	var state games.ChickenState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	winAmount := games.Payout(session.BetAmount, state.Multiplier())
	balance, err := e.finishRound(session, winAmount)
	if err != nil {
		return nil, err
	}
	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeChickenRoad,
		Status:    models.SessionStatusCompleted,
		BetAmount: session.BetAmount,
		WinAmount: winAmount,
		Balance:   balance,
		Nonce:     session.Nonce,
		State:     newChickenView(&state),
	}
	e.pushRound(userID, response)
	return response, nil
}

// ----- video poker -----

type videoPokerView struct {
	Hand  []games.Card `json:"hand"`
	Drawn bool         `json:"drawn"`
}

func (e *GameEngine) DealVideoPoker(userID int64, req *models.VideoPokerDealRequest) (*models.RoundResponse, error) {
	var state *games.VideoPokerState
	session, nonce, provable, err := e.startRound(userID, models.GameTypeVideoPoker, req.Amount,
		func(source games.FloatSource) (any, error) {
			state = games.NewVideoPokerRound(source)
			return state, nil
		})
	if err != nil {
		return nil, err
	}

	return &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeVideoPoker,
		Status:    session.Status,
		BetAmount: req.Amount,
		Balance:   e.balanceOf(userID),
		Provable:  provable,
		Nonce:     nonce,
		State:     &videoPokerView{Hand: state.Hand},
	}, nil
}

func (e *GameEngine) DrawVideoPoker(userID int64, req *models.VideoPokerDrawRequest) (*models.RoundResponse, error) {
	session, err := e.loadRound(userID, req.SessionID, models.GameTypeVideoPoker)
	if err != nil {
		return nil, err
	}

	var state games.VideoPokerState
	if err := json.Unmarshal(session.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore round state: %v", err)
	}

	result, err := state.Draw(session.BetAmount, req.Holds)
	if err != nil {
		return nil, mapEngineErr(err)
	}

	if err := e.saveRoundState(session, &state); err != nil {
		return nil, err
	}
	balance, err := e.finishRound(session, result.Payout)
	if err != nil {
		return nil, err
	}
	response := &models.RoundResponse{
		SessionID: session.ID,
		GameType:  models.GameTypeVideoPoker,
		Status:    models.SessionStatusCompleted,
		BetAmount: session.BetAmount,
		WinAmount: result.Payout,
		Balance:   balance,
		Nonce:     session.Nonce,
		State:     &videoPokerView{Hand: state.Hand, Drawn: state.Drawn},
		Result:    result,
	}
	e.pushRound(userID, response)
	return response, nil
}

// ----- history -----

// ActiveRounds lists unfinished sessions with the state blob stripped;
// the blob holds the shoe, the mines and the bones.
func (e *GameEngine) ActiveRounds(userID int64) ([]*models.GameSession, error) {
	sessions, err := e.redis.GetUserActiveGames(userID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		session.State = nil
	}
	return sessions, nil
}

func (e *GameEngine) History(userID, limit int64) ([]*models.GameSession, error) {
	return e.redis.GetGameHistory(userID, limit)
}
