package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"token-casino-backend/internal/models"
	"token-casino-backend/internal/services"
)

type GameHandler struct {
	gameEngine  *services.GameEngine
	seedManager *services.SeedManager
}

func NewGameHandler(gameEngine *services.GameEngine, seedManager *services.SeedManager) *GameHandler {
	return &GameHandler{
		gameEngine:  gameEngine,
		seedManager: seedManager,
	}
}

func bindJSON[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return nil, false
	}
	return &req, true
}

// Spin settles a single-shot round in one request.
func (h *GameHandler) Spin(c *gin.Context) {
	req, ok := bindJSON[models.SpinRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.Spin(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ----- blackjack -----

func (h *GameHandler) StartBlackjack(c *gin.Context) {
	req, ok := bindJSON[models.BlackjackStartRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.StartBlackjack(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) BlackjackAction(c *gin.Context) {
	req, ok := bindJSON[models.BlackjackActionRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.BlackjackAction(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ----- mines -----

func (h *GameHandler) StartMines(c *gin.Context) {
	req, ok := bindJSON[models.MinesStartRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.StartMines(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) RevealMine(c *gin.Context) {
	req, ok := bindJSON[models.MinesRevealRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.RevealMine(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) CashoutMines(c *gin.Context) {
	req, ok := bindJSON[models.CashoutRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.CashoutMines(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ----- chicken road -----

func (h *GameHandler) StartChicken(c *gin.Context) {
	req, ok := bindJSON[models.ChickenStartRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.StartChicken(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) ChickenStep(c *gin.Context) {
	req, ok := bindJSON[models.ChickenStepRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.ChickenStep(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) CashoutChicken(c *gin.Context) {
	req, ok := bindJSON[models.CashoutRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.CashoutChicken(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ----- video poker -----

func (h *GameHandler) DealVideoPoker(c *gin.Context) {
	req, ok := bindJSON[models.VideoPokerDealRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.DealVideoPoker(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) DrawVideoPoker(c *gin.Context) {
	req, ok := bindJSON[models.VideoPokerDrawRequest](c)
	if !ok {
		return
	}
	response, err := h.gameEngine.DrawVideoPoker(c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ----- history -----

func (h *GameHandler) GetActiveRounds(c *gin.Context) {
	sessions, err := h.gameEngine.ActiveRounds(c.GetInt64("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load active rounds"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": sessions})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	sessions, err := h.gameEngine.History(c.GetInt64("user_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": sessions})
}

// ----- fairness -----

// GetSeed publishes the active commitment for a game: hash, client seed
// and nonce, never the server seed.
func (h *GameHandler) GetSeed(c *gin.Context) {
	gameType := models.GameType(c.Query("game_type"))
	if !gameType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game type"})
		return
	}

	seed, err := h.seedManager.GetOrCreate(c.GetInt64("user_id"), gameType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seed.Info())
}

func (h *GameHandler) SetClientSeed(c *gin.Context) {
	req, ok := bindJSON[models.ClientSeedRequest](c)
	if !ok {
		return
	}
	if !req.GameType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game type"})
		return
	}

	seed, err := h.seedManager.SetClientSeed(c.GetInt64("user_id"), req.GameType, req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seed.Info())
}

// RotateSeed reveals the outgoing server seed and commits a fresh one.
func (h *GameHandler) RotateSeed(c *gin.Context) {
	gameType := models.GameType(c.Query("game_type"))
	if !gameType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game type"})
		return
	}

	reveal, err := h.seedManager.Rotate(c.GetInt64("user_id"), gameType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reveal)
}

// Verify replays a round's float stream from a revealed seed pair. It is
// pure computation; anyone can run the same HMACs offline.
func (h *GameHandler) Verify(c *gin.Context) {
	req, ok := bindJSON[models.VerifyRequest](c)
	if !ok {
		return
	}

	floats := services.DeriveFloats(req.ServerSeed, req.ClientSeed, req.Nonce, int64(req.Count))
	c.JSON(http.StatusOK, gin.H{
		"server_seed_hash": services.HashServerSeed(req.ServerSeed),
		"floats":           floats,
	})
}
