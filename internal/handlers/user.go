package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"token-casino-backend/internal/models"
	"token-casino-backend/internal/services"
)

type UserHandler struct {
	redisService  *services.RedisService
	walletService *services.WalletService
}

func NewUserHandler(redisService *services.RedisService, walletService *services.WalletService) *UserHandler {
	return &UserHandler{
		redisService:  redisService,
		walletService: walletService,
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.redisService.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	balance, err := h.walletService.GetBalance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"wallet": balance,
	})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	balance, err := h.walletService.GetBalance(c.GetInt64("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *UserHandler) ClaimFaucet(c *gin.Context) {
	balance, err := h.walletService.Faucet(c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *UserHandler) GetTransactions(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	transactions, err := h.walletService.GetTransactions(c.GetInt64("user_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// AdminAdjust credits or debits any wallet with a mandatory reason.
func (h *UserHandler) AdminAdjust(c *gin.Context) {
	var req models.AdminAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	balance, err := h.walletService.AdminAdjust(req.UserID, req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": req.UserID,
		"balance": balance,
	})
}
