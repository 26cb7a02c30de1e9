package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"token-casino-backend/internal/models"
)

// respondError maps the service error taxonomy onto HTTP statuses; errors
// outside the taxonomy surface as a 400 with their message, matching how
// engine validation failures read.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, models.ErrInvalidBetAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bet amount out of bounds"})
	case errors.Is(err, models.ErrGameDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Game is disabled"})
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
	case errors.Is(err, models.ErrAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "Round already finished"})
	case errors.Is(err, models.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action not allowed in this state"})
	case errors.Is(err, models.ErrFairnessRecordMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": "No fairness seed for this game"})
	case errors.Is(err, models.ErrFaucetOnCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Faucet on cooldown"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
