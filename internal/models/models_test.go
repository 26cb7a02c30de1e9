package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"token-casino-backend/internal/models"
)

func TestGeneratedIDs(t *testing.T) {
	if models.GenerateSessionID() == "" {
		t.Error("Session ID should not be empty")
	}
	if models.GenerateSessionID() == models.GenerateSessionID() {
		t.Error("Session IDs should be unique")
	}
	if !strings.HasPrefix(models.GenerateTransactionID(), "tx_") {
		t.Error("Transaction IDs should carry the tx_ prefix")
	}
	if !strings.HasPrefix(models.GenerateSeedID(), "seed_") {
		t.Error("Seed IDs should carry the seed_ prefix")
	}
}

func TestGameTypeValidation(t *testing.T) {
	if !models.GameTypeDice.Valid() {
		t.Error("dice should be a valid game type")
	}
	if models.GameType("poker-dice").Valid() {
		t.Error("unknown game types should be invalid")
	}

	if models.GameTypeDice.Stateful() {
		t.Error("dice is a single-shot game")
	}
	for _, g := range []models.GameType{
		models.GameTypeBlackjack,
		models.GameTypeMines,
		models.GameTypeChickenRoad,
		models.GameTypeVideoPoker,
	} {
		if !g.Stateful() {
			t.Errorf("%s should be stateful", g)
		}
	}
}

func TestSeedGeneration(t *testing.T) {
	server, err := models.GenerateServerSeed()
	if err != nil {
		t.Fatalf("Failed to generate server seed: %v", err)
	}
	if len(server) != 64 {
		t.Errorf("Expected 64 hex chars of server seed, got %d", len(server))
	}

	client, err := models.GenerateClientSeed()
	if err != nil {
		t.Fatalf("Failed to generate client seed: %v", err)
	}
	if len(client) != 32 {
		t.Errorf("Expected 32 hex chars of client seed, got %d", len(client))
	}
}

func TestSeedInfoHidesServerSeed(t *testing.T) {
	seed := &models.FairnessSeed{
		ID:             models.GenerateSeedID(),
		UserID:         1,
		GameType:       models.GameTypeDice,
		ServerSeed:     "secret-server-seed",
		ServerSeedHash: "hash",
		ClientSeed:     "client",
		Nonce:          5,
	}

	info := seed.Info()
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Failed to marshal seed info: %v", err)
	}
	if strings.Contains(string(data), "secret-server-seed") {
		t.Error("Seed info must never expose the server seed")
	}
	if info.Nonce != 5 {
		t.Errorf("Expected nonce 5, got %d", info.Nonce)
	}
	if info.ServerSeedHash != "hash" {
		t.Error("Seed info should carry the hash commitment")
	}
}

func TestSessionFinished(t *testing.T) {
	session := &models.GameSession{Status: models.SessionStatusActive}
	if session.Finished() {
		t.Error("Active session should not be finished")
	}
	session.Status = models.SessionStatusCompleted
	if !session.Finished() {
		t.Error("Completed session should be finished")
	}
}
