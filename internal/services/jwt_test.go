package services_test

import (
	"testing"
	"time"

	"token-casino-backend/internal/config"
	"token-casino-backend/internal/services"
)

func TestJWTRoundTrip(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	})

	token, err := jwtService.GenerateToken(42, true)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("Expected user ID 42, got %d", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Error("Expected admin claim to survive the round trip")
	}
	if claims.SessionID == "" {
		t.Error("Expected a session ID")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := services.NewJWTService(&config.Config{
		JWTSecret: "secret-a",
		JWTExpiry: time.Hour,
	})
	verifier := services.NewJWTService(&config.Config{
		JWTSecret: "secret-b",
		JWTExpiry: time.Hour,
	})

	token, err := issuer.GenerateToken(1, false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: -time.Hour,
	})

	token, err := jwtService.GenerateToken(1, false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := jwtService.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}
