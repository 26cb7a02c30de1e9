package models

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidBetAmount      = errors.New("invalid bet amount")
	ErrGameDisabled          = errors.New("game disabled")
	ErrSessionNotFound       = errors.New("session not found")
	ErrAlreadyFinished       = errors.New("session already finished")
	ErrInvalidAction         = errors.New("invalid action")
	ErrFairnessRecordMissing = errors.New("fairness record missing")
	ErrFaucetOnCooldown      = errors.New("faucet on cooldown")
)
