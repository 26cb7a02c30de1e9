package services

// Broadcaster pushes live updates to connected websocket clients. The hub
// lives in the handlers package; the engine only sees this contract.
type Broadcaster interface {
	BroadcastBalance(userID, balance int64)
	BroadcastRound(userID int64, payload any)
}
