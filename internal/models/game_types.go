package models

type GameType string

const (
	// Single-shot games.
	GameTypeDice     GameType = "dice"
	GameTypeRoulette GameType = "roulette"
	GameTypeWheel    GameType = "wheel"
	GameTypePlinko   GameType = "plinko"
	GameTypeSlots    GameType = "slots"

	// Cascading reel games.
	GameTypeSweetBonanza GameType = "sweet-bonanza"
	GameTypeStarburst    GameType = "starburst"
	GameTypeGonzo        GameType = "gonzos-quest"
	GameTypeWolfGold     GameType = "wolf-gold"
	GameTypeCoinStrike   GameType = "coin-strike"
	GameTypeBookOfDead   GameType = "book-of-dead"

	// Multi-step games.
	GameTypeBlackjack   GameType = "blackjack"
	GameTypeMines       GameType = "mines"
	GameTypeChickenRoad GameType = "chicken-road"
	GameTypeVideoPoker  GameType = "video-poker"
)

var allGameTypes = map[GameType]bool{
	GameTypeDice:         true,
	GameTypeRoulette:     true,
	GameTypeWheel:        true,
	GameTypePlinko:       true,
	GameTypeSlots:        true,
	GameTypeSweetBonanza: true,
	GameTypeStarburst:    true,
	GameTypeGonzo:        true,
	GameTypeWolfGold:     true,
	GameTypeCoinStrike:   true,
	GameTypeBookOfDead:   true,
	GameTypeBlackjack:    true,
	GameTypeMines:        true,
	GameTypeChickenRoad:  true,
	GameTypeVideoPoker:   true,
}

func (g GameType) Valid() bool {
	return allGameTypes[g]
}

// Stateful reports whether a game runs as a persisted multi-step session
// rather than a single synchronous spin.
func (g GameType) Stateful() bool {
	switch g {
	case GameTypeBlackjack, GameTypeMines, GameTypeChickenRoad, GameTypeVideoPoker:
		return true
	}
	return false
}
