package models

// FairnessSeed is the per-(user, game) commit-reveal record. ServerSeedHash
// is published before play; ServerSeed stays secret until rotation. Nonce
// increments once per completed round, the in-round draw counter starts at
// zero for every round.
type FairnessSeed struct {
	ID             string   `json:"id" redis:"id"`
	UserID         int64    `json:"user_id" redis:"user_id"`
	GameType       GameType `json:"game_type" redis:"game_type"`
	ServerSeed     string   `json:"server_seed" redis:"server_seed"`
	ServerSeedHash string   `json:"server_seed_hash" redis:"server_seed_hash"`
	ClientSeed     string   `json:"client_seed" redis:"client_seed"`
	Nonce          int64    `json:"nonce" redis:"nonce"`
	CreatedAt      int64    `json:"created_at" redis:"created_at"`
}

// SeedInfo is the public commitment: everything except the server seed.
type SeedInfo struct {
	GameType       GameType `json:"game_type"`
	ServerSeedHash string   `json:"server_seed_hash"`
	ClientSeed     string   `json:"client_seed"`
	Nonce          int64    `json:"nonce"`
}

// Info strips the secret seed for API responses.
func (s *FairnessSeed) Info() *SeedInfo {
	return &SeedInfo{
		GameType:       s.GameType,
		ServerSeedHash: s.ServerSeedHash,
		ClientSeed:     s.ClientSeed,
		Nonce:          s.Nonce,
	}
}

// SeedReveal is returned on rotation so players can verify past rounds.
type SeedReveal struct {
	ServerSeed     string `json:"server_seed"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          int64  `json:"nonce"`
	NextSeedHash   string `json:"next_seed_hash"`
}
