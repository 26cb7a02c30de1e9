package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"token-casino-backend/internal/games"
	"token-casino-backend/internal/models"
)

// SeedManager owns the provably-fair float streams. Each (user, game) pair
// holds one commit-reveal record: the server seed hash is published before
// any bet, the stream is HMAC-SHA256(serverSeed, "clientSeed:nonce:counter"),
// and the seed itself is revealed only on rotation.
type SeedManager struct {
	redis *RedisService
}

func NewSeedManager(redis *RedisService) *SeedManager {
	return &SeedManager{redis: redis}
}

// HashServerSeed is the published commitment for a server seed.
func HashServerSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// DeriveFloat maps one (seed pair, nonce, counter) draw onto [0, 1).
// The first 52 bits of the HMAC digest divided by 2^52, the same
// construction crash games publish for client-side verification.
func DeriveFloat(serverSeed, clientSeed string, nonce, counter int64) float64 {
	message := fmt.Sprintf("%s:%d:%d", clientSeed, nonce, counter)
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(message))
	digest := hex.EncodeToString(h.Sum(nil))

	n, _ := strconv.ParseUint(digest[:13], 16, 64)
	return float64(n) / math.Pow(2, 52)
}

// DeriveFloats replays count draws of a round; this is the whole
// verification procedure.
func DeriveFloats(serverSeed, clientSeed string, nonce, count int64) []float64 {
	floats := make([]float64, count)
	for i := range floats {
		floats[i] = DeriveFloat(serverSeed, clientSeed, nonce, int64(i))
	}
	return floats
}

// GetOrCreate returns the active seed record for a (user, game) pair,
// committing a fresh one on first use.
func (m *SeedManager) GetOrCreate(userID int64, gameType models.GameType) (*models.FairnessSeed, error) {
	seed, err := m.redis.GetSeed(userID, gameType)
	if err == nil {
		return seed, nil
	}
	if err != models.ErrFairnessRecordMissing {
		return nil, err
	}

	serverSeed, err := models.GenerateServerSeed()
	if err != nil {
		return nil, err
	}
	clientSeed, err := models.GenerateClientSeed()
	if err != nil {
		return nil, err
	}

	seed = &models.FairnessSeed{
		ID:             models.GenerateSeedID(),
		UserID:         userID,
		GameType:       gameType,
		ServerSeed:     serverSeed,
		ServerSeedHash: HashServerSeed(serverSeed),
		ClientSeed:     clientSeed,
		Nonce:          0,
		CreatedAt:      time.Now().Unix(),
	}
	if err := m.redis.SaveSeed(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// SetClientSeed replaces the client half of the pair. It applies from the
// next round; the nonce keeps counting.
func (m *SeedManager) SetClientSeed(userID int64, gameType models.GameType, clientSeed string) (*models.FairnessSeed, error) {
	if clientSeed == "" || len(clientSeed) > 64 {
		return nil, fmt.Errorf("client seed must be 1-64 characters")
	}
	seed, err := m.GetOrCreate(userID, gameType)
	if err != nil {
		return nil, err
	}
	seed.ClientSeed = clientSeed
	if err := m.redis.SaveSeed(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// Rotate reveals the current server seed and commits a fresh one. Every
// round played under the old seed is verifiable from the reveal.
func (m *SeedManager) Rotate(userID int64, gameType models.GameType) (*models.SeedReveal, error) {
	old, err := m.GetOrCreate(userID, gameType)
	if err != nil {
		return nil, err
	}

	serverSeed, err := models.GenerateServerSeed()
	if err != nil {
		return nil, err
	}
	next := &models.FairnessSeed{
		ID:             models.GenerateSeedID(),
		UserID:         userID,
		GameType:       gameType,
		ServerSeed:     serverSeed,
		ServerSeedHash: HashServerSeed(serverSeed),
		ClientSeed:     old.ClientSeed,
		Nonce:          0,
		CreatedAt:      time.Now().Unix(),
	}
	if err := m.redis.SaveSeed(next); err != nil {
		return nil, err
	}

	return &models.SeedReveal{
		ServerSeed:     old.ServerSeed,
		ServerSeedHash: old.ServerSeedHash,
		ClientSeed:     old.ClientSeed,
		Nonce:          old.Nonce,
		NextSeedHash:   next.ServerSeedHash,
	}, nil
}

// Round binds a seed record to a float source for one round. The counter
// starts at zero for every round and advances once per draw.
func (m *SeedManager) Round(seed *models.FairnessSeed) games.FloatSource {
	counter := int64(0)
	return func() float64 {
		f := DeriveFloat(seed.ServerSeed, seed.ClientSeed, seed.Nonce, counter)
		counter++
		return f
	}
}

// Commit advances the nonce after a round has consumed its stream.
func (m *SeedManager) Commit(userID int64, gameType models.GameType) (int64, error) {
	return m.redis.CommitSeedNonce(userID, gameType)
}

// AmbientSource draws from crypto/rand for games configured outside the
// provable stream. The draws are not reproducible and never touch a nonce.
func AmbientSource() games.FloatSource {
	return func() float64 {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand failing means the process is unusable anyway
			panic(fmt.Sprintf("ambient randomness unavailable: %v", err))
		}
		n := binary.BigEndian.Uint64(buf[:]) >> 12 // keep 52 bits
		return float64(n) / math.Pow(2, 52)
	}
}
