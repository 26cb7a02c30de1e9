package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string
	JWTExpiry time.Duration

	MetricsAddr string

	MinBet          int64
	MaxBet          int64
	StartingBalance int64
	FaucetAmount    int64
	FaucetCooldown  time.Duration

	// DisabledGames lists game types that reject bets outright.
	DisabledGames []string

	// AmbientGames lists game types whose shuffles come from crypto/rand
	// instead of the provably-fair stream. Empty means every game is
	// verifiable.
	AmbientGames []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		RedisURL:  getEnv("REDIS_URL", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MetricsAddr: getEnv("METRICS_ADDR", ""),

		DisabledGames: splitList(getEnv("DISABLED_GAMES", "")),
		AmbientGames:  splitList(getEnv("FAIRNESS_AMBIENT_GAMES", "")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MinBet, err = getEnvInt64("MIN_BET", 1); err != nil {
		return nil, err
	}
	if cfg.MaxBet, err = getEnvInt64("MAX_BET", 10000); err != nil {
		return nil, err
	}
	if cfg.StartingBalance, err = getEnvInt64("STARTING_BALANCE", 10000); err != nil {
		return nil, err
	}
	if cfg.FaucetAmount, err = getEnvInt64("FAUCET_AMOUNT", 1000); err != nil {
		return nil, err
	}

	cooldown, err := getEnvInt("FAUCET_COOLDOWN_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.FaucetCooldown = time.Duration(cooldown) * time.Minute

	expiry, err := getEnvInt("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTExpiry = time.Duration(expiry) * time.Hour

	if cfg.MinBet < 1 || cfg.MaxBet < cfg.MinBet {
		return nil, fmt.Errorf("invalid bet limits: min=%d max=%d", cfg.MinBet, cfg.MaxBet)
	}

	return cfg, nil
}

func (c *Config) GameDisabled(gameType string) bool {
	for _, g := range c.DisabledGames {
		if g == gameType {
			return true
		}
	}
	return false
}

func (c *Config) GameUsesAmbientRandomness(gameType string) bool {
	for _, g := range c.AmbientGames {
		if g == gameType {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
