// Package config reads process configuration from the environment so main
// stays lean. Empty values select the embedded defaults: memory stores,
// an in-process ledger, no cache, no stream.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures the full process configuration.
type Server struct {
	Addr     string
	LogLevel string

	// HashAlgorithm selects the content digest; empty means SHA256.
	HashAlgorithm string

	// DIDMethod is the method segment minted into registered DIDs.
	DIDMethod string

	// ChallengeSigningKey signs authentication challenge tokens.
	ChallengeSigningKey string
	ChallengeTTL        time.Duration

	// PostgresDSN enables the postgres stores; empty keeps everything in
	// memory.
	PostgresDSN string

	// LedgerPath enables the on-disk ledger; empty keeps the chain in
	// memory.
	LedgerPath string

	Redis RedisConfig

	// KafkaBrokers enables the audit stream; empty disables it.
	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from MEDBLOCK_* environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("MEDBLOCK_ADDR", ":8080"),
		LogLevel:            envOr("MEDBLOCK_LOG_LEVEL", "info"),
		HashAlgorithm:       os.Getenv("MEDBLOCK_HASH_ALGORITHM"),
		DIDMethod:           envOr("MEDBLOCK_DID_METHOD", "med"),
		ChallengeSigningKey: os.Getenv("MEDBLOCK_CHALLENGE_SIGNING_KEY"),
		ChallengeTTL:        durationOr("MEDBLOCK_CHALLENGE_TTL", 5*time.Minute),
		PostgresDSN:         os.Getenv("MEDBLOCK_POSTGRES_DSN"),
		LedgerPath:          os.Getenv("MEDBLOCK_LEDGER_PATH"),
		Redis: RedisConfig{
			URL:          os.Getenv("MEDBLOCK_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaTopic:      os.Getenv("MEDBLOCK_KAFKA_TOPIC"),
		ShutdownTimeout: durationOr("MEDBLOCK_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.ChallengeSigningKey == "" {
		// Development fallback; production must override.
		cfg.ChallengeSigningKey = "dev-secret-key-change-in-production"
	}
	if brokers := os.Getenv("MEDBLOCK_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
