package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	id "namereg/pkg/domain"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string

	// AdminAccount administers the registry: fee updates, verification,
	// withdrawals. RegistryAccount holds pulled registration fees until
	// withdrawal.
	AdminAccount    id.AccountID
	RegistryAccount id.AccountID

	// RegistrationFee is charged once the free-registration quota is spent.
	RegistrationFee uint64
	// FreeRegistrations is the bootstrap grace quota.
	FreeRegistrations uint64

	// RegisterRateLimit caps registration attempts per caller per window.
	RegisterRateLimit  int
	RegisterRateWindow time.Duration

	RedisConfig RedisConfig
	PostgresDSN string

	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig holds connection tuning for the optional Redis-backed
// rate-limit store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults. Production deployments override the secrets.
func FromEnv() Config {
	cfg := Config{
		Addr:               envOr("NAMEREG_ADDR", ":8080"),
		JWTSigningKey:      envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminToken:         envOr("ADMIN_TOKEN", "dev-admin-token"),
		AdminAccount:       id.AccountID(envOr("ADMIN_ACCOUNT", "registry-admin")),
		RegistryAccount:    id.AccountID(envOr("REGISTRY_ACCOUNT", "registry-treasury")),
		RegistrationFee:    envUint("REGISTRATION_FEE", 5),
		FreeRegistrations:  envUint("FREE_REGISTRATIONS", 100),
		RegisterRateLimit:  int(envUint("REGISTER_RATE_LIMIT", 10)),
		RegisterRateWindow: time.Minute,
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		KafkaTopic:         envOr("KAFKA_TOPIC", "namereg.events"),
	}

	cfg.RedisConfig = RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
