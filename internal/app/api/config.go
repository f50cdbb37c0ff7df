package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	platformobservability "github.com/averost/commerce-api/internal/platform/observability"
	platformpostgres "github.com/averost/commerce-api/internal/platform/postgres"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	Pool              platformpostgres.PoolConfig
	Observability     platformobservability.Config
	LockWait          time.Duration
	SessionTTL        time.Duration
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	ContentBaseURL    string
}

// LoadConfig reads environment variables, applies defaults, and
// validates basic constraints. POSTGRES_DSN is mandatory: the API does
// not run without its store.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Pool:              platformpostgres.DefaultPoolConfig(),
		Observability:     platformobservability.ConfigFromEnv(),
		LockWait:          3 * time.Second,
		SessionTTL:        24 * time.Hour,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		ContentBaseURL:    envDefault("CONTENT_API_BASE_URL", "https://jsonplaceholder.typicode.com"),
	}
	if cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required")
	}
	if raw := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be a positive integer")
		}
		cfg.Pool.MaxOpenConns = n
	}
	if raw := strings.TrimSpace(os.Getenv("DB_MAX_IDLE_CONNS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS must be a non-negative integer")
		}
		cfg.Pool.MaxIdleConns = n
	}
	if raw := strings.TrimSpace(os.Getenv("LOCK_WAIT_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("LOCK_WAIT_MS must be a positive integer")
		}
		cfg.LockWait = time.Duration(ms) * time.Millisecond
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
