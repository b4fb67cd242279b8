package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the queue core consumes. All TTLs are
// enforced by redis expiry, the process never runs its own timers
// against these values.
type Config struct {
	ServerPort string

	// Max number of simultaneously ACTIVE tickets/sessions.
	ConcurrentSlots int

	// TTL of a WAITING ticket record. Generous, bounds the maximum
	// tolerable wait and reclaims abandoned tickets.
	WaitingTtl time.Duration

	// TTL of an ACTIVE ticket record. The client has this long to
	// exchange the ticket for a session before the slot is reclaimed.
	LoginWindow time.Duration

	// Lifetime of an authenticated session.
	SessionDuration time.Duration

	// Period of the reconciliation loop (promote + sweep).
	ReconcileInterval time.Duration

	JwtSecret string

	// Base url of the upstream results portal, used for result link
	// discovery only.
	UpstreamHost string
}

func ProvideConfig() *Config {
	// Optional, env vars win over the file.
	godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "5000"),
		ConcurrentSlots:   getEnvInt("CONCURRENT_SLOTS", 25),
		WaitingTtl:        getEnvSeconds("WAITING_TTL_SECONDS", 1800),
		LoginWindow:       getEnvSeconds("LOGIN_WINDOW_SECONDS", 300),
		SessionDuration:   getEnvSeconds("SESSION_DURATION_SECONDS", 600),
		ReconcileInterval: getEnvSeconds("RECONCILE_INTERVAL_SECONDS", 3),
		JwtSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		UpstreamHost:      getEnv("UPSTREAM_HOST", "http://125.16.54.154/mitsresults"),
	}
}

// Sum of the login window and the session duration. Used by the wait
// estimate as the average time one slot stays occupied.
func (c *Config) AvgSlotHold() time.Duration {
	return c.LoginWindow + c.SessionDuration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
