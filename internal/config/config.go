package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced at startup; the
// rest fall back to defaults suitable for local development.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	BackendBaseURL string        // booking backend root; "/api" is appended per request
	BackendTimeout time.Duration // per-request timeout towards the backend

	SessionSecret string        // HMAC secret for the portal session cookie
	SessionTTL    time.Duration // lifetime of the session cookie

	HistoryPageSize  int           // bookings per history page
	WorkspaceIdleTTL time.Duration // idle time after which a workspace is dropped
	SweepInterval    time.Duration // how often idle workspaces are swept

	MetricsUser     string // basic auth for /metrics; empty leaves it open
	MetricsPassword string

	Ledger LedgerConfig
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:              envStr("APP_ENV", "dev"),
		Port:             must("APP_PORT"),
		BackendBaseURL:   must("BACKEND_BASE_URL"),
		BackendTimeout:   envDur("BACKEND_TIMEOUT", 15*time.Second),
		SessionSecret:    must("SESSION_SECRET"),
		SessionTTL:       envDur("SESSION_TTL", 24*time.Hour),
		HistoryPageSize:  envInt("HISTORY_PAGE_SIZE", 10),
		WorkspaceIdleTTL: envDur("WORKSPACE_IDLE_TTL", 30*time.Minute),
		SweepInterval:    envDur("WORKSPACE_SWEEP_INTERVAL", time.Minute),
		MetricsUser:      envStr("METRICS_USER", ""),
		MetricsPassword:  envStr("METRICS_PASSWORD", ""),
		Ledger:           LoadLedgerConfig(),
	}
}

// IsProduction reports whether the portal runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
