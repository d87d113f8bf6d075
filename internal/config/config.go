package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Engine knobs (hold duration, sweep interval,
// waitlist cap, cancellation cutoff) are deliberately single values: the
// hold duration in particular is one constant, not one per code path.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify bearer tokens from the identity service

	DBMaxOpenConns  int           // connection pool ceiling
	DBMaxIdleConns  int           // idle connections kept around
	DBConnMaxLife   time.Duration // recycle age for pooled connections

	LockHold          time.Duration // how long a seat lock is valid once granted
	SweepInterval     time.Duration // period of the expiry sweeper
	WaitlistCap       int           // max waitlist entries per cell before it stops being joinable
	CancelCutoff      time.Duration // minimum time before the occurrence start for cancellation
	TxConflictRetries int           // bounded retries on backend serialization failures
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file is honored when present so local runs do not need an
// exported environment. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine; the environment wins either way
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		DBMaxOpenConns: intDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: intDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLife:  durDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		LockHold:          time.Duration(intDefault("LOCK_HOLD_SECONDS", 180)) * time.Second,
		SweepInterval:     durDefault("SWEEP_INTERVAL", time.Minute),
		WaitlistCap:       intDefault("WAITLIST_CAP", 5),
		CancelCutoff:      time.Duration(intDefault("CANCEL_CUTOFF_HOURS", 24)) * time.Hour,
		TxConflictRetries: intDefault("TX_CONFLICT_RETRIES", 3),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intDefault reads an integer env var, falling back to def when the
// variable is unset. A malformed value is fatal rather than silently
// replaced: a typo in a concurrency knob should not boot the server.
func intDefault(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// durDefault reads a time.ParseDuration-formatted env var with a fallback.
func durDefault(key string, def time.Duration) time.Duration {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}
