// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Datastore settings
	DatabasePath string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string
	NATSEnabled  bool

	// JWT settings
	JWTSecret string

	// Matcher settings. The weights mirror observed production behavior and
	// are tunable rather than hard-coded.
	MatchPhraseBonus     int
	MatchWordPoint       int
	MatchAcceptThreshold int
	MatchMaxCandidates   int

	// History / suggestions
	HistoryLimit       int
	SuggestedQuestions int

	// Rollup settings
	RollupHourUTC       int
	RollupCheckInterval time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),

		// Datastore
		DatabasePath: getEnv("DATABASE_PATH", "data/assistant.db"),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),
		NATSEnabled:  getBoolEnv("NATS_ENABLED", true),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// Matcher
		MatchPhraseBonus:     getIntEnv("MATCH_PHRASE_BONUS", 10),
		MatchWordPoint:       getIntEnv("MATCH_WORD_POINT", 1),
		MatchAcceptThreshold: getIntEnv("MATCH_ACCEPT_THRESHOLD", 3),
		MatchMaxCandidates:   getIntEnv("MATCH_MAX_CANDIDATES", 5),

		// History / suggestions
		HistoryLimit:       getIntEnv("HISTORY_LIMIT", 50),
		SuggestedQuestions: getIntEnv("SUGGESTED_QUESTIONS", 6),

		// Rollup
		RollupHourUTC:       getIntEnv("ROLLUP_HOUR_UTC", 1),
		RollupCheckInterval: getDurationEnv("ROLLUP_CHECK_INTERVAL", 10*time.Minute),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
