package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds every tunable the matching core reads: thresholds,
// limits, TTLs and prices. It is built once in main and passed into the
// services instead of read from the environment ad hoc.
type AppConfig struct {
	ServerPort string
	AWSRegion  string

	// Matching
	ScoreThreshold      int           // minimum compatibility score to create a request
	RequestTTL          time.Duration // pending request lifetime
	DailyRequestLimit   int           // requests a user may create per trailing 24h
	BaseMatchLimit      int           // default cap on concurrently active matches
	MatchLimitIncrement int           // added per match_limit payment
	MaxTeamMembers      int

	// Prices in minor units (kobo)
	MatchPrice        int64
	UnlockPrice       int64
	MatchLimitPrice   int64
	VerificationPrice int64
	SubscriptionPrice int64
	Currency          string

	// Payment provider
	ProviderSecretKey string
	ProviderBaseURL   string
}

// Load reads the environment (and .env if present) into an AppConfig.
func Load() *AppConfig {
	// Missing .env is fine in deployed environments
	_ = godotenv.Load()

	return &AppConfig{
		ServerPort: getEnv("PORT", "8080"),
		AWSRegion:  getEnv("AWS_REGION", "us-east-1"),

		ScoreThreshold:      getEnvInt("SCORE_THRESHOLD", 50),
		RequestTTL:          time.Duration(getEnvInt("REQUEST_TTL_HOURS", 72)) * time.Hour,
		DailyRequestLimit:   getEnvInt("DAILY_REQUEST_LIMIT", 2),
		BaseMatchLimit:      getEnvInt("BASE_MATCH_LIMIT", 5),
		MatchLimitIncrement: getEnvInt("MATCH_LIMIT_INCREMENT", 3),
		MaxTeamMembers:      getEnvInt("MAX_TEAM_MEMBERS", 5),

		MatchPrice:        getEnvInt64("MATCH_PRICE", 500000),
		UnlockPrice:       getEnvInt64("UNLOCK_PRICE", 300000),
		MatchLimitPrice:   getEnvInt64("MATCH_LIMIT_PRICE", 200000),
		VerificationPrice: getEnvInt64("VERIFICATION_PRICE", 1000000),
		SubscriptionPrice: getEnvInt64("SUBSCRIPTION_PRICE", 1500000),
		Currency:          getEnv("CURRENCY", "NGN"),

		ProviderSecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
		ProviderBaseURL:   getEnv("PAYMENT_BASE_URL", "https://api.paystack.co"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
