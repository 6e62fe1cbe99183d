package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DatabaseURL        string
	DeskNumberLimit    int
	SessionTTL         time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	PollInterval       time.Duration
	PollBatchSize      int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		DeskNumberLimit:    readInt("DESK_NUMBER_LIMIT", 999),
		SessionTTL:         readDurationSeconds("SESSION_TTL_SECONDS", 28800),
		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 30),
		PollInterval:       readDurationSeconds("OUTBOX_POLL_INTERVAL_SECONDS", 1),
		PollBatchSize:      readInt("OUTBOX_POLL_BATCH_SIZE", 100),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
