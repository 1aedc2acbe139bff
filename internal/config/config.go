package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	NatsURL        string
	NatsToken      string
	DatabaseURL    string
	LogLevel       string
	APIToken       string
	DefaultSession string
	ReplyDelayMS   int
}

func Load() Config {
	return Config{
		Port:           envInt("ATLAS_PORT", 8760),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		APIToken:       envStr("ATLAS_API_TOKEN", ""),
		DefaultSession: envStr("ATLAS_DEFAULT_SESSION", "default"),
		ReplyDelayMS:   envInt("ATLAS_REPLY_DELAY_MS", 0),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
