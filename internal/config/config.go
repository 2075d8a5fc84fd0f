package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string

	VertexModel string

	// ChatMessageCost is deducted per chat turn before the model runs.
	ChatMessageCost int64
	// SignupCredits is granted once at registration.
	SignupCredits int64
	// ChatHistoryTTL expires persisted chat messages via Firestore TTL.
	ChatHistoryTTL time.Duration
}

const (
	defaultChatMessageCost = 1
	defaultSignupCredits   = 50
	defaultChatHistoryTTL  = 30 * 24 * time.Hour
)

func New() *Config {
	return &Config{
		ProjectID:       os.Getenv("PROJECTID"),
		Region:          os.Getenv("REGION"),
		LogLevel:        os.Getenv("LOGLEVEL"),
		VertexModel:     os.Getenv("VERTEXMODEL"),
		ChatMessageCost: getInt64("CHATMESSAGECOST", defaultChatMessageCost),
		SignupCredits:   getInt64("SIGNUPCREDITS", defaultSignupCredits),
		ChatHistoryTTL:  getDuration("CHATHISTORYTTL", defaultChatHistoryTTL),
	}
}

func getInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
