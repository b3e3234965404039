// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Frisk239/minpaixinyu-new/engine/agent"
)

// Config holds everything the service reads from the environment.
type Config struct {
	HTTPAddr string
	LogLevel logrus.Level

	// RedisAddr enables the historian action queue when non-empty.
	RedisAddr string

	// DecisionBaseURL enables remote AI delegation when non-empty. The
	// local agent always remains the fallback.
	DecisionBaseURL string
	DecisionTimeout time.Duration

	Difficulty    agent.Difficulty
	DeclareWindow time.Duration
}

// Load reads the environment. A .env file in the working directory is
// applied first when present; real environment variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		DecisionBaseURL: os.Getenv("DECISION_BASE_URL"),
		DecisionTimeout: 3 * time.Second,
		Difficulty:      agent.ParseDifficulty(envOr("AI_DIFFICULTY", "medium")),
		DeclareWindow:   5 * time.Second,
	}

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if v := os.Getenv("DECISION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DECISION_TIMEOUT %q: %w", v, err)
		}
		c.DecisionTimeout = d
	}

	if v := os.Getenv("DECLARE_WINDOW_SEC"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return Config{}, fmt.Errorf("invalid DECLARE_WINDOW_SEC %q", v)
		}
		c.DeclareWindow = time.Duration(secs) * time.Second
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
