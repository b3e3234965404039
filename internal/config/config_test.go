package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frisk239/minpaixinyu-new/engine/agent"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DECISION_BASE_URL", "")
	t.Setenv("DECISION_TIMEOUT", "")
	t.Setenv("DECLARE_WINDOW_SEC", "")
	t.Setenv("AI_DIFFICULTY", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, logrus.InfoLevel, c.LogLevel)
	assert.Empty(t, c.RedisAddr)
	assert.Empty(t, c.DecisionBaseURL)
	assert.Equal(t, 3*time.Second, c.DecisionTimeout)
	assert.Equal(t, agent.DifficultyMedium, c.Difficulty)
	assert.Equal(t, 5*time.Second, c.DeclareWindow)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DECISION_BASE_URL", "http://decisions:8080")
	t.Setenv("DECISION_TIMEOUT", "1500ms")
	t.Setenv("DECLARE_WINDOW_SEC", "3")
	t.Setenv("AI_DIFFICULTY", "hard")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, "http://decisions:8080", c.DecisionBaseURL)
	assert.Equal(t, 1500*time.Millisecond, c.DecisionTimeout)
	assert.Equal(t, 3*time.Second, c.DeclareWindow)
	assert.Equal(t, agent.DifficultyHard, c.Difficulty)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("DECISION_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DECISION_TIMEOUT", "")
	t.Setenv("DECLARE_WINDOW_SEC", "0")
	_, err = Load()
	assert.Error(t, err)
}
