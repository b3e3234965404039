package decision_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frisk239/minpaixinyu-new/engine"
	"github.com/Frisk239/minpaixinyu-new/engine/agent"
	"github.com/Frisk239/minpaixinyu-new/internal/decision"
	"github.com/Frisk239/minpaixinyu-new/internal/game"
)

func wireState(t *testing.T) game.WireState {
	t.Helper()
	g := engine.NewGame(3, engine.DefaultGameConfig())
	require.NoError(t, g.Deal())
	require.NoError(t, g.PassTurn(engine.SideHuman))
	return game.ToWireState(g)
}

func TestDecideSuccess(t *testing.T) {
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/game/ai-decision" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("bad content-type %s", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"card":          map[string]any{"id": "card_5"},
			"decision_time": 0.42,
			"difficulty":    "hard",
		})
	}))
	defer srv.Close()

	c := decision.NewClient(srv.Client(), srv.URL)
	card, play, err := c.Decide(context.Background(), wireState(t), agent.DifficultyHard)
	require.NoError(t, err)
	assert.True(t, play)
	assert.Equal(t, "card_5", card.ID())

	require.NotNil(t, gotReq["gameState"], "full game state must be on the wire")
	assert.Equal(t, "hard", gotReq["difficulty"])
}

func TestDecideNoPlayableCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "card": nil})
	}))
	defer srv.Close()

	c := decision.NewClient(srv.Client(), srv.URL)
	_, play, err := c.Decide(context.Background(), wireState(t), agent.DifficultyMedium)
	require.NoError(t, err)
	assert.False(t, play)
}

func TestDecideServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "state rejected"})
	}))
	defer srv.Close()

	c := decision.NewClient(srv.Client(), srv.URL)
	_, _, err := c.Decide(context.Background(), wireState(t), agent.DifficultyMedium)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state rejected")
}

func TestDecideHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := decision.NewClient(srv.Client(), srv.URL)
	_, _, err := c.Decide(context.Background(), wireState(t), agent.DifficultyMedium)
	assert.Error(t, err)
}

func TestDecideHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise the context is never
		// cancelled and Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := decision.NewClient(srv.Client(), srv.URL)
	_, _, err := c.Decide(ctx, wireState(t), agent.DifficultyMedium)
	assert.Error(t, err)
}

func TestDecideRejectsBogusCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"card":    map[string]any{"id": "card_999"},
		})
	}))
	defer srv.Close()

	c := decision.NewClient(srv.Client(), srv.URL)
	_, _, err := c.Decide(context.Background(), wireState(t), agent.DifficultyMedium)
	assert.Error(t, err)
}
