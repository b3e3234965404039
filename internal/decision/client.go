// Package decision delegates AI moves to a remote decision service over
// HTTP. The service speaks the snake_case wire state and returns the chosen
// card; any failure is surfaced so the caller can fall back locally.
package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Frisk239/minpaixinyu-new/engine"
	"github.com/Frisk239/minpaixinyu-new/engine/agent"
	"github.com/Frisk239/minpaixinyu-new/internal/game"
)

// Client implements game.DecisionClient against the decision service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry
}

// NewClient builds a client for the service at baseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        logrus.WithField("component", "decision_client"),
	}
}

// decisionRequest / decisionResponse mirror the service's JSON shapes.
type decisionRequest struct {
	GameState  game.WireState `json:"gameState"`
	Difficulty string         `json:"difficulty"`
}

type decisionResponse struct {
	Success      bool           `json:"success"`
	Card         *game.WireCard `json:"card"`
	DecisionTime float64        `json:"decision_time"`
	Difficulty   string         `json:"difficulty"`
	Error        string         `json:"error"`
}

// Decide asks the service for the AI's move. A success with a null card
// means the AI has no playable card.
func (c *Client) Decide(ctx context.Context, state game.WireState, difficulty agent.Difficulty) (engine.Card, bool, error) {
	body, err := json.Marshal(decisionRequest{
		GameState:  state,
		Difficulty: string(difficulty),
	})
	if err != nil {
		return engine.EmptyCard, false, fmt.Errorf("marshal decision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/game/ai-decision", bytes.NewReader(body))
	if err != nil {
		return engine.EmptyCard, false, fmt.Errorf("build decision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return engine.EmptyCard, false, fmt.Errorf("decision request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return engine.EmptyCard, false, fmt.Errorf("read decision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return engine.EmptyCard, false, fmt.Errorf("decision service status %d: %s", resp.StatusCode, raw)
	}

	var out decisionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return engine.EmptyCard, false, fmt.Errorf("decode decision response: %w", err)
	}
	if !out.Success {
		return engine.EmptyCard, false, fmt.Errorf("decision service error: %s", out.Error)
	}
	if out.Card == nil {
		return engine.EmptyCard, false, nil
	}
	card, err := engine.ParseCardID(out.Card.ID)
	if err != nil {
		return engine.EmptyCard, false, fmt.Errorf("decision card: %w", err)
	}
	c.log.WithFields(logrus.Fields{
		"card":          card.ID(),
		"decision_time": out.DecisionTime,
	}).Debug("remote decision received")
	return card, true, nil
}
