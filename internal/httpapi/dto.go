package httpapi

import "github.com/Frisk239/minpaixinyu-new/internal/game"

// StartRequest begins a new session.
type StartRequest struct {
	Difficulty string `json:"difficulty"` // easy | medium | hard, default medium
}

// PlayRequest plays one card from the human hand.
type PlayRequest struct {
	CardID string `json:"card_id"`
}

// StateResponse wraps the player-facing view.
type StateResponse struct {
	State game.ViewState `json:"state"`
}

// DecisionRequest asks the service to pick the AI's move for an arbitrary
// game state. This is the endpoint a peer instance delegates to.
type DecisionRequest struct {
	GameState  game.WireState `json:"gameState"`
	Difficulty string         `json:"difficulty"`
}

// DecisionResponse carries the chosen card. A null card with success=true
// means the AI has no playable card.
type DecisionResponse struct {
	Success      bool           `json:"success"`
	Card         *game.WireCard `json:"card"`
	DecisionTime float64        `json:"decision_time"`
	Difficulty   string         `json:"difficulty"`
	Error        string         `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
