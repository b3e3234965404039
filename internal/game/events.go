package game

// EventType identifies a game event pushed to connected observers.
type EventType string

const (
	EventGameStarted       EventType = "game_started"        // fresh deal is visible
	EventCardPlayed        EventType = "card_played"         // a card landed on the pile
	EventTurnChanged       EventType = "turn_changed"        // current player switched
	EventMinpaiCalled      EventType = "minpai_called"       // single-card declaration
	EventCountdownStarted  EventType = "countdown_started"   // declare window opened
	EventCountdownCanceled EventType = "countdown_canceled"  // declaration arrived in time
	EventPenaltyApplied    EventType = "penalty_applied"     // penalty cards drawn
	EventDeckReshuffled    EventType = "deck_reshuffled"     // discard folded into deck
	EventAIThinking        EventType = "ai_thinking"         // AI move in progress
	EventGameEnded         EventType = "game_ended"          // winner decided
	EventGameRestarted     EventType = "game_restarted"      // state reset and re-dealt
	EventStateSync         EventType = "state_sync"          // full view refresh
)

// GameEvent is the unit pushed through BroadcastFn whenever observable game
// state changes.
type GameEvent struct {
	Type   EventType `json:"type"`
	Player string    `json:"player,omitempty"` // acting side, "human" or "ai"
	Card   *WireCard `json:"card,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ViewState `json:"state,omitempty"` // full view for sync events
}
