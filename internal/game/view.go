package game

import "github.com/Frisk239/minpaixinyu-new/engine"

// ViewState is the game state as shown to the human player. The AI hand and
// the deck are reduced to counts; everything the player may legally see is
// included in full.
type ViewState struct {
	GameID             string        `json:"game_id"`
	GamePhase          string        `json:"game_phase"`
	CurrentPlayer      string        `json:"current_player"`
	CurrentCard        *WireCard     `json:"current_card"`
	DeckSize           int           `json:"deck_size"`
	DiscardSize        int           `json:"discard_size"`
	PlayerHand         []WireCard    `json:"player_hand"`
	AIHandSize         int           `json:"ai_hand_size"`
	PlayableCards      []string      `json:"playable_cards"` // card ids from the player's hand
	PlayerCalledMinpai bool          `json:"player_called_minpai"`
	AICalledMinpai     bool          `json:"ai_called_minpai"`
	Penalties          WirePenalties `json:"penalties"`
	RoundCount         int           `json:"round_count"`
	GameStartTime      float64       `json:"game_start_time"`
	Winner             string        `json:"winner,omitempty"`
	GameEndTime        float64       `json:"game_end_time,omitempty"`
	DeclareDeadline    float64       `json:"declare_deadline,omitempty"` // unix seconds, set while the countdown runs
}

// View builds the player-facing snapshot of the current state.
// Assumes the game lock is held by the caller.
func (mg *MinpaiGame) View() ViewState {
	g := &mg.Engine
	v := ViewState{
		GameID:             mg.ID.String(),
		GamePhase:          g.Phase.String(),
		CurrentPlayer:      g.CurrentPlayer.String(),
		DeckSize:           int(g.DeckLen),
		DiscardSize:        int(g.HistoryLen),
		PlayerHand:         toWireCards(g.Hand(engine.SideHuman)),
		AIHandSize:         g.HandLen(engine.SideAI),
		PlayerCalledMinpai: g.CalledMinpai[engine.SideHuman],
		AICalledMinpai:     g.CalledMinpai[engine.SideAI],
		Penalties: WirePenalties{
			Player: int(g.Penalties[engine.SideHuman]),
			AI:     int(g.Penalties[engine.SideAI]),
		},
		RoundCount:    int(g.RoundCount),
		GameStartTime: float64(g.StartTime),
	}
	if g.FaceUp != engine.EmptyCard {
		c := ToWireCard(g.FaceUp)
		v.CurrentCard = &c
	}
	if g.Phase == engine.PhasePlaying && g.CurrentPlayer == engine.SideHuman {
		playable := g.Playable(engine.SideHuman)
		v.PlayableCards = make([]string, len(playable))
		for i, c := range playable {
			v.PlayableCards[i] = c.ID()
		}
	}
	if g.Winner != engine.SideNone {
		v.Winner = g.Winner.String()
		v.GameEndTime = float64(g.EndTime)
	}
	if !mg.declareDeadline.IsZero() {
		v.DeclareDeadline = float64(mg.declareDeadline.Unix())
	}
	return v
}
