package game

import (
	"fmt"

	"github.com/Frisk239/minpaixinyu-new/engine"
)

// kindWireNames maps engine kinds to their wire identifiers.
var kindWireNames = [engine.NumKinds]string{"character", "location", "quote"}

// WireCard is the card shape used on every external boundary: the browser
// event stream and the remote decision service.
type WireCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Culture string `json:"culture"`
	Type    string `json:"type"`
	Image   string `json:"image"`
}

// WireState is the full snake_case game state used by the remote decision
// service. Unlike ViewState it hides nothing; the decision service needs the
// AI hand.
type WireState struct {
	GamePhase          string        `json:"game_phase"`
	CurrentPlayer      string        `json:"current_player"`
	CurrentCard        *WireCard     `json:"current_card"`
	Deck               []WireCard    `json:"deck"`
	PlayerHand         []WireCard    `json:"player_hand"`
	AIHand             []WireCard    `json:"ai_hand"`
	PlayerCalledMinpai bool          `json:"player_called_minpai"`
	AICalledMinpai     bool          `json:"ai_called_minpai"`
	Penalties          WirePenalties `json:"penalties"`
	RoundCount         int           `json:"round_count"`
	GameStartTime      float64       `json:"game_start_time"`
	Winner             string        `json:"winner,omitempty"`
	GameEndTime        float64       `json:"game_end_time,omitempty"`
}

// WirePenalties counts executed penalty draws per side.
type WirePenalties struct {
	Player int `json:"player"`
	AI     int `json:"ai"`
}

// ToWireCard converts an engine card to its wire shape.
func ToWireCard(c engine.Card) WireCard {
	return WireCard{
		ID:      c.ID(),
		Name:    c.Name(),
		Culture: engine.CultureName(c.Culture()),
		Type:    kindWireNames[c.Kind()],
		Image:   c.AssetPath(),
	}
}

func toWireCards(cards []engine.Card) []WireCard {
	out := make([]WireCard, len(cards))
	for i, c := range cards {
		out[i] = ToWireCard(c)
	}
	return out
}

// ToWireState serializes the complete engine state.
func ToWireState(g *engine.GameState) WireState {
	w := WireState{
		GamePhase:          g.Phase.String(),
		CurrentPlayer:      g.CurrentPlayer.String(),
		Deck:               toWireCards(deckCards(g)),
		PlayerHand:         toWireCards(g.Hand(engine.SideHuman)),
		AIHand:             toWireCards(g.Hand(engine.SideAI)),
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
		w.CurrentCard = &c
	}
	if g.Winner != engine.SideNone {
		w.Winner = g.Winner.String()
		w.GameEndTime = float64(g.EndTime)
	}
	return w
}

func deckCards(g *engine.GameState) []engine.Card {
	out := make([]engine.Card, g.DeckLen)
	copy(out, g.Deck[:g.DeckLen])
	return out
}

// FromWireState rebuilds an engine state from its wire shape. Used by the
// decision endpoint, which receives a full state and must search over it.
// The discard history is not on the wire; only the fields the search reads
// are reconstructed.
func FromWireState(w *WireState) (*engine.GameState, error) {
	g := engine.NewGame(0, engine.DefaultGameConfig())

	switch w.GamePhase {
	case "waiting":
		g.Phase = engine.PhaseWaiting
	case "playing":
		g.Phase = engine.PhasePlaying
	case "finished":
		g.Phase = engine.PhaseFinished
	default:
		return nil, fmt.Errorf("unknown game_phase %q", w.GamePhase)
	}

	side, ok := engine.ParseSide(w.CurrentPlayer)
	if !ok {
		return nil, fmt.Errorf("unknown current_player %q", w.CurrentPlayer)
	}
	g.CurrentPlayer = side

	if w.CurrentCard != nil {
		c, err := engine.ParseCardID(w.CurrentCard.ID)
		if err != nil {
			return nil, fmt.Errorf("current_card: %w", err)
		}
		g.FaceUp = c
	}

	fill := func(dst *[2]engine.HandState, side engine.Side, cards []WireCard) error {
		if len(cards) > engine.CatalogSize {
			return fmt.Errorf("hand of %d cards exceeds catalog", len(cards))
		}
		for i, wc := range cards {
			c, err := engine.ParseCardID(wc.ID)
			if err != nil {
				return err
			}
			dst[side].Cards[i] = c
		}
		dst[side].Len = uint8(len(cards))
		return nil
	}
	if err := fill(&g.Hands, engine.SideHuman, w.PlayerHand); err != nil {
		return nil, fmt.Errorf("player_hand: %w", err)
	}
	if err := fill(&g.Hands, engine.SideAI, w.AIHand); err != nil {
		return nil, fmt.Errorf("ai_hand: %w", err)
	}

	if len(w.Deck) > engine.CatalogSize {
		return nil, fmt.Errorf("deck of %d cards exceeds catalog", len(w.Deck))
	}
	for i, wc := range w.Deck {
		c, err := engine.ParseCardID(wc.ID)
		if err != nil {
			return nil, fmt.Errorf("deck: %w", err)
		}
		g.Deck[i] = c
	}
	g.DeckLen = uint8(len(w.Deck))

	g.CalledMinpai[engine.SideHuman] = w.PlayerCalledMinpai
	g.CalledMinpai[engine.SideAI] = w.AICalledMinpai
	g.Penalties[engine.SideHuman] = uint8(w.Penalties.Player)
	g.Penalties[engine.SideAI] = uint8(w.Penalties.AI)
	g.RoundCount = uint16(w.RoundCount)
	g.StartTime = int64(w.GameStartTime)

	if w.Winner != "" {
		winner, ok := engine.ParseSide(w.Winner)
		if !ok {
			return nil, fmt.Errorf("unknown winner %q", w.Winner)
		}
		g.Winner = winner
		g.EndTime = int64(w.GameEndTime)
	}
	return g, nil
}
