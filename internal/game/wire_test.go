package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frisk239/minpaixinyu-new/engine"
)

func TestToWireState(t *testing.T) {
	g := engine.NewGame(99, engine.DefaultGameConfig())
	require.NoError(t, g.Deal())

	w := ToWireState(g)
	assert.Equal(t, "playing", w.GamePhase)
	assert.Equal(t, "human", w.CurrentPlayer)
	require.NotNil(t, w.CurrentCard)
	assert.Equal(t, g.FaceUp.ID(), w.CurrentCard.ID)
	assert.Len(t, w.PlayerHand, 12)
	assert.Len(t, w.AIHand, 12)
	assert.Len(t, w.Deck, 50)
	assert.Empty(t, w.Winner)

	// card details travel with every entry
	first := w.PlayerHand[0]
	assert.NotEmpty(t, first.Name)
	assert.NotEmpty(t, first.Culture)
	assert.Contains(t, []string{"character", "location", "quote"}, first.Type)
	assert.NotEmpty(t, first.Image)
}

func TestWireStateRoundTrip(t *testing.T) {
	g := engine.NewGame(7, engine.DefaultGameConfig())
	require.NoError(t, g.Deal())
	g.CalledMinpai[engine.SideAI] = true
	g.Penalties[engine.SideHuman] = 2

	restored, err := FromWireState(ptr(ToWireState(g)))
	require.NoError(t, err)

	assert.Equal(t, g.Phase, restored.Phase)
	assert.Equal(t, g.CurrentPlayer, restored.CurrentPlayer)
	assert.Equal(t, g.FaceUp, restored.FaceUp)
	assert.Equal(t, g.Hand(engine.SideHuman), restored.Hand(engine.SideHuman))
	assert.Equal(t, g.Hand(engine.SideAI), restored.Hand(engine.SideAI))
	assert.Equal(t, g.DeckLen, restored.DeckLen)
	assert.True(t, restored.CalledMinpai[engine.SideAI])
	assert.Equal(t, uint8(2), restored.Penalties[engine.SideHuman])
}

func TestFromWireStateRejectsGarbage(t *testing.T) {
	g := engine.NewGame(7, engine.DefaultGameConfig())
	require.NoError(t, g.Deal())

	w := ToWireState(g)
	w.GamePhase = "limbo"
	_, err := FromWireState(&w)
	assert.Error(t, err)

	w = ToWireState(g)
	w.CurrentPlayer = "dealer"
	_, err = FromWireState(&w)
	assert.Error(t, err)

	w = ToWireState(g)
	w.PlayerHand[0].ID = "card_900"
	_, err = FromWireState(&w)
	assert.Error(t, err)
}

func ptr(w WireState) *WireState { return &w }
