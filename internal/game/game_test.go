package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frisk239/minpaixinyu-new/engine"
	"github.com/Frisk239/minpaixinyu-new/engine/agent"
)

// mockBroadcaster captures game events for assertions.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) count(t EventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (mb *mockBroadcaster) has(t EventType) bool { return mb.count(t) > 0 }

// stubDecisions implements DecisionClient with a canned behavior.
type stubDecisions struct {
	mu     sync.Mutex
	calls  int
	fail   bool
	pickFn func(state WireState) (engine.Card, bool)
}

func (s *stubDecisions) Decide(_ context.Context, state WireState, _ agent.Difficulty) (engine.Card, bool, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail {
		return engine.EmptyCard, false, errors.New("decision service unreachable")
	}
	card, play := s.pickFn(state)
	return card, play, nil
}

func (s *stubDecisions) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestGame(t *testing.T, window time.Duration) (*MinpaiGame, *mockBroadcaster) {
	t.Helper()
	mb := &mockBroadcaster{}
	mg := NewMinpaiGame(uint64(time.Now().UnixNano()), agent.DifficultyEasy, window)
	mg.BroadcastFn = mb.broadcastFn
	t.Cleanup(mg.Stop)
	return mg, mb
}

// setSingleCardHand shrinks the human hand to one playable card.
// Assumes lock is held.
func setSingleCardHand(mg *MinpaiGame) engine.Card {
	g := &mg.Engine
	card := engine.NewCard(g.FaceUp.Culture(), g.FaceUp.Kind(), (g.FaceUp.Ordinal()+1)%engine.CardsPerGroup)
	g.Hands[engine.SideHuman].Cards[0] = card
	g.Hands[engine.SideHuman].Len = 1
	return card
}

func TestStartDealsAndBroadcasts(t *testing.T) {
	mg, mb := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	assert.Equal(t, engine.PhasePlaying, mg.Engine.Phase)
	assert.Equal(t, engine.SideHuman, mg.Engine.CurrentPlayer)
	assert.Equal(t, DefaultDeclareWindow, mg.DeclareWindow)
	assert.True(t, mb.has(EventGameStarted))
	assert.True(t, mb.has(EventStateSync))
}

func TestHumanPlayTriggersAITurn(t *testing.T) {
	mg, mb := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	playable := mg.Engine.Playable(engine.SideHuman)
	require.NotEmpty(t, playable, "blocked human should have been auto-penalized into a playable hand")
	card := playable[0]
	mg.Mu.Unlock()

	require.NoError(t, mg.HandlePlayCard(card.ID()))
	assert.True(t, mb.has(EventCardPlayed))

	// the AI decision runs asynchronously; wait for the turn to come back
	require.Eventually(t, func() bool {
		mg.Mu.Lock()
		defer mg.Mu.Unlock()
		return mg.Engine.Phase == engine.PhaseFinished ||
			mg.Engine.CurrentPlayer == engine.SideHuman
	}, 3*time.Second, 10*time.Millisecond)

	assert.True(t, mb.has(EventAIThinking))
	assert.GreaterOrEqual(t, mb.count(EventCardPlayed), 1)
}

func TestPlayCardRejectsWrongTurn(t *testing.T) {
	mg, _ := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	mg.Engine.CurrentPlayer = engine.SideAI
	card := mg.Engine.Hand(engine.SideHuman)[0]
	mg.Mu.Unlock()

	err := mg.HandlePlayCard(card.ID())
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)
}

func TestDeclareCountdownFiresPenalty(t *testing.T) {
	mg, mb := newTestGame(t, 60*time.Millisecond)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	setSingleCardHand(mg)
	mg.refreshDeclareCountdown()
	mg.Mu.Unlock()

	assert.True(t, mb.has(EventCountdownStarted))

	require.Eventually(t, func() bool {
		mg.Mu.Lock()
		defer mg.Mu.Unlock()
		return mg.Engine.Penalties[engine.SideHuman] == 1
	}, 2*time.Second, 5*time.Millisecond)

	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	assert.Equal(t, 3, mg.Engine.HandLen(engine.SideHuman), "1 card plus 2 penalty draws")
	assert.True(t, mb.has(EventPenaltyApplied))
}

func TestDeclareCancelsCountdown(t *testing.T) {
	mg, mb := newTestGame(t, 80*time.Millisecond)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	setSingleCardHand(mg)
	mg.refreshDeclareCountdown()
	mg.Mu.Unlock()

	require.NoError(t, mg.HandleDeclare())
	assert.True(t, mb.has(EventMinpaiCalled))
	assert.True(t, mb.has(EventCountdownCanceled))

	// well past the window; the canceled timer must not land a penalty
	time.Sleep(200 * time.Millisecond)
	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	assert.Equal(t, uint8(0), mg.Engine.Penalties[engine.SideHuman])
	assert.Equal(t, 1, mg.Engine.HandLen(engine.SideHuman))
}

func TestDeclareTimeoutIdempotent(t *testing.T) {
	mg, _ := newTestGame(t, time.Hour) // timer will not fire on its own
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	setSingleCardHand(mg)
	mg.refreshDeclareCountdown()
	seq := mg.declareSeq
	mg.Mu.Unlock()

	// simulate the timer callback racing a duplicate invocation
	mg.declareTimeout(seq)
	mg.declareTimeout(seq)

	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	assert.Equal(t, uint8(1), mg.Engine.Penalties[engine.SideHuman], "exactly one penalty")
	assert.Equal(t, 3, mg.Engine.HandLen(engine.SideHuman))
}

func TestCountdownNotStartedWhenDeclared(t *testing.T) {
	mg, mb := newTestGame(t, 50*time.Millisecond)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	setSingleCardHand(mg)
	mg.Engine.CalledMinpai[engine.SideHuman] = true
	mg.refreshDeclareCountdown()
	mg.Mu.Unlock()

	assert.False(t, mb.has(EventCountdownStarted))
}

func TestRemoteDecisionPreferred(t *testing.T) {
	stub := &stubDecisions{
		pickFn: func(state WireState) (engine.Card, bool) {
			var faceUp engine.Card = engine.EmptyCard
			if state.CurrentCard != nil {
				c, err := engine.ParseCardID(state.CurrentCard.ID)
				if err != nil {
					return engine.EmptyCard, false
				}
				faceUp = c
			}
			for _, wc := range state.AIHand {
				c, err := engine.ParseCardID(wc.ID)
				if err != nil {
					continue
				}
				if engine.IsPlayable(c, faceUp) {
					return c, true
				}
			}
			return engine.EmptyCard, false
		},
	}
	mg, _ := newTestGame(t, 0)
	mg.Decisions = stub
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	playable := mg.Engine.Playable(engine.SideHuman)
	require.NotEmpty(t, playable)
	card := playable[0]
	mg.Mu.Unlock()

	require.NoError(t, mg.HandlePlayCard(card.ID()))

	require.Eventually(t, func() bool {
		mg.Mu.Lock()
		defer mg.Mu.Unlock()
		return mg.Engine.Phase == engine.PhaseFinished ||
			mg.Engine.CurrentPlayer == engine.SideHuman
	}, 3*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, stub.callCount(), 1)
}

func TestRemoteFailureFallsBackToLocalAgent(t *testing.T) {
	stub := &stubDecisions{fail: true}
	mg, _ := newTestGame(t, 0)
	mg.Decisions = stub
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	playable := mg.Engine.Playable(engine.SideHuman)
	require.NotEmpty(t, playable)
	card := playable[0]
	aiHandBefore := mg.Engine.HandLen(engine.SideAI)
	mg.Mu.Unlock()

	require.NoError(t, mg.HandlePlayCard(card.ID()))

	// the remote error must not stall the game
	require.Eventually(t, func() bool {
		mg.Mu.Lock()
		defer mg.Mu.Unlock()
		return mg.Engine.Phase == engine.PhaseFinished ||
			mg.Engine.CurrentPlayer == engine.SideHuman
	}, 3*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, stub.callCount(), 1)
	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	if mg.Engine.Phase == engine.PhasePlaying {
		// AI either played a card or drew penalties; its hand changed
		assert.NotEqual(t, aiHandBefore, mg.Engine.HandLen(engine.SideAI))
	}
}

func TestRestartResetsSession(t *testing.T) {
	mg, mb := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	playable := mg.Engine.Playable(engine.SideHuman)
	require.NotEmpty(t, playable)
	card := playable[0]
	mg.Mu.Unlock()
	require.NoError(t, mg.HandlePlayCard(card.ID()))

	require.NoError(t, mg.HandleRestart())
	assert.True(t, mb.has(EventGameRestarted))

	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	assert.Equal(t, engine.PhasePlaying, mg.Engine.Phase)
	assert.Equal(t, engine.SideHuman, mg.Engine.CurrentPlayer)
	assert.Equal(t, uint16(0), mg.Engine.RoundCount)
	assert.Equal(t, 12, mg.Engine.HandLen(engine.SideHuman))
	assert.Equal(t, 12, mg.Engine.HandLen(engine.SideAI))
}

func TestStatsReflectProgress(t *testing.T) {
	mg, _ := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	s := mg.Stats()
	assert.Equal(t, mg.ID.String(), s.GameID)
	assert.Equal(t, 0, s.Rounds)
	assert.Equal(t, string(agent.DifficultyEasy), s.Difficulty)
	assert.Empty(t, s.Winner)
}

func TestViewHidesAIHand(t *testing.T) {
	mg, _ := newTestGame(t, 0)
	require.NoError(t, mg.Start())

	mg.Mu.Lock()
	v := mg.View()
	mg.Mu.Unlock()

	mg.Mu.Lock()
	humanLen := mg.Engine.HandLen(engine.SideHuman)
	aiLen := mg.Engine.HandLen(engine.SideAI)
	mg.Mu.Unlock()

	assert.Equal(t, "playing", v.GamePhase)
	assert.Equal(t, aiLen, v.AIHandSize)
	assert.Len(t, v.PlayerHand, humanLen)
	require.NotNil(t, v.CurrentCard)
	assert.NotEmpty(t, v.PlayableCards)
}
