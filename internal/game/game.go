// Package game adapts the rules engine to a reactive service: it owns the
// authoritative state behind a mutex, pushes events to observers, drives the
// single-card declare countdown, and runs the AI turn (remotely with a local
// fallback).
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Frisk239/minpaixinyu-new/engine"
	"github.com/Frisk239/minpaixinyu-new/engine/agent"
	"github.com/Frisk239/minpaixinyu-new/internal/cache"
)

// DefaultDeclareWindow is the time a side has to declare its single-card
// state before the timeout penalty lands.
const DefaultDeclareWindow = 5 * time.Second

// decisionTimeout bounds the remote AI round-trip before the local agent
// takes over.
const decisionTimeout = 3 * time.Second

// DecisionClient obtains an AI move from a remote decision service.
// Implementations must honor the context deadline.
type DecisionClient interface {
	// Decide returns the chosen card and true, or false when the AI has no
	// playable card. An error triggers the local fallback.
	Decide(ctx context.Context, state WireState, difficulty agent.Difficulty) (engine.Card, bool, error)
}

// MinpaiGame is one live game session. All state mutation is serialized
// through Mu; timers and the AI round-trip re-enter through it.
type MinpaiGame struct {
	ID uuid.UUID

	// Engine is the authoritative game state. Guarded by Mu.
	Engine engine.GameState

	Difficulty    agent.Difficulty
	DeclareWindow time.Duration

	Mu sync.Mutex

	// BroadcastFn pushes an event to every connected observer.
	BroadcastFn func(ev GameEvent)
	// OnGameEnd fires once when the game reaches the finished phase.
	OnGameEnd func(gameID uuid.UUID, winner engine.Side)

	// Decisions is the optional remote AI. Nil means local-only.
	Decisions DecisionClient
	local     *agent.Agent

	declareTimer    *time.Timer
	declareDeadline time.Time
	declareSide     engine.Side
	declareSeq      uint64
	penaltyInFlight bool

	// aiSeq invalidates stale remote responses after a restart or timeout.
	aiSeq      uint64
	aiThinking bool

	endFired bool

	actionIndex int
	log         *logrus.Entry
}

// NewMinpaiGame creates a session at the given difficulty. The declare
// window falls back to DefaultDeclareWindow when zero.
func NewMinpaiGame(seed uint64, difficulty agent.Difficulty, declareWindow time.Duration) *MinpaiGame {
	id, _ := uuid.NewRandom()
	if declareWindow <= 0 {
		declareWindow = DefaultDeclareWindow
	}
	mg := &MinpaiGame{
		ID:            id,
		Engine:        *engine.NewGame(seed, engine.DefaultGameConfig()),
		Difficulty:    difficulty,
		DeclareWindow: declareWindow,
		local:         agent.New(difficulty),
		log:           logrus.WithField("game_id", id),
	}
	return mg
}

// Start deals the opening hands and opens play. The human moves first.
func (mg *MinpaiGame) Start() error {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	if err := mg.Engine.Deal(); err != nil {
		return err
	}
	mg.logAction(engine.SideNone, "game_start", map[string]interface{}{
		"difficulty": string(mg.Difficulty),
	})
	mg.fireEvent(GameEvent{Type: EventGameStarted})
	mg.syncState()
	mg.afterStateChange()
	return nil
}

// HandlePlayCard executes a human play by card id.
func (mg *MinpaiGame) HandlePlayCard(cardID string) error {
	card, err := engine.ParseCardID(cardID)
	if err != nil {
		return err
	}

	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	if err := mg.Engine.PlayCard(engine.SideHuman, card); err != nil {
		return err
	}
	mg.logAction(engine.SideHuman, "play_card", map[string]interface{}{"card": cardID})
	wc := ToWireCard(card)
	mg.fireEvent(GameEvent{Type: EventCardPlayed, Player: engine.SideHuman.String(), Card: &wc})
	mg.syncState()
	mg.afterStateChange()
	return nil
}

// HandleDeclare records the human's single-card declaration and cancels the
// running countdown.
func (mg *MinpaiGame) HandleDeclare() error {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	if err := mg.Engine.CallMinpai(engine.SideHuman); err != nil {
		return err
	}
	mg.logAction(engine.SideHuman, "call_minpai", nil)
	mg.fireEvent(GameEvent{Type: EventMinpaiCalled, Player: engine.SideHuman.String()})
	mg.syncState()
	mg.afterStateChange()
	return nil
}

// HandleRestart resets the session to a fresh deal. Any pending countdown or
// in-flight AI decision is invalidated.
func (mg *MinpaiGame) HandleRestart() error {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	mg.cancelDeclareCountdown()
	mg.aiSeq++
	mg.aiThinking = false
	mg.endFired = false
	if err := mg.Engine.Restart(); err != nil {
		return err
	}
	mg.logAction(engine.SideNone, "game_restart", nil)
	mg.fireEvent(GameEvent{Type: EventGameRestarted})
	mg.syncState()
	mg.afterStateChange()
	return nil
}

// Stop releases timers. The session must not be used afterwards.
func (mg *MinpaiGame) Stop() {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()
	mg.cancelDeclareCountdown()
	mg.aiSeq++
}

// GameStats summarizes a session for the caller.
type GameStats struct {
	GameID     string        `json:"game_id"`
	Rounds     int           `json:"rounds"`
	Penalties  WirePenalties `json:"penalties"`
	Duration   float64       `json:"duration_seconds"`
	Winner     string        `json:"winner,omitempty"`
	Difficulty string        `json:"difficulty"`
}

// Stats returns the running totals for the session.
func (mg *MinpaiGame) Stats() GameStats {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	g := &mg.Engine
	s := GameStats{
		GameID: mg.ID.String(),
		Rounds: int(g.RoundCount),
		Penalties: WirePenalties{
			Player: int(g.Penalties[engine.SideHuman]),
			AI:     int(g.Penalties[engine.SideAI]),
		},
		Difficulty: string(mg.Difficulty),
	}
	if g.StartTime > 0 {
		end := g.EndTime
		if end == 0 {
			end = time.Now().Unix()
		}
		s.Duration = float64(end - g.StartTime)
	}
	if g.Winner != engine.SideNone {
		s.Winner = g.Winner.String()
	}
	return s
}

// ---------------------------------------------------------------------------
// Turn automation
// ---------------------------------------------------------------------------

// afterStateChange applies the caller-level turn protocol after every state
// mutation: finish handling, blocked-side penalties, the declare countdown,
// and kicking off the AI turn. Assumes lock is held.
func (mg *MinpaiGame) afterStateChange() {
	if mg.Engine.Phase == engine.PhaseFinished {
		mg.handleGameEnd()
		return
	}

	mg.resolveBlockedSide()
	if mg.Engine.Phase == engine.PhaseFinished {
		mg.handleGameEnd()
		return
	}

	mg.refreshDeclareCountdown()

	if mg.Engine.CurrentPlayer == engine.SideAI && !mg.aiThinking {
		mg.startAITurn()
	}
	if mg.Engine.CurrentPlayer == engine.SideHuman {
		mg.fireEvent(GameEvent{Type: EventTurnChanged, Player: engine.SideHuman.String()})
	}
}

// resolveBlockedSide penalizes the side to move while it has no playable
// card, re-checking after every draw. A fully exhausted card pool passes the
// turn instead of deadlocking. Assumes lock is held.
func (mg *MinpaiGame) resolveBlockedSide() {
	g := &mg.Engine
	for g.Phase == engine.PhasePlaying && g.PlayableCount(g.CurrentPlayer) == 0 {
		side := g.CurrentPlayer
		res, err := g.ApplyPenalty(side)
		if err != nil {
			if !errors.Is(err, engine.ErrDeckExhausted) {
				mg.log.WithError(err).Warn("blocked-side penalty failed")
			}
			if passErr := g.PassTurn(side); passErr != nil {
				mg.log.WithError(passErr).Error("could not pass blocked turn")
			}
			mg.fireEvent(GameEvent{Type: EventTurnChanged, Player: g.CurrentPlayer.String()})
			return
		}
		mg.announcePenalty(side, res, "no_playable_card")
	}
}

// announcePenalty logs and broadcasts an executed penalty draw.
// Assumes lock is held.
func (mg *MinpaiGame) announcePenalty(side engine.Side, res engine.PenaltyResult, reason string) {
	mg.logAction(side, "penalty", map[string]interface{}{
		"reason": reason,
		"drawn":  len(res.Drawn),
	})
	if res.Reshuffled {
		mg.fireEvent(GameEvent{Type: EventDeckReshuffled})
	}
	mg.fireEvent(GameEvent{
		Type:   EventPenaltyApplied,
		Player: side.String(),
		Payload: map[string]interface{}{
			"reason": reason,
			"count":  len(res.Drawn),
		},
	})
	mg.syncState()
}

func (mg *MinpaiGame) handleGameEnd() {
	if mg.endFired {
		return
	}
	mg.endFired = true
	mg.cancelDeclareCountdown()
	mg.aiSeq++
	winner := mg.Engine.Winner
	mg.logAction(engine.SideNone, "game_end", map[string]interface{}{
		"winner": winner.String(),
		"rounds": int(mg.Engine.RoundCount),
	})
	mg.fireEvent(GameEvent{
		Type: EventGameEnded,
		Payload: map[string]interface{}{
			"winner": winner.String(),
		},
	})
	mg.syncState()
	if mg.OnGameEnd != nil {
		cb := mg.OnGameEnd
		id := mg.ID
		go cb(id, winner)
	}
}

// ---------------------------------------------------------------------------
// Declare countdown
// ---------------------------------------------------------------------------

// refreshDeclareCountdown starts, keeps, or cancels the single-card timer so
// it runs exactly while the side to move holds one undeclared card.
// Assumes lock is held.
func (mg *MinpaiGame) refreshDeclareCountdown() {
	g := &mg.Engine
	side := g.CurrentPlayer
	eligible := g.Phase == engine.PhasePlaying &&
		g.HandLen(side) == 1 && !g.CalledMinpai[side]

	if !eligible {
		mg.cancelDeclareCountdown()
		return
	}
	if mg.declareTimer != nil && mg.declareSide == side {
		return // already running for this side
	}
	mg.cancelDeclareCountdown()

	mg.declareSeq++
	seq := mg.declareSeq
	mg.declareSide = side
	mg.declareDeadline = time.Now().Add(mg.DeclareWindow)
	mg.declareTimer = time.AfterFunc(mg.DeclareWindow, func() {
		mg.declareTimeout(seq)
	})
	mg.fireEvent(GameEvent{
		Type:   EventCountdownStarted,
		Player: side.String(),
		Payload: map[string]interface{}{
			"deadline": float64(mg.declareDeadline.Unix()),
			"seconds":  mg.DeclareWindow.Seconds(),
		},
	})
}

// cancelDeclareCountdown stops any running timer and invalidates its seq so
// a concurrently firing callback becomes a no-op. Assumes lock is held.
func (mg *MinpaiGame) cancelDeclareCountdown() {
	if mg.declareTimer == nil {
		return
	}
	mg.declareTimer.Stop()
	mg.declareTimer = nil
	mg.declareSeq++
	mg.declareDeadline = time.Time{}
	mg.fireEvent(GameEvent{Type: EventCountdownCanceled, Player: mg.declareSide.String()})
}

// declareTimeout fires when the declare window elapses. The seq check plus
// the in-flight flag make the penalty exactly-once even when the timer races
// a simultaneous state transition.
func (mg *MinpaiGame) declareTimeout(seq uint64) {
	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	if seq != mg.declareSeq {
		return // canceled or superseded while we waited for the lock
	}
	if mg.penaltyInFlight {
		return
	}
	side := mg.declareSide
	g := &mg.Engine
	if g.Phase != engine.PhasePlaying || g.CurrentPlayer != side ||
		g.HandLen(side) != 1 || g.CalledMinpai[side] {
		return // condition lapsed between expiry and lock acquisition
	}

	mg.penaltyInFlight = true
	mg.declareTimer = nil
	mg.declareSeq++
	mg.declareDeadline = time.Time{}

	res, err := g.ApplyPenalty(side)
	mg.penaltyInFlight = false
	if err != nil {
		mg.log.WithError(err).Warn("declare-timeout penalty not applied")
		return
	}
	mg.log.WithField("side", side.String()).Info("declare window elapsed, penalty applied")
	mg.announcePenalty(side, res, "declare_timeout")
	mg.afterStateChange()
}

// ---------------------------------------------------------------------------
// AI turn
// ---------------------------------------------------------------------------

// startAITurn launches the AI decision asynchronously. The remote service is
// asked first when configured; any failure falls back to the local agent.
// Assumes lock is held.
func (mg *MinpaiGame) startAITurn() {
	mg.aiThinking = true
	mg.aiSeq++
	seq := mg.aiSeq
	state := ToWireState(&mg.Engine)
	snapshot := mg.Engine // value copy for the local agent
	mg.fireEvent(GameEvent{Type: EventAIThinking, Player: engine.SideAI.String()})

	go mg.runAIDecision(seq, state, snapshot)
}

// runAIDecision performs the decision round-trip without holding the lock,
// then re-enters to apply the move.
func (mg *MinpaiGame) runAIDecision(seq uint64, state WireState, snapshot engine.GameState) {
	card, play, src := mg.obtainDecision(state, &snapshot)

	mg.Mu.Lock()
	defer mg.Mu.Unlock()

	mg.aiThinking = false
	if seq != mg.aiSeq {
		return // restarted or superseded while deciding
	}
	g := &mg.Engine
	if g.Phase != engine.PhasePlaying || g.CurrentPlayer != engine.SideAI {
		return
	}

	// a one-card AI hand declares before playing to dodge the timeout
	if g.HandLen(engine.SideAI) == 1 && !g.CalledMinpai[engine.SideAI] {
		if err := g.CallMinpai(engine.SideAI); err == nil {
			mg.logAction(engine.SideAI, "call_minpai", nil)
			mg.fireEvent(GameEvent{Type: EventMinpaiCalled, Player: engine.SideAI.String()})
		}
	}

	if play {
		if err := g.PlayCard(engine.SideAI, card); err != nil {
			mg.log.WithError(err).WithField("card", card.ID()).
				Warn("AI decision rejected, picking fallback")
			play = false
		} else {
			mg.logAction(engine.SideAI, "play_card", map[string]interface{}{
				"card":   card.ID(),
				"source": src,
			})
			wc := ToWireCard(card)
			mg.fireEvent(GameEvent{Type: EventCardPlayed, Player: engine.SideAI.String(), Card: &wc})
			mg.syncState()
			mg.afterStateChange()
			return
		}
	}

	if !play {
		// no playable card (or a stale remote pick): first legal card, else
		// the blocked-side penalty path takes over
		if playable := g.Playable(engine.SideAI); len(playable) > 0 {
			fallback := playable[0]
			if err := g.PlayCard(engine.SideAI, fallback); err == nil {
				mg.logAction(engine.SideAI, "play_card", map[string]interface{}{
					"card":   fallback.ID(),
					"source": "fallback",
				})
				wc := ToWireCard(fallback)
				mg.fireEvent(GameEvent{Type: EventCardPlayed, Player: engine.SideAI.String(), Card: &wc})
			}
		}
		mg.syncState()
		mg.afterStateChange()
	}
}

// obtainDecision asks the remote service, falling back to the local agent on
// any error or timeout. Runs without the game lock.
func (mg *MinpaiGame) obtainDecision(state WireState, snapshot *engine.GameState) (engine.Card, bool, string) {
	if mg.Decisions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), decisionTimeout)
		defer cancel()
		card, play, err := mg.Decisions.Decide(ctx, state, mg.Difficulty)
		if err == nil {
			return card, play, "remote"
		}
		mg.log.WithError(err).Warn("remote decision failed, using local agent")
	}
	card, play := mg.local.Decide(snapshot)
	return card, play, "local"
}

// ---------------------------------------------------------------------------
// Observer plumbing
// ---------------------------------------------------------------------------

// fireEvent pushes an event to observers. Assumes lock is held.
func (mg *MinpaiGame) fireEvent(ev GameEvent) {
	if mg.BroadcastFn == nil {
		return
	}
	mg.BroadcastFn(ev)
}

// syncState pushes a full view refresh. Assumes lock is held.
func (mg *MinpaiGame) syncState() {
	if mg.BroadcastFn == nil {
		return
	}
	v := mg.View()
	mg.BroadcastFn(GameEvent{Type: EventStateSync, State: &v})
}

// logAction queues an action record for the historian via Redis. Fire and
// forget; a missing or failing Redis never blocks play.
func (mg *MinpaiGame) logAction(actor engine.Side, actionType string, payload map[string]interface{}) {
	mg.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:      mg.ID,
		ActionIndex: mg.actionIndex,
		ActorSide:   actor.String(),
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			mg.log.WithError(err).WithField("action", rec.ActionType).
				Warn("failed publishing action record")
		}
	}(record)
}
