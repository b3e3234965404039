package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Frisk239/minpaixinyu-new/engine"
	"github.com/Frisk239/minpaixinyu-new/engine/agent"
	"github.com/Frisk239/minpaixinyu-new/internal/game"
)

// Handler serves the game API. It owns at most one live session at a time;
// starting a new game replaces the previous session.
type Handler struct {
	mu      sync.Mutex
	session *game.MinpaiGame

	broker        *Broker
	decisions     game.DecisionClient
	declareWindow time.Duration
	log           *logrus.Entry
}

// NewHandler builds the API handler. decisions may be nil for local-only AI.
func NewHandler(decisions game.DecisionClient, declareWindow time.Duration) *Handler {
	return &Handler{
		broker:        NewBroker(),
		decisions:     decisions,
		declareWindow: declareWindow,
		log:           logrus.WithField("component", "httpapi"),
	}
}

// Register attaches all routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/api/game/start", h.StartGame)
	e.GET("/api/game/state", h.GetState)
	e.POST("/api/game/play", h.PlayCard)
	e.POST("/api/game/declare", h.Declare)
	e.POST("/api/game/restart", h.Restart)
	e.GET("/api/game/stats", h.GetStats)
	e.GET("/api/game/events", h.StreamEvents)
	e.POST("/api/game/ai-decision", h.AIDecision)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// StartGame creates and deals a new session, replacing any previous one.
func (h *Handler) StartGame(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		h.session.Stop()
	}
	mg := game.NewMinpaiGame(uint64(time.Now().UnixNano()),
		agent.ParseDifficulty(req.Difficulty), h.declareWindow)
	mg.Decisions = h.decisions
	mg.BroadcastFn = h.broker.Publish
	if err := mg.Start(); err != nil {
		return mapError(c, err)
	}
	h.session = mg
	h.log.WithFields(logrus.Fields{
		"game_id":    mg.ID,
		"difficulty": mg.Difficulty,
	}).Info("game started")

	return h.stateResponse(c, mg)
}

func (h *Handler) GetState(c echo.Context) error {
	mg, err := h.currentSession()
	if err != nil {
		return mapError(c, err)
	}
	return h.stateResponse(c, mg)
}

func (h *Handler) PlayCard(c echo.Context) error {
	var req PlayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	}
	if _, err := engine.ParseCardID(req.CardID); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	mg, err := h.currentSession()
	if err != nil {
		return mapError(c, err)
	}
	if err := mg.HandlePlayCard(req.CardID); err != nil {
		return mapError(c, err)
	}
	return h.stateResponse(c, mg)
}

func (h *Handler) Declare(c echo.Context) error {
	mg, err := h.currentSession()
	if err != nil {
		return mapError(c, err)
	}
	if err := mg.HandleDeclare(); err != nil {
		return mapError(c, err)
	}
	return h.stateResponse(c, mg)
}

func (h *Handler) Restart(c echo.Context) error {
	mg, err := h.currentSession()
	if err != nil {
		return mapError(c, err)
	}
	if err := mg.HandleRestart(); err != nil {
		return mapError(c, err)
	}
	return h.stateResponse(c, mg)
}

func (h *Handler) GetStats(c echo.Context) error {
	mg, err := h.currentSession()
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, mg.Stats())
}

// StreamEvents pushes game events to the client as server-sent events.
func (h *Handler) StreamEvents(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ch := h.broker.Subscribe()
	defer h.broker.Unsubscribe(ch)

	enc := func(ev game.GameEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
			return err
		}
		w.Flush()
		return nil
	}

	// replay the current view so a late subscriber is not blind
	if mg, err := h.currentSession(); err == nil {
		mg.Mu.Lock()
		v := mg.View()
		mg.Mu.Unlock()
		if err := enc(game.GameEvent{Type: game.EventStateSync, State: &v}); err != nil {
			return nil
		}
	}

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := enc(ev); err != nil {
				return nil
			}
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// AIDecision computes the AI's move for a caller-supplied state. Peer
// instances use this endpoint for remote delegation.
func (h *Handler) AIDecision(c echo.Context) error {
	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, DecisionResponse{Success: false, Error: "malformed request body"})
	}

	g, err := game.FromWireState(&req.GameState)
	if err != nil {
		return c.JSON(http.StatusBadRequest, DecisionResponse{Success: false, Error: err.Error()})
	}
	difficulty := agent.ParseDifficulty(req.Difficulty)

	start := time.Now()
	card, play := agent.New(difficulty).Decide(g)
	elapsed := time.Since(start).Seconds()

	resp := DecisionResponse{
		Success:      true,
		DecisionTime: elapsed,
		Difficulty:   string(difficulty),
	}
	if play {
		wc := game.ToWireCard(card)
		resp.Card = &wc
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) currentSession() (*game.MinpaiGame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return nil, errNoSession
	}
	return h.session, nil
}

func (h *Handler) stateResponse(c echo.Context, mg *game.MinpaiGame) error {
	mg.Mu.Lock()
	v := mg.View()
	mg.Mu.Unlock()
	return c.JSON(http.StatusOK, StateResponse{State: v})
}

var errNoSession = errors.New("no active game, call /api/game/start first")

func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errNoSession):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrCardNotInHand),
		errors.Is(err, engine.ErrIllegalMove),
		errors.Is(err, engine.ErrNotEligible),
		errors.Is(err, engine.ErrWrongPhase):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrDeckExhausted):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrInsufficientCards):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		logrus.WithError(err).Error("internal error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
