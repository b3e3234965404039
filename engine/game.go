package engine

import (
	"fmt"
	"time"
)

// NewGame returns a fresh game in the waiting phase. The seed drives all
// shuffles for the lifetime of the game; a zero seed is replaced so the
// xorshift generator never locks up.
func NewGame(seed uint64, cfg GameConfig) *GameState {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &GameState{
		Phase:         PhaseWaiting,
		CurrentPlayer: SideHuman,
		FaceUp:        EmptyCard,
		Winner:        SideNone,
		RNG:           seed,
		Config:        cfg,
	}
}

// Deal shuffles the full catalog, deals the initial hands, and flips the
// first face-up card. The human moves first. Fails with ErrInsufficientCards
// when the configured hand size cannot be covered by the catalog.
func (g *GameState) Deal() error {
	if g.Phase != PhaseWaiting {
		return fmt.Errorf("deal: %w", ErrWrongPhase)
	}
	hand := g.Config.handSize()
	if int(hand)*2+1 > CatalogSize {
		return fmt.Errorf("deal %d per side: %w", hand, ErrInsufficientCards)
	}

	copy(g.Deck[:], Catalog())
	g.DeckLen = CatalogSize
	g.shuffleDeck()

	for i := uint8(0); i < hand; i++ {
		g.Hands[SideHuman].Cards[i] = g.drawTop()
		g.Hands[SideAI].Cards[i] = g.drawTop()
	}
	g.Hands[SideHuman].Len = hand
	g.Hands[SideAI].Len = hand

	g.FaceUp = g.drawTop()
	g.LastMove = MoveRecord{Card: g.FaceUp, Player: SideNone, At: time.Now().Unix()}

	g.Phase = PhasePlaying
	g.CurrentPlayer = SideHuman
	g.RoundCount = 0
	g.StartTime = time.Now().Unix()
	g.EndTime = 0
	g.Winner = SideNone
	g.HistoryLen = 0
	g.CalledMinpai = [2]bool{}
	g.Penalties = [2]uint8{}
	return nil
}

// shuffleDeck performs a Fisher-Yates shuffle over the live deck prefix.
func (g *GameState) shuffleDeck() {
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := g.randN(uint64(i + 1))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}
}

// drawTop removes and returns the top deck card. Caller checks DeckLen.
func (g *GameState) drawTop() Card {
	g.DeckLen--
	return g.Deck[g.DeckLen]
}

// PlayCard executes a play by side. The card must be in hand and match the
// face-up card by culture or kind. On success the previous face-up move is
// retired into the discard history, the played card becomes face-up, any
// Minpai declaration by the player is cleared, and the turn passes. Emptying
// a hand ends the game immediately.
func (g *GameState) PlayCard(side Side, card Card) error {
	if g.Phase != PhasePlaying {
		return fmt.Errorf("play %s: %w", card.ID(), ErrWrongPhase)
	}
	if side != g.CurrentPlayer {
		return fmt.Errorf("play %s by %s: %w", card.ID(), side, ErrNotYourTurn)
	}
	if !g.HasCard(side, card) {
		return fmt.Errorf("play %s by %s: %w", card.ID(), side, ErrCardNotInHand)
	}
	if !IsPlayable(card, g.FaceUp) {
		return fmt.Errorf("play %s on %s: %w", card.ID(), g.FaceUp.ID(), ErrIllegalMove)
	}

	g.removeFromHand(side, card)
	g.retireFaceUp()
	g.FaceUp = card
	g.LastMove = MoveRecord{Card: card, Player: side, At: time.Now().Unix()}
	g.CalledMinpai[side] = false
	g.RoundCount++

	if g.Hands[side].Len == 0 {
		g.finish(side)
		return nil
	}
	g.CurrentPlayer = side.Opponent()
	return nil
}

// CallMinpai declares the single-card state for side. Only legal on the
// caller's own turn with exactly one card in hand. The declaration does not
// consume the turn; it shields the caller from the single-card penalty until
// their next play.
func (g *GameState) CallMinpai(side Side) error {
	if g.Phase != PhasePlaying {
		return fmt.Errorf("call minpai: %w", ErrWrongPhase)
	}
	if side != g.CurrentPlayer {
		return fmt.Errorf("call minpai by %s: %w", side, ErrNotYourTurn)
	}
	if g.Hands[side].Len != 1 {
		return fmt.Errorf("call minpai with %d cards: %w", g.Hands[side].Len, ErrNotEligible)
	}
	g.CalledMinpai[side] = true
	return nil
}

// PenaltyResult describes the outcome of an ApplyPenalty call.
type PenaltyResult struct {
	Drawn      []Card
	Reshuffled bool
}

// ApplyPenalty draws the configured penalty count into side's hand,
// reshuffling the discard history into the deck when it runs dry. The turn
// does not pass. A short draw is not an error as long as at least one card
// was drawn; only a fully dry deck and history yields ErrDeckExhausted.
func (g *GameState) ApplyPenalty(side Side) (PenaltyResult, error) {
	if g.Phase != PhasePlaying {
		return PenaltyResult{}, fmt.Errorf("penalty: %w", ErrWrongPhase)
	}
	var res PenaltyResult
	want := g.Config.penaltyCount()
	for i := uint8(0); i < want; i++ {
		if g.DeckLen == 0 {
			if !g.attemptReshuffle() {
				break
			}
			res.Reshuffled = true
		}
		card := g.drawTop()
		h := &g.Hands[side]
		h.Cards[h.Len] = card
		h.Len++
		res.Drawn = append(res.Drawn, card)
	}
	if len(res.Drawn) == 0 {
		return res, fmt.Errorf("penalty for %s: %w", side, ErrDeckExhausted)
	}
	g.Penalties[side]++
	if g.Hands[side].Len != 1 {
		g.CalledMinpai[side] = false
	}
	return res, nil
}

// attemptReshuffle folds the retired discard history back into the deck and
// shuffles. The live face-up card stays where it is. A history of fewer than
// two cards is not worth recycling and reports false.
func (g *GameState) attemptReshuffle() bool {
	if g.HistoryLen < 2 {
		return false
	}
	for i := uint8(0); i < g.HistoryLen; i++ {
		g.Deck[g.DeckLen] = g.History[i].Card
		g.DeckLen++
	}
	g.HistoryLen = 0
	g.shuffleDeck()
	return true
}

// retireFaceUp moves the live face-up move record into the discard history.
// No-op before the opening flip.
func (g *GameState) retireFaceUp() {
	if g.FaceUp == EmptyCard {
		return
	}
	g.History[g.HistoryLen] = g.LastMove
	g.HistoryLen++
}

// PassTurn hands the turn to the opponent without a play. Used by the
// adapter after a zero-playable penalty sequence that still left the side
// without a legal move.
func (g *GameState) PassTurn(side Side) error {
	if g.Phase != PhasePlaying {
		return fmt.Errorf("pass: %w", ErrWrongPhase)
	}
	if side != g.CurrentPlayer {
		return fmt.Errorf("pass by %s: %w", side, ErrNotYourTurn)
	}
	g.CurrentPlayer = side.Opponent()
	return nil
}

func (g *GameState) finish(winner Side) {
	g.Phase = PhaseFinished
	g.Winner = winner
	g.EndTime = time.Now().Unix()
}

// Restart returns the game to the waiting phase and deals again. The RNG
// state carries over, so a restarted game gets a fresh shuffle.
func (g *GameState) Restart() error {
	seed := g.RNG
	cfg := g.Config
	*g = *NewGame(seed, cfg)
	return g.Deal()
}

func (g *GameState) removeFromHand(side Side, card Card) {
	h := &g.Hands[side]
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == card {
			copy(h.Cards[i:h.Len-1], h.Cards[i+1:h.Len])
			h.Len--
			return
		}
	}
}
