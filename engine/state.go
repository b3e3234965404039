// Package engine implements the Minpai card-matching game rules.
//
// The package provides a flat, value-type game state suitable for both the
// reactive service adapter and the tree-search AI: snapshots and search
// clones are plain struct copies with no shared mutable structure.
package engine

// Side identifies one of the two players.
type Side uint8

const (
	SideHuman Side = 0
	SideAI    Side = 1

	// SideNone marks the absence of a side (no winner yet, dealer flip).
	SideNone Side = 0xFF
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return 1 - s }

// String returns the wire name of the side.
func (s Side) String() string {
	switch s {
	case SideHuman:
		return "human"
	case SideAI:
		return "ai"
	}
	return ""
}

// ParseSide converts a wire name back to a Side.
func ParseSide(name string) (Side, bool) {
	switch name {
	case "human":
		return SideHuman, true
	case "ai":
		return SideAI, true
	}
	return SideNone, false
}

// Phase is the lifecycle state of a game.
type Phase uint8

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseFinished
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	}
	return ""
}

// GameConfig holds configurable game rule settings.
type GameConfig struct {
	InitialHandSize  uint8 // cards dealt to each side at start
	PenaltyDrawCount uint8 // cards drawn per penalty
}

// DefaultGameConfig returns the standard Minpai rules: 12 cards each,
// 2-card penalty draws.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		InitialHandSize:  12,
		PenaltyDrawCount: 2,
	}
}

func (c *GameConfig) handSize() uint8 {
	if c.InitialHandSize == 0 {
		return 12
	}
	return c.InitialHandSize
}

func (c *GameConfig) penaltyCount() uint8 {
	if c.PenaltyDrawCount == 0 {
		return 2
	}
	return c.PenaltyDrawCount
}

// HandState holds one side's cards. Insertion order is irrelevant to the
// rules but stable for display.
type HandState struct {
	Cards [CatalogSize]Card
	Len   uint8
}

// MoveRecord is one executed play: which card, by whom, when.
type MoveRecord struct {
	Card   Card
	Player Side  // SideNone for the dealer's opening flip
	At     int64 // unix seconds
}

// GameState holds the complete, self-contained state of a Minpai game.
// It is a flat value type (no pointers, no slices): copying the struct is a
// deep copy, which is what the AI search and the adapter snapshots rely on.
//
// The live face-up card is tracked by LastMove and is not part of History;
// a play retires the previous LastMove into History. Reshuffling therefore
// never recycles the face-up card.
type GameState struct {
	Phase         Phase
	CurrentPlayer Side
	FaceUp        Card // EmptyCard before the opening flip

	Deck    [CatalogSize]Card
	DeckLen uint8

	Hands [2]HandState

	History    [CatalogSize]MoveRecord
	HistoryLen uint8
	LastMove   MoveRecord // aliases FaceUp while FaceUp != EmptyCard

	CalledMinpai [2]bool
	Penalties    [2]uint8

	RoundCount uint16
	StartTime  int64 // unix seconds
	EndTime    int64 // unix seconds, 0 while live
	Winner     Side  // SideNone while live

	RNG    uint64
	Config GameConfig
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Hand returns a copy of the given side's cards in display order.
func (g *GameState) Hand(side Side) []Card {
	h := &g.Hands[side]
	out := make([]Card, h.Len)
	copy(out, h.Cards[:h.Len])
	return out
}

// handSlice returns the live backing slice of a hand. Internal use only:
// callers must not retain it across mutations.
func (g *GameState) handSlice(side Side) []Card {
	return g.Hands[side].Cards[:g.Hands[side].Len]
}

// HandLen returns the size of the given side's hand.
func (g *GameState) HandLen(side Side) int { return int(g.Hands[side].Len) }

// HasCard reports whether side holds the given card.
func (g *GameState) HasCard(side Side, card Card) bool {
	h := &g.Hands[side]
	for i := uint8(0); i < h.Len; i++ {
		if h.Cards[i] == card {
			return true
		}
	}
	return false
}

// DiscardHistory returns a copy of the retired move records in play order.
// The live face-up move is not included.
func (g *GameState) DiscardHistory() []MoveRecord {
	out := make([]MoveRecord, g.HistoryLen)
	copy(out, g.History[:g.HistoryLen])
	return out
}

// TotalCards returns the number of cards accounted for across both hands,
// the deck, the retired history, and the live face-up card. Equal to
// CatalogSize for every reachable state.
func (g *GameState) TotalCards() int {
	n := int(g.Hands[SideHuman].Len) + int(g.Hands[SideAI].Len) +
		int(g.DeckLen) + int(g.HistoryLen)
	if g.FaceUp != EmptyCard {
		n++
	}
	return n
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState. Saving and restoring are
// plain struct copies; no heap allocation.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
