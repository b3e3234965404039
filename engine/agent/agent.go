// Package agent implements the card-playing AI: a minimax search with
// alpha-beta cutoffs, heuristic evaluation, and wall-clock budgets tiered
// by difficulty.
package agent

import (
	"math/rand/v2"
	"time"

	"github.com/Frisk239/minpaixinyu-new/engine"
)

// Difficulty selects one of the preset AI strength tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a wire name to a Difficulty, defaulting to medium.
func ParseDifficulty(name string) Difficulty {
	switch Difficulty(name) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(name)
	}
	return DifficultyMedium
}

// preset holds the tuning for one difficulty tier.
type preset struct {
	depth  int
	budget time.Duration
}

var presets = map[Difficulty]preset{
	DifficultyEasy:   {depth: 2, budget: 300 * time.Millisecond},
	DifficultyMedium: {depth: 3, budget: 800 * time.Millisecond},
	DifficultyHard:   {depth: 4, budget: 1500 * time.Millisecond},
}

// Agent picks moves for the AI side of a game.
type Agent struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// New returns an agent at the given difficulty. Unrecognized difficulties
// fall back to medium.
func New(d Difficulty) *Agent {
	if _, ok := presets[d]; !ok {
		d = DifficultyMedium
	}
	return &Agent{
		difficulty: d,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Difficulty returns the agent's tier.
func (a *Agent) Difficulty() Difficulty { return a.difficulty }

// Decide picks the card the AI should play from g. The second return is
// false when the AI has no playable card and must take the penalty draw.
// Decide never mutates g.
func (a *Agent) Decide(g *engine.GameState) (engine.Card, bool) {
	pos := newPosition(g)

	candidates := make([]int, 0, len(pos.hands[sideAI]))
	for i, c := range pos.hands[sideAI] {
		if engine.IsPlayable(c, pos.faceUp) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return engine.EmptyCard, false
	}
	if len(candidates) == 1 {
		return pos.hands[sideAI][candidates[0]], true
	}

	cfg := presets[a.difficulty]
	candidates = quickPrune(pos, candidates)

	// easy skips the search: a uniform pick among the pruned candidates
	if a.difficulty == DifficultyEasy {
		return pos.hands[sideAI][candidates[a.rng.IntN(len(candidates))]], true
	}

	s := &searcher{start: time.Now(), budget: cfg.budget}
	depth := adjustDepth(pos, cfg.depth, time.Since(s.start))
	candidates = boundaryPrune(pos, candidates, time.Since(s.start))

	idx, _ := s.bestMove(pos, candidates, depth)
	return pos.hands[sideAI][idx], true
}
