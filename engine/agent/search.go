package agent

import (
	"time"

	"github.com/Frisk239/minpaixinyu-new/engine"
)

const (
	sideAI  = 0
	sideOpp = 1
)

// position is the minimal mutable search state. Moves are applied and undone
// in place; no per-node allocation.
type position struct {
	hands     [2][]engine.Card
	faceUp    engine.Card
	penalties [2]int
}

func newPosition(g *engine.GameState) *position {
	return &position{
		hands: [2][]engine.Card{
			sideAI:  g.Hand(engine.SideAI),
			sideOpp: g.Hand(engine.SideHuman),
		},
		faceUp: g.FaceUp,
		penalties: [2]int{
			sideAI:  int(g.Penalties[engine.SideAI]),
			sideOpp: int(g.Penalties[engine.SideHuman]),
		},
	}
}

// undoRecord captures what apply changed so undo can reverse it exactly.
type undoRecord struct {
	side       int
	card       engine.Card
	index      int
	prevFaceUp engine.Card
}

// apply plays card (held at index in side's hand) and returns the undo
// record. Swap-remove keeps it O(1); ordering inside a hand is irrelevant
// to the evaluation.
func (p *position) apply(side, index int) undoRecord {
	hand := p.hands[side]
	u := undoRecord{side: side, card: hand[index], index: index, prevFaceUp: p.faceUp}
	last := len(hand) - 1
	hand[index] = hand[last]
	p.hands[side] = hand[:last]
	p.faceUp = u.card
	return u
}

func (p *position) undo(u undoRecord) {
	hand := p.hands[u.side]
	hand = hand[:len(hand)+1]
	hand[len(hand)-1] = hand[u.index]
	hand[u.index] = u.card
	p.hands[u.side] = hand
	p.faceUp = u.prevFaceUp
}

type searcher struct {
	start  time.Time
	budget time.Duration
}

func (s *searcher) expired() bool {
	return time.Since(s.start) > s.budget
}

// bestMove runs an alpha-beta search over the candidate cards and returns
// the index of the best candidate along with its score.
func (s *searcher) bestMove(p *position, candidates []int, depth int) (int, float64) {
	bestIdx := candidates[0]
	bestScore := -1e18
	alpha, beta := -1e18, 1e18

	for _, idx := range candidates {
		if s.expired() {
			break
		}
		u := p.apply(sideAI, idx)
		score := s.alphabeta(p, depth-1, alpha, beta, sideOpp)
		p.undo(u)

		if score > bestScore {
			bestScore = score
			bestIdx = idx
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestIdx, bestScore
}

// alphabeta is a standard minimax with alpha-beta cutoffs. The AI maximizes.
// A node where the side to move has no playable card is scored statically;
// the search does not model penalty draws or reshuffles.
func (s *searcher) alphabeta(p *position, depth int, alpha, beta float64, toMove int) float64 {
	if depth <= 0 || s.expired() ||
		len(p.hands[sideAI]) == 0 || len(p.hands[sideOpp]) == 0 {
		return evaluate(p)
	}

	moved := false
	if toMove == sideAI {
		best := -1e18
		for i := range p.hands[sideAI] {
			if !engine.IsPlayable(p.hands[sideAI][i], p.faceUp) {
				continue
			}
			moved = true
			u := p.apply(sideAI, i)
			score := s.alphabeta(p, depth-1, alpha, beta, sideOpp)
			p.undo(u)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		if !moved {
			return evaluate(p)
		}
		return best
	}

	best := 1e18
	for i := range p.hands[sideOpp] {
		if !engine.IsPlayable(p.hands[sideOpp][i], p.faceUp) {
			continue
		}
		moved = true
		u := p.apply(sideOpp, i)
		score := s.alphabeta(p, depth-1, alpha, beta, sideAI)
		p.undo(u)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	if !moved {
		return evaluate(p)
	}
	return best
}
