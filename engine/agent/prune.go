package agent

import (
	"math"
	"sort"
	"time"

	"github.com/Frisk239/minpaixinyu-new/engine"
)

// quickPrune ranks candidate moves by a cheap static priority and keeps the
// top 60% (at least two). Skipped entirely for small candidate sets.
func quickPrune(p *position, candidates []int) []int {
	if len(candidates) <= 3 {
		return candidates
	}

	var cultures [engine.NumCultures]int
	var kinds [engine.NumKinds]int
	for _, c := range p.hands[sideAI] {
		cultures[c.Culture()]++
		kinds[c.Kind()]++
	}

	type ranked struct {
		idx   int
		score float64
	}
	rankedMoves := make([]ranked, 0, len(candidates))
	for _, idx := range candidates {
		c := p.hands[sideAI][idx]
		score := 0.0
		if c.Culture() == p.faceUp.Culture() {
			score += 15
		}
		if c.Kind() == p.faceUp.Kind() {
			score += 12
		}
		if cultures[c.Culture()] == 1 {
			score += 8
		}
		if kinds[c.Kind()] == 1 {
			score += 6
		}
		if len(p.hands[sideAI]) <= 3 {
			score += 10
		}
		rankedMoves = append(rankedMoves, ranked{idx: idx, score: score})
	}
	sort.SliceStable(rankedMoves, func(i, j int) bool {
		return rankedMoves[i].score > rankedMoves[j].score
	})

	keep := int(math.Ceil(float64(len(candidates)) * 0.6))
	if keep < 2 {
		keep = 2
	}
	out := make([]int, keep)
	for i := 0; i < keep; i++ {
		out[i] = rankedMoves[i].idx
	}
	return out
}

// boundaryPrune caps the candidate set when the clock is running out.
// Endgame hands and tiny sets always search in full.
func boundaryPrune(p *position, candidates []int, elapsed time.Duration) []int {
	if len(p.hands[sideAI]) <= 2 || len(candidates) <= 2 {
		return candidates
	}
	if elapsed > 800*time.Millisecond && len(candidates) > 3 {
		return candidates[:3]
	}
	return candidates
}

// adjustDepth tunes the nominal search depth to the situation: deepen in
// the endgame, back off when the budget is half spent.
func adjustDepth(p *position, depth int, elapsed time.Duration) int {
	if len(p.hands[sideAI]) <= 3 || len(p.hands[sideOpp]) <= 3 {
		depth++
		if depth > 5 {
			depth = 5
		}
	}
	if elapsed > 500*time.Millisecond {
		depth--
		if depth < 2 {
			depth = 2
		}
	}
	return depth
}
