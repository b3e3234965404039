package agent

import "github.com/Frisk239/minpaixinyu-new/engine"

// Evaluation weights. Positive scores favor the AI side.
const (
	weightHandDiff     = 15.0
	weightPenaltyDiff  = 10.0
	weightHandQuality  = 3.0
	weightPlayableDiff = 5.0
	weightCulture      = 2.0

	bonusAISingleCard  = 20.0
	malusOppSingleCard = 25.0
)

// evaluate scores a position from the AI's perspective. Terminal positions
// dominate every heuristic term.
func evaluate(p *position) float64 {
	if len(p.hands[sideAI]) == 0 {
		return 10000
	}
	if len(p.hands[sideOpp]) == 0 {
		return -10000
	}

	score := float64(len(p.hands[sideOpp])-len(p.hands[sideAI])) * weightHandDiff
	score += float64(p.penalties[sideOpp]-p.penalties[sideAI]) * weightPenaltyDiff
	score += (handQuality(p.hands[sideAI]) - handQuality(p.hands[sideOpp])) * weightHandQuality
	score += float64(playableCount(p.hands[sideAI], p.faceUp)-playableCount(p.hands[sideOpp], p.faceUp)) * weightPlayableDiff

	if len(p.hands[sideAI]) == 1 {
		score += bonusAISingleCard
	}
	if len(p.hands[sideOpp]) == 1 {
		score -= malusOppSingleCard
	}

	score += cultureControl(p) * weightCulture
	return score
}

// handQuality measures how flexible a hand is: culture spread, the thinnest
// kind, and per-card strategic value, normalized by hand size.
func handQuality(hand []engine.Card) float64 {
	if len(hand) == 0 {
		return 0
	}
	var cultures [engine.NumCultures]int
	var kinds [engine.NumKinds]int
	for _, c := range hand {
		cultures[c.Culture()]++
		kinds[c.Kind()]++
	}

	distinctCultures := 0
	for _, n := range cultures {
		if n > 0 {
			distinctCultures++
		}
	}
	minKind := len(hand)
	for _, n := range kinds {
		if n < minKind {
			minKind = n
		}
	}

	total := float64(distinctCultures)*3 + float64(minKind)*2
	for _, c := range hand {
		total += strategicValue(c, cultures[c.Culture()], kinds[c.Kind()])
	}
	return total / float64(len(hand))
}

// strategicValue prices a single card. Last cards of a culture or kind are
// worth holding; characters chain better than locations and quotes.
func strategicValue(c engine.Card, cultureCount, kindCount int) float64 {
	v := 1.0
	if cultureCount == 1 {
		v += 3
	}
	if kindCount == 1 {
		v += 2
	}
	switch c.Kind() {
	case engine.KindCharacter:
		v += 1.5
	case engine.KindLocation:
		v += 1.2
	default:
		v += 1.0
	}
	return v
}

// cultureControl sums per-culture dominance: +2 where the AI holds more
// cards of a culture than the opponent, -2 where it holds fewer.
func cultureControl(p *position) float64 {
	var ai, opp [engine.NumCultures]int
	for _, c := range p.hands[sideAI] {
		ai[c.Culture()]++
	}
	for _, c := range p.hands[sideOpp] {
		opp[c.Culture()]++
	}
	var control float64
	for i := 0; i < engine.NumCultures; i++ {
		switch {
		case ai[i] > opp[i]:
			control += 2
		case ai[i] < opp[i]:
			control -= 2
		}
	}
	return control
}

func playableCount(hand []engine.Card, faceUp engine.Card) int {
	n := 0
	for _, c := range hand {
		if engine.IsPlayable(c, faceUp) {
			n++
		}
	}
	return n
}
