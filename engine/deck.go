package engine

// Catalog returns the fixed 75-card set in packed order. The returned slice
// is freshly allocated; callers may permute it freely.
func Catalog() []Card {
	cards := make([]Card, CatalogSize)
	for i := range cards {
		cards[i] = Card(i)
	}
	return cards
}

// IsPlayable reports whether card may be played onto faceUp. An absent
// face-up card (first move) accepts anything; otherwise the card must match
// the face-up card's culture or kind.
func IsPlayable(card, faceUp Card) bool {
	if faceUp == EmptyCard {
		return true
	}
	return card.Culture() == faceUp.Culture() || card.Kind() == faceUp.Kind()
}

// PlayableSubset filters hand down to the cards playable onto faceUp.
func PlayableSubset(hand []Card, faceUp Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if IsPlayable(c, faceUp) {
			out = append(out, c)
		}
	}
	return out
}

// Playable returns the given side's currently playable cards.
func (g *GameState) Playable(side Side) []Card {
	return PlayableSubset(g.handSlice(side), g.FaceUp)
}

// PlayableCount returns the number of cards side could legally play.
// Zero allocation.
func (g *GameState) PlayableCount(side Side) int {
	h := &g.Hands[side]
	n := 0
	for i := uint8(0); i < h.Len; i++ {
		if IsPlayable(h.Cards[i], g.FaceUp) {
			n++
		}
	}
	return n
}

// IsTerminal returns true when either hand is empty.
func (g *GameState) IsTerminal() bool {
	return g.Hands[SideHuman].Len == 0 || g.Hands[SideAI].Len == 0
}

// TerminalWinner returns the side whose hand is empty, or SideNone when the
// game is still live.
func (g *GameState) TerminalWinner() Side {
	if g.Hands[SideHuman].Len == 0 {
		return SideHuman
	}
	if g.Hands[SideAI].Len == 0 {
		return SideAI
	}
	return SideNone
}
