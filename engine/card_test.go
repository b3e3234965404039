package engine

import "testing"

func TestCatalogUniqueAndValid(t *testing.T) {
	cards := Catalog()
	if len(cards) != CatalogSize {
		t.Fatalf("catalog size = %d, want %d", len(cards), CatalogSize)
	}
	seen := map[Card]bool{}
	names := map[string]bool{}
	for _, c := range cards {
		if !c.Valid() {
			t.Fatalf("invalid card %d in catalog", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %d in catalog", c)
		}
		seen[c] = true
		if c.Name() == "" {
			t.Fatalf("card %s has no name", c.ID())
		}
		if names[c.Name()] {
			t.Fatalf("duplicate card name %q", c.Name())
		}
		names[c.Name()] = true
	}
}

func TestCardPacking(t *testing.T) {
	for culture := uint8(0); culture < NumCultures; culture++ {
		for kind := uint8(0); kind < NumKinds; kind++ {
			for ord := uint8(0); ord < CardsPerGroup; ord++ {
				c := NewCard(culture, kind, ord)
				if c.Culture() != culture || c.Kind() != kind || c.Ordinal() != ord {
					t.Fatalf("card %d round-trip: got (%d,%d,%d), want (%d,%d,%d)",
						c, c.Culture(), c.Kind(), c.Ordinal(), culture, kind, ord)
				}
			}
		}
	}
}

func TestCardIDRoundTrip(t *testing.T) {
	for _, c := range Catalog() {
		parsed, err := ParseCardID(c.ID())
		if err != nil {
			t.Fatalf("parse %q: %v", c.ID(), err)
		}
		if parsed != c {
			t.Fatalf("parse %q = %d, want %d", c.ID(), parsed, c)
		}
	}
	for _, bad := range []string{"", "card_", "card_0", "card_76", "deck_1", "card_x"} {
		if _, err := ParseCardID(bad); err == nil {
			t.Fatalf("parse %q: expected error", bad)
		}
	}
}

func TestIsPlayable(t *testing.T) {
	faceUp := NewCard(CultureFuzhou, KindCharacter, 0)

	cases := []struct {
		name string
		card Card
		want bool
	}{
		{"same culture different kind", NewCard(CultureFuzhou, KindQuote, 2), true},
		{"same kind different culture", NewCard(CulturePutian, KindCharacter, 4), true},
		{"same culture same kind", NewCard(CultureFuzhou, KindCharacter, 3), true},
		{"no match", NewCard(CultureLongyan, KindLocation, 1), false},
	}
	for _, tc := range cases {
		if got := IsPlayable(tc.card, faceUp); got != tc.want {
			t.Errorf("%s: IsPlayable(%s, %s) = %v, want %v",
				tc.name, tc.card.ID(), faceUp.ID(), got, tc.want)
		}
	}

	if !IsPlayable(NewCard(CultureLongyan, KindLocation, 1), EmptyCard) {
		t.Errorf("any card should be playable on an empty face-up slot")
	}
}
