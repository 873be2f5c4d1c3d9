package persona

import "testing"

func TestSelectPrefersTitleHits(t *testing.T) {
	selector := NewSelector([]Persona{
		{Name: "retail", Keywords: []string{"butik"}},
		{Name: "support", Keywords: []string{"support"}},
	}, "support")

	// One title hit outweighs a description hit three to one.
	got := selector.Select("Butikssäljare till vår butik", "support på deltid")
	if got.Name != "retail" {
		t.Fatalf("expected retail, got %s", got.Name)
	}
}

func TestSelectButikssaljareScoresRetail(t *testing.T) {
	selector := NewSelector(Defaults(), DefaultName)

	title := "Butikssäljare"
	description := "Vi söker en säljare till vår butik. Kassavana är ett plus."

	var retail Persona
	for _, p := range selector.Personas() {
		if p.Name == "retail" {
			retail = p
		}
	}

	if score := Score(retail, title, description); score < 3 {
		t.Fatalf("expected retail score of at least 3, got %d", score)
	}

	if got := selector.Select(title, description); got.Name != "retail" {
		t.Fatalf("expected retail persona, got %s", got.Name)
	}
}

func TestSelectZeroScoreFallsBackToDefault(t *testing.T) {
	selector := NewSelector(Defaults(), DefaultName)

	got := selector.Select("Astronaut", "Bemanning av rymdstationen.")
	if got.Name != DefaultName {
		t.Fatalf("expected default persona %s, got %s", DefaultName, got.Name)
	}
}

func TestSelectTieKeepsDeclaredOrder(t *testing.T) {
	selector := NewSelector([]Persona{
		{Name: "first", Keywords: []string{"alpha"}},
		{Name: "second", Keywords: []string{"alpha"}},
	}, "second")

	got := selector.Select("alpha", "")
	if got.Name != "first" {
		t.Fatalf("expected the earliest declared persona on a tie, got %s", got.Name)
	}
}

func TestSelectWeightMultipliesScore(t *testing.T) {
	selector := NewSelector([]Persona{
		{Name: "light", Keywords: []string{"alpha", "beta"}},
		{Name: "heavy", Keywords: []string{"alpha"}, Weight: 3},
	}, "light")

	// light scores 2 description hits, heavy scores 1*3.
	got := selector.Select("", "alpha beta")
	if got.Name != "heavy" {
		t.Fatalf("expected weighted persona to win, got %s", got.Name)
	}
}

func TestNewSelectorUnknownDefaultUsesFirst(t *testing.T) {
	selector := NewSelector([]Persona{
		{Name: "a", Keywords: []string{"x"}},
		{Name: "b", Keywords: []string{"y"}},
	}, "missing")

	if got := selector.Default(); got.Name != "a" {
		t.Fatalf("expected first persona as fallback, got %s", got.Name)
	}
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	p := Persona{Keywords: []string{"KUNDTJÄNST"}}

	if score := Score(p, "kundtjänst medarbetare", ""); score != titleWeight {
		t.Fatalf("expected a title hit, got score %d", score)
	}
}
