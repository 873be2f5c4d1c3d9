// Package persona scores job postings against a fixed set of résumé variants.
package persona

import "strings"

const (
	titleWeight       = 3
	descriptionWeight = 1
)

// Persona is one résumé variant with the keyword profile used for scoring.
// The set is reference data: loaded once, immutable afterwards.
type Persona struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
	Weight   int      `mapstructure:"weight"`
	// Summary is the experience blurb injected into the letter prompt.
	Summary string `mapstructure:"summary"`
}

// Selector picks the best-matching persona for a job. The declared order of
// the persona list breaks score ties, making selection reproducible.
type Selector struct {
	personas []Persona
	fallback Persona
}

// NewSelector builds a selector over an ordered persona list. The default
// persona is returned when no keyword matches at all; when defaultName does
// not name a list entry the first persona is the default.
func NewSelector(personas []Persona, defaultName string) *Selector {
	owned := make([]Persona, len(personas))
	copy(owned, personas)

	for i := range owned {
		if owned[i].Weight <= 0 {
			owned[i].Weight = 1
		}
	}

	fallback := Persona{}
	if len(owned) > 0 {
		fallback = owned[0]
	}
	for _, p := range owned {
		if p.Name == defaultName {
			fallback = p
			break
		}
	}

	return &Selector{personas: owned, fallback: fallback}
}

// Personas returns the configured persona list in declared order.
func (s *Selector) Personas() []Persona {
	out := make([]Persona, len(s.personas))
	copy(out, s.personas)
	return out
}

// Default returns the fallback persona.
func (s *Selector) Default() Persona {
	return s.fallback
}

// Select scores every persona against the job title and description and
// returns the best match. Pure and deterministic: no randomness, no external
// calls, no failure mode. A maximum score of zero yields the default persona.
func (s *Selector) Select(title, description string) Persona {
	title = strings.ToLower(title)
	description = strings.ToLower(description)

	best := s.fallback
	bestScore := 0

	for _, p := range s.personas {
		score := p.score(title, description)
		// Strict inequality keeps the earliest declared persona on ties.
		if score > bestScore {
			best = p
			bestScore = score
		}
	}

	return best
}

// Score exposes the raw score of one persona against a job.
func Score(p Persona, title, description string) int {
	return p.score(strings.ToLower(title), strings.ToLower(description))
}

func (p Persona) score(lowerTitle, lowerDescription string) int {
	hits := 0
	for _, kw := range p.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lowerTitle, kw) {
			hits += titleWeight
		}
		if strings.Contains(lowerDescription, kw) {
			hits += descriptionWeight
		}
	}

	weight := p.Weight
	if weight <= 0 {
		weight = 1
	}

	return weight * hits
}
