// Package risk computes the bounded risk assessment and the narrative
// summary strings the dashboard and department reports render.
package risk

import (
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Scorer derives a risk level from weighted profile signals. Scoring is
// additive and transparent: every point carries a human-readable clause that
// ends up in the risk reason.
type Scorer struct {
	terms TermSet
}

// NewScorer creates a scorer with the default term heuristics.
func NewScorer() *Scorer {
	return &Scorer{terms: DefaultTerms()}
}

// NewScorerWithTerms creates a scorer with a custom term set.
func NewScorerWithTerms(terms TermSet) *Scorer {
	return &Scorer{terms: terms}
}

// Derive computes the risk level and reason for a profile. Signals are
// checked in a fixed order; the reason is the space-joined concatenation of
// the clauses for every signal that fired, empty when none did.
//
// Signal weights: compromised +3, breach-service mention +2,
// compromise-service mention +2, any emails +1, reused handles +1,
// developer footprint (>3 repos) +1, high social volume (>20 posts) +1.
// Level: score >= 6 Critical, >= 4 High, >= 2 Moderate, else Low.
func (s *Scorer) Derive(p *model.Profile, counts model.Counts) model.Risk {
	score := 0
	var reasons []string

	fire := func(points int, clause string) {
		score += points
		reasons = append(reasons, clause)
	}

	if p != nil && p.Compromised {
		fire(3, "Account compromise detected.")
	}
	summary := ""
	if p != nil {
		summary = p.Summary
	}
	if s.terms.MentionsBreach(summary) {
		fire(2, "Breach directory records referenced in summary.")
	}
	if s.terms.MentionsCompromise(summary) {
		fire(2, "Compromise-check service flagged this identity.")
	}
	if counts.Emails > 0 {
		fire(1, "Email addresses exposed.")
	}
	if counts.Usernames > 1 {
		fire(1, "Handles reused across platforms.")
	}
	if counts.Repos > 3 {
		fire(1, "Significant developer footprint.")
	}
	if counts.Posts > 20 {
		fire(1, "High social posting volume.")
	}

	return model.Risk{Level: levelFor(score), Reason: strings.Join(reasons, " ")}
}

// Terms exposes the scorer's term set so report builders share one ruleset.
func (s *Scorer) Terms() TermSet {
	return s.terms
}

func levelFor(score int) model.RiskLevel {
	switch {
	case score >= 6:
		return model.RiskCritical
	case score >= 4:
		return model.RiskHigh
	case score >= 2:
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}
