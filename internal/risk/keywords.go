package risk

import "strings"

// TermSet holds the keyword heuristics used for weak risk signals and
// malware artifact detection. The matching is explicitly approximate
// (case-insensitive substring), so the lists are kept pluggable: swap the
// set to change detection rules without touching scoring or report assembly.
type TermSet struct {
	// Breach terms mark summaries that mention a breach-lookup service.
	Breach []string
	// Compromise terms mark summaries that mention a compromise-check service.
	Compromise []string
	// Artifacts mark post text that suggests malware ecosystem relevance.
	Artifacts []string
}

// DefaultTerms returns the stock term lists, named after the services and
// keyword families the upstream collectors feed into summaries.
func DefaultTerms() TermSet {
	return TermSet{
		Breach:     []string{"breachdirectory", "breach directory"},
		Compromise: []string{"hudsonrock", "hudson rock"},
		Artifacts:  []string{"stealer", "crack", "keygen", "payload", "dropper", "loader"},
	}
}

// MentionsBreach reports whether text names a breach-lookup service.
func (t TermSet) MentionsBreach(text string) bool {
	return containsAny(text, t.Breach)
}

// MentionsCompromise reports whether text names a compromise-check service.
func (t TermSet) MentionsCompromise(text string) bool {
	return containsAny(text, t.Compromise)
}

// SuspiciousArtifact reports whether post text matches the malware
// artifact keyword heuristics.
func (t TermSet) SuspiciousArtifact(text string) bool {
	return containsAny(text, t.Artifacts)
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
