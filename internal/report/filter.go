package report

import (
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Meaningful reports whether a report item value carries content: non-empty
// after trimming, not the literal "none" (any case), and not the em-dash
// placeholder the UI uses for blank cells.
func Meaningful(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "—" {
		return false
	}
	return !strings.EqualFold(trimmed, "none")
}

// prune filters every section down to its meaningful items and drops
// sections that end up empty. Applied uniformly to all departments.
func prune(sections []model.Section) []model.Section {
	out := []model.Section{}
	for _, section := range sections {
		var kept []model.Item
		for _, item := range section.Items {
			if Meaningful(item.Value) {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			out = append(out, model.Section{Title: section.Title, Items: kept})
		}
	}
	return out
}
