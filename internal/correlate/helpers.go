package correlate

import (
	"fmt"
	"sort"
)

// setIfEmpty writes a scalar field only when the document does not have a
// value for it yet. The first platform to supply a field wins.
func (m *merger) setIfEmpty(key, value string) {
	if value == "" {
		return
	}
	if existing := str(m.doc[key]); existing == "" {
		m.doc[key] = value
	}
}

func (m *merger) setLink(label, url string) {
	if url == "" {
		return
	}
	if _, exists := m.links[label]; !exists {
		m.links[label] = url
	}
}

func mp(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func sl(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

func intVal(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
