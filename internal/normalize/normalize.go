package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Unwrap resolves the inconsistent nesting of an upstream correlation payload
// (`result`, `result.result`, `result.profile`) into the candidate profile
// record. Exactly one level of secondary unwrapping is performed; deeper
// nesting is left in place. Returns nil when no candidate is a non-null
// object, and never returns an error — absence of expected fields is
// tolerated everywhere downstream.
func Unwrap(doc any) map[string]any {
	m, ok := asMap(doc)
	if !ok {
		return nil
	}

	candidate := m
	if r, ok := asMap(m["result"]); ok {
		candidate = r
	} else if p, ok := asMap(m["profile"]); ok {
		candidate = p
	}

	if r, ok := asMap(candidate["result"]); ok {
		return r
	}
	if p, ok := asMap(candidate["profile"]); ok {
		return p
	}
	return candidate
}

// Decode unwraps a correlation document and resolves every ambiguous shape
// into the canonical profile. The second return is false when the document
// does not contain an object-valued candidate at any recognized location.
func Decode(doc any) (*model.Profile, bool) {
	raw := Unwrap(doc)
	if raw == nil {
		return nil, false
	}

	p := &model.Profile{
		Identifier:  str(raw["identifier"]),
		Name:        str(raw["name"]),
		ProfileType: str(raw["profile_type"]),
		About:       str(raw["about"]),
		Bio:         str(raw["bio"]),
		Summary:     str(raw["summary"]),
		LLMAnalysis: str(raw["llm_analysis"]),
		Compromised: boolVal(raw["compromised"]),
	}

	p.Location = str(raw["primary_location"])
	if p.Location == "" {
		p.Location = str(raw["location"])
	}

	p.Usernames = decodeUsernames(raw["usernames"])
	p.Emails = stringList(raw["emails"])
	p.Repositories = decodeRepositories(raw["repositories"])
	p.Posts = decodePosts(raw["posts"])

	p.Interests = stringList(raw["possible_interests"])
	if len(p.Interests) == 0 {
		p.Interests = stringList(raw["interests"])
	}

	timelines := stringList(raw["key_timelines"])
	if len(timelines) == 0 {
		timelines = stringList(raw["timelines"])
	}
	for _, entry := range timelines {
		p.Timelines = append(p.Timelines, SplitTimeline(entry))
	}

	p.Connections, p.DirectEdges = decodeRelationships(raw["relationship_graph"])
	p.Anomalies = stringList(raw["behavioral_anomalies"])

	if v, ok := raw["activity_patterns"]; ok && v != nil {
		p.Activity = stringify(v)
	}

	p.Links = decodeLinks(raw["links"])
	p.Snapchat = decodeSnapchat(raw)

	return p, true
}

// SplitTimeline splits a "<date>: <event>" string on its first ": "
// separator. Entries without a separator keep the whole string as the date,
// matching how the source data labels undated milestones.
func SplitTimeline(entry string) model.TimelineEntry {
	t := model.TimelineEntry{Raw: entry}
	if idx := strings.Index(entry, ": "); idx >= 0 {
		t.Date = entry[:idx]
		t.Event = entry[idx+2:]
	} else {
		t.Date = entry
	}
	return t
}

// decodeUsernames accepts both recognized shapes: a platform→handle mapping
// (values either bare strings or {handle, url} objects) or a flat sequence of
// handles. Mapping keys are sorted so the canonical order is stable.
func decodeUsernames(v any) []model.Username {
	if m, ok := asMap(v); ok {
		platforms := make([]string, 0, len(m))
		for platform := range m {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)

		var out []model.Username
		for _, platform := range platforms {
			entry := m[platform]
			if data, ok := asMap(entry); ok {
				handle := str(data["handle"])
				if handle == "" {
					handle = str(data["username"])
				}
				if handle == "" {
					continue
				}
				out = append(out, model.Username{
					Platform: platform,
					Handle:   handle,
					URL:      str(data["url"]),
					Bio:      str(data["bio"]),
				})
			} else if handle := str(entry); handle != "" {
				out = append(out, model.Username{Platform: platform, Handle: handle})
			}
		}
		return out
	}

	var out []model.Username
	for _, handle := range stringList(v) {
		out = append(out, model.Username{Platform: "various", Handle: handle})
	}
	return out
}

func decodeRepositories(v any) []model.Repository {
	var out []model.Repository
	for _, item := range asSlice(v) {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		repo := model.Repository{
			Name:        str(m["name"]),
			Description: str(m["description"]),
			URL:         str(m["url"]),
			Language:    str(m["language"]),
			Stars:       intVal(m["stars"]),
			Forks:       intVal(m["forks"]),
		}
		if repo.Stars == 0 {
			repo.Stars = intVal(m["stargazers_count"])
		}
		if repo.Forks == 0 {
			repo.Forks = intVal(m["forks_count"])
		}
		out = append(out, repo)
	}
	return out
}

func decodePosts(v any) []model.Post {
	var out []model.Post
	for _, item := range asSlice(v) {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		post := model.Post{
			Platform: str(m["platform"]),
			Title:    str(m["title"]),
			Content:  str(m["content"]),
			URL:      str(m["url"]),
			Date:     str(m["date"]),
		}
		if post.Date == "" {
			post.Date = str(m["created_at"])
		}
		if metrics, ok := asMap(m["metrics"]); ok {
			post.Metrics = metrics
		}
		out = append(out, post)
	}
	return out
}

// decodeRelationships splits relationship_graph entries into connection
// records and ready-made edge triples. An entry with both source and target
// is an edge; everything else names a connected account. Missing platform
// and type default to "General" / "connected" here so downstream code never
// re-checks.
func decodeRelationships(v any) ([]model.Connection, []model.DirectEdge) {
	var conns []model.Connection
	var edges []model.DirectEdge
	for _, item := range asSlice(v) {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		source, target := str(m["source"]), str(m["target"])
		if source != "" && target != "" {
			edges = append(edges, model.DirectEdge{
				Source:       source,
				Target:       target,
				Relationship: str(m["relationship"]),
			})
			continue
		}

		name := str(m["username"])
		if name == "" {
			name = str(m["handle"])
		}
		if name == "" {
			name = str(m["name"])
		}
		conn := model.Connection{
			Name:     name,
			Platform: str(m["platform"]),
			Type:     str(m["type"]),
			URL:      str(m["url"]),
		}
		if conn.Platform == "" {
			conn.Platform = "General"
		}
		if conn.Type == "" {
			conn.Type = "connected"
		}
		conns = append(conns, conn)
	}
	return conns, edges
}

func decodeLinks(v any) []model.Link {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	platforms := make([]string, 0, len(m))
	for platform := range m {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	var out []model.Link
	for _, platform := range platforms {
		if url := str(m[platform]); url != "" {
			out = append(out, model.Link{Platform: platform, URL: url})
		}
	}
	return out
}

// decodeSnapchat checks the three alternate document locations for Snapchat
// data. Each location tags its profiles with a distinct Source so graph ids
// never collide across locations.
func decodeSnapchat(raw map[string]any) []model.SnapchatProfile {
	var out []model.SnapchatProfile

	for _, item := range asSlice(raw["snapchat_profiles"]) {
		if m, ok := asMap(item); ok {
			out = append(out, snapchatProfile(m, "snapchat_profiles"))
		}
	}
	if m, ok := asMap(raw["snapchat"]); ok {
		out = append(out, snapchatProfile(m, "snapchat"))
	}
	if pd, ok := asMap(raw["platform_data"]); ok {
		if m, ok := asMap(pd["snapchat"]); ok {
			out = append(out, snapchatProfile(m, "platform_data"))
		}
	}
	return out
}

func snapchatProfile(m map[string]any, source string) model.SnapchatProfile {
	p := model.SnapchatProfile{
		Source:    source,
		Username:  str(m["username"]),
		Bio:       str(m["bio"]),
		Verified:  boolVal(m["verified"]),
		Followers: intVal(m["follower_count"]),
	}
	if p.Followers == 0 {
		p.Followers = intVal(m["followers"])
	}
	for _, h := range asSlice(m["highlights"]) {
		if s := stringify(h); s != "" {
			p.Highlights = append(p.Highlights, s)
		}
	}
	return p
}

// ---- tolerant value helpers ----

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

func asSlice(v any) []any {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return s
}

func str(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringify renders a scalar for display. Maps and slices are not rendered;
// the projector and reports only stringify scalar-ish fields.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func stringList(v any) []string {
	var out []string
	for _, item := range asSlice(v) {
		if s := stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intVal(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func boolVal(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
