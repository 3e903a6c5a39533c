package model

// Profile is the canonical correlation profile: the single unwrapped record
// every downstream component reads. All shape ambiguity in the raw correlation
// document (usernames as mapping vs. sequence, dual interest keys, the three
// snapchat locations) is resolved by the normalizer before a Profile exists,
// so consumers never branch on shape. A Profile is a read-only snapshot —
// projectors and report builders must not mutate it.
type Profile struct {
	Identifier  string `json:"identifier,omitempty"`
	Name        string `json:"name,omitempty"`
	ProfileType string `json:"profile_type,omitempty"`
	About       string `json:"about,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"` // primary_location, falling back to location

	Usernames    []Username        `json:"usernames,omitempty"`
	Emails       []string          `json:"emails,omitempty"`
	Repositories []Repository      `json:"repositories,omitempty"`
	Posts        []Post            `json:"posts,omitempty"`
	Interests    []string          `json:"interests,omitempty"`
	Timelines    []TimelineEntry   `json:"key_timelines,omitempty"`
	Connections  []Connection      `json:"relationship_graph,omitempty"`
	DirectEdges  []DirectEdge      `json:"direct_edges,omitempty"`
	Anomalies    []string          `json:"behavioral_anomalies,omitempty"`
	Activity     string            `json:"activity_patterns,omitempty"`
	Links        []Link            `json:"links,omitempty"`
	Snapchat     []SnapchatProfile `json:"snapchat_profiles,omitempty"`

	Compromised bool   `json:"compromised"`
	Summary     string `json:"summary,omitempty"`
	LLMAnalysis string `json:"llm_analysis,omitempty"`
}

// DefaultSubject is the sentinel used when neither name nor identifier resolves.
const DefaultSubject = "User"

// Subject returns the human-readable subject key for the profile.
func (p *Profile) Subject() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Identifier != "" {
		return p.Identifier
	}
	return DefaultSubject
}

// Username is one resolved platform handle. Platform is "various" when the
// source document supplied a bare sequence of handles with no platform keys.
type Username struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
	URL      string `json:"url,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Repository is one public code repository attributed to the subject.
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	URL         string `json:"url,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Post is one collected social post or article.
type Post struct {
	Platform string         `json:"platform,omitempty"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content,omitempty"`
	Date     string         `json:"date,omitempty"`
	URL      string         `json:"url,omitempty"`
	Metrics  map[string]any `json:"metrics,omitempty"`
}

// TimelineEntry is one "<date>: <event>" milestone. Raw preserves the source
// string verbatim; Date is everything before the first ": " separator.
type TimelineEntry struct {
	Date  string `json:"date"`
	Event string `json:"event"`
	Raw   string `json:"raw"`
}

// Connection is one auxiliary relationship-graph entry naming another account.
type Connection struct {
	Name     string `json:"username"`
	Platform string `json:"platform,omitempty"`
	Type     string `json:"type,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DirectEdge is a relationship-graph entry already shaped as a graph edge
// triple; the projector passes it straight into the edge set.
type DirectEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// Link is one platform-name → profile-URL pair. Links decode in platform
// order (sorted) so projections stay deterministic.
type Link struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SnapchatProfile is a platform-specific nested profile. Source records which
// of the three recognized document locations it came from so graph node ids
// never collide across locations.
type SnapchatProfile struct {
	Source     string   `json:"source"` // "snapchat_profiles", "snapchat", "platform_data"
	Username   string   `json:"username,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Verified   bool     `json:"verified,omitempty"`
	Followers  int      `json:"follower_count,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// Counts are the collection sizes the risk scorer and report metadata use.
// Usernames is counted after flattening mapping-or-sequence input to handles.
type Counts struct {
	Emails      int `json:"emails"`
	Usernames   int `json:"usernames"`
	Posts       int `json:"posts"`
	Repos       int `json:"repos"`
	TotalStars  int `json:"total_stars"`
	TotalForks  int `json:"total_forks"`
	Connections int `json:"connections"`
}

// CountsOf computes Counts from a canonical profile.
func CountsOf(p *Profile) Counts {
	if p == nil {
		return Counts{}
	}
	c := Counts{
		Emails:      len(p.Emails),
		Usernames:   len(p.Usernames),
		Posts:       len(p.Posts),
		Repos:       len(p.Repositories),
		Connections: len(p.Connections),
	}
	for _, r := range p.Repositories {
		c.TotalStars += r.Stars
		c.TotalForks += r.Forks
	}
	return c
}
