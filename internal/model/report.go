package model

// RiskLevel is the badge value dashboards render standalone.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Risk is the bounded risk assessment derived from weighted profile signals.
// Reason concatenates, in signal-check order, the clause for every signal
// that fired; it is empty when none did.
type Risk struct {
	Level  RiskLevel `json:"level"`
	Reason string    `json:"reason"`
}

// Item is one label/value row inside a report section.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled group of report items. Sections are never emitted
// empty: zero meaningful items drops the section from the report.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// ReportMeta is the report envelope metadata passed through to viewers and
// the PDF exporter. GeneratedAt is an ISO-8601 timestamp string.
type ReportMeta struct {
	Department  string   `json:"department"`
	GeneratedAt string   `json:"generated_at"`
	Compromised bool     `json:"compromised"`
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Sources     []string `json:"sources"`
	Mode        string   `json:"mode,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Counts      Counts   `json:"counts"`
}

// Report is the structured department report consumed by the interactive
// viewer and the JSON/PDF exporters.
type Report struct {
	Meta     ReportMeta `json:"meta"`
	Sections []Section  `json:"sections"`
}

// RequestContext accompanies a correlation document into report building and
// is used only for metadata passthrough.
type RequestContext struct {
	Platforms []string `json:"platforms,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Prompt    string   `json:"prompt,omitempty"`
}

// Indicator is one extracted observable (IOC).
type Indicator struct {
	Kind  string `json:"kind"` // email, handle, repository, link, none
	Value string `json:"value"`
}

// IOCSummary samples up to three indicators per kind; Total counts all
// observables in the profile, not just the sampled ones.
type IOCSummary struct {
	Total int         `json:"total"`
	Items []Indicator `json:"items"`
}

// DashboardSummary is the compact projection the dashboard cards consume.
type DashboardSummary struct {
	Identifier string     `json:"identifier"`
	Name       string     `json:"name"`
	Risk       Risk       `json:"risk"`
	Counts     Counts     `json:"counts"`
	Footprint  string     `json:"footprint"`
	Interests  string     `json:"interests"`
	Activity   string     `json:"activity"`
	Timeline   string     `json:"timeline"`
	IOCs       IOCSummary `json:"iocs"`
}
