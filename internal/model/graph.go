package model

// NodeType drives visual styling (icon/color) in the external graph renderer.
type NodeType string

const (
	NodeUser       NodeType = "user"
	NodeLocation   NodeType = "location"
	NodeUsername   NodeType = "username"
	NodeEmail      NodeType = "email"
	NodeRepository NodeType = "repository"
	NodePost       NodeType = "post"
	NodeInterest   NodeType = "interest"
	NodeTimeline   NodeType = "timeline"
	NodeConnection NodeType = "connection"
	NodeActivity   NodeType = "activity"
	NodeSource     NodeType = "source"
)

// Node is one entity in the projected identity graph. Only the fields
// relevant to the node's type are populated; the rest marshal away.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`

	Platform    string `json:"platform,omitempty"`
	URL         string `json:"url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
	Compromised bool   `json:"compromised,omitempty"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	Forks       int    `json:"forks,omitempty"`
	Language    string `json:"language,omitempty"`
	Date        string `json:"date,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
	Followers   int    `json:"followers,omitempty"`
}

// Edge is a typed relationship between two node ids. Edges are undirected
// for deduplication: only the first relationship recorded between any
// unordered pair of ids survives a projection run.
type Edge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// Graph is the node/edge payload consumed by the force-directed renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// EmptyGraph returns the zero-data graph emitted when normalization fails.
// Both slices are non-nil so the payload marshals as [] rather than null.
func EmptyGraph() *Graph {
	return &Graph{Nodes: []Node{}, Links: []Edge{}}
}
