// Package graph projects a canonical correlation profile into the
// deduplicated node/edge payload consumed by the dashboard's force-directed
// renderer.
package graph

import (
	"fmt"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/normalize"
)

// Projector walks a canonical profile and emits entity nodes and typed
// relationship edges in a fixed step order, so the same input document always
// produces the same graph, node for node.
type Projector struct{}

// NewProjector creates a new projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Project normalizes the raw correlation document and builds the graph.
// A document that fails normalization yields an empty (non-nil) graph.
func (pr *Projector) Project(doc any) *model.Graph {
	profile, ok := normalize.Decode(doc)
	if !ok {
		return model.EmptyGraph()
	}
	return pr.ProjectProfile(profile)
}

// ProjectProfile builds the graph from an already-normalized profile.
func (pr *Projector) ProjectProfile(p *model.Profile) *model.Graph {
	if p == nil {
		return model.EmptyGraph()
	}

	b := newBuilder()
	rootID := p.Subject()

	b.addNode(model.Node{
		ID:          rootID,
		Label:       rootID,
		Type:        model.NodeUser,
		Bio:         p.Bio,
		Location:    p.Location,
		Compromised: p.Compromised,
	})

	if p.Location != "" {
		b.addNode(model.Node{
			ID:       "location-primary",
			Label:    p.Location,
			Type:     model.NodeLocation,
			Location: p.Location,
		})
		b.addEdge(rootID, "location-primary", "located at")
	}

	for _, u := range p.Usernames {
		id := "username-" + u.Platform + "-" + u.Handle
		if u.Platform == "various" {
			id = "username-" + u.Handle
		}
		b.addNode(model.Node{
			ID:       id,
			Label:    "@" + u.Handle,
			Type:     model.NodeUsername,
			Platform: u.Platform,
			URL:      u.URL,
			Bio:      u.Bio,
		})
		b.addEdge(rootID, id, "uses on "+u.Platform)
	}

	for _, email := range p.Emails {
		id := "email-" + email
		b.addNode(model.Node{ID: id, Label: email, Type: model.NodeEmail})
		b.addEdge(rootID, id, "email")
	}

	for _, repo := range p.Repositories {
		id := "repo-" + repo.Name
		b.addNode(model.Node{
			ID:          id,
			Label:       repo.Name,
			Type:        model.NodeRepository,
			Description: repo.Description,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			URL:         repo.URL,
			Language:    repo.Language,
		})
		b.addEdge(rootID, id, "owns repository")
	}

	for i, post := range p.Posts {
		id := fmt.Sprintf("post-%d", i)
		label := truncate(firstNonEmpty(post.Title, post.Content), 30)
		if label == "" {
			platform := post.Platform
			if platform == "" {
				platform = "Unknown"
			}
			label = "Post on " + platform
		}
		b.addNode(model.Node{
			ID:       id,
			Label:    label,
			Type:     model.NodePost,
			Platform: post.Platform,
			URL:      post.URL,
			Date:     post.Date,
		})
		b.addEdge(rootID, id, "posted on")
	}

	for i, interest := range p.Interests {
		id := fmt.Sprintf("interest-%d", i)
		b.addNode(model.Node{ID: id, Label: interest, Type: model.NodeInterest})
		b.addEdge(rootID, id, "interested in")
	}

	for i, entry := range p.Timelines {
		if i >= 5 {
			break
		}
		id := fmt.Sprintf("timeline-%d", i)
		b.addNode(model.Node{
			ID:          id,
			Label:       entry.Date,
			Type:        model.NodeTimeline,
			Date:        entry.Date,
			Description: entry.Event,
		})
		b.addEdge(rootID, id, "milestone")
	}

	for i, conn := range p.Connections {
		id := fmt.Sprintf("connection-%d", i)
		label := conn.Name
		if label == "" {
			label = "Unknown"
		}
		b.addNode(model.Node{
			ID:       id,
			Label:    label,
			Type:     model.NodeConnection,
			Platform: conn.Platform,
			URL:      conn.URL,
		})
		b.addEdge(rootID, id, conn.Type)
	}

	// Ready-made edge triples pass straight into the edge set, subject to
	// the same unordered-pair dedup as every other edge.
	for _, e := range p.DirectEdges {
		rel := e.Relationship
		if rel == "" {
			rel = "connected"
		}
		b.addEdge(e.Source, e.Target, rel)
	}

	for i, anomaly := range p.Anomalies {
		if i >= 3 {
			break
		}
		id := fmt.Sprintf("anomaly-%d", i)
		b.addNode(model.Node{
			ID:          id,
			Label:       truncate(anomaly, 30),
			Type:        model.NodeActivity,
			Description: anomaly,
		})
		b.addEdge(rootID, id, "exhibits")
	}

	if p.Activity != "" {
		b.addNode(model.Node{
			ID:          "activity-pattern",
			Label:       truncate(p.Activity, 40),
			Type:        model.NodeActivity,
			Description: p.Activity,
		})
		b.addEdge(rootID, "activity-pattern", "activity pattern")
	}

	for _, link := range p.Links {
		id := "link-" + link.Platform
		b.addNode(model.Node{
			ID:       id,
			Label:    strings.ToUpper(link.Platform),
			Type:     model.NodeSource,
			Platform: link.Platform,
			URL:      link.URL,
		})
		b.addEdge(rootID, id, "profile on "+link.Platform)
	}

	for i, snap := range p.Snapchat {
		id := fmt.Sprintf("snapchat-%s-%d", snap.Source, i)
		label := "Snapchat"
		if snap.Username != "" {
			label = "@" + snap.Username
		}
		b.addNode(model.Node{
			ID:        id,
			Label:     label,
			Type:      model.NodeSource,
			Platform:  "snapchat",
			Bio:       snap.Bio,
			Verified:  snap.Verified,
			Followers: snap.Followers,
		})
		b.addEdge(rootID, id, "profile on snapchat")

		for j, highlight := range snap.Highlights {
			if j >= 5 {
				break
			}
			hid := fmt.Sprintf("%s-highlight-%d", id, j)
			b.addNode(model.Node{
				ID:       hid,
				Label:    truncate(highlight, 30),
				Type:     model.NodePost,
				Platform: "snapchat",
			})
			b.addEdge(id, hid, "shared")
		}
	}

	return &model.Graph{Nodes: b.nodes, Links: b.edges}
}

// builder accumulates nodes and edges with first-writer-wins deduplication.
// Node identity is the id; edge identity is the unordered endpoint pair,
// independent of the relationship label.
type builder struct {
	nodes   []model.Node
	edges   []model.Edge
	nodeIDs map[string]bool
	pairs   map[string]bool
}

func newBuilder() *builder {
	return &builder{
		nodes:   []model.Node{},
		edges:   []model.Edge{},
		nodeIDs: make(map[string]bool),
		pairs:   make(map[string]bool),
	}
}

func (b *builder) addNode(n model.Node) {
	if b.nodeIDs[n.ID] {
		return
	}
	b.nodeIDs[n.ID] = true
	b.nodes = append(b.nodes, n)
}

func (b *builder) addEdge(source, target, relationship string) {
	key := pairKey(source, target)
	if b.pairs[key] {
		return
	}
	b.pairs[key] = true
	b.edges = append(b.edges, model.Edge{Source: source, Target: target, Relationship: relationship})
}

// pairKey builds the sorted-pair key that makes edge dedup direction-blind.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
