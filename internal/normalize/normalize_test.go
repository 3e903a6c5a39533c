package normalize

import (
	"encoding/json"
	"testing"
)

func parseJSON(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestUnwrap_PrefersResult(t *testing.T) {
	doc := parseJSON(t, `{"result": {"name": "alice"}, "profile": {"name": "bob"}, "name": "carol"}`)

	raw := Unwrap(doc)
	if raw == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if raw["name"] != "alice" {
		t.Errorf("expected result wrapper to win, got name %v", raw["name"])
	}
}

func TestUnwrap_FallsBackToProfile(t *testing.T) {
	doc := parseJSON(t, `{"profile": {"name": "bob"}, "name": "carol"}`)

	raw := Unwrap(doc)
	if raw["name"] != "bob" {
		t.Errorf("expected profile wrapper, got name %v", raw["name"])
	}
}

func TestUnwrap_UsesDocumentItself(t *testing.T) {
	doc := parseJSON(t, `{"name": "carol"}`)

	raw := Unwrap(doc)
	if raw["name"] != "carol" {
		t.Errorf("expected the document itself, got name %v", raw["name"])
	}
}

func TestUnwrap_SecondaryLevel(t *testing.T) {
	doc := parseJSON(t, `{"result": {"result": {"name": "deep"}}}`)

	raw := Unwrap(doc)
	if raw["name"] != "deep" {
		t.Errorf("expected one secondary unwrap, got name %v", raw["name"])
	}
}

func TestUnwrap_SecondaryUnwrapStopsAtOneLevel(t *testing.T) {
	doc := parseJSON(t, `{"result": {"result": {"result": {"name": "too deep"}}}}`)

	raw := Unwrap(doc)
	// The third level stays wrapped: the candidate still has a "result" key.
	if _, ok := raw["result"]; !ok {
		t.Error("expected the third nesting level to remain in place")
	}
	if _, ok := raw["name"]; ok {
		t.Error("unwrapping went deeper than one secondary level")
	}
}

func TestUnwrap_NonObjectInputs(t *testing.T) {
	for _, doc := range []any{nil, "text", 42.0, []any{1, 2}} {
		if raw := Unwrap(doc); raw != nil {
			t.Errorf("Unwrap(%v) = %v, want nil", doc, raw)
		}
	}
}

func TestUnwrap_NullResultFallsThrough(t *testing.T) {
	doc := parseJSON(t, `{"result": null, "name": "carol"}`)

	raw := Unwrap(doc)
	if raw["name"] != "carol" {
		t.Errorf("null result should not shadow the document, got %v", raw)
	}
}

func TestDecode_FailsWithoutObjectCandidate(t *testing.T) {
	if _, ok := Decode("just a string"); ok {
		t.Error("expected decode failure for a non-object document")
	}
	if _, ok := Decode(nil); ok {
		t.Error("expected decode failure for nil")
	}
}

func TestDecode_UsernameMappingSortedByPlatform(t *testing.T) {
	doc := parseJSON(t, `{"result": {
		"usernames": {
			"twitter": "jack",
			"github": {"handle": "torvalds", "url": "https://github.com/torvalds"}
		}
	}}`)

	p, ok := Decode(doc)
	if !ok {
		t.Fatal("decode failed")
	}
	if len(p.Usernames) != 2 {
		t.Fatalf("expected 2 usernames, got %d", len(p.Usernames))
	}
	if p.Usernames[0].Platform != "github" || p.Usernames[0].Handle != "torvalds" {
		t.Errorf("expected github/torvalds first, got %+v", p.Usernames[0])
	}
	if p.Usernames[0].URL != "https://github.com/torvalds" {
		t.Errorf("expected URL preserved, got %q", p.Usernames[0].URL)
	}
	if p.Usernames[1].Platform != "twitter" || p.Usernames[1].Handle != "jack" {
		t.Errorf("expected twitter/jack second, got %+v", p.Usernames[1])
	}
}

func TestDecode_UsernameSequenceBecomesVarious(t *testing.T) {
	doc := parseJSON(t, `{"usernames": ["neo", "trinity"]}`)

	p, ok := Decode(doc)
	if !ok {
		t.Fatal("decode failed")
	}
	if len(p.Usernames) != 2 {
		t.Fatalf("expected 2 usernames, got %d", len(p.Usernames))
	}
	for _, u := range p.Usernames {
		if u.Platform != "various" {
			t.Errorf("expected platform various, got %q", u.Platform)
		}
	}
}

func TestDecode_UsernameEntryWithoutHandleSkipped(t *testing.T) {
	doc := parseJSON(t, `{"usernames": {"github": {"url": "https://github.com/x"}}}`)

	p, _ := Decode(doc)
	if len(p.Usernames) != 0 {
		t.Errorf("expected handle-less entry skipped, got %+v", p.Usernames)
	}
}

func TestDecode_RepositoryCountFallbacks(t *testing.T) {
	doc := parseJSON(t, `{"repositories": [
		{"name": "linux", "stargazers_count": 150000, "forks_count": 50000},
		{"name": "tiny", "stars": 3, "forks": 1}
	]}`)

	p, _ := Decode(doc)
	if len(p.Repositories) != 2 {
		t.Fatalf("expected 2 repositories, got %d", len(p.Repositories))
	}
	if p.Repositories[0].Stars != 150000 || p.Repositories[0].Forks != 50000 {
		t.Errorf("github-style counts not picked up: %+v", p.Repositories[0])
	}
	if p.Repositories[1].Stars != 3 || p.Repositories[1].Forks != 1 {
		t.Errorf("plain counts not picked up: %+v", p.Repositories[1])
	}
}

func TestDecode_PostDateFallback(t *testing.T) {
	doc := parseJSON(t, `{"posts": [{"title": "hello", "created_at": "2023-04-01"}]}`)

	p, _ := Decode(doc)
	if len(p.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(p.Posts))
	}
	if p.Posts[0].Date != "2023-04-01" {
		t.Errorf("expected created_at fallback, got %q", p.Posts[0].Date)
	}
}

func TestDecode_RelationshipsSplitIntoConnectionsAndEdges(t *testing.T) {
	doc := parseJSON(t, `{"relationship_graph": [
		{"username": "friend1"},
		{"username": "friend2", "platform": "GitHub", "type": "follower"},
		{"source": "a", "target": "b", "relationship": "collaborates"}
	]}`)

	p, _ := Decode(doc)
	if len(p.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(p.Connections))
	}
	if p.Connections[0].Platform != "General" || p.Connections[0].Type != "connected" {
		t.Errorf("expected defaults applied, got %+v", p.Connections[0])
	}
	if p.Connections[1].Platform != "GitHub" || p.Connections[1].Type != "follower" {
		t.Errorf("explicit fields overwritten: %+v", p.Connections[1])
	}
	if len(p.DirectEdges) != 1 {
		t.Fatalf("expected 1 direct edge, got %d", len(p.DirectEdges))
	}
	if p.DirectEdges[0].Source != "a" || p.DirectEdges[0].Target != "b" || p.DirectEdges[0].Relationship != "collaborates" {
		t.Errorf("edge fields wrong: %+v", p.DirectEdges[0])
	}
}

func TestDecode_LinksSortedAndEmptySkipped(t *testing.T) {
	doc := parseJSON(t, `{"links": {"twitter": "https://t.co/x", "github": "https://g.co/y", "website": ""}}`)

	p, _ := Decode(doc)
	if len(p.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(p.Links))
	}
	if p.Links[0].Platform != "github" || p.Links[1].Platform != "twitter" {
		t.Errorf("links not sorted by platform: %+v", p.Links)
	}
}

func TestDecode_SnapchatThreeLocations(t *testing.T) {
	doc := parseJSON(t, `{
		"snapchat_profiles": [{"username": "s1", "follower_count": 10}],
		"snapchat": {"username": "s2", "followers": 20},
		"platform_data": {"snapchat": {"username": "s3", "verified": true}}
	}`)

	p, _ := Decode(doc)
	if len(p.Snapchat) != 3 {
		t.Fatalf("expected 3 snapchat profiles, got %d", len(p.Snapchat))
	}
	if p.Snapchat[0].Source != "snapchat_profiles" || p.Snapchat[0].Followers != 10 {
		t.Errorf("first profile wrong: %+v", p.Snapchat[0])
	}
	if p.Snapchat[1].Source != "snapchat" || p.Snapchat[1].Followers != 20 {
		t.Errorf("followers fallback key not used: %+v", p.Snapchat[1])
	}
	if p.Snapchat[2].Source != "platform_data" || !p.Snapchat[2].Verified {
		t.Errorf("third profile wrong: %+v", p.Snapchat[2])
	}
}

func TestDecode_LocationFallback(t *testing.T) {
	doc := parseJSON(t, `{"location": "Helsinki"}`)

	p, _ := Decode(doc)
	if p.Location != "Helsinki" {
		t.Errorf("expected location fallback, got %q", p.Location)
	}

	doc = parseJSON(t, `{"primary_location": "Portland", "location": "Helsinki"}`)
	p, _ = Decode(doc)
	if p.Location != "Portland" {
		t.Errorf("primary_location should win, got %q", p.Location)
	}
}

func TestSplitTimeline(t *testing.T) {
	entry := SplitTimeline("2011-01-25: GitHub account created")
	if entry.Date != "2011-01-25" || entry.Event != "GitHub account created" {
		t.Errorf("split wrong: %+v", entry)
	}
	if entry.Raw != "2011-01-25: GitHub account created" {
		t.Errorf("raw not preserved: %q", entry.Raw)
	}

	undated := SplitTimeline("joined the beta")
	if undated.Date != "joined the beta" || undated.Event != "" {
		t.Errorf("separator-less entry handled wrong: %+v", undated)
	}
}

func TestDecode_ActivityScalarOnly(t *testing.T) {
	doc := parseJSON(t, `{"activity_patterns": "posts nightly"}`)
	p, _ := Decode(doc)
	if p.Activity != "posts nightly" {
		t.Errorf("expected activity string, got %q", p.Activity)
	}

	doc = parseJSON(t, `{"activity_patterns": null}`)
	p, _ = Decode(doc)
	if p.Activity != "" {
		t.Errorf("null activity should be empty, got %q", p.Activity)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	raw := `{"result": {"name": "octocat", "emails": ["a@x.com"], "compromised": true}}`

	p1, ok1 := Decode(parseJSON(t, raw))
	p2, ok2 := Decode(parseJSON(t, raw))
	if !ok1 || !ok2 {
		t.Fatal("decode failed")
	}
	if p1.Name != p2.Name || len(p1.Emails) != len(p2.Emails) || p1.Compromised != p2.Compromised {
		t.Errorf("decoding the same document twice diverged: %+v vs %+v", p1, p2)
	}
}
