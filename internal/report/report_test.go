package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

func parseJSON(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func sectionByTitle(r *model.Report, title string) (model.Section, bool) {
	for _, s := range r.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return model.Section{}, false
}

func itemByLabel(s model.Section, label string) (model.Item, bool) {
	for _, it := range s.Items {
		if it.Label == label {
			return it, true
		}
	}
	return model.Item{}, false
}

func TestResolveDepartment(t *testing.T) {
	tests := []struct {
		key  string
		want Department
	}{
		{"osint", DeptOSINT},
		{"OSINT", DeptOSINT},
		{"threat-intel", DeptThreatIntel},
		{"Threat Intel", DeptThreatIntel},
		{"threat_intel", DeptThreatIntel},
		{"pentesting", DeptPentest},
		{"malware", DeptMalware},
		{"malware-rev", DeptMalware},
		{"Malware & Rev", DeptMalware},
		{"reverse engineering", DeptMalware},
		{"  pentesting  ", DeptPentest},
		{"", DeptOSINT},
		{"accounting", DeptOSINT},
	}
	for _, tt := range tests {
		if got := ResolveDepartment(tt.key); got != tt.want {
			t.Errorf("ResolveDepartment(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestDepartment_DisplayName(t *testing.T) {
	tests := []struct {
		dept Department
		want string
	}{
		{DeptOSINT, "OSINT"},
		{DeptThreatIntel, "Threat Intelligence"},
		{DeptPentest, "Pentesting"},
		{DeptMalware, "Malware & Reverse Engineering"},
	}
	for _, tt := range tests {
		if got := tt.dept.DisplayName(); got != tt.want {
			t.Errorf("%s.DisplayName() = %q, want %q", tt.dept, got, tt.want)
		}
	}
}

func TestMeaningful(t *testing.T) {
	meaningful := []string{"hello", " trimmed ", "0", "None of them matched"}
	for _, v := range meaningful {
		if !Meaningful(v) {
			t.Errorf("Meaningful(%q) = false, want true", v)
		}
	}
	empty := []string{"", "   ", "none", "None", "NONE", "—", "  —  "}
	for _, v := range empty {
		if Meaningful(v) {
			t.Errorf("Meaningful(%q) = true, want false", v)
		}
	}
}

func TestBuild_EmptyResultDoesNotPanic(t *testing.T) {
	r := NewBuilder().Build("threat-intel", parseJSON(t, `{"result": {}}`), model.RequestContext{})

	if r.Meta.Department != "Threat Intelligence" {
		t.Errorf("Department = %q, want Threat Intelligence", r.Meta.Department)
	}
	if r.Meta.Name != model.DefaultSubject {
		t.Errorf("Name = %q, want %q", r.Meta.Name, model.DefaultSubject)
	}
	// Only items with content survive; the risk section collapses to the
	// assessment sentence and the Low level.
	for _, s := range r.Sections {
		for _, it := range s.Items {
			if !Meaningful(it.Value) {
				t.Errorf("non-meaningful item survived pruning: %+v", it)
			}
		}
	}
}

func TestBuild_UndecodableDocument(t *testing.T) {
	r := NewBuilder().Build("osint", "not an object", model.RequestContext{})
	if r == nil {
		t.Fatal("report must not be nil")
	}
	if r.Meta.Department != "OSINT" {
		t.Errorf("Department = %q", r.Meta.Department)
	}
}

func TestBuild_GeneratedAtIsRFC3339(t *testing.T) {
	r := NewBuilder().Build("osint", parseJSON(t, `{"name": "octocat"}`), model.RequestContext{})
	if _, err := time.Parse(time.RFC3339, r.Meta.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt %q is not RFC3339: %v", r.Meta.GeneratedAt, err)
	}
}

func TestBuild_SourcesFromRequestContext(t *testing.T) {
	doc := parseJSON(t, `{"links": {"github": "https://g", "twitter": "https://t"}}`)

	explicit := NewBuilder().Build("osint", doc, model.RequestContext{Platforms: []string{"github"}})
	if len(explicit.Meta.Sources) != 1 || explicit.Meta.Sources[0] != "github" {
		t.Errorf("explicit platforms not used: %v", explicit.Meta.Sources)
	}

	derived := NewBuilder().Build("osint", doc, model.RequestContext{})
	if len(derived.Meta.Sources) != 2 {
		t.Errorf("expected sources from links, got %v", derived.Meta.Sources)
	}

	empty := NewBuilder().Build("osint", parseJSON(t, `{}`), model.RequestContext{})
	if empty.Meta.Sources == nil {
		t.Error("Sources must be non-nil even when empty")
	}
}

func TestBuild_OSINTSections(t *testing.T) {
	doc := parseJSON(t, `{"result": {
		"name": "octocat",
		"primary_location": "SF",
		"emails": ["a@x.com"],
		"usernames": {"github": "octocat", "twitter": "octo"},
		"links": {"github": "https://github.com/octocat"},
		"possible_interests": ["go", "octopi"],
		"summary": "Cross-platform developer identity",
		"compromised": true
	}}`)

	r := NewBuilder().Build("osint", doc, model.RequestContext{})

	exec, ok := sectionByTitle(r, "Executive Summary")
	if !ok {
		t.Fatal("missing Executive Summary")
	}
	if it, ok := itemByLabel(exec, "Compromise Status"); !ok || it.Value != "Compromised" {
		t.Errorf("Compromise Status wrong: %+v", it)
	}
	if it, ok := itemByLabel(exec, "Risk Level"); !ok || it.Value != string(model.RiskHigh) {
		t.Errorf("Risk Level wrong: %+v", it)
	}
	if it, _ := itemByLabel(exec, "Assessment"); !strings.Contains(it.Value, "HIGH-level exposure across 2 platform(s)") {
		t.Errorf("Assessment sentence wrong: %q", it.Value)
	}

	findings, ok := sectionByTitle(r, "Key Findings")
	if !ok {
		t.Fatal("missing Key Findings")
	}
	if it, _ := itemByLabel(findings, "Identified Interests"); it.Value != "go, octopi" {
		t.Errorf("interests wrong: %q", it.Value)
	}

	actions, ok := sectionByTitle(r, "Priority Actions")
	if !ok {
		t.Fatal("missing Priority Actions")
	}
	if _, ok := itemByLabel(actions, "CRITICAL"); !ok {
		t.Error("compromised profile missing CRITICAL action")
	}
	if _, ok := itemByLabel(actions, "ONGOING"); !ok {
		t.Error("missing ONGOING action")
	}
}

func TestBuild_ThreatIntelIOCs(t *testing.T) {
	doc := parseJSON(t, `{
		"name": "octocat",
		"emails": ["a@x.com", "b@x.com"],
		"usernames": {"github": "octocat"},
		"links": {"github": "https://github.com/octocat"}
	}`)

	r := NewBuilder().Build("threat-intel", doc, model.RequestContext{})

	iocs, ok := sectionByTitle(r, "Key IOCs")
	if !ok {
		t.Fatal("missing Key IOCs section")
	}
	if it, ok := itemByLabel(iocs, "Email Indicators"); !ok || it.Value != "a@x.com; b@x.com" {
		t.Errorf("Email Indicators wrong: %+v", it)
	}
	if it, ok := itemByLabel(iocs, "Total Observables"); !ok || it.Value != "4" {
		t.Errorf("Total Observables wrong: %+v", it)
	}

	monitoring, ok := sectionByTitle(r, "Monitoring & Mitigations")
	if !ok {
		t.Fatal("missing Monitoring section")
	}
	if it, _ := itemByLabel(monitoring, "Watchlist"); !strings.Contains(it.Value, "@octocat") {
		t.Errorf("Watchlist wrong: %q", it.Value)
	}
	if it, _ := itemByLabel(monitoring, "Mitigation"); !strings.Contains(it.Value, "breach corpora") {
		t.Errorf("Mitigation wrong for uncompromised identity: %q", it.Value)
	}
}

func TestBuild_PentestWeaknesses(t *testing.T) {
	doc := parseJSON(t, `{
		"name": "octocat",
		"compromised": true,
		"emails": ["a@x.com"],
		"usernames": {"github": "octocat", "twitter": "octo"},
		"repositories": [{"name": "tool", "language": "Go", "stars": 9}]
	}`)

	r := NewBuilder().Build("pentesting", doc, model.RequestContext{})

	weak, ok := sectionByTitle(r, "Potential Weaknesses")
	if !ok {
		t.Fatal("missing Potential Weaknesses")
	}
	if _, ok := itemByLabel(weak, "Credentials"); !ok {
		t.Error("compromised profile missing Credentials weakness")
	}
	if _, ok := itemByLabel(weak, "Phishing Surface"); !ok {
		t.Error("exposed email missing Phishing Surface weakness")
	}
	if _, ok := itemByLabel(weak, "Handle Reuse"); !ok {
		t.Error("reused handles missing Handle Reuse weakness")
	}

	stack, ok := sectionByTitle(r, "Repositories & Tech Stack")
	if !ok {
		t.Fatal("missing tech stack section")
	}
	if it, _ := itemByLabel(stack, "Languages"); it.Value != "Go" {
		t.Errorf("Languages wrong: %q", it.Value)
	}
}

func TestBuild_MalwareArtifacts(t *testing.T) {
	doc := parseJSON(t, `{
		"name": "octocat",
		"posts": [
			{"title": "released a new stealer config", "platform": "telegram"},
			{"title": "photos from my hike", "platform": "reddit"}
		]
	}`)

	r := NewBuilder().Build("malware", doc, model.RequestContext{})

	artifacts, ok := sectionByTitle(r, "Suspicious Artifacts")
	if !ok {
		t.Fatal("missing Suspicious Artifacts")
	}
	if len(artifacts.Items) != 1 {
		t.Fatalf("expected 1 artifact item, got %d", len(artifacts.Items))
	}
	if artifacts.Items[0].Label != "telegram" {
		t.Errorf("artifact label = %q, want telegram", artifacts.Items[0].Label)
	}

	recs, ok := sectionByTitle(r, "Recommendations")
	if !ok {
		t.Fatal("missing Recommendations")
	}
	if it, _ := itemByLabel(recs, "Triage"); !strings.Contains(it.Value, "1 post(s) matched") {
		t.Errorf("Triage value wrong: %q", it.Value)
	}
}

func TestBuildComprehensive(t *testing.T) {
	doc := parseJSON(t, `{"result": {
		"name": "octocat",
		"profile_type": "developer",
		"primary_location": "SF",
		"emails": ["a@x.com"],
		"usernames": {"github": {"handle": "octocat", "url": "https://github.com/octocat"}},
		"repositories": [{"name": "linux", "stars": 5, "forks": 2, "language": "C"}],
		"summary": "Developer identity",
		"compromised": false
	}}`)

	r := NewBuilder().BuildComprehensive(doc, model.RequestContext{})

	if r.Meta.Department != "Comprehensive" {
		t.Errorf("Department = %q", r.Meta.Department)
	}
	if len(r.Meta.Sources) != 1 || r.Meta.Sources[0] != "github" {
		t.Errorf("sources should derive from usernames: %v", r.Meta.Sources)
	}

	subject, ok := sectionByTitle(r, "Subject Profile")
	if !ok {
		t.Fatal("missing Subject Profile")
	}
	if it, _ := itemByLabel(subject, "Profile Type"); it.Value != "developer" {
		t.Errorf("Profile Type wrong: %q", it.Value)
	}

	footprint, ok := sectionByTitle(r, "Digital Identifiers & Footprint")
	if !ok {
		t.Fatal("missing footprint section")
	}
	if it, _ := itemByLabel(footprint, "Online Presence"); it.Value != "Limited presence on 1 platform(s)" {
		t.Errorf("Online Presence wrong: %q", it.Value)
	}

	threat, ok := sectionByTitle(r, "Threat Assessment")
	if !ok {
		t.Fatal("missing Threat Assessment")
	}
	if it, _ := itemByLabel(threat, "Threat Level"); it.Value != "MEDIUM" {
		t.Errorf("Threat Level wrong: %q", it.Value)
	}

	if _, ok := sectionByTitle(r, "Relationship Intelligence"); ok {
		t.Error("connection-less profile should not have a relationship section")
	}
}

func TestBuildComprehensive_CompromisedRaisesThreatLevel(t *testing.T) {
	doc := parseJSON(t, `{"name": "octocat", "compromised": true}`)

	r := NewBuilder().BuildComprehensive(doc, model.RequestContext{})
	threat, ok := sectionByTitle(r, "Threat Assessment")
	if !ok {
		t.Fatal("missing Threat Assessment")
	}
	if it, _ := itemByLabel(threat, "Threat Level"); it.Value != "CRITICAL" {
		t.Errorf("Threat Level = %q, want CRITICAL", it.Value)
	}

	surface, ok := sectionByTitle(r, "Attack Surface Assessment")
	if !ok {
		t.Fatal("missing Attack Surface Assessment")
	}
	if it, _ := itemByLabel(surface, "Account Takeover"); !strings.HasPrefix(it.Value, "CRITICAL:") {
		t.Errorf("Account Takeover wrong: %q", it.Value)
	}
}

func TestPrune_DropsEmptySections(t *testing.T) {
	sections := []model.Section{
		{Title: "Empty", Items: []model.Item{{Label: "A", Value: ""}, {Label: "B", Value: "none"}}},
		{Title: "Kept", Items: []model.Item{{Label: "C", Value: "content"}, {Label: "D", Value: "—"}}},
	}

	out := prune(sections)
	if len(out) != 1 {
		t.Fatalf("expected 1 section, got %d", len(out))
	}
	if out[0].Title != "Kept" || len(out[0].Items) != 1 {
		t.Errorf("pruned output wrong: %+v", out)
	}
}
