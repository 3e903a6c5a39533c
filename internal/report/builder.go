package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/normalize"
	"github.com/shadowhorn/shadowhorn/internal/risk"
)

// Builder composes department reports. It owns a risk scorer so every report
// and the risk badge agree on one term ruleset.
type Builder struct {
	scorer *risk.Scorer
	now    func() time.Time
}

// NewBuilder creates a report builder with default heuristics.
func NewBuilder() *Builder {
	return &Builder{scorer: risk.NewScorer(), now: time.Now}
}

// Build normalizes the correlation document and composes the report for the
// requested department. It never fails: an undecodable document produces a
// report whose sections have all been pruned away.
func (b *Builder) Build(department string, doc any, reqctx model.RequestContext) *model.Report {
	profile, ok := normalize.Decode(doc)
	if !ok {
		profile = &model.Profile{}
	}
	return b.BuildProfile(department, profile, reqctx)
}

// BuildProfile composes the report from an already-normalized profile.
func (b *Builder) BuildProfile(department string, p *model.Profile, reqctx model.RequestContext) *model.Report {
	dept := ResolveDepartment(department)
	counts := model.CountsOf(p)
	assessment := b.scorer.Derive(p, counts)

	sources := reqctx.Platforms
	if len(sources) == 0 {
		for _, link := range p.Links {
			sources = append(sources, link.Platform)
		}
	}
	if sources == nil {
		sources = []string{}
	}

	meta := model.ReportMeta{
		Department:  dept.DisplayName(),
		GeneratedAt: b.now().UTC().Format(time.RFC3339),
		Compromised: p.Compromised,
		Identifier:  p.Identifier,
		Name:        p.Subject(),
		Location:    p.Location,
		Sources:     sources,
		Mode:        reqctx.Mode,
		Prompt:      reqctx.Prompt,
		Counts:      counts,
	}

	var sections []model.Section
	switch dept {
	case DeptThreatIntel:
		sections = b.threatIntelSections(p, counts, assessment)
	case DeptPentest:
		sections = b.pentestSections(p, counts, assessment)
	case DeptMalware:
		sections = b.malwareSections(p, counts, assessment)
	default:
		sections = b.osintSections(p, counts, assessment)
	}

	return &model.Report{Meta: meta, Sections: prune(sections)}
}

// executiveSummary is shared by all departments and always leads the report.
func (b *Builder) executiveSummary(p *model.Profile, counts model.Counts, assessment model.Risk, sources int) model.Section {
	status := "Not compromised"
	if p.Compromised {
		status = "Compromised"
	}
	return model.Section{
		Title: "Executive Summary",
		Items: []model.Item{
			{Label: "Assessment", Value: fmt.Sprintf(
				"Intelligence profile for %s indicating %s-level exposure across %d platform(s).",
				p.Subject(), strings.ToUpper(string(assessment.Level)), sources)},
			{Label: "Risk Level", Value: string(assessment.Level)},
			{Label: "Risk Factors", Value: assessment.Reason},
			{Label: "Compromise Status", Value: status},
			{Label: "Location", Value: p.Location},
		},
	}
}

func (b *Builder) osintSections(p *model.Profile, counts model.Counts, assessment model.Risk) []model.Section {
	sections := []model.Section{
		b.executiveSummary(p, counts, assessment, len(p.Usernames)),
		{
			Title: "Analyst Narrative",
			Items: []model.Item{
				{Label: "Narrative", Value: p.LLMAnalysis},
				{Label: "Model Summary", Value: p.Summary},
			},
		},
		{
			Title: "Key Findings",
			Items: []model.Item{
				{Label: "Digital Footprint", Value: risk.FootprintSummary(p)},
				{Label: "Identified Interests", Value: risk.InterestSummary(p)},
				{Label: "Activity", Value: risk.ActivitySummary(p, counts)},
				{Label: "Timeline", Value: risk.TimelineSummary(p)},
			},
		},
		{
			Title: "Evidence",
			Items: evidenceItems(p),
		},
		{
			Title: "Priority Actions",
			Items: recommendationItems(p, counts),
		},
	}
	return sections
}

func (b *Builder) threatIntelSections(p *model.Profile, counts model.Counts, assessment model.Risk) []model.Section {
	iocs := risk.ExtractIOCs(p)

	iocItems := []model.Item{}
	byKind := map[string][]string{}
	for _, ind := range iocs.Items {
		byKind[ind.Kind] = append(byKind[ind.Kind], ind.Value)
	}
	for _, kind := range []struct{ key, label string }{
		{"email", "Email Indicators"},
		{"handle", "Account Indicators"},
		{"repository", "Repository Indicators"},
		{"link", "URL Indicators"},
	} {
		if values := byKind[kind.key]; len(values) > 0 {
			iocItems = append(iocItems, model.Item{Label: kind.label, Value: strings.Join(values, "; ")})
		}
	}
	if iocs.Total > 0 {
		iocItems = append(iocItems, model.Item{Label: "Total Observables", Value: fmt.Sprintf("%d", iocs.Total)})
	}

	relations := []model.Item{
		{Label: "Mapped Connections", Value: countValue(counts.Connections)},
		{Label: "Notable Accounts", Value: formatList(connectionNames(p, 5))},
	}
	if n := len(p.DirectEdges); n > 0 {
		relations = append(relations, model.Item{Label: "Direct Relations", Value: fmt.Sprintf("%d pre-resolved relationship edge(s)", n)})
	}

	return []model.Section{
		b.executiveSummary(p, counts, assessment, len(p.Usernames)),
		{
			Title: "Observed TTPs",
			Items: []model.Item{
				{Label: "Activity Pattern", Value: p.Activity},
				{Label: "Behavioral Anomalies", Value: formatList(p.Anomalies)},
				{Label: "Posting Behavior", Value: postsByPlatform(p)},
			},
		},
		{Title: "Entities & Relations", Items: relations},
		{Title: "Key IOCs", Items: iocItems},
		{
			Title: "Monitoring & Mitigations",
			Items: []model.Item{
				{Label: "Watchlist", Value: watchlistValue(p)},
				{Label: "Mitigation", Value: mitigationValue(p)},
			},
		},
	}
}

func (b *Builder) pentestSections(p *model.Profile, counts model.Counts, assessment model.Risk) []model.Section {
	var stack []model.Item
	languages := map[string]bool{}
	for i, repo := range p.Repositories {
		if i < 8 {
			stack = append(stack, model.Item{Label: repo.Name, Value: repoValue(repo)})
		}
		if repo.Language != "" {
			languages[repo.Language] = true
		}
	}
	if len(languages) > 0 {
		var names []string
		for _, repo := range p.Repositories {
			if repo.Language != "" && languages[repo.Language] {
				names = append(names, repo.Language)
				delete(languages, repo.Language)
			}
		}
		stack = append(stack, model.Item{Label: "Languages", Value: strings.Join(names, ", ")})
	}

	weaknesses := []model.Item{}
	if p.Compromised {
		weaknesses = append(weaknesses, model.Item{Label: "Credentials", Value: "Known compromise: harvested credentials may still be valid."})
	}
	if counts.Emails > 0 {
		weaknesses = append(weaknesses, model.Item{Label: "Phishing Surface", Value: fmt.Sprintf("%d exposed email address(es) usable for targeted phishing.", counts.Emails)})
	}
	if counts.Usernames > 1 {
		weaknesses = append(weaknesses, model.Item{Label: "Handle Reuse", Value: "Handle reuse across platforms enables cross-platform pivoting."})
	}
	weaknesses = append(weaknesses, model.Item{Label: "Anomalies", Value: formatList(p.Anomalies)})

	var targets []string
	for _, u := range p.Usernames {
		targets = append(targets, fmt.Sprintf("%s account @%s", u.Platform, u.Handle))
	}
	for i, link := range p.Links {
		if i >= 5 {
			break
		}
		targets = append(targets, link.URL)
	}

	return []model.Section{
		b.executiveSummary(p, counts, assessment, len(p.Usernames)),
		{
			Title: "Recon Narrative",
			Items: []model.Item{
				{Label: "Footprint", Value: risk.FootprintSummary(p)},
				{Label: "Activity", Value: risk.ActivitySummary(p, counts)},
				{Label: "Timeline", Value: risk.TimelineSummary(p)},
			},
		},
		{Title: "Repositories & Tech Stack", Items: stack},
		{Title: "Potential Weaknesses", Items: weaknesses},
		{Title: "Targets for Validation", Items: []model.Item{
			{Label: "Candidates", Value: formatList(targets)},
		}},
	}
}

func (b *Builder) malwareSections(p *model.Profile, counts model.Counts, assessment model.Risk) []model.Section {
	terms := b.scorer.Terms()

	var artifacts []model.Item
	for _, post := range p.Posts {
		text := post.Title
		if text == "" {
			text = post.Content
		}
		if text == "" || !terms.SuspiciousArtifact(text) {
			continue
		}
		platform := post.Platform
		if platform == "" {
			platform = "Unknown"
		}
		artifacts = append(artifacts, model.Item{Label: platform, Value: text})
	}

	var code []model.Item
	for i, repo := range p.Repositories {
		if i >= 8 {
			break
		}
		code = append(code, model.Item{Label: repo.Name, Value: repoValue(repo)})
	}

	recommendations := []model.Item{
		{Label: "Triage", Value: triageValue(len(artifacts))},
		{Label: "Monitoring", Value: watchlistValue(p)},
	}

	return []model.Section{
		b.executiveSummary(p, counts, assessment, len(p.Usernames)),
		{Title: "Suspicious Artifacts", Items: artifacts},
		{Title: "Code & Binaries", Items: code},
		{Title: "Recommendations", Items: recommendations},
	}
}

// ---- shared item helpers ----

func evidenceItems(p *model.Profile) []model.Item {
	var items []model.Item

	var linkPairs []string
	for _, link := range p.Links {
		linkPairs = append(linkPairs, link.Platform+": "+link.URL)
	}
	items = append(items, model.Item{Label: "Primary Links", Value: formatList(linkPairs)})

	var posts []string
	for i, post := range p.Posts {
		if i >= 5 {
			break
		}
		platform := post.Platform
		if platform == "" {
			platform = "Unknown"
		}
		title := post.Title
		if title == "" {
			title = "(no title)"
		}
		date := post.Date
		if date == "" {
			date = "Unknown date"
		}
		posts = append(posts, fmt.Sprintf("[%s] %s (%s)", platform, title, date))
	}
	items = append(items, model.Item{Label: "Highlighted Posts", Value: formatList(posts)})

	var repos []string
	for i, repo := range p.Repositories {
		if i >= 5 {
			break
		}
		repos = append(repos, fmt.Sprintf("%s (%d stars, %d forks)", repo.Name, repo.Stars, repo.Forks))
	}
	items = append(items, model.Item{Label: "Top Repositories", Value: formatList(repos)})

	var timeline []string
	for i, entry := range p.Timelines {
		if i >= 5 {
			break
		}
		timeline = append(timeline, entry.Raw)
	}
	items = append(items, model.Item{Label: "Timeline Highlights", Value: formatList(timeline)})

	return items
}

func recommendationItems(p *model.Profile, counts model.Counts) []model.Item {
	var recs []model.Item
	if p.Compromised {
		recs = append(recs,
			model.Item{Label: "CRITICAL", Value: "Review all linked accounts for unauthorized access; force password resets and enable MFA."})
	}
	if counts.Repos > 0 {
		recs = append(recs,
			model.Item{Label: "HIGH", Value: "Audit public repositories and commit history for exposed secrets and credentials."})
	}
	if counts.Usernames >= 3 {
		recs = append(recs,
			model.Item{Label: "MEDIUM", Value: "Monitor linked accounts for suspicious activity and unauthorized profile changes."})
	}
	if counts.Connections > 0 {
		recs = append(recs,
			model.Item{Label: "MEDIUM", Value: "Review follower and connection lists for suspicious accounts."})
	}
	recs = append(recs,
		model.Item{Label: "ONGOING", Value: "Establish continuous monitoring across all identified platforms."})
	return recs
}

func connectionNames(p *model.Profile, limit int) []string {
	var names []string
	for _, conn := range p.Connections {
		if conn.Name == "" {
			continue
		}
		names = append(names, fmt.Sprintf("%s (%s, %s)", conn.Name, conn.Platform, conn.Type))
		if len(names) >= limit {
			break
		}
	}
	return names
}

func postsByPlatform(p *model.Profile) string {
	if len(p.Posts) == 0 {
		return ""
	}
	counts := map[string]int{}
	var order []string
	for _, post := range p.Posts {
		platform := post.Platform
		if platform == "" {
			platform = "Unknown"
		}
		if counts[platform] == 0 {
			order = append(order, platform)
		}
		counts[platform]++
	}
	var parts []string
	for _, platform := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", platform, counts[platform]))
	}
	return strings.Join(parts, "; ")
}

func repoValue(repo model.Repository) string {
	desc := repo.Description
	if desc == "" {
		desc = "No description"
	}
	if len(desc) > 60 {
		desc = desc[:60]
	}
	lang := repo.Language
	if lang == "" {
		lang = "N/A"
	}
	return fmt.Sprintf("%s | %d stars, %d forks | %s", lang, repo.Stars, repo.Forks, desc)
}

func watchlistValue(p *model.Profile) string {
	var handles []string
	for _, u := range p.Usernames {
		handles = append(handles, "@"+u.Handle)
	}
	if len(handles) == 0 {
		return ""
	}
	return "Add to monitoring: " + strings.Join(handles, ", ")
}

func mitigationValue(p *model.Profile) string {
	if p.Compromised {
		return "Treat all associated credentials as burned; rotate and hunt for reuse."
	}
	if len(p.Emails) > 0 {
		return "Track exposed email addresses against future breach corpora."
	}
	return ""
}

func triageValue(artifactCount int) string {
	if artifactCount > 0 {
		return fmt.Sprintf("%d post(s) matched artifact heuristics; prioritize manual review of linked samples.", artifactCount)
	}
	return "No artifact-matching posts; keep identity on a low-priority watch."
}

func countValue(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// formatList joins up to ten items for display, mirroring how the UI tables
// render list cells.
func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > 10 {
		items = items[:10]
	}
	return strings.Join(items, "; ")
}
