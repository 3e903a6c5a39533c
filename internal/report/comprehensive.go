package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/normalize"
	"github.com/shadowhorn/shadowhorn/internal/risk"
)

// BuildComprehensive composes the single full-detail intelligence report:
// every correlated dimension of the profile in one document, for analysts who
// want the complete picture rather than a department cut. Section pruning
// applies the same meaningful-item rules as the department reports.
func (b *Builder) BuildComprehensive(doc any, reqctx model.RequestContext) *model.Report {
	p, ok := normalize.Decode(doc)
	if !ok {
		p = &model.Profile{}
	}

	counts := model.CountsOf(p)
	assessment := b.scorer.Derive(p, counts)

	sources := reqctx.Platforms
	if len(sources) == 0 {
		for _, u := range p.Usernames {
			sources = append(sources, u.Platform)
		}
	}
	if sources == nil {
		sources = []string{}
	}

	meta := model.ReportMeta{
		Department:  "Comprehensive",
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

	sections := []model.Section{
		b.executiveSummary(p, counts, assessment, len(sources)),
		{
			Title: "Subject Profile",
			Items: []model.Item{
				{Label: "Name", Value: p.Subject()},
				{Label: "Profile Type", Value: p.ProfileType},
				{Label: "About", Value: firstOf(p.About, p.Bio)},
				{Label: "Primary Location", Value: p.Location},
				{Label: "Primary Identifiers", Value: formatList(handlesOf(p))},
			},
		},
		{
			Title: "Correlation Summary",
			Items: []model.Item{
				{Label: "Model Summary", Value: p.Summary},
			},
		},
		{
			Title: "Digital Identifiers & Footprint",
			Items: []model.Item{
				{Label: "Primary Identifiers", Value: formatList(handlesOf(p))},
				{Label: "Email Addresses", Value: formatList(p.Emails)},
				{Label: "Repository Count", Value: fmt.Sprintf("%d", counts.Repos)},
				{Label: "Total Stars", Value: fmt.Sprintf("%d", counts.TotalStars)},
				{Label: "Online Presence", Value: presenceValue(len(sources))},
				{Label: "Account Timeline", Value: risk.TimelineSummary(p)},
			},
		},
		{Title: "Platform Presence & Activity", Items: platformItems(p)},
		{Title: "Top Repositories", Items: topRepoItems(p)},
		{Title: "Relationship Intelligence", Items: relationshipItems(p)},
		{Title: "Behavior & Interests", Items: behaviorItems(p)},
		{Title: "Content & Posts", Items: contentItems(p)},
		{Title: "Evidence & Source Links", Items: evidenceItems(p)},
		{Title: "Intelligence Indicators (IOCs)", Items: iocGroupItems(p)},
		{Title: "Attack Surface Assessment", Items: attackSurfaceItems(p, counts)},
		{Title: "Threat Assessment", Items: threatItems(p, counts)},
		{
			Title: "AI Analysis & Narrative",
			Items: []model.Item{
				{Label: "Summary", Value: narrativeValue(p)},
			},
		},
		{Title: "Prioritized Recommendations", Items: recommendationItems(p, counts)},
		{Title: "Investigation & Research Pivots", Items: pivotItems(p)},
	}

	return &model.Report{Meta: meta, Sections: prune(sections)}
}

func handlesOf(p *model.Profile) []string {
	var handles []string
	for _, u := range p.Usernames {
		handles = append(handles, u.Handle)
	}
	return handles
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// presenceValue grades the breadth of the subject's platform spread.
func presenceValue(platforms int) string {
	switch {
	case platforms == 0:
		return "Minimal online presence"
	case platforms <= 2:
		return fmt.Sprintf("Limited presence on %d platform(s)", platforms)
	case platforms <= 4:
		return fmt.Sprintf("Moderate presence on %d platform(s)", platforms)
	default:
		return fmt.Sprintf("Extensive presence across %d platform(s)", platforms)
	}
}

func platformItems(p *model.Profile) []model.Item {
	var items []model.Item
	for _, u := range p.Usernames {
		value := "Handle: " + u.Handle
		if u.Bio != "" {
			bio := u.Bio
			if len(bio) > 60 {
				bio = bio[:60]
			}
			value += " | Bio: " + bio
		}
		items = append(items, model.Item{Label: titleCase(u.Platform), Value: value})
	}
	return items
}

func topRepoItems(p *model.Profile) []model.Item {
	var items []model.Item
	for i, repo := range p.Repositories {
		if i >= 5 {
			break
		}
		items = append(items, model.Item{Label: repo.Name, Value: repoValue(repo)})
	}
	return items
}

func relationshipItems(p *model.Profile) []model.Item {
	if len(p.Connections) == 0 {
		return nil
	}
	var followers, following []string
	for _, conn := range p.Connections {
		switch conn.Type {
		case "follower":
			followers = append(followers, conn.Name)
		case "following":
			following = append(following, conn.Name)
		}
	}
	items := []model.Item{
		{Label: "Total Connections", Value: fmt.Sprintf("%d", len(p.Connections))},
		{Label: "Followers", Value: countValue(len(followers))},
		{Label: "Following", Value: countValue(len(following))},
	}
	if len(followers) > 5 {
		followers = followers[:5]
	}
	if len(following) > 5 {
		following = following[:5]
	}
	items = append(items,
		model.Item{Label: "Notable Followers", Value: formatList(followers)},
		model.Item{Label: "Notable Following", Value: formatList(following)},
	)
	return items
}

func behaviorItems(p *model.Profile) []model.Item {
	return []model.Item{
		{Label: "Activity Pattern", Value: p.Activity},
		{Label: "Identified Interests", Value: formatList(p.Interests)},
		{Label: "Behavioral Anomalies", Value: formatList(p.Anomalies)},
	}
}

func contentItems(p *model.Profile) []model.Item {
	if len(p.Posts) == 0 {
		return nil
	}
	items := []model.Item{
		{Label: "Total Collected Posts", Value: fmt.Sprintf("%d", len(p.Posts))},
		{Label: "Posts by Platform", Value: postsByPlatform(p)},
	}
	var highlights []string
	for i, post := range p.Posts {
		if i >= 5 {
			break
		}
		platform := firstOf(post.Platform, "Unknown")
		title := firstOf(post.Title, "(no title)")
		date := firstOf(post.Date, "Unknown date")
		highlights = append(highlights, fmt.Sprintf("[%s] %s (%s)", platform, title, date))
	}
	items = append(items, model.Item{Label: "Highlighted Posts", Value: formatList(highlights)})
	return items
}

func iocGroupItems(p *model.Profile) []model.Item {
	var urls []string
	for _, u := range p.Usernames {
		if u.URL != "" {
			urls = append(urls, u.URL)
		}
	}
	for _, link := range p.Links {
		urls = append(urls, link.URL)
	}
	var repoURLs []string
	for _, repo := range p.Repositories {
		if repo.URL != "" {
			repoURLs = append(repoURLs, repo.URL)
		}
	}
	return []model.Item{
		{Label: "Usernames", Value: formatList(handlesOf(p))},
		{Label: "Email Addresses", Value: formatList(p.Emails)},
		{Label: "Platform URLs", Value: formatList(urls)},
		{Label: "Repository URLs", Value: formatList(repoURLs)},
	}
}

func attackSurfaceItems(p *model.Profile, counts model.Counts) []model.Item {
	exposure := "Limited public exposure"
	if counts.Usernames >= 3 {
		exposure = fmt.Sprintf("Identity linked across %d platforms; highly recognizable", counts.Usernames)
	}
	codeRisk := "No code repositories detected"
	if counts.Repos > 0 {
		codeRisk = fmt.Sprintf("Code presence with %d repos and %d stars; potential supply chain vector", counts.Repos, counts.TotalStars)
	}
	social := "Moderate social engineering risk"
	if counts.Usernames >= 2 {
		social = "High social engineering risk due to multiple platform presence"
	}
	takeover := "Account takeover risk exists across linked platforms"
	if p.Compromised {
		takeover = "CRITICAL: compromised accounts significantly increase takeover risk"
	}
	network := "Limited network visibility"
	if counts.Connections > 0 {
		network = fmt.Sprintf("%d connections mapped; secondary attack vectors possible", counts.Connections)
	}
	return []model.Item{
		{Label: "Profile Exposure", Value: exposure},
		{Label: "Code Repository Risk", Value: codeRisk},
		{Label: "Social Engineering", Value: social},
		{Label: "Account Takeover", Value: takeover},
		{Label: "Network Risk", Value: network},
	}
}

func threatItems(p *model.Profile, counts model.Counts) []model.Item {
	var concerns []string
	if p.Compromised {
		concerns = append(concerns, "Credential compromise")
	}
	if counts.Repos > 0 {
		concerns = append(concerns, "Code/supply chain exposure")
	}
	if counts.Connections > 10 {
		concerns = append(concerns, "Network-based attack vectors")
	}
	if counts.Usernames >= 3 {
		concerns = append(concerns, "Identity theft potential")
	}

	priority := "medium"
	if p.Compromised {
		priority = "critical"
	} else if len(concerns) >= 3 {
		priority = "high"
	}

	concernsValue := "Limited threat indicators"
	if len(concerns) > 0 {
		concernsValue = strings.Join(concerns, " | ")
	}

	return []model.Item{
		{Label: "Threat Level", Value: strings.ToUpper(priority)},
		{Label: "Primary Concerns", Value: concernsValue},
		{Label: "Activity Timeline", Value: risk.TimelineSummary(p)},
	}
}

// narrativeValue returns the model narrative unless it is an error
// placeholder (the upstream engine brackets failures).
func narrativeValue(p *model.Profile) string {
	if strings.HasPrefix(p.LLMAnalysis, "[") {
		return ""
	}
	return p.LLMAnalysis
}

func pivotItems(p *model.Profile) []model.Item {
	var pivots []model.Item
	if handles := handlesOf(p); len(handles) > 0 {
		pivots = append(pivots, model.Item{
			Label: "Username Cross-Reference",
			Value: fmt.Sprintf("Search %q across additional platforms (LinkedIn, Discord, TikTok, Patreon).", handles[0]),
		})
	}
	if len(p.Repositories) > 0 {
		pivots = append(pivots, model.Item{
			Label: "Code Analysis",
			Value: "Run static analysis on public repos to surface coding patterns, dependencies and vulnerabilities.",
		})
	}
	if n := len(p.Connections); n > 0 {
		pivots = append(pivots, model.Item{
			Label: "Network Expansion",
			Value: fmt.Sprintf("Map secondary connections from %d known associates to expand the threat landscape.", n),
		})
	}
	if len(p.Emails) > 0 {
		pivots = append(pivots, model.Item{
			Label: "Email Reconnaissance",
			Value: fmt.Sprintf("Run %s through breach databases for related accounts.", p.Emails[0]),
		})
	}
	pivots = append(pivots, model.Item{
		Label: "Timeline Analysis",
		Value: "Correlate account creation dates to spot coordinated identity creation or takeover events.",
	})
	return pivots
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
