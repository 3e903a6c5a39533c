// Package correlate builds correlation documents from collected
// per-platform OSINT data without any model in the loop. The output
// uses the same schema as model-produced correlations so everything
// downstream treats both identically.
package correlate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Engine merges per-platform documents into a single deterministic
// correlation document.
type Engine struct{}

// NewEngine creates a rule-based correlation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// emptyDocument returns a correlation document with every schema key
// present and zero-valued. The name stays empty so the first platform to
// supply a display name wins; the identifier is the fallback.
func emptyDocument() map[string]any {
	return map[string]any{
		"name":                 "",
		"profile_type":         nil,
		"about":                nil,
		"usernames":            map[string]any{},
		"bio":                  "",
		"emails":               []string{},
		"primary_location":     "",
		"posts":                []any{},
		"repositories":         []any{},
		"activity_patterns":    "",
		"possible_interests":   []string{},
		"relationship_graph":   []any{},
		"behavioral_anomalies": []string{},
		"key_timelines":        []string{},
		"links":                map[string]any{},
		"compromised":          false,
		"summary":              "",
		"llm_analysis":         nil,
	}
}

type merger struct {
	identifier      string
	doc             map[string]any
	usernames       map[string]any
	links           map[string]any
	emails          map[string]bool
	interests       map[string]bool
	posts           []any
	repos           []any
	relationships   []any
	events          []timelineEvent
	compromised     bool
	compromiseNotes []string
}

type timelineEvent struct {
	date  string
	label string
}

// Correlate merges collected platform data into one correlation document.
// The merge is order-independent within a platform group: github is always
// folded first, then twitter, reddit, snapchat, search links, breach and
// compromise lookups.
func (e *Engine) Correlate(identifier string, collected []model.PlatformData) map[string]any {
	doc := emptyDocument()
	if len(collected) == 0 {
		doc["name"] = identifier
		doc["summary"] = "No OSINT data available for this identifier yet. Run data collection first."
		return doc
	}

	m := &merger{
		identifier: identifier,
		doc:        doc,
		usernames:  map[string]any{},
		links:      map[string]any{},
		emails:     map[string]bool{},
		interests:  map[string]bool{},
	}

	for _, order := range []string{"github", "twitter", "reddit", "snapchat", "search", "breachdirectory", "compromise"} {
		for _, entry := range collected {
			if strings.ToLower(entry.Platform) != order {
				continue
			}
			switch order {
			case "github":
				m.mergeGitHub(entry.Data)
			case "twitter":
				m.mergeTwitter(entry.Data)
			case "reddit":
				m.mergeReddit(entry.Data)
			case "snapchat":
				m.mergeSnapchat(entry.Data)
			case "search":
				m.mergeSearchLinks(entry.Data)
			case "breachdirectory":
				m.mergeBreachDirectory(entry.Data)
			case "compromise":
				m.mergeCompromiseCheck(entry.Data)
			}
		}
	}

	m.finalize()
	return m.doc
}

func (m *merger) mergeGitHub(data map[string]any) {
	root := data
	if nested := mp(data["data"]); nested != nil {
		root = nested
	}
	user := mp(root["user"])
	if user == nil {
		user = map[string]any{}
	}

	login := str(user["login"])
	if name := str(user["name"]); name != "" {
		m.setIfEmpty("name", name)
	}
	if login != "" {
		url := str(user["html_url"])
		if url == "" {
			url = "https://github.com/" + login
		}
		m.usernames["github"] = map[string]any{"handle": login, "url": url}
		m.setLink("github", url)
	}
	if bio := str(user["bio"]); bio != "" {
		m.setIfEmpty("bio", bio)
	}
	if email := str(user["email"]); email != "" {
		m.emails[email] = true
	}
	if loc := str(user["location"]); loc != "" {
		m.setIfEmpty("primary_location", loc)
	}
	if created := str(user["created_at"]); created != "" {
		m.events = append(m.events, timelineEvent{created, "GitHub account created"})
	}
	if blog := str(user["blog"]); blog != "" {
		m.setLink("website", blog)
	}

	for _, item := range sl(root["repos"]) {
		r := mp(item)
		if r == nil {
			continue
		}
		m.repos = append(m.repos, map[string]any{
			"name":         str(r["name"]),
			"url":          str(r["html_url"]),
			"description":  str(r["description"]),
			"stars":        r["stargazers_count"],
			"forks":        r["forks_count"],
			"last_updated": str(r["updated_at"]),
		})
	}

	for _, pair := range [][2]string{{"follower", "followers_sample"}, {"following", "following_sample"}} {
		kind, key := pair[0], pair[1]
		for _, item := range sl(root[key]) {
			f := mp(item)
			if f == nil {
				continue
			}
			if login := str(f["login"]); login != "" {
				m.relationships = append(m.relationships, map[string]any{
					"username": login,
					"platform": "GitHub",
					"type":     kind,
					"url":      str(f["html_url"]),
				})
			}
		}
	}
}

func (m *merger) mergeTwitter(data map[string]any) {
	user := mp(data["user"])
	if user == nil {
		user = map[string]any{}
	}

	handle := str(user["username"])
	if name := str(user["name"]); name != "" {
		m.setIfEmpty("name", name)
	}
	if handle != "" {
		url := "https://twitter.com/" + handle
		m.usernames["twitter"] = map[string]any{"handle": handle, "url": url}
		m.setLink("twitter", url)
	}
	if desc := str(user["description"]); desc != "" {
		m.setIfEmpty("bio", desc)
	}
	if loc := str(user["location"]); loc != "" {
		m.setIfEmpty("primary_location", loc)
	}
	if created := str(user["created_at"]); created != "" {
		m.events = append(m.events, timelineEvent{created, "Twitter account created"})
	}
	if site := str(user["url"]); site != "" {
		m.setLink("website", site)
	}

	tweets := sl(data["tweets"])
	if wrapped := mp(data["tweets"]); wrapped != nil {
		tweets = sl(wrapped["data"])
	}
	for _, item := range tweets {
		t := mp(item)
		if t == nil {
			continue
		}
		var url string
		if id := str(t["id"]); handle != "" && id != "" {
			url = fmt.Sprintf("https://twitter.com/%s/status/%s", handle, id)
		}
		m.posts = append(m.posts, map[string]any{
			"platform": "Twitter",
			"title":    truncate(strings.TrimSpace(str(t["text"])), 120),
			"url":      url,
			"date":     str(t["created_at"]),
			"metrics":  t["public_metrics"],
		})
	}

	for _, pair := range [][2]string{{"follower", "followers"}, {"following", "following"}} {
		kind, key := pair[0], pair[1]
		entries := sl(data[key])
		if wrapped := mp(data[key]); wrapped != nil {
			entries = sl(wrapped["data"])
		}
		for _, item := range entries {
			f := mp(item)
			if f == nil {
				continue
			}
			if name := str(f["username"]); name != "" {
				m.relationships = append(m.relationships, map[string]any{
					"username": name,
					"platform": "Twitter",
					"type":     kind,
					"url":      "https://twitter.com/" + name,
				})
			}
		}
	}
}

func (m *merger) mergeReddit(data map[string]any) {
	info := mp(data["user_info"])
	if info == nil {
		info = map[string]any{}
	}

	if username := str(info["username"]); username != "" {
		url := "https://reddit.com/user/" + username
		m.usernames["reddit"] = map[string]any{"handle": username, "url": url}
		m.setLink("reddit", url)
	}
	if created := str(info["account_creation_date"]); created != "" {
		m.events = append(m.events, timelineEvent{created, "Reddit account created"})
	}

	for _, item := range sl(data["posts"]) {
		p := mp(item)
		if p == nil {
			continue
		}
		m.posts = append(m.posts, map[string]any{
			"platform": "Reddit",
			"title":    str(p["title"]),
			"url":      str(p["url"]),
			"date":     str(p["timestamp"]),
			"metrics":  map[string]any{"upvotes": p["upvotes"], "downvotes": p["downvotes"]},
		})
	}

	activity := mp(data["activity_metrics"])
	if activity == nil {
		return
	}
	for _, item := range sl(activity["most_active_subreddits"]) {
		pair := sl(item)
		if len(pair) > 0 {
			if name := str(pair[0]); name != "" {
				m.interests["r/"+name] = true
			}
		}
	}
}

func (m *merger) mergeSnapchat(data map[string]any) {
	profile := mp(data["profile_info"])
	if profile == nil {
		profile = map[string]any{}
	}
	account := mp(data["account_details"])
	if account == nil {
		account = map[string]any{}
	}

	username := str(profile["username"])
	if username == "" {
		username = str(data["normalized_username"])
	}
	if username != "" {
		url := "https://www.snapchat.com/add/" + username
		m.usernames["snapchat"] = map[string]any{
			"handle": username,
			"url":    url,
			"bio":    str(profile["bio"]),
		}
		m.setLink("snapchat", url)
	}

	if display := str(profile["display_name"]); display != "" {
		m.setIfEmpty("name", display)
	}
	if bio := str(profile["bio"]); bio != "" {
		m.setIfEmpty("bio", bio)
	}
	if loc := str(profile["location"]); loc != "" {
		m.setIfEmpty("primary_location", loc)
	}

	followers := intVal(data["follower_count"])
	if followers == 0 {
		followers = intVal(account["follower_count"])
	}
	if followers > 0 {
		m.interests[fmt.Sprintf("Snapchat influencer (%d followers)", followers)] = true
	}

	for _, item := range sl(data["external_sites"]) {
		site := str(item)
		if site == "" {
			continue
		}
		if !strings.HasPrefix(site, "http") {
			site = "https://" + site
		}
		m.setLink("website", site)
	}

	for i, item := range sl(profile["interests"]) {
		if i >= 15 {
			break
		}
		if interest := str(item); interest != "" {
			m.interests[interest] = true
		}
	}

	for i, item := range sl(data["spotlight_videos"]) {
		if i >= 5 {
			break
		}
		v := mp(item)
		if v == nil {
			continue
		}
		title := str(v["title"])
		if title == "" {
			title = "Spotlight Video"
		}
		m.posts = append(m.posts, map[string]any{
			"platform": "Snapchat",
			"title":    title,
			"url":      str(v["url"]),
			"date":     str(v["upload_date"]),
			"metrics": map[string]any{
				"views":    v["watch_count"],
				"likes":    v["like_count"],
				"comments": v["comment_count"],
			},
		})
	}

	for i, item := range sl(data["highlights"]) {
		if i >= 5 {
			break
		}
		h := mp(item)
		if h == nil {
			continue
		}
		title := firstNonEmpty(str(h["title"]), str(h["name"]), "Story Highlight")
		m.posts = append(m.posts, map[string]any{
			"platform": "Snapchat",
			"title":    title,
			"url":      str(h["url"]),
			"date":     firstNonEmpty(str(h["date"]), str(h["created_at"])),
		})
	}

	stories := sl(data["stories"])
	if len(stories) == 0 {
		stories = sl(data["public_stories"])
	}
	for i, item := range stories {
		if i >= 5 {
			break
		}
		s := mp(item)
		if s == nil {
			continue
		}
		title := str(s["title"])
		if title == "" {
			title = "Story"
		}
		m.posts = append(m.posts, map[string]any{
			"platform": "Snapchat",
			"title":    title,
			"url":      str(s["url"]),
			"date":     firstNonEmpty(str(s["date"]), str(s["posted_at"])),
			"metrics":  map[string]any{"views": s["views"]},
		})
	}

	if created := str(data["account_created"]); created != "" {
		m.events = append(m.events, timelineEvent{created, "Snapchat account created"})
	}
	if verified, ok := data["verified"].(bool); ok && verified {
		m.interests["Verified Snapchat account"] = true
	} else if verified, ok := profile["verified"].(bool); ok && verified {
		m.interests["Verified Snapchat account"] = true
	}
}

// mergeSearchLinks folds search-engine results in: one URL per platform,
// with the platform inferred from the host when the result is unlabelled.
func (m *merger) mergeSearchLinks(data map[string]any) {
	for _, item := range sl(data["results"]) {
		r := mp(item)
		if r == nil {
			continue
		}
		url := str(r["url"])
		if url == "" {
			continue
		}

		platform := strings.ToLower(str(r["platform"]))
		if platform == "" || platform == "other" {
			platform = inferPlatform(url)
		}
		switch platform {
		case "github", "linkedin", "twitter", "reddit", "youtube":
			if _, exists := m.links[platform]; !exists {
				m.links[platform] = url
			}
		}

		for _, ent := range sl(r["entities"]) {
			e := mp(ent)
			if e == nil {
				continue
			}
			switch str(e["type"]) {
			case "EMAIL":
				if text := str(e["text"]); text != "" {
					m.emails[text] = true
				}
			case "NAME":
				if text := str(e["text"]); text != "" {
					m.setIfEmpty("name", text)
				}
			}
		}
	}
}

func (m *merger) mergeBreachDirectory(data map[string]any) {
	if found := intVal(data["found"]); found > 0 {
		m.compromised = true
		m.compromiseNotes = append(m.compromiseNotes,
			fmt.Sprintf("BreachDirectory reports %d leaked records.", found))
	}
}

func (m *merger) mergeCompromiseCheck(data map[string]any) {
	status := strings.ToUpper(str(data["status"]))
	if status == "COMPROMISED" || status == "AT RISK" {
		m.compromised = true
		m.compromiseNotes = append(m.compromiseNotes,
			fmt.Sprintf("HudsonRock/COMB status: %s (score %v).", status, data["compromise_score"]))
	}
}

func (m *merger) finalize() {
	doc := m.doc
	if str(doc["name"]) == "" {
		doc["name"] = m.identifier
	}
	doc["usernames"] = m.usernames
	doc["links"] = m.links
	doc["emails"] = sortedKeys(m.emails)
	doc["possible_interests"] = sortedKeys(m.interests)
	doc["posts"] = m.posts
	doc["repositories"] = m.repos
	doc["relationship_graph"] = m.relationships
	doc["compromised"] = m.compromised

	platforms := make([]string, 0, len(m.usernames))
	for p := range m.usernames {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	var summaryBits []string
	if name := str(doc["name"]); name != "" {
		summaryBits = append(summaryBits, "Profile: "+name)
	}
	if len(platforms) > 0 {
		summaryBits = append(summaryBits, "Platforms: "+strings.Join(platforms, ", "))
	}
	if len(m.repos) > 0 {
		summaryBits = append(summaryBits, fmt.Sprintf("GitHub repositories: %d", len(m.repos)))
	}
	if len(m.posts) > 0 {
		summaryBits = append(summaryBits, fmt.Sprintf("Social posts collected: %d", len(m.posts)))
	}
	if m.compromised {
		summaryBits = append(summaryBits, "Compromised: YES")
	} else {
		summaryBits = append(summaryBits, "Compromised: NO")
	}
	if len(m.compromiseNotes) > 0 {
		summaryBits = append(summaryBits, strings.Join(m.compromiseNotes, "; "))
	}
	doc["summary"] = strings.Join(summaryBits, " | ")

	sort.SliceStable(m.events, func(i, j int) bool { return m.events[i].date < m.events[j].date })
	timelines := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		timelines = append(timelines, ev.date+": "+ev.label)
	}
	doc["key_timelines"] = timelines

	counts := map[string]int{}
	for _, item := range m.posts {
		if p := mp(item); p != nil {
			if plat := strings.ToLower(str(p["platform"])); plat != "" {
				counts[plat]++
			}
		}
	}
	var activityParts []string
	if len(counts) > 0 {
		names := make([]string, 0, len(counts))
		for plat := range counts {
			names = append(names, plat)
		}
		sort.Strings(names)
		pieces := make([]string, 0, len(names))
		for _, plat := range names {
			pieces = append(pieces, fmt.Sprintf("%s=%d posts", plat, counts[plat]))
		}
		activityParts = append(activityParts, "Activity: "+strings.Join(pieces, ", "))
	}
	if len(m.repos) > 0 {
		activityParts = append(activityParts, fmt.Sprintf("GitHub repos observed: %d", len(m.repos)))
	}
	if len(activityParts) > 0 {
		doc["activity_patterns"] = strings.Join(activityParts, " | ")
	}
	if len(m.compromiseNotes) > 0 {
		doc["behavioral_anomalies"] = m.compromiseNotes
	}

	classify(doc, platforms, len(m.repos))
}

// classify fills profile_type and about when the merge left them empty.
func classify(doc map[string]any, platforms []string, repoCount int) {
	profileType := str(doc["profile_type"])
	if profileType == "" {
		switch {
		case contains(platforms, "github") && repoCount > 0:
			profileType = "developer"
		case contains(platforms, "linkedin"):
			profileType = "professional"
		case contains(platforms, "twitter") || contains(platforms, "reddit"):
			profileType = "individual"
		case len(platforms) > 0:
			profileType = "online_profile"
		default:
			profileType = "unknown"
		}
		doc["profile_type"] = profileType
	}

	if str(doc["about"]) == "" {
		name := str(doc["name"])
		if name == "" {
			name = "This subject"
		}
		footprint := "limited visible platforms"
		if len(platforms) > 0 {
			titled := make([]string, len(platforms))
			for i, p := range platforms {
				titled[i] = strings.ToUpper(p[:1]) + p[1:]
			}
			footprint = strings.Join(titled, ", ")
		}
		repoPhrase := "with minimal code exposure"
		if repoCount > 0 {
			repoPhrase = "with public GitHub repositories"
		}
		doc["about"] = fmt.Sprintf("%s appears to be a %s active on %s %s.", name, profileType, footprint, repoPhrase)
	}
}

func inferPlatform(url string) string {
	host := url
	if idx := strings.Index(host, "://"); idx != -1 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/?#"); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(host)

	switch {
	case strings.Contains(host, "linkedin.com"):
		return "linkedin"
	case strings.Contains(host, "github.com"):
		return "github"
	case strings.Contains(host, "twitter.com"), strings.Contains(host, "x.com"):
		return "twitter"
	case strings.Contains(host, "reddit.com"):
		return "reddit"
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return "youtube"
	}
	return "other"
}
