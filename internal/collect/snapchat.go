package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// SnapchatCollector scrapes a public Snapchat profile page. Snapchat has no
// public API for profiles, so the collector works off the embedded og:*
// metadata, JSON-LD blocks and the JSON the page ships for hydration.
type SnapchatCollector struct {
	client *Client
}

// NewSnapchatCollector creates a Snapchat collector.
func NewSnapchatCollector(client *Client) *SnapchatCollector {
	return &SnapchatCollector{client: client}
}

// Platform returns the collection name this collector produces.
func (s *SnapchatCollector) Platform() string {
	return "snapchat"
}

var (
	displayNameRe = regexp.MustCompile(`"displayName"\s*:\s*"([^"]+)"`)
	followersRe   = regexp.MustCompile(`"followers"\s*:\s*(\d+)`)
	followerTagRe = regexp.MustCompile(`>(\d+)\s*followers?<`)
	jsonLDRe      = regexp.MustCompile(`(?s)<script[^>]*type="application/ld\+json"[^>]*>(.*?)</script>`)
)

// Collect fetches and parses the public profile for a username.
func (s *SnapchatCollector) Collect(ctx context.Context, identifier string) (*model.PlatformData, error) {
	normalized := normalizeSnapUsername(identifier)
	profileURL := "https://www.snapchat.com/add/" + normalized

	page, err := s.client.GetHTML(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("snapchat profile %s: %w", normalized, err)
	}

	meta := extractMetaTags(page)

	profile := map[string]any{
		"username": normalized,
	}
	if title := meta["og:title"]; title != "" {
		profile["display_name"] = cleanSnapTitle(title)
	}
	if m := displayNameRe.FindStringSubmatch(page); m != nil {
		profile["display_name"] = m[1]
	}
	if desc := meta["og:description"]; desc != "" {
		profile["bio"] = desc
	}

	data := map[string]any{
		"normalized_username": normalized,
		"profile_url":         profileURL,
		"profile_info":        profile,
		"og_metadata":         toAnyValues(meta),
	}

	if count, ok := extractFollowerCount(page); ok {
		data["follower_count"] = count
		data["account_details"] = map[string]any{"follower_count": count}
	}

	if blocks := extractJSONLD(page); len(blocks) > 0 {
		data["schema_data"] = blocks
		for _, block := range blocks {
			b, ok := block.(map[string]any)
			if !ok {
				continue
			}
			if count, ok := followerCountFromSchema(b); ok {
				data["follower_count"] = count
				data["account_details"] = map[string]any{"follower_count": count}
			}
		}
	}

	return &model.PlatformData{
		Platform:    "snapchat",
		Identifier:  identifier,
		Data:        data,
		CollectedAt: time.Now().UTC(),
	}, nil
}

// normalizeSnapUsername strips the share-URL decorations people paste in.
func normalizeSnapUsername(raw string) string {
	name := strings.TrimSpace(strings.ToLower(raw))
	name = strings.TrimPrefix(name, "@")
	if idx := strings.Index(name, "snapchat.com/add/"); idx != -1 {
		name = name[idx+len("snapchat.com/add/"):]
	}
	if idx := strings.IndexAny(name, "/?#"); idx != -1 {
		name = name[:idx]
	}
	return name
}

// extractMetaTags walks the document and collects og:* and twitter:* meta
// properties.
func extractMetaTags(page string) map[string]string {
	tags := map[string]string{}
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return tags
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "property", "name":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if content != "" && (strings.HasPrefix(property, "og:") || strings.HasPrefix(property, "twitter:")) {
				tags[property] = content
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return tags
}

// cleanSnapTitle turns "Name (@user) | Snapchat" into "Name".
func cleanSnapTitle(title string) string {
	if idx := strings.Index(title, " | "); idx != -1 {
		title = title[:idx]
	}
	if idx := strings.Index(title, " (@"); idx != -1 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

func extractFollowerCount(page string) (int, bool) {
	for _, re := range []*regexp.Regexp{followersRe, followerTagRe} {
		if m := re.FindStringSubmatch(page); m != nil {
			if count, err := strconv.Atoi(m[1]); err == nil {
				return count, true
			}
		}
	}
	return 0, false
}

// extractJSONLD parses every application/ld+json script block that holds a
// valid JSON object or array.
func extractJSONLD(page string) []any {
	var blocks []any
	for _, m := range jsonLDRe.FindAllStringSubmatch(page, -1) {
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			continue
		}
		switch v := parsed.(type) {
		case []any:
			blocks = append(blocks, v...)
		default:
			blocks = append(blocks, v)
		}
	}
	return blocks
}

// followerCountFromSchema reads the FollowAction interaction statistic that
// Snapchat publishes for public figures.
func followerCountFromSchema(block map[string]any) (int, bool) {
	stats, ok := block["interactionStatistic"]
	if !ok {
		return 0, false
	}

	var entries []any
	switch v := stats.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries = []any{v}
	}

	for _, entry := range entries {
		stat, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		interaction := fmt.Sprintf("%v", stat["interactionType"])
		if !strings.Contains(interaction, "FollowAction") {
			continue
		}
		switch count := stat["userInteractionCount"].(type) {
		case float64:
			return int(count), true
		case string:
			if n, err := strconv.Atoi(count); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func toAnyValues(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
