package collect

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

var emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

func isEmail(s string) bool {
	return emailRe.MatchString(s)
}

// BreachDirectoryCollector queries the BreachDirectory RapidAPI endpoint
// for leaked records tied to an email or username.
type BreachDirectoryCollector struct {
	client *Client
	apiKey string
}

// NewBreachDirectoryCollector creates a BreachDirectory collector. A
// RapidAPI key is required.
func NewBreachDirectoryCollector(client *Client, cfg *model.Config) *BreachDirectoryCollector {
	return &BreachDirectoryCollector{client: client, apiKey: cfg.Collect.BreachAPIKey}
}

// Platform returns the collection name this collector produces.
func (b *BreachDirectoryCollector) Platform() string {
	return "breachdirectory"
}

// Collect looks the identifier up in BreachDirectory.
func (b *BreachDirectoryCollector) Collect(ctx context.Context, identifier string) (*model.PlatformData, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("breachdirectory API key not configured")
	}

	lookupURL := "https://breachdirectory.p.rapidapi.com/?func=auto&term=" + url.QueryEscape(identifier)
	headers := map[string]string{
		"x-rapidapi-host": "breachdirectory.p.rapidapi.com",
		"x-rapidapi-key":  b.apiKey,
	}

	var data map[string]any
	if err := b.client.GetJSON(ctx, lookupURL, headers, &data); err != nil {
		return nil, fmt.Errorf("breachdirectory lookup %s: %w", identifier, err)
	}

	return &model.PlatformData{
		Platform:    "breachdirectory",
		Identifier:  identifier,
		Data:        data,
		CollectedAt: time.Now().UTC(),
	}, nil
}

// CompromiseCollector checks the HudsonRock Cavalier info-stealer index
// and the ProxyNova COMB corpus, then derives a compromise score and
// status from both.
type CompromiseCollector struct {
	client *Client
}

// NewCompromiseCollector creates a compromise-check collector. Neither
// upstream requires an API key.
func NewCompromiseCollector(client *Client) *CompromiseCollector {
	return &CompromiseCollector{client: client}
}

// Platform returns the collection name this collector produces.
func (c *CompromiseCollector) Platform() string {
	return "compromise"
}

// Collect runs both lookups and scores the result. Score is the capped sum
// of COMB leak lines and HudsonRock stealer services; 50 and up means
// COMPROMISED, 20 and up AT RISK.
func (c *CompromiseCollector) Collect(ctx context.Context, identifier string) (*model.PlatformData, error) {
	combFound, combLeaks := c.fetchCOMB(ctx, identifier)
	hudson := c.fetchHudsonRock(ctx, identifier)

	score := 0
	if combFound > 0 {
		score += minInt(combFound, 50)
	}
	if services := intFromMap(hudson, "total_user_services"); services > 0 {
		score += minInt(services, 50)
	}

	status := "SAFE"
	switch {
	case score >= 50:
		status = "COMPROMISED"
	case score >= 20:
		status = "AT RISK"
	}

	return &model.PlatformData{
		Platform:   "compromise",
		Identifier: identifier,
		Data: map[string]any{
			"username_or_email": identifier,
			"comb_leaks_found":  combFound,
			"comb_leaks":        combLeaks,
			"hudsonrock_data":   hudson,
			"compromise_score":  score,
			"status":            status,
		},
		CollectedAt: time.Now().UTC(),
	}, nil
}

func (c *CompromiseCollector) fetchCOMB(ctx context.Context, identifier string) (int, []any) {
	combURL := fmt.Sprintf("https://api.proxynova.com/comb?query=%s&start=0&limit=100", url.QueryEscape(identifier))

	var data map[string]any
	if err := c.client.GetJSON(ctx, combURL, nil, &data); err != nil {
		return 0, []any{}
	}
	lines, _ := data["lines"].([]any)
	return len(lines), lines
}

func (c *CompromiseCollector) fetchHudsonRock(ctx context.Context, identifier string) map[string]any {
	var lookupURL string
	if isEmail(identifier) {
		lookupURL = "https://cavalier.hudsonrock.com/api/json/v2/osint-tools/search-by-email?email=" + url.QueryEscape(identifier)
	} else {
		lookupURL = "https://cavalier.hudsonrock.com/api/json/v2/osint-tools/search-by-username?username=" + url.QueryEscape(identifier)
	}

	var data map[string]any
	if err := c.client.GetJSON(ctx, lookupURL, nil, &data); err != nil {
		return map[string]any{"message": "No data found", "stealers": []any{}}
	}
	return data
}

func intFromMap(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
