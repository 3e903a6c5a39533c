package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// briefInstruction returns the focus-specific guidance prepended to an
// intelligence brief prompt. "combined" and its aliases ask for one holistic
// brief covering all four report tracks.
func briefInstruction(department string) string {
	key := strings.ToLower(strings.TrimSpace(department))
	if key == "" {
		key = "osint"
	}

	switch key {
	case "combined", "all", "summary", "intel", "intelligence":
		return "Write a single holistic cyber-intelligence brief for this profile. " +
			"Cover four perspectives in one flowing narrative: " +
			"(1) OSINT exposure and public footprint, " +
			"(2) threat intelligence relevance and key indicators, " +
			"(3) offensive security / recon value for attackers, and " +
			"(4) any malware or stealer ecosystem relevance. " +
			"Tie these together into a coherent story and finish with 3-5 clear next actions."
	case "osint", "overview":
		return "Write an OSINT-focused intelligence brief for this profile. " +
			"Explain overall exposure, key public identifiers, notable repositories and social posts, " +
			"and whether any breach or compromise evidence materially increases risk."
	case "threat-intel", "threat intel", "ti":
		return "Write a threat-intelligence brief for a SOC audience. " +
			"Highlight indicators of compromise (emails, usernames, URLs, repositories), likely TTPs, " +
			"and how this identity could intersect with ongoing or future campaigns."
	case "pentesting", "offensive", "recon":
		return "Write an offensive security / red-team recon brief. " +
			"Describe what an attacker can learn from this profile, including attack surface, " +
			"potential phishing angles, and technical footprint."
	case "malware-rev", "malware", "reverse", "re":
		return "Write a malware and reverse-engineering oriented brief. " +
			"Discuss any relevance to stealers, loaders or tooling, and how this identity's assets " +
			"could be abused in malware ecosystems."
	}
	return "Write a concise cyber-intelligence brief suitable for senior stakeholders. " +
		"Summarize exposure, risk and recommended next actions."
}

// Brief is a generated narrative intelligence brief.
type Brief struct {
	Identifier string `json:"identifier"`
	Department string `json:"department"`
	Text       string `json:"text"`
	Model      string `json:"model"`
}

// GenerateBrief turns an existing correlation document into a prose
// intelligence brief for the given focus.
func (c *Correlator) GenerateBrief(ctx context.Context, identifier, department string, doc map[string]any) (*Brief, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("no correlation data for %s", identifier)
	}

	profileJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal correlation document: %w", err)
	}

	prompt := "Given the following correlated OSINT profile JSON, write a single cohesive prose briefing. " +
		"Use 8-14 sentences, avoid bullet points and markdown, and answer in English only. " +
		briefInstruction(department) +
		"\n\nCorrelation JSON profile:\n" + string(profileJSON)

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		System: "You are the ShadowHorn reporting assistant.",
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("generate brief for %s: %w", identifier, err)
	}

	text := strings.TrimSpace(thinkTagRe.ReplaceAllString(resp.Text, ""))
	if text == "" {
		return nil, fmt.Errorf("empty brief from %s", c.provider.Name())
	}

	return &Brief{
		Identifier: identifier,
		Department: department,
		Text:       text,
		Model:      resp.Model,
	}, nil
}
