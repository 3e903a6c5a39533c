package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// schemaDescription pins the correlation JSON contract the model must emit.
// The normalizer tolerates drift, but anchoring the schema in the prompt
// keeps most replies directly usable.
const schemaDescription = `The JSON object MUST use exactly the following top-level schema:
- "name": string or null - real name or primary identifier.
- "profile_type": string or null - short label such as "developer", "influencer", "organization".
- "about": string or null - 1-3 sentence description of who this profile appears to be.
- "usernames": object - keys are platform names, values are {"handle": string or null, "url": string or null, "bio": string or null}.
- "bio": string or null - concise primary bio text if available.
- "emails": array of strings - unique email addresses or empty array.
- "primary_location": string or null - city/country or best-effort location.
- "posts": array of objects - each {"platform", "title", "url", "date", "metrics"}.
- "repositories": array of objects - each {"name", "url", "description", "language", "stars", "forks"}.
- "activity_patterns": string or null - short summary of observed posting or coding behaviour.
- "possible_interests": array of strings - topics, technologies, or communities inferred from data.
- "relationship_graph": array of objects - each {"username", "platform", "type", "url"}.
- "behavioral_anomalies": array of strings - unusual patterns, red flags, or anomalies.
- "key_timelines": array of strings - important dated events, each "<date>: <event>".
- "links": object - keys are labels (github, twitter, website, ...) and values are URL strings.
- "compromised": boolean - true only on credible evidence of compromise.
- "summary": string or null - machine-friendly one-paragraph summary of the profile.
- "llm_analysis": string or null - optional longer narrative.

Rules:
- Do NOT add or remove top-level keys. Always include all of them.
- When you have no confident value, use null (strings) or an empty array/object of the correct type.
- The output must be a single JSON object with no text before or after it.`

// Correlator turns collected per-platform documents into a correlation
// document by prompting a configured backend and tolerantly parsing the
// reply.
type Correlator struct {
	provider Provider
	config   Config
}

// NewCorrelator creates a correlator. Returns an error when the configured
// provider cannot be constructed, and a nil correlator when no provider is
// configured.
func NewCorrelator(config Config) (*Correlator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Correlator{provider: provider, config: config}, nil
}

// Provider exposes the underlying backend.
func (c *Correlator) Provider() Provider {
	return c.provider
}

// Correlate prompts the backend with the collected OSINT data and returns
// the parsed correlation document. Mode is "fast" or "deep"; anything else
// falls back to deep.
func (c *Correlator) Correlate(ctx context.Context, identifier, mode string, collected []model.PlatformData) (map[string]any, error) {
	osintJSON, err := json.MarshalIndent(collected, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal OSINT data: %w", err)
	}

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		System: "You are the ShadowHorn OSINT & Threat Intelligence correlation assistant.",
		Prompt: BuildCorrelationPrompt(mode, string(osintJSON)),
	})
	if err != nil {
		return nil, fmt.Errorf("correlate %s: %w", identifier, err)
	}

	doc, err := ParseCorrelationReply(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("parse correlation reply for %s: %w", identifier, err)
	}
	return doc, nil
}

// BuildCorrelationPrompt assembles the full correlation prompt.
func BuildCorrelationPrompt(mode, osintData string) string {
	var b strings.Builder
	b.WriteString(`Analyze the provided OSINT JSON data and output a single VALID JSON object (no prose, no markdown, no code fences).

Context:
- The input is OSINT data collected from multiple sources (social media, code repos, breach lookups).
- Produce structured intelligence suitable for automated reports and downstream processing.
- If a user appears compromised and it is not a clear false positive, set "compromised": true.
- Always include links to supporting evidence where available.

Required JSON schema:
`)
	b.WriteString(schemaDescription)
	b.WriteString("\n\nOSINT data:\n")
	b.WriteString(osintData)
	b.WriteString("\n")

	if mode == "fast" {
		b.WriteString(`
Mode: FAST correlation.
- Prioritize high-confidence, easy-to-derive signals.
- At minimum, fill: name, profile_type, about, usernames, emails, primary_location, links, compromised, summary.
- Remaining fields may stay null or empty, but every key MUST exist.
`)
	} else {
		b.WriteString(`
Mode: DEEP correlation.
- Perform comprehensive correlation across all available platform data.
- Populate as many schema fields as possible, including activity_patterns, possible_interests,
  relationship_graph, behavioral_anomalies, key_timelines, and a high-quality summary and llm_analysis.
`)
	}
	return b.String()
}

var (
	codeFenceRe = regexp.MustCompile("```(?:json|js|text)?\\s*")
	thinkTagRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// CleanModelText strips the wrappers models commonly add around JSON:
// reasoning tags, code fences, and commentary before or after the object.
// Returns the first-to-last brace span when one exists.
func CleanModelText(text string) string {
	if text == "" {
		return ""
	}
	text = thinkTagRe.ReplaceAllString(text, "")
	text = codeFenceRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		return strings.TrimSpace(text[first : last+1])
	}
	return text
}

// ParseCorrelationReply cleans and unmarshals a model reply into the raw
// correlation document map.
func ParseCorrelationReply(text string) (map[string]any, error) {
	cleaned := CleanModelText(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model reply")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}
	return doc, nil
}
