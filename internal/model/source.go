package model

import "time"

// PlatformData is one collector's output for one identifier: the raw
// per-platform document fed into correlation (LLM or rule-based).
type PlatformData struct {
	Platform    string         `json:"platform"`
	Identifier  string         `json:"identifier"`
	Data        map[string]any `json:"data"`
	CollectedAt time.Time      `json:"collected_at"`
}
