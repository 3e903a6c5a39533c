package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Renderer writes pipeline outputs as JSON, to files or a stream. The JSON
// shapes here are the contract with the dashboard UI and the PDF exporter.
type Renderer struct {
	pretty bool
}

// NewRenderer creates a renderer. Pretty output indents with two spaces.
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// WriteJSON marshals v to the given path, or to stdout when path is "-".
func (r *Renderer) WriteJSON(v any, path string) error {
	if path == "-" || path == "" {
		return r.Encode(os.Stdout, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := r.Encode(f, v); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes v as JSON to w.
func (r *Renderer) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// RenderSummary prints the one-screen overview of an analysis to w.
func (r *Renderer) RenderSummary(w io.Writer, a *Analysis) {
	s := a.Summary
	fmt.Fprintf(w, "Subject:    %s\n", s.Name)
	fmt.Fprintf(w, "Risk:       %s", s.Risk.Level)
	if s.Risk.Reason != "" {
		fmt.Fprintf(w, " (%s)", s.Risk.Reason)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Footprint:  %s\n", s.Footprint)
	fmt.Fprintf(w, "Interests:  %s\n", s.Interests)
	fmt.Fprintf(w, "Activity:   %s\n", s.Activity)
	fmt.Fprintf(w, "Timeline:   %s\n", s.Timeline)
	fmt.Fprintf(w, "Graph:      %d node(s), %d edge(s)\n", len(a.Graph.Nodes), len(a.Graph.Links))
	fmt.Fprintf(w, "Indicators: %d observable(s)\n", s.IOCs.Total)
}

// RenderReport prints a report's sections as aligned label/value rows.
func (r *Renderer) RenderReport(w io.Writer, rep *model.Report) {
	fmt.Fprintf(w, "%s report for %s (generated %s)\n", rep.Meta.Department, rep.Meta.Name, rep.Meta.GeneratedAt)
	for _, section := range rep.Sections {
		fmt.Fprintf(w, "\n## %s\n", section.Title)
		for _, item := range section.Items {
			fmt.Fprintf(w, "  %-24s %s\n", item.Label+":", item.Value)
		}
	}
}
