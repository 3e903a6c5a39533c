// Package pipeline chains the correlation core: normalize the raw document,
// project the graph, synthesize risk, and compose reports. One invocation is
// a pure, synchronous, single-pass transformation with no shared mutable
// state, so pipelines are safe to use concurrently across documents.
package pipeline

import (
	"github.com/shadowhorn/shadowhorn/internal/graph"
	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/normalize"
	"github.com/shadowhorn/shadowhorn/internal/report"
	"github.com/shadowhorn/shadowhorn/internal/risk"
)

// Pipeline bundles the core transformation stages.
type Pipeline struct {
	projector *graph.Projector
	scorer    *risk.Scorer
	builder   *report.Builder
	config    *model.Config
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	return &Pipeline{
		projector: graph.NewProjector(),
		scorer:    risk.NewScorer(),
		builder:   report.NewBuilder(),
		config:    cfg,
	}
}

// Analysis is the complete result of one pipeline invocation.
type Analysis struct {
	Profile *model.Profile         `json:"profile"`
	Counts  model.Counts           `json:"counts"`
	Risk    model.Risk             `json:"risk"`
	Graph   *model.Graph           `json:"graph"`
	Summary model.DashboardSummary `json:"summary"`
}

// Analyze runs the full chain over one correlation document. An undecodable
// document yields an analysis over the empty profile: empty graph, Low risk,
// fallback narrative strings. There is no error path by design.
func (p *Pipeline) Analyze(doc any) *Analysis {
	profile, ok := normalize.Decode(doc)
	if !ok {
		profile = &model.Profile{}
	}

	counts := model.CountsOf(profile)
	assessment := p.scorer.Derive(profile, counts)

	return &Analysis{
		Profile: profile,
		Counts:  counts,
		Risk:    assessment,
		Graph:   p.projector.ProjectProfile(profile),
		Summary: p.summarize(profile, counts, assessment),
	}
}

// Graph projects just the identity graph from a raw document.
func (p *Pipeline) Graph(doc any) *model.Graph {
	return p.projector.Project(doc)
}

// Report composes a department report from a raw document.
func (p *Pipeline) Report(department string, doc any, reqctx model.RequestContext) *model.Report {
	return p.builder.Build(department, doc, reqctx)
}

// ComprehensiveReport composes the single full-detail report.
func (p *Pipeline) ComprehensiveReport(doc any, reqctx model.RequestContext) *model.Report {
	return p.builder.BuildComprehensive(doc, reqctx)
}

// Summarize produces the compact dashboard projection from a raw document.
func (p *Pipeline) Summarize(doc any) model.DashboardSummary {
	profile, ok := normalize.Decode(doc)
	if !ok {
		profile = &model.Profile{}
	}
	counts := model.CountsOf(profile)
	return p.summarize(profile, counts, p.scorer.Derive(profile, counts))
}

func (p *Pipeline) summarize(profile *model.Profile, counts model.Counts, assessment model.Risk) model.DashboardSummary {
	return model.DashboardSummary{
		Identifier: profile.Identifier,
		Name:       profile.Subject(),
		Risk:       assessment,
		Counts:     counts,
		Footprint:  risk.FootprintSummary(profile),
		Interests:  risk.InterestSummary(profile),
		Activity:   risk.ActivitySummary(profile, counts),
		Timeline:   risk.TimelineSummary(profile),
		IOCs:       risk.ExtractIOCs(profile),
	}
}
