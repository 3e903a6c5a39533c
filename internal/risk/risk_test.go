package risk

import (
	"strings"
	"testing"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

func derive(p *model.Profile) model.Risk {
	return NewScorer().Derive(p, model.CountsOf(p))
}

func TestDerive_CompromisedWithEmailIsHigh(t *testing.T) {
	p := &model.Profile{
		Name:        "octocat",
		Emails:      []string{"a@x.com"},
		Compromised: true,
	}

	r := derive(p)
	if r.Level != model.RiskHigh {
		t.Errorf("expected High (3+1=4), got %s", r.Level)
	}
	want := "Account compromise detected. Email addresses exposed."
	if r.Reason != want {
		t.Errorf("reason = %q, want %q", r.Reason, want)
	}
}

func TestDerive_EmptyProfileIsLowWithEmptyReason(t *testing.T) {
	r := derive(&model.Profile{})
	if r.Level != model.RiskLow {
		t.Errorf("expected Low, got %s", r.Level)
	}
	if r.Reason != "" {
		t.Errorf("expected empty reason, got %q", r.Reason)
	}
}

func TestDerive_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		profile *model.Profile
		want    model.RiskLevel
	}{
		{
			"single email only is Low",
			&model.Profile{Emails: []string{"a@x.com"}},
			model.RiskLow,
		},
		{
			"email plus reused handles is Moderate",
			&model.Profile{
				Emails:    []string{"a@x.com"},
				Usernames: []model.Username{{Handle: "a"}, {Handle: "b"}},
			},
			model.RiskModerate,
		},
		{
			"compromised alone is Moderate",
			&model.Profile{Compromised: true},
			model.RiskModerate,
		},
		{
			"everything fires is Critical",
			&model.Profile{
				Compromised: true,
				Summary:     "BreachDirectory reports 3 leaked records. HudsonRock/COMB status: COMPROMISED",
				Emails:      []string{"a@x.com"},
				Usernames:   []model.Username{{Handle: "a"}, {Handle: "b"}},
			},
			model.RiskCritical,
		},
	}

	for _, tt := range tests {
		if got := derive(tt.profile); got.Level != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got.Level, tt.want)
		}
	}
}

func TestDerive_SummaryTermSignals(t *testing.T) {
	breach := derive(&model.Profile{Summary: "Found via BreachDirectory lookup"})
	if breach.Level != model.RiskModerate {
		t.Errorf("breach-term mention should score 2 (Moderate), got %s", breach.Level)
	}
	if !strings.Contains(breach.Reason, "Breach directory") {
		t.Errorf("reason missing breach clause: %q", breach.Reason)
	}

	compromise := derive(&model.Profile{Summary: "hudsonrock flagged stealer logs"})
	if compromise.Level != model.RiskModerate {
		t.Errorf("compromise-term mention should score 2 (Moderate), got %s", compromise.Level)
	}

	// Term matching is case-insensitive substring search.
	upper := derive(&model.Profile{Summary: "SEEN IN BREACH DIRECTORY DUMPS"})
	if upper.Level != model.RiskModerate {
		t.Errorf("case-insensitive match failed, got %s", upper.Level)
	}
}

func TestDerive_FootprintSignals(t *testing.T) {
	repos := make([]model.Repository, 4)
	posts := make([]model.Post, 21)

	r := derive(&model.Profile{Repositories: repos, Posts: posts})
	// +1 repos, +1 posts = 2 → Moderate
	if r.Level != model.RiskModerate {
		t.Errorf("expected Moderate, got %s", r.Level)
	}
	if !strings.Contains(r.Reason, "developer footprint") {
		t.Errorf("reason missing repo clause: %q", r.Reason)
	}
	if !strings.Contains(r.Reason, "posting volume") {
		t.Errorf("reason missing post clause: %q", r.Reason)
	}

	// Boundary: exactly 3 repos and 20 posts fire nothing.
	r = derive(&model.Profile{Repositories: repos[:3], Posts: posts[:20]})
	if r.Level != model.RiskLow || r.Reason != "" {
		t.Errorf("boundary values should not fire: %s %q", r.Level, r.Reason)
	}
}

func TestDerive_ReasonClauseOrder(t *testing.T) {
	p := &model.Profile{
		Compromised: true,
		Emails:      []string{"a@x.com"},
		Usernames:   []model.Username{{Handle: "a"}, {Handle: "b"}},
	}

	r := derive(p)
	compromiseIdx := strings.Index(r.Reason, "Account compromise")
	emailIdx := strings.Index(r.Reason, "Email addresses")
	handleIdx := strings.Index(r.Reason, "Handles reused")
	if !(compromiseIdx < emailIdx && emailIdx < handleIdx) {
		t.Errorf("clauses out of check order: %q", r.Reason)
	}
}

func TestDerive_NilProfile(t *testing.T) {
	r := NewScorer().Derive(nil, model.Counts{})
	if r.Level != model.RiskLow || r.Reason != "" {
		t.Errorf("nil profile should be Low with empty reason, got %s %q", r.Level, r.Reason)
	}
}

func TestDerive_CustomTerms(t *testing.T) {
	scorer := NewScorerWithTerms(TermSet{Breach: []string{"leakzone"}})
	p := &model.Profile{Summary: "indexed on LeakZone"}

	r := scorer.Derive(p, model.CountsOf(p))
	if r.Level != model.RiskModerate {
		t.Errorf("custom breach term did not fire, got %s", r.Level)
	}
}
