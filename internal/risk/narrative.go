package risk

import (
	"fmt"
	"strings"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Narrative helpers are pure functions of the canonical profile. Each
// returns a display string and never fails; empty inputs yield fixed
// fallback messages rather than empty output.

// NoFootprintMessage is returned when neither usernames nor links resolved.
const NoFootprintMessage = "No resolvable public profiles identified"

// FootprintSummary lists every resolved platform handle plus up to five
// profile link URLs.
func FootprintSummary(p *model.Profile) string {
	if p == nil {
		return NoFootprintMessage
	}
	var parts []string
	for _, u := range p.Usernames {
		parts = append(parts, fmt.Sprintf("%s (@%s)", u.Platform, u.Handle))
	}
	for i, link := range p.Links {
		if i >= 5 {
			break
		}
		parts = append(parts, link.URL)
	}
	if len(parts) == 0 {
		return NoFootprintMessage
	}
	return strings.Join(parts, ", ")
}

// InterestSummary joins up to eight identified interests.
func InterestSummary(p *model.Profile) string {
	if p == nil || len(p.Interests) == 0 {
		return "No clear interests identified"
	}
	interests := p.Interests
	if len(interests) > 8 {
		interests = interests[:8]
	}
	return strings.Join(interests, ", ")
}

// ActivitySummary concatenates the reported activity pattern (when present)
// with a fixed-format sentence over the collection counts.
func ActivitySummary(p *model.Profile, counts model.Counts) string {
	countsSentence := fmt.Sprintf("Collected %d email(s), %d username(s), %d post(s) and %d repositorie(s).",
		counts.Emails, counts.Usernames, counts.Posts, counts.Repos)
	if p == nil || p.Activity == "" {
		return countsSentence
	}
	activity := p.Activity
	if !strings.HasSuffix(activity, ".") {
		activity += "."
	}
	return activity + " " + countsSentence
}

// TimelineSummary reports the activity window spanned by the key timeline
// entries. Entries are assumed to already be in source order; no date
// parsing or sorting happens here, and entry text is reproduced verbatim.
func TimelineSummary(p *model.Profile) string {
	if p == nil || len(p.Timelines) == 0 {
		return "No timeline data recorded"
	}
	if len(p.Timelines) == 1 {
		return "Earliest milestone: " + p.Timelines[0].Raw
	}
	first := p.Timelines[0].Raw
	last := p.Timelines[len(p.Timelines)-1].Raw
	return fmt.Sprintf("Activity window from %q to %q", first, last)
}

// ExtractIOCs samples up to three observables of each kind (emails, handles,
// repositories, link URLs) into labeled indicator items. Total counts every
// observable in the profile, not just the sampled ones.
func ExtractIOCs(p *model.Profile) model.IOCSummary {
	if p == nil {
		return model.IOCSummary{Items: []model.Indicator{noIndicators()}}
	}

	var items []model.Indicator
	sample := func(kind string, values []string) {
		for i, v := range values {
			if i >= 3 {
				break
			}
			items = append(items, model.Indicator{Kind: kind, Value: v})
		}
	}

	var handles []string
	for _, u := range p.Usernames {
		handles = append(handles, u.Handle)
	}
	var repos []string
	for _, r := range p.Repositories {
		if r.URL != "" {
			repos = append(repos, r.URL)
		} else {
			repos = append(repos, r.Name)
		}
	}
	var links []string
	for _, l := range p.Links {
		links = append(links, l.URL)
	}

	sample("email", p.Emails)
	sample("handle", handles)
	sample("repository", repos)
	sample("link", links)

	total := len(p.Emails) + len(handles) + len(repos) + len(links)
	if total == 0 {
		return model.IOCSummary{Items: []model.Indicator{noIndicators()}}
	}
	return model.IOCSummary{Total: total, Items: items}
}

func noIndicators() model.Indicator {
	return model.Indicator{Kind: "none", Value: "No observable indicators extracted"}
}
