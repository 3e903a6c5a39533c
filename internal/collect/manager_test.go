package collect

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/cache"
	"github.com/shadowhorn/shadowhorn/internal/model"
)

// fakeCollector counts invocations so cache behavior is observable.
type fakeCollector struct {
	platform string
	fail     bool
	calls    atomic.Int32
}

func (f *fakeCollector) Platform() string { return f.platform }

func (f *fakeCollector) Collect(ctx context.Context, identifier string) (*model.PlatformData, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return &model.PlatformData{
		Platform:    f.platform,
		Identifier:  identifier,
		Data:        map[string]any{"ok": true},
		CollectedAt: time.Now().UTC(),
	}, nil
}

func newTestManager(store cache.Cache, collectors ...Collector) *Manager {
	m := &Manager{
		collectors: map[string]Collector{},
		cache:      store,
		cacheTTL:   time.Minute,
		workers:    2,
	}
	for _, c := range collectors {
		m.Register(c)
	}
	return m
}

func TestManager_CollectAllPlatforms(t *testing.T) {
	m := newTestManager(nil,
		&fakeCollector{platform: "github"},
		&fakeCollector{platform: "snapchat"},
	)

	collected, errs := m.Collect(context.Background(), "octocat", nil)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(collected) != 2 {
		t.Fatalf("expected 2 results, got %d", len(collected))
	}
	// Results come back in platform order.
	if collected[0].Platform != "github" || collected[1].Platform != "snapchat" {
		t.Errorf("results not sorted: %s, %s", collected[0].Platform, collected[1].Platform)
	}
}

func TestManager_CollectSelectedPlatforms(t *testing.T) {
	gh := &fakeCollector{platform: "github"}
	snap := &fakeCollector{platform: "snapchat"}
	m := newTestManager(nil, gh, snap)

	collected, errs := m.Collect(context.Background(), "octocat", []string{" GitHub "})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(collected) != 1 || collected[0].Platform != "github" {
		t.Errorf("expected only github, got %v", collected)
	}
	if snap.calls.Load() != 0 {
		t.Error("unselected collector should not run")
	}
}

func TestManager_UnknownPlatform(t *testing.T) {
	m := newTestManager(nil, &fakeCollector{platform: "github"})

	collected, errs := m.Collect(context.Background(), "octocat", []string{"myspace"})

	if len(collected) != 0 {
		t.Errorf("expected no results, got %v", collected)
	}
	if len(errs) != 1 || errs[0].Platform != "myspace" {
		t.Fatalf("expected unknown-platform error, got %v", errs)
	}
}

func TestManager_PerPlatformErrorsAreNonFatal(t *testing.T) {
	m := newTestManager(nil,
		&fakeCollector{platform: "github"},
		&fakeCollector{platform: "snapchat", fail: true},
	)

	collected, errs := m.Collect(context.Background(), "octocat", nil)

	if len(collected) != 1 || collected[0].Platform != "github" {
		t.Errorf("expected the healthy platform's result, got %v", collected)
	}
	if len(errs) != 1 || errs[0].Platform != "snapchat" {
		t.Fatalf("expected one snapchat error, got %v", errs)
	}
}

func TestManager_CacheSkipsSecondFetch(t *testing.T) {
	gh := &fakeCollector{platform: "github"}
	m := newTestManager(cache.NewMemoryCache(time.Minute, time.Minute), gh)

	if _, errs := m.Collect(context.Background(), "octocat", nil); len(errs) != 0 {
		t.Fatalf("first run: %v", errs)
	}
	collected, errs := m.Collect(context.Background(), "octocat", nil)
	if len(errs) != 0 {
		t.Fatalf("second run: %v", errs)
	}

	if gh.calls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", gh.calls.Load())
	}
	if len(collected) != 1 || collected[0].Identifier != "octocat" {
		t.Errorf("cached result wrong: %v", collected)
	}
}

func TestManager_CacheIsPerIdentifier(t *testing.T) {
	gh := &fakeCollector{platform: "github"}
	m := newTestManager(cache.NewMemoryCache(time.Minute, time.Minute), gh)

	m.Collect(context.Background(), "octocat", nil)
	m.Collect(context.Background(), "torvalds", nil)

	if gh.calls.Load() != 2 {
		t.Errorf("distinct identifiers must not share cache entries, got %d calls", gh.calls.Load())
	}
}

func TestManager_Platforms(t *testing.T) {
	m := newTestManager(nil,
		&fakeCollector{platform: "snapchat"},
		&fakeCollector{platform: "github"},
		&fakeCollector{platform: "compromise"},
	)

	got := m.Platforms()
	want := []string{"compromise", "github", "snapchat"}
	if len(got) != len(want) {
		t.Fatalf("platforms = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("platforms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
