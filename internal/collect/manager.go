package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/cache"
	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/worker"
)

// Collector is one platform's data source.
type Collector interface {
	Platform() string
	Collect(ctx context.Context, identifier string) (*model.PlatformData, error)
}

// Manager runs collectors for an identifier, fanning out across a worker
// pool and caching each platform's result.
type Manager struct {
	collectors map[string]Collector
	cache      cache.Cache
	cacheTTL   time.Duration
	workers    int
}

// NewManager builds a manager with the standard collector set. The cache
// may be nil to disable caching.
func NewManager(cfg *model.Config, store cache.Cache) *Manager {
	client := NewClient(cfg)

	m := &Manager{
		collectors: map[string]Collector{},
		cache:      store,
		cacheTTL:   cfg.Cache.MemoryTTL,
		workers:    cfg.Concurrency.CollectWorkers,
	}
	m.Register(NewGitHubCollector(client, cfg))
	m.Register(NewSnapchatCollector(client))
	m.Register(NewBreachDirectoryCollector(client, cfg))
	m.Register(NewCompromiseCollector(client))
	return m
}

// Register adds or replaces a collector.
func (m *Manager) Register(c Collector) {
	m.collectors[c.Platform()] = c
}

// Platforms returns the registered platform names, sorted.
func (m *Manager) Platforms() []string {
	names := make([]string, 0, len(m.collectors))
	for name := range m.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CollectError reports one platform's failure without aborting the run.
type CollectError struct {
	Platform string
	Err      error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Platform, e.Err)
}

// collectJob adapts one collector invocation to the worker pool.
type collectJob struct {
	manager    *Manager
	collector  Collector
	identifier string
}

// collectResult carries one platform's outcome out of the pool.
type collectResult struct {
	data *model.PlatformData
	err  *CollectError
}

func (r *collectResult) GetError() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func (j *collectJob) Execute(ctx context.Context) worker.Result {
	data, err := j.manager.collectOne(ctx, j.collector, j.identifier)
	if err != nil {
		return &collectResult{err: &CollectError{Platform: j.collector.Platform(), Err: err}}
	}
	return &collectResult{data: data}
}

// Collect runs the requested platforms for an identifier. An empty
// platforms list means all registered collectors. Per-platform failures
// are returned alongside the successful results.
func (m *Manager) Collect(ctx context.Context, identifier string, platforms []string) ([]model.PlatformData, []*CollectError) {
	selected := make([]Collector, 0, len(m.collectors))
	var errs []*CollectError

	if len(platforms) == 0 {
		for _, name := range m.Platforms() {
			selected = append(selected, m.collectors[name])
		}
	} else {
		for _, name := range platforms {
			c, ok := m.collectors[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				errs = append(errs, &CollectError{Platform: name, Err: fmt.Errorf("unknown platform")})
				continue
			}
			selected = append(selected, c)
		}
	}

	pool := worker.NewPool(m.workers)
	pool.Start()
	for _, c := range selected {
		pool.Submit(&collectJob{manager: m, collector: c, identifier: identifier})
	}

	var collected []model.PlatformData
	for _, result := range pool.Wait() {
		r := result.(*collectResult)
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		collected = append(collected, *r.data)
	}

	// Stable order for downstream correlation and rendering.
	sort.Slice(collected, func(i, j int) bool { return collected[i].Platform < collected[j].Platform })
	return collected, errs
}

// collectOne checks the cache before hitting the network.
func (m *Manager) collectOne(ctx context.Context, c Collector, identifier string) (*model.PlatformData, error) {
	key := cache.CollectionKey(c.Platform(), identifier)

	if m.cache != nil {
		if raw, found := m.cache.Get(key); found {
			var data model.PlatformData
			if err := json.Unmarshal(raw, &data); err == nil {
				return &data, nil
			}
		}
	}

	data, err := c.Collect(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = m.cache.Set(key, raw, m.cacheTTL)
		}
	}
	return data, nil
}
