package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits collector requests per host, so hammering the GitHub
// API does not throttle Snapchat scraping and vice versa. Hosts get
// independent token buckets created on first use.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	perHost rate.Limit
	burst   int
}

// NewLimiter creates a limiter allowing requestsPerSecond per host.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		perHost: rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until the URL's host has a token, or the context ends.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request to the URL's host may proceed right now.
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.bucket(host).Allow()
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.RLock()
	bucket, ok := l.buckets[host]
	l.mu.RUnlock()
	if ok {
		return bucket
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if bucket, ok := l.buckets[host]; ok {
		return bucket
	}
	bucket = rate.NewLimiter(l.perHost, l.burst)
	l.buckets[host] = bucket
	return bucket
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
