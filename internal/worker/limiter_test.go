package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("https://api.github.com/users/octocat") {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if l.Allow("https://api.github.com/users/octocat") {
		t.Error("request beyond burst allowed")
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://api.github.com/users/octocat") {
		t.Fatal("first github request denied")
	}
	if l.Allow("https://api.github.com/repos") {
		t.Error("github bucket not shared across paths")
	}
	if !l.Allow("https://www.snapchat.com/add/ghost") {
		t.Error("snapchat should have its own bucket")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.1, 1)

	// Drain the only token.
	if err := l.Wait(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://example.com/b"); err == nil {
		t.Error("expected context deadline error while throttled")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)

	if err := l.Wait(context.Background(), "://bad url"); err == nil {
		t.Error("expected parse error")
	}
	if l.Allow("://bad url") {
		t.Error("unparseable URL must not be allowed")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)

	// Burst defaults to 5.
	for i := 0; i < 5; i++ {
		if !l.Allow("https://example.com/") {
			t.Fatalf("request %d within default burst denied", i)
		}
	}
	if l.Allow("https://example.com/") {
		t.Error("request beyond default burst allowed")
	}
}
