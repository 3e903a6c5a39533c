package cache

import (
	"testing"
	"time"
)

func TestKeyNamespaces(t *testing.T) {
	collect := CollectionKey("github", "octocat")
	correlate := CorrelationKey("octocat", "deep")

	if collect == correlate {
		t.Error("collection and correlation keys must not collide")
	}
	if CollectionKey("github", "octocat") != collect {
		t.Error("keys must be stable")
	}
	if CollectionKey("twitter", "octocat") == collect {
		t.Error("platform must be part of the collection key")
	}
	if CorrelationKey("octocat", "fast") == correlate {
		t.Error("mode must be part of the correlation key")
	}
	// Identifier and platform must not be able to collide by concatenation.
	if CollectionKey("git", "hub-octocat") == CollectionKey("github", "-octocat") {
		t.Error("key fields are not separated")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key still present")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry still served")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := CollectionKey("github", "octocat")
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("get = %q, %v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("deleted key still present")
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a missing key should not error: %v", err)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry still served")
	}
}

func TestDiskCache_DefaultTTL(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("entry written with default TTL should still be live")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	writer := NewLayeredCache(time.Minute, dir, time.Minute)
	if err := writer.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh layered cache over the same directory has a cold memory tier
	// and must fall through to disk.
	reader := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := reader.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("disk fallthrough failed: %q, %v", val, found)
	}

	// The hit was promoted: the memory tier now serves it directly.
	if val, found := reader.memory.Get("k"); !found || string(val) != "v" {
		t.Error("disk hit not promoted to memory")
	}
}

func TestLayeredCache_Clear(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("cleared entry still present")
	}
}
