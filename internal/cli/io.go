package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shadowhorn/shadowhorn/internal/cache"
	"github.com/shadowhorn/shadowhorn/internal/model"
)

// readDocument loads a raw JSON document from a file, or from stdin when
// the path is "-". Correlation documents arrive in several wrappings, so
// the result is left untyped for the normalizer.
func readDocument(path string) (any, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// readCollected loads a collected-data JSON array written by the collect
// command.
func readCollected(path string) ([]model.PlatformData, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read collected data: %w", err)
	}

	var collected []model.PlatformData
	if err := json.Unmarshal(data, &collected); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return collected, nil
}

// newCache builds the layered cache from configuration, or nil when
// caching is disabled.
func newCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled || cfg.Cache.Dir == "" {
		return nil
	}
	return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
}
