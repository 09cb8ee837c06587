package agg

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/fxamacker/cbor/v2"
)

// currentCacheVersion defines the version of the cached signal encoding
const currentCacheVersion = 1

// defaultTTL applies when the caller passes no staleness window.
const defaultTTL = 7 * 24 * time.Hour

// CachedLoadSignals loads the signal tables through the signal cache. Entries are
// keyed by the file's content, so an edited file is always re-read; a nil store
// falls back to LoadSignals.
func CachedLoadSignals(path string, store contract.CacheStore, ttl time.Duration) (*algo.Signals, error) {
	if path == "" || store == nil {
		return LoadSignals(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read signals: %w", err)
	}
	key := generateCacheKey(data)

	// Check for cache hit
	if file := checkCacheHit(store, key, ttl); file != nil {
		return file.Signals(), nil
	}

	// Cache miss: compute and store
	file, err := ParseSignals(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("cannot parse signals %s: %w", path, err)
	}
	if payload, err := cbor.Marshal(file); err == nil {
		if err := store.Set(key, payload, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Cannot cache signals", err)
		}
	}
	return file.Signals(), nil
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) *SignalsFile {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > ttl {
		return nil
	}

	var file SignalsFile
	if err := cbor.Unmarshal(data, &file); err != nil {
		return nil
	}
	return &file
}

// generateCacheKey creates a unique key from the cache version and file content.
func generateCacheKey(content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "signals:v%d:", currentCacheVersion)
	_, _ = h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}
