// =============================================================================
// Bump Chart Delta Reconciler - Reconciliation Caches
// =============================================================================
//
// Two memoization layers keep repeated datasource traffic down:
//
//   - PartKeyCache: part number + customer code -> part key. Persisted as a
//     JSON file and reused across runs; part keys are stable identifiers so
//     the cache never expires. Writes are atomic (temp file + rename) so a
//     crash mid-save cannot corrupt earlier entries.
//   - PriceMemo: in-run memo keyed by (part key, customer, PCN, month
//     start). Prices change month to month, so this one never persists.
//
// Both are safe for concurrent use; entries are write-once per key.
//
// =============================================================================

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// =============================================================================
// PART KEY CACHE
// =============================================================================

// PartKeyCache memoizes part-key lookups across runs.
type PartKeyCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// LoadPartKeyCache reads the persisted cache. A missing or unreadable file
// yields an empty cache, never an error: the cache is an optimization.
func LoadPartKeyCache(path string) *PartKeyCache {
	c := &PartKeyCache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]string)
	}
	return c
}

// Get returns the cached part key for a (part number, customer) pair.
// Lookups without a customer also consult the bare part number key, which
// older cache files used.
func (c *PartKeyCache) Get(partNo, customerCode string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.entries[compositeKey(partNo, customerCode)]; ok && key != "" {
		return key, true
	}
	if customerCode == "" {
		if key, ok := c.entries[partNo]; ok && key != "" {
			return key, true
		}
	}
	return "", false
}

// Put stores a resolved part key and persists the cache. Customer-less
// resolutions are stored under both the composite and the bare key.
func (c *PartKeyCache) Put(partNo, customerCode, partKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[compositeKey(partNo, customerCode)] = partKey
	if customerCode == "" {
		c.entries[partNo] = partKey
	}
	return c.saveLocked()
}

// Len reports the number of cached entries.
func (c *PartKeyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// saveLocked writes the cache with replace-on-write semantics. Callers hold mu.
func (c *PartKeyCache) saveLocked() error {
	if c.path == "" {
		return nil
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode part key cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write part key cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace part key cache: %w", err)
	}
	return nil
}

// compositeKey builds the canonical cache key. An empty customer is
// recorded as "none" to keep keys unambiguous.
func compositeKey(partNo, customerCode string) string {
	if customerCode == "" {
		customerCode = "none"
	}
	return partNo + "::" + customerCode
}

// =============================================================================
// PRICE MEMO
// =============================================================================

// PriceKey identifies one price lookup. Dates must be normalized to month
// start before keying; finer granularity would duplicate lookups the
// datasource treats as identical.
type PriceKey struct {
	PartKey      string
	CustomerCode string
	PCN          string
	MonthStart   string
}

// PriceEntry is a memoized price lookup outcome.
type PriceEntry struct {
	Price  float64
	Status string
	PONo   string
}

// PriceMemo memoizes price lookups within a run.
type PriceMemo struct {
	mu      sync.Mutex
	entries map[PriceKey]PriceEntry
}

// NewPriceMemo creates an empty price memo.
func NewPriceMemo() *PriceMemo {
	return &PriceMemo{entries: make(map[PriceKey]PriceEntry)}
}

// Get returns the memoized entry for a key.
func (m *PriceMemo) Get(key PriceKey) (PriceEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

// Put records an entry. The first write for a key wins; concurrent
// duplicate lookups are wasteful but harmless, so later writes are ignored
// rather than raced over.
func (m *PriceMemo) Put(key PriceKey, entry PriceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists {
		m.entries[key] = entry
	}
}
