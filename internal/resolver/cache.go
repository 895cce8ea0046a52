package resolver

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/terralode/facility-cli/internal/model"
)

var foldCaser = cases.Fold()

// cacheKey normalizes query text for cache lookup: trimmed and Unicode
// case-folded. Normalization is for keying only; the original text is what
// goes to the matcher.
func cacheKey(raw string) string {
	return foldCaser.String(strings.TrimSpace(raw))
}

// Cache memoizes resolver results by normalized query text for the life of
// one run. Nil results are cached too, so a known-unresolvable name is not
// re-queried. No TTL. Not thread-safe: concurrent resolution workers need an
// external lock or separate resolvers.
type Cache struct {
	entries map[string]*model.ResolvedCompany
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*model.ResolvedCompany)}
}

// Get returns the cached result and whether the key was present. A present
// nil value means the name is known to be unresolvable.
func (c *Cache) Get(key string) (*model.ResolvedCompany, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a result (possibly nil) under the key.
func (c *Cache) Put(key string, company *model.ResolvedCompany) {
	c.entries[key] = company
}

// Len returns the number of cached entries, counting negative results.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.entries = make(map[string]*model.ResolvedCompany)
}
