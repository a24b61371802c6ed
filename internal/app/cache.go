package app

import (
	"sync"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// NameCache is the name -> id cache shared by all workers of one run.
// It is owned by the Driver and handed to each worker at construction.
//
// Individual operations are safe for concurrent use, but callers check and
// then insert without holding a lock across both steps. Two workers can
// therefore both miss on a name and both insert it remotely. Such duplicates
// are tolerated: the cache only saves work, correctness comes from diffing
// against a fresh TaxonTable.
type NameCache struct {
	m sync.Map // string -> cacheEntry
}

type cacheEntry struct {
	id       int64
	resolved bool
}

// NewNameCache returns a cache seeded with every name of table.
func NewNameCache(table domain.TaxonTable) *NameCache {
	c := &NameCache{}
	for name, id := range table {
		c.Resolve(name, id)
	}
	return c
}

// Known reports whether name exists remotely or was inserted during this run.
func (c *NameCache) Known(name string) bool {
	_, ok := c.m.Load(name)
	return ok
}

// ID returns the remote id of name when it is known.
func (c *NameCache) ID(name string) (int64, bool) {
	v, ok := c.m.Load(name)
	if !ok {
		return 0, false
	}
	e := v.(cacheEntry)
	return e.id, e.resolved
}

// Resolve records the remote id of name.
func (c *NameCache) Resolve(name string, id int64) {
	c.m.Store(name, cacheEntry{id: id, resolved: true})
}

// MarkInserted records that name was inserted but its id is not yet known.
// An already resolved entry is kept.
func (c *NameCache) MarkInserted(name string) {
	c.m.LoadOrStore(name, cacheEntry{})
}

// Len returns the number of cached names.
func (c *NameCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
