// Package catalog holds the static category catalog. The catalog is the only
// configuration surface the briefing core reads: a fixed, ordered set of
// category descriptors initialized at process start and never mutated.
package catalog

import "techbrief/internal/core"

// defaultEntries is the built-in catalog. Icon values are opaque references
// resolved by the consuming front-end.
var defaultEntries = []core.CatalogEntry{
	{ID: "ai-models", Title: "AI Models, Frameworks & Tools", Icon: "brain"},
	{ID: "robotics", Title: "Robotics & Physical AI", Icon: "robot"},
	{ID: "science-space", Title: "Science & Space", Icon: "globe"},
	{ID: "hardware", Title: "Hardware & Quantum Computing", Icon: "chip"},
	{ID: "software", Title: "Software & Developer Tools", Icon: "code"},
	{ID: "consumer-tech", Title: "Consumer Tech & Gadgets", Icon: "smartphone"},
	{ID: "industry", Title: "Industry & Business", Icon: "briefcase"},
	{ID: "cybersecurity", Title: "Cybersecurity & Ethical Hacking", Icon: "shield"},
}

// Catalog is an ordered, read-only set of category entries with id lookup.
type Catalog struct {
	entries []core.CatalogEntry
	byID    map[string]core.CatalogEntry
}

// New builds a catalog from the given entries, preserving their order.
// Duplicate ids keep the first occurrence.
func New(entries []core.CatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]core.CatalogEntry, 0, len(entries)),
		byID:    make(map[string]core.CatalogEntry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		c.entries = append(c.entries, e)
		c.byID[e.ID] = e
	}
	return c
}

// Default returns a catalog with the built-in category set.
func Default() *Catalog {
	return New(defaultEntries)
}

// Entries returns the catalog entries in configured order. The returned
// slice is a copy; callers cannot mutate the catalog through it.
func (c *Catalog) Entries() []core.CatalogEntry {
	out := make([]core.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry for the given id, if present.
func (c *Catalog) Lookup(id string) (core.CatalogEntry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}
