package floor

import "github.com/zyedidia/generic/mapset"

// Coverage tracks which governed cells of the active map have been visited
// since the last reset, against the number of governed cells on the map.
type Coverage struct {
	visited mapset.Set[CellKey]
	target  int
}

// NewCoverage creates an empty tracker.
func NewCoverage() *Coverage {
	return &Coverage{visited: mapset.New[CellKey]()}
}

// RecordVisit adds a cell and reports whether this is its first visit.
func (c *Coverage) RecordVisit(k CellKey) bool {
	if c.visited.Has(k) {
		return false
	}
	c.visited.Put(k)
	return true
}

// Visited reports whether a cell has been visited.
func (c *Coverage) Visited(k CellKey) bool {
	return c.visited.Has(k)
}

// Count returns the number of distinct cells visited.
func (c *Coverage) Count() int {
	return c.visited.Size()
}

// Target returns the number of governed cells on the map.
func (c *Coverage) Target() int {
	return c.target
}

// IsComplete reports whether every governed cell has been visited.
// A map without governed cells is never complete.
func (c *Coverage) IsComplete() bool {
	return c.target > 0 && c.visited.Size() == c.target
}

// Keys returns the visited cells in no particular order.
func (c *Coverage) Keys() []CellKey {
	keys := make([]CellKey, 0, c.visited.Size())
	c.visited.Each(func(k CellKey) {
		keys = append(keys, k)
	})
	return keys
}

func (c *Coverage) setTarget(n int) {
	c.target = n
}
