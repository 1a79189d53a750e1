package floor

import (
	"sort"

	"github.com/samdwyer/brittlefloor/internal/host"
)

// DiffEntry records what a tile looked like before the subsystem touched it
// and what it looks like now.
type DiffEntry struct {
	Original int `json:"orig"`
	Current  int `json:"cur"`
}

// CellIndex returns the flat tile-data index of (x, y) on layer z.
func CellIndex(width, height, x, y, z int) int {
	return (z*height+y)*width + x
}

// SplitIndex is the inverse of CellIndex.
func SplitIndex(width, height, index int) (x, y, z int) {
	x = index % width
	y = (index / width) % height
	z = index / (width * height)
	return x, y, z
}

// DiffStore is the sparse record of every tile the subsystem has modified,
// grouped by map id and keyed by flat cell index. It is the source of truth
// for restoring a map to its pristine tiles.
type DiffStore struct {
	buckets map[int]map[int]*DiffEntry
}

// NewDiffStore creates an empty store.
func NewDiffStore() *DiffStore {
	return &DiffStore{buckets: make(map[int]map[int]*DiffEntry)}
}

// Record notes that the tile at index changed from oldID to newID.
// The first record of a cell fixes its original id.
func (d *DiffStore) Record(mapID, index, oldID, newID int) {
	if oldID == newID {
		return
	}
	b, ok := d.buckets[mapID]
	if !ok {
		b = make(map[int]*DiffEntry)
		d.buckets[mapID] = b
	}
	e, ok := b[index]
	if !ok {
		e = &DiffEntry{Original: oldID}
		b[index] = e
	}
	e.Current = newID
}

// Entry returns the recorded diff of one cell.
func (d *DiffStore) Entry(mapID, index int) (DiffEntry, bool) {
	e, ok := d.buckets[mapID][index]
	if !ok {
		return DiffEntry{}, false
	}
	return *e, true
}

// Len returns the number of cells recorded for a map.
func (d *DiffStore) Len(mapID int) int {
	return len(d.buckets[mapID])
}

// Apply writes every recorded current tile back into the live map.
func (d *DiffStore) Apply(m host.TileMap) int {
	return d.write(m, func(e *DiffEntry) int { return e.Current })
}

// Revert writes every recorded original tile back into the live map and
// discards the map's bucket.
func (d *DiffStore) Revert(m host.TileMap) int {
	n := d.write(m, func(e *DiffEntry) int { return e.Original })
	delete(d.buckets, m.ID())
	return n
}

// Drop discards a map's bucket without touching tiles.
func (d *DiffStore) Drop(mapID int) {
	delete(d.buckets, mapID)
}

func (d *DiffStore) write(m host.TileMap, pick func(*DiffEntry) int) int {
	b := d.buckets[m.ID()]
	if len(b) == 0 {
		return 0
	}
	w, h := m.Width(), m.Height()
	if w <= 0 || h <= 0 {
		return 0
	}

	// Sorted so writes are deterministic.
	indices := make([]int, 0, len(b))
	for i := range b {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		x, y, z := SplitIndex(w, h, i)
		m.SetTileID(x, y, z, pick(b[i]))
	}
	return len(indices)
}

// Snapshot returns a deep copy of every bucket.
func (d *DiffStore) Snapshot() map[int]map[int]DiffEntry {
	out := make(map[int]map[int]DiffEntry, len(d.buckets))
	for id, b := range d.buckets {
		cp := make(map[int]DiffEntry, len(b))
		for i, e := range b {
			cp[i] = *e
		}
		out[id] = cp
	}
	return out
}

// Load replaces the store's contents.
func (d *DiffStore) Load(buckets map[int]map[int]DiffEntry) {
	d.buckets = make(map[int]map[int]*DiffEntry, len(buckets))
	for id, b := range buckets {
		if len(b) == 0 {
			continue
		}
		cp := make(map[int]*DiffEntry, len(b))
		for i, e := range b {
			e := e
			cp[i] = &e
		}
		d.buckets[id] = cp
	}
}
