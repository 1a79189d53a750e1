package floor

import "fmt"

// CellKey is a map cell coordinate, used directly as a map and set key.
type CellKey struct {
	X, Y int
}

// String returns "x,y".
func (k CellKey) String() string {
	return fmt.Sprintf("%d,%d", k.X, k.Y)
}

// VisitCount is the state of a governed cell.
type VisitCount int

const (
	// Pristine cells have never been stepped on.
	Pristine VisitCount = iota
	// Cracked cells have been stepped on once.
	Cracked
	// Collapsed cells have been stepped on twice.
	Collapsed
)

// String returns a human-readable state name.
func (v VisitCount) String() string {
	switch v {
	case Pristine:
		return "pristine"
	case Cracked:
		return "cracked"
	case Collapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// CellState is the transient per-visit state of one governed cell.
type CellState struct {
	Count    VisitCount
	Original int // tile id before the subsystem touched the cell

	queued bool // staged crack reserved, not yet applied
	early  bool // staged crack applied; the next step skips the transition
}
