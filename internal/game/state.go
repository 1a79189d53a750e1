// Package game provides the main game loop and state management.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode: the party waits for input.
	StateExplore State = iota
	// StateMoving means the party is sliding between two cells.
	StateMoving
	// StateFalling means the floor gave way; input is ignored until the
	// party lands back at the map's start.
	StateFalling
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateMoving:
		return "moving"
	case StateFalling:
		return "falling"
	default:
		return "unknown"
	}
}
