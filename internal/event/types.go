// Package event provides the hook dispatcher the host uses to notify
// subsystems of map loads, player movement and frame ticks.
package event

import "github.com/samdwyer/brittlefloor/internal/host"

// Type identifies a host event.
type Type int

const (
	// NewGame fires when a new game is started, before the first map loads.
	NewGame Type = iota + 1
	// MapLoaded fires after the host has loaded a map and placed the player.
	MapLoaded
	// MoveStarted fires when the player begins moving into a new cell.
	MoveStarted
	// MoveProgress fires every frame while the player is between cells.
	MoveProgress
	// StepCompleted fires once per completed tile move.
	StepCompleted
	// Frame fires once per frame of the map scene.
	Frame
)

// String returns a human-readable event name.
func (t Type) String() string {
	switch t {
	case NewGame:
		return "new_game"
	case MapLoaded:
		return "map_loaded"
	case MoveStarted:
		return "move_started"
	case MoveProgress:
		return "move_progress"
	case StepCompleted:
		return "step_completed"
	case Frame:
		return "frame"
	default:
		return "unknown"
	}
}

// Event is a single host notification. Payload holds one of the payload
// structs below, matching Type.
type Event struct {
	Type    Type
	Payload any
	Frame   int64
}

// MapLoadedPayload carries the freshly loaded map.
type MapLoadedPayload struct {
	Map host.TileMap
}

// MovePayload carries the destination cell of a move that just started.
type MovePayload struct {
	FromX, FromY int
	ToX, ToY     int
}

// ProgressPayload carries the player's logical cell and interpolated position.
type ProgressPayload struct {
	X, Y         int
	RealX, RealY float64
}

// StepPayload carries the cell the player just finished moving onto.
type StepPayload struct {
	X, Y int
}
