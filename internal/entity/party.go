// Package entity provides the player's party.
package entity

// Party represents the player's party, displayed as a single symbol.
//
// X and Y are the logical cell. A move sets them to the destination at once
// while RealX and RealY slide there over several frames.
type Party struct {
	X, Y         int     // Logical position on the map
	RealX, RealY float64 // Displayed position during a move
	Symbol       rune    // Display symbol

	fromX, fromY int
	frames       int // Frames a move takes
	elapsed      int // Frames into the current move, 0 when idle
}

// NewParty creates a new party at the given position.
func NewParty(x, y int) *Party {
	p := &Party{Symbol: '@', frames: 1}
	p.Place(x, y)
	return p
}

// Place puts the party on a cell, cancelling any move.
func (p *Party) Place(x, y int) {
	p.X, p.Y = x, y
	p.RealX, p.RealY = float64(x), float64(y)
	p.fromX, p.fromY = x, y
	p.elapsed = 0
}

// StartMove begins a one-cell move by the given delta over frames frames.
// It returns the destination cell.
func (p *Party) StartMove(dx, dy, frames int) (int, int) {
	if frames < 1 {
		frames = 1
	}
	p.fromX, p.fromY = p.X, p.Y
	p.X += dx
	p.Y += dy
	p.frames = frames
	p.elapsed = 0
	return p.X, p.Y
}

// IsMoving reports whether the real position lags the logical one.
func (p *Party) IsMoving() bool {
	return p.RealX != float64(p.X) || p.RealY != float64(p.Y)
}

// Advance moves the real position one frame toward the destination and
// reports whether the move finished on this frame.
func (p *Party) Advance() bool {
	if !p.IsMoving() {
		return false
	}
	p.elapsed++
	if p.elapsed >= p.frames {
		p.RealX, p.RealY = float64(p.X), float64(p.Y)
		p.elapsed = 0
		return true
	}
	t := float64(p.elapsed) / float64(p.frames)
	p.RealX = float64(p.fromX) + t*float64(p.X-p.fromX)
	p.RealY = float64(p.fromY) + t*float64(p.Y-p.fromY)
	return false
}

// Position returns the current x, y coordinates.
func (p *Party) Position() (int, int) {
	return p.X, p.Y
}
