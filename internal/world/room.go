package world

// Room represents a rectangular room on a generated map.
type Room struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the room
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Area returns the number of cells in the room.
func (r Room) Area() int {
	return r.Width * r.Height
}

// Inset returns the room shrunk by n cells on every side.
func (r Room) Inset(n int) Room {
	return Room{X: r.X + n, Y: r.Y + n, Width: max(r.Width-2*n, 0), Height: max(r.Height-2*n, 0)}
}
