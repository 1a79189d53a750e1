package world

import "sort"

// Switches is the game's boolean flag store. Unset switches read false.
type Switches struct {
	values map[int]bool
}

// NewSwitches creates a store with every switch off.
func NewSwitches() *Switches {
	return &Switches{values: make(map[int]bool)}
}

// Value implements host.Switches.
func (s *Switches) Value(id int) bool {
	return s.values[id]
}

// SetValue implements host.Switches.
func (s *Switches) SetValue(id int, value bool) {
	if value {
		s.values[id] = true
	} else {
		delete(s.values, id)
	}
}

// On returns the ids of every switch that is on, ascending.
func (s *Switches) On() []int {
	ids := make([]int, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Restore replaces the store's contents with the given on switches.
func (s *Switches) Restore(on []int) {
	s.values = make(map[int]bool, len(on))
	for _, id := range on {
		s.values[id] = true
	}
}

// Clear turns every switch off.
func (s *Switches) Clear() {
	s.values = make(map[int]bool)
}
