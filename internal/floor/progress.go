package floor

// Progress holds the per-map completion flags that survive save and load.
// They are set when a map is fully traversed and cleared only by reset.
type Progress struct {
	allCompleted map[int]bool
	lastSpecial  map[int]bool
	tilesFixed   map[int]bool
}

// NewProgress creates empty progress.
func NewProgress() *Progress {
	return &Progress{
		allCompleted: make(map[int]bool),
		lastSpecial:  make(map[int]bool),
		tilesFixed:   make(map[int]bool),
	}
}

// AllCompleted reports whether the map has been fully traversed.
func (p *Progress) AllCompleted(mapID int) bool { return p.allCompleted[mapID] }

// LastVisitWasSpecial reports whether the completing step landed on a special cell.
func (p *Progress) LastVisitWasSpecial(mapID int) bool { return p.lastSpecial[mapID] }

// TilesFixed reports whether the map's tiles are frozen after completion.
func (p *Progress) TilesFixed(mapID int) bool { return p.tilesFixed[mapID] }

func (p *Progress) complete(mapID int, lastSpecial, fix bool) {
	p.allCompleted[mapID] = true
	p.lastSpecial[mapID] = lastSpecial
	if fix {
		p.tilesFixed[mapID] = true
	}
}

func (p *Progress) unfix(mapID int) {
	delete(p.tilesFixed, mapID)
}

func (p *Progress) clear(mapID int) {
	delete(p.allCompleted, mapID)
	delete(p.lastSpecial, mapID)
	delete(p.tilesFixed, mapID)
}

func copyFlags(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		if v {
			out[k] = true
		}
	}
	return out
}
