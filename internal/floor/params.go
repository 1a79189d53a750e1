package floor

import (
	"fmt"

	"github.com/samdwyer/brittlefloor/internal/host"
)

// TileLayer is the tile layer crack and hole tiles are written to.
const TileLayer = 1

// Params are the plugin-wide parameters shared by every map.
type Params struct {
	// CrackCue plays when a cell cracks.
	CrackCue host.Cue `yaml:"crack_se"`
	// CrumbleCue plays when a cell collapses, after SecondHitWait frames.
	CrumbleCue    host.Cue `yaml:"crumble_se"`
	SecondHitWait int      `yaml:"second_hit_wait"`

	// CrackTimingThreshold applies the crack tile part-way through a move:
	// once the remaining distance on both axes drops below it. 0 applies the
	// crack when the move completes.
	CrackTimingThreshold float64 `yaml:"crack_timing_threshold"`
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		CrackCue:   host.Cue{Name: "crack", Volume: 90, Pitch: 100},
		CrumbleCue: host.Cue{Name: "crumble", Volume: 90, Pitch: 100},
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.SecondHitWait < 0 {
		return fmt.Errorf("second hit wait must be >= 0, got %d", p.SecondHitWait)
	}
	if p.CrackTimingThreshold < 0 || p.CrackTimingThreshold > 1 {
		return fmt.Errorf("crack timing threshold must be within [0,1], got %g", p.CrackTimingThreshold)
	}
	for _, c := range []host.Cue{p.CrackCue, p.CrumbleCue} {
		if c.Volume < 0 || c.Volume > 100 {
			return fmt.Errorf("cue %q volume must be within [0,100], got %d", c.Name, c.Volume)
		}
		if c.Name != "" && (c.Pitch < 50 || c.Pitch > 150) {
			return fmt.Errorf("cue %q pitch must be within [50,150], got %d", c.Name, c.Pitch)
		}
	}
	return nil
}
