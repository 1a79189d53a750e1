package floor

// Entry is one governed region of a map: the base region id, an optional
// special region id, and the tiles written when a cell cracks or collapses.
type Entry struct {
	BaseRegionID    int `json:"regionId"`
	SpecialRegionID int `json:"specialRegionId"` // 0 = none
	CrackTileID     int `json:"crackTileId"`
	HoleTileID      int `json:"holeTileId"`
}

// Options are the per-map switches and policies set by the configure command.
type Options struct {
	CrumbleSwitch        int  `json:"crumbleSwitch"`
	AllStepSwitch        int  `json:"allStepSwitch"`
	OnlySpecialAllSwitch bool `json:"onlySpecialAllSwitch"`
	NoCrumbleAfterAll    bool `json:"noCrumbleAfterAll"`
	OnlySpecialNoCrumble bool `json:"onlySpecialNoCrumble"`
	KeepTilesFixed       bool `json:"keepTilesFixed"`
	PersistProgress      bool `json:"persistProgress"`
}

// DefaultOptions returns the options a map has before it is configured.
func DefaultOptions() Options {
	return Options{
		OnlySpecialAllSwitch: true,
		PersistProgress:      true,
	}
}

// RegionConfig is the brittle-floor configuration of one map.
// All logic is a no-op while Enabled is false.
type RegionConfig struct {
	Enabled bool    `json:"enabled"`
	Entries []Entry `json:"entries"`
	Options
}

// Lookup returns the index of the entry whose base or special region id
// matches regionID. Region id 0 never matches.
func (c *RegionConfig) Lookup(regionID int) (int, bool) {
	if c == nil || !c.Enabled || regionID == 0 {
		return -1, false
	}
	for i, e := range c.Entries {
		if regionID == e.BaseRegionID || (e.SpecialRegionID != 0 && regionID == e.SpecialRegionID) {
			return i, true
		}
	}
	return -1, false
}

// Governs reports whether cells tagged with regionID are brittle.
func (c *RegionConfig) Governs(regionID int) bool {
	_, ok := c.Lookup(regionID)
	return ok
}

// upsert replaces the entry with the same base region id, or appends it.
func (c *RegionConfig) upsert(e Entry) {
	for i := range c.Entries {
		if c.Entries[i].BaseRegionID == e.BaseRegionID {
			c.Entries[i] = e
			return
		}
	}
	c.Entries = append(c.Entries, e)
}

func (c *RegionConfig) clone() *RegionConfig {
	cp := *c
	cp.Entries = append([]Entry(nil), c.Entries...)
	return &cp
}

// Registry holds the region configuration of every configured map.
// It lives for the whole process and is cleared only by a new game.
type Registry struct {
	maps map[int]*RegionConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[int]*RegionConfig)}
}

// Get returns the configuration of a map, or nil if it was never configured.
// It never creates an entry.
func (r *Registry) Get(mapID int) *RegionConfig {
	return r.maps[mapID]
}

// GetOrCreate returns the configuration of a map, creating a disabled one
// with default options if needed. Only the configure command calls this.
func (r *Registry) GetOrCreate(mapID int) *RegionConfig {
	c, ok := r.maps[mapID]
	if !ok {
		c = &RegionConfig{Options: DefaultOptions()}
		r.maps[mapID] = c
	}
	return c
}

// Clear drops every configuration.
func (r *Registry) Clear() {
	r.maps = make(map[int]*RegionConfig)
}

// Merge copies configurations into the registry, replacing same-id maps.
func (r *Registry) Merge(maps map[int]*RegionConfig) {
	for id, c := range maps {
		if c == nil {
			continue
		}
		r.maps[id] = c.clone()
	}
}

// Snapshot returns a deep copy of every configuration.
func (r *Registry) Snapshot() map[int]*RegionConfig {
	out := make(map[int]*RegionConfig, len(r.maps))
	for id, c := range r.maps {
		out[id] = c.clone()
	}
	return out
}

// Count returns the number of configured maps.
func (r *Registry) Count() int {
	return len(r.maps)
}
