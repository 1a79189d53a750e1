package floor

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SaveKey is the key the subsystem's state is stored under in a save file.
const SaveKey = "brittleFloor"

// SaveData is the persisted shape of the subsystem: region configuration,
// tile diffs and the three completion flag maps, all keyed by map id.
type SaveData struct {
	Maps         map[int]*RegionConfig      `json:"maps"`
	TileDiff     map[int]map[int]DiffEntry `json:"tileDiff"`
	AllCompleted map[int]bool               `json:"allCompleted"`
	LastSpecial  map[int]bool               `json:"lastSpecial"`
	TilesFixed   map[int]bool               `json:"tilesFixed"`
}

//go:embed save.schema.json
var saveSchemaSource string

var saveSchema = jsonschema.MustCompileString("save.schema.json", saveSchemaSource)

// Save returns a copy of the save-scoped state.
func (s *Session) Save() SaveData {
	return SaveData{
		Maps:         s.registry.Snapshot(),
		TileDiff:     s.diffs.Snapshot(),
		AllCompleted: copyFlags(s.progress.allCompleted),
		LastSpecial:  copyFlags(s.progress.lastSpecial),
		TilesFixed:   copyFlags(s.progress.tilesFixed),
	}
}

// Restore replaces the save-scoped state with data. Saved configurations
// are merged into the registry; missing buckets restore as empty. The next
// map load is treated as a load from save.
func (s *Session) Restore(data SaveData) {
	s.registry.Merge(data.Maps)
	s.diffs.Load(data.TileDiff)
	s.progress = &Progress{
		allCompleted: copyFlags(data.AllCompleted),
		lastSpecial:  copyFlags(data.LastSpecial),
		tilesFixed:   copyFlags(data.TilesFixed),
	}
	s.fromLoad = true
}

// SaveKey returns the key of the subsystem's save contents.
func (s *Session) SaveKey() string { return SaveKey }

// MakeSaveContents encodes the save-scoped state.
func (s *Session) MakeSaveContents() (json.RawMessage, error) {
	b, err := json.Marshal(s.Save())
	if err != nil {
		return nil, fmt.Errorf("encode brittle floor state: %w", err)
	}
	return b, nil
}

// ExtractSaveContents restores state from encoded save contents. A bucket
// that is missing or malformed restores as empty, the others are kept. The
// error is logged and never surfaced to the host.
func (s *Session) ExtractSaveContents(raw json.RawMessage) error {
	data, err := DecodeSaveData(raw)
	if err != nil {
		var dropped []string
		data, dropped = decodeBuckets(raw)
		s.log.Error(err, "brittle floor save data damaged", "discarded", dropped)
	}
	s.Restore(data)
	return nil
}

// saveBuckets are the top-level keys of the save contents.
var saveBuckets = []string{"maps", "tileDiff", "allCompleted", "lastSpecial", "tilesFixed"}

// decodeBuckets validates and decodes each bucket of raw on its own. It
// returns the buckets that decoded and the keys of those that did not.
func decodeBuckets(raw json.RawMessage) (SaveData, []string) {
	var data SaveData
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return data, saveBuckets
	}

	var dropped []string
	for _, key := range saveBuckets {
		b, ok := doc[key]
		if !ok {
			continue
		}
		one, err := json.Marshal(map[string]json.RawMessage{key: b})
		if err != nil {
			dropped = append(dropped, key)
			continue
		}
		part, err := DecodeSaveData(one)
		if err != nil {
			dropped = append(dropped, key)
			continue
		}
		switch key {
		case "maps":
			data.Maps = part.Maps
		case "tileDiff":
			data.TileDiff = part.TileDiff
		case "allCompleted":
			data.AllCompleted = part.AllCompleted
		case "lastSpecial":
			data.LastSpecial = part.LastSpecial
		case "tilesFixed":
			data.TilesFixed = part.TilesFixed
		}
	}
	return data, dropped
}

// DecodeSaveData validates and decodes encoded save contents. Empty input
// decodes to empty state.
func DecodeSaveData(raw json.RawMessage) (SaveData, error) {
	var data SaveData
	if len(raw) == 0 || string(raw) == "null" {
		return data, nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return data, fmt.Errorf("parse save data: %w", err)
	}
	if err := saveSchema.Validate(doc); err != nil {
		return data, fmt.Errorf("validate save data: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode save data: %w", err)
	}
	return data, nil
}
