package savefile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

// stubExt is an Extension holding a single counter.
type stubExt struct {
	key     string
	count   int
	got     json.RawMessage
	failMsg string
}

func (s *stubExt) SaveKey() string { return s.key }

func (s *stubExt) MakeSaveContents() (json.RawMessage, error) {
	if s.failMsg != "" {
		return nil, errors.New(s.failMsg)
	}
	return json.Marshal(map[string]int{"count": s.count})
}

func (s *stubExt) ExtractSaveContents(raw json.RawMessage) error {
	s.got = raw
	if raw == nil {
		s.count = 0
		return nil
	}
	var v map[string]int
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	s.count = v["count"]
	return nil
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "one"+FileExt)

	env := New(2, Player{X: 4, Y: 5}, []int{11, 12})
	if err := env.Collect(&stubExt{key: "floor", count: 7}); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if err := Write(path, env); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Header.ID != env.Header.ID || got.Header.MapID != 2 {
		t.Errorf("Header mismatch: %+v", got.Header)
	}
	if !got.Header.SavedAt.Equal(env.Header.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.Header.SavedAt, env.Header.SavedAt)
	}
	if got.Player != (Player{X: 4, Y: 5}) {
		t.Errorf("Player = %+v", got.Player)
	}
	if len(got.Switches) != 2 || got.Switches[0] != 11 {
		t.Errorf("Switches = %v", got.Switches)
	}

	ext := &stubExt{key: "floor"}
	if err := got.Distribute(ext); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if ext.count != 7 {
		t.Errorf("Restored count = %d, want 7", ext.count)
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h"+FileExt)
	env := New(3, Player{}, nil)
	if err := Write(path, env); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if h.ID != env.Header.ID || h.MapID != 3 || h.Version != Version {
		t.Errorf("Header = %+v", h)
	}
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v"+FileExt)
	env := New(1, Player{}, nil)
	env.Header.Version = Version + 1
	if err := Write(path, env); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := Read(path); !errors.Is(err, ErrVersion) {
		t.Errorf("Read error = %v, want ErrVersion", err)
	}
	if _, err := ReadHeader(path); !errors.Is(err, ErrVersion) {
		t.Errorf("ReadHeader error = %v, want ErrVersion", err)
	}
}

func TestWriteEncodeErrorRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+FileExt)
	env := New(1, Player{}, nil)
	env.Plugins["broken"] = json.RawMessage(`{"unterminated"`)

	if err := Write(path, env); err == nil {
		t.Fatal("Expected an error for an unencodable section")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Failed write left a file behind: %v", err)
	}

	// The path is usable again once the section is fixed.
	env.Plugins["broken"] = json.RawMessage(`{}`)
	if err := Write(path, env); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := Read(path); err != nil {
		t.Errorf("Read failed: %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain"+FileExt)
	if err := os.WriteFile(plain, []byte("not compressed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(plain); err == nil {
		t.Error("Expected an error for an uncompressed file")
	}

	// Valid zstd without a header line.
	trunc := filepath.Join(dir, "trunc"+FileExt)
	enc, _ := zstd.NewWriter(nil)
	if err := os.WriteFile(trunc, enc.EncodeAll([]byte(`{"version":1}`), nil), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(trunc); err == nil {
		t.Error("Expected an error for a missing body")
	}

	if _, err := Read(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestDistributeMissingSection(t *testing.T) {
	env := New(1, Player{}, nil)
	ext := &stubExt{key: "floor", count: 9}
	if err := env.Distribute(ext); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if ext.got != nil || ext.count != 0 {
		t.Errorf("Missing section should reset the extension, got count %d", ext.count)
	}
}

func TestCollectError(t *testing.T) {
	env := New(1, Player{}, nil)
	err := env.Collect(&stubExt{key: "a"}, &stubExt{key: "b", failMsg: "boom"})
	if err == nil {
		t.Fatal("Expected Collect to fail")
	}
	if got := env.Keys(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Keys = %v, want [a]", got)
	}
}

func TestNewCopiesSwitches(t *testing.T) {
	on := []int{1, 2}
	env := New(1, Player{}, on)
	on[0] = 99
	if env.Switches[0] != 1 {
		t.Error("New should copy the switch list")
	}
	if New(1, Player{}, nil).Header.ID == env.Header.ID {
		t.Error("Envelopes should get distinct ids")
	}
}

func TestSlots(t *testing.T) {
	ctx := context.Background()
	slots, err := OpenSlots(filepath.Join(t.TempDir(), "db", "slots.db"))
	if err != nil {
		t.Fatalf("OpenSlots failed: %v", err)
	}
	defer slots.Close()

	if _, err := slots.Latest(ctx); !errors.Is(err, ErrNoSaves) {
		t.Fatalf("Latest on empty index = %v, want ErrNoSaves", err)
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		slot := Slot{ID: id, Path: id + FileExt, MapID: i + 1, SavedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := slots.Record(ctx, slot); err != nil {
			t.Fatalf("Record %s failed: %v", id, err)
		}
	}

	latest, err := slots.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "c" || latest.MapID != 3 || !latest.SavedAt.Equal(base.Add(2*time.Minute)) {
		t.Errorf("Latest = %+v", latest)
	}

	all, err := slots.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("List order wrong: %+v", all)
	}

	if err := slots.Delete(ctx, "c"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if latest, _ := slots.Latest(ctx); latest.ID != "b" {
		t.Errorf("Latest after delete = %q, want b", latest.ID)
	}
}

func TestOpenSlotsEmptyPath(t *testing.T) {
	if _, err := OpenSlots(""); err == nil {
		t.Error("Expected an error for an empty path")
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "saves"), filepath.Join(dir, "saves", "slots.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadLatest(ctx); !errors.Is(err, ErrNoSaves) {
		t.Fatalf("LoadLatest on empty store = %v, want ErrNoSaves", err)
	}

	first := New(1, Player{X: 1, Y: 1}, nil)
	if _, err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second := New(2, Player{X: 2, Y: 2}, []int{5})
	second.Header.SavedAt = first.Header.SavedAt.Add(time.Second)
	path, err := store.Save(ctx, second)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Save file missing: %v", err)
	}

	got, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if got.Header.ID != second.Header.ID || got.Player.X != 2 {
		t.Errorf("LoadLatest returned %+v", got.Header)
	}

	slots, _ := store.Slots().List(ctx)
	if len(slots) != 2 {
		t.Errorf("Expected 2 slots, got %d", len(slots))
	}
}
