package floor

import "testing"

func TestCellIndexRoundTrip(t *testing.T) {
	const w, h = 7, 5
	for z := 0; z < 4; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := CellIndex(w, h, x, y, z)
				gx, gy, gz := SplitIndex(w, h, i)
				if gx != x || gy != y || gz != z {
					t.Fatalf("SplitIndex(CellIndex(%d,%d,%d)) = (%d,%d,%d)", x, y, z, gx, gy, gz)
				}
			}
		}
	}
	if got := CellIndex(w, h, 2, 3, 1); got != (1*h+3)*w+2 {
		t.Errorf("CellIndex layout changed: %d", got)
	}
}

func TestDiffStoreFirstWriteWins(t *testing.T) {
	d := NewDiffStore()
	d.Record(1, 10, 4, 101)
	d.Record(1, 10, 101, 102)

	e, ok := d.Entry(1, 10)
	if !ok {
		t.Fatal("Expected entry for index 10")
	}
	if e.Original != 4 || e.Current != 102 {
		t.Errorf("Entry = %+v, want orig 4 cur 102", e)
	}

	d.Record(1, 11, 7, 7)
	if _, ok := d.Entry(1, 11); ok {
		t.Error("Recording an unchanged tile should be a no-op")
	}
	if d.Len(1) != 1 || d.Len(2) != 0 {
		t.Errorf("Unexpected bucket sizes: %d, %d", d.Len(1), d.Len(2))
	}
}

func TestDiffStoreApplyRevert(t *testing.T) {
	m := newTestMap(t, 1, "AAA", "AAA")
	m.SetTileID(1, 1, TileLayer, 9)
	pristine := newTestMap(t, 1, "AAA", "AAA")
	pristine.SetTileID(1, 1, TileLayer, 9)

	d := NewDiffStore()
	for _, c := range []struct{ x, y, id int }{{0, 0, testCrackTile}, {1, 1, testHoleTile}, {2, 0, testCrackTile}} {
		i := CellIndex(m.Width(), m.Height(), c.x, c.y, TileLayer)
		d.Record(1, i, m.TileID(c.x, c.y, TileLayer), c.id)
		m.SetTileID(c.x, c.y, TileLayer, c.id)
	}

	if n := d.Apply(pristine); n != 3 {
		t.Errorf("Apply wrote %d tiles, want 3", n)
	}
	if pristine.layerString() != m.layerString() {
		t.Errorf("Apply = %q, want %q", pristine.layerString(), m.layerString())
	}

	if n := d.Revert(m); n != 3 {
		t.Errorf("Revert wrote %d tiles, want 3", n)
	}
	if m.TileID(1, 1, TileLayer) != 9 || m.TileID(0, 0, TileLayer) != 0 {
		t.Errorf("Revert did not restore originals: %q", m.layerString())
	}
	if d.Len(1) != 0 {
		t.Error("Revert should discard the bucket")
	}
	if n := d.Apply(m); n != 0 {
		t.Errorf("Apply after revert wrote %d tiles", n)
	}
}

func TestDiffStoreSnapshotLoad(t *testing.T) {
	d := NewDiffStore()
	d.Record(1, 3, 0, 101)
	d.Record(2, 8, 5, 102)

	snap := d.Snapshot()
	snap[1][3] = DiffEntry{Original: 9, Current: 9}
	if e, _ := d.Entry(1, 3); e.Original != 0 {
		t.Error("Snapshot should not alias the store")
	}

	other := NewDiffStore()
	other.Load(d.Snapshot())
	if e, ok := other.Entry(2, 8); !ok || e != (DiffEntry{Original: 5, Current: 102}) {
		t.Errorf("Loaded entry = %+v, %v", e, ok)
	}

	other.Load(map[int]map[int]DiffEntry{4: {}})
	if other.Len(1) != 0 || other.Len(4) != 0 {
		t.Error("Load should replace contents and skip empty buckets")
	}
}
