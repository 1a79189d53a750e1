package floor

import (
	"context"
	"strings"
	"testing"

	"github.com/samdwyer/brittlefloor/internal/host"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
)

const (
	testFloorTile = 2
	testCrackTile = 101
	testHoleTile  = 102
	testRegion    = 21
	testSpecial   = 22
	testEventID   = 1
)

// testMap is a fake host map. Region rows use '.' for no region, 'A' for the
// base region and 'S' for the special region.
type testMap struct {
	id        int
	width     int
	height    int
	regions   [][]int
	layers    [2][][]int
	refreshes int
}

func newTestMap(t *testing.T, id int, rows ...string) *testMap {
	t.Helper()
	m := &testMap{id: id, width: len(rows[0]), height: len(rows)}
	m.regions = make([][]int, m.height)
	for z := range m.layers {
		m.layers[z] = make([][]int, m.height)
	}
	for y, row := range rows {
		if len(row) != m.width {
			t.Fatalf("row %d has width %d, want %d", y, len(row), m.width)
		}
		m.regions[y] = make([]int, m.width)
		m.layers[0][y] = make([]int, m.width)
		m.layers[1][y] = make([]int, m.width)
		for x, ch := range row {
			m.layers[0][y][x] = testFloorTile
			switch ch {
			case 'A':
				m.regions[y][x] = testRegion
			case 'S':
				m.regions[y][x] = testSpecial
			}
		}
	}
	return m
}

func (m *testMap) ID() int     { return m.id }
func (m *testMap) Width() int  { return m.width }
func (m *testMap) Height() int { return m.height }
func (m *testMap) Refresh()    { m.refreshes++ }

func (m *testMap) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func (m *testMap) RegionID(x, y int) int {
	if !m.inBounds(x, y) {
		return 0
	}
	return m.regions[y][x]
}

func (m *testMap) TileID(x, y, layer int) int {
	if !m.inBounds(x, y) || layer < 0 || layer >= len(m.layers) {
		return 0
	}
	return m.layers[layer][y][x]
}

func (m *testMap) SetTileID(x, y, layer, id int) {
	if !m.inBounds(x, y) || layer < 0 || layer >= len(m.layers) {
		return
	}
	m.layers[layer][y][x] = id
}

// layerString renders the brittle layer as '.', 'c' (crack) and 'o' (hole).
func (m *testMap) layerString() string {
	var b strings.Builder
	for y := 0; y < m.height; y++ {
		if y > 0 {
			b.WriteByte('/')
		}
		for x := 0; x < m.width; x++ {
			switch m.layers[1][y][x] {
			case testCrackTile:
				b.WriteByte('c')
			case testHoleTile:
				b.WriteByte('o')
			default:
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

type testSwitches map[int]bool

func (s testSwitches) Value(id int) bool           { return s[id] }
func (s testSwitches) SetValue(id int, value bool) { s[id] = value }

type testTemplates map[int]host.Template

func (t testTemplates) Template(mapID, eventID int) (host.Template, bool) {
	tpl, ok := t[eventID]
	return tpl, ok
}

type recorder struct {
	played []host.Cue
}

func (r *recorder) PlaySE(cue host.Cue) { r.played = append(r.played, cue) }

func defaultTemplates() testTemplates {
	return testTemplates{
		testEventID: {ID: testEventID, Pages: []host.TemplatePage{{TileID: testCrackTile}, {TileID: testHoleTile}}},
	}
}

type fixture struct {
	session  *Session
	switches testSwitches
	audio    *recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{switches: testSwitches{}, audio: &recorder{}}
	opts = append([]Option{WithTracer(telemetry.NoopTracer())}, opts...)
	f.session = NewSession(f.switches, defaultTemplates(), f.audio, opts...)
	return f
}

func (f *fixture) load(t *testing.T, m *testMap) EntryKind {
	t.Helper()
	return f.session.OnMapLoaded(context.Background(), m)
}

func (f *fixture) configure(t *testing.T, mapID int, opts Options) {
	t.Helper()
	err := f.session.Configure(context.Background(), mapID, SetCommand{
		RegionID:        testRegion,
		SpecialRegionID: testSpecial,
		EventID:         testEventID,
		Options:         opts,
	})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
}

func (f *fixture) step(x, y int) {
	f.session.OnStep(context.Background(), x, y)
}

func (f *fixture) count(t *testing.T, x, y int) VisitCount {
	t.Helper()
	c, _ := f.session.Cell(x, y)
	return c.Count
}
