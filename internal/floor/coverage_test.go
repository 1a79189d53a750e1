package floor

import "testing"

func TestCoverage(t *testing.T) {
	c := NewCoverage()
	if c.IsComplete() {
		t.Error("Empty coverage with target 0 must not be complete")
	}

	c.setTarget(2)
	if !c.RecordVisit(CellKey{1, 1}) {
		t.Error("First visit should report true")
	}
	if c.RecordVisit(CellKey{1, 1}) {
		t.Error("Repeat visit should report false")
	}
	if c.IsComplete() {
		t.Error("One of two cells visited is not complete")
	}
	c.RecordVisit(CellKey{2, 1})
	if !c.IsComplete() {
		t.Error("Both cells visited should be complete")
	}
	if len(c.Keys()) != 2 || c.Count() != 2 {
		t.Errorf("Expected 2 keys, got %v", c.Keys())
	}
}

func TestVisitCountString(t *testing.T) {
	tests := []struct {
		v    VisitCount
		want string
	}{
		{Pristine, "pristine"},
		{Cracked, "cracked"},
		{Collapsed, "collapsed"},
		{VisitCount(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("VisitCount(%d).String() = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := (CellKey{X: 3, Y: 4}).String(); got != "3,4" {
		t.Errorf("CellKey.String() = %q", got)
	}
}
