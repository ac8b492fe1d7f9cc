package tiling

import (
	"math"
	"reflect"
	"testing"
)

func letterConfig(rows, cols int, autoScale bool) Config {
	return Config{
		Rows: rows, Cols: cols,
		GapXMM: 3.175, GapYMM: 3.175,
		Paper: PaperLetter, Orientation: Portrait,
		AutoScale: autoScale,
	}
}

// TestComputeLetterTwoByTwo pins the 4x2in shipping-label case on Letter
// portrait: the raw 2x2 grid is 206.375mm wide, which exceeds the
// 203.9mm safe width, so it does not fit naturally and auto-fit shrinks it
// just inside the safe area.
func TestComputeLetterTwoByTwo(t *testing.T) {
	l, err := Compute(101.6, 50.8, letterConfig(2, 2, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	rawW := 101.6*2 + 3.175
	rawH := 50.8*2 + 3.175
	safeW := 215.9 - 2*PrintMarginMM
	safeH := 279.4 - 2*PrintMarginMM
	if l.FitsNaturally {
		t.Fatalf("raw grid %gx%g should not fit safe area %gx%g", rawW, rawH, safeW, safeH)
	}
	wantScale := math.Min(safeW/rawW, safeH/rawH) * shrinkFudge
	if math.Abs(l.ScaleFactor-wantScale) > 1e-9 {
		t.Fatalf("scale: want %g, got %g", wantScale, l.ScaleFactor)
	}
	if l.GridW > safeW || l.GridH > safeH {
		t.Fatalf("scaled grid %gx%g escapes safe area %gx%g", l.GridW, l.GridH, safeW, safeH)
	}
	if l.Clipped {
		t.Fatal("auto-fit output must not be flagged clipped")
	}
	// The grid is centered.
	if math.Abs(l.StartX-(215.9-l.GridW)/2) > 1e-9 || math.Abs(l.StartY-(279.4-l.GridH)/2) > 1e-9 {
		t.Fatalf("centering: start %g,%g grid %gx%g", l.StartX, l.StartY, l.GridW, l.GridH)
	}
}

// TestComputeFitsNaturally: a single column of the same labels fits without
// scaling, and the scale factor is exactly 1.
func TestComputeFitsNaturally(t *testing.T) {
	l, err := Compute(101.6, 50.8, letterConfig(2, 1, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !l.FitsNaturally {
		t.Fatal("2x1 grid should fit Letter naturally")
	}
	if l.ScaleFactor != 1 {
		t.Fatalf("scale must be exactly 1 when the grid fits, got %g", l.ScaleFactor)
	}
	if math.Abs(l.LabelW-101.6) > 1e-9 || math.Abs(l.LabelH-50.8) > 1e-9 {
		t.Fatalf("label size changed without scaling: %gx%g", l.LabelW, l.LabelH)
	}
}

// TestComputeClippedWithoutAutoScale: with auto-fit off an oversized grid
// keeps scale 1 and surfaces the clipped condition instead of silently
// shrinking.
func TestComputeClippedWithoutAutoScale(t *testing.T) {
	l, err := Compute(101.6, 50.8, letterConfig(2, 2, false))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if l.FitsNaturally {
		t.Fatal("grid should not fit")
	}
	if l.ScaleFactor != 1 {
		t.Fatalf("scale must stay 1 without autoscale, got %g", l.ScaleFactor)
	}
	if !l.Clipped {
		t.Fatal("clipped condition not surfaced")
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	if _, err := Compute(0, 50, letterConfig(1, 1, true)); err == nil {
		t.Fatal("zero label width accepted")
	}
	if _, err := Compute(100, 50, letterConfig(0, 2, true)); err == nil {
		t.Fatal("rows below 1 accepted, must be rejected not clamped")
	}
	if _, err := Compute(100, 50, letterConfig(2, -1, true)); err == nil {
		t.Fatal("negative cols accepted")
	}
	cfg := letterConfig(1, 1, true)
	cfg.Paper = "Tabloid"
	if _, err := Compute(100, 50, cfg); err == nil {
		t.Fatal("unknown paper accepted")
	}
	cfg = letterConfig(1, 1, true)
	cfg.GapXMM = -1
	if _, err := Compute(100, 50, cfg); err == nil {
		t.Fatal("negative gap accepted")
	}
}

func TestPageDimensionsOrientation(t *testing.T) {
	w, h, err := PageDimensions(PaperA4, Landscape)
	if err != nil {
		t.Fatalf("a4 landscape: %v", err)
	}
	if w != 297 || h != 210 {
		t.Fatalf("a4 landscape: %gx%g", w, h)
	}
}

// TestPaginateTenRecords: 10 records on a 2x2 grid paginate as 4+4+2; the
// last page has exactly two filled cells, never a blank fourth.
func TestPaginateTenRecords(t *testing.T) {
	l, err := Compute(50, 30, letterConfig(2, 2, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	pages := l.Paginate(10)
	want := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9}}
	if !reflect.DeepEqual(pages, want) {
		t.Fatalf("pagination: %v", pages)
	}
}

func TestPaginateZeroRecords(t *testing.T) {
	l, err := Compute(50, 30, letterConfig(2, 2, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if pages := l.Paginate(0); len(pages) != 0 {
		t.Fatalf("zero records must produce zero pages, got %d", len(pages))
	}
}

func TestStaticPage(t *testing.T) {
	l, err := Compute(50, 30, letterConfig(3, 2, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	page := l.StaticPage()
	if len(page) != 6 {
		t.Fatalf("static page: %d cells", len(page))
	}
	for _, idx := range page {
		if idx != 0 {
			t.Fatalf("static page cell references image %d", idx)
		}
	}
}

// TestPlace pins row-major cell assignment: left to right, top to bottom.
func TestPlace(t *testing.T) {
	l, err := Compute(50, 30, letterConfig(2, 3, true))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	cases := []struct {
		i    int
		want Placement
	}{
		{0, Placement{Page: 0, Row: 0, Col: 0}},
		{2, Placement{Page: 0, Row: 0, Col: 2}},
		{3, Placement{Page: 0, Row: 1, Col: 0}},
		{5, Placement{Page: 0, Row: 1, Col: 2}},
		{6, Placement{Page: 1, Row: 0, Col: 0}},
		{10, Placement{Page: 1, Row: 1, Col: 1}},
	}
	for _, c := range cases {
		if got := l.Place(c.i); got != c.want {
			t.Fatalf("place %d: want %+v, got %+v", c.i, c.want, got)
		}
	}
}

func TestCellOrigin(t *testing.T) {
	l, err := Compute(50, 30, Config{
		Rows: 2, Cols: 2, GapXMM: 4, GapYMM: 6,
		Paper: PaperA4, Orientation: Portrait, AutoScale: false,
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	x0, y0 := l.CellOrigin(0, 0)
	x1, y1 := l.CellOrigin(1, 1)
	if math.Abs(x0-l.StartX) > 1e-9 || math.Abs(y0-l.StartY) > 1e-9 {
		t.Fatalf("cell 0,0 origin %g,%g", x0, y0)
	}
	if math.Abs(x1-(l.StartX+54)) > 1e-9 || math.Abs(y1-(l.StartY+36)) > 1e-9 {
		t.Fatalf("cell 1,1 origin %g,%g", x1, y1)
	}
}
