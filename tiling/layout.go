// Package tiling computes how a grid of identical labels maps onto physical
// paper: scale factor, final label size, placement offsets and pagination.
// Everything here is pure math over millimeters; derived values are never
// stored, always recomputed from the config and the label dimensions.
package tiling

import (
	"fmt"
	"math"
	"strings"
)

// PrintMarginMM is the fixed hardware margin subtracted from each page edge.
// Printers cannot reliably mark the extreme edge of the sheet, so the grid
// must stay inside the remaining safe area.
const PrintMarginMM = 6.0

// shrinkFudge pulls the auto-fit scale slightly under the exact ratio so
// floating-point rounding can never push the scaled grid past the safe area.
const shrinkFudge = 0.998

// Orientation of the target page.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// ParseOrientation maps a user-facing name to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("unknown orientation %q", s)
	}
}

// PaperSize names a standard sheet.
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperA5     PaperSize = "A5"
	PaperLetter PaperSize = "Letter"
	PaperLegal  PaperSize = "Legal"
)

// portrait dimensions in millimeters.
var paperSizes = map[PaperSize][2]float64{
	PaperA4:     {210, 297},
	PaperA5:     {148, 210},
	PaperLetter: {215.9, 279.4},
	PaperLegal:  {215.9, 355.6},
}

// PageDimensions returns the page width/height in millimeters for a paper
// size and orientation.
func PageDimensions(paper PaperSize, o Orientation) (w, h float64, err error) {
	dims, ok := paperSizes[paper]
	if !ok {
		return 0, 0, fmt.Errorf("unknown paper size %q", paper)
	}
	if o == Landscape {
		return dims[1], dims[0], nil
	}
	return dims[0], dims[1], nil
}

// Config describes the user-chosen grid: rows x cols labels with gaps in
// between, on a given paper. AutoScale shrinks the grid uniformly when it
// does not fit the safe printable area.
type Config struct {
	Rows        int
	Cols        int
	GapXMM      float64
	GapYMM      float64
	Paper       PaperSize
	Orientation Orientation
	AutoScale   bool
}

// Validate rejects grids below 1x1. Clamping happens at the UI boundary,
// never here.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("invalid grid %dx%d: rows and cols must be at least 1", c.Rows, c.Cols)
	}
	if c.GapXMM < 0 || c.GapYMM < 0 {
		return fmt.Errorf("invalid gap %gx%gmm: gaps cannot be negative", c.GapXMM, c.GapYMM)
	}
	return nil
}

// Layout is the computed page geometry for one label design under one
// config. All lengths are millimeters.
type Layout struct {
	ScaleFactor float64 // uniform scale applied to labels and gaps
	LabelW      float64 // final scaled label width
	LabelH      float64 // final scaled label height
	GapX        float64 // final scaled horizontal gap
	GapY        float64 // final scaled vertical gap
	GridW       float64 // final grid extent, X
	GridH       float64 // final grid extent, Y
	StartX      float64 // left offset centering the grid on the page
	StartY      float64 // top offset centering the grid on the page
	PageW       float64
	PageH       float64
	Rows        int
	Cols        int

	// FitsNaturally is true when the unscaled grid already fits the safe
	// printable area. Clipped is set when it does not fit and AutoScale is
	// off; content outside the safe area will be cut by the printer.
	FitsNaturally bool
	Clipped       bool
}

// Compute derives the full page geometry from the label's physical size and
// the tiling config.
func Compute(labelWMM, labelHMM float64, cfg Config) (Layout, error) {
	if labelWMM <= 0 || labelHMM <= 0 {
		return Layout{}, fmt.Errorf("invalid label size %gx%gmm", labelWMM, labelHMM)
	}
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}
	pageW, pageH, err := PageDimensions(cfg.Paper, cfg.Orientation)
	if err != nil {
		return Layout{}, err
	}

	// Raw grid extent from the unscaled label size and gaps.
	rawW := labelWMM*float64(cfg.Cols) + cfg.GapXMM*float64(cfg.Cols-1)
	rawH := labelHMM*float64(cfg.Rows) + cfg.GapYMM*float64(cfg.Rows-1)
	safeW := pageW - 2*PrintMarginMM
	safeH := pageH - 2*PrintMarginMM
	fits := rawW <= safeW && rawH <= safeH

	scale := 1.0
	clipped := false
	if !fits {
		if cfg.AutoScale {
			scale = math.Min(safeW/rawW, safeH/rawH) * shrinkFudge
		} else {
			clipped = true
		}
	}

	l := Layout{
		ScaleFactor:   scale,
		LabelW:        labelWMM * scale,
		LabelH:        labelHMM * scale,
		GapX:          cfg.GapXMM * scale,
		GapY:          cfg.GapYMM * scale,
		PageW:         pageW,
		PageH:         pageH,
		Rows:          cfg.Rows,
		Cols:          cfg.Cols,
		FitsNaturally: fits,
		Clipped:       clipped,
	}
	l.GridW = l.LabelW*float64(cfg.Cols) + l.GapX*float64(cfg.Cols-1)
	l.GridH = l.LabelH*float64(cfg.Rows) + l.GapY*float64(cfg.Rows-1)
	l.StartX = math.Max(0, (pageW-l.GridW)/2)
	l.StartY = math.Max(0, (pageH-l.GridH)/2)
	return l, nil
}

// CellOrigin returns the top-left page coordinate of the grid cell at the
// given row and column.
func (l Layout) CellOrigin(row, col int) (x, y float64) {
	x = l.StartX + float64(col)*(l.LabelW+l.GapX)
	y = l.StartY + float64(row)*(l.LabelH+l.GapY)
	return x, y
}

// LabelsPerPage is the grid capacity of one page.
func (l Layout) LabelsPerPage() int { return l.Rows * l.Cols }

// Placement locates one record in the page sequence: row-major order,
// filling left to right, top to bottom.
type Placement struct {
	Page int
	Row  int
	Col  int
}

// Place maps the i-th record onto its page and cell.
func (l Layout) Place(i int) Placement {
	per := l.LabelsPerPage()
	cell := i % per
	return Placement{
		Page: i / per,
		Row:  cell / l.Cols,
		Col:  cell % l.Cols,
	}
}

// Paginate splits n records into pages of record indices, in order. Zero
// records means zero pages; a blank trailing page is never produced.
func (l Layout) Paginate(n int) [][]int {
	if n <= 0 {
		return nil
	}
	per := l.LabelsPerPage()
	pages := make([][]int, 0, (n+per-1)/per)
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		page := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			page = append(page, i)
		}
		pages = append(pages, page)
	}
	return pages
}

// StaticPage is the no-dataset preview mode: exactly one full page of
// rows x cols copies of the template. Every index is 0 since the same
// static render fills each cell.
func (l Layout) StaticPage() []int {
	page := make([]int, l.LabelsPerPage())
	return page
}
