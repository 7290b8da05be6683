// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package layout partitions OCR lines into spatial groups and answers
// geometric queries about them. All thresholds are normalized page units;
// they encode typical invoice line spacing, not derived values.
package layout

import (
	"sort"

	"invoice-scan/internal/ocr"
)

// Region is one cell of the 3×3 page grid.
type Region int

const (
	RegionTopLeft Region = iota
	RegionTopCenter
	RegionTopRight
	RegionMiddleLeft
	RegionMiddleCenter
	RegionMiddleRight
	RegionBottomLeft
	RegionBottomCenter
	RegionBottomRight
)

var regionNames = map[Region]string{
	RegionTopLeft:      "top-left",
	RegionTopCenter:    "top-center",
	RegionTopRight:     "top-right",
	RegionMiddleLeft:   "middle-left",
	RegionMiddleCenter: "middle-center",
	RegionMiddleRight:  "middle-right",
	RegionBottomLeft:   "bottom-left",
	RegionBottomCenter: "bottom-center",
	RegionBottomRight:  "bottom-right",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return "unknown"
}

// Tolerances holds the spatial thresholds used for grouping and queries.
// Exposed as configuration so tests can tighten or loosen them.
type Tolerances struct {
	// RowOverlap is the minimum Y-range overlap fraction for two lines to
	// share a row.
	RowOverlap float64
	// ColumnOverlap is the minimum X-range overlap fraction for two lines
	// to share a column group.
	ColumnOverlap float64
	// SameColumnX is the maximum |Δx| between left edges for the
	// same-column test.
	SameColumnX float64
	// GridX and GridY are the page-fraction boundaries of the 3×3 grid.
	GridX [2]float64
	GridY [2]float64
}

// DefaultTolerances returns the thresholds tuned for typical invoices.
func DefaultTolerances() Tolerances {
	return Tolerances{
		RowOverlap:    0.5,
		ColumnOverlap: 0.3,
		SameColumnX:   0.08,
		GridX:         [2]float64{0.33, 0.66},
		GridY:         [2]float64{0.33, 0.66},
	}
}

// Analysis is the spatial grouping of all lines of one document.
type Analysis struct {
	Lines   []ocr.Line
	Rows    [][]ocr.Line
	Columns [][]ocr.Line
	regions map[Region][]ocr.Line
	tol     Tolerances
}

// Analyze groups lines into rows, columns and page regions.
func Analyze(lines []ocr.Line) *Analysis {
	return AnalyzeWithTolerances(lines, DefaultTolerances())
}

// AnalyzeWithTolerances is Analyze with explicit thresholds.
func AnalyzeWithTolerances(lines []ocr.Line, tol Tolerances) *Analysis {
	a := &Analysis{
		Lines:   lines,
		tol:     tol,
		regions: make(map[Region][]ocr.Line),
	}

	sorted := make([]ocr.Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Y != sorted[j].Box.Y {
			return sorted[i].Box.Y < sorted[j].Box.Y
		}
		return sorted[i].Box.X < sorted[j].Box.X
	})

	a.Rows = groupBy(sorted, func(x, y ocr.Line) bool {
		return overlapFraction(x.Box.Y, x.Box.MaxY(), y.Box.Y, y.Box.MaxY()) >= tol.RowOverlap
	})
	a.Columns = groupBy(sorted, func(x, y ocr.Line) bool {
		return overlapFraction(x.Box.X, x.Box.MaxX(), y.Box.X, y.Box.MaxX()) >= tol.ColumnOverlap
	})

	for _, line := range lines {
		region := a.RegionOf(line)
		a.regions[region] = append(a.regions[region], line)
	}

	return a
}

// groupBy clusters lines transitively: a line joins a group when it relates
// to any existing member.
func groupBy(lines []ocr.Line, related func(a, b ocr.Line) bool) [][]ocr.Line {
	var groups [][]ocr.Line
	for _, line := range lines {
		placed := false
		for i, group := range groups {
			for _, member := range group {
				if related(line, member) {
					groups[i] = append(groups[i], line)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []ocr.Line{line})
		}
	}
	return groups
}

// overlapFraction returns the overlap of [a1,a2] and [b1,b2] relative to the
// shorter of the two ranges.
func overlapFraction(a1, a2, b1, b2 float64) float64 {
	low := a1
	if b1 > low {
		low = b1
	}
	high := a2
	if b2 < high {
		high = b2
	}
	if high <= low {
		return 0
	}
	shorter := a2 - a1
	if b2-b1 < shorter {
		shorter = b2 - b1
	}
	if shorter <= 0 {
		return 0
	}
	return (high - low) / shorter
}

// RegionOf maps a line's bounding-box center onto the 3×3 grid.
func (a *Analysis) RegionOf(line ocr.Line) Region {
	cx := line.Box.CenterX()
	cy := line.Box.CenterY()

	col := 0
	switch {
	case cx >= a.tol.GridX[1]:
		col = 2
	case cx >= a.tol.GridX[0]:
		col = 1
	}
	row := 0
	switch {
	case cy >= a.tol.GridY[1]:
		row = 2
	case cy >= a.tol.GridY[0]:
		row = 1
	}
	return Region(row*3 + col)
}

// LinesInRegion returns all lines whose centers fall in the given region,
// in reading order.
func (a *Analysis) LinesInRegion(region Region) []ocr.Line {
	lines := a.regions[region]
	sorted := make([]ocr.Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Y < sorted[j].Box.Y
	})
	return sorted
}

// LinesBelow returns lines strictly below ref within maxDY of its bottom
// edge, nearest first.
func (a *Analysis) LinesBelow(ref ocr.Line, maxDY float64) []ocr.Line {
	var out []ocr.Line
	for _, line := range a.Lines {
		if line.Text == ref.Text && line.Box == ref.Box {
			continue
		}
		dy := line.Box.Y - ref.Box.MaxY()
		if dy >= 0 && dy <= maxDY {
			out = append(out, line)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Box.Y < out[j].Box.Y
	})
	return out
}

// LinesAbove returns lines strictly above ref within maxDY of its top edge,
// nearest first.
func (a *Analysis) LinesAbove(ref ocr.Line, maxDY float64) []ocr.Line {
	var out []ocr.Line
	for _, line := range a.Lines {
		if line.Text == ref.Text && line.Box == ref.Box {
			continue
		}
		dy := ref.Box.Y - line.Box.MaxY()
		if dy >= 0 && dy <= maxDY {
			out = append(out, line)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Box.Y > out[j].Box.Y
	})
	return out
}

// LinesRightOf returns lines to the right of ref whose vertical centers sit
// within yTol of ref's center, nearest first.
func (a *Analysis) LinesRightOf(ref ocr.Line, yTol float64) []ocr.Line {
	var out []ocr.Line
	for _, line := range a.Lines {
		if line.Text == ref.Text && line.Box == ref.Box {
			continue
		}
		dy := line.Box.CenterY() - ref.Box.CenterY()
		if dy < 0 {
			dy = -dy
		}
		if line.Box.X >= ref.Box.MaxX() && dy <= yTol {
			out = append(out, line)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Box.X < out[j].Box.X
	})
	return out
}

// SameColumn reports whether two lines are left-aligned within the
// same-column tolerance.
func (a *Analysis) SameColumn(x, y ocr.Line) bool {
	dx := x.Box.X - y.Box.X
	if dx < 0 {
		dx = -dx
	}
	return dx <= a.tol.SameColumnX
}

// SameRow reports whether two lines overlap vertically enough to be one
// visual row.
func (a *Analysis) SameRow(x, y ocr.Line) bool {
	return overlapFraction(x.Box.Y, x.Box.MaxY(), y.Box.Y, y.Box.MaxY()) >= a.tol.RowOverlap
}

// HasGeometry reports whether any line carries a usable bounding box. When
// false the caller should use the text-only analysis path.
func (a *Analysis) HasGeometry() bool {
	for _, line := range a.Lines {
		if line.HasGeometry() {
			return true
		}
	}
	return false
}
