package layout

import "math"

// Placement is one rendered instance of a shot's thumbnail. Pos is the
// bottom-left corner; the size is shared by every placement of a result.
type Placement struct {
	// Shot is the index of the shot in the registry order.
	Shot int `json:"shot" bson:"shot"`
	// Group is the group index, or -1 in ungrouped layouts.
	Group int `json:"group" bson:"group"`
	// IndexInGroup is the running position inside the group, or -1.
	IndexInGroup int   `json:"index_in_group" bson:"index_in_group"`
	Pos          Point `json:"pos" bson:"pos"`
}

// Rect returns the placement's bounding box for the given thumbnail size.
func (p Placement) Rect(s Size) Rect { return At(p.Pos, s) }

// Result is the output of one grid solver run.
type Result struct {
	Status   Status `json:"status" bson:"status"`
	Viewport Rect   `json:"viewport" bson:"viewport"`

	// Size is the thumbnail size shared by all placements. It is zero unless
	// Status is StatusOK.
	Size Size `json:"size" bson:"size"`

	Columns int  `json:"columns" bson:"columns"`
	Rows    int  `json:"rows" bson:"rows"`
	Margin  Size `json:"margin" bson:"margin"`
	Spacing Size `json:"spacing" bson:"spacing"`

	Placements []Placement `json:"placements" bson:"placements"`
}

// Grid lays out n thumbnails of the given width/height aspect ratio in a
// single grid inside viewport, making them as large as the whitespace policy
// allows. Placements follow input order: left to right, first row at the top.
//
// The thumbnail area is first estimated by spreading the working area evenly
// over n items. That estimate ignores row and column rounding, so the size is
// then shrunk until a whole number of columns and rows fits. Every column
// count is scored and the one that keeps thumbnails largest wins; the
// estimate's own column count is kept on ties. This keeps the thumbnail size
// non-increasing as n grows or the viewport shrinks.
//
// Because the column count is searched rather than taken as a single
// ceil(workW/w) from the estimate, some inputs get a different column count
// and larger thumbnails than that one-shot pick would give.
func Grid(n int, aspect float64, viewport Rect, p Params) Result {
	res := Result{Status: StatusEmpty, Viewport: viewport}
	if n <= 0 {
		return res
	}
	if degenerate(viewport, aspect) {
		res.Status = StatusDegenerate
		return res
	}

	work := Size{W: viewport.W - p.TotalSpacing.W, H: viewport.H - p.TotalSpacing.H}
	h0, ok := estimate(n, aspect, work, p.MinArea)
	if !ok {
		res.Status = StatusTooSmall
		return res
	}

	maxW := viewport.W - p.MinMargin
	maxH := viewport.H - p.MinMargin

	cols := clampInt(ceilCount(work.W/(h0*aspect)), 1, n)
	h := shrink(h0, aspect, cols, ceilDiv(n, cols), maxW, maxH)
	for c := 1; c <= n; c++ {
		if ch := shrink(h0, aspect, c, ceilDiv(n, c), maxW, maxH); ch > h {
			cols, h = c, ch
		}
	}
	if h <= 0 {
		res.Status = StatusTooSmall
		return res
	}
	rows := ceilDiv(n, cols)
	w := h * aspect

	marginX, gapX := spread(viewport.W, w, cols, p.MinMargin)
	marginY, gapY := spread(viewport.H, h, rows, p.MinMargin)

	res.Status = StatusOK
	res.Size = Size{W: w, H: h}
	res.Columns, res.Rows = cols, rows
	res.Margin = Size{W: marginX, H: marginY}
	res.Spacing = Size{W: gapX, H: gapY}
	res.Placements = make([]Placement, n)

	x0 := viewport.X + marginX
	y0 := viewport.Top() - marginY - h
	for i := range res.Placements {
		col, row := i%cols, i/cols
		res.Placements[i] = Placement{
			Shot:         i,
			Group:        -1,
			IndexInGroup: -1,
			Pos: Point{
				X: x0 + float64(col)*(w+gapX),
				Y: y0 - float64(row)*(h+gapY),
			},
		}
	}
	return res
}

func validAspect(a float64) bool { return a > 0 && finite(a) }

// degenerate reports whether no layout can be placed in viewport at all.
func degenerate(viewport Rect, aspect float64) bool {
	return viewport.Empty() || !viewport.Finite() || !validAspect(aspect)
}

// estimate returns the first-pass thumbnail height obtained by dividing the
// working area evenly among n items. It reports false when the working area
// is gone or each item would get less than minArea pixels.
func estimate(n int, aspect float64, work Size, minArea float64) (float64, bool) {
	if work.W <= 0 || work.H <= 0 {
		return 0, false
	}
	area := work.W * work.H / float64(n)
	if area < minArea {
		return 0, false
	}
	return math.Sqrt(area / aspect), true
}

// shrink reduces the thumbnail height h until cols thumbnails fit within
// maxW and rows thumbnails fit within maxH. The two corrections are
// independent; a very elongated viewport triggers both.
func shrink(h, aspect float64, cols, rows int, maxW, maxH float64) float64 {
	if h*aspect*float64(cols) > maxW {
		h = maxW / (aspect * float64(cols))
	}
	if h*float64(rows) > maxH {
		h = maxH / float64(rows)
	}
	return h
}

// spread splits the space left on one axis into a symmetric margin and a
// gap between count items. The gap never exceeds minMargin, so a large
// leftover widens the margins instead of pulling thumbnails apart.
func spread(dim, thumb float64, count int, minMargin float64) (margin, gap float64) {
	leftover := dim - thumb*float64(count)
	if count > 1 {
		k := float64(count - 1)
		gap = math.Min(math.Ceil((leftover-minMargin)/k), minMargin)
		// Rounding the gap up must not eat into the margins.
		if limit := math.Floor(leftover / k); gap > limit {
			gap = limit
		}
		if gap < 0 {
			gap = 0
		}
		return math.Floor((leftover - gap*k) / 2), gap
	}
	return math.Floor(leftover / 2), 0
}
