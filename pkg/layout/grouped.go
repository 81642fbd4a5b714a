package layout

import "fmt"

// Member is one shot inside a group.
type Member struct {
	Shot    int     `json:"shot" bson:"shot"`
	Seconds float64 `json:"seconds" bson:"seconds"`
}

// Group is an ordered list of shots drawn under a shared header. A shot may
// be a member of several groups.
type Group struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Members []Member `json:"members" bson:"members"`
}

// Seconds returns the summed duration of the group's members.
func (g Group) Seconds() float64 {
	var s float64
	for _, m := range g.Members {
		s += m.Seconds
	}
	return s
}

// GroupLayout describes where one group landed.
type GroupLayout struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Caption string `json:"caption" bson:"caption"`

	// Header is the band above the group's first row. The caption is drawn
	// along its bottom edge.
	Header Rect `json:"header" bson:"header"`

	Rows    int     `json:"rows" bson:"rows"`
	Members int     `json:"members" bson:"members"`
	Seconds float64 `json:"seconds" bson:"seconds"`
}

// GroupedResult is the output of one grouped solver run.
type GroupedResult struct {
	Result `bson:",inline"`

	Groups []GroupLayout `json:"groups" bson:"groups"`

	// Iterations counts row-count refinement passes.
	Iterations int `json:"iterations" bson:"iterations"`

	// Converged is false when refinement stopped on the iteration cap while
	// the rows still overflowed the first-pass height. The final shrink step
	// still guarantees a fit.
	Converged bool `json:"converged" bson:"converged"`
}

// Caption formats the header text for a group.
func Caption(name string, members int, seconds float64) string {
	return fmt.Sprintf("%s (shots: %d, %.1fs)", name, members, seconds)
}

// Grouped lays out groups as stacked sections sharing one column count. Each
// group starts on a new row below its header. Placements are emitted group
// by group, members in order.
//
// The column count starts from the first-pass size estimate. Because groups
// round up to whole rows independently, the estimate usually overflows; the
// column count is then widened one at a time until the rows fit, the largest
// group fits in a single row, or MaxIterations is reached.
func Grouped(groups []Group, aspect float64, viewport Rect, p Params) GroupedResult {
	res := GroupedResult{Result: Result{Status: StatusEmpty, Viewport: viewport}, Converged: true}

	total, largest := 0, 0
	for _, g := range groups {
		total += len(g.Members)
		largest = max(largest, len(g.Members))
	}
	if total == 0 {
		return res
	}
	if degenerate(viewport, aspect) {
		res.Status = StatusDegenerate
		return res
	}

	headers := p.HeaderHeight * float64(len(groups))
	work := Size{
		W: viewport.W - p.TotalSpacing.W,
		H: viewport.H - p.TotalSpacing.H - headers,
	}
	h, ok := estimate(total, aspect, work, p.MinArea)
	if !ok {
		res.Status = StatusTooSmall
		return res
	}

	cols := clampInt(ceilCount(work.W/(h*aspect)), 1, largest)
	rows := countRows(groups, cols)
	for float64(rows)*h > work.H+eps && cols < largest && res.Iterations < p.MaxIterations {
		res.Iterations++
		cols++
		rows = countRows(groups, cols)
	}
	res.Converged = float64(rows)*h <= work.H+eps

	h = shrink(h, aspect, cols, rows, viewport.W-p.MinMargin, viewport.H-p.MinMargin-headers)
	if h <= 0 {
		res.Status = StatusTooSmall
		return res
	}
	w := h * aspect

	marginX, gapX := spread(viewport.W, w, cols, p.MinMargin)
	marginY, gapY := spread(viewport.H-headers, h, rows, p.MinMargin)

	res.Status = StatusOK
	res.Size = Size{W: w, H: h}
	res.Columns, res.Rows = cols, rows
	res.Margin = Size{W: marginX, H: marginY}
	res.Spacing = Size{W: gapX, H: gapY}
	res.Placements = make([]Placement, 0, total)
	res.Groups = make([]GroupLayout, len(groups))

	x0 := viewport.X + marginX
	bandW := float64(cols)*w + float64(cols-1)*gapX
	cursor := viewport.Top() - marginY
	placed := 0
	for gi, g := range groups {
		cursor -= p.HeaderHeight
		gRows := ceilDiv(len(g.Members), cols)
		secs := g.Seconds()
		res.Groups[gi] = GroupLayout{
			ID:      g.ID,
			Name:    g.Name,
			Caption: Caption(g.Name, len(g.Members), secs),
			Header:  Rect{X: x0, Y: cursor, W: bandW, H: p.HeaderHeight},
			Rows:    gRows,
			Members: len(g.Members),
			Seconds: secs,
		}

		for j, m := range g.Members {
			col, row := j%cols, j/cols
			res.Placements = append(res.Placements, Placement{
				Shot:         m.Shot,
				Group:        gi,
				IndexInGroup: j,
				Pos: Point{
					X: x0 + float64(col)*(w+gapX),
					Y: cursor - h - float64(row)*(h+gapY),
				},
			})
		}

		// The gap follows every row except the last one of the whole stack.
		for r := 0; r < gRows; r++ {
			cursor -= h
			placed++
			if placed < rows {
				cursor -= gapY
			}
		}
	}
	return res
}

// countRows returns the total number of rows when every group starts a new
// row and holds at most cols members per row.
func countRows(groups []Group, cols int) int {
	n := 0
	for _, g := range groups {
		n += ceilDiv(len(g.Members), cols)
	}
	return n
}
