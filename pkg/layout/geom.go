package layout

import "math"

// eps absorbs float rounding when comparing computed extents.
const eps = 1e-9

// Point is a pixel position. The origin is the bottom-left corner of the
// host region and y grows upward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a pixel extent.
type Size struct {
	W float64 `json:"w" bson:"w" toml:"w"`
	H float64 `json:"h" bson:"h" toml:"h"`
}

// Zero reports whether either dimension is zero or negative.
func (s Size) Zero() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Empty reports whether the rectangle has no drawable area. Non-finite sides
// count as empty.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 || !finite(r.W) || !finite(r.H) }

// Finite reports whether every coordinate of r is a real number.
func (r Rect) Finite() bool { return finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Top()
}

// Overlaps reports whether r and o share interior area. Touching edges do
// not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-eps && o.X < r.Right()-eps &&
		r.Y < o.Top()-eps && o.Y < r.Top()-eps
}

// Within reports whether r lies inside outer, allowing for float rounding.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X-eps && r.Y >= outer.Y-eps &&
		r.Right() <= outer.Right()+eps && r.Top() <= outer.Top()+eps
}

// At returns the rectangle of the given size whose bottom-left corner is p.
func At(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ceilCount turns a fractional item count into an integer, tolerating values
// that are a rounding error above a whole number.
func ceilCount(v float64) int {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 1
	}
	return int(math.Ceil(v - eps))
}
