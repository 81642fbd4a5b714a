package layout

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{name: "inside", p: Point{X: 50, Y: 40}, want: true},
		{name: "bottom-left corner", p: Point{X: 10, Y: 20}, want: true},
		{name: "top-right corner", p: Point{X: 110, Y: 70}, want: true},
		{name: "left of", p: Point{X: 9.9, Y: 40}, want: false},
		{name: "above", p: Point{X: 50, Y: 70.1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "partial", other: Rect{X: 5, Y: 5, W: 10, H: 10}, want: true},
		{name: "touching right edge", other: Rect{X: 10, Y: 0, W: 10, H: 10}, want: false},
		{name: "touching top edge", other: Rect{X: 0, Y: 10, W: 10, H: 10}, want: false},
		{name: "disjoint", other: Rect{X: 20, Y: 20, W: 5, H: 5}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	if got := r.Right(); got != 110 {
		t.Errorf("Right() = %v, want 110", got)
	}
	if got := r.Top(); got != 70 {
		t.Errorf("Top() = %v, want 70", got)
	}
	if got := r.CenterX(); got != 60 {
		t.Errorf("CenterX() = %v, want 60", got)
	}
	if got := r.CenterY(); got != 45 {
		t.Errorf("CenterY() = %v, want 45", got)
	}
}

func TestCeilCount(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{v: 3, want: 3},
		{v: 3 + 1e-12, want: 3},
		{v: 3.2, want: 4},
		{v: 0.5, want: 1},
	}

	for _, tt := range tests {
		if got := ceilCount(tt.v); got != tt.want {
			t.Errorf("ceilCount(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestComputeDrawRegion(t *testing.T) {
	host := Size{W: 1920, H: 1080}
	tests := []struct {
		name   string
		chrome Chrome
		want   Rect
	}{
		{
			name:   "no overlap",
			chrome: Chrome{Left: 300, Right: 200, Header: 26},
			want:   Rect{W: 1920, H: 1080},
		},
		{
			name:   "header only",
			chrome: Chrome{Header: 26, Overlap: true},
			want:   Rect{W: 1920, H: 1054},
		},
		{
			name:   "all panels",
			chrome: Chrome{Left: 300, Right: 200, Header: 26, Overlap: true},
			want:   Rect{X: 300, W: 1420, H: 1054},
		},
		{
			name:   "collapsed panels ignored",
			chrome: Chrome{Left: 1, Right: 1, Header: 1, Overlap: true},
			want:   Rect{W: 1920, H: 1080},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeDrawRegion(host, tt.chrome); got != tt.want {
				t.Errorf("ComputeDrawRegion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpread(t *testing.T) {
	tests := []struct {
		name       string
		dim, thumb float64
		count      int
		margin     float64
		gap        float64
	}{
		{name: "single item centered", dim: 1000, thumb: 400, count: 1, margin: 300, gap: 0},
		{name: "gap capped at min margin", dim: 1000, thumb: 100, count: 3, margin: 310, gap: 40},
		{name: "exactly min margin left", dim: 440, thumb: 100, count: 4, margin: 20, gap: 0},
		{name: "gap rounded up", dim: 351, thumb: 100, count: 3, margin: 19, gap: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margin, gap := spread(tt.dim, tt.thumb, tt.count, 40)
			if margin != tt.margin || gap != tt.gap {
				t.Errorf("spread() = (%v, %v), want (%v, %v)", margin, gap, tt.margin, tt.gap)
			}
		})
	}
}

func TestSpreadNeverNegative(t *testing.T) {
	// Many items with a thin leftover: rounding the gap up must not push the
	// margins below zero.
	for count := 2; count <= 200; count++ {
		leftover := 40.5
		thumb := 7.0
		dim := thumb*float64(count) + leftover
		margin, gap := spread(dim, thumb, count, 40)
		if margin < 0 || gap < 0 {
			t.Fatalf("count=%d: spread() = (%v, %v), want non-negative", count, margin, gap)
		}
		if used := 2*margin + gap*float64(count-1); used > leftover {
			t.Fatalf("count=%d: margins and gaps use %v of %v", count, used, leftover)
		}
	}
}
