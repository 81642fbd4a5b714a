package layout

import (
	"math"
	"testing"
)

const aspect169 = 16.0 / 9.0

var fullHD = Rect{W: 1920, H: 1080}

// checkPlacements asserts the invariants every successful layout shares.
func checkPlacements(t *testing.T, r Result, aspect float64) {
	t.Helper()
	if r.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", r.Status, StatusOK)
	}
	if math.Abs(r.Size.W/r.Size.H-aspect) > 1e-9 {
		t.Errorf("thumbnail aspect = %v, want %v", r.Size.W/r.Size.H, aspect)
	}
	if r.Margin.W < 0 || r.Margin.H < 0 {
		t.Errorf("Margin = %+v, want non-negative", r.Margin)
	}
	for i, p := range r.Placements {
		rect := p.Rect(r.Size)
		if !rect.Within(r.Viewport) {
			t.Fatalf("placement %d %+v escapes viewport %+v", i, rect, r.Viewport)
		}
		for j := i + 1; j < len(r.Placements); j++ {
			if rect.Overlaps(r.Placements[j].Rect(r.Size)) {
				t.Fatalf("placements %d and %d overlap", i, j)
			}
		}
	}
}

func TestGridStatus(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		aspect   float64
		viewport Rect
		want     Status
	}{
		{name: "no items", n: 0, aspect: aspect169, viewport: fullHD, want: StatusEmpty},
		{name: "zero width", n: 5, aspect: aspect169, viewport: Rect{W: 0, H: 600}, want: StatusDegenerate},
		{name: "negative height", n: 5, aspect: aspect169, viewport: Rect{W: 800, H: -1}, want: StatusDegenerate},
		{name: "zero aspect", n: 5, aspect: 0, viewport: fullHD, want: StatusDegenerate},
		{name: "NaN width", n: 5, aspect: aspect169, viewport: Rect{W: math.NaN(), H: 1080}, want: StatusDegenerate},
		{name: "infinite width", n: 5, aspect: aspect169, viewport: Rect{W: math.Inf(1), H: 1080}, want: StatusDegenerate},
		{name: "infinite height", n: 5, aspect: aspect169, viewport: Rect{W: 1920, H: math.Inf(1)}, want: StatusDegenerate},
		{name: "NaN origin", n: 5, aspect: aspect169, viewport: Rect{X: math.NaN(), W: 1920, H: 1080}, want: StatusDegenerate},
		{name: "infinite aspect", n: 5, aspect: math.Inf(1), viewport: fullHD, want: StatusDegenerate},
		{name: "smaller than spacing", n: 5, aspect: aspect169, viewport: Rect{W: 100, H: 100}, want: StatusTooSmall},
		{name: "below min area", n: 100000, aspect: aspect169, viewport: fullHD, want: StatusTooSmall},
		{name: "single", n: 1, aspect: aspect169, viewport: fullHD, want: StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Grid(tt.n, tt.aspect, tt.viewport, DefaultGridParams())
			if r.Status != tt.want {
				t.Errorf("Status = %q, want %q", r.Status, tt.want)
			}
			if tt.want != StatusOK && len(r.Placements) != 0 {
				t.Errorf("got %d placements for status %q", len(r.Placements), r.Status)
			}
		})
	}
}

func TestGridInvariants(t *testing.T) {
	viewports := []Rect{
		fullHD,
		{X: 300, Y: 0, W: 1420, H: 1054},
		{W: 800, H: 600},
		{W: 3000, H: 400},
		{W: 400, H: 3000},
	}
	aspects := []float64{aspect169, 1, 2.39, 9.0 / 16.0}

	for _, vp := range viewports {
		for _, a := range aspects {
			for _, n := range []int{1, 2, 3, 7, 12, 40, 97} {
				r := Grid(n, a, vp, DefaultGridParams())
				if r.Status == StatusTooSmall {
					continue
				}
				checkPlacements(t, r, a)
				if len(r.Placements) != n {
					t.Fatalf("n=%d: got %d placements", n, len(r.Placements))
				}
				for i, p := range r.Placements {
					if p.Shot != i || p.Group != -1 || p.IndexInGroup != -1 {
						t.Fatalf("placement %d = %+v, want shot %d ungrouped", i, p, i)
					}
				}
				if r.Columns*r.Rows < n || r.Columns*(r.Rows-1) >= n {
					t.Fatalf("n=%d: %d columns x %d rows is not a tight grid", n, r.Columns, r.Rows)
				}
				if r.Spacing.W > 40 || r.Spacing.H > 40 {
					t.Fatalf("Spacing = %+v, want at most min margin", r.Spacing)
				}
			}
		}
	}
}

func TestGridOrder(t *testing.T) {
	r := Grid(12, aspect169, fullHD, DefaultGridParams())
	checkPlacements(t, r, aspect169)
	if r.Columns != 4 || r.Rows != 3 {
		t.Fatalf("grid = %dx%d, want 4x3", r.Columns, r.Rows)
	}

	first, second, fifth := r.Placements[0], r.Placements[1], r.Placements[4]
	if second.Pos.X <= first.Pos.X || second.Pos.Y != first.Pos.Y {
		t.Errorf("second item %+v is not right of the first %+v", second.Pos, first.Pos)
	}
	if fifth.Pos.Y >= first.Pos.Y || fifth.Pos.X != first.Pos.X {
		t.Errorf("fifth item %+v does not start the row below %+v", fifth.Pos, first.Pos)
	}
}

func TestGridMonotonicInCount(t *testing.T) {
	for _, vp := range []Rect{fullHD, {W: 800, H: 600}, {W: 2560, H: 400}} {
		prev := math.Inf(1)
		for n := 1; n <= 400; n++ {
			r := Grid(n, aspect169, vp, DefaultGridParams())
			if r.Status == StatusTooSmall {
				break
			}
			if r.Size.H > prev+1e-9 {
				t.Fatalf("viewport %+v: thumbnail grew from %v to %v at n=%d", vp, prev, r.Size.H, n)
			}
			prev = r.Size.H
		}
	}
}

func TestGridMonotonicInViewport(t *testing.T) {
	for _, n := range []int{1, 5, 24, 150} {
		prev := math.Inf(1)
		for w := 2000.0; w >= 200; w -= 7 {
			r := Grid(n, aspect169, Rect{W: w, H: w * 0.6}, DefaultGridParams())
			if r.Status == StatusTooSmall {
				break
			}
			if r.Size.H > prev+1e-9 {
				t.Fatalf("n=%d: thumbnail grew from %v to %v at width %v", n, prev, r.Size.H, w)
			}
			prev = r.Size.H
		}
	}
}

func TestGridDeterministic(t *testing.T) {
	a := Grid(37, aspect169, fullHD, DefaultGridParams())
	b := Grid(37, aspect169, fullHD, DefaultGridParams())
	if a.Size != b.Size || len(a.Placements) != len(b.Placements) {
		t.Fatal("repeated solves differ")
	}
	for i := range a.Placements {
		if a.Placements[i] != b.Placements[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a.Placements[i], b.Placements[i])
		}
	}
}
