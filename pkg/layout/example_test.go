package layout_test

import (
	"fmt"

	"github.com/matzehuels/shotgrid/pkg/layout"
)

func ExampleGrid() {
	region := layout.ComputeDrawRegion(layout.Size{W: 1920, H: 1080}, layout.Chrome{})
	r := layout.Grid(12, 16.0/9.0, region, layout.DefaultGridParams())
	fmt.Println(r.Status, r.Columns, r.Rows, len(r.Placements))
	// Output: ok 4 3 12
}

func ExampleGrouped() {
	groups := []layout.Group{
		{ID: "sc_a", Name: "Intro", Members: []layout.Member{{Shot: 0, Seconds: 2}, {Shot: 1, Seconds: 3.5}}},
		{ID: "sc_b", Name: "Chase", Members: []layout.Member{{Shot: 2, Seconds: 1.25}}},
	}
	r := layout.Grouped(groups, 16.0/9.0, layout.Rect{W: 1280, H: 720}, layout.DefaultGroupedParams())
	for _, g := range r.Groups {
		fmt.Println(g.Caption)
	}
	// Output:
	// Intro (shots: 2, 5.5s)
	// Chase (shots: 1, 1.2s)
}
