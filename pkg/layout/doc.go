// Package layout computes thumbnail placements for a shot review view.
//
// Given a drawable region, a thumbnail aspect ratio and either a flat shot
// count or a list of groups, the solvers pick the largest thumbnail size that
// fits every item under a fixed whitespace policy, then spread the remaining
// space into margins and gaps.
//
// # Coordinates
//
// Positions use a bottom-left origin with y growing upward, matching the
// host canvas. Each [Placement] records the bottom-left corner of its
// thumbnail. The first row is the topmost one.
//
// # Solvers
//
// [Grid] places n items in a single grid. [Grouped] stacks groups vertically,
// each under a header band of [Params].HeaderHeight, with all groups sharing
// one column count. Neither solver returns an error: an empty input, a
// degenerate region or a region too small to hold the items is reported
// through [Status].
//
// # Reuse
//
// Layouts are pure functions of [Inputs]. [State] keeps the last snapshot and
// only calls the solver when [ShouldRelayout] reports a change, so pointer
// motion and redraws are answered from the cached snapshot:
//
//	var st layout.State
//	snap, _ := st.Sync(in, func(in layout.Inputs) layout.Snapshot {
//	    return layout.NewGridSnapshot(in, layout.Grid(n, in.Aspect, in.Region, layout.DefaultGridParams()))
//	})
//	if pl, ok := snap.At(cursor); ok {
//	    // hovering pl.Shot
//	}
package layout
