package layout

// Snapshot is an immutable layout together with the inputs it was computed
// from. Readers may hold on to a snapshot while a newer one is published.
type Snapshot struct {
	Inputs  Inputs `json:"inputs" bson:"inputs"`
	Grouped bool   `json:"grouped" bson:"grouped"`

	GroupedResult `bson:",inline"`
}

// NewGridSnapshot wraps an ungrouped result.
func NewGridSnapshot(in Inputs, r Result) Snapshot {
	return Snapshot{Inputs: in, GroupedResult: GroupedResult{Result: r, Converged: true}}
}

// NewGroupedSnapshot wraps a grouped result.
func NewGroupedSnapshot(in Inputs, r GroupedResult) Snapshot {
	return Snapshot{Inputs: in, Grouped: true, GroupedResult: r}
}

// InRegion reports whether p falls inside the draw region. Pointer events
// outside of it belong to the host UI and must be ignored.
func (s Snapshot) InRegion(p Point) bool {
	return s.Viewport.Contains(p)
}

// At returns the placement under p. Bounds are inclusive; placements never
// share interior area, so at most one placement matches except on a shared
// edge, where the first in emission order wins.
func (s Snapshot) At(p Point) (Placement, bool) {
	if s.Status != StatusOK || !s.InRegion(p) {
		return Placement{}, false
	}
	for _, pl := range s.Placements {
		if pl.Rect(s.Size).Contains(p) {
			return pl, true
		}
	}
	return Placement{}, false
}

// PlacementsOf returns every placement of the given shot. In flag-style
// groupings a shot can appear more than once.
func (s Snapshot) PlacementsOf(shot int) []Placement {
	var out []Placement
	for _, pl := range s.Placements {
		if pl.Shot == shot {
			out = append(out, pl)
		}
	}
	return out
}

// GroupOf returns the layout of the group a placement belongs to.
func (s Snapshot) GroupOf(pl Placement) (GroupLayout, bool) {
	if pl.Group < 0 || pl.Group >= len(s.Groups) {
		return GroupLayout{}, false
	}
	return s.Groups[pl.Group], true
}
