package layout

import (
	"sync"
	"sync/atomic"
)

// Inputs are the values a layout depends on. Two equal Inputs always produce
// the same layout.
type Inputs struct {
	Region  Rect    `json:"region" bson:"region"`
	Grouped bool    `json:"grouped" bson:"grouped"`
	GroupBy string  `json:"group_by,omitempty" bson:"group_by,omitempty"`
	Aspect  float64 `json:"aspect" bson:"aspect"`

	// Unassigned adds a group for shots the criterion puts nowhere. Grouped
	// only.
	Unassigned bool `json:"unassigned,omitempty" bson:"unassigned,omitempty"`

	// Fingerprint changes whenever the shot list, a shot's scene or tags, or
	// the grouping criterion's items change.
	Fingerprint string `json:"fingerprint" bson:"fingerprint"`
}

// Reason explains why a layout is stale.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonInitial  Reason = "initial"
	ReasonRegion   Reason = "region"
	ReasonGrouping Reason = "grouping"
	ReasonAspect   Reason = "aspect"
	ReasonContent  Reason = "content"
)

// Staleness compares the inputs of the last computed layout with the current
// ones. A nil prev means nothing has been computed yet.
func Staleness(prev *Inputs, cur Inputs) Reason {
	switch {
	case prev == nil:
		return ReasonInitial
	case prev.Region != cur.Region:
		return ReasonRegion
	case prev.Grouped != cur.Grouped || prev.GroupBy != cur.GroupBy || prev.Unassigned != cur.Unassigned:
		return ReasonGrouping
	case prev.Aspect != cur.Aspect:
		return ReasonAspect
	case prev.Fingerprint != cur.Fingerprint:
		return ReasonContent
	}
	return ReasonNone
}

// ShouldRelayout reports whether a layout computed from prev is out of date.
// Hover and redraw events never change Inputs and so never trigger a solve.
func ShouldRelayout(prev *Inputs, cur Inputs) bool {
	return Staleness(prev, cur) != ReasonNone
}

// State holds the live layout of one view. Writers go through Sync; readers
// call Current and always observe a complete snapshot.
type State struct {
	mu   sync.Mutex
	last *Inputs
	snap atomic.Pointer[Snapshot]
}

// Sync recomputes the layout with solve when cur differs from the inputs of
// the current snapshot, and publishes the result with a single pointer swap.
// It returns the live snapshot and the staleness reason, which is ReasonNone
// when the previous layout was reused.
func (s *State) Sync(cur Inputs, solve func(Inputs) Snapshot) (Snapshot, Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason := Staleness(s.last, cur)
	if reason == ReasonNone {
		if p := s.snap.Load(); p != nil {
			return *p, ReasonNone
		}
	}

	next := solve(cur)
	next.Inputs = cur
	s.snap.Store(&next)
	in := cur
	s.last = &in
	return next, reason
}

// Current returns the live snapshot, if any layout has been computed.
func (s *State) Current() (Snapshot, bool) {
	p := s.snap.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}

// Invalidate forces the next Sync to recompute. The current snapshot stays
// readable until then.
func (s *State) Invalidate() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}
