package layout

// Chrome describes host UI drawn around or over the thumbnail region.
type Chrome struct {
	// Left is the width of a tool panel docked on the left.
	Left float64 `json:"left,omitempty"`
	// Right is the width of a sidebar docked on the right.
	Right float64 `json:"right,omitempty"`
	// Header is the height of a header bar along the top.
	Header float64 `json:"header,omitempty"`
	// Overlap is set when the panels are drawn on top of the host region
	// instead of shrinking it.
	Overlap bool `json:"overlap,omitempty"`
}

// ComputeDrawRegion returns the rectangle inside a host region of the given
// size that is free for thumbnails. Panels that overlap the region are
// discounted so thumbnails are never hidden under them; a left panel also
// shifts the region to the right.
//
// Degenerate results are passed through untouched. The solvers report a
// non-positive region as StatusDegenerate.
func ComputeDrawRegion(host Size, chrome Chrome) Rect {
	r := Rect{W: host.W, H: host.H}
	if !chrome.Overlap {
		return r
	}
	if chrome.Header > 1 {
		r.H -= chrome.Header
	}
	if chrome.Right > 1 {
		r.W -= chrome.Right
	}
	if chrome.Left > 1 {
		r.W -= chrome.Left
		r.X = chrome.Left
	}
	return r
}
