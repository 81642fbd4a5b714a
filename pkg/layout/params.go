package layout

// Params holds the whitespace policy shared by both solvers.
type Params struct {
	// TotalSpacing is reserved from each viewport axis before the first-pass
	// size estimate. It becomes margins and gaps later.
	TotalSpacing Size `json:"total_spacing" toml:"total_spacing"`

	// MinMargin is the smallest margin kept on every side. It also caps the
	// gap between neighbouring thumbnails.
	MinMargin float64 `json:"min_margin" toml:"min_margin"`

	// MinArea is the per-thumbnail pixel area below which the layout gives up
	// and reports StatusTooSmall.
	MinArea float64 `json:"min_area" toml:"min_area"`

	// HeaderHeight is the height of one group header band. Grouped only.
	HeaderHeight float64 `json:"header_height" toml:"header_height"`

	// MaxIterations caps the grouped row-count refinement loop.
	MaxIterations int `json:"max_iterations" toml:"max_iterations"`
}

// DefaultGridParams returns the whitespace policy for ungrouped layouts.
func DefaultGridParams() Params {
	return Params{
		TotalSpacing: Size{W: 150, H: 150},
		MinMargin:    40,
		MinArea:      20,
	}
}

// DefaultGroupedParams returns the whitespace policy for grouped layouts.
// Vertical spacing is tighter because every group header already adds
// whitespace.
func DefaultGroupedParams() Params {
	return Params{
		TotalSpacing:  Size{W: 150, H: 40},
		MinMargin:     40,
		MinArea:       20,
		HeaderHeight:  22,
		MaxIterations: 10,
	}
}

// Status classifies the outcome of a solver run. None of them is an error:
// callers decide what to draw.
type Status string

const (
	// StatusOK means placements were produced.
	StatusOK Status = "ok"

	// StatusEmpty means there was nothing to place.
	StatusEmpty Status = "empty"

	// StatusDegenerate means the viewport or aspect ratio had no area.
	StatusDegenerate Status = "degenerate"

	// StatusTooSmall means there were items but each would be below MinArea.
	StatusTooSmall Status = "too_small"
)
