// Package pipeline provides the load → group → layout → render pipeline
// shared by the CLI, the viewer and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read an edit file, or take an edit already in memory
//  2. Layout: compute the draw region, partition shots into groups when a
//     grouping is requested, and run the grid or grouped solver
//  3. Render: produce SVG, PNG, DOT or JSON from the layout snapshot
//
// Layouts and artifacts are cached by content hash, so rendering the same
// edit at the same size twice solves once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "reel-01.yaml",
//	    Width:   1920,
//	    Height:  1080,
//	    Grouped: true,
//	    GroupBy: "scene",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Interactive hosts keep a [layout.State] and call [Runner.Solver] so that
// only stale inputs trigger a recompute.
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/cache"
	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/render"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Viewer
// =============================================================================

const (
	// DefaultWidth is the default host width in pixels.
	DefaultWidth = 1920.0

	// DefaultHeight is the default host height in pixels.
	DefaultHeight = 1080.0
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatDOT  = render.FormatDOT
	FormatJSON = render.FormatJSON
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Path string `json:"path,omitempty"`

	// Host size and chrome; see layout.ComputeDrawRegion.
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Left    float64 `json:"left,omitempty"`
	Right   float64 `json:"right,omitempty"`
	Header  float64 `json:"header,omitempty"`
	Overlap bool    `json:"overlap,omitempty"`

	// Grouping
	Grouped    bool   `json:"grouped,omitempty"`
	GroupBy    string `json:"group_by,omitempty"`
	Unassigned bool   `json:"unassigned,omitempty"`

	// Solver parameters; nil means the package defaults.
	GridParams    *layout.Params `json:"grid_params,omitempty"`
	GroupedParams *layout.Params `json:"grouped_params,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Overlay     string   `json:"overlay,omitempty"`
	OverlayItem int      `json:"overlay_item,omitempty"`
	Captions    *bool    `json:"captions,omitempty"`
	Thumbnails  bool     `json:"thumbnails,omitempty"`
	ThumbDir    string   `json:"thumb_dir,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Background  string   `json:"background,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Selected highlights a shot by index; nil means no selection.
	Selected *int `json:"selected,omitempty"`

	// Runtime options (not serialized)
	Edit   *shot.Edit  `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Edit is the loaded edit.
	Edit *shot.Edit

	// EditHash is the content hash of the edit.
	EditHash string

	// Snapshot is the computed layout.
	Snapshot layout.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShotCount      int
	PlacementCount int
	GroupCount     int
	LoadTime       time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !render.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateParams checks solver parameters for values the solvers cannot use.
func ValidateParams(p layout.Params) error {
	switch {
	case p.TotalSpacing.W < 0 || p.TotalSpacing.H < 0:
		return errors.New(errors.ErrCodeInvalidInput, "total spacing must not be negative")
	case p.MinMargin < 0:
		return errors.New(errors.ErrCodeInvalidInput, "min margin must not be negative")
	case p.MinArea < 0:
		return errors.New(errors.ErrCodeInvalidInput, "min area must not be negative")
	case p.HeaderHeight < 0:
		return errors.New(errors.ErrCodeInvalidInput, "header height must not be negative")
	case p.MaxIterations < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max iterations must not be negative")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that an edit source is set.
func (o *Options) ValidateForLoad() error {
	if o.Edit == nil && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "edit path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.GridParams == nil {
		p := layout.DefaultGridParams()
		o.GridParams = &p
	}
	if o.GroupedParams == nil {
		p := layout.DefaultGroupedParams()
		o.GroupedParams = &p
	}
	if o.Grouped && o.GroupBy == "" {
		o.GroupBy = shot.SceneKey
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	for _, v := range []float64{o.Width, o.Height, o.Left, o.Right, o.Header} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "host size and chrome must be finite")
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if err := ValidateParams(*o.GridParams); err != nil {
		return err
	}
	return ValidateParams(*o.GroupedParams)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	if o.Background != "" {
		if _, err := shot.ParseHex(o.Background); err != nil {
			return err
		}
	}
	return ValidateFormats(o.Formats)
}

// Chrome returns the host chrome described by the options.
func (o *Options) Chrome() layout.Chrome {
	return layout.Chrome{Left: o.Left, Right: o.Right, Header: o.Header, Overlap: o.Overlap}
}

// Region returns the draw region for the host size and chrome.
func (o *Options) Region() layout.Rect {
	return layout.ComputeDrawRegion(layout.Size{W: o.Width, H: o.Height}, o.Chrome())
}

// Inputs returns the invalidation inputs for an edit with the given hash.
func (o *Options) Inputs(e *shot.Edit, editHash string) layout.Inputs {
	in := layout.Inputs{
		Region:      o.Region(),
		Grouped:     o.Grouped,
		Aspect:      e.AspectRatio(),
		Fingerprint: editHash,
	}
	if o.Grouped {
		in.GroupBy = o.GroupBy
		in.Unassigned = o.Unassigned
	}
	return in
}

// ShowCaptions reports whether group captions are drawn (default true).
func (o *Options) ShowCaptions() bool {
	return o.Captions == nil || *o.Captions
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(aspect float64) cache.LayoutKeyOpts {
	p := o.GridParams
	if o.Grouped {
		p = o.GroupedParams
	}
	k := cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Left:       o.Left,
		Right:      o.Right,
		Header:     o.Header,
		Overlap:    o.Overlap,
		Grouped:    o.Grouped,
		Unassigned: o.Unassigned,
		Aspect:     aspect,
	}
	if o.Grouped {
		k.GroupBy = o.GroupBy
	}
	if p != nil {
		k.SpacingW = p.TotalSpacing.W
		k.SpacingH = p.TotalSpacing.H
		k.MinMargin = p.MinMargin
		k.MinArea = p.MinArea
		k.HeaderHeight = p.HeaderHeight
		k.MaxIterations = p.MaxIterations
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Overlay:    o.Overlay,
		Item:       o.OverlayItem,
		Captions:   o.ShowCaptions(),
		Thumbs:     o.Thumbnails,
		ThumbDir:   o.ThumbDir,
		Scale:      o.Scale,
		Selected:   -1,
		Background: o.Background,
	}
	if o.Selected != nil {
		k.Selected = *o.Selected
	}
	return k
}
