package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// MinVisible is the thumbnail edge length at or below which nothing is drawn.
const MinVisible = 5.0

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	edit       *shot.Edit
	canvas     layout.Size
	overlay    *shot.PropDef
	item       int
	selected   int
	captions   bool
	thumbDir   string
	thumbs     bool
	background shot.Color
	scale      float64
}

// WithEdit attaches the edit the snapshot was computed from. Without it
// tiles are labeled by shot index and carry no tag data.
func WithEdit(e *shot.Edit) Option { return func(r *renderer) { r.edit = e } }

// WithCanvas sets the output size. The default is the smallest canvas that
// contains the draw region.
func WithCanvas(s layout.Size) Option { return func(r *renderer) { r.canvas = s } }

// WithOverlay draws a stripe for tag p on every tile. For enum and flag
// tags, item selects which entry lights up.
func WithOverlay(p shot.PropDef, item int) Option {
	return func(r *renderer) { r.overlay = &p; r.item = item }
}

// WithSelected frames the placements of one shot.
func WithSelected(shotIdx int) Option { return func(r *renderer) { r.selected = shotIdx } }

// WithoutCaptions suppresses group captions.
func WithoutCaptions() Option { return func(r *renderer) { r.captions = false } }

// WithThumbnails draws shot thumbnails. Relative thumbnail paths are
// resolved against dir.
func WithThumbnails(dir string) Option {
	return func(r *renderer) { r.thumbs = true; r.thumbDir = dir }
}

// WithBackground sets the canvas color.
func WithBackground(c shot.Color) Option { return func(r *renderer) { r.background = c } }

// WithScale multiplies the raster size of PNG output.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

var defaultBackground = shot.Color{R: 0.11, G: 0.11, B: 0.12, A: 1}

func newRenderer(snap layout.Snapshot, opts ...Option) renderer {
	r := renderer{
		selected:   -1,
		captions:   true,
		background: defaultBackground,
		scale:      1,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.canvas.Zero() {
		r.canvas = layout.Size{W: snap.Viewport.Right(), H: snap.Viewport.Top()}
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}

// Visible reports whether a snapshot has anything to draw.
func Visible(snap layout.Snapshot) bool {
	return snap.Status == layout.StatusOK && snap.Size.W > MinVisible && snap.Size.H > MinVisible
}

// Render dispatches to the renderer for format.
func Render(ctx context.Context, format string, snap layout.Snapshot, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(snap, opts...), nil
	case FormatPNG:
		return RenderPNG(ctx, snap, opts...)
	case FormatDOT:
		return []byte(ToDOT(snap, opts...)), nil
	case FormatJSON:
		return RenderJSON(snap, opts...)
	default:
		return nil, fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
}

func (r *renderer) thumbPath(s shot.Shot) string {
	if !r.thumbs || s.Thumbnail == "" {
		return ""
	}
	if filepath.IsAbs(s.Thumbnail) || r.thumbDir == "" {
		return s.Thumbnail
	}
	return filepath.Join(r.thumbDir, s.Thumbnail)
}
