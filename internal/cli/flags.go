package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/shot"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// layoutFlags are the geometry and grouping flags shared by layout and
// render.
type layoutFlags struct {
	width      float64
	height     float64
	left       float64
	right      float64
	header     float64
	overlap    bool
	grouped    bool
	groupBy    string
	unassigned bool
	noCache    bool
	refresh    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "host width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "host height in pixels")
	cmd.Flags().Float64Var(&f.left, "left", 0, "width of the left side panel")
	cmd.Flags().Float64Var(&f.right, "right", 0, "width of the right side panel")
	cmd.Flags().Float64Var(&f.header, "header", 0, "height of the header bar")
	cmd.Flags().BoolVar(&f.overlap, "overlap", false, "panels overlap the draw region")
	cmd.Flags().BoolVarP(&f.grouped, "grouped", "g", false, "group shots (by scene unless --group-by is set)")
	cmd.Flags().StringVar(&f.groupBy, "group-by", "", "grouping criterion: scene, or a tag id or name")
	cmd.Flags().BoolVar(&f.unassigned, "unassigned", false, "add a group for shots without a value")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

func (f *layoutFlags) apply(opts *pipeline.Options) {
	opts.Width, opts.Height = f.width, f.height
	opts.Left, opts.Right, opts.Header = f.left, f.right, f.header
	opts.Overlap = f.overlap
	opts.Grouped = f.grouped || f.groupBy != ""
	opts.GroupBy = f.groupBy
	opts.Unassigned = f.unassigned
	opts.Refresh = f.refresh
}

// renderFlags are the artifact flags of render.
type renderFlags struct {
	formats    string
	overlay    string
	item       int
	selected   int
	thumbnails bool
	thumbDir   string
	scale      float64
	background string
	noCaptions bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, dot, json (comma-separated; default from config)")
	cmd.Flags().StringVar(&f.overlay, "overlay", "", "tint thumbnails by a tag (id or name)")
	cmd.Flags().IntVar(&f.item, "item", 0, "item index for enum and flag overlays")
	cmd.Flags().IntVar(&f.selected, "selected", -1, "highlight the shot with this index")
	cmd.Flags().BoolVar(&f.thumbnails, "thumbnails", false, "draw thumbnail images")
	cmd.Flags().StringVar(&f.thumbDir, "thumb-dir", "", "folder that thumbnail paths are relative to (default: the edit's folder)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().StringVar(&f.background, "background", "", "background color as #rrggbb (default from config)")
	cmd.Flags().BoolVar(&f.noCaptions, "no-captions", false, "omit group captions")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if f.formats != "" {
		opts.Formats = parseFormats(f.formats)
	}
	opts.Overlay = f.overlay
	opts.OverlayItem = f.item
	if f.selected >= 0 {
		sel := f.selected
		opts.Selected = &sel
	}
	if cmd.Flags().Changed("thumbnails") {
		opts.Thumbnails = f.thumbnails
	}
	if f.thumbDir != "" {
		opts.ThumbDir = f.thumbDir
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	if f.background != "" {
		opts.Background = f.background
	}
	if f.noCaptions {
		off := false
		opts.Captions = &off
	}
}

// =============================================================================
// Edit Loading
// =============================================================================

// loadEdit reads an edit from a file, or from the configured store when no
// such file exists.
func (c *CLI) loadEdit(ctx context.Context, runner *pipeline.Runner, arg string) (*shot.Edit, error) {
	if _, err := os.Stat(arg); err == nil {
		return runner.Load(ctx, pipeline.Options{Path: arg})
	}
	if errors.ValidateEditID(arg) != nil {
		return nil, errors.New(errors.ErrCodeFileNotFound, "edit file not found: %s", arg)
	}
	st, err := store.Open(ctx, c.Config.Store, c.Logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	e, err := st.Get(ctx, arg)
	if errors.IsNotFound(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no edit file or stored edit named %q", arg)
	}
	return e, err
}
