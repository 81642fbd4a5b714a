// Package render draws layout snapshots.
//
// # Overview
//
// A [layout.Snapshot] carries positions in the layout's coordinate system
// (bottom-left origin, y up). The renderers in this package flip it into
// image space and draw one tile per placement:
//
//   - [RenderSVG]: vector preview with captions, titles and tag stripes
//   - [RenderPNG]: contact sheet with resized thumbnails
//   - [RenderJSON]: machine-readable placement list
//   - [ToDOT] and [RenderDOTSVG]: Graphviz graph with pinned positions
//
// All renderers share the same [Option] set:
//
//	svg := render.RenderSVG(snap,
//	    render.WithEdit(edit),
//	    render.WithOverlay(edit.Props[0], 0),
//	)
//
// # Tag overlay
//
// With [WithOverlay] every tile gets a full-width stripe along its bottom
// edge, colored by [shot.TagColor] for the shot's value of that tag. The
// stripe is 23% of the thumbnail height, at least 4 pixels.
//
// # Tiny layouts
//
// When the thumbnail size is 5 pixels or less in either dimension nothing is
// drawn except the background; [Visible] reports this.
package render
