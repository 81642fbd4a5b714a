package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/render"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// RenderOptions translates pipeline options into renderer options.
func RenderOptions(e *shot.Edit, opts Options) ([]render.Option, error) {
	ro := []render.Option{render.WithEdit(e), render.WithScale(opts.Scale)}
	if opts.Overlay != "" {
		idx := e.FindProp(opts.Overlay)
		if idx < 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "tag %q not found", opts.Overlay)
		}
		ro = append(ro, render.WithOverlay(e.Props[idx], opts.OverlayItem))
	}
	if !opts.ShowCaptions() {
		ro = append(ro, render.WithoutCaptions())
	}
	if opts.Thumbnails {
		ro = append(ro, render.WithThumbnails(opts.ThumbDir))
	}
	if opts.Selected != nil {
		ro = append(ro, render.WithSelected(*opts.Selected))
	}
	if opts.Background != "" {
		bg, err := shot.ParseHex(opts.Background)
		if err != nil {
			return nil, err
		}
		ro = append(ro, render.WithBackground(bg))
	}
	return ro, nil
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, snap layout.Snapshot, e *shot.Edit, opts Options) (map[string][]byte, error) {
	ro, err := RenderOptions(e, opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(ctx, format, snap, ro...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
