package source

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// ImportOptions configures Import.
type ImportOptions struct {
	ScanOptions

	// ID and Name of the new edit. ID defaults to the folder name.
	ID   string
	Name string

	FPS float64

	// FrameEnd is the frame after the last shot's final frame. Zero uses the
	// last thumbnail's frame plus the median shot length.
	FrameEnd int
}

// Import scans dir and builds an edit with one shot per thumbnail. Shot
// names are the zero-padded frame numbers, thumbnails are stored relative
// to dir, and the edit's aspect ratio comes from the first thumbnail.
func Import(ctx context.Context, dir string, opts ImportOptions) (*shot.Edit, error) {
	frames, err := Scan(ctx, dir, opts.ScanOptions)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no thumbnails found in %s", dir)
	}
	return FromFrames(frames, dir, opts)
}

// FromFrames builds an edit from scanned frames. Frames must be ordered.
func FromFrames(frames []Frame, dir string, opts ImportOptions) (*shot.Edit, error) {
	id := opts.ID
	if id == "" {
		id = filepath.Base(filepath.Clean(dir))
	}
	if err := errors.ValidateEditID(id); err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = id
	}

	e := &shot.Edit{
		ID:         id,
		Name:       name,
		FPS:        opts.FPS,
		Aspect:     frames[0].Aspect(),
		FrameStart: frames[0].Frame,
		Shots:      make([]shot.Shot, len(frames)),
	}
	for i, f := range frames {
		e.Shots[i] = shot.Shot{
			Name:       fmt.Sprintf("%04d", f.Frame),
			FrameStart: f.Frame,
			Thumbnail:  filepath.ToSlash(f.Rel),
		}
		if a := f.Aspect(); math.Abs(a-e.Aspect) > 0.01 && opts.Logger != nil {
			opts.Logger.Warn("thumbnail aspect differs from the first thumbnail",
				"frame", f.Frame, "aspect", a, "edit_aspect", e.Aspect)
		}
	}

	e.FrameEnd = opts.FrameEnd
	if e.FrameEnd == 0 {
		e.FrameEnd = frames[len(frames)-1].Frame + medianLength(frames, e.Rate())
	}
	if e.FrameEnd <= frames[len(frames)-1].Frame {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"frame end %d must be after the last thumbnail frame %d", e.FrameEnd, frames[len(frames)-1].Frame)
	}
	e.SyncDurations()

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// medianLength returns the median distance between consecutive frames, or
// one second for a single frame.
func medianLength(frames []Frame, fps float64) int {
	if len(frames) < 2 {
		return max(1, int(math.Round(fps)))
	}
	gaps := make([]int, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		gaps[i-1] = frames[i].Frame - frames[i-1].Frame
	}
	slices.Sort(gaps)
	return gaps[len(gaps)/2]
}
