package source

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/karrick/godirwalk"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// Extensions lists the thumbnail file extensions Scan picks up.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

var framePattern = regexp.MustCompile(`^(-?\d+)\.([A-Za-z]+)$`)

// Frame is one thumbnail found on disk.
type Frame struct {
	Frame  int    `json:"frame"`
	Path   string `json:"path"`
	Rel    string `json:"rel"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Aspect returns the width/height ratio of the thumbnail.
func (f Frame) Aspect() float64 {
	if f.Height == 0 {
		return 0
	}
	return float64(f.Width) / float64(f.Height)
}

// ScanOptions configures Scan.
type ScanOptions struct {
	// Recursive descends into subfolders. Hidden entries are always skipped.
	Recursive bool

	// Workers bounds the number of images probed at once. Zero uses
	// GOMAXPROCS.
	Workers int

	// Progress, when set, is called after each image is probed with the
	// number probed so far. Calls come from several goroutines.
	Progress func(done, total int)

	Logger *log.Logger
}

// FrameNumber parses the frame number from a thumbnail file name. It reports
// false for names that are not <frame>.<ext> with a known image extension.
func FrameNumber(name string) (int, bool) {
	m := framePattern.FindStringSubmatch(name)
	if m == nil || !isImage(m[2]) {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isImage(ext string) bool {
	ext = "." + strings.ToLower(ext)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Scan finds the thumbnails in dir and returns them ordered by frame. Two
// files for the same frame are an error.
func Scan(ctx context.Context, dir string, opts ScanOptions) ([]Frame, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "thumbnail folder %s does not exist", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a folder", dir)
	}

	var frames []Frame
	err = godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == dir {
				return nil
			}
			name := de.Name()
			if strings.HasPrefix(name, ".") {
				return godirwalk.SkipThis
			}
			if de.IsDir() {
				if !opts.Recursive {
					return godirwalk.SkipThis
				}
				return nil
			}
			n, ok := FrameNumber(name)
			if !ok {
				opts.Logger.Debug("skipping file", "path", path)
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			frames = append(frames, Frame{Frame: n, Path: path, Rel: rel})
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", dir)
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].Frame < frames[j].Frame })
	for i := 1; i < len(frames); i++ {
		if frames[i].Frame == frames[i-1].Frame {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"frame %d has two thumbnails: %s and %s", frames[i].Frame, frames[i-1].Rel, frames[i].Rel)
		}
	}

	if err := probeAll(ctx, frames, opts.Workers, opts.Progress); err != nil {
		return nil, err
	}
	opts.Logger.Debug("scanned thumbnails", "dir", dir, "frames", len(frames))
	return frames, nil
}

// probeAll fills in the dimensions of every frame in parallel.
func probeAll(ctx context.Context, frames []Frame, workers int, progress func(done, total int)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var probed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, h, err := Probe(frames[i].Path)
			if err != nil {
				return err
			}
			frames[i].Width, frames[i].Height = w, h
			if progress != nil {
				progress(int(probed.Add(1)), len(frames))
			}
			return nil
		})
	}
	return g.Wait()
}

// Probe returns the pixel dimensions of an image without decoding it.
func Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read image header of %s", path)
	}
	return cfg.Width, cfg.Height, nil
}
