package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// DefaultDebounce is how long Watch collects events before reporting them.
const DefaultDebounce = 150 * time.Millisecond

// Change lists the files that changed during one debounce window.
type Change struct {
	Paths []string
}

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Watch reports changes to the given files and folders until ctx is done,
// then closes the returned channel.
//
// Files are watched through their parent folder so that atomic saves, which
// replace the file with a rename, keep being seen. Events arriving within
// the debounce window are coalesced into one Change.
func Watch(ctx context.Context, opts WatchOptions, paths ...string) (<-chan Change, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range paths {
		p, err := filepath.Abs(path)
		if err != nil {
			w.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
		}
		dir := p
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			files[p] = true
			dir = filepath.Dir(p)
		} else {
			dirs[p] = true
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", dir)
		}
	}

	match := func(name string) bool {
		return files[name] || dirs[filepath.Dir(name)]
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer w.Close()

		pending := make(map[string]bool)
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if !match(filepath.Clean(ev.Name)) {
					continue
				}
				pending[filepath.Clean(ev.Name)] = true
				if fire == nil {
					fire = time.After(opts.Debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				opts.Logger.Warn("file watcher error", "error", err)
			case <-fire:
				fire = nil
				c := Change{Paths: make([]string, 0, len(pending))}
				for p := range pending {
					c.Paths = append(c.Paths, p)
				}
				slices.Sort(c.Paths)
				clear(pending)
				opts.Logger.Debug("files changed", "paths", c.Paths)
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
