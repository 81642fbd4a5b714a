package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/cache"
	"github.com/matzehuels/shotgrid/pkg/errors"
	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/observability"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the viewer and the server all use it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	e, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Edit = e
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ShotCount = len(e.Shots)

	r.Logger.Info("loaded edit",
		"edit", e.ID,
		"shots", len(e.Shots),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	snap, hash, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, e, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.EditHash = hash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PlacementCount = len(snap.Placements)
	result.Stats.GroupCount = len(snap.Groups)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"status", snap.Status,
		"placements", len(snap.Placements),
		"groups", len(snap.Groups),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, e, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns opts.Edit when set, otherwise reads the edit at opts.Path.
func (r *Runner) Load(ctx context.Context, opts Options) (*shot.Edit, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Edit != nil {
		return opts.Edit, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := shotio.ImportFile(opts.Path)
	if err != nil {
		return nil, err
	}
	if e.TotalFrames() > 0 && !e.SyncDurations() {
		r.Logger.Warn("shot durations do not match the edit's frame range",
			"edit", e.ID,
			"frame_start", e.FrameStart,
			"frame_end", e.FrameEnd)
	}
	return e, nil
}

// ComputeLayoutWithCacheInfo computes the snapshot for an edit with caching.
// It also returns the edit hash and whether the snapshot came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, e *shot.Edit, opts Options) (layout.Snapshot, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Snapshot{}, "", false, err
	}

	hash, err := EditHash(e)
	if err != nil {
		return layout.Snapshot{}, "", false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(e.AspectRatio()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Snapshot
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, hash, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("layout cache unavailable", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	snap := Solve(ctx, e, opts.Inputs(e, hash), opts)

	if data, err := json.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return snap, hash, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, e *shot.Edit, opts Options) (layout.Snapshot, error) {
	snap, _, _, err := r.ComputeLayoutWithCacheInfo(ctx, e, opts)
	return snap, err
}

// Solver returns a solve function for layout.State.Sync. It bypasses the
// cache: interactive hosts recompute only when their state is stale.
func (r *Runner) Solver(ctx context.Context, e *shot.Edit, opts Options) func(layout.Inputs) layout.Snapshot {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	return func(in layout.Inputs) layout.Snapshot {
		return Solve(ctx, e, in, opts)
	}
}

// Sync brings a layout state up to date for the edit and options, solving
// only when the inputs changed. It returns the live snapshot.
func (r *Runner) Sync(ctx context.Context, st *layout.State, e *shot.Edit, opts Options) (layout.Snapshot, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Snapshot{}, err
	}
	hash, err := EditHash(e)
	if err != nil {
		return layout.Snapshot{}, err
	}
	snap, reason := st.Sync(opts.Inputs(e, hash), r.Solver(ctx, e, opts))
	if reason != layout.ReasonNone {
		observability.Layout().OnRelayout(ctx, string(reason))
		r.Logger.Debug("relayout", "reason", reason, "status", snap.Status)
	}
	return snap, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap layout.Snapshot, e *shot.Edit, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	snapData, err := json.Marshal(snap)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	snapHash := cache.Hash(snapData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	start := time.Now()
	rendered, err := Render(ctx, snap, e, opts)
	for _, format := range opts.Formats {
		observability.Layout().OnRenderComplete(ctx, format, len(rendered[format]), time.Since(start), err)
	}
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap layout.Snapshot, e *shot.Edit, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, e, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
