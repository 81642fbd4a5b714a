package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/shotgrid/pkg/cache"
	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/observability"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// Layout modes reported to hooks and logs.
const (
	ModeGrid    = "grid"
	ModeGrouped = "grouped"
)

// =============================================================================
// Layout Generation
// =============================================================================

// EditHash returns the content hash of an edit. It is the fingerprint that
// invalidates layouts when shots, scenes or tags change.
func EditHash(e *shot.Edit) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash edit %s", e.ID)
	}
	return cache.Hash(data), nil
}

// Groups resolves the grouping criterion and partitions the edit's shots.
func Groups(e *shot.Edit, groupBy string, unassigned bool) ([]layout.Group, error) {
	c, err := shot.ResolveCriterion(e, groupBy)
	if err != nil {
		return nil, err
	}
	return shot.Partition(e, c, shot.PartitionOptions{IncludeUnassigned: unassigned}), nil
}

// Solve computes the snapshot for in. It never fails: degenerate inputs are
// reported through the snapshot's Status, and an unknown grouping criterion
// produces a grouped snapshot without groups after logging a warning.
func Solve(ctx context.Context, e *shot.Edit, in layout.Inputs, opts Options) layout.Snapshot {
	opts.SetLayoutDefaults()
	hooks := observability.Layout()
	start := time.Now()

	if !in.Grouped {
		hooks.OnLayoutStart(ctx, ModeGrid, len(e.Shots))
		r := layout.Grid(len(e.Shots), in.Aspect, in.Region, *opts.GridParams)
		hooks.OnLayoutComplete(ctx, ModeGrid, string(r.Status), 0, time.Since(start))
		logOutcome(opts, ModeGrid, r, 0, true)
		return layout.NewGridSnapshot(in, r)
	}

	hooks.OnLayoutStart(ctx, ModeGrouped, len(e.Shots))
	groups, err := Groups(e, in.GroupBy, in.Unassigned)
	if err != nil {
		opts.Logger.Warn("grouping unavailable", "group_by", in.GroupBy, "error", errors.UserMessage(err))
		groups = nil
	}
	r := layout.Grouped(groups, in.Aspect, in.Region, *opts.GroupedParams)
	hooks.OnLayoutComplete(ctx, ModeGrouped, string(r.Status), r.Iterations, time.Since(start))
	logOutcome(opts, ModeGrouped, r.Result, r.Iterations, r.Converged)
	return layout.NewGroupedSnapshot(in, r)
}

func logOutcome(opts Options, mode string, r layout.Result, iterations int, converged bool) {
	switch {
	case r.Status != layout.StatusOK:
		opts.Logger.Debug("no layout", "mode", mode, "status", r.Status, "region", r.Viewport)
	case !converged:
		opts.Logger.Warn("grouped layout did not converge",
			"iterations", iterations,
			"columns", r.Columns,
			"rows", r.Rows)
	default:
		opts.Logger.Debug("solved layout",
			"mode", mode,
			"columns", r.Columns,
			"rows", r.Rows,
			"thumb_w", r.Size.W,
			"thumb_h", r.Size.H)
	}
}
