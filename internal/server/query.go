package server

import (
	"math"
	"net/url"
	"strconv"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
)

// optionsFromQuery overlays the query parameters on the server defaults.
// A group_by parameter turns grouping on; grouped=true alone groups by
// scene.
func optionsFromQuery(q url.Values, defaults pipeline.Options) (pipeline.Options, error) {
	opts := defaults
	opts.Formats = nil

	floats := []struct {
		key string
		dst *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"left", &opts.Left},
		{"right", &opts.Right},
		{"header", &opts.Header},
		{"scale", &opts.Scale},
	}
	for _, f := range floats {
		if err := parseFloat(q, f.key, f.dst); err != nil {
			return opts, err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"overlap", &opts.Overlap},
		{"grouped", &opts.Grouped},
		{"unassigned", &opts.Unassigned},
		{"thumbnails", &opts.Thumbnails},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		if err := parseBool(q, b.key, b.dst); err != nil {
			return opts, err
		}
	}

	if v := q.Get("group_by"); v != "" {
		opts.Grouped = true
		opts.GroupBy = v
	}
	if v := q.Get("overlay"); v != "" {
		opts.Overlay = v
	}
	if q.Has("item") {
		n, err := strconv.Atoi(q.Get("item"))
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "item: not an integer: %q", q.Get("item"))
		}
		opts.OverlayItem = n
	}
	if q.Has("captions") {
		var on bool
		if err := parseBool(q, "captions", &on); err != nil {
			return opts, err
		}
		opts.Captions = &on
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	return opts, nil
}

func parseFloat(q url.Values, key string, dst *float64) error {
	if !q.Has(key) {
		return nil
	}
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", key, q.Get(key))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "%s: must be finite, got %q", key, q.Get(key))
	}
	*dst = v
	return nil
}

func parseBool(q url.Values, key string, dst *bool) error {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	if v == "" {
		*dst = true
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", key, v)
	}
	*dst = b
	return nil
}

// pointFromQuery reads the required x and y parameters, in layout space
// (bottom-left origin).
func pointFromQuery(q url.Values) (layout.Point, error) {
	var p layout.Point
	for _, k := range []string{"x", "y"} {
		if !q.Has(k) {
			return p, errors.New(errors.ErrCodeInvalidInput, "%s is required", k)
		}
	}
	if err := parseFloat(q, "x", &p.X); err != nil {
		return p, err
	}
	if err := parseFloat(q, "y", &p.Y); err != nil {
		return p, err
	}
	return p, nil
}
