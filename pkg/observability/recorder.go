package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Recorder counts layout, cache and request events and logs each one at
// debug level. It implements all three hook interfaces; the server
// registers one and reports its counts on /health.
type Recorder struct {
	logger *log.Logger

	layouts      atomic.Int64
	unfit        atomic.Int64
	relayouts    atomic.Int64
	renders      atomic.Int64
	renderErrors atomic.Int64
	hits         atomic.Int64
	misses       atomic.Int64
	requests     atomic.Int64
	serverErrors atomic.Int64
}

// Counts is a copy of a Recorder's counters.
type Counts struct {
	Layouts      int64 `json:"layouts"`
	Unfit        int64 `json:"unfit"`
	Relayouts    int64 `json:"relayouts"`
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

// NewRecorder creates a recorder that logs to logger. A nil logger only
// counts.
func NewRecorder(logger *log.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Register installs r as the layout, cache and request hooks.
func (r *Recorder) Register() {
	SetLayoutHooks(r)
	SetCacheHooks(r)
	SetRequestHooks(r)
}

// Counts returns the current counters.
func (r *Recorder) Counts() Counts {
	return Counts{
		Layouts:      r.layouts.Load(),
		Unfit:        r.unfit.Load(),
		Relayouts:    r.relayouts.Load(),
		Renders:      r.renders.Load(),
		RenderErrors: r.renderErrors.Load(),
		CacheHits:    r.hits.Load(),
		CacheMisses:  r.misses.Load(),
		Requests:     r.requests.Load(),
		ServerErrors: r.serverErrors.Load(),
	}
}

func (r *Recorder) debug(msg string, kv ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, kv...)
	}
}

func (r *Recorder) OnLayoutStart(ctx context.Context, mode string, shots int) {}

// OnLayoutComplete counts a solver run. Anything but "ok" and "empty" is
// counted as unfit.
func (r *Recorder) OnLayoutComplete(ctx context.Context, mode, status string, iterations int, d time.Duration) {
	r.layouts.Add(1)
	if status != "ok" && status != "empty" {
		r.unfit.Add(1)
	}
	r.debug("layout", "mode", mode, "status", status, "iterations", iterations, "took", d)
}

func (r *Recorder) OnRelayout(ctx context.Context, reason string) {
	r.relayouts.Add(1)
	r.debug("relayout", "reason", reason)
}

func (r *Recorder) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	r.renders.Add(1)
	if err != nil {
		r.renderErrors.Add(1)
	}
	r.debug("render", "format", format, "bytes", size, "took", d, "error", err)
}

func (r *Recorder) OnCacheHit(ctx context.Context, keyType string) {
	r.hits.Add(1)
}

func (r *Recorder) OnCacheMiss(ctx context.Context, keyType string) {
	r.misses.Add(1)
}

func (r *Recorder) OnCacheSet(ctx context.Context, keyType string, size int) {}

func (r *Recorder) OnRequest(ctx context.Context, method, route string) {
	r.requests.Add(1)
}

func (r *Recorder) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		r.serverErrors.Add(1)
	}
}

var (
	_ LayoutHooks  = (*Recorder)(nil)
	_ CacheHooks   = (*Recorder)(nil)
	_ RequestHooks = (*Recorder)(nil)
)
