package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestRecorderCounts(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	r := NewRecorder(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	r.OnLayoutStart(ctx, "grid", 4)
	r.OnLayoutComplete(ctx, "grid", "ok", 0, time.Millisecond)
	r.OnLayoutComplete(ctx, "grouped", "too_small", 2, time.Millisecond)
	r.OnLayoutComplete(ctx, "grid", "empty", 0, time.Millisecond)
	r.OnRelayout(ctx, "region")
	r.OnRenderComplete(ctx, "svg", 512, time.Millisecond, nil)
	r.OnRenderComplete(ctx, "png", 0, time.Millisecond, errors.New("boom"))
	r.OnCacheHit(ctx, "layout")
	r.OnCacheMiss(ctx, "layout")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "layout", 10)
	r.OnRequest(ctx, "GET", "/health")
	r.OnResponse(ctx, "GET", "/health", 200, time.Millisecond)
	r.OnRequest(ctx, "GET", "/edits")
	r.OnResponse(ctx, "GET", "/edits", 503, time.Millisecond)

	want := Counts{
		Layouts:      3,
		Unfit:        1,
		Relayouts:    1,
		Renders:      2,
		RenderErrors: 1,
		CacheHits:    1,
		CacheMisses:  2,
		Requests:     2,
		ServerErrors: 1,
	}
	if got := r.Counts(); got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
	for _, msg := range []string{"layout", "relayout", "render"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

func TestRecorderRegister(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	r := NewRecorder(nil)
	r.Register()

	Layout().OnLayoutComplete(context.Background(), "grid", "ok", 0, 0)
	Cache().OnCacheHit(context.Background(), "layout")
	Request().OnRequest(context.Background(), "GET", "/health")

	c := r.Counts()
	if c.Layouts != 1 || c.CacheHits != 1 || c.Requests != 1 {
		t.Errorf("Counts() after Register = %+v", c)
	}
}
