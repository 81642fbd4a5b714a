package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/cache"
	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

const editYAML = `id: reel-01
name: Reel 1
fps: 24
frame_start: 0
frame_end: 96
scenes:
  - id: sc_a
    name: Intro
  - id: sc_b
    name: Chase
props:
  - id: cp_cast
    name: Cast
    type: flags
    items:
      - name: Ana
      - name: Bo
shots:
  - {name: "0001", frame_start: 0, scene: sc_a, tags: {cp_cast: 1}}
  - {name: "0024", frame_start: 24, scene: sc_a, tags: {cp_cast: 3}}
  - {name: "0048", frame_start: 48, scene: sc_b}
  - {name: "0072", frame_start: 72, scene: sc_b, tags: {cp_cast: 2}}
`

func writeEdit(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reel-01.yaml")
	if err := os.WriteFile(path, []byte(editYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestExecute(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	runner := NewRunner(c, nil, testLogger(&bytes.Buffer{}))
	path := writeEdit(t)

	opts := Options{Path: path, Width: 1280, Height: 720, Formats: []string{FormatSVG, FormatJSON}}
	res, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Edit.ID != "reel-01" || res.Stats.ShotCount != 4 {
		t.Errorf("loaded %+v", res.Edit)
	}
	if res.Snapshot.Status != layout.StatusOK || len(res.Snapshot.Placements) != 4 {
		t.Errorf("snapshot status=%s placements=%d", res.Snapshot.Status, len(res.Snapshot.Placements))
	}
	if res.Edit.Shots[3].Duration != 24 {
		t.Errorf("durations were not synced: %+v", res.Edit.Shots[3])
	}
	if len(res.Artifacts) != 2 || !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("artifacts = %v", len(res.Artifacts))
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", again.CacheInfo)
	}
	if again.Snapshot.Size != res.Snapshot.Size || len(again.Snapshot.Placements) != 4 {
		t.Error("cached snapshot differs from the computed one")
	}

	opts.Refresh = true
	fresh, _ := runner.Execute(context.Background(), opts)
	if fresh.CacheInfo.LayoutHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no edit: error = %v", err)
	}
	if _, err := runner.Execute(ctx, Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v", err)
	}
	if _, err := runner.Execute(ctx, Options{Path: writeEdit(t), Overlay: "cp_nope"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown overlay: error = %v", err)
	}
}

func TestLayoutGroupedByFlags(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger(&bytes.Buffer{}))
	res, err := runner.Execute(context.Background(), Options{
		Path: writeEdit(t), Width: 1280, Height: 720,
		Grouped: true, GroupBy: "Cast", Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := res.Snapshot
	if !snap.Grouped || snap.Inputs.GroupBy != "Cast" {
		t.Fatalf("snapshot inputs = %+v", snap.Inputs)
	}
	// Ana: 0,1  Bo: 1,3  Unassigned: 2
	if len(snap.Groups) != 3 || len(snap.Placements) != 5 {
		t.Errorf("groups=%d placements=%d, want 3 and 5", len(snap.Groups), len(snap.Placements))
	}
	if got := len(snap.PlacementsOf(1)); got != 2 {
		t.Errorf("shot 1 placed %d times, want 2", got)
	}
}

func TestLayoutUnknownCriterion(t *testing.T) {
	var logs bytes.Buffer
	runner := NewRunner(nil, nil, testLogger(&logs))
	e := mustLoad(t)

	snap, err := runner.ComputeLayout(context.Background(), e, Options{Edit: e, Grouped: true, GroupBy: "cp_missing"})
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if !snap.Grouped || len(snap.Groups) != 0 || snap.Status != layout.StatusEmpty {
		t.Errorf("snapshot = %+v, want grouped and empty", snap)
	}
	if !strings.Contains(logs.String(), "grouping unavailable") {
		t.Errorf("expected a warning, got logs:\n%s", logs.String())
	}
}

func TestLayoutNonConvergenceWarns(t *testing.T) {
	var logs bytes.Buffer
	runner := NewRunner(nil, nil, testLogger(&logs))
	e := mustLoad(t)

	p := layout.DefaultGroupedParams()
	p.MaxIterations = 0
	opts := Options{Edit: e, Width: 3000, Height: 400, Grouped: true, GroupedParams: &p}
	snap, err := runner.ComputeLayout(context.Background(), e, opts)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Converged {
		t.Skip("layout converged without refinement")
	}
	if !strings.Contains(logs.String(), "did not converge") {
		t.Errorf("expected a non-convergence warning, got logs:\n%s", logs.String())
	}
}

func TestSync(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger(&bytes.Buffer{}))
	e := mustLoad(t)
	var st layout.State
	ctx := context.Background()

	opts := Options{Edit: e, Width: 1280, Height: 720}
	first, err := runner.Sync(ctx, &st, e, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != layout.StatusOK {
		t.Fatalf("Status = %s", first.Status)
	}

	calls := 0
	st.Sync(first.Inputs, func(layout.Inputs) layout.Snapshot { calls++; return first })
	if calls != 0 {
		t.Error("unchanged inputs should not trigger a solve")
	}

	opts.Width = 640
	resized, _ := runner.Sync(ctx, &st, e, opts)
	if resized.Inputs.Region.W != 640 || resized.Size.W >= first.Size.W {
		t.Errorf("resize did not relayout: %+v", resized.Inputs.Region)
	}

	if err := e.SetTag(2, "cp_cast", 1); err != nil {
		t.Fatal(err)
	}
	edited, _ := runner.Sync(ctx, &st, e, opts)
	if edited.Inputs.Fingerprint == resized.Inputs.Fingerprint {
		t.Error("editing a tag should change the fingerprint")
	}
}

func TestSyncUnassignedToggle(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger(&bytes.Buffer{}))
	e := mustLoad(t)
	e.Shots[3].SceneID = ""
	var st layout.State
	ctx := context.Background()

	opts := Options{Edit: e, Width: 1280, Height: 720, Grouped: true, GroupBy: shot.SceneKey}
	scenes, err := runner.Sync(ctx, &st, e, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenes.Groups) != 2 || len(scenes.Placements) != 3 {
		t.Fatalf("groups=%d placements=%d, want 2 and 3", len(scenes.Groups), len(scenes.Placements))
	}

	opts.Unassigned = true
	withRest, err := runner.Sync(ctx, &st, e, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !withRest.Inputs.Unassigned {
		t.Error("snapshot inputs lost the unassigned flag")
	}
	if len(withRest.Groups) != 3 || len(withRest.Placements) != 4 {
		t.Errorf("after toggling unassigned: groups=%d placements=%d, want 3 and 4",
			len(withRest.Groups), len(withRest.Placements))
	}

	fresh := Solve(ctx, e, opts.Inputs(e, withRest.Inputs.Fingerprint), opts)
	if len(fresh.Placements) != len(withRest.Placements) {
		t.Errorf("synced layout has %d placements, a fresh solve %d", len(withRest.Placements), len(fresh.Placements))
	}
}

func TestEditHash(t *testing.T) {
	e := mustLoad(t)
	h1, err := EditHash(e)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := EditHash(e)
	if h1 != h2 || len(h1) != 64 {
		t.Errorf("EditHash() = %q, %q", h1, h2)
	}
	e.AddScene("Outro")
	if h3, _ := EditHash(e); h3 == h1 {
		t.Error("adding a scene should change the hash")
	}
}

func mustLoad(t *testing.T) *shot.Edit {
	t.Helper()
	runner := NewRunner(nil, nil, nil)
	e, err := runner.Load(context.Background(), Options{Path: writeEdit(t)})
	if err != nil {
		t.Fatal(err)
	}
	return e
}
