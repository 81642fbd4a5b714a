package source

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func thumbDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "reel-01")
	writePNG(t, filepath.Join(dir, "0048.png"), 32, 18)
	writePNG(t, filepath.Join(dir, "0001.png"), 32, 18)
	writePNG(t, filepath.Join(dir, "0024.png"), 32, 18)
	writePNG(t, filepath.Join(dir, "nested", "0100.png"), 32, 18)
	writePNG(t, filepath.Join(dir, ".hidden", "0200.png"), 32, 18)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestFrameNumber(t *testing.T) {
	tests := []struct {
		name  string
		frame int
		ok    bool
	}{
		{name: "0001.png", frame: 1, ok: true},
		{name: "120.JPG", frame: 120, ok: true},
		{name: "2041.webp", frame: 2041, ok: true},
		{name: "-12.bmp", frame: -12, ok: true},
		{name: "0001.txt"},
		{name: "shot_0001.png"},
		{name: "0001.png.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, ok := FrameNumber(tt.name)
			if ok != tt.ok || frame != tt.frame {
				t.Errorf("FrameNumber(%q) = %d, %v; want %d, %v", tt.name, frame, ok, tt.frame, tt.ok)
			}
		})
	}
}

func TestScan(t *testing.T) {
	dir := thumbDir(t)

	frames, err := Scan(context.Background(), dir, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	want := []int{1, 24, 48}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i, f := range frames {
		if f.Frame != want[i] {
			t.Errorf("frame %d = %d, want %d", i, f.Frame, want[i])
		}
		if f.Width != 32 || f.Height != 18 {
			t.Errorf("frame %d size = %dx%d", f.Frame, f.Width, f.Height)
		}
	}

	recursive, err := Scan(context.Background(), dir, ScanOptions{Recursive: true, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(recursive) != 4 || recursive[3].Rel != filepath.Join("nested", "0100.png") {
		t.Errorf("recursive scan = %+v", recursive)
	}
}

func TestScanProgress(t *testing.T) {
	var mu sync.Mutex
	var last, calls int
	opts := ScanOptions{
		Workers: 2,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if done > last {
				last = done
			}
			if total != 3 {
				t.Errorf("total = %d, want 3", total)
			}
		},
	}
	if _, err := Scan(context.Background(), thumbDir(t), opts); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if calls != 3 || last != 3 {
		t.Errorf("progress calls = %d, last = %d; want 3 and 3", calls, last)
	}
}

func TestScanErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Scan(ctx, filepath.Join(t.TempDir(), "missing"), ScanOptions{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing folder: error = %v", err)
	}

	dup := t.TempDir()
	writePNG(t, filepath.Join(dup, "0010.png"), 4, 4)
	writePNG(t, filepath.Join(dup, "10.png"), 4, 4)
	if _, err := Scan(ctx, dup, ScanOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate frame: error = %v", err)
	}

	broken := t.TempDir()
	if err := os.WriteFile(filepath.Join(broken, "0001.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Scan(ctx, broken, ScanOptions{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("broken image: error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Scan(cancelled, thumbDir(t), ScanOptions{}); err == nil {
		t.Error("Scan() ignored a cancelled context")
	}
}

func TestImport(t *testing.T) {
	dir := thumbDir(t)

	e, err := Import(context.Background(), dir, ImportOptions{FPS: 24})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if e.ID != "reel-01" || e.Name != "reel-01" {
		t.Errorf("ID, Name = %q, %q", e.ID, e.Name)
	}
	if e.FrameStart != 1 || e.FrameEnd != 72 {
		t.Errorf("frame range = %d..%d, want 1..72", e.FrameStart, e.FrameEnd)
	}
	if got := e.AspectRatio(); got != 32.0/18.0 {
		t.Errorf("AspectRatio() = %v", got)
	}
	wantDur := []int{23, 24, 24}
	for i, s := range e.Shots {
		if s.Duration != wantDur[i] {
			t.Errorf("shot %s duration = %d, want %d", s.Name, s.Duration, wantDur[i])
		}
	}
	if e.Shots[0].Name != "0001" || e.Shots[0].Thumbnail != "0001.png" {
		t.Errorf("first shot = %+v", e.Shots[0])
	}

	if _, err := Import(context.Background(), dir, ImportOptions{FrameEnd: 48}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("frame end before last shot: error = %v", err)
	}
	if _, err := Import(context.Background(), t.TempDir(), ImportOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty folder: error = %v", err)
	}
}

func TestFromFramesSingle(t *testing.T) {
	e, err := FromFrames([]Frame{{Frame: 10, Rel: "10.png", Width: 4, Height: 3}}, "/tmp/one", ImportOptions{FPS: 25})
	if err != nil {
		t.Fatal(err)
	}
	if e.FrameEnd != 35 || e.Shots[0].Duration != 25 {
		t.Errorf("single frame range = %d..%d, duration %d", e.FrameStart, e.FrameEnd, e.Shots[0].Duration)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	edit := filepath.Join(dir, "reel.yaml")
	if err := os.WriteFile(edit, []byte("id: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := Watch(ctx, WatchOptions{Debounce: 20 * time.Millisecond}, edit)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Unrelated files in the same folder are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(edit, []byte("id: b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if len(c.Paths) != 1 || filepath.Base(c.Paths[0]) != "reel.yaml" {
			t.Errorf("Change = %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	for range changes {
	}
}

func TestWatchNothing(t *testing.T) {
	if _, err := Watch(context.Background(), WatchOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Watch() error = %v", err)
	}
}
