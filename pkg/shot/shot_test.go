package shot

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

func testEdit() *Edit {
	return &Edit{
		ID:         "reel-01",
		Name:       "Reel 1",
		FPS:        24,
		FrameStart: 0,
		FrameEnd:   40,
		Shots: []Shot{
			{Name: "a", FrameStart: 0},
			{Name: "b", FrameStart: 10},
			{Name: "c", FrameStart: 25},
		},
	}
}

func TestSyncDurations(t *testing.T) {
	e := testEdit()
	if !e.SyncDurations() {
		t.Error("SyncDurations() reported a mismatch for a matching range")
	}
	want := []int{10, 15, 15}
	for i, s := range e.Shots {
		if s.Duration != want[i] {
			t.Errorf("shot %d duration = %d, want %d", i, s.Duration, want[i])
		}
	}

	e.FrameStart = 5
	e.FrameEnd = 50
	if e.SyncDurations() {
		t.Error("SyncDurations() accepted a range that does not match the shots")
	}
	if got := e.Shots[2].Duration; got != 25 {
		t.Errorf("last shot duration = %d, want 25", got)
	}
}

func TestShotAtFrame(t *testing.T) {
	e := testEdit()
	tests := []struct {
		frame int
		want  int
	}{
		{frame: -1, want: -1},
		{frame: 0, want: 0},
		{frame: 9, want: 0},
		{frame: 10, want: 1},
		{frame: 1000, want: 2},
	}

	for _, tt := range tests {
		if got := e.ShotAtFrame(tt.frame); got != tt.want {
			t.Errorf("ShotAtFrame(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		frames int
		fps    float64
		want   string
	}{
		{frames: 0, fps: 24, want: "00:00:00.000"},
		{frames: 90, fps: 24, want: "00:00:03.750"},
		{frames: -24, fps: 24, want: "-00:00:01.000"},
		{frames: 24 * 3661, fps: 24, want: "01:01:01.000"},
		{frames: 48, fps: 0, want: "00:00:02.000"},
	}

	for _, tt := range tests {
		if got := Timestamp(tt.frames, tt.fps); got != tt.want {
			t.Errorf("Timestamp(%d, %v) = %q, want %q", tt.frames, tt.fps, got, tt.want)
		}
	}
}

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "first", existing: nil, want: "Scene"},
		{name: "taken", existing: []string{"Scene"}, want: "Scene.001"},
		{name: "only suffixed taken", existing: []string{"Scene.002"}, want: "Scene"},
		{name: "fills gap", existing: []string{"Scene", "Scene.001", "Scene.003"}, want: "Scene.002"},
		{name: "ignores other names", existing: []string{"Scene", "Scenery.001", "Scene.abc"}, want: "Scene.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueName("Scene", tt.existing); got != tt.want {
				t.Errorf("UniqueName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Edit)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Edit) {}},
		{name: "bad id", mutate: func(e *Edit) { e.ID = "../x" }, wantErr: true},
		{name: "unsorted shots", mutate: func(e *Edit) { e.Shots[1].FrameStart = 30 }, wantErr: true},
		{name: "negative duration", mutate: func(e *Edit) { e.Shots[0].Duration = -1 }, wantErr: true},
		{name: "unknown scene", mutate: func(e *Edit) { e.Shots[0].SceneID = "sc_missing" }, wantErr: true},
		{name: "unknown tag", mutate: func(e *Edit) { e.Shots[0].Tags = map[string]int{"cp_x": 1} }, wantErr: true},
		{
			name: "tag out of range",
			mutate: func(e *Edit) {
				e.Props = []PropDef{{ID: "cp_1", Name: "Fx", Type: PropBool}}
				e.Shots[0].Tags = map[string]int{"cp_1": 2}
			},
			wantErr: true,
		},
		{
			name:    "enum without items",
			mutate:  func(e *Edit) { e.Props = []PropDef{{ID: "cp_1", Name: "Cast", Type: PropEnum}} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEdit()
			tt.mutate(e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPropCheckAndClamp(t *testing.T) {
	intProp := &PropDef{Name: "Complexity", Type: PropInt, Min: 1, Max: 5}
	flags := &PropDef{Name: "Cast", Type: PropFlags, Items: []EnumItem{{Name: "A"}, {Name: "B"}}}

	if err := intProp.Check(6); !errors.Is(err, errors.ErrCodeInvalidTag) {
		t.Errorf("Check(6) = %v, want INVALID_TAG", err)
	}
	if err := intProp.Check(3); err != nil {
		t.Errorf("Check(3) = %v", err)
	}
	if got := intProp.Clamp(9); got != 5 {
		t.Errorf("Clamp(9) = %d, want 5", got)
	}
	if got := intProp.Default(); got != 1 {
		t.Errorf("Default() = %d, want 1", got)
	}
	if err := flags.Check(0b100); err == nil {
		t.Error("Check() accepted an unknown flag bit")
	}
	if got := flags.Clamp(0b111); got != 0b011 {
		t.Errorf("Clamp(0b111) = %b, want 11", got)
	}
}

func TestTagColor(t *testing.T) {
	base := Color{R: 1, G: 0.5, B: 0, A: 1}
	tests := []struct {
		name  string
		prop  PropDef
		value int
		alpha float64
	}{
		{name: "bool off", prop: PropDef{Type: PropBool, Color: base}, value: 0, alpha: 0.05},
		{name: "bool on", prop: PropDef{Type: PropBool, Color: base}, value: 1, alpha: 1},
		{name: "int at min", prop: PropDef{Type: PropInt, Min: 0, Max: 4, Color: base}, value: 0, alpha: 0.15},
		{name: "int at max", prop: PropDef{Type: PropInt, Min: 0, Max: 4, Color: base}, value: 4, alpha: 1},
		{name: "int midway", prop: PropDef{Type: PropInt, Min: 0, Max: 4, Color: base}, value: 2, alpha: 0.575},
		{name: "int empty range", prop: PropDef{Type: PropInt, Min: 3, Max: 3, Color: base}, value: 3, alpha: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := TagColor(&tt.prop, tt.value)
			if math.Abs(c.A-tt.alpha) > 1e-9 {
				t.Errorf("alpha = %v, want %v", c.A, tt.alpha)
			}
			if c.R != base.R || c.G != base.G || c.B != base.B {
				t.Errorf("TagColor() changed the hue: %+v", c)
			}
		})
	}
}

func TestOverlayValue(t *testing.T) {
	enum := &PropDef{Type: PropEnum, Items: []EnumItem{{Name: "x"}, {Name: "y"}}}
	flags := &PropDef{Type: PropFlags, Items: []EnumItem{{Name: "x"}, {Name: "y"}}}

	if got := OverlayValue(enum, 1, 1); got != 1 {
		t.Errorf("enum selected = %d, want 1", got)
	}
	if got := OverlayValue(enum, 0, 1); got != 0 {
		t.Errorf("enum other = %d, want 0", got)
	}
	if got := OverlayValue(flags, 0b10, 1); got != 1 {
		t.Errorf("flag set = %d, want 1", got)
	}
	if got := OverlayValue(flags, 0b01, 1); got != 0 {
		t.Errorf("flag unset = %d, want 0", got)
	}
}

func TestIndexColor(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		c := IndexColor(i)
		if c.A != 1 {
			t.Errorf("IndexColor(%d).A = %v, want 1", i, c.A)
		}
		hex := c.Hex()
		if !strings.HasPrefix(hex, "#") || len(hex) != 7 {
			t.Errorf("Hex() = %q", hex)
		}
		if seen[hex] {
			t.Errorf("IndexColor(%d) repeats %s", i, hex)
		}
		seen[hex] = true
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if c.Hex() != "#ff8000" || c.A != 1 {
		t.Errorf("ParseHex() = %+v", c)
	}
	if _, err := ParseHex("orange"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseHex(orange) error = %v", err)
	}
}
