package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

const sampleYAML = `id: reel-01
name: Reel 1
fps: 24
frame_start: 0
frame_end: 48
scenes:
  - id: sc_intro
    name: Intro
    color: {r: 1, g: 0, b: 0, a: 1}
props:
  - id: cp_fx
    name: FX
    type: bool
  - id: cp_cast
    name: Cast
    type: flags
    items:
      - name: Ana
      - name: Bo
shots:
  - name: "0001"
    frame_start: 0
    scene: sc_intro
    tags: {cp_fx: 1, cp_cast: 3}
  - name: "0012"
    frame_start: 12
`

func TestReadYAML(t *testing.T) {
	e, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	if e.ID != "reel-01" || len(e.Shots) != 2 || len(e.Props) != 2 {
		t.Fatalf("decoded %+v", e)
	}
	if e.Shots[0].Duration != 12 || e.Shots[1].Duration != 36 {
		t.Errorf("durations = %d, %d; want 12, 36", e.Shots[0].Duration, e.Shots[1].Duration)
	}
	if e.Shots[0].Tag("cp_cast") != 3 {
		t.Errorf("cast tag = %d", e.Shots[0].Tag("cp_cast"))
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{name: "malformed json", format: FormatJSON, input: "{", code: errors.ErrCodeInvalidFormat},
		{name: "malformed yaml", format: FormatYAML, input: "id: [", code: errors.ErrCodeInvalidFormat},
		{name: "missing id", format: FormatJSON, input: `{"shots": []}`, code: errors.ErrCodeInvalidInput},
		{
			name:   "unknown scene",
			format: FormatJSON,
			input:  `{"id": "x", "shots": [{"name": "a", "scene": "sc_nope"}]}`,
			code:   errors.ErrCodeInvalidEdit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Read() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	e, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"edit.yaml", "edit.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := ExportFile(e, path); err != nil {
				t.Fatalf("ExportFile() error = %v", err)
			}
			got, err := ImportFile(path)
			if err != nil {
				t.Fatalf("ImportFile() error = %v", err)
			}
			if got.Name != e.Name || len(got.Shots) != len(e.Shots) || got.Shots[0].SceneID != "sc_intro" {
				t.Errorf("round trip lost data: %+v", got)
			}
			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("ExportFile() left %d files behind", len(entries))
			}
		})
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.JSON": FormatJSON,
		"a.yaml": FormatYAML,
		"a.yml":  FormatYAML,
		"no-ext": FormatYAML,
	}
	for path, want := range tests {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	e, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(e, &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"name,frame_start,duration,timestamp,scene,FX,Cast",
		"0001,0,12,00:00:00.000,Intro,true,Ana|Bo",
		"0012,12,36,00:00:00.500,,false,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&shot.Edit{ID: "empty"}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "name,frame_start,duration,timestamp,scene" {
		t.Errorf("header = %q", got)
	}
}
