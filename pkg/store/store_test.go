package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

func testEdit(id string) *shot.Edit {
	return &shot.Edit{
		ID:       id,
		Name:     "Reel " + id,
		FPS:      24,
		FrameEnd: 48,
		Scenes:   []shot.Scene{{ID: "sc_a", Name: "Intro", Color: shot.Color{R: 1, A: 1}}},
		Props:    []shot.PropDef{{ID: "cp_fx", Name: "FX", Type: shot.PropBool}},
		Shots: []shot.Shot{
			{Name: "0001", FrameStart: 0, Duration: 24, SceneID: "sc_a", Tags: map[string]int{"cp_fx": 1}},
			{Name: "0024", FrameStart: 24, Duration: 24},
		},
	}
}

// exercise runs the same contract checks against every backend.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	list, err := s.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List() on empty store = %v, %v", list, err)
	}
	if _, err := s.Get(ctx, "reel-01"); !errors.Is(err, errors.ErrCodeEditNotFound) {
		t.Errorf("Get() missing = %v, want EDIT_NOT_FOUND", err)
	}

	for _, id := range []string{"reel-02", "reel-01"} {
		if err := s.Put(ctx, testEdit(id)); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	got, err := s.Get(ctx, "reel-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Reel reel-01" || len(got.Shots) != 2 || got.Shots[0].Tag("cp_fx") != 1 || got.Shots[0].SceneID != "sc_a" {
		t.Errorf("Get() = %+v", got)
	}

	got.Name = "Renamed"
	got.Shots = got.Shots[:1]
	got.FrameEnd = 24
	if err := s.Put(ctx, got); err != nil {
		t.Fatalf("Put() update error = %v", err)
	}

	list, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "reel-01" || list[1].ID != "reel-02" {
		t.Fatalf("List() = %+v", list)
	}
	if list[0].Name != "Renamed" || list[0].Shots != 1 || list[0].UpdatedAt.IsZero() {
		t.Errorf("summary = %+v", list[0])
	}

	if err := s.Put(ctx, &shot.Edit{ID: "bad", Shots: []shot.Shot{{Name: "a", SceneID: "sc_x"}}}); err == nil {
		t.Error("Put() accepted an invalid edit")
	}

	if err := s.Delete(ctx, "reel-02"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "reel-02"); !errors.Is(err, errors.ErrCodeEditNotFound) {
		t.Errorf("second Delete() = %v, want EDIT_NOT_FOUND", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "edits"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)

	if _, err := s.Get(context.Background(), "../escape"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get() with a path id = %v, want INVALID_INPUT", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "shotgrid.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStoreMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shotgrid.db")

	first, err := NewSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("first NewSQLiteStore() error = %v", err)
	}
	if err := first.Put(context.Background(), testEdit("reel-01")); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := NewSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("second NewSQLiteStore() error = %v", err)
	}
	defer second.Close()

	var count int
	if err := second.Conn().QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("migrations recorded = %d, want 1", count)
	}
	if _, err := second.Get(context.Background(), "reel-01"); err != nil {
		t.Errorf("edit lost across reopen: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default is file", cfg: Config{DSN: filepath.Join(dir, "files")}},
		{name: "sqlite", cfg: Config{Backend: BackendSQLite, DSN: filepath.Join(dir, "edits.db")}},
		{name: "missing dsn", cfg: Config{Backend: BackendSQLite}, wantErr: true},
		{name: "unknown backend", cfg: Config{Backend: "postgres", DSN: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("Open() error code = %s", errors.GetCode(err))
				}
				return
			}
			defer s.Close()
			if _, err := s.List(ctx); err != nil {
				t.Errorf("List() error = %v", err)
			}
		})
	}
}
