package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/shotgrid/pkg/layout"
)

func TestNew(t *testing.T) {
	s, err := New("reel-01", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.ID == "" || s.EditID != "reel-01" || s.Layout == nil {
		t.Errorf("New() = %+v", s)
	}
	if s.Selected() != -1 {
		t.Errorf("Selected() = %d, want -1", s.Selected())
	}
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != DefaultTTL {
		t.Errorf("TTL = %v, want %v", got, DefaultTTL)
	}
	if _, ok := s.Layout.Current(); ok {
		t.Error("a new session should have no layout")
	}

	if _, err := New("", time.Minute); err == nil {
		t.Error("New() accepted an empty edit id")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	live, _ := New("reel-01", time.Hour)
	expired, _ := New("reel-02", time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Second)
	_ = store.Set(ctx, live)
	_ = store.Set(ctx, expired)

	got, err := store.Get(ctx, live.ID)
	if err != nil || got != live {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}

	n, _ := store.Cleanup(ctx)
	if n != 1 || store.Len() != 1 {
		t.Errorf("Cleanup() removed %d, %d left", n, store.Len())
	}

	if err := store.Delete(ctx, live.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, live.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestGetExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s, _ := New("reel-01", time.Hour)
	s.ExpiresAt = time.Now().Add(-time.Minute)
	_ = store.Set(ctx, s)

	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if store.Len() != 0 {
		t.Error("expired session was not removed")
	}
}

func TestTouchAndSelect(t *testing.T) {
	s, _ := New("reel-01", time.Hour)
	s.ExpiresAt = time.Now().Add(time.Second)
	s.Touch()
	if time.Until(s.ExpiresAt) < 59*time.Minute {
		t.Errorf("Touch() did not extend: %v", s.ExpiresAt)
	}

	s.Select(3)
	if s.Selected() != 3 {
		t.Errorf("Selected() = %d", s.Selected())
	}

	// The layout state is shared by reference.
	s.Layout.Sync(layout.Inputs{Region: layout.Rect{W: 10, H: 10}}, func(in layout.Inputs) layout.Snapshot {
		return layout.Snapshot{Inputs: in}
	})
	if _, ok := s.Layout.Current(); !ok {
		t.Error("layout state lost the snapshot")
	}
}
