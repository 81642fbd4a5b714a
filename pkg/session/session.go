// Package session keeps the live view state of HTTP clients.
//
// A view session belongs to one client looking at one edit. It owns a
// [layout.State], so repeated layout requests with an unchanged viewport and
// edit reuse the last solve, and it remembers the selected shot between
// requests. Sessions expire after a TTL.
//
//	store := session.NewMemoryStore()
//	sess, _ := session.New("reel-01", session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrExpired) {
//	    // ask the client to open a new view
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/shotgrid/pkg/layout"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is how long an idle view session lives.
const DefaultTTL = 2 * time.Hour

// Session is one client's view of an edit.
type Session struct {
	ID        string    `json:"id"`
	EditID    string    `json:"edit_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Layout is the view's live layout. It is safe for concurrent use.
	Layout *layout.State `json:"-"`

	mu       sync.Mutex
	selected int
	ttl      time.Duration
}

// New creates a session for an edit with a fresh layout state and no
// selection.
func New(editID string, ttl time.Duration) (*Session, error) {
	if editID == "" {
		return nil, errors.New("edit id is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		EditID:    editID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Layout:    &layout.State{},
		selected:  -1,
		ttl:       ttl,
	}, nil
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by its TTL.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExpiresAt = time.Now().Add(s.ttl)
}

// Selected returns the selected shot index, or -1.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select sets the selected shot index. Pass -1 to clear.
func (s *Session) Select(shot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = shot
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound for unknown
	// sessions and ErrExpired for expired ones.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
}
