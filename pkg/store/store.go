// Package store persists edits.
//
// Three backends share the [Store] interface:
//
//   - [FileStore] keeps one YAML file per edit in a folder
//   - [SQLiteStore] keeps edits as JSON documents in a SQLite database
//   - [MongoStore] keeps edits as documents in a MongoDB collection
//
// [Open] picks a backend from a [Config]. Missing edits are reported with
// errors.ErrCodeEditNotFound; every other failure is errors.ErrCodeStore.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// Store reads and writes edits by ID.
type Store interface {
	// List returns a summary of every stored edit, ordered by ID.
	List(ctx context.Context) ([]Summary, error)

	// Get loads an edit.
	Get(ctx context.Context, id string) (*shot.Edit, error)

	// Put validates and stores an edit, replacing any edit with the same ID.
	Put(ctx context.Context, e *shot.Edit) error

	// Delete removes an edit. Deleting a missing edit is an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Summary describes a stored edit without loading its shots.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Shots     int       `json:"shots" bson:"shot_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func summarize(e *shot.Edit, updated time.Time) Summary {
	return Summary{ID: e.ID, Name: e.Name, Shots: len(e.Shots), UpdatedAt: updated.UTC()}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeEditNotFound, "edit %s not found", id)
}

// checkPut validates an edit before it is written.
func checkPut(e *shot.Edit) error {
	if e == nil {
		return errors.New(errors.ErrCodeInvalidInput, "edit is nil")
	}
	return e.Validate()
}
