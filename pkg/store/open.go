package store

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures an edit store.
//
// DSN is the folder for the file store, the database path for SQLite and
// the connection URI for MongoDB.
type Config struct {
	Backend  string `toml:"backend"`
	DSN      string `toml:"dsn"`
	Database string `toml:"database"`
}

// Open creates the store described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "store %q: dsn is required", cfg.Backend)
	}
	switch cfg.Backend {
	case "", BackendFile:
		s, err := NewFileStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown store backend %q (must be one of: file, sqlite, mongo)", cfg.Backend)
	}
}
