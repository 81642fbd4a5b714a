package store

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/shotgrid/pkg/errors"
	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const timeLayout = time.RFC3339Nano

// SQLiteStore keeps edits as JSON documents in a SQLite database.
type SQLiteStore struct {
	conn   *sql.DB
	logger *log.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations. Use ":memory:" for a private in-memory database.
func NewSQLiteStore(path string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "create database folder")
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open database %s", path)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping database %s", path)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.Wrap(errors.ErrCodeStore, err, "execute %s", pragma)
		}
	}

	s := &SQLiteStore{conn: conn, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Conn exposes the underlying database handle.
func (s *SQLiteStore) Conn() *sql.DB { return s.conn }

func (s *SQLiteStore) migrate() error {
	migrations, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "read migrations")
	}

	for _, m := range migrations {
		name := m.Name()
		if m.IsDir() || !strings.HasSuffix(name, ".sql") || s.applied(name) {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "read migration %s", name)
		}
		if _, err := s.conn.Exec(string(content)); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "execute migration %s", name)
		}
		if _, err := s.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "record migration %s", name)
		}
		s.logger.Debug("applied migration", "name", name)
	}
	return nil
}

func (s *SQLiteStore) applied(name string) bool {
	var exists int
	err := s.conn.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name='_migrations'").Scan(&exists)
	if err != nil {
		return false
	}
	var applied int
	err = s.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", name).Scan(&applied)
	return err == nil && applied == 1
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT id, name, shot_count, updated_at FROM edits ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list edits")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Shots, &updated); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan edit row")
		}
		sum.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list edits")
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*shot.Edit, error) {
	var body string
	err := s.conn.QueryRowContext(ctx, "SELECT body FROM edits WHERE id = ?", id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load edit %s", id)
	}
	e, err := shotio.ReadJSON(strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode edit %s", id)
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, e *shot.Edit) error {
	if err := checkPut(e); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := shotio.WriteJSON(e, &body); err != nil {
		return err
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO edits (id, name, shot_count, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			shot_count = excluded.shot_count,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		e.ID, e.Name, len(e.Shots), body.String(), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save edit %s", e.ID)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM edits WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete edit %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
