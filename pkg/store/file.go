package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/shotgrid/pkg/errors"
	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

const fileExt = ".yaml"

// FileStore keeps each edit in <dir>/<id>.yaml.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store folder %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the folder the store writes to.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) (string, error) {
	if err := errors.ValidateEditID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list %s", s.dir)
	}
	var out []Summary
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		e, err := shotio.ImportFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "read %s", de.Name())
		}
		out = append(out, summarize(e, info.ModTime()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*shot.Edit, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := shotio.ImportFile(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, notFound(id)
	}
	return e, err
}

func (s *FileStore) Put(ctx context.Context, e *shot.Edit) error {
	if err := checkPut(e); err != nil {
		return err
	}
	path, err := s.path(e.ID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return shotio.ExportFile(e, path)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeStore, err, "delete edit %s", id)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
