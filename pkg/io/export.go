package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shotgrid/pkg/shot"
)

// WriteJSON encodes an edit as indented JSON. The output can be re-imported
// with [ReadJSON].
func WriteJSON(e *shot.Edit, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes an edit as YAML.
func WriteYAML(e *shot.Edit, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes an edit in the given format.
func Write(e *shot.Edit, w io.Writer, f Format) error {
	if f == FormatJSON {
		return WriteJSON(e, w)
	}
	return WriteYAML(e, w)
}

// ExportFile writes an edit to path, choosing the encoder from the file
// extension. The file is written to a temporary sibling first and renamed
// into place, so readers watching path never see a partial edit.
func ExportFile(e *shot.Edit, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".edit-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(e, tmp, FormatOf(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
