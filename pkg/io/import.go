package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// Format is an edit file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension. Anything that is not
// .json is treated as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ReadJSON decodes a JSON edit from r.
//
// The input must be a JSON object with at least an "id" and a "shots" array:
//
//	{
//	  "id": "reel-01",
//	  "fps": 24,
//	  "frame_end": 480,
//	  "shots": [{"name": "0001", "frame_start": 0}, {"name": "0120", "frame_start": 120}]
//	}
//
// When frame_end is set, durations are recomputed from the shot starts and
// may be omitted.
// ReadJSON returns an error if the JSON is malformed or the edit fails
// [shot.Edit.Validate]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*shot.Edit, error) {
	var e shot.Edit
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return finish(&e)
}

// ReadYAML decodes a YAML edit from r. The fields are the same as for
// [ReadJSON].
func ReadYAML(r io.Reader) (*shot.Edit, error) {
	var e shot.Edit
	if err := yaml.NewDecoder(r).Decode(&e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return finish(&e)
}

// Read decodes an edit in the given format.
func Read(r io.Reader, f Format) (*shot.Edit, error) {
	if f == FormatJSON {
		return ReadJSON(r)
	}
	return ReadYAML(r)
}

// finish validates a decoded edit and, when it has a frame range, derives
// shot durations from it.
func finish(e *shot.Edit) (*shot.Edit, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.FrameEnd > e.FrameStart {
		e.SyncDurations()
	}
	return e, nil
}

// ImportFile reads an edit file at path, choosing the decoder from the file
// extension. A missing file yields an error with code FILE_NOT_FOUND.
func ImportFile(path string) (*shot.Edit, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "edit file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatOf(path))
}
