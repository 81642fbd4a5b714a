// Package io reads and writes edit files and exports shot breakdowns.
//
// # Edit files
//
// Edits are stored as YAML (default) or JSON; the format follows the file
// extension (see [FormatOf]). A minimal edit:
//
//	id: reel-01
//	name: Reel 1
//	fps: 24
//	frame_start: 0
//	frame_end: 480
//	shots:
//	  - name: "0001"
//	    frame_start: 0
//	  - name: "0120"
//	    frame_start: 120
//
// Optional sections:
//   - scenes: id, name and color of each scene; shots refer to them by id
//   - props: tag definitions (id, name, type, min/max, items, color)
//   - shots[].tags: map from tag id to its integer value
//
// # Import
//
// Use [ImportFile] to read an edit from a path, or [ReadYAML] / [ReadJSON]
// to read from any io.Reader:
//
//	edit, err := io.ImportFile("reel-01.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoded edits are validated with [shot.Edit.Validate]. When the edit has a
// frame range, shot durations are recomputed from the shot starts.
//
// # Export
//
// [ExportFile] writes an edit atomically by renaming a temporary file into
// place, which keeps file watchers from reading half-written edits.
// [WriteCSV] and [ExportCSV] produce a spreadsheet-friendly breakdown with
// one row per shot.
package io
