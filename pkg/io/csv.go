package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/shotgrid/pkg/shot"
)

// WriteCSV writes one row per shot with the columns
//
//	name,frame_start,duration,timestamp,scene,<tag names...>
//
// Scenes are written by name and tag values as [shot.PropDef.Format]
// renders them.
func WriteCSV(e *shot.Edit, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"name", "frame_start", "duration", "timestamp", "scene"}
	for _, p := range e.Props {
		header = append(header, p.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	scenes := make(map[string]string, len(e.Scenes))
	for _, sc := range e.Scenes {
		scenes[sc.ID] = sc.Name
	}

	for _, s := range e.Shots {
		row := []string{
			s.Name,
			strconv.Itoa(s.FrameStart),
			strconv.Itoa(s.Duration),
			shot.Timestamp(s.FrameStart-e.FrameStart, e.Rate()),
			scenes[s.SceneID],
		}
		for i := range e.Props {
			row = append(row, e.Props[i].Format(s.Tag(e.Props[i].ID)))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write shot %s: %w", s.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the CSV breakdown of an edit to path.
func ExportCSV(e *shot.Edit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(e, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
