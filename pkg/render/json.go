package render

import (
	"encoding/json"

	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

type jsonOutput struct {
	Status     layout.Status `json:"status"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Region     layout.Rect   `json:"region"`
	Thumb      layout.Size   `json:"thumb"`
	Columns    int           `json:"columns"`
	Rows       int           `json:"rows"`
	Grouped    bool          `json:"grouped"`
	GroupBy    string        `json:"group_by,omitempty"`
	Iterations int           `json:"iterations,omitempty"`
	Converged  bool          `json:"converged"`
	Groups     []jsonGroup   `json:"groups,omitempty"`
	Tiles      []jsonTile    `json:"tiles"`
}

type jsonGroup struct {
	ID      string      `json:"id"`
	Caption string      `json:"caption"`
	Header  layout.Rect `json:"header"`
	Members int         `json:"members"`
	Rows    int         `json:"rows"`
	Seconds float64     `json:"seconds"`
}

type jsonTile struct {
	Shot      int     `json:"shot"`
	Name      string  `json:"name,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Group     int     `json:"group"`
	Index     int     `json:"index_in_group"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tag       *int    `json:"tag,omitempty"`
}

// RenderJSON serializes the snapshot with shot names. Coordinates stay in
// layout space (bottom-left origin); every tile has the size in "thumb".
func RenderJSON(snap layout.Snapshot, opts ...Option) ([]byte, error) {
	r := newRenderer(snap, opts...)

	out := jsonOutput{
		Status:     snap.Status,
		Width:      r.canvas.W,
		Height:     r.canvas.H,
		Region:     snap.Viewport,
		Thumb:      snap.Size,
		Columns:    snap.Columns,
		Rows:       snap.Rows,
		Grouped:    snap.Grouped,
		GroupBy:    snap.Inputs.GroupBy,
		Iterations: snap.Iterations,
		Converged:  snap.Converged,
		Tiles:      make([]jsonTile, 0, len(snap.Placements)),
	}
	for _, g := range snap.Groups {
		out.Groups = append(out.Groups, jsonGroup{
			ID: g.ID, Caption: g.Caption, Header: g.Header,
			Members: g.Members, Rows: g.Rows, Seconds: g.Seconds,
		})
	}
	for _, pl := range snap.Placements {
		t := jsonTile{Shot: pl.Shot, Group: pl.Group, Index: pl.IndexInGroup, X: pl.Pos.X, Y: pl.Pos.Y}
		if s, ok := r.shot(pl.Shot); ok {
			t.Name = s.Name
			t.Timestamp = shot.Timestamp(s.FrameStart-r.edit.FrameStart, r.edit.Rate())
			if r.overlay != nil {
				v := s.Tag(r.overlay.ID)
				t.Tag = &v
			}
		}
		out.Tiles = append(out.Tiles, t)
	}
	return json.MarshalIndent(out, "", "  ")
}
