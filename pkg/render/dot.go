package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shotgrid/pkg/layout"
)

// pointsPerInch converts layout pixels to Graphviz node sizes.
const pointsPerInch = 72.0

// ToDOT converts a snapshot to Graphviz DOT with every node pinned to its
// placement, so neato reproduces the grid exactly. Group captions become
// plaintext nodes centered on their header band.
func ToDOT(snap layout.Snapshot, opts ...Option) string {
	r := newRenderer(snap, opts...)
	sc := r.build(snap)

	var buf bytes.Buffer
	buf.WriteString("graph shots {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", r.background.Hex())
	fmt.Fprintf(&buf, "  node [shape=box, style=filled, fixedsize=true, fontsize=10, fontcolor=%q, width=%.4f, height=%.4f];\n",
		captionColor.Hex(), snap.Size.W/pointsPerInch, snap.Size.H/pointsPerInch)
	buf.WriteString("\n")

	for i, c := range sc.captions {
		g := snap.Groups[i]
		fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", fixedsize=false, label=%q, pos=\"%.1f,%.1f!\"];\n",
			fmt.Sprintf("group-%d", i), c.Text, g.Header.CenterX(), g.Header.CenterY())
	}

	for _, t := range sc.tiles {
		rc := t.Placement.Rect(snap.Size)
		attrs := fmt.Sprintf("label=%q, fillcolor=%q, pos=\"%.1f,%.1f!\"", t.Label, t.Fill.Hex(), rc.CenterX(), rc.CenterY())
		if t.Selected {
			attrs += fmt.Sprintf(", color=%q, penwidth=2", selectedColor.Hex())
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(t.Placement), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID is unique per placement; flag groupings place a shot more than once.
func nodeID(pl layout.Placement) string {
	if pl.Group < 0 {
		return fmt.Sprintf("shot-%d", pl.Shot)
	}
	return fmt.Sprintf("shot-%d-g%d", pl.Shot, pl.Group)
}

// RenderDOTSVG lays out DOT with neato and returns SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
