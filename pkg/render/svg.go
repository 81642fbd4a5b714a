package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/shotgrid/pkg/fonts"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

const shotInteractionCSS = `
    .shot rect.frame { fill: none; stroke: #ffffff; stroke-width: 0; }
    .shot:hover rect.frame { stroke-width: 1; }
    .shot.selected rect.frame { stroke: #f5a623; stroke-width: 2; }
    .caption { fill: #e6e6e6; font-size: 12px; }
    .label { fill: #bdbdbd; font-size: 10px; }`

// RenderSVG draws the snapshot as SVG.
func RenderSVG(snap layout.Snapshot, opts ...Option) []byte {
	r := newRenderer(snap, opts...)
	sc := r.build(snap)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		r.canvas.W, r.canvas.H, r.canvas.W, r.canvas.H, escapeXML(fonts.FontFamily))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", shotInteractionCSS)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" %s/>`+"\n", fillAttrs(r.background))

	for _, c := range sc.captions {
		fmt.Fprintf(&buf, `  <text class="caption" x="%.1f" y="%.1f">%s</text>`+"\n", c.X, c.Y, escapeXML(c.Text))
	}
	for _, t := range sc.tiles {
		renderTile(&buf, t)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTile(buf *bytes.Buffer, t tile) {
	class := "shot"
	if t.Selected {
		class += " selected"
	}
	b := t.Box
	fmt.Fprintf(buf, `  <g class="%s" id="shot-%d" data-group="%d">`+"\n", class, t.Placement.Shot, t.Placement.Group)
	if t.Title != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(t.Title))
	}
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n", b.X, b.Y, b.W, b.H, fillAttrs(t.Fill))
	if t.Thumbnail != "" {
		fmt.Fprintf(buf, `    <image x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="none" xlink:href="%s"/>`+"\n",
			b.X, b.Y, b.W, b.H, escapeXML(t.Thumbnail))
	} else {
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			b.X+b.W/2, b.Y+b.H/2, escapeXML(t.Label))
	}
	if s := t.Stripe; s != nil {
		fmt.Fprintf(buf, `    <rect class="tag" x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n",
			s.Box.X, s.Box.Y, s.Box.W, s.Box.H, fillAttrs(s.Color))
	}
	fmt.Fprintf(buf, `    <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", b.X-1, b.Y-1, b.W+2, b.H+2)
	buf.WriteString("  </g>\n")
}

func fillAttrs(c shot.Color) string {
	if c.A >= 1 {
		return fmt.Sprintf(`fill="%s"`, c.Hex())
	}
	return fmt.Sprintf(`fill="%s" fill-opacity="%.3f"`, c.Hex(), c.A)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
