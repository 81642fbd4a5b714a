package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"runtime"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shotgrid/pkg/fonts"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

var (
	captionColor  = shot.Color{R: 0.9, G: 0.9, B: 0.9, A: 1}
	selectedColor = shot.Color{R: 0.96, G: 0.65, B: 0.14, A: 1}
)

// RenderPNG draws the snapshot as a contact sheet. Thumbnails that cannot
// be read are drawn as plain tiles; only a canceled context is an error.
func RenderPNG(ctx context.Context, snap layout.Snapshot, opts ...Option) ([]byte, error) {
	r := newRenderer(snap, opts...)
	sc := r.build(snap)

	w := int(math.Ceil(r.canvas.W * r.scale))
	h := int(math.Ceil(r.canvas.H * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(r.background)), image.Point{}, draw.Src)

	thumbs, err := r.loadThumbnails(ctx, sc.tiles)
	if err != nil {
		return nil, err
	}

	for i, t := range sc.tiles {
		rect := r.pixels(t.Box)
		if th := thumbs[i]; th != nil {
			draw.Draw(img, rect, th, th.Bounds().Min, draw.Src)
		} else {
			draw.Draw(img, rect, image.NewUniform(rgba(t.Fill)), image.Point{}, draw.Src)
		}
		if t.Stripe != nil {
			draw.Draw(img, r.pixels(t.Stripe.Box), image.NewUniform(rgba(t.Stripe.Color)), image.Point{}, draw.Over)
		}
		if t.Selected {
			outline(img, rect.Inset(-1), rgba(selectedColor))
		}
	}

	if len(sc.captions) > 0 {
		face := fonts.Face(fonts.DefaultSize * r.scale)
		d := &font.Drawer{Dst: img, Src: image.NewUniform(rgba(captionColor)), Face: face}
		for _, c := range sc.captions {
			d.Dot = fixed.P(int(c.X*r.scale), int(c.Y*r.scale))
			d.DrawString(c.Text)
		}
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// loadThumbnails decodes and resizes thumbnails in parallel. The result is
// indexed like tiles; missing or unreadable files leave a nil entry.
func (r *renderer) loadThumbnails(ctx context.Context, tiles []tile) ([]image.Image, error) {
	out := make([]image.Image, len(tiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, t := range tiles {
		if t.Thumbnail == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := imgio.Open(t.Thumbnail)
			if err != nil {
				return nil
			}
			rect := r.pixels(t.Box)
			out[i] = transform.Resize(src, rect.Dx(), rect.Dy(), transform.Linear)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *renderer) pixels(b box) image.Rectangle {
	x0 := int(math.Round(b.X * r.scale))
	y0 := int(math.Round(b.Y * r.scale))
	x1 := int(math.Round((b.X + b.W) * r.scale))
	y1 := int(math.Round((b.Y + b.H) * r.scale))
	return image.Rect(x0, y0, x1, y1)
}

func outline(img draw.Image, rect image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func rgba(c shot.Color) color.NRGBA {
	clamp := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
