package render

import (
	"strconv"

	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// stripeRatio and stripeMin size the tag overlay stripe.
const (
	stripeRatio = 0.23
	stripeMin   = 4
)

// captionLift raises caption baselines off the bottom of the header band.
const captionLift = 5.0

// box is a rectangle in image space (top-left origin, y down).
type box struct {
	X, Y, W, H float64
}

type tile struct {
	Placement layout.Placement
	Box       box
	Label     string
	Title     string
	Thumbnail string
	Fill      shot.Color
	Stripe    *stripe
	Selected  bool
}

type stripe struct {
	Box   box
	Color shot.Color
}

type caption struct {
	Text string
	X, Y float64 // baseline origin
	Band box
}

type scene struct {
	tiles    []tile
	captions []caption
}

var tileFill = shot.Color{R: 0.23, G: 0.23, B: 0.25, A: 1}

// flip converts a layout rectangle into image space.
func (r *renderer) flip(rc layout.Rect) box {
	return box{X: rc.X, Y: r.canvas.H - rc.Y - rc.H, W: rc.W, H: rc.H}
}

// StripeHeight returns the overlay stripe height for a thumbnail height.
func StripeHeight(h float64) float64 {
	return float64(max(stripeMin, int(h*stripeRatio)))
}

func (r *renderer) build(snap layout.Snapshot) scene {
	if !Visible(snap) {
		return scene{}
	}

	var sc scene
	sc.tiles = make([]tile, 0, len(snap.Placements))
	for _, pl := range snap.Placements {
		t := tile{
			Placement: pl,
			Box:       r.flip(pl.Rect(snap.Size)),
			Label:     strconv.Itoa(pl.Shot),
			Fill:      tileFill,
			Selected:  pl.Shot == r.selected,
		}
		if s, ok := r.shot(pl.Shot); ok {
			t.Label = s.Name
			t.Title = s.Name + " " + shot.Timestamp(s.FrameStart-r.edit.FrameStart, r.edit.Rate())
			t.Thumbnail = r.thumbPath(s)
			if idx := r.edit.FindScene(s.SceneID); s.SceneID != "" && idx >= 0 && !snap.Grouped {
				t.Fill = r.edit.Scenes[idx].Color
			}
			if r.overlay != nil {
				v := shot.OverlayValue(r.overlay, s.Tag(r.overlay.ID), r.item)
				sh := StripeHeight(t.Box.H)
				t.Stripe = &stripe{
					Box:   box{X: t.Box.X, Y: t.Box.Y + t.Box.H - sh, W: t.Box.W, H: sh},
					Color: shot.TagColor(r.overlay, v),
				}
			}
		}
		sc.tiles = append(sc.tiles, t)
	}

	if snap.Grouped && r.captions {
		for _, g := range snap.Groups {
			band := r.flip(g.Header)
			sc.captions = append(sc.captions, caption{
				Text: g.Caption,
				X:    band.X,
				Y:    band.Y + band.H - captionLift,
				Band: band,
			})
		}
	}
	return sc
}

func (r *renderer) shot(idx int) (shot.Shot, bool) {
	if r.edit == nil || idx < 0 || idx >= len(r.edit.Shots) {
		return shot.Shot{}, false
	}
	return r.edit.Shots[idx], true
}
