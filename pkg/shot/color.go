package shot

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r" bson:"r"`
	G float64 `json:"g" yaml:"g" bson:"g"`
	B float64 `json:"b" yaml:"b" bson:"b"`
	A float64 `json:"a" yaml:"a" bson:"a"`
}

// Hex returns the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// ParseHex parses a #rrggbb or #rgb color. The result is opaque.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "color %q", s)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Pastel saturation and value: bright, washed-out tones that keep black
// caption text readable.
const (
	pastelSaturation = 0.29
	pastelValue      = 0.79
)

// goldenConjugate spaces successive hues as far apart as possible.
const goldenConjugate = 0.618033988749895

// IndexColor returns the idx-th color of a pastel palette whose hues follow
// the golden-ratio sequence, so neighbouring indices never look alike.
func IndexColor(idx int) Color {
	hue := 0.1 + goldenConjugate*float64(idx)
	hue -= math.Floor(hue)
	c := colorful.Hsv(hue*360, pastelSaturation, pastelValue)
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// Stripe alpha bounds for the tag overlay.
const (
	offAlpha    = 0.05
	rampMinimum = 0.15
)

// OverlayValue reduces a raw tag value to the value the tag overlay shows
// for the active item. Enum tags light up when the value equals item, flag
// tags when bit item is set; other types pass through.
func OverlayValue(p *PropDef, raw, item int) int {
	switch p.Type {
	case PropFlags:
		if Has(raw, item) {
			return 1
		}
		return 0
	case PropEnum:
		if raw == item {
			return 1
		}
		return 0
	}
	return raw
}

// TagColor returns the stripe color for an overlay value. On/off tags are
// nearly transparent when off; integer tags ramp from faint at Min to opaque
// at Max.
func TagColor(p *PropDef, v int) Color {
	c := p.Color
	if c.A == 0 {
		c.A = 1
	}
	switch p.Type {
	case PropInt:
		span := float64(p.Max - p.Min)
		if span <= 0 {
			return c
		}
		t := math.Max(0, math.Min(1, float64(v-p.Min)/span))
		return c.WithAlpha(rampMinimum + (1-rampMinimum)*t)
	default:
		if v == 0 {
			return c.WithAlpha(offAlpha)
		}
		return c
	}
}
