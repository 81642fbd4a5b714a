// Package fonts provides the caption font shared by the SVG and PNG
// renderers.
//
// The raster face is Go Regular from golang.org/x/image, parsed once and
// cached per size, so contact sheets render identically on every machine
// without system fonts.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = "Go, 'Helvetica Neue', Arial, sans-serif"

// DefaultSize is the caption size in points at 72 DPI.
const DefaultSize = 12

var (
	parseOnce sync.Once
	regular   *opentype.Font
	parseErr  error

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// Face returns a Go Regular face of the given size. If the embedded font
// cannot be parsed it falls back to the fixed 7x13 bitmap face.
func Face(size float64) font.Face {
	if size <= 0 {
		size = DefaultSize
	}
	parseOnce.Do(func() {
		regular, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return basicfont.Face7x13
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	faces[size] = f
	return f
}

// Width measures s in pixels with the given face.
func Width(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}
