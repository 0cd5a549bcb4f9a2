package room

import (
	"image"

	"github.com/blkerby/smartdiff/internal/snes"
)

// Image is a fixed-size RGBA raster. Alpha stays 0 until a pixel is
// painted and becomes 255 then, so transparency marks untouched regions.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage creates a fully transparent image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// At returns the RGB value of a pixel.
func (m *Image) At(x, y int) snes.Color {
	i := (y*m.Width + x) * 4
	return snes.Color{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
}

// Opaque reports whether a pixel has been painted.
func (m *Image) Opaque(x, y int) bool {
	return m.Pix[(y*m.Width+x)*4+3] != 0
}

// Set paints a pixel fully opaque.
func (m *Image) Set(x, y int, c snes.Color) {
	i := (y*m.Width + x) * 4
	m.Pix[i] = c[0]
	m.Pix[i+1] = c[1]
	m.Pix[i+2] = c[2]
	m.Pix[i+3] = 255
}

// NRGBA wraps the raster as a stdlib image for encoding. The pixel buffer
// is shared, not copied.
func (m *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
