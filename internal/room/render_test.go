package room

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/blkerby/smartdiff/internal/smart"
	"github.com/blkerby/smartdiff/internal/snes"
	"github.com/blkerby/smartdiff/internal/tileset"
)

// solidBitmap fills a tile with one color index.
func solidBitmap(c uint8) snes.Bitmap {
	var bitmap snes.Bitmap
	for y := 0; y < snes.TileHeight; y++ {
		for x := 0; x < snes.TileWidth; x++ {
			bitmap[y][x] = c
		}
	}
	return bitmap
}

// markerBitmap has one non-transparent pixel at (0,0) so flips are
// observable.
func markerBitmap(c uint8) snes.Bitmap {
	var bitmap snes.Bitmap
	bitmap[0][0] = c
	return bitmap
}

// testPalette maps slot i to a unique red value.
func testPalette(size int) []snes.Color {
	palette := make([]snes.Color, size)
	for i := range palette {
		palette[i] = snes.Color{uint8(i), 0, 0}
	}
	return palette
}

func TestPaintTile8(t *testing.T) {
	set := &tileset.Tileset{
		Palette: testPalette(128),
		Gfx:     []snes.Bitmap{solidBitmap(3), markerBitmap(1)},
	}

	t.Run("solid tile with palette offset", func(t *testing.T) {
		img := NewImage(16, 16)
		err := paintTile8(img, 8, 8, snes.TileRef{Index: 0, Palette: 2}, set)
		assert.NoError(t, err)

		// All 64 pixels painted with palette slot 2*16+3.
		for y := 8; y < 16; y++ {
			for x := 8; x < 16; x++ {
				assert.True(t, img.Opaque(x, y))
				assert.Equal(t, snes.Color{35, 0, 0}, img.At(x, y))
			}
		}
		// Untouched region stays transparent.
		assert.False(t, img.Opaque(0, 0))
	})

	t.Run("transparent texels leave pixels untouched", func(t *testing.T) {
		img := NewImage(8, 8)
		err := paintTile8(img, 0, 0, snes.TileRef{Index: 1}, set)
		assert.NoError(t, err)

		assert.True(t, img.Opaque(0, 0))
		assert.Equal(t, snes.Color{1, 0, 0}, img.At(0, 0))
		assert.False(t, img.Opaque(1, 0))
		assert.False(t, img.Opaque(7, 7))
	})

	t.Run("flips mirror the source coordinates", func(t *testing.T) {
		img := NewImage(8, 8)
		err := paintTile8(img, 0, 0, snes.TileRef{Index: 1, FlipX: true}, set)
		assert.NoError(t, err)
		assert.True(t, img.Opaque(7, 0))
		assert.False(t, img.Opaque(0, 0))

		img = NewImage(8, 8)
		err = paintTile8(img, 0, 0, snes.TileRef{Index: 1, FlipX: true, FlipY: true}, set)
		assert.NoError(t, err)
		assert.True(t, img.Opaque(7, 7))
		assert.False(t, img.Opaque(0, 0))
	})

	t.Run("bitmap index out of range", func(t *testing.T) {
		img := NewImage(8, 8)
		err := paintTile8(img, 0, 0, snes.TileRef{Index: 2}, set)
		assert.True(t, errors.Is(err, ErrTileRange))
	})

	t.Run("palette slot out of range", func(t *testing.T) {
		img := NewImage(8, 8)
		err := paintTile8(img, 0, 0, snes.TileRef{Index: 0, Palette: 7}, &tileset.Tileset{
			Palette: testPalette(16),
			Gfx:     []snes.Bitmap{solidBitmap(3)},
		})
		assert.True(t, errors.Is(err, ErrTileRange))
	})
}

// quadrantSet builds a tileset whose metatile 0 has four marker quadrants
// using bitmaps 1 (top left), 2 (top right), 3 (bottom left) and 4
// (bottom right), each with palette 0 and no flips.
func quadrantSet() *tileset.Tileset {
	return &tileset.Tileset{
		Palette: testPalette(16),
		Gfx: []snes.Bitmap{
			solidBitmap(0),
			markerBitmap(1),
			markerBitmap(2),
			markerBitmap(3),
			markerBitmap(4),
		},
		Tiles: []snes.Metatile{{
			TopLeft:     snes.TileRef{Index: 1},
			TopRight:    snes.TileRef{Index: 2},
			BottomLeft:  snes.TileRef{Index: 3},
			BottomRight: snes.TileRef{Index: 4},
		}},
	}
}

func TestRenderScreensFlips(t *testing.T) {
	set := quadrantSet()
	screens := []smart.Screen{{X: 0, Y: 0, Data: []uint16{0x0C00}}}

	img := NewImage(256, 256)
	assert.NoError(t, renderScreens(img, screens, set))

	// Both screen-level flips: quadrants swap to D C / B A and each is
	// flipped in both axes, moving the marker from (0,0) to (7,7) of its
	// quadrant.
	assert.Equal(t, snes.Color{4, 0, 0}, img.At(7, 7))
	assert.Equal(t, snes.Color{3, 0, 0}, img.At(15, 7))
	assert.Equal(t, snes.Color{2, 0, 0}, img.At(7, 15))
	assert.Equal(t, snes.Color{1, 0, 0}, img.At(15, 15))

	// The original marker corners stay unpainted.
	assert.False(t, img.Opaque(0, 0))
	assert.False(t, img.Opaque(8, 0))
	assert.False(t, img.Opaque(0, 8))
	assert.False(t, img.Opaque(8, 8))
}

func TestRenderScreensPlacement(t *testing.T) {
	set := quadrantSet()
	// Screen at grid (1,0); word 17 sits at tile column 1, row 1.
	data := make([]uint16, 18)
	data[17] = 0x0000
	screens := []smart.Screen{{X: 1, Y: 0, Data: data}}

	img := NewImage(512, 256)
	assert.NoError(t, renderScreens(img, screens, set))

	// Tile origin is (256+16, 16); the top-left marker paints there. The
	// words before it paint the same tile at earlier grid positions.
	assert.True(t, img.Opaque(256+16, 16))
	assert.Equal(t, snes.Color{1, 0, 0}, img.At(256+16, 16))
	assert.Equal(t, snes.Color{2, 0, 0}, img.At(256+16+8, 16))
}

// A screen placed outside the room grid must error instead of writing
// past the image buffer or wrapping into the following pixel rows.
func TestRenderScreensOutOfBounds(t *testing.T) {
	set := quadrantSet()

	tests := []struct {
		name   string
		screen smart.Screen
	}{
		{name: "below bottom edge", screen: smart.Screen{X: 0, Y: 2, Data: []uint16{0x0000}}},
		{name: "past right edge", screen: smart.Screen{X: 2, Y: 0, Data: []uint16{0x0000}}},
		{name: "too many tile words", screen: smart.Screen{X: 0, Y: 0, Data: make([]uint16, 257)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(256, 256)
			err := renderScreens(img, []smart.Screen{tt.screen}, set)
			assert.True(t, errors.Is(err, ErrScreenRange))
			assert.False(t, img.Opaque(0, 0))
		})
	}
}

func TestRenderScreensTileOutOfRange(t *testing.T) {
	set := quadrantSet()
	screens := []smart.Screen{{X: 0, Y: 0, Data: []uint16{0x0005}}}

	img := NewImage(256, 256)
	err := renderScreens(img, screens, set)
	assert.True(t, errors.Is(err, ErrTileRange))
}

func backgroundBlock(size int, word uint32) smart.BGData {
	source := make(smart.WordList, size)
	for i := range source {
		source[i] = word
	}
	return smart.BGData{Data: []smart.BGBlock{{Type: "DECOMP", Source: source}}}
}

func TestRenderBackgroundSingleScreen(t *testing.T) {
	set := &tileset.Tileset{
		Palette: testPalette(128),
		Gfx: []snes.Bitmap{
			solidBitmap(0), solidBitmap(0), solidBitmap(0),
			solidBitmap(0), solidBitmap(0), solidBitmap(3),
		},
	}

	// Word 0x0805 selects bitmap 5 with palette 2 and no flips. A solid
	// color-index-3 bitmap in palette bank 2 must fill its region with
	// palette slot 2*16+3.
	img := NewImage(512, 256)
	assert.NoError(t, renderBackground(img, backgroundBlock(1024, 0x0805), set))

	want := snes.Color{35, 0, 0}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.True(t, img.Opaque(x, y))
			assert.Equal(t, want, img.At(x, y))
		}
	}
	// The 1024-word screen tiles across every 256x256 region.
	assert.Equal(t, want, img.At(256, 0))
	assert.Equal(t, want, img.At(511, 255))
}

func TestRenderBackgroundDoubleScreen(t *testing.T) {
	set := &tileset.Tileset{
		Palette: testPalette(32),
		Gfx:     []snes.Bitmap{solidBitmap(1), solidBitmap(2)},
	}

	// Left half uses bitmap 0, right half bitmap 1.
	source := make(smart.WordList, 2048)
	for i := 1024; i < 2048; i++ {
		source[i] = 0x0001
	}
	bg := smart.BGData{Data: []smart.BGBlock{{Type: "DECOMP", Source: source}}}

	img := NewImage(512, 256)
	assert.NoError(t, renderBackground(img, bg, set))

	assert.Equal(t, snes.Color{1, 0, 0}, img.At(0, 0))
	assert.Equal(t, snes.Color{1, 0, 0}, img.At(255, 255))
	assert.Equal(t, snes.Color{2, 0, 0}, img.At(256, 0))
	assert.Equal(t, snes.Color{2, 0, 0}, img.At(511, 255))
}

func TestRenderBackgroundSkipsBlocks(t *testing.T) {
	set := &tileset.Tileset{
		Palette: testPalette(16),
		Gfx:     []snes.Bitmap{solidBitmap(1)},
	}

	tests := []struct {
		name string
		bg   smart.BGData
	}{
		{name: "wrong type", bg: smart.BGData{Data: []smart.BGBlock{{Type: "COPY", Source: make(smart.WordList, 1024)}}}},
		{name: "unsupported size", bg: backgroundBlock(512, 0)},
		{name: "empty descriptor", bg: smart.BGData{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(256, 256)
			assert.NoError(t, renderBackground(img, tt.bg, set))
			assert.False(t, img.Opaque(0, 0))
			assert.False(t, img.Opaque(255, 255))
		})
	}
}
