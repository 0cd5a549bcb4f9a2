// Package room renders SMART rooms into RGBA images, one image per room
// state and layer.
package room

import (
	"errors"
	"fmt"
	"path"

	"github.com/blkerby/smartdiff/internal/smart"
	"github.com/blkerby/smartdiff/internal/snes"
	"github.com/blkerby/smartdiff/internal/tileset"
	"github.com/blkerby/smartdiff/internal/vfs"
)

const (
	// screenPixels is the pixel edge length of one screen: 16x16 tiles of
	// 16 pixels each.
	screenPixels = 256
	// screenTiles is the number of 16x16 tile words one screen holds.
	screenTiles = 256
)

// decompType tags the background blocks that carry decompressed tile
// layout words.
const decompType = "DECOMP"

// ErrTileRange indicates a tile or palette reference outside the merged
// tileset.
var ErrTileRange = errors.New("tile reference out of range")

// ErrScreenRange indicates a screen placed outside the room grid, or one
// carrying more tile words than a screen holds.
var ErrScreenRange = errors.New("screen out of range")

// RoomImages is the rendered output for one room: per state, one image
// for each of the two layers. All images of a room share the same size.
type RoomImages struct {
	StateNames []string
	Layer1     []*Image
	Layer2     []*Image
}

// DocumentPath returns the location of a room document below a project
// root.
func DocumentPath(projectDir, roomName string) string {
	return path.Join(projectDir, "Export/Rooms", roomName+".xml")
}

// RenderRoom loads a room document and its tileset assets through the
// given provider and renders both layers of every state. It is a pure
// function of the provider contents; nothing is cached between calls.
func RenderRoom(fsys vfs.FileSystem, projectDir, roomName string) (*RoomImages, error) {
	docPath := DocumentPath(projectDir, roomName)
	data, err := fsys.Load(docPath)
	if err != nil {
		return nil, fmt.Errorf("loading room at %s: %w", docPath, err)
	}
	doc, err := smart.DecodeRoom(data)
	if err != nil {
		return nil, fmt.Errorf("decoding room %s: %w", roomName, err)
	}

	common, err := tileset.LoadCommon(fsys, projectDir)
	if err != nil {
		return nil, err
	}

	width := int(doc.Width) * screenPixels
	height := int(doc.Height) * screenPixels

	images := &RoomImages{}
	for _, state := range doc.States.State {
		images.StateNames = append(images.StateNames,
			fmt.Sprintf("%s: %d", state.Condition, int(state.Arg)))

		set, err := tileset.LoadMerged(fsys, projectDir, int(state.GFXSet), common)
		if err != nil {
			return nil, err
		}

		layer1 := NewImage(width, height)
		if err := renderScreens(layer1, state.LevelData.Layer1.Screens, set); err != nil {
			return nil, fmt.Errorf("rendering layer 1 of %s: %w", roomName, err)
		}

		// Layer 2 paints the background first so screen-grid tiles
		// drawn afterwards overwrite the pixels they touch.
		layer2 := NewImage(width, height)
		if err := renderBackground(layer2, state.BGData, set); err != nil {
			return nil, fmt.Errorf("rendering background of %s: %w", roomName, err)
		}
		if err := renderScreens(layer2, state.LevelData.Layer2.Screens, set); err != nil {
			return nil, fmt.Errorf("rendering layer 2 of %s: %w", roomName, err)
		}

		images.Layer1 = append(images.Layer1, layer1)
		images.Layer2 = append(images.Layer2, layer2)
	}
	return images, nil
}

// paintTile8 paints one 8x8 tile. Flips mirror the source coordinate
// inside the tile; color index 0 leaves the destination untouched.
func paintTile8(img *Image, x0, y0 int, tile snes.TileRef, set *tileset.Tileset) error {
	if tile.Index >= len(set.Gfx) {
		return fmt.Errorf("%w: bitmap %d of %d", ErrTileRange, tile.Index, len(set.Gfx))
	}
	gfx := &set.Gfx[tile.Index]

	for y := 0; y < snes.TileHeight; y++ {
		for x := 0; x < snes.TileWidth; x++ {
			sx, sy := x, y
			if tile.FlipX {
				sx = snes.TileWidth - 1 - x
			}
			if tile.FlipY {
				sy = snes.TileHeight - 1 - y
			}
			c := gfx[sy][sx]
			if c == 0 {
				continue
			}
			slot := tile.Palette*snes.PaletteBankSize + int(c)
			if slot >= len(set.Palette) {
				return fmt.Errorf("%w: palette slot %d of %d", ErrTileRange, slot, len(set.Palette))
			}
			img.Set(x0+x, y0+y, set.Palette[slot])
		}
	}
	return nil
}

// paintTile16 paints a metatile's four quadrants.
func paintTile16(img *Image, x0, y0 int, tile snes.Metatile, set *tileset.Tileset) error {
	if err := paintTile8(img, x0, y0, tile.TopLeft, set); err != nil {
		return err
	}
	if err := paintTile8(img, x0+8, y0, tile.TopRight, set); err != nil {
		return err
	}
	if err := paintTile8(img, x0, y0+8, tile.BottomLeft, set); err != nil {
		return err
	}
	return paintTile8(img, x0+8, y0+8, tile.BottomRight, set)
}

// renderScreens paints the screen-grid tiles of a layer. A screen at grid
// position (x,y) covers the 256x256 pixel region starting at (x*256,
// y*256).
func renderScreens(img *Image, screens []smart.Screen, set *tileset.Tileset) error {
	for _, screen := range screens {
		if (screen.X+1)*screenPixels > img.Width || (screen.Y+1)*screenPixels > img.Height {
			return fmt.Errorf("screen (%d,%d): position outside the %dx%d room: %w",
				screen.X, screen.Y, img.Width/screenPixels, img.Height/screenPixels, ErrScreenRange)
		}
		if len(screen.Data) > screenTiles {
			return fmt.Errorf("screen (%d,%d): %d tile words, at most %d fit: %w",
				screen.X, screen.Y, len(screen.Data), screenTiles, ErrScreenRange)
		}

		x0 := screen.X * 16
		y0 := screen.Y * 16

		for i, word := range screen.Data {
			tile, err := screenTile(word, set)
			if err != nil {
				return fmt.Errorf("screen (%d,%d) word %d: %w", screen.X, screen.Y, i, err)
			}
			x := i%16 + x0
			y := i/16 + y0
			if err := paintTile16(img, x*16, y*16, tile, set); err != nil {
				return fmt.Errorf("screen (%d,%d) word %d: %w", screen.X, screen.Y, i, err)
			}
		}
	}
	return nil
}

// screenTile resolves a screen-grid tile word. The word's own flip bits
// (10 and 11) apply on top of the referenced metatile's quadrant flips: a
// flip swaps the quadrant pair on that axis and inverts each quadrant's
// own flip flag.
func screenTile(word uint16, set *tileset.Tileset) (snes.Metatile, error) {
	idx := int(word & 0x3FF)
	if idx >= len(set.Tiles) {
		return snes.Metatile{}, fmt.Errorf("%w: metatile %d of %d", ErrTileRange, idx, len(set.Tiles))
	}
	tile := set.Tiles[idx]

	if word&0x400 != 0 {
		tile.TopLeft, tile.TopRight = tile.TopRight, tile.TopLeft
		tile.BottomLeft, tile.BottomRight = tile.BottomRight, tile.BottomLeft
		tile.TopLeft.FlipX = !tile.TopLeft.FlipX
		tile.TopRight.FlipX = !tile.TopRight.FlipX
		tile.BottomLeft.FlipX = !tile.BottomLeft.FlipX
		tile.BottomRight.FlipX = !tile.BottomRight.FlipX
	}
	if word&0x800 != 0 {
		tile.TopLeft, tile.BottomLeft = tile.BottomLeft, tile.TopLeft
		tile.TopRight, tile.BottomRight = tile.BottomRight, tile.TopRight
		tile.TopLeft.FlipY = !tile.TopLeft.FlipY
		tile.TopRight.FlipY = !tile.TopRight.FlipY
		tile.BottomLeft.FlipY = !tile.BottomLeft.FlipY
		tile.BottomRight.FlipY = !tile.BottomRight.FlipY
	}
	return tile, nil
}

// renderBackground paints the DECOMP blocks of a background descriptor.
// A 1024-word block is one full 256x256 screen of 8x8 tiles, tiled across
// the image; a 2048-word block is a 512x256 double screen, tiled across
// every 512-pixel-wide region. Blocks of any other size carry no full
// screen layout and are skipped.
func renderBackground(img *Image, bg smart.BGData, set *tileset.Tileset) error {
	for _, block := range bg.Data {
		if block.Type != decompType {
			continue
		}

		tiles := make([]snes.TileRef, len(block.Source))
		for i, word := range block.Source {
			tiles[i] = snes.DecodeTileRef(uint16(word))
		}

		switch len(tiles) {
		case 1024:
			for sy := 0; sy < img.Height/screenPixels; sy++ {
				for sx := 0; sx < img.Width/screenPixels; sx++ {
					for i, tile := range tiles {
						x := sx*screenPixels + i%32*8
						y := sy*screenPixels + i/32*8
						if err := paintTile8(img, x, y, tile, set); err != nil {
							return fmt.Errorf("background word %d: %w", i, err)
						}
					}
				}
			}

		case 2048:
			for sy := 0; sy < img.Height/screenPixels; sy++ {
				for sx := 0; sx < img.Width/(2*screenPixels); sx++ {
					for i, tile := range tiles {
						var x, y int
						if i < 1024 {
							x = sx*2*screenPixels + i%32*8
							y = sy*screenPixels + i/32*8
						} else {
							x = sx*2*screenPixels + screenPixels + i%32*8
							y = sy*screenPixels + (i-1024)/32*8
						}
						if err := paintTile8(img, x, y, tile, set); err != nil {
							return fmt.Errorf("background word %d: %w", i, err)
						}
					}
				}
			}
		}
	}
	return nil
}
