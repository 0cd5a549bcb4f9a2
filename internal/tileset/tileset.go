// Package tileset loads and merges the common (CRE) and room specific
// (SCE) tileset assets of a project.
package tileset

import (
	"fmt"
	"path"

	"github.com/blkerby/smartdiff/internal/snes"
	"github.com/blkerby/smartdiff/internal/vfs"
)

const (
	gfxFile     = "8x8tiles.gfx"
	tableFile   = "16x16tiles.ttb"
	paletteFile = "palette.snes"
)

// CREPath locates the common tileset directory below a project root. The
// common set always lives at id 0.
func CREPath(projectDir string) string {
	return path.Join(projectDir, "Export/Tileset/CRE/00")
}

// SCEPath locates a room specific tileset directory below a project root.
// The graphics-set id is formatted as two uppercase hex digits.
func SCEPath(projectDir string, gfxSet int) string {
	return path.Join(projectDir, "Export/Tileset/SCE", fmt.Sprintf("%02X", gfxSet))
}

// Common is the CRE tileset shared by every room. It carries no palette;
// palettes always come from the room specific tileset.
type Common struct {
	Gfx   []snes.Bitmap
	Tiles []snes.Metatile
}

// Tileset is the merged graphics space for one room state: the SCE assets
// combined with the CRE assets so that every tile reference produced by
// the room document resolves.
type Tileset struct {
	Palette []snes.Color
	Gfx     []snes.Bitmap
	Tiles   []snes.Metatile
}

// LoadCommon loads the CRE tileset of a project.
func LoadCommon(fsys vfs.FileSystem, projectDir string) (*Common, error) {
	dir := CREPath(projectDir)
	gfx, err := loadGfx(fsys, path.Join(dir, gfxFile))
	if err != nil {
		return nil, fmt.Errorf("loading CRE tileset: %w", err)
	}
	tiles, err := loadTiles(fsys, path.Join(dir, tableFile))
	if err != nil {
		return nil, fmt.Errorf("loading CRE tileset: %w", err)
	}
	return &Common{Gfx: gfx, Tiles: tiles}, nil
}

// LoadMerged loads the SCE tileset for a graphics-set id and merges the
// common tileset into it. Bitmaps put the SCE set first with the CRE set
// appended; metatiles put the CRE set first with the SCE set appended.
// Both orders match how the tile words in room documents are indexed.
func LoadMerged(fsys vfs.FileSystem, projectDir string, gfxSet int, common *Common) (*Tileset, error) {
	dir := SCEPath(projectDir, gfxSet)

	palette, err := loadPalette(fsys, path.Join(dir, paletteFile))
	if err != nil {
		return nil, fmt.Errorf("loading SCE tileset %02X: %w", gfxSet, err)
	}
	gfx, err := loadGfx(fsys, path.Join(dir, gfxFile))
	if err != nil {
		return nil, fmt.Errorf("loading SCE tileset %02X: %w", gfxSet, err)
	}
	tiles, err := loadTiles(fsys, path.Join(dir, tableFile))
	if err != nil {
		return nil, fmt.Errorf("loading SCE tileset %02X: %w", gfxSet, err)
	}

	merged := &Tileset{
		Palette: palette,
		Gfx:     make([]snes.Bitmap, 0, len(gfx)+len(common.Gfx)),
		Tiles:   make([]snes.Metatile, 0, len(common.Tiles)+len(tiles)),
	}
	merged.Gfx = append(append(merged.Gfx, gfx...), common.Gfx...)
	merged.Tiles = append(append(merged.Tiles, common.Tiles...), tiles...)
	return merged, nil
}

func loadGfx(fsys vfs.FileSystem, p string) ([]snes.Bitmap, error) {
	data, err := fsys.Load(p)
	if err != nil {
		return nil, fmt.Errorf("loading 8x8 gfx at %s: %w", p, err)
	}
	gfx, err := snes.DecodeBitmaps(data)
	if err != nil {
		return nil, fmt.Errorf("decoding 8x8 gfx at %s: %w", p, err)
	}
	return gfx, nil
}

func loadTiles(fsys vfs.FileSystem, p string) ([]snes.Metatile, error) {
	data, err := fsys.Load(p)
	if err != nil {
		return nil, fmt.Errorf("loading 16x16 tiles at %s: %w", p, err)
	}
	tiles, err := snes.DecodeMetatiles(data)
	if err != nil {
		return nil, fmt.Errorf("decoding 16x16 tiles at %s: %w", p, err)
	}
	return tiles, nil
}

func loadPalette(fsys vfs.FileSystem, p string) ([]snes.Color, error) {
	data, err := fsys.Load(p)
	if err != nil {
		return nil, fmt.Errorf("loading palette at %s: %w", p, err)
	}
	palette, err := snes.DecodePalette(data)
	if err != nil {
		return nil, fmt.Errorf("decoding palette at %s: %w", p, err)
	}
	return palette, nil
}
