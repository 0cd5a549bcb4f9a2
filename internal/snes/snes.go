// Package snes decodes the binary graphics formats of the tileset assets:
// 4bpp planar tiles, 16x16 tile table records and RGB555 palettes.
package snes

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// TileWidth and TileHeight are the pixel dimensions of one bitmap tile.
	TileWidth  = 8
	TileHeight = 8

	// BitmapSize is the byte size of one 8x8 4bpp planar tile record.
	BitmapSize = 32
	// MetatileSize is the byte size of one 16x16 tile table record.
	MetatileSize = 8
	// ColorSize is the byte size of one palette color.
	ColorSize = 2

	// PaletteBankSize is the number of colors per palette bank.
	PaletteBankSize = 16
)

// ErrTruncated indicates a graphics buffer whose length is not a whole
// number of records.
var ErrTruncated = errors.New("truncated graphics data")

// Color is an RGB triple.
type Color [3]uint8

// Bitmap is an 8x8 grid of 4-bit color indices, row-major. Index 0 is
// transparent.
type Bitmap [TileHeight][TileWidth]uint8

// TileRef references a bitmap together with palette and flip attributes,
// unpacked from a 16-bit tile word.
type TileRef struct {
	Index    int
	Palette  int
	Priority bool
	FlipX    bool
	FlipY    bool
}

// Metatile is a 16x16 composite of four 8x8 tile references.
type Metatile struct {
	TopLeft     TileRef
	TopRight    TileRef
	BottomLeft  TileRef
	BottomRight TileRef
}

// DecodeBitmap unpacks one 32-byte planar tile. Each pixel row spans four
// bitplanes: two interleaved bytes at row*2 and two more at row*2+16.
func DecodeBitmap(data []byte) (Bitmap, error) {
	var out Bitmap
	if len(data) < BitmapSize {
		return out, fmt.Errorf("%w: bitmap record is %d bytes, need %d", ErrTruncated, len(data), BitmapSize)
	}
	for y := 0; y < TileHeight; y++ {
		plane0 := data[y*2]
		plane1 := data[y*2+1]
		plane2 := data[y*2+16]
		plane3 := data[y*2+17]
		for x := 0; x < TileWidth; x++ {
			shift := 7 - x
			bit0 := (plane0 >> shift) & 1
			bit1 := (plane1 >> shift) & 1
			bit2 := (plane2 >> shift) & 1
			bit3 := (plane3 >> shift) & 1
			out[y][x] = bit0 | bit1<<1 | bit2<<2 | bit3<<3
		}
	}
	return out, nil
}

// EncodeBitmap packs an index matrix back into the 32-byte planar form.
// It is the inverse of DecodeBitmap and exists for building test fixtures
// and verifying round trips.
func EncodeBitmap(bitmap Bitmap) [BitmapSize]byte {
	var out [BitmapSize]byte
	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			c := bitmap[y][x]
			shift := 7 - x
			out[y*2] |= (c & 1) << shift
			out[y*2+1] |= ((c >> 1) & 1) << shift
			out[y*2+16] |= ((c >> 2) & 1) << shift
			out[y*2+17] |= ((c >> 3) & 1) << shift
		}
	}
	return out
}

// DecodeTileRef unpacks a 16-bit tile word: bits 0-9 bitmap index, bits
// 10-12 palette, bit 13 priority, bit 14 flip x, bit 15 flip y.
func DecodeTileRef(word uint16) TileRef {
	return TileRef{
		Index:    int(word & 0x3FF),
		Palette:  int(word>>10) & 7,
		Priority: (word>>13)&1 == 1,
		FlipX:    (word>>14)&1 == 1,
		FlipY:    (word>>15)&1 == 1,
	}
}

// DecodeMetatile unpacks one 8-byte tile table record: four little-endian
// tile words, one per quadrant.
func DecodeMetatile(data []byte) (Metatile, error) {
	if len(data) < MetatileSize {
		return Metatile{}, fmt.Errorf("%w: metatile record is %d bytes, need %d", ErrTruncated, len(data), MetatileSize)
	}
	return Metatile{
		TopLeft:     DecodeTileRef(binary.LittleEndian.Uint16(data[0:2])),
		TopRight:    DecodeTileRef(binary.LittleEndian.Uint16(data[2:4])),
		BottomLeft:  DecodeTileRef(binary.LittleEndian.Uint16(data[4:6])),
		BottomRight: DecodeTileRef(binary.LittleEndian.Uint16(data[6:8])),
	}, nil
}

// DecodeColor converts an RGB555 value to RGB. Each 5-bit channel is
// scaled by 8 so channels span 0-248, never 255. The original tool scales
// this way and rendered output is compared against it bit-exactly, so the
// quirk must stay.
func DecodeColor(value uint16) Color {
	r := value & 0x1F
	g := (value >> 5) & 0x1F
	b := (value >> 10) & 0x1F
	return Color{uint8(r * 8), uint8(g * 8), uint8(b * 8)}
}

// DecodeBitmaps decodes a buffer of concatenated bitmap records.
func DecodeBitmaps(data []byte) ([]Bitmap, error) {
	if len(data)%BitmapSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of bitmap records", ErrTruncated, len(data))
	}
	out := make([]Bitmap, 0, len(data)/BitmapSize)
	for i := 0; i < len(data); i += BitmapSize {
		bitmap, err := DecodeBitmap(data[i : i+BitmapSize])
		if err != nil {
			return nil, err
		}
		out = append(out, bitmap)
	}
	return out, nil
}

// DecodeMetatiles decodes a buffer of concatenated tile table records.
func DecodeMetatiles(data []byte) ([]Metatile, error) {
	if len(data)%MetatileSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of metatile records", ErrTruncated, len(data))
	}
	out := make([]Metatile, 0, len(data)/MetatileSize)
	for i := 0; i < len(data); i += MetatileSize {
		tile, err := DecodeMetatile(data[i : i+MetatileSize])
		if err != nil {
			return nil, err
		}
		out = append(out, tile)
	}
	return out, nil
}

// DecodePalette decodes a buffer of concatenated little-endian RGB555
// values.
func DecodePalette(data []byte) ([]Color, error) {
	if len(data)%ColorSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of colors", ErrTruncated, len(data))
	}
	out := make([]Color, 0, len(data)/ColorSize)
	for i := 0; i < len(data); i += ColorSize {
		out = append(out, DecodeColor(binary.LittleEndian.Uint16(data[i:i+ColorSize])))
	}
	return out, nil
}
