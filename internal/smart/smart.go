// Package smart decodes the SMART level format: XML room documents whose
// numeric fields are hexadecimal strings and whose tile data is encoded
// as whitespace-separated hexadecimal words.
package smart

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedDocument indicates a room document that is not valid XML.
	ErrMalformedDocument = errors.New("malformed room document")
	// ErrMalformedNumber indicates a numeric field that is not valid hexadecimal.
	ErrMalformedNumber = errors.New("malformed numeric field")
	// ErrNoStates indicates a room without any room state.
	ErrNoStates = errors.New("room has no states")
)

// Room is one level as described by a room document. Width and height are
// measured in screen-grid units.
type Room struct {
	Width  HexInt `xml:"width,attr"`
	Height HexInt `xml:"height,attr"`
	States States `xml:"States"`
}

// States wraps the room state list.
type States struct {
	State []State `xml:"State"`
}

// State is one rendering variant of a room, selected by a condition and
// argument pair and carrying its own tileset id.
type State struct {
	Condition string    `xml:"condition,attr"`
	Arg       HexInt    `xml:"Arg,attr"`
	GFXSet    HexInt    `xml:"GFXset,attr"`
	LevelData LevelData `xml:"LevelData"`
	BGData    BGData    `xml:"BGData"`
}

// LevelData holds the two screen-grid layers of a state. Layer2 may be
// absent in the document, in which case it stays empty and renders blank.
type LevelData struct {
	Layer1 Layer `xml:"Layer1"`
	Layer2 Layer `xml:"Layer2"`
}

// Layer is a list of screens placed on the room grid.
type Layer struct {
	Screens []Screen `xml:"Screen"`
}

// Screen is one 16x16-tile region of a layer at grid position (X, Y).
// Data holds its 256 tile-reference words.
type Screen struct {
	X    int
	Y    int
	Data []uint16
}

// UnmarshalXML decodes the X/Y grid position from attributes and the tile
// words from the element text. Screen needs a custom unmarshaler because
// chardata fields cannot use custom types.
func (s *Screen) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		X    string `xml:"X,attr"`
		Y    string `xml:"Y,attr"`
		Data string `xml:",chardata"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}

	x, err := parseHex(raw.X)
	if err != nil {
		return fmt.Errorf("screen X: %w", err)
	}
	y, err := parseHex(raw.Y)
	if err != nil {
		return fmt.Errorf("screen Y: %w", err)
	}
	data, err := parseWords(raw.Data)
	if err != nil {
		return fmt.Errorf("screen (%d,%d) data: %w", x, y, err)
	}

	s.X = x
	s.Y = y
	s.Data = data
	return nil
}

// BGData is the background descriptor of a state: a list of typed data
// blocks.
type BGData struct {
	Data []BGBlock `xml:"Data"`
}

// BGBlock is one block of a background descriptor. Only blocks of type
// DECOMP carry tile words in Source.
type BGBlock struct {
	Type   string   `xml:"Type,attr"`
	Source WordList `xml:"SOURCE"`
	Dest   string   `xml:"DEST"`
	Size   string   `xml:"SIZE"`
}

// HexInt is an integer encoded as a hexadecimal attribute string.
type HexInt int

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (h *HexInt) UnmarshalXMLAttr(attr xml.Attr) error {
	v, err := parseHex(attr.Value)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
	}
	*h = HexInt(v)
	return nil
}

// WordList is a whitespace-separated list of hexadecimal words held as
// element text. Words are parsed as 32-bit values; consumers that need
// tile words truncate to 16 bits.
type WordList []uint32

// UnmarshalXML implements xml.Unmarshaler.
func (w *WordList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}

	fields := strings.Fields(raw)
	out := make(WordList, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseUint(field, 16, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedNumber, field)
		}
		out = append(out, uint32(v))
	}
	*w = out
	return nil
}

// DecodeRoom parses a room document and validates its structure.
func DecodeRoom(data []byte) (*Room, error) {
	var room Room
	if err := xml.Unmarshal(data, &room); err != nil {
		if errors.Is(err, ErrMalformedNumber) {
			return nil, fmt.Errorf("parsing room document: %w", err)
		}
		return nil, fmt.Errorf("parsing room document: %w: %v", ErrMalformedDocument, err)
	}
	if len(room.States.State) == 0 {
		return nil, ErrNoStates
	}
	return &room, nil
}

func parseHex(s string) (int, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return int(v), nil
}

func parseWords(s string) ([]uint16, error) {
	fields := strings.Fields(s)
	out := make([]uint16, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseUint(field, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, field)
		}
		out = append(out, uint16(v))
	}
	return out, nil
}
