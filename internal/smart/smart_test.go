package smart

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

const roomDoc = `<?xml version="1.0"?>
<Room width="2" height="1">
  <States>
    <State condition="E5E6" Arg="0" GFXset="B">
      <LevelData>
        <Layer1>
          <Screen X="0" Y="0">0005 8C0A 000F</Screen>
          <Screen X="1" Y="0">0001</Screen>
        </Layer1>
        <Layer2>
          <Screen X="0" Y="0">0002</Screen>
        </Layer2>
      </LevelData>
      <BGData>
        <Data Type="DECOMP">
          <SOURCE>0805 0001</SOURCE>
          <DEST>4000</DEST>
          <SIZE>800</SIZE>
        </Data>
        <Data Type="COPY">
          <SOURCE>FFFF</SOURCE>
        </Data>
      </BGData>
    </State>
    <State condition="Default" Arg="1E" GFXset="1C">
      <LevelData>
        <Layer1>
          <Screen X="0" Y="0">0000</Screen>
        </Layer1>
      </LevelData>
      <BGData/>
    </State>
  </States>
</Room>`

func TestDecodeRoom(t *testing.T) {
	room, err := DecodeRoom([]byte(roomDoc))
	assert.NoError(t, err)

	assert.Equal(t, 2, int(room.Width))
	assert.Equal(t, 1, int(room.Height))
	assert.Equal(t, 2, len(room.States.State))

	first := room.States.State[0]
	assert.Equal(t, "E5E6", first.Condition)
	assert.Equal(t, 0, int(first.Arg))
	assert.Equal(t, 0xB, int(first.GFXSet))

	assert.Equal(t, 2, len(first.LevelData.Layer1.Screens))
	screen := first.LevelData.Layer1.Screens[0]
	assert.Equal(t, 0, screen.X)
	assert.Equal(t, 0, screen.Y)
	assert.Equal(t, []uint16{0x0005, 0x8C0A, 0x000F}, screen.Data)
	assert.Equal(t, 1, first.LevelData.Layer1.Screens[1].X)

	assert.Equal(t, 1, len(first.LevelData.Layer2.Screens))

	assert.Equal(t, 2, len(first.BGData.Data))
	assert.Equal(t, "DECOMP", first.BGData.Data[0].Type)
	assert.Equal(t, WordList{0x0805, 0x0001}, first.BGData.Data[0].Source)
	assert.Equal(t, "4000", first.BGData.Data[0].Dest)
	assert.Equal(t, "COPY", first.BGData.Data[1].Type)

	second := room.States.State[1]
	assert.Equal(t, "Default", second.Condition)
	assert.Equal(t, 0x1E, int(second.Arg))
	assert.Equal(t, 0x1C, int(second.GFXSet))
	// Layer2 absent in the document renders as an empty layer.
	assert.Equal(t, 0, len(second.LevelData.Layer2.Screens))
	assert.Equal(t, 0, len(second.BGData.Data))
}

func TestDecodeRoomErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "not xml",
			doc:     "not a document",
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "unclosed element",
			doc:     `<Room width="1" height="1"><States>`,
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "no states",
			doc:     `<Room width="1" height="1"><States></States></Room>`,
			wantErr: ErrNoStates,
		},
		{
			name:    "bad width",
			doc:     `<Room width="xyz" height="1"><States><State condition="Default" Arg="0" GFXset="0"><LevelData><Layer1/></LevelData><BGData/></State></States></Room>`,
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "bad screen word",
			doc:     `<Room width="1" height="1"><States><State condition="Default" Arg="0" GFXset="0"><LevelData><Layer1><Screen X="0" Y="0">0001 zz</Screen></Layer1></LevelData><BGData/></State></States></Room>`,
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "bad background word",
			doc:     `<Room width="1" height="1"><States><State condition="Default" Arg="0" GFXset="0"><LevelData><Layer1/></LevelData><BGData><Data Type="DECOMP"><SOURCE>123G</SOURCE></Data></BGData></State></States></Room>`,
			wantErr: ErrMalformedNumber,
		},
		{
			name:    "screen word too wide",
			doc:     `<Room width="1" height="1"><States><State condition="Default" Arg="0" GFXset="0"><LevelData><Layer1><Screen X="0" Y="0">12345</Screen></Layer1></LevelData><BGData/></State></States></Room>`,
			wantErr: ErrMalformedNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRoom([]byte(tt.doc))
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}
