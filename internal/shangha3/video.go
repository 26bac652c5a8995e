package shangha3

import (
	"fmt"
	"image"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

const (
	ScreenWidth  = 24 * 16
	ScreenHeight = 16 * 16

	// VideoRAMWords is the size of the RAM holding the tilemap and command list.
	VideoRAMWords = 0x4000

	TileBytes = 128
)

// Visible is the displayed part of the frame buffer.
var Visible = image.Rect(0, 1*16, 24*16, 15*16)

// VideoState is the blitter board's video hardware.
type VideoState struct {
	blitter  Blitter
	palette  *Palette
	listAddr uint16
	last     Stats
}

// NewVideoState wires the blitter to video RAM, which the caller owns.
func NewVideoState(tiles *gfx.TileSheet, ram []uint16) (*VideoState, error) {
	if len(ram) < VideoRAMWords {
		return nil, fmt.Errorf("shangha3: video ram has %d words, want %d", len(ram), VideoRAMWords)
	}
	ram = ram[:VideoRAMWords]
	return &VideoState{
		blitter: Blitter{
			Tiles: tiles,
			RAM:   ram,
			Dst:   gfx.NewBitmap[uint16](ScreenWidth, ScreenHeight),
		},
		palette: NewPalette(),
	}, nil
}

// DecodeTiles decodes the tile ROM.
func DecodeTiles(rom []byte) (*gfx.TileSheet, error) {
	return gfx.Decode(rom, TileLayout)
}

// SetListAddress latches the command list start, in units of 8 words.
func (v *VideoState) SetListAddress(w uint16) { v.listAddr = w }
func (v *VideoState) ListAddress() uint16     { return v.listAddr }

// WriteFlip handles the flip screen register (bit 7).
func (v *VideoState) WriteFlip(data uint16) { v.blitter.Flip = data&0x80 != 0 }
func (v *VideoState) Flipped() bool         { return v.blitter.Flip }

func (v *VideoState) SetShadows(on bool) { v.blitter.Shadows = on }
func (v *VideoState) Shadows() bool      { return v.blitter.Shadows }

// Blit runs the command list.
func (v *VideoState) Blit() Stats {
	v.last = v.blitter.Go(int(v.listAddr))
	return v.last
}

// LastBlit returns the counts of the most recent Blit.
func (v *VideoState) LastBlit() Stats { return v.last }

func (v *VideoState) Palette() *Palette { return v.palette }

// Render resolves the visible part of the persistent buffer into dst,
// shadowed pixels through the shadow bank.
func (v *VideoState) Render(dst *image.RGBA) {
	gfx.Resolve(dst, v.blitter.Dst, v.palette.Colors(), Visible)
}

// State is the serializable part of the video hardware. Video RAM lives with
// the machine that owns it.
type State struct {
	ListAddr   uint16
	Flip       bool
	Shadows    bool
	PaletteRAM []uint16
	Frame      []uint16
}

func (v *VideoState) State() State {
	return State{
		ListAddr:   v.listAddr,
		Flip:       v.blitter.Flip,
		Shadows:    v.blitter.Shadows,
		PaletteRAM: v.palette.RAM(),
		Frame:      append([]uint16(nil), v.blitter.Dst.Pix...),
	}
}

func (v *VideoState) SetState(s State) {
	v.listAddr = s.ListAddr
	v.blitter.Flip = s.Flip
	v.blitter.Shadows = s.Shadows
	v.palette.Load(s.PaletteRAM)
	copy(v.blitter.Dst.Pix, s.Frame)
}
