package exerion

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

// Region sizes the board expects.
const (
	CharROMSize       = 0x2000
	SpriteROMSize     = 0x8000
	BackgroundROMSize = 0x8000
)

// CharLayout decodes 8x8 2bpp characters once CharRemap has been applied.
var CharLayout = gfx.Layout{
	Width: 8, Height: 8, Planes: 2,
	PlaneOffsets: []int{0, 4},
	XOffsets:     []int{3, 2, 1, 0, 8 + 3, 8 + 2, 8 + 1, 8 + 0},
	YOffsets:     []int{0, 16, 32, 48, 64, 80, 96, 112},
	Stride:       16,
}

// SpriteLayout decodes 16x16 2bpp sprites once SpriteRemap has been applied.
var SpriteLayout = gfx.Layout{
	Width: 16, Height: 16, Planes: 2,
	PlaneOffsets: []int{0, 4},
	XOffsets:     spriteColumns(1),
	YOffsets:     spriteRows(1),
	Stride:       64,
}

// BigSpriteLayout decodes the same sprites pixel-doubled to 32x32.
var BigSpriteLayout = gfx.Layout{
	Width: 32, Height: 32, Planes: 2,
	PlaneOffsets: []int{0, 4},
	XOffsets:     spriteColumns(2),
	YOffsets:     spriteRows(2),
	Stride:       64,
}

func spriteColumns(rep int) []int {
	var offs []int
	for g := 0; g < 4; g++ {
		for b := 3; b >= 0; b-- {
			for r := 0; r < rep; r++ {
				offs = append(offs, 8*g+b)
			}
		}
	}
	return offs
}

func spriteRows(rep int) []int {
	var offs []int
	for y := 0; y < 16; y++ {
		for r := 0; r < rep; r++ {
			offs = append(offs, 32*y)
		}
	}
	return offs
}

// backgroundLayout treats each 0x2000 byte layer as one 128x256 2bpp image,
// four pixels per byte with the high plane in the upper nibble.
var backgroundLayout = func() gfx.Layout {
	l := gfx.Layout{Width: 128, Height: 256, Planes: 2, PlaneOffsets: []int{0, 4}, Stride: 0x2000}
	for x := 0; x < 128; x++ {
		l.XOffsets = append(l.XOffsets, x/4*8+3-x%4)
	}
	for y := 0; y < 256; y++ {
		l.YOffsets = append(l.YOffsets, y*256)
	}
	return l
}()

// CharRemap reorders char ROM address lines.
// ROM order: n8-n4 v2-v0 n3-n0 h2; decoded order: n8-n4 n3-n0 v2-v0 h2.
func CharRemap(a uint32) uint32 {
	return a&^0x1fff |
		a&0x1f00 | // keep n8-n4
		a<<3&0x00f0 | // move n3-n0
		a>>4&0x000e | // move v2-v0
		a&0x0001 // keep h2
}

// SpriteRemap reorders sprite ROM address lines.
// ROM order: n9 n8 n3 n7-n4 v3-v0 n2-n0 h3 h2; decoded order: n9-n0 v3-v0 h3 h2.
func SpriteRemap(a uint32) uint32 {
	return a&^0xffff |
		a<<1&0x3c00 | // move n7-n4
		a>>4&0x0200 | // move n3
		a<<4&0x01c0 | // move n2-n0
		a>>3&0x003c | // move v3-v0
		a&0xc003 // keep n9-n8 h3-h2
}

// BackgroundWidth is the width of one background layer row.
const BackgroundWidth = 256

// Graphics holds every decoded graphics region of the board.
type Graphics struct {
	Chars      *gfx.TileSheet
	Sprites    *gfx.TileSheet
	BigSprites *gfx.TileSheet

	// Background holds four 256x256 layers. Each pixel is pre-shifted so the
	// layers can be ORed together: layer l keeps its 2-bit value in bits
	// 2l..2l+1 and an "opaque" flag in bit 8+l.
	Background [4][]uint16
}

// DecodeGraphics unscrambles and decodes the three graphics regions.
func DecodeGraphics(chars, sprites, background []byte) (*Graphics, error) {
	g := &Graphics{}

	c, err := gfx.Permute(chars, CharRemap)
	if err != nil {
		return nil, fmt.Errorf("chars: %w", err)
	}
	if g.Chars, err = gfx.Decode(c, CharLayout); err != nil {
		return nil, fmt.Errorf("chars: %w", err)
	}

	s, err := gfx.Permute(sprites, SpriteRemap)
	if err != nil {
		return nil, fmt.Errorf("sprites: %w", err)
	}
	if g.Sprites, err = gfx.Decode(s, SpriteLayout); err != nil {
		return nil, fmt.Errorf("sprites: %w", err)
	}
	if g.BigSprites, err = gfx.Decode(s, BigSpriteLayout); err != nil {
		return nil, fmt.Errorf("big sprites: %w", err)
	}

	if len(background) != BackgroundROMSize {
		return nil, fmt.Errorf("background: %w: got %d bytes, want %d", gfx.ErrLayout, len(background), BackgroundROMSize)
	}
	bg, err := gfx.Decode(background, backgroundLayout)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	for l := range g.Background {
		layer := make([]uint16, BackgroundWidth*256)
		for y := 0; y < 256; y++ {
			for x, p := range bg.Row(l, y) {
				w := uint16(p) << (2 * l)
				if p != 0 {
					w |= 0x100 << l
				}
				layer[y*BackgroundWidth+x] = w
			}
		}
		g.Background[l] = layer
	}
	return g, nil
}
