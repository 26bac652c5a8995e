package exerion

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

// ErrProms reports a color PROM region of the wrong size.
var ErrProms = errors.New("exerion: bad color proms")

// PROM region layout.
const (
	promPalette      = 0x000 // 32 bytes, BBGGGRRR
	promCharLookup   = 0x020
	promSpriteLookup = 0x120
	promBgLookup     = 0x220
	promMixer        = 0x320
	PromSize         = 0x420
)

// TransparentPen is the looked-up pen that chars and sprites leave undrawn.
const TransparentPen = 16

// Proms holds everything derived from the color and mixer PROMs.
type Proms struct {
	Palette    gfx.Palette // 32 colors: 0-15 background, 16-31 chars and sprites
	CharPens   [256]uint8  // indexed by color*4 + pixel
	SpritePens [256]uint8  // indexed by color*4 + pixel
	BgPens     [256]uint8  // indexed by paletteBank*16 + color index
	Mixer      [256]byte   // indexed by mixerBank*16 + layer flags
}

// ParseProms decodes the PROM region.
func ParseProms(b []byte) (*Proms, error) {
	if len(b) != PromSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrProms, len(b), PromSize)
	}
	p := &Proms{Palette: make(gfx.Palette, 32)}
	for i := range p.Palette {
		v := b[promPalette+i]
		p.Palette[i] = color.RGBA{
			R: weigh(v&1, v>>1&1, v>>2&1),
			G: weigh(v>>3&1, v>>4&1, v>>5&1),
			B: weigh(0, v>>6&1, v>>7&1),
			A: 0xff,
		}
	}
	for i := 0; i < 256; i++ {
		// color*4+pixel reorders to bank<<6 | pixel<<4 | color low nibble
		idx := i&0xc0 | (i&3)<<4 | (i>>2)&15
		p.CharPens[i] = 16 + b[promCharLookup+idx]&15
		p.SpritePens[i] = 16 + b[promSpriteLookup+idx]&15
		p.BgPens[i] = b[promBgLookup+i] & 15
	}
	copy(p.Mixer[:], b[promMixer:promMixer+256])
	return p, nil
}

func weigh(bit0, bit1, bit2 byte) uint8 {
	return 0x21*bit0 + 0x47*bit1 + 0x97*bit2
}
