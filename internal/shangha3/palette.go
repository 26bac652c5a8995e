package shangha3

import (
	"image/color"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

const (
	// PaletteWords is the size of palette RAM.
	PaletteWords = 0x800

	// ShadowBank is set on a pixel index to select its shadowed color.
	ShadowBank = 0x800
)

// Palette is palette RAM plus the colors derived from it. Entries
// 0..0x7ff are the RAM colors, entry i^ShadowBank is the shadow of i.
type Palette struct {
	ram    [PaletteWords]uint16
	colors gfx.Palette
}

func NewPalette() *Palette {
	p := &Palette{colors: make(gfx.Palette, 2*PaletteWords)}
	for i := range p.ram {
		p.update(i)
	}
	return p
}

func (p *Palette) Read(offset int) uint16 { return p.ram[offset&(PaletteWords-1)] }

// Write stores a xRRRRRGGGGGBBBBB word and recomputes both colors of the entry.
func (p *Palette) Write(offset int, data uint16) {
	offset &= PaletteWords - 1
	p.ram[offset] = data
	p.update(offset)
}

func (p *Palette) update(i int) {
	w := p.ram[i]
	n := color.RGBA{R: pal5(w >> 10), G: pal5(w >> 5), B: pal5(w), A: 0xff}
	s := color.RGBA{R: darken(n.R), G: darken(n.G), B: darken(n.B), A: 0xff}
	if s == n {
		s.B ^= 1
	}
	p.colors[i] = n
	p.colors[i^ShadowBank] = s
}

func pal5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func darken(v uint8) uint8 { return uint8(uint16(v) * 5 / 8) }

// Colors returns the resolved palette, normal bank first.
func (p *Palette) Colors() gfx.Palette { return p.colors }

// RAM returns a copy of palette RAM.
func (p *Palette) RAM() []uint16 { return append([]uint16(nil), p.ram[:]...) }

// Load replaces palette RAM and recomputes every color.
func (p *Palette) Load(ram []uint16) {
	for i := range p.ram {
		var w uint16
		if i < len(ram) {
			w = ram[i]
		}
		p.Write(i, w)
	}
}
