package shangha3

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testList     = 0x600 // commands at word 0x3000
	testListWord = testList << 3
	testSlots    = (VideoRAMWords - testListWord) / CommandWords
)

func solid(rom []byte, code int, pen byte) {
	for i := code * TileBytes; i < (code+1)*TileBytes; i++ {
		rom[i] = pen<<4 | pen
	}
}

// halves fills the left eight columns with one pen and the right eight with another.
func halves(rom []byte, code int, left, right byte) {
	t := rom[code*TileBytes : (code+1)*TileBytes]
	for row := 0; row < 16; row++ {
		for b := 0; b < 8; b++ {
			p := left
			if b >= 4 {
				p = right
			}
			t[row*8+b] = p<<4 | p
		}
	}
}

func newTestVideo(t *testing.T) (*VideoState, []uint16) {
	t.Helper()
	rom := make([]byte, 0x110*TileBytes)
	solid(rom, 0, TransparentPen)
	solid(rom, 1, 3)
	solid(rom, 2, 5)
	solid(rom, 3, ShadowPen)
	halves(rom, 4, 1, 2)
	solid(rom, 0x0f, 1)
	solid(rom, 0x10, 7)
	solid(rom, 0x100, 2)
	tiles, err := DecodeTiles(rom)
	require.NoError(t, err)

	ram := make([]uint16, VideoRAMWords)
	v, err := NewVideoState(tiles, ram)
	require.NoError(t, err)
	v.SetListAddress(testList)
	return v, ram
}

type blit struct {
	code, color        int
	x, y, sizeX, sizeY int
	srcX, srcY         int
	zoomX, zoomY       int
	tilemap, condensed bool
	flipX, flipY       bool
}

func put(ram []uint16, slot int, b blit) {
	c := ram[testListWord+slot*CommandWords:][:CommandWords]
	for i := range c {
		c[i] = 0
	}
	c[1] = uint16(b.code)
	if b.tilemap {
		c[2] = 0x100
	}
	c[4] = uint16(b.sizeX)
	c[5] = uint16(b.color)
	if b.condensed {
		c[6] = 0x100
	}
	c[7] = uint16(b.sizeY)
	c[8] = uint16(b.srcX)
	c[9] = uint16(b.x) & 0x3ff
	if b.flipX {
		c[10] |= 0x80
	}
	if b.flipY {
		c[10] |= 0x40
	}
	c[12] = uint16(b.y) & 0x3ff
	c[13] = uint16(b.srcY)
	c[14] = uint16(b.zoomX)
	c[15] = uint16(b.zoomY)
}

func count(v *VideoState, pred func(p uint16) bool) int {
	n := 0
	for _, p := range v.blitter.Dst.Pix {
		if pred(p) {
			n++
		}
	}
	return n
}

func at(v *VideoState, x, y int) uint16 { return v.blitter.Dst.At(x, y) }

func TestCommandFields(t *testing.T) {
	c := make(Command, CommandWords)
	c[9] = 0x3ff
	c[12] = 0x200
	c[10] = 0xc0
	c[5] = 0xff
	assert.Equal(t, -1, c.X())
	assert.Equal(t, -512, c.Y())
	assert.True(t, c.FlipX())
	assert.True(t, c.FlipY())
	assert.Equal(t, 0x7f, c.Color())
	assert.True(t, c.Disabled())

	sx, sy := c.Scale()
	assert.Equal(t, 1<<16, sx)
	assert.Equal(t, 1<<16, sy)
	c[14], c[15] = 0x100, 0x180
	sx, sy = c.Scale()
	assert.Equal(t, 0x10000, sx)
	assert.Equal(t, 0x8000, sy)
}

func TestBlitSentinelAndOneTile(t *testing.T) {
	v, ram := newTestVideo(t)
	put(ram, 0, blit{code: 1, color: 1, x: 100, y: 50})

	st := v.Blit()
	assert.Equal(t, Stats{Disabled: testSlots}, st)
	assert.Zero(t, count(v, func(p uint16) bool { return p != 0 }), "disabled slot must not draw")

	put(ram, 0, blit{code: 1, color: 1, x: 100, y: 50, sizeX: 15, sizeY: 15})
	st = v.Blit()
	assert.Equal(t, Stats{Drawn: 1, Disabled: testSlots - 1}, st)
	assert.Equal(t, 256, count(v, func(p uint16) bool { return p == 16+3 }))
	assert.Equal(t, 256, count(v, func(p uint16) bool { return p != 0 }))
	assert.Equal(t, uint16(19), at(v, 115, 65))
}

func TestBlitSkipsGarbage(t *testing.T) {
	v, ram := newTestVideo(t)
	put(ram, 0, blit{code: 1, sizeX: 600, sizeY: 15})
	put(ram, 1, blit{code: 1, sizeX: 15, sizeY: 15, zoomX: 0x1f0})
	put(ram, 2, blit{code: 1, sizeX: 15, sizeY: 300})
	st := v.Blit()
	assert.Equal(t, 3, st.Skipped)
	assert.Zero(t, st.Drawn)
	assert.Zero(t, count(v, func(p uint16) bool { return p != 0 }))
}

func TestFrameBufferPersists(t *testing.T) {
	v, ram := newTestVideo(t)
	put(ram, 0, blit{code: 2, x: 40, y: 40, sizeX: 31, sizeY: 15})
	v.Blit()
	before := append([]uint16(nil), v.blitter.Dst.Pix...)
	out1 := image.NewRGBA(image.Rect(0, 0, Visible.Dx(), Visible.Dy()))
	v.Render(out1)

	put(ram, 0, blit{})
	st := v.Blit()
	assert.Zero(t, st.Drawn)
	assert.Equal(t, before, v.blitter.Dst.Pix)
	out2 := image.NewRGBA(out1.Rect)
	v.Render(out2)
	assert.Equal(t, out1.Pix, out2.Pix)
}

func TestDirectModeCodeRollover(t *testing.T) {
	v, ram := newTestVideo(t)
	put(ram, 0, blit{code: 0x0f, x: 100, y: 50, sizeX: 31, sizeY: 15})
	v.Blit()
	assert.Equal(t, uint16(1), at(v, 100, 50))
	assert.Equal(t, uint16(2), at(v, 116, 50), "0x0f rolls to 0x100, not 0x10")
	assert.Equal(t, uint16(0), at(v, 132, 50))
}

func TestDirectModeZoom(t *testing.T) {
	v, ram := newTestVideo(t)
	put(ram, 0, blit{code: 1, x: 100, y: 50, sizeX: 15, sizeY: 15, zoomX: 0x180, zoomY: 0x180})
	v.Blit()
	assert.Equal(t, 64, count(v, func(p uint16) bool { return p != 0 }))
	assert.Equal(t, uint16(3), at(v, 107, 57))
	assert.Equal(t, uint16(0), at(v, 108, 50))
}

func TestFlipScreenMirrors(t *testing.T) {
	v, ram := newTestVideo(t)
	v.WriteFlip(0x80)
	put(ram, 0, blit{code: 4, x: 10, y: 20, sizeX: 15, sizeY: 15})
	v.Blit()
	assert.Equal(t, uint16(2), at(v, 358, 220))
	assert.Equal(t, uint16(1), at(v, 373, 235))
	assert.Equal(t, uint16(0), at(v, 10, 20))
}

func TestDirectModeFlipXReversesStrip(t *testing.T) {
	v, ram := newTestVideo(t)
	// tile 4 is pen 1 | pen 2, tile 5 is all pen 0
	put(ram, 0, blit{code: 4, x: 100, y: 50, sizeX: 31, sizeY: 15})
	v.Blit()
	assert.Equal(t, uint16(1), at(v, 100, 50))
	assert.Equal(t, uint16(2), at(v, 108, 50))
	assert.Equal(t, uint16(0), at(v, 116, 50))

	v, ram = newTestVideo(t)
	put(ram, 0, blit{code: 4, x: 100, y: 50, sizeX: 31, sizeY: 15, flipX: true})
	v.Blit()
	assert.Equal(t, uint16(0), at(v, 100, 50))
	assert.Equal(t, uint16(0), at(v, 115, 50))
	assert.Equal(t, uint16(2), at(v, 116, 50))
	assert.Equal(t, uint16(2), at(v, 123, 50))
	assert.Equal(t, uint16(1), at(v, 124, 50))
	assert.Equal(t, uint16(1), at(v, 131, 65))
	assert.Equal(t, uint16(0), at(v, 132, 50))
}

func TestTilemapFlipMirrorsFineScroll(t *testing.T) {
	v, ram := newTestVideo(t)
	ram[0x1000] = 1 // row 16, column 0
	ram[0x1010] = 2 // row 16, column 1
	put(ram, 0, blit{tilemap: true, x: 100, y: 50, sizeX: 31, sizeY: 15, srcX: 4, srcY: 16 * 16,
		flipX: true, flipY: true})
	v.Blit()
	// unflipped: 100-111 pen 3, 112-127 pen 5, 128-131 transparent
	assert.Equal(t, uint16(0), at(v, 100, 50))
	assert.Equal(t, uint16(0), at(v, 103, 65))
	assert.Equal(t, uint16(5), at(v, 104, 50))
	assert.Equal(t, uint16(5), at(v, 119, 65))
	assert.Equal(t, uint16(3), at(v, 120, 50))
	assert.Equal(t, uint16(3), at(v, 131, 65))
	assert.Equal(t, uint16(0), at(v, 120, 66))
	assert.Equal(t, 12*16+16*16, count(v, func(p uint16) bool { return p != 0 }))
}

func TestTilemapWrapsColumns(t *testing.T) {
	v, ram := newTestVideo(t)
	ram[0xff0] = 1          // column 255
	ram[0x000] = 2          // column 0
	ram[0x010] = 1 | 0x3000 // column 1, color 3
	put(ram, 0, blit{tilemap: true, x: 100, y: 50, sizeX: 47, sizeY: 15, srcX: 255 * 16})
	v.Blit()
	assert.Equal(t, uint16(3), at(v, 100, 50))
	assert.Equal(t, uint16(5), at(v, 116, 50))
	assert.Equal(t, uint16(3*16+3), at(v, 132, 50))
	assert.Equal(t, uint16(0), at(v, 148, 50))
}

func TestTilemapRowBankAndFineScroll(t *testing.T) {
	v, ram := newTestVideo(t)
	ram[0x1000] = 1 // row 16, column 0
	ram[0x1010] = 2 // row 16, column 1
	put(ram, 0, blit{tilemap: true, x: 100, y: 50, sizeX: 31, sizeY: 15, srcX: 4, srcY: 16 * 16})
	v.Blit()
	assert.Equal(t, uint16(3), at(v, 100, 50))
	assert.Equal(t, uint16(3), at(v, 111, 50))
	assert.Equal(t, uint16(5), at(v, 112, 50))
}

func TestTilemapCondensed(t *testing.T) {
	v, ram := newTestVideo(t)
	ram[0x00] = 1 // column 0 row 0
	ram[0x20] = 2 // column 1 row 0
	put(ram, 0, blit{tilemap: true, condensed: true, x: 100, y: 50, sizeX: 15, sizeY: 15})
	v.Blit()
	assert.Equal(t, uint16(3), at(v, 100, 50))
	assert.Equal(t, uint16(3), at(v, 107, 57))
	assert.Equal(t, uint16(5), at(v, 108, 50))
	assert.Equal(t, uint16(0), at(v, 100, 58), "tile 0 is transparent")
}

func TestShadowPen(t *testing.T) {
	v, ram := newTestVideo(t)
	v.Palette().Write(3, 0x7fff)
	put(ram, 0, blit{code: 1, x: 0, y: 16, sizeX: 15, sizeY: 15})
	v.Blit()

	v.SetShadows(true)
	put(ram, 0, blit{code: 3, x: 0, y: 16, sizeX: 7, sizeY: 15})
	v.Blit()
	assert.Equal(t, uint16(3|ShadowBank), at(v, 0, 16))
	assert.Equal(t, uint16(3), at(v, 8, 16))

	out := image.NewRGBA(image.Rect(0, 0, Visible.Dx(), Visible.Dy()))
	v.Render(out)
	assert.Equal(t, color.RGBA{R: 159, G: 159, B: 159, A: 0xff}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 0xff}, out.RGBAAt(8, 0))

	v.SetShadows(false)
	v.Blit()
	assert.Equal(t, uint16(ShadowPen), at(v, 0, 16))
}

func TestPaletteShadowIsDistinct(t *testing.T) {
	p := NewPalette()
	p.Write(1, 0x7fff)
	p.Write(2, 0x0001)
	p.Write(PaletteWords+5, 0x7c00)
	assert.Equal(t, uint16(0x7c00), p.Read(5))
	cols := p.Colors()
	for _, i := range []int{0, 1, 2, 5} {
		assert.NotEqual(t, cols[i], cols[i^ShadowBank], "entry %d", i)
	}
	assert.Equal(t, color.RGBA{R: 255, A: 0xff}, cols[5])
	assert.Equal(t, color.RGBA{B: 1, A: 0xff}, cols[ShadowBank])
}

func TestStateRoundTrip(t *testing.T) {
	v, ram := newTestVideo(t)
	v.Palette().Write(9, 0x1234)
	v.WriteFlip(0x80)
	put(ram, 0, blit{code: 2, x: 40, y: 40, sizeX: 15, sizeY: 15})
	v.Blit()

	w, _ := newTestVideo(t)
	w.SetState(v.State())
	assert.Equal(t, v.State(), w.State())
	assert.True(t, w.Flipped())
	assert.Equal(t, uint16(0x1234), w.Palette().Read(9))
}
