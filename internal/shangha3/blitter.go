package shangha3

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

// Pens with special meaning to the blitter.
const (
	TransparentPen = 15
	ShadowPen      = 14
)

// TileLayout decodes the 16x16 4bpp packed-pixel tile ROM.
var TileLayout = func() gfx.Layout {
	l := gfx.Layout{Width: 16, Height: 16, Planes: 4, PlaneOffsets: []int{0, 1, 2, 3}, Stride: 128}
	for i := 0; i < 16; i++ {
		l.XOffsets = append(l.XOffsets, i*4)
		l.YOffsets = append(l.YOffsets, i*64)
	}
	return l
}()

// Stats counts what one run of the command list did.
type Stats struct {
	Drawn    int // commands that reached the frame buffer
	Disabled int // zero-size slots
	Skipped  int // out-of-range garbage
}

// Blitter walks the command list in video RAM and draws into the persistent
// frame buffer. The buffer is never cleared.
type Blitter struct {
	Tiles   *gfx.TileSheet
	RAM     []uint16
	Dst     *gfx.Bitmap[uint16]
	Flip    bool
	Shadows bool
}

// Go runs every command from listAddr<<3 to the end of video RAM.
func (b *Blitter) Go(listAddr int) Stats {
	var st Stats
	for offs := listAddr << 3; offs+CommandWords <= len(b.RAM); offs += CommandWords {
		c := Command(b.RAM[offs : offs+CommandWords])
		switch {
		case c.Disabled():
			st.Disabled++
		case !c.InRange():
			st.Skipped++
		default:
			b.draw(c)
			st.Drawn++
		}
	}
	return st
}

func (b *Blitter) draw(c Command) {
	sx, sy := c.X(), c.Y()
	sizeX, sizeY := c.SizeX(), c.SizeY()
	flipX, flipY := c.FlipX(), c.FlipY()
	if b.Flip {
		sx = ScreenWidth - 1 - sx - sizeX
		sy = ScreenHeight - 1 - sy - sizeY
		flipX, flipY = !flipX, !flipY
	}
	clip := image.Rect(sx, sy, sx+sizeX+1, sy+sizeY+1).Intersect(b.Dst.Bounds())
	if clip.Empty() {
		return
	}
	scaleX, scaleY := c.Scale()
	if c.Tilemap() {
		b.drawTilemap(c, sx, sy, clip, flipX, flipY, scaleX, scaleY)
		return
	}

	tw := (scaleX*b.Tiles.Width + 0x8000) >> 16
	if tw == 0 {
		tw = 1
	}
	blend := b.blend(c.Color())
	code := c.Code()
	for i := 0; i < (sizeX+16)/16; i++ {
		dx := i * tw
		if flipX {
			dx = sizeX + 1 - tw - dx
		}
		gfx.DrawZoom(b.Dst, b.Tiles, code, flipX, flipY, sx+dx, sy, clip, blend, scaleX, scaleY)
		if code&0xf == 0xf {
			code = (code + 0x100) & 0xfff0
		} else {
			code++
		}
	}
}

// drawTilemap fills the destination from the tilemap at the start of video
// RAM. Normal maps are 256 columns of 2x16 rows of 16x16 tiles; condensed
// maps are 256 columns of 32 rows of tiles drawn at half size.
func (b *Blitter) drawTilemap(c Command, sx, sy int, clip image.Rectangle, flipX, flipY bool, scaleX, scaleY int) {
	tile := b.Tiles.Width
	condensed := c.Condensed()
	if condensed {
		tile /= 2
		scaleX /= 2
		scaleY /= 2
	}
	tw := (scaleX*b.Tiles.Width + 0x8000) >> 16
	th := (scaleY*b.Tiles.Height + 0x8000) >> 16
	if tw == 0 || th == 0 {
		return
	}

	srcX, srcY := c.SrcX(), c.SrcY()
	col0, row0 := srcX/tile, srcY/tile
	fineX, fineY := srcX%tile*tw/tile, srcY%tile*th/tile
	cols := (c.SizeX()+tw)/tw + 1
	rows := (c.SizeY()+th)/th + 1
	bank := c.Code() & 0xf000
	color := c.Color() & 0x70

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			col, row := (col0+cx)&0xff, row0+cy
			var addr int
			if condensed {
				addr = row&0x1f + 0x20*col
			} else {
				addr = row&0x0f + 0x10*col + 0x100*(row&0x10)
			}
			if addr >= len(b.RAM) {
				continue
			}
			t := int(b.RAM[addr])
			dx, dy := cx*tw-fineX, cy*th-fineY
			if flipX {
				dx = c.SizeX() + 1 - tw - dx
			}
			if flipY {
				dy = c.SizeY() + 1 - th - dy
			}
			gfx.DrawZoom(b.Dst, b.Tiles, t&0xfff|bank, flipX, flipY, sx+dx, sy+dy, clip,
				b.blend(t>>12|color), scaleX, scaleY)
		}
	}
}

// blend maps pens into the color's 16 entries. Pen 15 is transparent and,
// with shadows on, pen 14 moves the pixel underneath into the shadow bank.
func (b *Blitter) blend(color int) gfx.Blend[uint16] {
	base := uint16(color * 16)
	shadows := b.Shadows
	return func(dst uint16, src byte) (uint16, bool) {
		switch {
		case src == TransparentPen:
			return dst, false
		case src == ShadowPen && shadows:
			return dst | ShadowBank, true
		}
		return base + uint16(src), true
	}
}
