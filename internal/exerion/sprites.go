package exerion

import "github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"

// SpriteAttr is one 4-byte sprite RAM entry: flags, y, code, x.
//
//	flags bit 7  x flip
//	flags bit 6  y flip
//	flags bit 4  doubled (32x32)
//	flags bit 3  wide (two tiles stacked vertically)
//	flags bit 1-2 color
type SpriteAttr [4]byte

func (a SpriteAttr) FlipX() bool   { return a[0]&0x80 != 0 }
func (a SpriteAttr) FlipY() bool   { return a[0]&0x40 != 0 }
func (a SpriteAttr) Doubled() bool { return a[0]&0x10 != 0 }
func (a SpriteAttr) Wide() bool    { return a[0]&0x08 != 0 }
func (a SpriteAttr) Code() int     { return int(a[2]) }
func (a SpriteAttr) X() int        { return int(a[3])*2 + 72 }
func (a SpriteAttr) Y() int        { return int(a[1] ^ 0xff) }

// Color folds the attribute color bits, two code bits and the global sprite
// palette into a color group.
func (a SpriteAttr) Color(palette byte) int {
	code := a.Code()
	return int(a[0]>>1&3) | code>>5&4 | code&8 | int(palette)*16
}

// DrawSprites draws sprite RAM in table order over the visible area.
func DrawSprites[P gfx.Pixel](v *VideoState, dst *gfx.Bitmap[P]) {
	pens := pensOf[P](v.proms.SpritePens[:])
	clip := v.visible
	for i := 0; i+4 <= len(v.spriteRAM); i += 4 {
		a := SpriteAttr(v.spriteRAM[i : i+4])
		sheet := v.gfx.Sprites
		if a.Doubled() {
			sheet = v.gfx.BigSprites
		}
		x, y := a.X(), a.Y()
		flipX, flipY := a.FlipX(), a.FlipY()
		code := a.Code()

		if v.cocktailFlip {
			x = ScreenWidth - sheet.Width - x
			y = ScreenHeight - sheet.Height - y
			if a.Wide() {
				y -= sheet.Height
			}
			flipX, flipY = !flipX, !flipY
		}

		c := a.Color(v.spritePalette) * 4
		blend := gfx.ColorKey(pens[c:c+4], P(TransparentPen))

		if !a.Wide() {
			gfx.Draw(dst, sheet, code, flipX, flipY, x, y, clip, blend)
			continue
		}
		lower, upper := code&^0x10, code|0x10
		if flipY {
			lower, upper = upper, lower
		}
		gfx.Draw(dst, sheet, lower, flipX, flipY, x, y+sheet.Height, clip, blend)
		gfx.Draw(dst, sheet, upper, flipX, flipY, x, y, clip, blend)
		// a wide sprite owns the following entry
		i += 4
	}
}
