package exerion

import "github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"

// DrawText draws the 64x32 character layer. Each video RAM byte is a code;
// its high nibble also selects the color within the char palette.
func DrawText[P gfx.Pixel](v *VideoState, dst *gfx.Bitmap[P]) {
	pens := pensOf[P](v.proms.CharPens[:])
	clip := v.visible
	bank := int(v.charBank) * 256
	// every cell is visited; under cocktail flip a cell outside the
	// visible area can land inside it
	for sy := 0; sy < 32; sy++ {
		for sx := 0; sx < 64; sx++ {
			ch := int(v.videoRAM[sy*64+sx])
			x, y := sx*8, sy*8
			if v.cocktailFlip {
				x, y = 63*8-x, 31*8-y
			}
			c := (ch>>4 + int(v.charPalette)*16) * 4
			gfx.Draw(dst, v.gfx.Chars, ch+bank, v.cocktailFlip, v.cocktailFlip, x, y, clip,
				gfx.ColorKey(pens[c:c+4], P(TransparentPen)))
		}
	}
}
