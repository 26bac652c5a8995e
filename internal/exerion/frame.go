package exerion

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

// RenderFrame composes background, sprites and text into dst, which must be
// ScreenWidth x ScreenHeight. Only the visible area is touched.
func RenderFrame[P gfx.Pixel](v *VideoState, dst *gfx.Bitmap[P]) {
	DrawBackground(v, dst)
	DrawSprites(v, dst)
	DrawText(v, dst)
}

// Resolve converts the visible area of a composed frame to RGBA.
func Resolve[P gfx.Pixel](v *VideoState, src *gfx.Bitmap[P], dst *image.RGBA) {
	gfx.Resolve(dst, src, v.proms.Palette, v.visible)
}
