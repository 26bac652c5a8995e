package gfx

import "image"

// Unity is a 1:1 scale factor in 16.16 fixed point.
const Unity = 1 << 16

// Blend decides what a source pixel does to the destination pixel beneath it.
// Returning false leaves the destination untouched.
type Blend[P Pixel] func(dst P, src byte) (P, bool)

// Opaque maps every source pixel through pens.
func Opaque[P Pixel](pens []P) Blend[P] {
	return func(_ P, src byte) (P, bool) { return pens[src], true }
}

// ColorKey maps source pixels through pens and drops those that land on key.
func ColorKey[P Pixel](pens []P, key P) Blend[P] {
	return func(_ P, src byte) (P, bool) {
		v := pens[src]
		return v, v != key
	}
}

// PenKey adds base to the raw source pixel and drops the raw value key.
func PenKey[P Pixel](base P, key byte) Blend[P] {
	return func(_ P, src byte) (P, bool) {
		return base + P(src), src != key
	}
}

// Draw places one tile at (sx, sy) without scaling.
func Draw[P Pixel](dst *Bitmap[P], s *TileSheet, code int, flipX, flipY bool, sx, sy int, clip image.Rectangle, blend Blend[P]) {
	DrawZoom(dst, s, code, flipX, flipY, sx, sy, clip, blend, Unity, Unity)
}

// DrawZoom places one tile at (sx, sy) scaled by scaleX/scaleY (16.16) using
// nearest-neighbour sampling. Only pixels inside clip are touched.
func DrawZoom[P Pixel](dst *Bitmap[P], s *TileSheet, code int, flipX, flipY bool, sx, sy int, clip image.Rectangle, blend Blend[P], scaleX, scaleY int) {
	sw := (scaleX*s.Width + 0x8000) >> 16
	sh := (scaleY*s.Height + 0x8000) >> 16
	if sw <= 0 || sh <= 0 {
		return
	}
	dx := (s.Width << 16) / sw
	dy := (s.Height << 16) / sh
	xBase, yBase := 0, 0
	if flipX {
		xBase = (sw - 1) * dx
		dx = -dx
	}
	if flipY {
		yBase = (sh - 1) * dy
		dy = -dy
	}

	clip = clip.Intersect(dst.Bounds())
	ex, ey := sx+sw, sy+sh
	if sx < clip.Min.X {
		xBase += (clip.Min.X - sx) * dx
		sx = clip.Min.X
	}
	if sy < clip.Min.Y {
		yBase += (clip.Min.Y - sy) * dy
		sy = clip.Min.Y
	}
	if ex > clip.Max.X {
		ex = clip.Max.X
	}
	if ey > clip.Max.Y {
		ey = clip.Max.Y
	}
	if sx >= ex || sy >= ey {
		return
	}

	tile := s.Tile(code)
	yi := yBase
	for y := sy; y < ey; y++ {
		src := tile[(yi>>16)*s.Width:]
		row := dst.Row(y)
		xi := xBase
		for x := sx; x < ex; x++ {
			if v, ok := blend(row[x], src[xi>>16]); ok {
				row[x] = v
			}
			xi += dx
		}
		yi += dy
	}
}

// DrawScanline copies a run of pixel indices into row y starting at x,
// mapping each through pens.
func DrawScanline[P Pixel](dst *Bitmap[P], x, y int, src []byte, pens []P) {
	if y < 0 || y >= dst.H {
		return
	}
	row := dst.Row(y)
	for i, p := range src {
		if dx := x + i; dx >= 0 && dx < dst.W {
			row[dx] = pens[p]
		}
	}
}
