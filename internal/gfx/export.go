package gfx

import (
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Upscale returns src enlarged k times with nearest-neighbour sampling.
func Upscale(src image.Image, k int) *image.RGBA {
	if k < 1 {
		k = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SheetImage lays a tile sheet out as a grid of cols tiles per row, each
// pixel looked up in pal.
func SheetImage(s *TileSheet, cols int, pal Palette) *image.RGBA {
	if cols < 1 {
		cols = 16
	}
	rows := (s.Count + cols - 1) / cols
	bm := NewBitmap[uint8](cols*s.Width, rows*s.Height)
	for code := 0; code < s.Count; code++ {
		Draw(bm, s, code, false, false, code%cols*s.Width, code/cols*s.Height, bm.Bounds(), Opaque(identityPens))
	}
	img := image.NewRGBA(bm.Bounds())
	Resolve(img, bm, pal, bm.Bounds())
	return img
}

var identityPens = func() []uint8 {
	p := make([]uint8, 256)
	for i := range p {
		p[i] = uint8(i)
	}
	return p
}()

// GrayPalette spreads 1<<depth levels evenly from black to white.
func GrayPalette(depth int) Palette {
	n := 1 << depth
	pal := make(Palette, n)
	for i := range pal {
		v := uint8(0)
		if n > 1 {
			v = uint8(i * 255 / (n - 1))
		}
		pal[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	return pal
}
