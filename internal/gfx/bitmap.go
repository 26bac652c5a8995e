package gfx

import (
	"image"
	"image/color"
)

// Pixel is the storage type of an indexed bitmap.
type Pixel interface {
	~uint8 | ~uint16
}

// Bitmap is a W×H array of palette indices.
type Bitmap[P Pixel] struct {
	W, H int
	Pix  []P
}

func NewBitmap[P Pixel](w, h int) *Bitmap[P] {
	return &Bitmap[P]{W: w, H: h, Pix: make([]P, w*h)}
}

func (b *Bitmap[P]) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

func (b *Bitmap[P]) Row(y int) []P { return b.Pix[y*b.W : (y+1)*b.W] }

func (b *Bitmap[P]) At(x, y int) P { return b.Pix[y*b.W+x] }

func (b *Bitmap[P]) Set(x, y int, v P) { b.Pix[y*b.W+x] = v }

func (b *Bitmap[P]) Fill(v P) {
	for i := range b.Pix {
		b.Pix[i] = v
	}
}

// Palette maps pixel indices to display colors.
type Palette []color.RGBA

// Resolve writes area of src into dst (whose origin maps to area.Min),
// looking every index up in pal. Indices past the palette come out black.
func Resolve[P Pixel](dst *image.RGBA, src *Bitmap[P], pal Palette, area image.Rectangle) {
	area = area.Intersect(src.Bounds())
	black := color.RGBA{A: 0xff}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := src.Row(y)
		do := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y-area.Min.Y)
		for x := area.Min.X; x < area.Max.X; x++ {
			c := black
			if i := int(row[x]); i < len(pal) {
				c = pal[i]
			}
			dst.Pix[do+0] = c.R
			dst.Pix[do+1] = c.G
			dst.Pix[do+2] = c.B
			dst.Pix[do+3] = 0xff
			do += 4
		}
	}
}
