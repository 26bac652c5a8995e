package gfx

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpscaleNearest(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	src.SetRGBA(1, 0, color.RGBA{B: 0xff, A: 0xff})
	dst := Upscale(src, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 3), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, dst.RGBAAt(3, 0))
}

func TestSheetImageAndPNG(t *testing.T) {
	s := rampSheet(t)
	img := SheetImage(s, 2, GrayPalette(s.Depth))
	assert.Equal(t, 2*s.Width, img.Bounds().Dx())
	assert.Equal(t, (s.Count+1)/2*s.Height, img.Bounds().Dy())
	want := GrayPalette(s.Depth)[s.Pixel(1, 2, 3)]
	assert.Equal(t, want, img.RGBAAt(s.Width+3, 2))

	path := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, WritePNG(path, img))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
}

func TestGrayPalette(t *testing.T) {
	p := GrayPalette(2)
	require.Len(t, p, 4)
	assert.Equal(t, uint8(0), p[0].R)
	assert.Equal(t, uint8(85), p[1].R)
	assert.Equal(t, uint8(255), p[3].G)
}
