package main

import (
	"flag"
	"image"
	"log"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/emu"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/exerion"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/shangha3"
)

func main() {
	board := flag.String("board", emu.BoardExerion, "board whose ROMs to decode: exerion or shangha3")
	romDir := flag.String("roms", "", "directory holding the board's graphics ROM dumps")
	region := flag.String("region", "", "region to dump: chars, sprites, bigsprites, background (exerion); tiles (shangha3)")
	cols := flag.Int("cols", 16, "tiles per row in the sheet")
	scale := flag.Int("scale", 2, "output upscaling factor")
	out := flag.String("out", "", "output PNG (default <board>_<region>.png)")
	flag.Parse()

	if *romDir == "" {
		log.Fatal("-roms is required")
	}
	roms, err := emu.LoadROMs(*romDir, *board)
	if err != nil {
		log.Fatalf("load roms: %v", err)
	}

	var img image.Image
	switch *board {
	case emu.BoardExerion:
		if *region == "" {
			*region = "chars"
		}
		g, err := exerion.DecodeGraphics(roms.Chars, roms.Sprites, roms.Background)
		if err != nil {
			log.Fatalf("decode: %v", err)
		}
		switch *region {
		case "chars":
			img = sheet(g.Chars, *cols)
		case "sprites":
			img = sheet(g.Sprites, *cols)
		case "bigsprites":
			img = sheet(g.BigSprites, *cols)
		case "background":
			img = backgroundImage(g)
		default:
			log.Fatalf("unknown exerion region %q", *region)
		}
	case emu.BoardShangha3:
		if *region == "" {
			*region = "tiles"
		}
		if *region != "tiles" {
			log.Fatalf("unknown shangha3 region %q", *region)
		}
		tiles, err := shangha3.DecodeTiles(roms.Tiles)
		if err != nil {
			log.Fatalf("decode: %v", err)
		}
		img = sheet(tiles, *cols)
	}

	path := *out
	if path == "" {
		path = *board + "_" + *region + ".png"
	}
	if err := gfx.WritePNG(path, gfx.Upscale(img, *scale)); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	b := img.Bounds()
	log.Printf("wrote %s (%dx%d before scaling)", path, b.Dx(), b.Dy())
}

func sheet(s *gfx.TileSheet, cols int) image.Image {
	log.Printf("%d tiles %dx%d, %d bpp", s.Count, s.Width, s.Height, s.Depth)
	return gfx.SheetImage(s, cols, gfx.GrayPalette(s.Depth))
}

// backgroundImage stacks the four background layers top to bottom, each
// pixel shaded by its 2-bit value.
func backgroundImage(g *exerion.Graphics) image.Image {
	const w = exerion.BackgroundWidth
	h := len(g.Background[0]) / w
	bm := gfx.NewBitmap[uint8](w, 4*h)
	for l, layer := range g.Background {
		for i, v := range layer {
			bm.Set(i%w, l*h+i/w, uint8(v>>(2*l))&3)
		}
	}
	img := image.NewRGBA(bm.Bounds())
	gfx.Resolve(img, bm, gfx.GrayPalette(2), bm.Bounds())
	return img
}
