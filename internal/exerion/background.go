package exerion

import (
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/latch"
)

// layerCounter models one background layer's X counter and the start/stop
// window counters it clocks.
type layerCounter struct {
	x           int
	start, stop int
}

func newLayerCounter(s latch.Snapshot, layer int) layerCounter {
	start, stop := s.Window(layer)
	return layerCounter{x: int(s.XOffset(layer)), start: int(start), stop: int(stop)}
}

// enabled is true once start has carried out of its nibble and stop has not.
func (c *layerCounter) enabled() bool { return (c.start^c.stop)&0x10 != 0 }

func (c *layerCounter) forward() {
	c.x++
	if c.x&0x1f == 0 {
		c.start++
		c.stop++
	}
}

// backward tests the 5-bit overflow before counting down.
func (c *layerCounter) backward() {
	if c.x&0x1f == 0 {
		c.start++
		c.stop++
	}
	c.x--
}

// backgroundLine computes the 4-bit color index of every visible pixel of one
// line into out, which is indexed by screen X.
func (v *VideoState) backgroundLine(s latch.Snapshot, out []byte) {
	var (
		ctr [4]layerCounter
		src [4][]uint16
	)
	for l := range ctr {
		ctr[l] = newLayerCounter(s, l)
		row := int(s.YSelect(l)) * BackgroundWidth
		src[l] = v.gfx.Background[l][row : row+BackgroundWidth]
	}
	mixer := v.proms.Mixer[int(s.MixerBank())<<4:][:16]
	mask := v.layerMask

	pixel := func(x int) {
		var combined uint16
		for l := range ctr {
			if mask&(1<<l) != 0 && ctr[l].enabled() {
				combined |= src[l][ctr[l].x&0xff]
			}
		}
		lookup := mixer[combined>>8] & 3
		out[x] = lookup<<2 | byte(combined>>(2*lookup))&3
	}
	step := func(back bool) {
		for l := range ctr {
			if back {
				ctr[l].backward()
			} else {
				ctr[l].forward()
			}
		}
	}

	minX, maxX := v.visible.Min.X, v.visible.Max.X
	if !v.cocktailFlip {
		for x := backgroundXStart; x < minX; x++ {
			step(false)
		}
		for x := minX; x < maxX; x++ {
			pixel(x)
			step(false)
		}
		return
	}
	for x := backgroundXStartFlip; x < minX; x++ {
		step(true)
	}
	for x := maxX - 1; x >= minX; x-- {
		pixel(x)
		step(true)
	}
}

// DrawBackground renders the four background layers over the visible area,
// each line using the registers latched for it.
func DrawBackground[P gfx.Pixel](v *VideoState, dst *gfx.Bitmap[P]) {
	pens := pensOf[P](v.proms.BgPens[:])
	line := make([]byte, ScreenWidth)
	minX, maxX := v.visible.Min.X, v.visible.Max.X
	for y := v.visible.Min.Y; y < v.visible.Max.Y; y++ {
		s := v.latches.SnapshotAt(y)
		v.backgroundLine(s, line)
		bank := int(s.PaletteBank()) * 16
		gfx.DrawScanline(dst, minX, y, line[minX:maxX], pens[bank:bank+16])
	}
}
