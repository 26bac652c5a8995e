package gfx

import (
	"errors"
	"fmt"
)

// ErrLayout reports a layout descriptor that cannot decode the given ROM.
var ErrLayout = errors.New("gfx: bad layout")

// ErrRemap reports an address remap that is not a bijection over its region.
var ErrRemap = errors.New("gfx: bad remap")

// Layout describes how the pixels of one tile are spread over ROM bits.
// Bit offsets count from the most significant bit of the tile's first byte.
// Plane 0 supplies the most significant bit of each pixel value.
type Layout struct {
	Width, Height int
	Planes        int
	PlaneOffsets  []int // len Planes
	XOffsets      []int // len Width
	YOffsets      []int // len Height
	Stride        int   // bytes per tile
}

func (l Layout) validate(romLen int) error {
	switch {
	case l.Width <= 0 || l.Height <= 0:
		return fmt.Errorf("%w: tile size %dx%d", ErrLayout, l.Width, l.Height)
	case l.Planes < 1 || l.Planes > 8:
		return fmt.Errorf("%w: %d planes", ErrLayout, l.Planes)
	case len(l.PlaneOffsets) != l.Planes:
		return fmt.Errorf("%w: %d plane offsets for %d planes", ErrLayout, len(l.PlaneOffsets), l.Planes)
	case len(l.XOffsets) != l.Width:
		return fmt.Errorf("%w: %d x offsets for width %d", ErrLayout, len(l.XOffsets), l.Width)
	case len(l.YOffsets) != l.Height:
		return fmt.Errorf("%w: %d y offsets for height %d", ErrLayout, len(l.YOffsets), l.Height)
	case l.Stride <= 0:
		return fmt.Errorf("%w: stride %d", ErrLayout, l.Stride)
	case romLen == 0 || romLen%l.Stride != 0:
		return fmt.Errorf("%w: stride %d does not divide %d bytes", ErrLayout, l.Stride, romLen)
	}
	last := (romLen/l.Stride-1)*l.Stride*8 + maxOffset(l.PlaneOffsets) + maxOffset(l.XOffsets) + maxOffset(l.YOffsets)
	if last >= romLen*8 || minOffset(l.PlaneOffsets) < 0 || minOffset(l.XOffsets) < 0 || minOffset(l.YOffsets) < 0 {
		return fmt.Errorf("%w: bit offsets leave the %d byte region", ErrLayout, romLen)
	}
	return nil
}

func maxOffset(offs []int) int {
	m := offs[0]
	for _, o := range offs[1:] {
		if o > m {
			m = o
		}
	}
	return m
}

func minOffset(offs []int) int {
	m := offs[0]
	for _, o := range offs[1:] {
		if o < m {
			m = o
		}
	}
	return m
}

// Decode unpacks every tile in rom into a TileSheet.
func Decode(rom []byte, l Layout) (*TileSheet, error) {
	if err := l.validate(len(rom)); err != nil {
		return nil, err
	}
	count := len(rom) / l.Stride
	s := &TileSheet{
		Width:  l.Width,
		Height: l.Height,
		Count:  count,
		Depth:  l.Planes,
		pix:    make([]byte, count*l.Width*l.Height),
	}
	dp := 0
	for code := 0; code < count; code++ {
		base := code * l.Stride * 8
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				var v byte
				for p, po := range l.PlaneOffsets {
					if readBit(rom, base+po+l.YOffsets[y]+l.XOffsets[x]) {
						v |= 1 << (l.Planes - 1 - p)
					}
				}
				s.pix[dp] = v
				dp++
			}
		}
	}
	return s, nil
}

func readBit(b []byte, bit int) bool {
	return b[bit>>3]&(0x80>>(bit&7)) != 0
}

// RemapFunc maps a linear ROM address to its position after unscrambling.
type RemapFunc func(addr uint32) uint32

// Permute returns a copy of rom with every byte moved to remap(addr).
func Permute(rom []byte, remap RemapFunc) ([]byte, error) {
	out := make([]byte, len(rom))
	seen := make([]bool, len(rom))
	for a := range rom {
		na := remap(uint32(a))
		if int(na) >= len(rom) {
			return nil, fmt.Errorf("%w: %#x maps outside %#x bytes", ErrRemap, a, len(rom))
		}
		if seen[na] {
			return nil, fmt.Errorf("%w: %#x hit twice", ErrRemap, na)
		}
		seen[na] = true
		out[na] = rom[a]
	}
	return out, nil
}
