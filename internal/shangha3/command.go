package shangha3

// CommandWords is the length of one blitter command record.
const CommandWords = 16

// Command is a view of one 16-word blitter command in video RAM.
//
//	word  1  tile code (bits 12-15 select the bank in tilemap mode)
//	word  2  bit 8: source is the tilemap
//	word  4  destination width - 1
//	word  5  color (7 bits)
//	word  6  bit 8: condensed tilemap
//	word  7  destination height - 1
//	word  8  tilemap source x
//	word  9  destination x (10-bit signed)
//	word 10  bit 7: flip x, bit 6: flip y
//	word 12  destination y (10-bit signed)
//	word 13  tilemap source y
//	word 14  zoom x
//	word 15  zoom y
type Command []uint16

func (c Command) Code() int       { return int(c[1]) }
func (c Command) Tilemap() bool   { return c[2]&0x100 != 0 }
func (c Command) SizeX() int      { return int(c[4]) }
func (c Command) Color() int      { return int(c[5] & 0x7f) }
func (c Command) Condensed() bool { return c[6]&0x100 != 0 }
func (c Command) SizeY() int      { return int(c[7]) }
func (c Command) SrcX() int       { return int(c[8]) }
func (c Command) X() int          { return signed10(c[9]) }
func (c Command) FlipX() bool     { return c[10]&0x80 != 0 }
func (c Command) FlipY() bool     { return c[10]&0x40 != 0 }
func (c Command) Y() int          { return signed10(c[12]) }
func (c Command) SrcY() int       { return int(c[13]) }
func (c Command) ZoomX() int      { return int(c[14]) }
func (c Command) ZoomY() int      { return int(c[15]) }

// Disabled reports the zero-size entry games use to switch a slot off.
func (c Command) Disabled() bool { return c[4] == 0 && c[7] == 0 }

// InRange rejects sizes and zooms that only show up when the list still
// holds power-on garbage. The limits are empirical, not hardware ones.
func (c Command) InRange() bool {
	return c.SizeX() < 512 && c.SizeY() < 256 && c.ZoomX() < 0x1f0 && c.ZoomY() < 0x1f0
}

// Scale returns the 16.16 zoom factors. Zoom values of 0 or 1 on both axes
// draw at 1:1.
func (c Command) Scale() (sx, sy int) {
	zx, zy := c.ZoomX(), c.ZoomY()
	if zx <= 1 && zy <= 1 {
		return 1 << 16, 1 << 16
	}
	return (0x200 - zx) << 8, (0x200 - zy) << 8
}

func signed10(w uint16) int {
	return int(w&0x1ff) - int(w&0x200)
}
