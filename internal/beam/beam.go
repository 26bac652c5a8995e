package beam

// Timing describes the raster of one board in pixel clocks and lines.
type Timing struct {
	HTotal      int // pixel clocks per line
	VTotal      int // lines per frame
	VBlankStart int // first line of vblank
	VBlankEnd   int // first line after vblank (lines below it are also blanked)
}

// Counter is the beam-position oracle. It advances in pixel clocks and
// reports where the raster currently is.
type Counter struct {
	t     Timing
	dot   int // pixel clock within the current line [0..HTotal)
	line  int // current line [0..VTotal)
	frame uint64
}

func New(t Timing) *Counter {
	return &Counter{t: t}
}

func (c *Counter) Timing() Timing { return c.t }

// Tick advances the beam by the given number of pixel clocks.
func (c *Counter) Tick(dots int) {
	if dots <= 0 {
		return
	}
	c.dot += dots
	for c.dot >= c.t.HTotal {
		c.dot -= c.t.HTotal
		c.line++
		if c.line >= c.t.VTotal {
			c.line = 0
			c.frame++
		}
	}
}

// NextLine moves the beam to the start of the following line.
func (c *Counter) NextLine() { c.Tick(c.t.HTotal - c.dot) }

func (c *Counter) Scanline() int { return c.line }
func (c *Counter) HPos() int     { return c.dot }
func (c *Counter) Frame() uint64 { return c.frame }

// VBlank reports whether the current line is outside the active display.
func (c *Counter) VBlank() bool {
	return c.line >= c.t.VBlankStart || c.line < c.t.VBlankEnd
}

// Position is the serializable beam state.
type Position struct {
	Dot, Line int
	Frame     uint64
}

func (c *Counter) Position() Position { return Position{Dot: c.dot, Line: c.line, Frame: c.frame} }

func (c *Counter) SetPosition(p Position) {
	c.dot, c.line, c.frame = p.Dot, p.Line, p.Frame
}
