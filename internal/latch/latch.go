package latch

import "fmt"

// NumRegs is the size of the latched register file.
const NumRegs = 16

// FlushAll asks FlushTo to fill every remaining line of the frame.
const FlushAll = -1

// Beam reports the line the raster is currently scanning.
type Beam interface {
	Scanline() int
}

// Snapshot is the register file as seen by one scanline.
//
// Layout: 0,2,4,6 layer X offsets; 1,3,5,7 layer row selects; 8..11 layer
// window counters (start low nibble, stop high nibble); 12 mix control
// (mixer bank low nibble, palette bank high nibble); 13..15 reserved.
type Snapshot [NumRegs]byte

func (s Snapshot) XOffset(layer int) byte { return s[2*layer] }
func (s Snapshot) YSelect(layer int) byte { return s[2*layer+1] }

// Window returns the start and stop counter presets of a layer.
func (s Snapshot) Window(layer int) (start, stop byte) {
	w := s[8+layer]
	return w & 0x0f, w >> 4
}

func (s Snapshot) MixControl() byte  { return s[12] }
func (s Snapshot) MixerBank() byte   { return s[12] & 0x0f }
func (s Snapshot) PaletteBank() byte { return s[12] >> 4 }

// Buffer records register writes made while the raster is running and
// freezes them into one Snapshot per scanline.
//
// A register holds its value across lines until rewritten, so lines with no
// writes repeat the previous line. A write lands in the snapshot of the line
// the beam is on when it happens, unless FlushTo has already frozen that line
// this frame: then it only changes the live registers and first shows up on
// the line after the cursor. Within a frame the flush cursor only moves
// forward; NewFrame rewinds it.
type Buffer struct {
	beam     Beam
	live     Snapshot
	timeline []Snapshot
	cursor   int // last flushed line, -1 when none this frame
}

func New(height int, beam Beam) *Buffer {
	return &Buffer{
		beam:     beam,
		timeline: make([]Snapshot, height),
		cursor:   -1,
	}
}

func (b *Buffer) Height() int { return len(b.timeline) }

func (b *Buffer) line() int {
	y := b.beam.Scanline()
	if y >= len(b.timeline) {
		y = len(b.timeline) - 1
	}
	if y < 0 {
		y = 0
	}
	return y
}

// Write updates register reg at the beam's current line.
func (b *Buffer) Write(reg int, value byte) {
	if reg < 0 || reg >= NumRegs {
		return
	}
	y := b.line()
	if y > b.cursor {
		b.fill(y - 1)
	}
	b.live[reg] = value
}

// FlushTo freezes every line up to and including line. Flushing to a line
// before the cursor within the same frame is a caller bug.
func (b *Buffer) FlushTo(line int) {
	if line == FlushAll || line >= len(b.timeline) {
		line = len(b.timeline) - 1
	}
	if line < b.cursor {
		panic(fmt.Sprintf("latch: flush to line %d behind cursor %d", line, b.cursor))
	}
	b.fill(line)
}

func (b *Buffer) fill(line int) {
	for b.cursor < line {
		b.cursor++
		b.timeline[b.cursor] = b.live
	}
}

// NewFrame rewinds the cursor for the next frame. Live values carry over.
func (b *Buffer) NewFrame() { b.cursor = -1 }

// Cursor returns the last flushed line, or -1.
func (b *Buffer) Cursor() int { return b.cursor }

// SnapshotAt returns the frozen registers of a line. Lines past the cursor
// still hold what the previous frame left there.
func (b *Buffer) SnapshotAt(line int) Snapshot {
	if line < 0 || line >= len(b.timeline) {
		return Snapshot{}
	}
	return b.timeline[line]
}

// Current returns the live register values.
func (b *Buffer) Current() Snapshot { return b.live }

// State is the serializable form of a Buffer.
type State struct {
	Live     Snapshot
	Timeline []Snapshot
	Cursor   int
}

func (b *Buffer) State() State {
	return State{Live: b.live, Timeline: append([]Snapshot(nil), b.timeline...), Cursor: b.cursor}
}

func (b *Buffer) SetState(s State) {
	b.live = s.Live
	copy(b.timeline, s.Timeline)
	b.cursor = s.Cursor
	if b.cursor >= len(b.timeline) {
		b.cursor = len(b.timeline) - 1
	}
}
