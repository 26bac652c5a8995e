package emu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	"os"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/beam"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/bus"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/exerion"
)

// Driver stands in for the board CPUs: it is called once per scanline with
// the beam parked at the start of that line and issues bus accesses.
type Driver interface {
	Scanline(b *bus.Bus, frame uint64, line int)
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(b *bus.Bus, frame uint64, line int)

func (f DriverFunc) Scanline(b *bus.Bus, frame uint64, line int) { f(b, frame, line) }

type Machine struct {
	cfg    Config
	beam   *beam.Counter
	bus    *bus.Bus
	board  board
	driver Driver

	back  *image.RGBA // composed each frame
	front *image.RGBA // last published frame
}

// New decodes the board's ROMs and wires its video hardware to a fresh bus.
func New(cfg Config, roms ROMs) (*Machine, error) {
	m := &Machine{cfg: cfg, bus: bus.New()}
	var err error
	switch cfg.Board {
	case BoardExerion:
		m.beam = beam.New(exerion.Timing)
		m.board, err = newExerionBoard(cfg, roms, m.bus, m.beam)
	case BoardShangha3:
		m.beam = beam.New(shangha3Timing)
		m.board, err = newShangha3Board(cfg, roms, m.bus, m.beam)
	default:
		err = fmt.Errorf("%w: unknown board %q", ErrROM, cfg.Board)
	}
	if err != nil {
		return nil, err
	}
	vis := m.board.visible()
	m.back = image.NewRGBA(image.Rect(0, 0, vis.Dx(), vis.Dy()))
	m.front = image.NewRGBA(m.back.Rect)
	return m, nil
}

// SetDriver installs what issues writes during each frame. nil idles.
func (m *Machine) SetDriver(d Driver) { m.driver = d }

func (m *Machine) Bus() *bus.Bus       { return m.bus }
func (m *Machine) Beam() *beam.Counter { return m.beam }
func (m *Machine) Config() Config      { return m.cfg }

// Size returns the dimensions of the published frame.
func (m *Machine) Size() (w, h int) { return m.front.Rect.Dx(), m.front.Rect.Dy() }

// StepFrame runs one frame line by line. The latch timeline is frozen and the
// frame composed when the beam reaches vblank.
func (m *Machine) StepFrame() {
	t := m.beam.Timing()
	frame := m.beam.Frame()
	m.board.beginFrame()
	for i := 0; i < t.VTotal; i++ {
		line := m.beam.Scanline()
		if line == t.VBlankStart {
			m.board.endActive()
			m.board.compose(m.back)
			copy(m.front.Pix, m.back.Pix)
		}
		if m.driver != nil {
			m.driver.Scanline(m.bus, frame, line)
		}
		m.beam.NextLine()
	}
}

// Framebuffer returns the RGBA pixels of the last published frame. It stays
// valid until the next StepFrame.
func (m *Machine) Framebuffer() []byte { return m.front.Pix }

// Snapshot returns a copy of the last published frame.
func (m *Machine) Snapshot() *image.RGBA {
	img := image.NewRGBA(m.front.Rect)
	copy(img.Pix, m.front.Pix)
	return img
}

// ToggleLayer flips one exerion background layer on or off and returns the
// new mask. Other boards ignore it.
func (m *Machine) ToggleLayer(layer int) byte {
	if eb, ok := m.board.(*exerionBoard); ok {
		return eb.video.ToggleLayer(layer)
	}
	return 0
}

// LayerMask reports which exerion background layers are drawn.
func (m *Machine) LayerMask() byte {
	if eb, ok := m.board.(*exerionBoard); ok {
		return eb.video.LayerMask()
	}
	return 0
}

// SetShadows switches shangha3 shadow pens. Other boards ignore it.
func (m *Machine) SetShadows(on bool) {
	m.cfg.Shadows = on
	if sb, ok := m.board.(*shangha3Board); ok {
		sb.video.SetShadows(on)
	}
}

func (m *Machine) Shadows() bool { return m.cfg.Shadows }

// --- Save/Load state ---
type machineState struct {
	Board    string
	Beam     beam.Position
	Exerion  *exerionState
	Shangha3 *shangha3State
}

func (m *Machine) SaveState() ([]byte, error) {
	s := machineState{Board: m.cfg.Board, Beam: m.beam.Position()}
	m.board.save(&s)
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("emu: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Machine) LoadState(data []byte) error {
	var s machineState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	if s.Board != m.cfg.Board {
		return fmt.Errorf("emu: state is for %q, machine is %q", s.Board, m.cfg.Board)
	}
	if err := m.board.load(&s); err != nil {
		return err
	}
	m.beam.SetPosition(s.Beam)
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	data, err := m.SaveState()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
