package emu

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/bus"
)

// exerionROMs: every char is solid pixel 1. Color group 0 maps pixel 1 to
// pen 21 (red); group 1 leaves it transparent. Background bank 1 is green.
func exerionROMs() ROMs {
	chars := make([]byte, 0x2000)
	for i := range chars {
		chars[i] = 0x0f
	}
	proms := make([]byte, 0x420)
	proms[21] = 0x07      // red
	proms[3] = 0x38       // green
	proms[0x20+0x10] = 5  // char lookup: group 0, pixel 1
	proms[0x220+0x10] = 3 // bg lookup: palette bank 1, color 0
	return ROMs{
		Chars:      chars,
		Sprites:    make([]byte, 0x8000),
		Background: make([]byte, 0x8000),
		Proms:      proms,
	}
}

// shangha3ROMs: tile 0 is transparent, tile 1 solid pen 3.
func shangha3ROMs() ROMs {
	tiles := make([]byte, 2*128)
	for i := range tiles {
		tiles[i] = 0xff
		if i >= 128 {
			tiles[i] = 0x33
		}
	}
	return ROMs{Tiles: tiles}
}

func exerionDriver(b *bus.Bus, frame uint64, line int) {
	if frame != 0 {
		return
	}
	switch line {
	case 0:
		for i := uint32(0); i < 0x800; i++ {
			b.Write(0x8000+i, 0x10)
		}
		b.Write(0x8000+2*64+12, 0x00) // top-left visible cell
	case 100:
		b.Write(0xa00c, 0x10) // palette bank 1 from line 100
	}
}

func rgbaAt(m *Machine, x, y int) color.RGBA {
	return m.Snapshot().RGBAAt(x, y)
}

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

func TestNewRejectsBadROMs(t *testing.T) {
	_, err := New(Config{Board: "pong"}, ROMs{})
	require.ErrorIs(t, err, ErrROM)

	roms := exerionROMs()
	roms.Proms = roms.Proms[:0x100]
	_, err = New(Config{Board: BoardExerion}, roms)
	require.ErrorIs(t, err, ErrROM)

	_, err = New(Config{Board: BoardShangha3}, ROMs{Tiles: make([]byte, 100)})
	require.ErrorIs(t, err, ErrROM)
}

func TestExerionFrame(t *testing.T) {
	for _, wide := range []bool{false, true} {
		m, err := New(Config{Board: BoardExerion, Wide: wide}, exerionROMs())
		require.NoError(t, err)
		m.SetDriver(DriverFunc(exerionDriver))
		m.StepFrame()

		w, h := m.Size()
		assert.Equal(t, 320, w)
		assert.Equal(t, 224, h)
		assert.Equal(t, red, rgbaAt(m, 0, 0))
		assert.Equal(t, red, rgbaAt(m, 7, 7))
		assert.Equal(t, black, rgbaAt(m, 8, 0))
		// visible row 83 is line 99, row 84 is line 100
		assert.Equal(t, black, rgbaAt(m, 50, 83))
		assert.Equal(t, green, rgbaAt(m, 50, 84))

		eb := m.board.(*exerionBoard)
		assert.Equal(t, byte(0), eb.video.Latches().SnapshotAt(99).PaletteBank())
		assert.Equal(t, byte(1), eb.video.Latches().SnapshotAt(100).PaletteBank())
	}
}

func TestExerionTimingStatusOnBus(t *testing.T) {
	m, err := New(Config{Board: BoardExerion}, exerionROMs())
	require.NoError(t, err)
	var status [2]uint16
	m.SetDriver(DriverFunc(func(b *bus.Bus, _ uint64, line int) {
		switch line {
		case 100:
			status[0] = b.Read(0xa800)
		case 250:
			status[1] = b.Read(0xa800)
		}
	}))
	m.StepFrame()
	assert.Equal(t, uint16(0x01), status[0], "active line, beam at the line start")
	assert.Equal(t, uint16(0x03), status[1], "vblank")
}

func shangha3Driver(b *bus.Bus, frame uint64, line int) {
	if frame != 0 || line != 20 {
		return
	}
	b.Write(0x308006, 0x7c00) // palette entry 3: red
	cmd := uint32(0x318000 + 0x3000*2)
	b.Write(cmd+1*2, 1)   // code
	b.Write(cmd+4*2, 15)  // width - 1
	b.Write(cmd+7*2, 15)  // height - 1
	b.Write(cmd+12*2, 16) // y
	b.Write(0x30c000, 0x600)
	b.Write(0x200008, 1)
}

func TestShangha3FramePersists(t *testing.T) {
	m, err := New(Config{Board: BoardShangha3, Shadows: true}, shangha3ROMs())
	require.NoError(t, err)
	m.SetDriver(DriverFunc(shangha3Driver))

	m.StepFrame()
	assert.Equal(t, red, rgbaAt(m, 0, 0))
	assert.Equal(t, red, rgbaAt(m, 15, 15))
	assert.Equal(t, black, rgbaAt(m, 16, 0))

	m.StepFrame()
	assert.Equal(t, red, rgbaAt(m, 0, 0), "frame buffer is never cleared")
	assert.Equal(t, uint64(2), m.Beam().Frame())
}

func mustSave(t *testing.T, m *Machine) []byte {
	t.Helper()
	data, err := m.SaveState()
	require.NoError(t, err)
	require.NotEmpty(t, data)
	return data
}

func TestSaveLoadState(t *testing.T) {
	m, err := New(Config{Board: BoardExerion}, exerionROMs())
	require.NoError(t, err)
	m.SetDriver(DriverFunc(exerionDriver))
	m.StepFrame()
	saved := mustSave(t, m)

	m.SetDriver(DriverFunc(func(b *bus.Bus, _ uint64, line int) {
		b.Write(0x8000+uint32(line), 0)
		b.Write(0xc000, 0x01)
	}))
	m.StepFrame()
	require.NotEqual(t, saved, mustSave(t, m))

	require.NoError(t, m.LoadState(saved))
	assert.Equal(t, saved, mustSave(t, m))

	path := filepath.Join(t.TempDir(), "exerion.state")
	require.NoError(t, m.SaveStateToFile(path))
	m2, err := New(Config{Board: BoardExerion}, exerionROMs())
	require.NoError(t, err)
	require.NoError(t, m2.LoadStateFromFile(path))
	assert.Equal(t, saved, mustSave(t, m2))

	s3, err := New(Config{Board: BoardShangha3}, shangha3ROMs())
	require.NoError(t, err)
	assert.Error(t, s3.LoadState(saved))
}

func TestLoadROMs(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadROMs(dir, BoardShangha3)
	require.ErrorIs(t, err, ErrROM)

	require.NoError(t, os.WriteFile(filepath.Join(dir, TilesFile), shangha3ROMs().Tiles, 0644))
	roms, err := LoadROMs(dir, BoardShangha3)
	require.NoError(t, err)
	assert.Len(t, roms.Tiles, 256)

	_, err = LoadROMs(dir, BoardExerion)
	require.ErrorIs(t, err, ErrROM)
}
