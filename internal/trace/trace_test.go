package trace

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/bus"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/emu"
)

type recorded struct {
	addr  uint32
	value uint16
}

func recordingBus(t *testing.T) (*bus.Bus, *[]recorded) {
	t.Helper()
	var got []recorded
	b := bus.New()
	require.NoError(t, b.Map("all", 0, 0xffffff, nil, func(off uint32, v uint16) {
		got = append(got, recorded{off, v})
	}))
	return b, &got
}

func TestParseRejects(t *testing.T) {
	for name, src := range map[string]string{
		"not yaml":       "board: [",
		"no board":       "frames: 3",
		"negative line":  "board: x\nevents:\n  - {frame: 0, line: -1}",
		"outside loop":   "board: x\nloop: 2\nevents:\n  - {frame: 2, line: 0}",
		"negative count": "board: x\nevents:\n  - {frame: 0, line: 0, fills: [{addr: 0, count: -1, value: 0}]}",
	} {
		_, err := Parse([]byte(src))
		assert.ErrorIs(t, err, ErrTrace, name)
	}
}

func TestScanlineOrderAndLoop(t *testing.T) {
	tr, err := Parse([]byte(`
board: exerion
loop: 3
events:
  - frame: 1
    line: 5
    writes:
      - {addr: 0xa001, value: 2}
  - frame: 0
    line: 7
    fills:
      - {addr: 0x10, count: 3, value: 0xaa, step: 2}
    writes:
      - {addr: 0xa000, value: 1}
`))
	require.NoError(t, err)
	b, got := recordingBus(t)

	tr.Scanline(b, 0, 6)
	assert.Empty(t, *got)
	tr.Scanline(b, 0, 7)
	assert.Equal(t, []recorded{{0x10, 0xaa}, {0x12, 0xaa}, {0x14, 0xaa}, {0xa000, 1}}, *got)

	*got = nil
	tr.Scanline(b, 4, 5) // frame 4 replays frame 1
	assert.Equal(t, []recorded{{0xa001, 2}}, *got)
	assert.Equal(t, 5, tr.Applied())
}

func TestReplayDrivesMachine(t *testing.T) {
	tr, err := Load("testdata/shangha3.yaml")
	require.NoError(t, err)
	require.Equal(t, emu.BoardShangha3, tr.Board)

	tiles := make([]byte, 2*128)
	for i := range tiles {
		tiles[i] = 0xff
		if i >= 128 {
			tiles[i] = 0x33
		}
	}
	m, err := emu.New(emu.Config{Board: tr.Board}, emu.ROMs{Tiles: tiles})
	require.NoError(t, err)
	m.SetDriver(tr)
	for i := 0; i < tr.Frames; i++ {
		m.StepFrame()
	}
	img := m.Snapshot()
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(16, 16))
	assert.Equal(t, 7, tr.Applied())
}

func TestExerionTraceParses(t *testing.T) {
	tr, err := Load("testdata/exerion.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tr.Loop)
	assert.Len(t, tr.Events, 3)
	assert.Equal(t, uint32(1), tr.Events[0].Fills[0].Step)
}
