// Package trace replays recorded register and RAM writes against a machine's
// bus, standing in for the board CPUs.
package trace

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/bus"
)

// ErrTrace reports a malformed trace file.
var ErrTrace = errors.New("trace: bad trace")

// Write is one bus write.
type Write struct {
	Addr  uint32 `yaml:"addr"`
	Value uint16 `yaml:"value"`
}

// Fill writes Value to Count consecutive locations starting at Addr, Step
// bytes apart (1 when omitted).
type Fill struct {
	Addr  uint32 `yaml:"addr"`
	Count int    `yaml:"count"`
	Value uint16 `yaml:"value"`
	Step  uint32 `yaml:"step"`
}

// Event groups the writes issued on one scanline of one frame. Fills run
// before single writes.
type Event struct {
	Frame  uint64  `yaml:"frame"`
	Line   int     `yaml:"line"`
	Fills  []Fill  `yaml:"fills"`
	Writes []Write `yaml:"writes"`
}

// Trace is a parsed trace file.
type Trace struct {
	Board  string  `yaml:"board"`
	Frames int     `yaml:"frames"` // frames to run headless, 0 for the caller's default
	Loop   uint64  `yaml:"loop"`   // replay period in frames, 0 plays once
	Events []Event `yaml:"events"`

	index   map[key][]int
	applied int
}

type key struct {
	frame uint64
	line  int
}

// Parse decodes and validates a YAML trace.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrace, err)
	}
	if t.Board == "" {
		return nil, fmt.Errorf("%w: no board", ErrTrace)
	}
	if t.Frames < 0 {
		return nil, fmt.Errorf("%w: negative frame count", ErrTrace)
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a, b := t.Events[i], t.Events[j]
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Line < b.Line
	})
	t.index = make(map[key][]int)
	for i, ev := range t.Events {
		if ev.Line < 0 {
			return nil, fmt.Errorf("%w: event %d: negative line", ErrTrace, i)
		}
		if t.Loop > 0 && ev.Frame >= t.Loop {
			return nil, fmt.Errorf("%w: event %d: frame %d outside loop of %d", ErrTrace, i, ev.Frame, t.Loop)
		}
		for j := range ev.Fills {
			if ev.Fills[j].Count < 0 {
				return nil, fmt.Errorf("%w: event %d: negative fill count", ErrTrace, i)
			}
			if ev.Fills[j].Step == 0 {
				t.Events[i].Fills[j].Step = 1
			}
		}
		k := key{ev.Frame, ev.Line}
		t.index[k] = append(t.index[k], i)
	}
	return &t, nil
}

// Load reads and parses a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Scanline applies the events recorded for this frame and line.
func (t *Trace) Scanline(b *bus.Bus, frame uint64, line int) {
	if t.Loop > 0 {
		frame %= t.Loop
	}
	for _, i := range t.index[key{frame, line}] {
		ev := &t.Events[i]
		for _, f := range ev.Fills {
			for n := 0; n < f.Count; n++ {
				b.Write(f.Addr+uint32(n)*f.Step, f.Value)
				t.applied++
			}
		}
		for _, w := range ev.Writes {
			b.Write(w.Addr, w.Value)
			t.applied++
		}
	}
}

// Applied counts the writes issued so far.
func (t *Trace) Applied() int { return t.applied }
