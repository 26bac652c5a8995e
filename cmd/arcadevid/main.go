package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/emu"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/trace"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/ui"
)

type CLIFlags struct {
	Board   string
	ROMDir  string
	Trace   string // register-write trace (.yaml) driving the video hardware
	Scale   int
	Title   string
	Verbose bool
	Shadows bool
	Wide    bool // exerion: 16-bit pixel storage

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
	Hist     bool   // print a frame time histogram
}

func parseFlags() CLIFlags {
	def := emu.Defaults()
	var f CLIFlags
	flag.StringVar(&f.Board, "board", "", "board to emulate: exerion or shangha3 (default from trace, else exerion)")
	flag.StringVar(&f.ROMDir, "roms", "", "directory holding the board's graphics ROM dumps")
	flag.StringVar(&f.Trace, "trace", "", "YAML register-write trace to replay")
	flag.IntVar(&f.Scale, "scale", 2, "window scale")
	flag.StringVar(&f.Title, "title", "arcadevid", "window title")
	flag.BoolVar(&f.Verbose, "v", false, "log register writes and blitter runs")
	flag.BoolVar(&f.Shadows, "shadows", def.Shadows, "shangha3: enable shadow pens")
	flag.BoolVar(&f.Wide, "wide", false, "exerion: compose into 16-bit pixel storage")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 0, "frames to run in headless mode (default: trace length, else 60)")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.BoolVar(&f.Hist, "hist", false, "print a histogram of frame times in headless mode")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames, scale int, pngPath, expectCRC string, hist bool) error {
	if frames <= 0 {
		frames = 1
	}

	times := make([]float64, 0, frames)
	start := time.Now()
	for i := 0; i < frames; i++ {
		t := time.Now()
		m.StepFrame()
		times = append(times, float64(time.Since(t).Microseconds()))
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: board=%s frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		m.Config().Board, frames, dur.Truncate(time.Millisecond), fps, crc)

	if hist {
		fmt.Println("frame time (µs):")
		h := histogram.Hist(10, times)
		if err := histogram.Fprint(os.Stdout, h, histogram.Linear(40)); err != nil {
			return fmt.Errorf("histogram: %w", err)
		}
	}

	if pngPath != "" {
		if err := gfx.WritePNG(pngPath, gfx.Upscale(m.Snapshot(), scale)); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func main() {
	f := parseFlags()

	var tr *trace.Trace
	if f.Trace != "" {
		var err error
		if tr, err = trace.Load(f.Trace); err != nil {
			log.Fatal(err)
		}
		if f.Board == "" {
			f.Board = tr.Board
		} else if f.Board != tr.Board {
			log.Fatalf("trace %s is for board %q, not %q", f.Trace, tr.Board, f.Board)
		}
	}

	cfg := emu.Defaults()
	if f.Board != "" {
		cfg.Board = f.Board
	}
	cfg.Trace = f.Verbose
	cfg.Shadows = f.Shadows
	cfg.Wide = f.Wide

	if f.ROMDir == "" {
		log.Fatal("-roms is required")
	}
	roms, err := emu.LoadROMs(f.ROMDir, cfg.Board)
	if err != nil {
		log.Fatalf("load roms: %v", err)
	}
	m, err := emu.New(cfg, roms)
	if err != nil {
		log.Fatalf("init %s: %v", cfg.Board, err)
	}
	if tr != nil {
		m.SetDriver(tr)
	}

	if f.Headless {
		frames := f.Frames
		if frames <= 0 {
			frames = 60
			if tr != nil && tr.Frames > 0 {
				frames = tr.Frames
			}
		}
		if err := runHeadless(m, frames, f.Scale, f.PNGOut, f.Expect, f.Hist); err != nil {
			log.Fatal(err)
		}
		if tr != nil {
			log.Printf("trace: applied %d writes", tr.Applied())
		}
		return
	}

	uiCfg := ui.Config{Title: f.Title + " - " + cfg.Board, Scale: f.Scale}
	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
