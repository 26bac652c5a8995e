package emu

import (
	"fmt"
	"image"
	"log"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/beam"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/bus"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/exerion"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/shangha3"
)

// board is the video side of one machine type.
type board interface {
	visible() image.Rectangle
	beginFrame()
	endActive()
	compose(dst *image.RGBA)
	save(s *machineState)
	load(s *machineState) error
}

// --- exerion ---

type exerionBoard struct {
	video     *exerion.VideoState
	vram      []byte
	spriteRAM []byte
	wide      bool
	frame8    *gfx.Bitmap[uint8]
	frame16   *gfx.Bitmap[uint16]
}

func newExerionBoard(cfg Config, roms ROMs, b *bus.Bus, bm *beam.Counter) (*exerionBoard, error) {
	g, err := exerion.DecodeGraphics(roms.Chars, roms.Sprites, roms.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrROM, err)
	}
	p, err := exerion.ParseProms(roms.Proms)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrROM, err)
	}
	eb := &exerionBoard{
		vram:      make([]byte, exerion.VideoRAMSize),
		spriteRAM: make([]byte, exerion.SpriteRAMSize),
		wide:      cfg.Wide,
	}
	if eb.video, err = exerion.NewVideoState(g, p, bm, eb.vram, eb.spriteRAM, cfg.Visible); err != nil {
		return nil, err
	}
	if cfg.Wide {
		eb.frame16 = gfx.NewBitmap[uint16](exerion.ScreenWidth, exerion.ScreenHeight)
	} else {
		eb.frame8 = gfx.NewBitmap[uint8](exerion.ScreenWidth, exerion.ScreenHeight)
	}

	latch := func(off uint32, v uint16) {
		if cfg.Trace {
			log.Printf("exerion: latch %x = %02x at line %d", off, byte(v), bm.Scanline())
		}
		eb.video.WriteLatch(int(off), byte(v))
	}
	videoReg := func(_ uint32, v uint16) {
		if cfg.Trace {
			log.Printf("exerion: video reg = %02x", byte(v))
		}
		eb.video.WriteVideoReg(byte(v))
	}
	status := func(uint32) uint16 { return uint16(eb.video.TimingStatus()) }

	vr, vw := bus.Bytes(eb.vram)
	sr, sw := bus.Bytes(eb.spriteRAM)
	for _, m := range []struct {
		name       string
		start, end uint32
		r          bus.ReadFunc
		w          bus.WriteFunc
	}{
		{"videoram", 0x8000, 0x87ff, vr, vw},
		{"spriteram", 0x8800, 0x887f, sr, sw},
		{"latches", 0xa000, 0xa00f, nil, latch},
		{"timing", 0xa800, 0xa800, status, nil},
		{"videoreg", 0xc000, 0xc000, nil, videoReg},
	} {
		if err := b.Map(m.name, m.start, m.end, m.r, m.w); err != nil {
			return nil, err
		}
	}
	return eb, nil
}

func (eb *exerionBoard) visible() image.Rectangle { return eb.video.Visible() }
func (eb *exerionBoard) beginFrame()              { eb.video.BeginFrame() }
func (eb *exerionBoard) endActive()               { eb.video.EndActive() }

func (eb *exerionBoard) compose(dst *image.RGBA) {
	if eb.wide {
		exerion.RenderFrame(eb.video, eb.frame16)
		exerion.Resolve(eb.video, eb.frame16, dst)
		return
	}
	exerion.RenderFrame(eb.video, eb.frame8)
	exerion.Resolve(eb.video, eb.frame8, dst)
}

type exerionState struct {
	VideoRAM  []byte
	SpriteRAM []byte
	Video     exerion.State
}

func (eb *exerionBoard) save(s *machineState) {
	s.Exerion = &exerionState{
		VideoRAM:  append([]byte(nil), eb.vram...),
		SpriteRAM: append([]byte(nil), eb.spriteRAM...),
		Video:     eb.video.State(),
	}
}

func (eb *exerionBoard) load(s *machineState) error {
	if s.Exerion == nil {
		return fmt.Errorf("emu: state has no %s section", BoardExerion)
	}
	copy(eb.vram, s.Exerion.VideoRAM)
	copy(eb.spriteRAM, s.Exerion.SpriteRAM)
	eb.video.SetState(s.Exerion.Video)
	return nil
}

// --- shangha3 ---

type shangha3Board struct {
	video *shangha3.VideoState
	vram  []uint16
}

// shangha3Timing is a 384x256 raster; the blitter board only needs the
// vblank edge to publish a frame.
var shangha3Timing = beam.Timing{HTotal: 512, VTotal: 262, VBlankStart: 240, VBlankEnd: 16}

func newShangha3Board(cfg Config, roms ROMs, b *bus.Bus, bm *beam.Counter) (*shangha3Board, error) {
	if len(roms.Tiles) == 0 || len(roms.Tiles)%shangha3.TileBytes != 0 {
		return nil, fmt.Errorf("%w: tile rom is %d bytes, want a multiple of %d", ErrROM, len(roms.Tiles), shangha3.TileBytes)
	}
	tiles, err := shangha3.DecodeTiles(roms.Tiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrROM, err)
	}
	sb := &shangha3Board{vram: make([]uint16, shangha3.VideoRAMWords)}
	if sb.video, err = shangha3.NewVideoState(tiles, sb.vram); err != nil {
		return nil, err
	}
	sb.video.SetShadows(cfg.Shadows)

	blit := func(uint32, uint16) {
		st := sb.video.Blit()
		if cfg.Trace {
			log.Printf("shangha3: blit list %#x at line %d: drawn %d disabled %d skipped %d",
				sb.video.ListAddress(), bm.Scanline(), st.Drawn, st.Disabled, st.Skipped)
		}
	}
	flip := func(_ uint32, v uint16) { sb.video.WriteFlip(v) }
	palRead := func(off uint32) uint16 { return sb.video.Palette().Read(int(off >> 1)) }
	palWrite := func(off uint32, v uint16) { sb.video.Palette().Write(int(off>>1), v) }
	list := func(_ uint32, v uint16) { sb.video.SetListAddress(v) }
	vr, vw := bus.Words(sb.vram)

	for _, m := range []struct {
		name       string
		start, end uint32
		r          bus.ReadFunc
		w          bus.WriteFunc
	}{
		{"blitter", 0x200008, 0x200009, nil, blit},
		{"flip", 0x20000c, 0x20000d, nil, flip},
		{"palette", 0x308000, 0x308fff, palRead, palWrite},
		{"gfxlist", 0x30c000, 0x30c001, nil, list},
		{"videoram", 0x318000, 0x31ffff, vr, vw},
	} {
		if err := b.Map(m.name, m.start, m.end, m.r, m.w); err != nil {
			return nil, err
		}
	}
	return sb, nil
}

func (sb *shangha3Board) visible() image.Rectangle { return shangha3.Visible }
func (sb *shangha3Board) beginFrame()              {}
func (sb *shangha3Board) endActive()               {}
func (sb *shangha3Board) compose(dst *image.RGBA)  { sb.video.Render(dst) }

type shangha3State struct {
	VideoRAM []uint16
	Video    shangha3.State
}

func (sb *shangha3Board) save(s *machineState) {
	s.Shangha3 = &shangha3State{
		VideoRAM: append([]uint16(nil), sb.vram...),
		Video:    sb.video.State(),
	}
}

func (sb *shangha3Board) load(s *machineState) error {
	if s.Shangha3 == nil {
		return fmt.Errorf("emu: state has no %s section", BoardShangha3)
	}
	copy(sb.vram, s.Shangha3.VideoRAM)
	sb.video.SetState(s.Shangha3.Video)
	return nil
}
