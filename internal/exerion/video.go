package exerion

import (
	"errors"
	"fmt"
	"image"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/beam"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/latch"
)

// Screen geometry and raster timing.
const (
	ScreenWidth  = 64 * 8
	ScreenHeight = 32 * 8

	HTotal      = 0x180
	HCountStart = 0x58
	VTotal      = 0x108
	VBlankStart = 0xf0
	VBlankEnd   = 0x10

	VideoRAMSize  = 0x800
	SpriteRAMSize = 0x80

	// X positions the background counters start clocking from.
	backgroundXStart     = 32
	backgroundXStartFlip = 72
)

// Timing is the Exerion raster.
var Timing = beam.Timing{HTotal: HTotal, VTotal: VTotal, VBlankStart: VBlankStart, VBlankEnd: VBlankEnd}

// DefaultVisible is the visible window of the 512x256 screen.
var DefaultVisible = image.Rect(12*8, 2*8, 52*8, 30*8)

// Beam is what the video hardware needs to know about the raster.
type Beam interface {
	latch.Beam
	HPos() int
	VBlank() bool
}

// VideoState is the board's video hardware: registers, latched background
// state and the RAM it draws from. RAM slices are owned by the caller.
type VideoState struct {
	gfx   *Graphics
	proms *Proms
	beam  Beam

	latches   *latch.Buffer
	videoRAM  []byte
	spriteRAM []byte
	visible   image.Rectangle

	cocktailFlip  bool
	charPalette   byte
	charBank      byte
	spritePalette byte
	layerMask     byte // background layers drawn, bit per layer
}

var errRAM = errors.New("exerion: video ram too small")

func NewVideoState(g *Graphics, p *Proms, b Beam, videoRAM, spriteRAM []byte, visible image.Rectangle) (*VideoState, error) {
	if len(videoRAM) < VideoRAMSize || len(spriteRAM) < SpriteRAMSize {
		return nil, fmt.Errorf("%w: video %d sprite %d", errRAM, len(videoRAM), len(spriteRAM))
	}
	if visible.Empty() {
		visible = DefaultVisible
	}
	return &VideoState{
		gfx:       g,
		proms:     p,
		beam:      b,
		latches:   latch.New(ScreenHeight, b),
		videoRAM:  videoRAM[:VideoRAMSize],
		spriteRAM: spriteRAM[:SpriteRAMSize],
		visible:   visible.Intersect(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		layerMask: 0x0f,
	}, nil
}

// WriteVideoReg handles the video control register.
//
//	bit 0     cocktail flip
//	bits 1-2  char palette
//	bit 3     char bank
//	bits 6-7  sprite palette
func (v *VideoState) WriteVideoReg(data byte) {
	v.cocktailFlip = data&1 != 0
	v.charPalette = data >> 1 & 3
	v.charBank = data >> 3 & 1
	v.spritePalette = data >> 6 & 3
}

// WriteLatch writes one of the sixteen background registers.
func (v *VideoState) WriteLatch(offset int, data byte) {
	v.latches.Write(offset&(latch.NumRegs-1), data)
}

// TimingStatus returns bit 0 = sub-CPU NMI line, bit 1 = vblank.
func (v *VideoState) TimingStatus() byte {
	hcounter := v.beam.HPos() + HCountStart
	var snmi byte = 1
	if hcounter&0x180 == 0x180 && !v.beam.VBlank() {
		snmi = ^byte(hcounter>>6) & 1
	}
	var vblank byte
	if v.beam.VBlank() {
		vblank = 1
	}
	return vblank<<1 | snmi
}

// BeginFrame rewinds the latch timeline at the top of a frame.
func (v *VideoState) BeginFrame() { v.latches.NewFrame() }

// EndActive freezes the remaining lines once the beam enters vblank.
func (v *VideoState) EndActive() { v.latches.FlushTo(latch.FlushAll) }

func (v *VideoState) Latches() *latch.Buffer     { return v.latches }
func (v *VideoState) Palette() gfx.Palette       { return v.proms.Palette }
func (v *VideoState) Visible() image.Rectangle   { return v.visible }
func (v *VideoState) Flipped() bool              { return v.cocktailFlip }
func (v *VideoState) LayerMask() byte            { return v.layerMask }
func (v *VideoState) SetLayerMask(m byte)        { v.layerMask = m & 0x0f }
func (v *VideoState) ToggleLayer(layer int) byte { v.layerMask ^= 1 << (layer & 3); return v.layerMask }

// State is the serializable part of the video hardware. RAM lives with the
// machine that owns it.
type State struct {
	Latches       latch.State
	CocktailFlip  bool
	CharPalette   byte
	CharBank      byte
	SpritePalette byte
	LayerMask     byte
}

func (v *VideoState) State() State {
	return State{
		Latches:       v.latches.State(),
		CocktailFlip:  v.cocktailFlip,
		CharPalette:   v.charPalette,
		CharBank:      v.charBank,
		SpritePalette: v.spritePalette,
		LayerMask:     v.layerMask,
	}
}

func (v *VideoState) SetState(s State) {
	v.latches.SetState(s.Latches)
	v.cocktailFlip = s.CocktailFlip
	v.charPalette = s.CharPalette
	v.charBank = s.CharBank
	v.spritePalette = s.SpritePalette
	v.layerMask = s.LayerMask
}

func pensOf[P gfx.Pixel](src []uint8) []P {
	out := make([]P, len(src))
	for i, p := range src {
		out[i] = P(p)
	}
	return out
}
