package ui

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/emu"
	"github.com/FabianRolfMatthiasNoll/arcadevid/internal/gfx"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	w, h   int
	paused bool
	fast   bool

	// overlay/menu
	showMenu    bool
	menuMode    string
	menuIdx     int
	keysOff     int
	layers      byte
	currentSlot int
	toastMsg    string
	toastUntil  time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	w, h := m.Size()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	return &App{cfg: cfg, m: m, w: w, h: h, layers: m.LayerMask(), menuMode: "main"}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}

	// Debug toggles: background layers (1-4), shadows (S)
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if inpututil.IsKeyJustPressed(k) && !a.showMenu {
			a.layers = a.m.ToggleLayer(i)
			a.toast(fmt.Sprintf("Layers %04b", a.layers))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.m.SetShadows(!a.m.Shadows())
		a.toast(fmt.Sprintf("Shadows %v", a.m.Shadows()))
	}

	// Quick save/load
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.reportSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.reportLoad()
	}

	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.backToMain(0)
	}
	if a.showMenu {
		a.updateMainMenu()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			log.Printf("screenshot: %v", err)
		} else {
			a.toast("Saved " + name)
		}
	}

	if !a.paused && !a.showMenu {
		n := 1
		if a.fast {
			n = a.cfg.FastFrames
		}
		for i := 0; i < n; i++ {
			a.m.StepFrame()
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(a.w, a.h)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.showMenu {
		overlay := ebiten.NewImage(a.w, a.h)
		overlay.Fill(color.RGBA{0, 0, 0, 160})
		screen.DrawImage(overlay, nil)
		a.drawMainMenu(screen)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.toastMsg, 4, a.h-16)
	}
	if a.paused && !a.showMenu {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, 4)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return a.w, a.h }

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	img := gfx.Upscale(a.m.Snapshot(), a.cfg.ScreenshotScale)
	return name, gfx.WritePNG(name, img)
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}
