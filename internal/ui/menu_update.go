package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const numSlots = 4

const (
	itemSave = iota
	itemLoad
	itemSlot
	itemLayers
	itemShadows
	itemKeys
	itemClose
)

func (a *App) updateMainMenu() {
	switch a.menuMode {
	case "slot":
		a.updateSlotMenu()
		return
	case "layers":
		a.updateLayerMenu()
		return
	case "keys":
		a.updateKeysMenu()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < itemClose {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case itemSave:
			a.reportSave()
		case itemLoad:
			a.reportLoad()
		case itemSlot:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case itemLayers:
			a.menuMode = "layers"
			a.menuIdx = 0
		case itemShadows:
			a.m.SetShadows(!a.m.Shadows())
		case itemKeys:
			a.menuMode = "keys"
			a.keysOff = 0
		case itemClose:
			a.showMenu = false
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < numSlots-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.backToMain(itemSlot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(itemSlot)
	}
}

func (a *App) updateLayerMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 3 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		a.layers = a.m.ToggleLayer(a.menuIdx)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(itemLayers)
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.backToMain(itemKeys)
	}
}

func (a *App) backToMain(idx int) {
	a.menuMode = "main"
	a.menuIdx = idx
}

func (a *App) statePath(slot int) string {
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("%s.slot%d.state", a.m.Config().Board, slot+1))
}

func (a *App) saveSlot(slot int) error {
	if err := os.MkdirAll(a.cfg.StateDir, 0o755); err != nil {
		return err
	}
	return a.m.SaveStateToFile(a.statePath(slot))
}

func (a *App) loadSlot(slot int) error {
	return a.m.LoadStateFromFile(a.statePath(slot))
}

func (a *App) reportSave() {
	if err := a.saveSlot(a.currentSlot); err == nil {
		a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
	} else {
		a.toast("Save failed: " + err.Error())
	}
}

func (a *App) reportLoad() {
	if _, err := os.Stat(a.statePath(a.currentSlot)); err != nil {
		a.toast("Slot is empty")
		return
	}
	if err := a.loadSlot(a.currentSlot); err == nil {
		a.toast(fmt.Sprintf("Loaded slot %d", a.currentSlot+1))
	} else {
		a.toast("Load failed: " + err.Error())
	}
}
