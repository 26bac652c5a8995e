package ui

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (a *App) drawMainMenu(screen *ebiten.Image) {
	switch a.menuMode {
	case "slot":
		a.drawSlotMenu(screen)
		return
	case "layers":
		a.drawLayerMenu(screen)
		return
	case "keys":
		a.drawKeysMenu(screen)
		return
	}
	lines := []string{
		"Menu:",
		fmt.Sprintf("  Save state (slot %d)", a.currentSlot+1),
		fmt.Sprintf("  Load state (slot %d)", a.currentSlot+1),
		"  Select Slot",
		"  Layers",
		fmt.Sprintf("  Shadows: %s", onOff(a.m.Shadows())),
		"  Keybindings",
		"  Close",
	}
	a.drawList(screen, lines)
	// quick hints, keep on-screen
	hint := a.truncateText("F5: Save  F9: Load  1-4: Layers  S: Shadows  Backspace: Back", a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, hint, 10, 10+len(lines)*14)
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	lines := []string{"Select Slot:"}
	for i := 0; i < numSlots; i++ {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		lines = append(lines, fmt.Sprintf("  %d %s", i+1, state))
	}
	a.drawList(screen, lines)
}

func (a *App) drawLayerMenu(screen *ebiten.Image) {
	lines := []string{"Layers (Enter toggles):"}
	for i := 0; i < 4; i++ {
		lines = append(lines, fmt.Sprintf("  Layer %d: %s", i, onOff(a.layers&(1<<i) != 0)))
	}
	a.drawList(screen, lines)
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Keybindings (Backspace to return)", 10, 10)
	rows := []string{
		"P: Pause",
		"N: Step (when paused)",
		"Tab: Fast-forward",
		"1-4: Toggle background layer",
		"S: Toggle shadows",
		"F5: Save state",
		"F9: Load state",
		"F12: Screenshot",
		"Esc: Open/Close Menu",
	}
	baseY := 28
	maxRows := (a.h - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if a.keysOff > len(rows)-1 {
		a.keysOff = len(rows) - 1
	}
	end := a.keysOff + maxRows
	if end > len(rows) {
		end = len(rows)
	}
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, rows[i], 10, baseY+(i-a.keysOff)*14)
	}
}

// drawList prints a title line followed by items, marking the selected one.
func (a *App) drawList(screen *ebiten.Image, lines []string) {
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
}

// maxCharsForText estimates how many debug-font glyphs fit from x to the edge.
func (a *App) maxCharsForText(x int) int {
	n := (a.w - x) / 6
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
