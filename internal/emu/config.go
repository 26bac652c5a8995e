package emu

import "image"

// Supported boards.
const (
	BoardExerion  = "exerion"
	BoardShangha3 = "shangha3"
)

// Config contains settings that affect emulation behavior.
type Config struct {
	Board   string          // BoardExerion or BoardShangha3
	Trace   bool            // log register writes and blitter runs
	Shadows bool            // shangha3: pen 14 shades the pixel beneath
	Visible image.Rectangle // exerion: visible area override, empty for the board default
	Wide    bool            // exerion: compose into 16-bit pixel storage
}

// Defaults returns the settings the CLI starts from.
func Defaults() Config {
	return Config{
		Board:   BoardExerion,
		Shadows: true,
	}
}
