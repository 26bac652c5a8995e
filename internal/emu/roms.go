package emu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrROM reports a missing or malformed ROM region.
var ErrROM = errors.New("emu: bad rom set")

// ROMs holds the graphics regions of one board. Only the fields of the
// configured board are used.
type ROMs struct {
	// exerion
	Chars      []byte
	Sprites    []byte
	Background []byte
	Proms      []byte

	// shangha3
	Tiles []byte
}

// File names looked up by LoadROMs.
const (
	CharsFile      = "chars.bin"
	SpritesFile    = "sprites.bin"
	BackgroundFile = "background.bin"
	PromsFile      = "proms.bin"
	TilesFile      = "tiles.bin"
)

// LoadROMs reads a board's regions from dir.
func LoadROMs(dir, board string) (ROMs, error) {
	var r ROMs
	read := func(name string, dst *[]byte) error {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrROM, err)
		}
		*dst = data
		return nil
	}
	switch board {
	case BoardExerion:
		for _, f := range []struct {
			name string
			dst  *[]byte
		}{
			{CharsFile, &r.Chars},
			{SpritesFile, &r.Sprites},
			{BackgroundFile, &r.Background},
			{PromsFile, &r.Proms},
		} {
			if err := read(f.name, f.dst); err != nil {
				return r, err
			}
		}
	case BoardShangha3:
		if err := read(TilesFile, &r.Tiles); err != nil {
			return r, err
		}
	default:
		return r, fmt.Errorf("%w: unknown board %q", ErrROM, board)
	}
	return r, nil
}
