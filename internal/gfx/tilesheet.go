package gfx

// TileSheet holds decoded tiles as one pixel-index byte per pixel, row-major
// within each tile. It is never modified after Decode.
type TileSheet struct {
	Width, Height int
	Count         int
	Depth         int // bits per pixel
	pix           []byte
}

// Tile returns the pixels of code, wrapping codes past Count.
func (s *TileSheet) Tile(code int) []byte {
	n := s.Width * s.Height
	c := code % s.Count
	if c < 0 {
		c += s.Count
	}
	return s.pix[c*n : (c+1)*n]
}

// Row returns one row of a tile.
func (s *TileSheet) Row(code, row int) []byte {
	t := s.Tile(code)
	return t[row*s.Width : (row+1)*s.Width]
}

// Pixel returns the pixel index at (row, col) of a tile.
func (s *TileSheet) Pixel(code, row, col int) byte {
	return s.Tile(code)[row*s.Width+col]
}

// Bytes exposes the whole decoded sheet. Callers must not modify it.
func (s *TileSheet) Bytes() []byte { return s.pix }
