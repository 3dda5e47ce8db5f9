package carve

import (
	"github.com/pkg/errors"
)

// Mode indicates how many samples a pixel group holds.
type Mode int

const (
	// Grayscale stores one sample per pixel.
	Grayscale Mode = iota
	// RGB stores three samples per pixel.
	RGB
)

// Channels returns the number of samples per pixel group.
func (m Mode) Channels() int {
	if m == RGB {
		return 3
	}
	return 1
}

// Grid owns the mutable pixel storage of a carve session. Each row holds
// Width pixel groups of Mode.Channels() samples, stored contiguously.
// Width and Height always match the actual storage shape; only DeleteSeam
// and Transpose change them.
type Grid struct {
	Width    int
	Height   int
	MaxValue int
	Mode     Mode
	rows     [][]int
}

// NewGrid allocates a zeroed grid of the requested shape.
func NewGrid(width, height, maxValue int, mode Mode) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if maxValue <= 0 {
		return nil, errors.Errorf("invalid max sample value %d", maxValue)
	}
	ch := mode.Channels()
	rows := make([][]int, height)
	for i := range rows {
		rows[i] = make([]int, width*ch)
	}
	return &Grid{
		Width:    width,
		Height:   height,
		MaxValue: maxValue,
		Mode:     mode,
		rows:     rows,
	}, nil
}

// At returns the pixel group at (row, col) as a subslice of the row storage.
// Mutating the returned slice mutates the grid.
func (g *Grid) At(row, col int) []int {
	ch := g.Mode.Channels()
	return g.rows[row][col*ch : (col+1)*ch]
}

// SetPixel overwrites the pixel group at (row, col).
func (g *Grid) SetPixel(row, col int, samples ...int) {
	copy(g.At(row, col), samples)
}

// Clone returns a deep copy sharing no storage with the receiver.
func (g *Grid) Clone() *Grid {
	rows := make([][]int, g.Height)
	for i := range rows {
		rows[i] = make([]int, len(g.rows[i]))
		copy(rows[i], g.rows[i])
	}
	return &Grid{
		Width:    g.Width,
		Height:   g.Height,
		MaxValue: g.MaxValue,
		Mode:     g.Mode,
		rows:     rows,
	}
}

// DeleteSeam removes one pixel group per row and shifts the remainder of
// each row left, decrementing the width. The seam must hold exactly Height
// column indices, each valid for the current width. The whole seam is
// validated before any row is touched, so a rejected seam leaves the grid
// unchanged.
func (g *Grid) DeleteSeam(seam []int) error {
	if len(seam) != g.Height {
		return errors.Errorf("seam length %d does not match image height %d", len(seam), g.Height)
	}
	for i, col := range seam {
		if col < 0 || col >= g.Width {
			return errors.Errorf("seam column %d out of range at row %d, width is %d", col, i, g.Width)
		}
	}
	ch := g.Mode.Channels()
	for i, col := range seam {
		row := g.rows[i]
		copy(row[col*ch:], row[(col+1)*ch:])
		g.rows[i] = row[:len(row)-ch]
	}
	g.Width--
	return nil
}

// Transpose swaps the roles of rows and columns: the pixel group at (i, j)
// moves to (j, i) and Width and Height swap.
func (g *Grid) Transpose() {
	ch := g.Mode.Channels()
	rows := make([][]int, g.Width)
	for j := 0; j < g.Width; j++ {
		rows[j] = make([]int, g.Height*ch)
		for i := 0; i < g.Height; i++ {
			copy(rows[j][i*ch:(i+1)*ch], g.rows[i][j*ch:(j+1)*ch])
		}
	}
	g.rows = rows
	g.Width, g.Height = g.Height, g.Width
}
