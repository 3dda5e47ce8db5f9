package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFrom builds a grid straight from row storage: each row holds
// width*channels samples.
func gridFrom(mode Mode, maxValue int, rows [][]int) *Grid {
	ch := mode.Channels()
	g := &Grid{
		Width:    len(rows[0]) / ch,
		Height:   len(rows),
		MaxValue: maxValue,
		Mode:     mode,
		rows:     make([][]int, len(rows)),
	}
	for i, row := range rows {
		g.rows[i] = make([]int, len(row))
		copy(g.rows[i], row)
	}
	return g
}

func TestGrid_DeleteSeamShiftsPixels(t *testing.T) {
	assert := assert.New(t)

	g := gridFrom(Grayscale, 255, [][]int{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	err := g.DeleteSeam([]int{1, 0, 2})
	require.NoError(t, err)

	assert.Equal(2, g.Width)
	assert.Equal(3, g.Height)
	assert.Equal([]int{1, 3}, g.rows[0])
	assert.Equal([]int{5, 6}, g.rows[1])
	assert.Equal([]int{7, 8}, g.rows[2])
}

func TestGrid_DeleteSeamRGB(t *testing.T) {
	assert := assert.New(t)

	g := gridFrom(RGB, 255, [][]int{
		{1, 1, 1, 2, 2, 2, 3, 3, 3},
		{4, 4, 4, 5, 5, 5, 6, 6, 6},
	})

	err := g.DeleteSeam([]int{1, 1})
	require.NoError(t, err)

	assert.Equal(2, g.Width)
	assert.Equal([]int{1, 1, 1, 3, 3, 3}, g.rows[0])
	assert.Equal([]int{4, 4, 4, 6, 6, 6}, g.rows[1])
}

func TestGrid_DeleteSeamValidatesBeforeMutating(t *testing.T) {
	assert := assert.New(t)

	g := gridFrom(Grayscale, 255, [][]int{
		{1, 2},
		{3, 4},
	})
	orig := g.Clone()

	// Wrong length.
	err := g.DeleteSeam([]int{0})
	assert.Error(err)
	assert.Equal(orig, g)

	// Out of range, with a valid first entry: nothing may be shifted.
	err = g.DeleteSeam([]int{0, 2})
	assert.Error(err)
	assert.Equal(orig, g)

	err = g.DeleteSeam([]int{-1, 0})
	assert.Error(err)
	assert.Equal(orig, g)
}

func TestGrid_TransposeMovesPixels(t *testing.T) {
	assert := assert.New(t)

	g := gridFrom(Grayscale, 255, [][]int{
		{1, 2, 3},
		{4, 5, 6},
	})
	g.Transpose()

	assert.Equal(2, g.Width)
	assert.Equal(3, g.Height)
	assert.Equal([]int{1, 4}, g.rows[0])
	assert.Equal([]int{2, 5}, g.rows[1])
	assert.Equal([]int{3, 6}, g.rows[2])
}

func TestGrid_TransposeInvolution(t *testing.T) {
	g := gridFrom(RGB, 255, [][]int{
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
		{9, 8, 7, 6, 5, 4, 3, 2, 1},
	})
	orig := g.Clone()

	g.Transpose()
	g.Transpose()

	assert.Equal(t, orig, g)
}

func TestNewGrid_RejectsDegenerateShapes(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct{ w, h, max int }{
		{0, 5, 255},
		{5, 0, 255},
		{-1, 5, 255},
		{5, 5, 0},
	} {
		_, err := NewGrid(tc.w, tc.h, tc.max, Grayscale)
		assert.Error(err)
	}
}

func TestGrid_SetPixelAndAt(t *testing.T) {
	g, err := NewGrid(2, 2, 255, RGB)
	require.NoError(t, err)

	g.SetPixel(1, 0, 10, 20, 30)
	assert.Equal(t, []int{10, 20, 30}, g.At(1, 0))
	assert.Equal(t, []int{0, 0, 0}, g.At(1, 1))
}
