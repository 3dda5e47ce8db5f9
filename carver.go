package carve

import (
	"github.com/pkg/errors"
)

// Options configures a Carver session.
type Options struct {
	Intensity IntensityPolicy
	TieBreak  TieBreak
	// Mask protects regions from removal; RMask attracts seams into
	// regions. Both must be grayscale grids matching the image shape and
	// are carved alongside the image so they stay aligned.
	Mask  *Grid
	RMask *Grid
}

// Carver drives repeated energy computation, seam search and seam removal
// against a single grid. It owns the grid exclusively for the duration of
// the session; no two removal cycles ever run concurrently.
type Carver struct {
	grid  *Grid
	mask  *Grid
	rmask *Grid
	opts  Options
}

// NewCarver wraps the grid into a carve session. The grid is mutated in
// place by the removal operations.
func NewCarver(g *Grid, opts Options) (*Carver, error) {
	if g == nil {
		return nil, errors.New("carver needs a grid")
	}
	if err := checkMask(g, opts.Mask, "mask"); err != nil {
		return nil, err
	}
	if err := checkMask(g, opts.RMask, "removal mask"); err != nil {
		return nil, err
	}
	return &Carver{
		grid:  g,
		mask:  opts.Mask,
		rmask: opts.RMask,
		opts:  opts,
	}, nil
}

func checkMask(g, mask *Grid, kind string) error {
	if mask == nil {
		return nil
	}
	if mask.Mode != Grayscale {
		return errors.Errorf("the %s must be grayscale", kind)
	}
	if mask.Width != g.Width || mask.Height != g.Height {
		return errors.Errorf("the %s shape %dx%d does not match the image shape %dx%d",
			kind, mask.Width, mask.Height, g.Width, g.Height)
	}
	return nil
}

// Grid returns the grid in its current state.
func (c *Carver) Grid() *Grid {
	return c.grid
}

// RemoveVerticalSeams removes n minimum-energy vertical seams, shrinking
// the width by n. The energy map is recomputed from the already-shrunk
// grid before every seam: removing a seam changes every neighborhood near
// the cut, so there is no seam independence to exploit. n must be
// non-negative and strictly below the current width; the grid is untouched
// when the count is rejected, and a mid-run failure leaves it at the last
// completed seam.
func (c *Carver) RemoveVerticalSeams(n int) error {
	if n < 0 || n >= c.grid.Width {
		return errors.Errorf("cannot remove %d vertical seams from an image %d pixels wide", n, c.grid.Width)
	}
	for k := 0; k < n; k++ {
		if err := c.removeOne(); err != nil {
			return err
		}
	}
	return nil
}

// RemoveHorizontalSeams removes n minimum-energy horizontal seams,
// shrinking the height by n. The grid is transposed once, run through the
// vertical algorithm n times and transposed back once, so horizontal
// removal shares all seam logic with the vertical path. n must be
// non-negative and strictly below the current height.
func (c *Carver) RemoveHorizontalSeams(n int) error {
	if n < 0 || n >= c.grid.Height {
		return errors.Errorf("cannot remove %d horizontal seams from an image %d pixels tall", n, c.grid.Height)
	}
	c.transpose()
	for k := 0; k < n; k++ {
		if err := c.removeOne(); err != nil {
			// Restore the orientation so the caller still holds a
			// valid grid reflecting every completed seam.
			c.transpose()
			return err
		}
	}
	c.transpose()
	return nil
}

// removeOne runs a single energy -> seam -> delete cycle.
func (c *Carver) removeOne() error {
	energy := ComputeEnergy(c.grid, EnergyOptions{
		Intensity: c.opts.Intensity,
		Mask:      c.mask,
		RMask:     c.rmask,
	})
	seam, err := FindVerticalSeam(energy, c.opts.TieBreak)
	if err != nil {
		return err
	}
	if err := c.grid.DeleteSeam(seam); err != nil {
		return err
	}
	if c.mask != nil {
		if err := c.mask.DeleteSeam(seam); err != nil {
			return errors.Wrap(err, "carving the mask")
		}
	}
	if c.rmask != nil {
		if err := c.rmask.DeleteSeam(seam); err != nil {
			return errors.Wrap(err, "carving the removal mask")
		}
	}
	return nil
}

func (c *Carver) transpose() {
	c.grid.Transpose()
	if c.mask != nil {
		c.mask.Transpose()
	}
	if c.rmask != nil {
		c.rmask.Transpose()
	}
}
