package carve

import "github.com/pgmtools/carve/utils"

// IntensityPolicy selects how a color pixel collapses to the scalar used
// for energy computation. It changes which seam is the minimum on color
// images, so a Carver fixes one policy for its whole session.
type IntensityPolicy int

const (
	// IntensityAverage reduces an RGB pixel to (r+g+b)/3 with truncating
	// division before taking neighbor differences. Default.
	IntensityAverage IntensityPolicy = iota
	// IntensitySumChannels computes the neighbor differences per channel
	// and sums them across channels.
	IntensitySumChannels
)

// EnergyOptions configures a single energy computation.
type EnergyOptions struct {
	Intensity IntensityPolicy
	// Mask marks regions to protect: each mask sample is added to the
	// cell energy, steering seams away. Must be a grayscale grid of the
	// same shape as the image when set.
	Mask *Grid
	// RMask marks regions to remove: each mask sample is subtracted from
	// the cell energy, clamped at zero, attracting seams. Same shape
	// requirements as Mask.
	RMask *Grid
}

// ComputeEnergy derives the importance map of the grid: per cell, the sum
// of absolute differences between the cell intensity and each existing
// 4-neighbor's intensity. Neighbors outside the grid contribute nothing.
// The map has exactly the grid's shape and is recomputed from scratch on
// every call; it is never cached across seam deletions.
func ComputeEnergy(g *Grid, opts EnergyOptions) [][]int {
	h, w := g.Height, g.Width
	energy := make([][]int, h)

	if g.Mode == RGB && opts.Intensity == IntensitySumChannels {
		for i := 0; i < h; i++ {
			energy[i] = make([]int, w)
			for j := 0; j < w; j++ {
				px := g.At(i, j)
				sum := 0
				if i > 0 {
					sum += channelDiff(px, g.At(i-1, j))
				}
				if i < h-1 {
					sum += channelDiff(px, g.At(i+1, j))
				}
				if j > 0 {
					sum += channelDiff(px, g.At(i, j-1))
				}
				if j < w-1 {
					sum += channelDiff(px, g.At(i, j+1))
				}
				energy[i][j] = sum
			}
		}
	} else {
		for i := 0; i < h; i++ {
			energy[i] = make([]int, w)
			for j := 0; j < w; j++ {
				v := intensity(g, i, j)
				sum := 0
				if i > 0 {
					sum += utils.Abs(v - intensity(g, i-1, j))
				}
				if i < h-1 {
					sum += utils.Abs(v - intensity(g, i+1, j))
				}
				if j > 0 {
					sum += utils.Abs(v - intensity(g, i, j-1))
				}
				if j < w-1 {
					sum += utils.Abs(v - intensity(g, i, j+1))
				}
				energy[i][j] = sum
			}
		}
	}

	if opts.Mask != nil {
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				energy[i][j] += opts.Mask.At(i, j)[0]
			}
		}
	}
	if opts.RMask != nil {
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				energy[i][j] = utils.Max(0, energy[i][j]-opts.RMask.At(i, j)[0])
			}
		}
	}
	return energy
}

// intensity returns the scalar value of a pixel: the stored sample for
// grayscale grids, the truncating channel average for RGB grids. The
// stored samples are never modified.
func intensity(g *Grid, row, col int) int {
	px := g.At(row, col)
	if g.Mode == RGB {
		return (px[0] + px[1] + px[2]) / 3
	}
	return px[0]
}

func channelDiff(a, b []int) int {
	return utils.Abs(a[0]-b[0]) + utils.Abs(a[1]-b[1]) + utils.Abs(a[2]-b[2])
}
