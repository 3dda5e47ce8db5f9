package carve

import (
	"github.com/pkg/errors"
)

// Seam is an ordered sequence of column indices, one per row, describing a
// connected top-to-bottom path: adjacent entries differ by at most one.
type Seam []int

// TieBreak fixes how equal-cost candidates are resolved while walking the
// cumulative cost matrix back up. Different reference implementations of
// the backtrack disagree here, so the choice is explicit; every policy is
// deterministic.
type TieBreak int

const (
	// TieLeftmost picks the smallest candidate column on ties. Default.
	TieLeftmost TieBreak = iota
	// TieRightmost picks the largest candidate column on ties.
	TieRightmost
	// TiePreferCenter keeps the current column on ties, otherwise the
	// leftmost of the tied candidates.
	TiePreferCenter
)

// FindVerticalSeam computes the minimum-total-energy top-to-bottom seam of
// the energy map via dynamic programming.
//
// The cumulative cost matrix starts as a copy of the first energy row; each
// following cell adds its energy to the cheapest of the up-to-three upper
// neighbors, restricting the seam to one column of sideways movement per
// row. The last-row starting point is the leftmost minimum. The backtrack
// then walks up selecting the cheapest upper neighbor under the given
// tie-break policy.
//
// The same energy map always yields the same seam.
func FindVerticalSeam(energy [][]int, tb TieBreak) (Seam, error) {
	h := len(energy)
	if h == 0 || len(energy[0]) == 0 {
		return nil, errors.New("cannot find a seam in an empty energy map")
	}
	w := len(energy[0])

	m := make([][]int, h)
	m[0] = make([]int, w)
	copy(m[0], energy[0])

	for i := 1; i < h; i++ {
		m[i] = make([]int, w)
		for j := 0; j < w; j++ {
			best := m[i-1][j]
			if j > 0 && m[i-1][j-1] < best {
				best = m[i-1][j-1]
			}
			if j < w-1 && m[i-1][j+1] < best {
				best = m[i-1][j+1]
			}
			m[i][j] = energy[i][j] + best
		}
	}

	// Leftmost minimum of the bottom row; first occurrence wins.
	seam := make(Seam, h)
	minj := 0
	for j := 1; j < w; j++ {
		if m[h-1][j] < m[h-1][minj] {
			minj = j
		}
	}
	seam[h-1] = minj

	for i := h - 1; i > 0; i-- {
		prev := seam[i]
		lo, hi := prev-1, prev+1
		if lo < 0 {
			lo = 0
		}
		if hi > w-1 {
			hi = w - 1
		}

		best := m[i-1][lo]
		for k := lo + 1; k <= hi; k++ {
			if m[i-1][k] < best {
				best = m[i-1][k]
			}
		}

		next := lo
		switch tb {
		case TieRightmost:
			for k := hi; k >= lo; k-- {
				if m[i-1][k] == best {
					next = k
					break
				}
			}
		case TiePreferCenter:
			next = prev
			if m[i-1][prev] != best {
				for k := lo; k <= hi; k++ {
					if m[i-1][k] == best {
						next = k
						break
					}
				}
			}
		default: // TieLeftmost
			for k := lo; k <= hi; k++ {
				if m[i-1][k] == best {
					next = k
					break
				}
			}
		}
		seam[i-1] = next
	}
	return seam, nil
}
