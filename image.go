package carve

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ToImage converts the grid to a stdlib image, normalizing samples to
// 8-bit against the grid's max value: image.Gray for grayscale grids,
// image.NRGBA for RGB grids.
func (g *Grid) ToImage() image.Image {
	if g.Mode == RGB {
		dst := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
		for i := 0; i < g.Height; i++ {
			for j := 0; j < g.Width; j++ {
				px := g.At(i, j)
				off := dst.PixOffset(j, i)
				dst.Pix[off+0] = scaleTo8(px[0], g.MaxValue)
				dst.Pix[off+1] = scaleTo8(px[1], g.MaxValue)
				dst.Pix[off+2] = scaleTo8(px[2], g.MaxValue)
				dst.Pix[off+3] = 0xff
			}
		}
		return dst
	}
	dst := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			dst.Pix[i*dst.Stride+j] = scaleTo8(g.At(i, j)[0], g.MaxValue)
		}
	}
	return dst
}

// FromImage converts any stdlib image into a grid of the given mode,
// mapping 8-bit samples onto the [0, maxValue] range.
func FromImage(img image.Image, mode Mode, maxValue int) (*Grid, error) {
	b := img.Bounds()
	g, err := NewGrid(b.Dx(), b.Dy(), maxValue, mode)
	if err != nil {
		return nil, err
	}
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			c := img.At(b.Min.X+j, b.Min.Y+i)
			if mode == RGB {
				nc := color.NRGBAModel.Convert(c).(color.NRGBA)
				g.SetPixel(i, j,
					scaleFrom8(nc.R, maxValue),
					scaleFrom8(nc.G, maxValue),
					scaleFrom8(nc.B, maxValue))
			} else {
				gc := color.GrayModel.Convert(c).(color.Gray)
				g.SetPixel(i, j, scaleFrom8(gc.Y, maxValue))
			}
		}
	}
	return g, nil
}

// Prescale shrinks the grid proportionally with a Lanczos resampling
// filter until its longest side fits maxSide, as a cheap first step before
// seam carving large inputs. A non-positive maxSide or an already-fitting
// grid is returned unchanged. The resample runs through 8-bit samples, so
// grids with a larger max value lose precision here.
func Prescale(g *Grid, maxSide int) (*Grid, error) {
	if maxSide <= 0 || (g.Width <= maxSide && g.Height <= maxSide) {
		return g, nil
	}
	var resized *image.NRGBA
	if g.Width >= g.Height {
		resized = imaging.Resize(g.ToImage(), maxSide, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(g.ToImage(), 0, maxSide, imaging.Lanczos)
	}
	return FromImage(resized, g.Mode, g.MaxValue)
}

// ExportFile writes the grid to a binary viewing format chosen by the
// file extension: .png or .bmp. The textual formats stay with the pnm
// package; this is a one-way convenience export through 8-bit samples.
func ExportFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating the export file")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = png.Encode(f, g.ToImage())
	case ".bmp":
		err = bmp.Encode(f, g.ToImage())
	default:
		err = errors.Errorf("unsupported export format %q", ext)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func scaleTo8(v, maxValue int) uint8 {
	if maxValue == 255 {
		return uint8(v)
	}
	return uint8(v * 255 / maxValue)
}

func scaleFrom8(v uint8, maxValue int) int {
	if maxValue == 255 {
		return int(v)
	}
	return int(v) * maxValue / 255
}
