// Package pnm reads and writes the textual PNM formats the carver
// operates on: P2 (ASCII grayscale, PGM) and P3 (ASCII color, PPM).
// Header comment lines are captured verbatim on decode and re-emitted on
// encode, so a file in canonical form round-trips byte for byte when the
// pixel data is left untouched.
package pnm

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pgmtools/carve"
)

// magic numbers of the supported formats.
const (
	magicPGM = "P2"
	magicPPM = "P3"
)

// Image couples a decoded pixel grid with the header comment lines that
// followed the magic number. The carver never reads the comments; they
// exist only to survive the round trip.
type Image struct {
	Grid     *carve.Grid
	Comments []string
}

// Decode parses a P2 or P3 stream. The magic number sits alone on the
// first line; any '#' lines directly after it are preserved as comments.
// Dimensions, the max sample value and every sample are validated.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "reading the magic number")
	}
	var mode carve.Mode
	switch magic := strings.TrimSpace(line); magic {
	case magicPGM:
		mode = carve.Grayscale
	case magicPPM:
		mode = carve.RGB
	default:
		return nil, errors.Errorf("unsupported magic number %q, expected %q or %q", magic, magicPGM, magicPPM)
	}

	var comments []string
	for {
		b, err := br.Peek(1)
		if err != nil {
			return nil, errors.Wrap(err, "truncated header")
		}
		if b[0] != '#' {
			break
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading a comment line")
		}
		comments = append(comments, strings.TrimRight(line, "\n"))
	}

	sc := bufio.NewScanner(br)
	sc.Split(bufio.ScanWords)

	width, err := nextInt(sc, "width")
	if err != nil {
		return nil, err
	}
	height, err := nextInt(sc, "height")
	if err != nil {
		return nil, err
	}
	maxValue, err := nextInt(sc, "max sample value")
	if err != nil {
		return nil, err
	}
	grid, err := carve.NewGrid(width, height, maxValue, mode)
	if err != nil {
		return nil, err
	}

	ch := mode.Channels()
	px := make([]int, ch)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			for c := 0; c < ch; c++ {
				v, err := nextInt(sc, "sample")
				if err != nil {
					return nil, errors.Wrapf(err, "pixel (%d, %d)", i, j)
				}
				if v < 0 || v > maxValue {
					return nil, errors.Errorf("sample %d at pixel (%d, %d) outside [0, %d]", v, i, j, maxValue)
				}
				px[c] = v
			}
			grid.SetPixel(i, j, px...)
		}
	}

	return &Image{Grid: grid, Comments: comments}, nil
}

// Encode writes the image in canonical form: the magic line, the preserved
// comment lines, "W H", the max sample value, then one line per row with
// every sample followed by a single space.
func Encode(w io.Writer, img *Image) error {
	g := img.Grid
	bw := bufio.NewWriter(w)

	magic := magicPGM
	if g.Mode == carve.RGB {
		magic = magicPPM
	}
	if _, err := bw.WriteString(magic + "\n"); err != nil {
		return errors.Wrap(err, "writing the header")
	}
	for _, c := range img.Comments {
		if _, err := bw.WriteString(c + "\n"); err != nil {
			return errors.Wrap(err, "writing the header")
		}
	}
	if _, err := bw.WriteString(strconv.Itoa(g.Width) + " " + strconv.Itoa(g.Height) + "\n"); err != nil {
		return errors.Wrap(err, "writing the header")
	}
	if _, err := bw.WriteString(strconv.Itoa(g.MaxValue) + "\n"); err != nil {
		return errors.Wrap(err, "writing the header")
	}

	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			for _, v := range g.At(i, j) {
				if _, err := bw.WriteString(strconv.Itoa(v)); err != nil {
					return errors.Wrap(err, "writing pixel data")
				}
				if err := bw.WriteByte(' '); err != nil {
					return errors.Wrap(err, "writing pixel data")
				}
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "writing pixel data")
		}
	}
	return bw.Flush()
}

// DecodeFile opens and decodes a .pgm or .ppm file.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening the source image")
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	return img, nil
}

// EncodeFile writes the image to the given path, creating or truncating it.
func EncodeFile(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating the destination image")
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", filepath.Base(path))
	}
	return f.Close()
}

func nextInt(sc *bufio.Scanner, what string) (int, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, errors.Wrapf(err, "reading the %s", what)
		}
		return 0, errors.Errorf("unexpected end of data while reading the %s", what)
	}
	v, err := strconv.Atoi(sc.Text())
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", what, sc.Text())
	}
	return v, nil
}
