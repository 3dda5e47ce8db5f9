package pnm

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmtools/carve"
)

const samplePGM = `P2
# created by an ancient scanner
# do not touch
3 2
255
10 20 30 
40 50 60 
`

const samplePPM = `P3
2 1
255
255 0 0 0 255 0 
`

func TestDecode_PGM(t *testing.T) {
	assert := assert.New(t)

	img, err := Decode(strings.NewReader(samplePGM))
	require.NoError(t, err)

	assert.Equal(carve.Grayscale, img.Grid.Mode)
	assert.Equal(3, img.Grid.Width)
	assert.Equal(2, img.Grid.Height)
	assert.Equal(255, img.Grid.MaxValue)
	assert.Equal([]string{
		"# created by an ancient scanner",
		"# do not touch",
	}, img.Comments)
	assert.Equal([]int{30}, img.Grid.At(0, 2))
	assert.Equal([]int{40}, img.Grid.At(1, 0))
}

func TestDecode_PPM(t *testing.T) {
	assert := assert.New(t)

	img, err := Decode(strings.NewReader(samplePPM))
	require.NoError(t, err)

	assert.Equal(carve.RGB, img.Grid.Mode)
	assert.Equal(2, img.Grid.Width)
	assert.Equal(1, img.Grid.Height)
	assert.Empty(img.Comments)
	assert.Equal([]int{255, 0, 0}, img.Grid.At(0, 0))
	assert.Equal([]int{0, 255, 0}, img.Grid.At(0, 1))
}

func TestDecode_AcceptsLooseWhitespace(t *testing.T) {
	in := "P2\n2   2\n 255\n1\n2\n3\n4\n"

	img, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []int{4}, img.Grid.At(1, 1))
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"unsupported magic": "P5\n2 2\n255\n1 2 3 4\n",
		"not a pnm file":    "hello world\n",
		"zero width":        "P2\n0 2\n255\n",
		"negative height":   "P2\n2 -1\n255\n",
		"zero max value":    "P2\n2 2\n0\n1 2 3 4\n",
		"word where number": "P2\ntwo 2\n255\n1 2 3 4\n",
		"insufficient data": "P2\n2 2\n255\n1 2 3\n",
		"sample above max":  "P2\n2 1\n255\n1 900\n",
		"negative sample":   "P2\n2 1\n255\n-1 0\n",
		"empty input":       "",
		"header only":       "P2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestEncode_RoundTripsCanonicalInput(t *testing.T) {
	for _, in := range []string{samplePGM, samplePPM} {
		img, err := Decode(strings.NewReader(in))
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, Encode(&out, img))
		assert.Equal(t, in, out.String())
	}
}

func TestEncode_NormalizesLooseInput(t *testing.T) {
	img, err := Decode(strings.NewReader("P2\n2 1\n9\n3\t 4\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Encode(&out, img))
	assert.Equal(t, "P2\n2 1\n9\n3 4 \n", out.String())
}

func TestEncode_AfterCarving(t *testing.T) {
	img, err := Decode(strings.NewReader(samplePGM))
	require.NoError(t, err)

	require.NoError(t, img.Grid.DeleteSeam([]int{1, 2}))

	var out bytes.Buffer
	require.NoError(t, Encode(&out, img))
	assert.Equal(t, "P2\n# created by an ancient scanner\n# do not touch\n2 2\n255\n10 30 \n40 50 \n", out.String())
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.pgm")

	img, err := Decode(strings.NewReader(samplePGM))
	require.NoError(t, err)
	require.NoError(t, EncodeFile(path, img))

	back, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, back)

	_, err = DecodeFile(filepath.Join(dir, "missing.pgm"))
	assert.Error(t, err)
}
