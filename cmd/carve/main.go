package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/pgmtools/carve"
	"github.com/pgmtools/carve/pnm"
	"github.com/pgmtools/carve/utils"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐
│  ├─┤├┬┘└┐┌┘├┤
└─┘┴ ┴┴└─ └┘ └─┘

Content aware image shrinking for PGM/PPM images.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", "", "Destination (default: <source>_carved_<v>_<h>.<ext>, or - for stdout)")
	vertical    = flag.Int("vertical", 0, "Number of vertical seams to remove")
	horizontal  = flag.Int("horizontal", 0, "Number of horizontal seams to remove")
	tieBreak    = flag.String("tiebreak", "leftmost", "Seam tie-break policy (leftmost|rightmost|center)")
	intensity   = flag.String("intensity", "average", "Color intensity policy (average|sum)")
	maskPath    = flag.String("mask", "", "Grayscale mask protecting regions from removal")
	rmaskPath   = flag.String("rmask", "", "Grayscale mask attracting seams into regions")
	maxSide     = flag.Int("max", 0, "Prescale the image so its longest side fits this size (0 disables)")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	configPath  = flag.String("config", "", "TOML config file with default options")

	// spinner used to instantiate and call the progress indicator.
	spinner *utils.Spinner
)

// result holds the relevant information about one processed image.
type result struct {
	path string
	err  error
}

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := applyConfig(*configPath); err != nil {
		log.Fatalf(utils.DecorateText("Failed to load the config file: %v", utils.ErrorMessage), err)
	}

	if *vertical <= 0 && *horizontal <= 0 {
		flag.Usage()
		log.Fatalf(utils.DecorateText("\nPlease provide the number of vertical and/or horizontal seams to remove!\n", utils.ErrorMessage))
	}

	opts, err := carveOptions()
	if err != nil {
		log.Fatalf(utils.DecorateText("%v\n", utils.ErrorMessage), err)
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CARVE", utils.StatusMessage),
		utils.DecorateText("is shrinking the image...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	var fs os.FileInfo
	if *source == pipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(*source)
	}
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		processDir(*source, *destination, opts)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		out := *destination
		if out == "" {
			if *source == pipeName {
				out = pipeName
			} else {
				out = outputName(*source, *vertical, *horizontal)
			}
		}
		err := processFile(*source, out, opts)
		printStatus(out, err)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// processDir shrinks every supported image beneath src concurrently,
// writing the results under dst with the same derived naming scheme used
// for single files.
func processDir(src, dst string, opts carve.Options) {
	if dst == "" || dst == pipeName {
		log.Fatalf(utils.DecorateText("Please provide a destination directory with -out!\n", utils.ErrorMessage))
	}
	if _, err := os.Stat(dst); err != nil {
		if err := os.Mkdir(dst, 0755); err != nil {
			log.Fatalf(
				utils.DecorateText("Unable to create the destination directory: %v\n", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	}

	*workers = workerCount(*workers)

	ch := make(chan result)
	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, src)

	var wg sync.WaitGroup
	wg.Add(*workers)
	for i := 0; i < *workers; i++ {
		go func() {
			defer wg.Done()
			for path := range paths {
				out := filepath.Join(dst, filepath.Base(outputName(path, *vertical, *horizontal)))
				err := processFile(path, out, opts)

				select {
				case <-done:
					return
				case ch <- result{path: path, err: err}:
				}
			}
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	for res := range ch {
		printStatus(res.path, res.err)
	}

	if err := <-errc; err != nil {
		fmt.Fprint(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
}

// workerCount limits the concurrently running workers to maxWorkers,
// falling back to the CPU count for nonsensical requests.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return utils.Min(n, maxWorkers)
}

// processFile runs one complete carve session: decode, validate the seam
// counts against the actual dimensions, shrink and encode.
func processFile(in, out string, opts carve.Options) error {
	src, dst, err := pathToFile(in, out)
	if err != nil {
		return err
	}
	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
	}()

	spinner.Start()
	defer spinner.Stop()

	img, err := pnm.Decode(src)
	if err != nil {
		return err
	}

	// First line of defense: reject impossible requests before the core
	// is ever invoked.
	if *vertical >= img.Grid.Width {
		return fmt.Errorf("cannot remove %d vertical seams from an image %d pixels wide", *vertical, img.Grid.Width)
	}
	if *horizontal >= img.Grid.Height {
		return fmt.Errorf("cannot remove %d horizontal seams from an image %d pixels tall", *horizontal, img.Grid.Height)
	}

	img.Grid, err = carve.Prescale(img.Grid, *maxSide)
	if err != nil {
		return err
	}
	if err := loadMasks(&opts); err != nil {
		return err
	}

	c, err := carve.NewCarver(img.Grid, opts)
	if err != nil {
		return err
	}
	if err := c.RemoveVerticalSeams(*vertical); err != nil {
		return err
	}
	if err := c.RemoveHorizontalSeams(*horizontal); err != nil {
		return err
	}

	return encodeOutput(dst, out, img)
}

// loadMasks decodes the protection and removal masks when requested. The
// masks are prescaled the same way as the image so the shapes keep
// matching.
func loadMasks(opts *carve.Options) error {
	if *maskPath != "" {
		m, err := pnm.DecodeFile(*maskPath)
		if err != nil {
			return err
		}
		if opts.Mask, err = carve.Prescale(m.Grid, *maxSide); err != nil {
			return err
		}
	}
	if *rmaskPath != "" {
		m, err := pnm.DecodeFile(*rmaskPath)
		if err != nil {
			return err
		}
		if opts.RMask, err = carve.Prescale(m.Grid, *maxSide); err != nil {
			return err
		}
	}
	return nil
}

// pathToFile converts the source and destination paths to readable and
// writable files, honoring the `-` pipe convention.
func pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
		}
	}

	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	}
	return src, dst, nil
}

// encodeOutput dispatches on the destination extension: .pgm/.ppm are
// written natively, .png and .bmp go through the stdlib image conversion.
// Pipe output is always native PNM.
func encodeOutput(dst io.Writer, out string, img *pnm.Image) error {
	if dst != nil {
		return pnm.Encode(dst, img)
	}

	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".pgm", ".ppm", "":
		return pnm.EncodeFile(out, img)
	case ".png", ".bmp":
		return carve.ExportFile(out, img.Grid)
	default:
		return fmt.Errorf("%v file type not supported", ext)
	}
}

// outputName derives the destination file name the way the carver has
// always named its results: base_carved_<v>_<h>.ext next to the source.
func outputName(in string, v, h int) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(in, ext)
	if ext == "" {
		ext = ".pgm"
	}
	return fmt.Sprintf("%s_carved_%d_%d%s", base, v, h, ext)
}

// carveOptions translates the textual flag values into core options.
func carveOptions() (carve.Options, error) {
	var opts carve.Options
	switch *tieBreak {
	case "leftmost":
		opts.TieBreak = carve.TieLeftmost
	case "rightmost":
		opts.TieBreak = carve.TieRightmost
	case "center":
		opts.TieBreak = carve.TiePreferCenter
	default:
		return opts, fmt.Errorf("unknown tie-break policy %q", *tieBreak)
	}
	switch *intensity {
	case "average":
		opts.Intensity = carve.IntensityAverage
	case "sum":
		opts.Intensity = carve.IntensitySumChannels
	default:
		return opts, fmt.Errorf("unknown intensity policy %q", *intensity)
	}
	return opts, nil
}

// printStatus displays the relevant information about the shrinking process.
func printStatus(fname string, err error) {
	if err != nil {
		log.Fatalf(
			utils.DecorateText("\nError carving the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
	} else if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree in
// recursive manner and sends the path of each supported file to a new
// channel. It finishes in case the done channel is getting closed.
func walkDir(done <-chan interface{}, src string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}

			switch strings.ToLower(filepath.Ext(f.Name())) {
			case ".pgm", ".ppm":
			default:
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
