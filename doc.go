/*
Package carve is a content aware image shrinking library for textual PNM
images. Instead of scaling uniformly it repeatedly removes the connected
top-to-bottom (or left-to-right) path of pixels carrying the least local
contrast, so the parts of the image that matter keep their proportions.

The package provides a command line interface:

	$ carve -in image.pgm -vertical 80 -horizontal 20

For programmatic use, wrap a pixel grid into a Carver and remove seams:

	package main

	import (
		"log"
		"os"

		"github.com/pgmtools/carve"
		"github.com/pgmtools/carve/pnm"
	)

	func main() {
		img, err := pnm.DecodeFile("input.pgm")
		if err != nil {
			log.Fatal(err)
		}

		c, err := carve.NewCarver(img.Grid, carve.Options{})
		if err != nil {
			log.Fatal(err)
		}
		if err := c.RemoveVerticalSeams(80); err != nil {
			log.Fatal(err)
		}

		if err := pnm.EncodeFile("output.pgm", img); err != nil {
			log.Fatal(err)
		}
	}
*/
package carve
