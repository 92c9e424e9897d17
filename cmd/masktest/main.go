// Command masktest runs edge reconstruction on one image and prints the
// result without touching the input.
package main

import (
	"flag"
	"fmt"
	"os"

	pngimage "smooth-edges/internal/image"
	"smooth-edges/internal/mask"
	"smooth-edges/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (PNG, JPEG, TIFF, BMP or WebP)")
	strength := flag.Int("strength", 0, "Strength (0 = mode default)")
	outPath := flag.String("out", "", "Write the cleaned image to this PNG path")
	mode := mask.ModeRound
	flag.Var(&mode, "mode", "Edge mode: round or sharp")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: masktest -image <path> [-mode round|sharp] [-strength n] [-out cleaned.png]")
		os.Exit(1)
	}
	if !pngimage.IsSupportedFormat(*imagePath) {
		fmt.Fprintf(os.Stderr, "Unsupported image format: %s\n", *imagePath)
		os.Exit(1)
	}
	if *outPath != "" && *outPath == *imagePath {
		fmt.Fprintln(os.Stderr, "Refusing to overwrite the input; use smooth-edges for that")
		os.Exit(1)
	}

	layer, err := pngimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer layer.Close()

	fmt.Printf("Loaded %s image: %dx%d pixels\n", layer.Format, layer.Width(), layer.Height())
	if layer.Opaque {
		fmt.Println("No transparency: alpha is fully opaque")
	}

	params := mask.DefaultParams(mode)
	if *strength != 0 {
		params = params.WithStrength(*strength)
	}
	fmt.Printf("Mode: %s, Strength: %d\n", params.Mode, params.Strength)

	before := mask.Measure(layer.Alpha)
	fmt.Printf("\nAlpha before: %s\n", before)

	result, err := mask.Reconstruct(layer.Alpha, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reconstruction failed: %v\n", err)
		os.Exit(1)
	}
	defer result.Close()

	after := mask.Measure(result.Mask)
	fmt.Printf("Alpha after:  %s\n", after)
	fmt.Printf("Coverage change: %+.2f%%\n", (after.Coverage()-before.Coverage())*100)

	if params.Mode == mask.ModeSharp {
		if result.Fallback {
			fmt.Println("\nNo contour survived cleanup; mask is the thresholded cleaned alpha")
		} else {
			bb := geometry.BoundingBox(result.Outline)
			fmt.Printf("\nOutline: %d vertices\n", len(result.Outline))
			fmt.Printf("  area %.0f px, perimeter %.1f px\n",
				geometry.PolygonArea(result.Outline), geometry.Perimeter(result.Outline))
			fmt.Printf("  bounds x=%d y=%d %dx%d\n", bb.X, bb.Y, bb.Width, bb.Height)
			c := geometry.Centroid(result.Outline)
			inside := "inside"
			if !geometry.PointInPolygon(c, result.Outline) {
				inside = "outside (concave outline)"
			}
			fmt.Printf("  centroid (%.1f, %.1f), %s\n", c.X, c.Y, inside)
			for i, p := range result.Outline {
				fmt.Printf("  %3d: (%d, %d)\n", i, p.X, p.Y)
			}
		}
	}

	if *outPath == "" {
		return
	}

	merged, err := pngimage.Composite(layer.Color, result.Mask)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Composite failed: %v\n", err)
		os.Exit(1)
	}
	defer merged.Close()

	if err := pngimage.SavePNG(*outPath, merged); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *outPath)
}
