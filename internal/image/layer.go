// Package image provides image loading into OpenCV matrices, mask compositing
// and atomic PNG output.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Layer is a decoded image split into color and alpha planes.
type Layer struct {
	Path   string   // File the layer was read from
	Color  gocv.Mat // BGR, 8-bit, 3 channels
	Alpha  gocv.Mat // 8-bit, 1 channel; all 255 when the source had no transparency
	Format string   // Decoder name reported by image.Decode
	Opaque bool     // Every source pixel was fully opaque
}

// Load decodes the image at path and splits it into color and alpha planes.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	layer.Path = path
	layer.Format = format
	return layer, nil
}

// FromImage converts a decoded image into a Layer.
// Colors are kept as straight (non-premultiplied) values so that pixels hidden
// under zero alpha keep their color.
func FromImage(img image.Image) (*Layer, error) {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	rgba, err := gocv.NewMatFromBytes(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC4, nrgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap pixels: %w", err)
	}
	defer rgba.Close()

	layer := &Layer{
		Color:  gocv.NewMat(),
		Opaque: nrgba.Opaque(),
	}
	gocv.CvtColor(rgba, &layer.Color, gocv.ColorRGBAToBGR)

	planes := gocv.Split(rgba)
	for _, p := range planes[:3] {
		p.Close()
	}
	layer.Alpha = planes[3]

	// rgba borrows nrgba.Pix until the conversions above are done
	runtime.KeepAlive(nrgba)

	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	return l.Color.Cols()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	return l.Color.Rows()
}

// Close releases the color and alpha matrices.
func (l *Layer) Close() {
	l.Color.Close()
	l.Alpha.Close()
}

// SupportedFormats returns the list of file extensions Load can decode.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
