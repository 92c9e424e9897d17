package image

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrDimensionMismatch is returned when color and mask do not line up.
var ErrDimensionMismatch = errors.New("color and mask dimensions differ")

// Composite blacks out color wherever mask is 0 and appends mask as the alpha
// channel. The result is a new 8-bit BGRA matrix owned by the caller; bgr and
// mask are left untouched.
func Composite(bgr, mask gocv.Mat) (gocv.Mat, error) {
	if bgr.Rows() != mask.Rows() || bgr.Cols() != mask.Cols() {
		return gocv.NewMat(), fmt.Errorf("%w: color %dx%d, mask %dx%d",
			ErrDimensionMismatch, bgr.Cols(), bgr.Rows(), mask.Cols(), mask.Rows())
	}
	if bgr.Type() != gocv.MatTypeCV8UC3 || mask.Type() != gocv.MatTypeCV8UC1 {
		return gocv.NewMat(), fmt.Errorf("%w: want 8-bit BGR and 8-bit single channel mask", ErrDimensionMismatch)
	}

	cleared := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), bgr.Rows(), bgr.Cols(), gocv.MatTypeCV8UC3)
	defer cleared.Close()
	bgr.CopyToWithMask(&cleared, mask)

	channels := gocv.Split(cleared)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	out := gocv.NewMat()
	gocv.Merge([]gocv.Mat{channels[0], channels[1], channels[2], mask}, &out)
	return out, nil
}
