package mask

import (
	"image"

	"gocv.io/x/gocv"
)

// binaryThreshold splits blurred or morphed alpha into 0 and 255.
const binaryThreshold = 127

// reconstructRound low-pass filters the alpha channel and re-binarizes it,
// which rounds corners and fills or trims detail smaller than the blur.
func reconstructRound(alpha gocv.Mat, strength int) *Result {
	// Blur in float so the threshold sees the unrounded averages
	floatAlpha := gocv.NewMat()
	defer floatAlpha.Close()
	alpha.ConvertTo(&floatAlpha, gocv.MatTypeCV32F)

	// Kernel size (0,0) lets OpenCV derive it from sigma
	sigma := float64(strength)
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(floatAlpha, &blurred, image.Point{}, sigma, sigma, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, binaryThreshold, 255, gocv.ThresholdBinary)

	out := gocv.NewMat()
	binary.ConvertTo(&out, gocv.MatTypeCV8U)

	return &Result{Mask: out}
}
