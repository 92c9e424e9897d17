package mask

import (
	"image"
	"image/color"

	"smooth-edges/pkg/geometry"

	"gocv.io/x/gocv"
)

const (
	// sharpKernelPad is added to strength to get the structuring element size.
	sharpKernelPad = 6
	// morphIterations applies to both the close and the open pass.
	morphIterations = 2
	// toleranceDivisor scales strength into a fraction of the contour perimeter.
	toleranceDivisor = 200.0
)

var fillWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// reconstructSharp cleans the alpha with close/open, keeps only the largest
// external contour and fills its polygon approximation. Disjoint smaller
// regions and interior holes are dropped.
func reconstructSharp(alpha gocv.Mat, strength int) *Result {
	size := strength + sharpKernelPad
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: size, Y: size})
	defer kernel.Close()

	// Close fills gaps and small holes, open removes specks and thin spurs
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyExWithParams(alpha, &closed, gocv.MorphClose, kernel, morphIterations, gocv.BorderConstant)

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyExWithParams(closed, &opened, gocv.MorphOpen, kernel, morphIterations, gocv.BorderConstant)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(opened, &binary, binaryThreshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		// Nothing left after cleanup: hand back the binarized opened mask
		return &Result{Mask: binary.Clone(), Fallback: true}
	}

	// First contour wins on equal area
	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best = i
			bestArea = area
		}
	}

	contour := contours.At(best)
	perimeter := gocv.ArcLength(contour, true)
	epsilon := float64(strength) / toleranceDivisor * perimeter

	approx := gocv.ApproxPolyDP(contour, epsilon, true)
	defer approx.Close()
	points := approx.ToPoints()

	polygons := gocv.NewPointsVectorFromPoints([][]image.Point{points})
	defer polygons.Close()

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), alpha.Rows(), alpha.Cols(), gocv.MatTypeCV8UC1)
	gocv.FillPoly(&out, polygons, fillWhite)

	return &Result{
		Mask:    out,
		Outline: geometry.FromImagePoints(points),
	}
}
