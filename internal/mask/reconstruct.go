package mask

import (
	"errors"
	"fmt"

	"smooth-edges/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	// ErrEmptyMask is returned when the alpha matrix has no pixels.
	ErrEmptyMask = errors.New("alpha mask is empty")
	// ErrNotSingleChannel is returned when the alpha matrix is not 8-bit single channel.
	ErrNotSingleChannel = errors.New("alpha mask must be 8-bit single channel")
)

// Result holds a reconstructed mask.
type Result struct {
	Mask gocv.Mat // 8-bit single channel, every value 0 or 255

	// Outline is the simplified polygon that was filled in sharp mode.
	// It is nil in round mode and when sharp mode fell back.
	Outline []geometry.PointInt

	// Fallback is set when sharp mode found no contour and returned the
	// thresholded, morphologically cleaned mask without polygon fill.
	Fallback bool
}

// Close releases the mask matrix.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	return r.Mask.Close()
}

// Reconstruct rebuilds alpha as a binary mask with the strategy selected by p.Mode.
// The input is not modified; the caller owns the returned Result.
func Reconstruct(alpha gocv.Mat, p Params) (*Result, error) {
	if alpha.Empty() {
		return nil, ErrEmptyMask
	}
	if alpha.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("%w (type %d)", ErrNotSingleChannel, int(alpha.Type()))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p.Mode {
	case ModeRound:
		return reconstructRound(alpha, p.Strength), nil
	case ModeSharp:
		return reconstructSharp(alpha, p.Strength), nil
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownMode, int(p.Mode))
}
