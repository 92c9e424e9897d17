// Package mask rebuilds the alpha channel of an image as a strictly binary mask.
package mask

import (
	"errors"
	"fmt"
)

// Mode selects the edge-cleanup strategy.
type Mode int

const (
	ModeRound Mode = iota // Gaussian blur then threshold: curved edges
	ModeSharp             // Morphology, largest contour, polygon fill: angular edges
)

// ErrUnknownMode is returned when a mode name is not recognised.
var ErrUnknownMode = errors.New("unknown mode")

func (m Mode) String() string {
	switch m {
	case ModeRound:
		return "round"
	case ModeSharp:
		return "sharp"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name into a Mode. Only the exact lowercase names
// "round" and "sharp" are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "round":
		return ModeRound, nil
	case "sharp":
		return ModeSharp, nil
	}
	return ModeRound, fmt.Errorf("%w %q (want round or sharp)", ErrUnknownMode, s)
}

// Set implements flag.Value.
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DefaultStrength returns the strength used when none is given on the command line.
func DefaultStrength(m Mode) int {
	if m == ModeSharp {
		return 5
	}
	return 12
}

// Params controls a single reconstruction.
//
// Strength is the Gaussian sigma in round mode. In sharp mode the structuring
// element is (Strength+6) pixels wide and the polygon tolerance is
// Strength/200 of the contour perimeter.
type Params struct {
	Mode     Mode
	Strength int
}

// DefaultParams returns params for the mode with its default strength.
func DefaultParams(m Mode) Params {
	return Params{Mode: m, Strength: DefaultStrength(m)}
}

// WithStrength returns a copy of params with a custom strength.
func (p Params) WithStrength(strength int) Params {
	p.Strength = strength
	return p
}

// Validate reports params OpenCV cannot run with.
func (p Params) Validate() error {
	switch p.Mode {
	case ModeRound:
		// sigma 0 with an auto-sized kernel has no defined blur
		if p.Strength < 1 {
			return fmt.Errorf("round strength must be at least 1, got %d", p.Strength)
		}
	case ModeSharp:
		if p.Strength < 0 {
			return fmt.Errorf("sharp strength must not be negative, got %d", p.Strength)
		}
	default:
		return fmt.Errorf("%w %d", ErrUnknownMode, int(p.Mode))
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("mode=%s, strength=%d", p.Mode, p.Strength)
}
