package mask

import (
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises an alpha channel.
type Stats struct {
	Pixels      int
	Opaque      int // value 255
	Transparent int // value 0
	Soft        int // anything in between

	Mean   float64
	StdDev float64
}

// Measure computes Stats for an 8-bit single-channel matrix.
func Measure(alpha gocv.Mat) Stats {
	if alpha.Empty() {
		return Stats{}
	}

	data := alpha.ToBytes()
	values := make([]float64, len(data))
	s := Stats{Pixels: len(data)}
	for i, v := range data {
		values[i] = float64(v)
		switch v {
		case 0:
			s.Transparent++
		case 255:
			s.Opaque++
		default:
			s.Soft++
		}
	}
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = stat.Mean(values, nil)
	}
	return s
}

// Coverage returns the fraction of fully opaque pixels.
func (s Stats) Coverage() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Opaque) / float64(s.Pixels)
}

// IsBinary reports whether every pixel is either 0 or 255.
func (s Stats) IsBinary() bool {
	return s.Soft == 0
}

func (s Stats) String() string {
	return fmt.Sprintf("%.1f%% opaque, %d soft, mean %.1f ± %.1f",
		s.Coverage()*100, s.Soft, s.Mean, s.StdDev)
}
