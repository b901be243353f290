package imageutil

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidSpread is returned by AutoThresholds for a spread outside [0, 1).
var ErrInvalidSpread = errors.New("threshold spread must be in [0, 1)")

// MagnitudeStats summarizes the computed (non-border) gradient magnitudes
// of a GradientField.
type MagnitudeStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	Max    float64
}

// Stats computes MagnitudeStats over the interior of the field.
func (f *GradientField) Stats() MagnitudeStats {
	values := f.Interior()
	if len(values) == 0 {
		return MagnitudeStats{}
	}
	slices.Sort(values)

	s := MagnitudeStats{
		Count:  len(values),
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		Max:    values[len(values)-1],
	}
	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

// AutoThresholds picks hysteresis thresholds from the median m of the
// non-zero samples of a suppressed magnitude image: lower = (1-spread)*m,
// upper = (1+spread)*m. A spread of 0.33 is a common choice.
//
// lower is kept at 1 or more so background pixels never join an edge, and
// upper is never below lower. An image with no ridges yields (255, 255).
func AutoThresholds(suppressed *Image, spread float64) (lower, upper uint8, err error) {
	if !(spread >= 0 && spread < 1) {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidSpread, spread)
	}

	var samples []float64
	for i := 0; i < len(suppressed.Pix); i += Channels {
		if v := suppressed.Pix[i]; v > 0 {
			samples = append(samples, float64(v))
		}
	}
	if len(samples) == 0 {
		return 255, 255, nil
	}

	slices.Sort(samples)
	median := stat.Quantile(0.5, stat.Empirical, samples, nil)

	lo := clampInt(int(math.Round((1-spread)*median)), 1, 255)
	hi := clampInt(int(math.Round((1+spread)*median)), lo, 255)
	return uint8(lo), uint8(hi), nil
}
