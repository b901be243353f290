package edgemap

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/wbrown/edgemap/imageutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyField is returned when a gradient field has no computed pixels,
// which happens for images no wider or taller than the kernel.
var ErrEmptyField = errors.New("gradient field has no interior pixels")

var thresholdColor = color.RGBA{R: 200, G: 40, B: 40, A: 255}

// WriteHistogram plots the distribution of interior gradient magnitudes
// of field into bins buckets and saves it to path. The image format
// follows the extension (.png, .svg, .pdf, ...). Any thresholds given are
// drawn as dashed vertical lines.
func WriteHistogram(field *imageutil.GradientField, bins int, path string, thresholds ...uint8) error {
	values := field.Interior()
	if len(values) == 0 {
		return ErrEmptyField
	}
	if bins < 1 {
		return fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}

	p := plot.New()
	p.Title.Text = "Gradient magnitude"
	p.X.Label.Text = "magnitude"
	p.Y.Label.Text = "pixels"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	var peak float64
	for _, b := range h.Bins {
		peak = max(peak, b.Weight)
	}
	for _, t := range thresholds {
		line, err := plotter.NewLine(plotter.XYs{
			{X: float64(t), Y: 0},
			{X: float64(t), Y: peak},
		})
		if err != nil {
			return fmt.Errorf("failed to build threshold line: %w", err)
		}
		line.Color = thresholdColor
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
