// Package edgemap turns decoded raster images into Canny edge maps.
//
// The heavy lifting lives in the imageutil package; a Detector strings
// the stages together, picks thresholds and reports what it did through
// a zerolog.Logger.
package edgemap

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wbrown/edgemap/imageutil"
)

// DefaultAutoSpread is the threshold spread used by WithAutoThresholds
// when the caller has no better value.
const DefaultAutoSpread = 0.33

// Detector runs Canny edge detection with a fixed set of parameters.
// A Detector holds no per-run state and may be used from several
// goroutines at once.
type Detector struct {
	params      imageutil.CannyParams
	auto        bool
	spread      float64
	width       int
	supersample int
	logger      zerolog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger. Stage timings are logged at Debug level
// and a per-image summary at Info level.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithAutoThresholds derives the hysteresis thresholds from each image
// instead of using the fixed Lower and Upper parameters.
// See imageutil.AutoThresholds.
func WithAutoThresholds(spread float64) Option {
	return func(d *Detector) {
		d.auto = true
		d.spread = spread
	}
}

// WithWidth downscales wider images to width pixels before detection.
func WithWidth(width int) Option {
	return func(d *Detector) {
		d.width = width
	}
}

// WithSupersample makes Detect run Canny at factor times the target
// width and scale the edge map down afterwards. It has no effect
// without WithWidth or together with WithAutoThresholds, and
// NewDetector logs a warning in those cases.
func WithSupersample(factor int) Option {
	return func(d *Detector) {
		d.supersample = factor
	}
}

// NewDetector validates params and returns a Detector using them.
func NewDetector(params imageutil.CannyParams, opts ...Option) (*Detector, error) {
	d := &Detector{
		params: params,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid canny parameters: %w", err)
	}
	if d.auto && !(d.spread >= 0 && d.spread < 1) {
		return nil, fmt.Errorf("%w: %g", imageutil.ErrInvalidSpread, d.spread)
	}
	if d.width < 0 {
		return nil, fmt.Errorf("%w: width %d", imageutil.ErrInvalidDimensions, d.width)
	}

	if d.supersample >= 2 {
		switch {
		case d.auto:
			d.logger.Warn().Int("supersample", d.supersample).Msg("supersampling is ignored with automatic thresholds")
		case d.width == 0:
			d.logger.Warn().Int("supersample", d.supersample).Msg("supersampling is ignored without a target width")
		}
	}
	return d, nil
}

// Stages holds every intermediate image of a detection run.
type Stages struct {
	// Input is the image after the optional downscale, still in color.
	Input *imageutil.Image
	Gray  *imageutil.Image
	imageutil.CannyStages

	// Lower and Upper are the hysteresis thresholds actually applied.
	Lower uint8
	Upper uint8
}

// Magnitude renders the gradient field as an 8-bit image.
func (s *Stages) Magnitude() *imageutil.Image {
	return s.Field.MagnitudeImage(s.Gray.Format)
}

// Detect returns the binary edge map of img.
func (d *Detector) Detect(img *imageutil.Image) (*imageutil.Image, error) {
	if img != nil && d.supersample >= 2 && d.width > 0 && d.width < img.Width && !d.auto {
		return d.detectSupersampled(img)
	}
	stages, err := d.detectStages(img)
	if err != nil {
		return nil, err
	}
	return stages.Edges, nil
}

func (d *Detector) detectSupersampled(img *imageutil.Image) (*imageutil.Image, error) {
	start := time.Now()
	height := max(1, img.Height*d.width/img.Width)
	edges, err := imageutil.DetectEdgesSupersampled(img, d.width, height, d.supersample, d.params)
	if err != nil {
		return nil, err
	}
	d.logger.Info().
		Int("width", edges.Width).
		Int("height", edges.Height).
		Int("supersample", d.supersample).
		Int("edges", imageutil.CountEdges(edges)).
		Dur("elapsed", time.Since(start)).
		Msg("edges detected")
	return edges, nil
}

// DetectStages runs the full pipeline and keeps every intermediate image.
// Supersampling is not applied here.
func (d *Detector) DetectStages(img *imageutil.Image) (*Stages, error) {
	if d.supersample >= 2 {
		d.logger.Warn().Int("supersample", d.supersample).Msg("supersampling is not applied to staged detection")
	}
	return d.detectStages(img)
}

func (d *Detector) detectStages(img *imageutil.Image) (*Stages, error) {
	if img == nil || img.Width < 1 || img.Height < 1 {
		return nil, imageutil.ErrInvalidDimensions
	}
	start := time.Now()
	s := &Stages{Input: img}

	step := time.Now()
	if s.Input = imageutil.Downscale(img, d.width); s.Input != img {
		d.stageDone("resize", step)
	}

	step = time.Now()
	s.Gray = imageutil.ToGrayscale(s.Input)
	d.stageDone("grayscale", step)

	step = time.Now()
	blurred, err := imageutil.GaussianBlur(s.Gray, d.params.KernelSize, d.params.Sigma)
	if err != nil {
		return nil, fmt.Errorf("failed to blur: %w", err)
	}
	s.Blurred = blurred
	d.stageDone("blur", step)

	step = time.Now()
	s.Field = imageutil.Gradients(s.Blurred, d.params.EdgeKernel)
	d.stageDone("gradient", step)

	step = time.Now()
	s.Suppressed = imageutil.Suppress(s.Field, s.Blurred.Format)
	d.stageDone("suppress", step)

	s.Lower, s.Upper = d.params.Lower, d.params.Upper
	if d.auto {
		s.Lower, s.Upper, err = imageutil.AutoThresholds(s.Suppressed, d.spread)
		if err != nil {
			return nil, fmt.Errorf("failed to pick thresholds: %w", err)
		}
	}

	step = time.Now()
	s.Edges = imageutil.Hysteresis(s.Suppressed, s.Lower, s.Upper)
	d.stageDone("hysteresis", step)

	d.logger.Info().
		Int("width", s.Edges.Width).
		Int("height", s.Edges.Height).
		Uint8("lower", s.Lower).
		Uint8("upper", s.Upper).
		Bool("auto", d.auto).
		Int("edges", imageutil.CountEdges(s.Edges)).
		Dur("elapsed", time.Since(start)).
		Msg("edges detected")
	return s, nil
}

func (d *Detector) stageDone(stage string, start time.Time) {
	d.logger.Debug().
		Str("stage", stage).
		Dur("elapsed", time.Since(start)).
		Msg("stage complete")
}
