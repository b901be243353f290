package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wbrown/edgemap"
	"github.com/wbrown/edgemap/imageutil"
)

const histogramBins = 64

var errUsage = errors.New("usage")

type config struct {
	input       string
	output      string
	paramsPath  string
	sheetPath   string
	histPath    string
	blurOnly    bool
	verbose     bool
	width       int
	supersample int
	auto        bool
	spread      float64
	params      imageutil.CannyParams
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("edgemap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := imageutil.DefaultCannyParams()
	input := fs.String("input", "",
		"Path to the input image file (required)")
	output := fs.String("output", "",
		"Path to save the edge map (default: <input>_edges.<ext>)")
	paramsPath := fs.String("params", "",
		"JSON preset with kernel_size, sigma, edge_kernel, lower, upper, auto_spread, width")
	size := fs.Int("size", defaults.KernelSize,
		"Gaussian kernel size (odd)")
	sigma := fs.Float64("sigma", defaults.Sigma,
		"Gaussian sigma")
	kernel := fs.String("kernel", defaults.EdgeKernel.String(),
		"Edge kernel: sobel, prewitt, or roberts")
	lower := fs.Uint("lower", uint(defaults.Lower),
		"Lower hysteresis threshold (0-255)")
	upper := fs.Uint("upper", uint(defaults.Upper),
		"Upper hysteresis threshold (0-255)")
	auto := fs.Bool("auto", false,
		"Pick thresholds from the median ridge strength instead of -lower/-upper")
	spread := fs.Float64("spread", edgemap.DefaultAutoSpread,
		"Threshold spread around the median for -auto")
	width := fs.Int("width", 0,
		"Downscale wider images to this width before detection (0 keeps size)")
	supersample := fs.Int("supersample", 0,
		"Detect at this multiple of -width and scale the edges down")
	sheetPath := fs.String("sheet", "",
		"Also write a contact sheet of every stage to this path")
	histPath := fs.String("histogram", "",
		"Also write a gradient magnitude histogram to this path (.png, .svg, .pdf)")
	blurOnly := fs.Bool("blur-only", false,
		"Only apply the Gaussian blur and write the blurred image")
	verbose := fs.Bool("v", false,
		"Log every stage")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *input == "" {
		fmt.Fprintln(stderr, "Please provide the image using the -input flag")
		fs.PrintDefaults()
		return nil, errUsage
	}

	cfg := &config{
		input:       *input,
		output:      *output,
		paramsPath:  *paramsPath,
		sheetPath:   *sheetPath,
		histPath:    *histPath,
		blurOnly:    *blurOnly,
		verbose:     *verbose,
		width:       *width,
		supersample: *supersample,
		spread:      *spread,
		params:      defaults,
	}

	// Preset first, then flags given on the command line win
	if cfg.paramsPath != "" {
		f, err := edgemap.LoadParamsFile(cfg.paramsPath)
		if err != nil {
			return nil, err
		}
		cfg.params = f.Apply(cfg.params)
		if f.AutoSpread != nil {
			cfg.auto = true
			cfg.spread = *f.AutoSpread
		}
		if f.Width != nil {
			cfg.width = *f.Width
		}
	}

	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.params.KernelSize = *size
		case "sigma":
			cfg.params.Sigma = *sigma
		case "kernel":
			k, err := imageutil.ParseEdgeKernel(*kernel)
			if err != nil {
				visitErr = errors.Join(visitErr, err)
			}
			cfg.params.EdgeKernel = k
		case "lower":
			v, err := threshold("lower", *lower)
			visitErr = errors.Join(visitErr, err)
			cfg.params.Lower = v
		case "upper":
			v, err := threshold("upper", *upper)
			visitErr = errors.Join(visitErr, err)
			cfg.params.Upper = v
		case "auto":
			cfg.auto = *auto
		case "spread":
			cfg.spread = *spread
		case "width":
			cfg.width = *width
		}
	})
	if visitErr != nil {
		return nil, visitErr
	}

	if cfg.output == "" {
		cfg.output = defaultOutput(cfg.input, cfg.blurOnly)
	}
	return cfg, nil
}

func threshold(name string, v uint) (uint8, error) {
	if v > 255 {
		return 0, fmt.Errorf("-%s must be between 0 and 255, got %d", name, v)
	}
	return uint8(v), nil
}

func defaultOutput(input string, blurOnly bool) string {
	ext := filepath.Ext(input)
	suffix := "_edges"
	if blurOnly {
		suffix = "_blurred"
	}
	return strings.TrimSuffix(input, ext) + suffix + ext
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
}

func run(cfg *config, logger zerolog.Logger) error {
	start := time.Now()

	img, err := imageutil.LoadImage(cfg.input)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("input", cfg.input).
		Str("format", string(img.Format)).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("image loaded")

	if cfg.blurOnly {
		blurred, err := imageutil.GaussianBlur(imageutil.Downscale(img, cfg.width), cfg.params.KernelSize, cfg.params.Sigma)
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(blurred, cfg.output); err != nil {
			return err
		}
		logger.Info().Str("output", cfg.output).Dur("elapsed", time.Since(start)).Msg("blurred image written")
		return nil
	}

	opts := []edgemap.Option{
		edgemap.WithLogger(logger),
		edgemap.WithWidth(cfg.width),
		edgemap.WithSupersample(cfg.supersample),
	}
	if cfg.auto {
		opts = append(opts, edgemap.WithAutoThresholds(cfg.spread))
	}
	detector, err := edgemap.NewDetector(cfg.params, opts...)
	if err != nil {
		return err
	}

	var edges *imageutil.Image
	if cfg.sheetPath != "" || cfg.histPath != "" {
		stages, err := detector.DetectStages(img)
		if err != nil {
			return err
		}
		edges = stages.Edges

		if cfg.sheetPath != "" {
			if err := edgemap.SaveSheet(stages.Panels(), 0, cfg.sheetPath); err != nil {
				return fmt.Errorf("failed to write sheet: %w", err)
			}
			logger.Info().Str("sheet", cfg.sheetPath).Msg("contact sheet written")
		}
		if cfg.histPath != "" {
			if err := edgemap.WriteHistogram(stages.Field, histogramBins, cfg.histPath, stages.Lower, stages.Upper); err != nil {
				return err
			}
			logger.Info().Str("histogram", cfg.histPath).Msg("histogram written")
		}
	} else {
		edges, err = detector.Detect(img)
		if err != nil {
			return err
		}
	}

	if err := imageutil.SaveImage(edges, cfg.output); err != nil {
		return err
	}
	logger.Info().
		Str("output", cfg.output).
		Dur("elapsed", time.Since(start)).
		Msg("edge map written")
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(2)
	}

	logger := newLogger(os.Stderr, cfg.verbose)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("edge detection failed")
	}
}
