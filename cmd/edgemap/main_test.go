package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/edgemap/imageutil"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags([]string{"-input", "photo.bmp"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, imageutil.DefaultCannyParams(), cfg.params)
	assert.Equal(t, "photo_edges.bmp", cfg.output)
	assert.False(t, cfg.auto)
}

func TestParseFlagsRequiresInput(t *testing.T) {
	_, err := parseFlags(nil, io.Discard)
	assert.ErrorIs(t, err, errUsage)
}

func TestParseFlagsOverridePreset(t *testing.T) {
	preset := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(preset,
		[]byte(`{"kernel_size": 7, "sigma": 2.5, "lower": 10, "upper": 90, "auto_spread": 0.2, "width": 64}`), 0644))

	cfg, err := parseFlags([]string{
		"-input", "in.png",
		"-params", preset,
		"-sigma", "0.8",
		"-kernel", "Roberts",
		"-upper", "120",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, imageutil.CannyParams{
		KernelSize: 7,
		Sigma:      0.8,
		EdgeKernel: imageutil.Roberts,
		Lower:      10,
		Upper:      120,
	}, cfg.params)
	assert.True(t, cfg.auto)
	assert.Equal(t, 0.2, cfg.spread)
	assert.Equal(t, 64, cfg.width)
}

func TestParseFlagsRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-input", "a.bmp", "-kernel", "laplace"},
		{"-input", "a.bmp", "-lower", "256"},
		{"-input", "a.bmp", "-params", "missing.json"},
		{"-input", "a.bmp", "-nope"},
	} {
		_, err := parseFlags(args, io.Discard)
		assert.Error(t, err, "%v", args)
	}
}

func TestRunWritesEdgesSheetAndHistogram(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.bmp")
	require.NoError(t, imageutil.SaveImage(imageutil.CreateEdgeImage(64, 64), input))

	cfg, err := parseFlags([]string{
		"-input", input,
		"-sheet", filepath.Join(dir, "sheet.png"),
		"-histogram", filepath.Join(dir, "hist.svg"),
		"-auto",
	}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, run(cfg, zerolog.Nop()))

	edges, err := imageutil.LoadImage(filepath.Join(dir, "in_edges.bmp"))
	require.NoError(t, err)
	assert.Equal(t, imageutil.FormatBMP, edges.Format)
	assert.Equal(t, 64, edges.Width)
	assert.NotZero(t, imageutil.CountEdges(edges))

	assert.FileExists(t, filepath.Join(dir, "sheet.png"))
	assert.FileExists(t, filepath.Join(dir, "hist.svg"))
}

func TestRunBlurOnly(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flat.png")
	flat := imageutil.CreateSolidImage(16, 16, imageutil.RGB{R: 10, G: 120, B: 240})
	require.NoError(t, imageutil.SaveImage(flat, input))

	cfg, err := parseFlags([]string{"-input", input, "-blur-only", "-size", "7", "-sigma", "2"}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, run(cfg, zerolog.Nop()))

	blurred, err := imageutil.LoadImage(filepath.Join(dir, "flat_blurred.png"))
	require.NoError(t, err)
	assert.Equal(t, flat.Pix, blurred.Pix, "flat image survives the blur")
}

func TestRunMissingInput(t *testing.T) {
	cfg, err := parseFlags([]string{"-input", filepath.Join(t.TempDir(), "none.bmp")}, io.Discard)
	require.NoError(t, err)
	assert.ErrorIs(t, run(cfg, zerolog.Nop()), os.ErrNotExist)
}
