package edgemap

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/edgemap/imageutil"
)

func TestDetectMatchesCanny(t *testing.T) {
	img := imageutil.CreateEdgeImage(64, 64)
	params := imageutil.DefaultCannyParams()

	d, err := NewDetector(params)
	require.NoError(t, err)
	got, err := d.Detect(img)
	require.NoError(t, err)

	want, err := imageutil.Canny(imageutil.ToGrayscale(img), params)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detect differs from Canny (-want +got):\n%s", diff)
	}
}

func TestDetectStepBand(t *testing.T) {
	params := imageutil.CannyParams{KernelSize: 3, Sigma: 1.0, EdgeKernel: imageutil.Sobel, Lower: 50, Upper: 100}
	d, err := NewDetector(params)
	require.NoError(t, err)

	edges, err := d.Detect(imageutil.CreateStepImage(10, 10, 5, 0, 255))
	require.NoError(t, err)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := uint8(0)
			if y >= 1 && y <= 8 && x == 5 {
				want = 255
			}
			assert.Equal(t, want, edges.GrayAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestNewDetectorRejects(t *testing.T) {
	bad := imageutil.DefaultCannyParams()
	bad.Lower, bad.Upper = 120, 80
	_, err := NewDetector(bad)
	assert.ErrorIs(t, err, imageutil.ErrThresholdOrder)

	bad = imageutil.DefaultCannyParams()
	bad.KernelSize = 4
	_, err = NewDetector(bad)
	assert.ErrorIs(t, err, imageutil.ErrInvalidKernelSize)

	_, err = NewDetector(imageutil.DefaultCannyParams(), WithAutoThresholds(1.5))
	assert.ErrorIs(t, err, imageutil.ErrInvalidSpread)

	_, err = NewDetector(imageutil.DefaultCannyParams(), WithWidth(-1))
	assert.ErrorIs(t, err, imageutil.ErrInvalidDimensions)
}

func TestDetectStagesRejectsEmpty(t *testing.T) {
	d, err := NewDetector(imageutil.DefaultCannyParams())
	require.NoError(t, err)

	_, err = d.DetectStages(nil)
	assert.ErrorIs(t, err, imageutil.ErrInvalidDimensions)
}

func TestDetectStagesAutoThresholds(t *testing.T) {
	d, err := NewDetector(imageutil.DefaultCannyParams(), WithAutoThresholds(DefaultAutoSpread))
	require.NoError(t, err)

	stages, err := d.DetectStages(imageutil.CreateEdgeImage(64, 64))
	require.NoError(t, err)

	assert.LessOrEqual(t, stages.Lower, stages.Upper)
	assert.NotZero(t, imageutil.CountEdges(stages.Edges))

	// Edges are hysteresis of the suppressed stage at the reported thresholds
	want := imageutil.Hysteresis(stages.Suppressed, stages.Lower, stages.Upper)
	assert.Equal(t, want.Pix, stages.Edges.Pix)
}

func TestDetectStagesIntermediates(t *testing.T) {
	img := imageutil.CreateColorBarsImage(40, 20)
	d, err := NewDetector(imageutil.DefaultCannyParams())
	require.NoError(t, err)

	stages, err := d.DetectStages(img)
	require.NoError(t, err)

	assert.Same(t, img, stages.Input, "no resize requested")
	assert.True(t, imageutil.IsGrayscale(stages.Gray))
	for _, s := range []*imageutil.Image{stages.Gray, stages.Blurred, stages.Suppressed, stages.Edges, stages.Magnitude()} {
		assert.True(t, imageutil.SameSize(img, s))
	}
	assert.Equal(t, uint8(50), stages.Lower)
	assert.Equal(t, uint8(150), stages.Upper)
}

func TestStagesMagnitudeMatchesGradientMagnitude(t *testing.T) {
	stages := detectStages(t, imageutil.CreateCheckerboardImage(48, 32, 8))

	want := imageutil.GradientMagnitude(stages.Blurred, imageutil.DefaultCannyParams().EdgeKernel)
	assert.Equal(t, want.Pix, stages.Magnitude().Pix)
}

func TestDetectWidth(t *testing.T) {
	img := imageutil.CreateEdgeImage(128, 64)

	d, err := NewDetector(imageutil.DefaultCannyParams(), WithWidth(32))
	require.NoError(t, err)
	edges, err := d.Detect(img)
	require.NoError(t, err)
	assert.Equal(t, 32, edges.Width)
	assert.Equal(t, 16, edges.Height)

	// Supersampled detection keeps the target size
	d, err = NewDetector(imageutil.DefaultCannyParams(), WithWidth(32), WithSupersample(4))
	require.NoError(t, err)
	edges, err = d.Detect(img)
	require.NoError(t, err)
	assert.Equal(t, 32, edges.Width)
	assert.Equal(t, 16, edges.Height)
	assert.NotZero(t, imageutil.CountEdges(edges))
}

func TestDetectorLogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	d, err := NewDetector(imageutil.DefaultCannyParams(), WithLogger(logger), WithWidth(32))
	require.NoError(t, err)
	_, err = d.Detect(imageutil.CreateEdgeImage(64, 64))
	require.NoError(t, err)

	var stages []string
	var summary map[string]any
	dec := json.NewDecoder(&buf)
	for {
		var entry map[string]any
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if stage, ok := entry["stage"].(string); ok {
			assert.Equal(t, "debug", entry["level"])
			assert.Contains(t, entry, "elapsed")
			stages = append(stages, stage)
		}
		if entry["message"] == "edges detected" {
			summary = entry
		}
	}

	assert.Equal(t, []string{"resize", "grayscale", "blur", "gradient", "suppress", "hysteresis"}, stages)
	require.NotNil(t, summary)
	assert.Equal(t, "info", summary["level"])
	assert.EqualValues(t, 32, summary["width"])
	assert.EqualValues(t, 50, summary["lower"])
	assert.EqualValues(t, 150, summary["upper"])
}

func TestDetectorInfoLevelHidesStages(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	d, err := NewDetector(imageutil.DefaultCannyParams(), WithLogger(logger))
	require.NoError(t, err)
	_, err = d.Detect(imageutil.CreateEdgeImage(16, 16))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), `"stage"`)
	assert.Contains(t, buf.String(), "edges detected")
}

func TestDetectorWarnsIgnoredSupersample(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"auto", []Option{WithWidth(16), WithSupersample(4), WithAutoThresholds(DefaultAutoSpread)}, "supersampling is ignored with automatic thresholds"},
		{"no width", []Option{WithSupersample(2)}, "supersampling is ignored without a target width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := append([]Option{WithLogger(zerolog.New(&buf))}, tt.opts...)
			_, err := NewDetector(imageutil.DefaultCannyParams(), opts...)
			require.NoError(t, err)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "warn", entry["level"])
			assert.Equal(t, tt.want, entry["message"])
		})
	}

	// Staged detection warns on every call, plain detection stays quiet
	var buf bytes.Buffer
	d, err := NewDetector(imageutil.DefaultCannyParams(),
		WithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)), WithWidth(16), WithSupersample(2))
	require.NoError(t, err)
	assert.Zero(t, buf.Len())

	_, err = d.Detect(imageutil.CreateEdgeImage(32, 32))
	require.NoError(t, err)
	assert.Zero(t, buf.Len())

	_, err = d.DetectStages(imageutil.CreateEdgeImage(32, 32))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "supersampling is not applied to staged detection")
}
