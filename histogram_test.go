package edgemap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/edgemap/imageutil"
)

func TestWriteHistogramPNG(t *testing.T) {
	stages := detectStages(t, imageutil.CreateEdgeImage(64, 64))
	path := filepath.Join(t.TempDir(), "hist.png")

	require.NoError(t, WriteHistogram(stages.Field, 32, path, stages.Lower, stages.Upper))

	loaded, err := imageutil.LoadImage(path)
	require.NoError(t, err)
	assert.Greater(t, loaded.Width, loaded.Height)
}

func TestWriteHistogramSVG(t *testing.T) {
	field := imageutil.Gradients(imageutil.CreateEdgeImage(32, 32), imageutil.Sobel)
	path := filepath.Join(t.TempDir(), "hist.svg")

	require.NoError(t, WriteHistogram(field, 16, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<svg"))
}

func TestWriteHistogramErrors(t *testing.T) {
	dir := t.TempDir()

	tiny := imageutil.Gradients(imageutil.NewImage(2, 2, imageutil.FormatUnknown), imageutil.Sobel)
	err := WriteHistogram(tiny, 10, filepath.Join(dir, "tiny.png"))
	assert.ErrorIs(t, err, ErrEmptyField)

	field := imageutil.Gradients(imageutil.CreateEdgeImage(16, 16), imageutil.Sobel)
	assert.Error(t, WriteHistogram(field, 0, filepath.Join(dir, "zero.png")))
	assert.Error(t, WriteHistogram(field, 10, filepath.Join(dir, "hist.unknown")))
}
