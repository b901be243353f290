package edgemap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wbrown/edgemap/imageutil"
)

const maxParamsFileSize = 1 * 1024 * 1024 // 1MB

// ParamsFile is the on-disk form of a detection preset. Every field is
// optional; omitted fields keep whatever value they are applied over.
//
//	{"kernel_size": 5, "sigma": 1.4, "edge_kernel": "sobel", "lower": 50, "upper": 150}
type ParamsFile struct {
	KernelSize *int                  `json:"kernel_size,omitempty"`
	Sigma      *float64              `json:"sigma,omitempty"`
	EdgeKernel *imageutil.EdgeKernel `json:"edge_kernel,omitempty"`
	Lower      *uint8                `json:"lower,omitempty"`
	Upper      *uint8                `json:"upper,omitempty"`

	// AutoSpread, when set, turns on automatic thresholds.
	AutoSpread *float64 `json:"auto_spread,omitempty"`
	Width      *int     `json:"width,omitempty"`
}

// LoadParamsFile reads a preset from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadParamsFile(path string) (*ParamsFile, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("params file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat params file: %w", err)
	}
	if fileInfo.Size() > maxParamsFileSize {
		return nil, fmt.Errorf("params file too large: %d bytes (max %d)", fileInfo.Size(), maxParamsFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	f := &ParamsFile{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse params JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params file: %w", err)
	}
	return f, nil
}

// Validate checks the fields that can be judged on their own. Threshold
// order depends on the values the file is applied over and is checked by
// CannyParams.Validate afterwards.
func (f *ParamsFile) Validate() error {
	if f.KernelSize != nil && (*f.KernelSize < 1 || *f.KernelSize%2 == 0) {
		return fmt.Errorf("%w: %d", imageutil.ErrInvalidKernelSize, *f.KernelSize)
	}
	if f.Sigma != nil && !(*f.Sigma > 0) {
		return fmt.Errorf("%w: %g", imageutil.ErrInvalidSigma, *f.Sigma)
	}
	if f.AutoSpread != nil && !(*f.AutoSpread >= 0 && *f.AutoSpread < 1) {
		return fmt.Errorf("%w: %g", imageutil.ErrInvalidSpread, *f.AutoSpread)
	}
	if f.Width != nil && *f.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d", *f.Width)
	}
	return nil
}

// Apply returns base with every field set in f overridden.
func (f *ParamsFile) Apply(base imageutil.CannyParams) imageutil.CannyParams {
	if f.KernelSize != nil {
		base.KernelSize = *f.KernelSize
	}
	if f.Sigma != nil {
		base.Sigma = *f.Sigma
	}
	if f.EdgeKernel != nil {
		base.EdgeKernel = *f.EdgeKernel
	}
	if f.Lower != nil {
		base.Lower = *f.Lower
	}
	if f.Upper != nil {
		base.Upper = *f.Upper
	}
	return base
}

// LoadParams loads a preset and merges it over the default parameters.
func LoadParams(path string) (imageutil.CannyParams, error) {
	f, err := LoadParamsFile(path)
	if err != nil {
		return imageutil.CannyParams{}, err
	}
	params := f.Apply(imageutil.DefaultCannyParams())
	if err := params.Validate(); err != nil {
		return imageutil.CannyParams{}, fmt.Errorf("invalid params file: %w", err)
	}
	return params, nil
}
