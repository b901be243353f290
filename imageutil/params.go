package imageutil

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidKernelSize is returned for a Gaussian kernel size that is
	// not a positive odd integer.
	ErrInvalidKernelSize = errors.New("kernel size must be a positive odd integer")

	// ErrInvalidSigma is returned for a non-positive or non-finite sigma.
	ErrInvalidSigma = errors.New("sigma must be a positive finite number")

	// ErrThresholdOrder is returned when the lower hysteresis threshold is
	// above the upper one.
	ErrThresholdOrder = errors.New("lower threshold exceeds upper threshold")

	// ErrUnknownEdgeKernel is returned for an EdgeKernel outside the
	// built-in set.
	ErrUnknownEdgeKernel = errors.New("unknown edge kernel")
)

// CannyParams holds everything Canny needs besides the image.
// Typical values: KernelSize=5, Sigma=1.4, Lower=50, Upper=150.
type CannyParams struct {
	KernelSize int        `json:"kernel_size"`
	Sigma      float64    `json:"sigma"`
	EdgeKernel EdgeKernel `json:"edge_kernel"`
	Lower      uint8      `json:"lower"`
	Upper      uint8      `json:"upper"`
}

// DefaultCannyParams returns the parameters used when the caller does not
// supply any.
func DefaultCannyParams() CannyParams {
	return CannyParams{
		KernelSize: 5,
		Sigma:      1.4,
		EdgeKernel: Sobel,
		Lower:      50,
		Upper:      150,
	}
}

// Validate checks the parameters. The processing stages assume valid input
// and do not re-check, so callers should validate once at the boundary.
func (p CannyParams) Validate() error {
	if err := validateBlur(p.KernelSize, p.Sigma); err != nil {
		return err
	}
	if !p.EdgeKernel.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownEdgeKernel, int(p.EdgeKernel))
	}
	if p.Lower > p.Upper {
		return fmt.Errorf("%w: %d > %d", ErrThresholdOrder, p.Lower, p.Upper)
	}
	return nil
}

func validateBlur(size int, sigma float64) error {
	if size < 1 || size%2 == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKernelSize, size)
	}
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return fmt.Errorf("%w: %g", ErrInvalidSigma, sigma)
	}
	return nil
}
