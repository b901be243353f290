package imageutil

import (
	"fmt"
	"math"
	"strings"
)

// EdgeKernel selects one of the built-in directional derivative kernel
// pairs used to compute image gradients.
type EdgeKernel int

const (
	// Sobel is the 3x3 pair with a doubled centre row/column.
	Sobel EdgeKernel = iota
	// Prewitt is a 3x3 pair with uniform weights. Its X grid differences
	// rows and its Y grid differences columns, the reverse of Sobel.
	Prewitt
	// Roberts is the 2x2 diagonal cross pair.
	Roberts
)

// DirectionalKernel is an x/y derivative pair stored row-major as
// Size*Size integer coefficients.
type DirectionalKernel struct {
	X    []int
	Y    []int
	Size int
}

var (
	sobelKernel = DirectionalKernel{
		X: []int{
			-1, 0, 1,
			-2, 0, 2,
			-1, 0, 1,
		},
		Y: []int{
			-1, -2, -1,
			0, 0, 0,
			1, 2, 1,
		},
		Size: 3,
	}

	prewittKernel = DirectionalKernel{
		X: []int{
			1, 1, 1,
			0, 0, 0,
			-1, -1, -1,
		},
		Y: []int{
			1, 0, -1,
			1, 0, -1,
			1, 0, -1,
		},
		Size: 3,
	}

	robertsKernel = DirectionalKernel{
		X: []int{
			1, 0,
			0, -1,
		},
		Y: []int{
			0, 1,
			-1, 0,
		},
		Size: 2,
	}
)

var edgeKernelNames = map[EdgeKernel]string{
	Sobel:   "sobel",
	Prewitt: "prewitt",
	Roberts: "roberts",
}

// Valid reports whether k is one of the built-in kernels.
func (k EdgeKernel) Valid() bool {
	_, ok := edgeKernelNames[k]
	return ok
}

// Kernel returns the coefficient tables for k. It panics for kernels that
// are not Valid.
func (k EdgeKernel) Kernel() DirectionalKernel {
	switch k {
	case Sobel:
		return sobelKernel
	case Prewitt:
		return prewittKernel
	case Roberts:
		return robertsKernel
	}
	panic(fmt.Sprintf("imageutil: unknown edge kernel %d", int(k)))
}

// Radius is the width of the border, in pixels, that the gradient stage
// leaves unprocessed for this kernel.
func (k EdgeKernel) Radius() int {
	return k.Kernel().Size / 2
}

func (k EdgeKernel) String() string {
	if name, ok := edgeKernelNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EdgeKernel(%d)", int(k))
}

// ParseEdgeKernel looks up a kernel by its case-insensitive name.
func ParseEdgeKernel(name string) (EdgeKernel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range edgeKernelNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEdgeKernel, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k EdgeKernel) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEdgeKernel, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EdgeKernel) UnmarshalText(text []byte) error {
	parsed, err := ParseEdgeKernel(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// GradientField holds per-pixel gradient magnitude and direction. Angles
// are in degrees within [0, 180]. Pixels closer than Radius to any border
// are never computed and stay 0.
type GradientField struct {
	Width     int
	Height    int
	Radius    int
	Magnitude []float64
	Angle     []float64
}

// At returns the magnitude and angle at (x, y).
func (f *GradientField) At(x, y int) (magnitude, angle float64) {
	i := y*f.Width + x
	return f.Magnitude[i], f.Angle[i]
}

// Interior returns the magnitudes of the computed (non-border) pixels in
// row-major order.
func (f *GradientField) Interior() []float64 {
	var values []float64
	if f.Width <= 2*f.Radius {
		return values
	}
	for y := f.Radius; y < f.Height-f.Radius; y++ {
		row := y * f.Width
		values = append(values, f.Magnitude[row+f.Radius:row+f.Width-f.Radius]...)
	}
	return values
}

// Gradients computes the gradient field of a grayscale-encoded image with
// the given kernel pair. Only the first channel of each pixel is read.
func Gradients(img *Image, kernel EdgeKernel) *GradientField {
	width, height := img.Width, img.Height
	dk := kernel.Kernel()
	k := dk.Size
	radius := k / 2

	field := &GradientField{
		Width:     width,
		Height:    height,
		Radius:    radius,
		Magnitude: make([]float64, width*height),
		Angle:     make([]float64, width*height),
	}

	for y := radius; y < height-radius; y++ {
		for x := radius; x < width-radius; x++ {
			var gx, gy int
			for dy := 0; dy < k; dy++ {
				for dx := 0; dx < k; dx++ {
					gray := int(img.GrayAt(x+dx-radius, y+dy-radius))
					w := dy*k + dx
					gx += dk.X[w] * gray
					gy += dk.Y[w] * gray
				}
			}

			idx := y*width + x
			field.Magnitude[idx] = math.Sqrt(float64(gx*gx + gy*gy))
			angle := math.Atan2(float64(gy), float64(gx)) * 180.0 / math.Pi
			if angle < 0 {
				angle += 180
			}
			field.Angle[idx] = angle
		}
	}

	return field
}

// MagnitudeImage renders the field as an 8-bit grayscale image. Magnitudes
// are truncated and saturate at 255, the same way Suppress writes them.
func (f *GradientField) MagnitudeImage(format Format) *Image {
	out := NewImage(f.Width, f.Height, format)
	for i, mag := range f.Magnitude {
		out.setGrayIndex(i, saturateUint8(mag))
	}
	return out
}

// GradientMagnitude renders the gradient magnitude of img as an 8-bit
// grayscale image, saturated at 255.
func GradientMagnitude(img *Image, kernel EdgeKernel) *Image {
	return Gradients(img, kernel).MagnitudeImage(img.Format)
}
