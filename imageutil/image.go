// Package imageutil provides the pure Go image processing primitives behind
// edgemap: a 3-channel raster buffer, separable Gaussian blur, gradient
// fields, non-maximum suppression and hysteresis thresholding.
package imageutil

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Channels is the number of interleaved 8-bit samples stored per pixel.
const Channels = 3

var (
	// ErrInvalidDimensions is returned when an image would have a zero or
	// negative width or height.
	ErrInvalidDimensions = errors.New("image dimensions must be positive")

	// ErrBufferSize is returned when a pixel buffer does not hold exactly
	// width*height*Channels samples.
	ErrBufferSize = errors.New("pixel buffer length does not match dimensions")
)

// Format tags the container an image was decoded from. Processing stages
// never look at it; they copy it to their output so the result can be
// written back the way it came in.
type Format string

const (
	FormatUnknown Format = ""
	FormatBMP     Format = "bmp"
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatGIF     Format = "gif"
	FormatTIFF    Format = "tiff"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Image is a raster buffer of interleaved 8-bit samples in B, G, R order,
// row-major and top-down. len(Pix) is always Width*Height*Channels.
//
// Every processing function in this package treats its input as read-only
// and returns a freshly allocated Image of the same dimensions.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
	Format Format
}

// NewImage creates a zeroed (black) image. Width and height must be
// positive; use NewImageFromPixels when the dimensions come from outside.
func NewImage(width, height int, format Format) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
		Format: format,
	}
}

// NewImageFromPixels wraps an existing B,G,R buffer after checking that it
// matches the given dimensions. The buffer is not copied.
func NewImageFromPixels(width, height int, pix []uint8, format Format) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if want := width * height * Channels; len(pix) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBufferSize, len(pix), want)
	}
	return &Image{Width: width, Height: height, Pix: pix, Format: format}, nil
}

// PixOffset returns the index of the first (blue) sample of pixel (x, y).
func (img *Image) PixOffset(x, y int) int {
	return (y*img.Width + x) * Channels
}

// GetRGB returns the color at (x, y).
func (img *Image) GetRGB(x, y int) RGB {
	i := img.PixOffset(x, y)
	return RGB{R: img.Pix[i+2], G: img.Pix[i+1], B: img.Pix[i]}
}

// SetRGB sets the color at (x, y).
func (img *Image) SetRGB(x, y int, c RGB) {
	i := img.PixOffset(x, y)
	img.Pix[i] = c.B
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.R
}

// GrayAt returns the first sample of (x, y). For grayscale-encoded images
// all three channels hold the same luma value.
func (img *Image) GrayAt(x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)]
}

// SetGray writes v into all three channels of (x, y).
func (img *Image) SetGray(x, y int, v uint8) {
	img.setGrayIndex(y*img.Width+x, v)
}

// setGrayIndex writes v into all three channels of the pixel with linear
// index idx (y*Width + x).
func (img *Image) setGrayIndex(idx int, v uint8) {
	i := idx * Channels
	img.Pix[i] = v
	img.Pix[i+1] = v
	img.Pix[i+2] = v
}

// Clone creates a deep copy of the image.
func (img *Image) Clone() *Image {
	clone := NewImage(img.Width, img.Height, img.Format)
	copy(clone.Pix, img.Pix)
	return clone
}

// ToRGBA converts the image to an opaque *image.RGBA.
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p := 0; p < img.Width*img.Height; p++ {
		s := p * Channels
		d := p * 4
		rgba.Pix[d] = img.Pix[s+2]
		rgba.Pix[d+1] = img.Pix[s+1]
		rgba.Pix[d+2] = img.Pix[s]
		rgba.Pix[d+3] = 255
	}
	return rgba
}

// ImageFromImage converts any image.Image to an Image tagged with format.
// Translucent pixels are flattened onto black.
func ImageFromImage(src image.Image, format Format) *Image {
	rgba := clone.AsRGBA(src)
	bounds := rgba.Bounds()
	img := NewImage(bounds.Dx(), bounds.Dy(), format)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			s := rgba.PixOffset(x, y)
			d := img.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)
			img.Pix[d] = rgba.Pix[s+2]
			img.Pix[d+1] = rgba.Pix[s+1]
			img.Pix[d+2] = rgba.Pix[s]
		}
	}
	return img
}

// SameSize reports whether a and b have identical dimensions.
func SameSize(a, b *Image) bool {
	return a.Width == b.Width && a.Height == b.Height
}
