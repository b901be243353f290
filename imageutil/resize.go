package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality. Keeps binary edge maps binary.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		// CatmullRom provides high quality for both up and down scaling
		return draw.CatmullRom
	}
}

// Resize resizes an image to the specified dimensions using the given
// interpolation method. The Format tag is preserved.
func Resize(img *Image, width, height int, interp Interpolation) *Image {
	if width == img.Width && height == img.Height {
		return img.Clone()
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := img.ToRGBA()
	interp.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return ImageFromImage(dst, img.Format)
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio. The height never drops below one pixel.
func ResizeToWidth(img *Image, width int, interp Interpolation) *Image {
	aspectRatio := float64(img.Width) / float64(img.Height)
	height := int(float64(width) / aspectRatio)
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}
