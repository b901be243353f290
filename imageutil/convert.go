package imageutil

import "math"

// ToGrayscale converts an image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
// The luma value is replicated into all three channels so the result can
// feed the gradient stage, which reads a single channel.
func ToGrayscale(img *Image) *Image {
	gray := NewImage(img.Width, img.Height, img.Format)

	for p := 0; p < img.Width*img.Height; p++ {
		i := p * Channels
		b, g, r := float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])
		// Blue first, each product rounded on its own (no fused
		// multiply-add): some sums land just under .5 and round down
		lum := math.Round(float64(0.114*b) + float64(0.587*g) + float64(0.299*r))
		gray.setGrayIndex(p, uint8(min(lum, 255)))
	}

	return gray
}

// IsGrayscale reports whether every pixel has equal B, G and R samples.
func IsGrayscale(img *Image) bool {
	for i := 0; i < len(img.Pix); i += Channels {
		if img.Pix[i] != img.Pix[i+1] || img.Pix[i] != img.Pix[i+2] {
			return false
		}
	}
	return true
}
