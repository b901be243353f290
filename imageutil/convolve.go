package imageutil

// ConvolveRows convolves every row of img with a 1-D kernel. Each channel
// is filtered independently. Samples beyond the left and right borders are
// replaced by the nearest edge pixel. Sums are clamped to [0, 255] and
// truncated toward zero.
func ConvolveRows(img *Image, kernel []float64) *Image {
	return convolveAxis(img, kernel, true)
}

// ConvolveColumns is ConvolveRows applied along the vertical axis.
func ConvolveColumns(img *Image, kernel []float64) *Image {
	return convolveAxis(img, kernel, false)
}

func convolveAxis(img *Image, kernel []float64, horizontal bool) *Image {
	width, height := img.Width, img.Height
	dst := NewImage(width, height, img.Format)
	mid := len(kernel) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumB, sumG, sumR float64

			for k, w := range kernel {
				// Source pixel coordinates with border replication
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k-mid, 0, width-1)
				} else {
					sy = clampInt(y+k-mid, 0, height-1)
				}

				i := img.PixOffset(sx, sy)
				sumB += float64(img.Pix[i]) * w
				sumG += float64(img.Pix[i+1]) * w
				sumR += float64(img.Pix[i+2]) * w
			}

			o := dst.PixOffset(x, y)
			dst.Pix[o] = clampUint8(sumB)
			dst.Pix[o+1] = clampUint8(sumG)
			dst.Pix[o+2] = clampUint8(sumR)
		}
	}

	return dst
}

// GaussianBlur blurs img with a size×size Gaussian, done as a horizontal
// pass followed by a vertical pass with the same 1-D kernel.
func GaussianBlur(img *Image, size int, sigma float64) (*Image, error) {
	kernel, err := GaussianKernel(size, sigma)
	if err != nil {
		return nil, err
	}
	return ConvolveColumns(ConvolveRows(img, kernel), kernel), nil
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and truncates it to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
