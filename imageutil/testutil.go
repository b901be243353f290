package imageutil

import "math"

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *Image {
	img := NewImage(width, height, FormatUnknown)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, uint8(255*x/(width-1)))
		}
	}
	return img
}

// CreateCheckerboardImage creates a checkerboard pattern for edge testing.
func CreateCheckerboardImage(width, height, squareSize int) *Image {
	img := NewImage(width, height, FormatUnknown)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetGray(x, y, 255)
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *Image {
	img := NewImage(width, height, FormatUnknown)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateStepImage creates a vertical step edge: columns left of split are
// left, the rest are right.
func CreateStepImage(width, height, split int, left, right uint8) *Image {
	img := NewImage(width, height, FormatUnknown)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < split {
				img.SetGray(x, y, left)
			} else {
				img.SetGray(x, y, right)
			}
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *Image {
	img := NewImage(width, height, FormatUnknown)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CreateEdgeImage creates an image with sharp edges for testing edge detection.
func CreateEdgeImage(width, height int) *Image {
	img := CreateSolidImage(width, height, RGB{R: 128, G: 128, B: 128})

	// Add white rectangle in center
	rx1, ry1 := width/4, height/4
	rx2, ry2 := 3*width/4, 3*height/4
	for y := ry1; y < ry2; y++ {
		for x := rx1; x < rx2; x++ {
			img.SetGray(x, y, 255)
		}
	}

	// Add diagonal line
	for i := 0; i < min(width, height)/2; i++ {
		img.SetGray(i, i, 0)
	}

	return img
}

// CalculateMSE calculates the Mean Squared Error between two images over
// all channels.
func CalculateMSE(img1, img2 *Image) float64 {
	if !SameSize(img1, img2) {
		return math.MaxFloat64
	}

	var sumSq float64
	for i := range img1.Pix {
		d := float64(img1.Pix[i]) - float64(img2.Pix[i])
		sumSq += d * d
	}
	return sumSq / float64(len(img1.Pix))
}

// CalculateMaxDiff calculates the maximum sample difference between two images.
func CalculateMaxDiff(img1, img2 *Image) int {
	if !SameSize(img1, img2) {
		return 256
	}

	maxDiff := 0
	for i := range img1.Pix {
		maxDiff = max(maxDiff, abs(int(img1.Pix[i])-int(img2.Pix[i])))
	}
	return maxDiff
}

// CalculateJaccardIndex calculates the Jaccard similarity between two binary edge maps.
// Returns a value between 0 (no overlap) and 1 (perfect overlap).
func CalculateJaccardIndex(edges1, edges2 *Image) float64 {
	if !SameSize(edges1, edges2) {
		return 0
	}

	var intersection, union int
	for i := 0; i < len(edges1.Pix); i += Channels {
		e1 := edges1.Pix[i] > 128
		e2 := edges2.Pix[i] > 128
		if e1 && e2 {
			intersection++
		}
		if e1 || e2 {
			union++
		}
	}

	if union == 0 {
		return 1.0 // Both empty
	}
	return float64(intersection) / float64(union)
}

// CountEdges returns the number of pixels whose first sample is above 128.
func CountEdges(edges *Image) int {
	n := 0
	for i := 0; i < len(edges.Pix); i += Channels {
		if edges.Pix[i] > 128 {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
