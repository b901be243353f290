package imageutil

// Downscale shrinks img to width pixels (aspect ratio kept) using area
// interpolation. Images already no wider than width, and a width of 0,
// return img itself.
func Downscale(img *Image, width int) *Image {
	if width > 0 && width < img.Width {
		return ResizeToWidth(img, width, InterpolationArea)
	}
	return img
}

// DetectEdges performs Canny edge detection on a color image.
func DetectEdges(img *Image, params CannyParams) (*Image, error) {
	return Canny(ToGrayscale(img), params)
}

// DetectEdgesSupersampled detects edges at factor times the target size
// and scales the edge map back down. This recovers edges that a plain
// downscale would blur away.
//
// The function:
//  1. Resizes to factor x (width, height) using area interpolation
//  2. Runs Canny on the intermediate image
//  3. Resizes the edge map to (width, height) using linear interpolation
//  4. Re-binarizes: any pixel touched by an edge becomes 255
//
// A factor below 2 skips the intermediate step and detects directly at
// the target size.
func DetectEdgesSupersampled(img *Image, width, height, factor int, params CannyParams) (*Image, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if factor < 2 {
		return DetectEdges(Resize(img, width, height, InterpolationArea), params)
	}

	// Step 1: Resize to the intermediate size
	intermediate := Resize(img, width*factor, height*factor, InterpolationArea)

	// Step 2: Edge detection on the intermediate image
	edgesFull, err := DetectEdges(intermediate, params)
	if err != nil {
		return nil, err
	}

	// Step 3: Back down to the target size
	edges := Resize(edgesFull, width, height, InterpolationLinear)

	// Step 4: Binarize
	for i, v := range edges.Pix {
		if v > 0 {
			edges.Pix[i] = 255
		}
	}
	return edges, nil
}
