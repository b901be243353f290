package imageutil

// CannyStages keeps the intermediate results of a Canny run.
type CannyStages struct {
	Blurred    *Image
	Field      *GradientField
	Suppressed *Image
	Edges      *Image
}

// Canny performs Canny edge detection on a grayscale-encoded image and
// returns a binary (0/255) edge map. Color images must go through
// ToGrayscale first; only the first channel is examined.
func Canny(gray *Image, params CannyParams) (*Image, error) {
	stages, err := CannyWithStages(gray, params)
	if err != nil {
		return nil, err
	}
	return stages.Edges, nil
}

// CannyWithStages is Canny, but returns every intermediate image as well.
func CannyWithStages(gray *Image, params CannyParams) (*CannyStages, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Gaussian blur to reduce noise
	blurred, err := GaussianBlur(gray, params.KernelSize, params.Sigma)
	if err != nil {
		return nil, err
	}

	// Step 2: Gradient magnitude and direction
	field := Gradients(blurred, params.EdgeKernel)

	// Step 3: Non-maximum suppression
	suppressed := Suppress(field, blurred.Format)

	// Step 4: Edge tracking by hysteresis
	edges := Hysteresis(suppressed, params.Lower, params.Upper)

	return &CannyStages{
		Blurred:    blurred,
		Field:      field,
		Suppressed: suppressed,
		Edges:      edges,
	}, nil
}

// NonMaximumSuppression computes the gradient field of img and thins it to
// one-pixel-wide ridges. See Suppress.
func NonMaximumSuppression(img *Image, kernel EdgeKernel) *Image {
	return Suppress(Gradients(img, kernel), img.Format)
}

// Suppress keeps only pixels whose magnitude is at least that of both
// neighbours along the quantized gradient direction. Survivors are written
// as their magnitude clamped to 255, everything else (including the
// uncomputed border) as 0.
func Suppress(field *GradientField, format Format) *Image {
	width, height, radius := field.Width, field.Height, field.Radius
	out := NewImage(width, height, format)
	mags := field.Magnitude

	for y := radius; y < height-radius; y++ {
		for x := radius; x < width-radius; x++ {
			idx := y*width + x
			mag := mags[idx]

			var q, r float64
			switch angleSector(field.Angle[idx]) {
			case 0:
				// Horizontal gradient: compare west and east
				q, r = mags[idx-1], mags[idx+1]
			case 1:
				// 45 degrees: compare north-east and south-west
				q, r = mags[idx-width+1], mags[idx+width-1]
			case 2:
				// Vertical gradient: compare north and south
				q, r = mags[idx-width], mags[idx+width]
			default:
				// 135 degrees: compare north-west and south-east
				q, r = mags[idx-width-1], mags[idx+width+1]
			}

			if mag >= q && mag >= r {
				out.setGrayIndex(idx, saturateUint8(mag))
			}
		}
	}

	return out
}

// angleSector quantizes an angle in [0, 180] into one of four directions.
// Boundaries belong to the lower sector.
func angleSector(angle float64) int {
	switch {
	case angle <= 22.5 || angle > 157.5:
		return 0
	case angle <= 67.5:
		return 1
	case angle <= 112.5:
		return 2
	default:
		return 3
	}
}

// saturateUint8 truncates a non-negative magnitude to uint8, saturating
// at 255.
func saturateUint8(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}

// Hysteresis turns a suppressed magnitude image into a binary edge map.
// Pixels at or above upper are edges. Pixels at or above lower become edges
// only when an 8-connected chain of such pixels links them to one at or
// above upper. Edges are 255 in all channels, everything else 0.
//
// lower must not exceed upper; CannyParams.Validate enforces that.
func Hysteresis(img *Image, lower, upper uint8) *Image {
	width, height := img.Width, img.Height
	out := NewImage(width, height, img.Format)
	visited := make([]bool, width*height)
	queue := make([]int, 0, width+height)

	// Strong pixels seed the traversal
	for idx := 0; idx < width*height; idx++ {
		if img.Pix[idx*Channels] >= upper {
			visited[idx] = true
			out.setGrayIndex(idx, 255)
			queue = append(queue, idx)
		}
	}

	// Breadth-first walk into connected weak pixels
	for head := 0; head < len(queue); head++ {
		x, y := queue[head]%width, queue[head]/width
		for k := range neighborDX {
			nx, ny := x+neighborDX[k], y+neighborDY[k]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			n := ny*width + nx
			if visited[n] {
				continue
			}
			if img.Pix[n*Channels] >= lower {
				visited[n] = true
				out.setGrayIndex(n, 255)
				queue = append(queue, n)
			}
		}
	}

	return out
}

var (
	neighborDX = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	neighborDY = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
)
