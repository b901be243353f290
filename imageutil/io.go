package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned when no codec is registered for a format.
var ErrUnknownFormat = errors.New("unknown image format")

// Decode reads an image from r, detecting the container from its header.
// Supports BMP, PNG, JPEG, GIF, and TIFF. The returned image is tagged with
// the detected Format.
func Decode(r io.Reader) (*Image, error) {
	src, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageFromImage(src, Format(name)), nil
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img *Image, format Format) error {
	rgba := img.ToRGBA()
	switch format {
	case FormatBMP:
		return bmp.Encode(w, rgba)
	case FormatPNG:
		return png.Encode(w, rgba)
	case FormatJPEG:
		return jpeg.Encode(w, rgba, &jpeg.Options{Quality: 95})
	case FormatGIF:
		return gif.Encode(w, rgba, nil)
	case FormatTIFF:
		return tiff.Encode(w, rgba, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// FormatFromPath maps a file extension to a Format, or FormatUnknown.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension; when the extension is not
// recognized the image's own Format is used, and PNG after that.
// If encoding fails the partially written file is removed.
func SaveImage(img *Image, path string) error {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		format = img.Format
	}
	if format == FormatUnknown {
		format = FormatPNG
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
