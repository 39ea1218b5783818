// Package preprocess loads receipt images from disk and downscales them to a
// legible-but-compact size before they are sent to a vision model.
package preprocess

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// DefaultMaxWidth is the width cap applied during normalization.
const DefaultMaxWidth = 1024

// DecodeError indicates the source file was missing, unreadable, or not a
// supported raster format.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not load image from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Load decodes the image at sourcePath without resizing it.
func Load(sourcePath string) (image.Image, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, &DecodeError{Path: sourcePath, Err: err}
	}

	img, err := decodeBytes(data)
	if err != nil {
		return nil, &DecodeError{Path: sourcePath, Err: err}
	}
	return img, nil
}

// Normalize decodes the image at sourcePath and, when its width exceeds
// maxWidth, downscales it to exactly maxWidth wide with Lanczos resampling,
// preserving aspect ratio. Receipts contain small print, so the high-quality
// filter matters. Images at or under the cap pass through unchanged; nothing
// is ever upscaled.
func Normalize(sourcePath string, maxWidth int) (image.Image, error) {
	img, err := Load(sourcePath)
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	return img, nil
}

// Save writes the image to path, picking the format from the file extension.
// This is a convenience write for inspecting the preprocessed image; the
// pipeline does not depend on it.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving preprocessed image: %w", err)
	}
	return nil
}
