// Package imagingcodec loads and saves still images with the imaging library.
package imagingcodec

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/user/grainfx/pkg/ports"
)

// DefaultJPEGQuality matches the quality common imaging tools use when none is given.
const DefaultJPEGQuality = 75

// Codec implements ports.ImageCodec.
type Codec struct {
	jpegQuality int
}

// New creates a codec saving JPEGs at DefaultJPEGQuality.
func New() *Codec {
	return &Codec{jpegQuality: DefaultJPEGQuality}
}

// NewWithQuality creates a codec with an explicit JPEG quality (1-100).
func NewWithQuality(quality int) *Codec {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Codec{jpegQuality: quality}
}

// Load decodes the image at path. EXIF orientation is not applied, so the
// output keeps the stored pixel layout.
func (c *Codec) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img in the format implied by the extension of path.
func (c *Codec) Save(path string, img image.Image) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(c.jpegQuality)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Quality returns the JPEG quality used by Save.
func (c *Codec) Quality() int {
	return c.jpegQuality
}

// Ensure Codec implements ports.ImageCodec
var _ ports.ImageCodec = (*Codec)(nil)
