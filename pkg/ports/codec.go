package ports

import "image"

// ImageCodec reads and writes still images on disk.
type ImageCodec interface {
	// Load decodes the image at path.
	Load(path string) (image.Image, error)

	// Save encodes img to path. The format follows the file extension.
	Save(path string, img image.Image) error
}
