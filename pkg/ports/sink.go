package ports

import (
	"image"
)

// PreviewSink receives before/after pairs for visual inspection.
// It allows saving comparison sheets without affecting the main outputs.
type PreviewSink interface {
	// Enabled returns true if previews are written.
	Enabled() bool

	// SaveStill saves the comparison for a processed still image.
	SaveStill(name string, before, after image.Image) error

	// SaveFrame saves the comparison for one frame of a video clip.
	SaveFrame(name string, index int, before, after image.Image) error
}
