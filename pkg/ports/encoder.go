package ports

import (
	"context"
	"image"
)

// VideoEncoder writes frames into a video file.
type VideoEncoder interface {
	// Begin starts encoding to path with the given size and frame rate.
	Begin(ctx context.Context, path string, width, height int, rate Rational, opts EncoderOptions) error

	// EncodeFrame appends one frame.
	EncodeFrame(img image.Image) error

	// End finalizes the file.
	End() error

	// Abort stops encoding and removes the partial output.
	Abort() error
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Preset    string // x264 preset name
	CRF       int    // x264 constant rate factor, 0-51
	AudioFrom string // copy the audio track of this file when non-empty
}
