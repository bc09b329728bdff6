package ports

import (
	"context"
	"image"
	"time"
)

// VideoFrame represents a decoded video frame with timing information.
type VideoFrame struct {
	Index     int
	Timestamp time.Duration
	Image     image.Image
}

// FrameSource yields decoded frames in presentation order.
type FrameSource interface {
	// Next returns the next frame, or io.EOF after the last one.
	Next() (VideoFrame, error)

	// Close releases the decoder. It is safe to call more than once.
	Close() error
}

// VideoDecoder opens a video file as a sequential frame source. The
// VideoInfo passed in fixes the frame size the source must produce.
type VideoDecoder interface {
	Open(ctx context.Context, path string, info VideoInfo) (FrameSource, error)
}
