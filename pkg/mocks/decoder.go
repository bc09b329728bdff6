package mocks

import (
	"context"
	"image"
	"image/color"
	"io"

	"github.com/user/grainfx/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder that yields
// Frames solid-colored frames at the display size of the info given to Open.
type VideoDecoder struct {
	Frames   int
	Color    color.NRGBA
	OpenFunc func(path string, info ports.VideoInfo) error
	// FailAt makes Next return NextErr at that frame index when NextErr is set.
	FailAt  int
	NextErr error

	// Recorded calls for verification
	OpenedPaths []string
	Sources     []*FrameSource
}

func (m *VideoDecoder) Open(ctx context.Context, path string, info ports.VideoInfo) (ports.FrameSource, error) {
	m.OpenedPaths = append(m.OpenedPaths, path)
	if m.OpenFunc != nil {
		if err := m.OpenFunc(path, info); err != nil {
			return nil, err
		}
	}
	src := &FrameSource{
		total:   m.Frames,
		info:    info,
		color:   m.Color,
		failAt:  m.FailAt,
		nextErr: m.NextErr,
	}
	m.Sources = append(m.Sources, src)
	return src, nil
}

// FrameSource is the mock ports.FrameSource returned by VideoDecoder.
type FrameSource struct {
	total   int
	info    ports.VideoInfo
	color   color.NRGBA
	failAt  int
	nextErr error
	next    int

	Closed bool
}

func (s *FrameSource) Next() (ports.VideoFrame, error) {
	if s.nextErr != nil && s.next == s.failAt {
		return ports.VideoFrame{}, s.nextErr
	}
	if s.next >= s.total {
		return ports.VideoFrame{}, io.EOF
	}
	w, h := s.info.DisplaySize()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = s.color.R
		img.Pix[i+1] = s.color.G
		img.Pix[i+2] = s.color.B
		img.Pix[i+3] = 255
	}
	frame := ports.VideoFrame{
		Index:     s.next,
		Timestamp: s.info.FrameRate.FrameTime(s.next),
		Image:     img,
	}
	s.next++
	return frame, nil
}

func (s *FrameSource) Close() error {
	s.Closed = true
	return nil
}

var (
	_ ports.VideoDecoder = (*VideoDecoder)(nil)
	_ ports.FrameSource  = (*FrameSource)(nil)
)
