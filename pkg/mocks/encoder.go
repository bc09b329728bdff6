package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/grainfx/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	mu sync.Mutex

	BeginFunc       func(path string, width, height int, rate ports.Rational, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image) error
	EndFunc         func() error

	// Recorded calls for verification
	BeginCalled      bool
	BeginCall        BeginCall
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
	AbortCalled      bool
}

// BeginCall records the arguments of Begin.
type BeginCall struct {
	Path   string
	Width  int
	Height int
	Rate   ports.Rational
	Opts   ports.EncoderOptions
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	Width  int
	Height int
	Image  image.Image
}

func (m *VideoEncoder) Begin(ctx context.Context, path string, width, height int, rate ports.Rational, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.BeginCall = BeginCall{Path: path, Width: width, Height: height, Rate: rate, Opts: opts}
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(path, width, height, rate, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image) error {
	m.mu.Lock()
	b := img.Bounds()
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{Width: b.Dx(), Height: b.Dy(), Image: img})
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img)
	}
	return nil
}

func (m *VideoEncoder) End() error {
	m.mu.Lock()
	m.EndCalled = true
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return nil
}

func (m *VideoEncoder) Abort() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AbortCalled = true
	return nil
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
