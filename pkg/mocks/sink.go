package mocks

import (
	"image"
	"sync"

	"github.com/user/grainfx/pkg/ports"
)

// PreviewSink is a mock implementation of ports.PreviewSink.
type PreviewSink struct {
	mu sync.RWMutex

	enabled bool

	Stills map[string][2]image.Image
	Frames map[string][]int
}

// NewPreviewSink creates a new mock PreviewSink.
func NewPreviewSink(enabled bool) *PreviewSink {
	return &PreviewSink{
		enabled: enabled,
		Stills:  make(map[string][2]image.Image),
		Frames:  make(map[string][]int),
	}
}

func (m *PreviewSink) Enabled() bool {
	return m.enabled
}

func (m *PreviewSink) SaveStill(name string, before, after image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stills[name] = [2]image.Image{before, after}
	return nil
}

func (m *PreviewSink) SaveFrame(name string, index int, before, after image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[name] = append(m.Frames[name], index)
	return nil
}

var _ ports.PreviewSink = (*PreviewSink)(nil)
