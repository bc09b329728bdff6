// Package nullsink provides a no-op preview sink implementation.
package nullsink

import (
	"image"

	"github.com/user/grainfx/pkg/ports"
)

// Sink is a no-op implementation of ports.PreviewSink.
// It discards all previews.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveStill does nothing.
func (s *Sink) SaveStill(name string, before, after image.Image) error {
	return nil
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(name string, index int, before, after image.Image) error {
	return nil
}

// Ensure Sink implements ports.PreviewSink
var _ ports.PreviewSink = (*Sink)(nil)
