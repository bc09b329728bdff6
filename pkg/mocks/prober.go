package mocks

import (
	"context"

	"github.com/user/grainfx/pkg/ports"
)

// VideoProber is a mock implementation of ports.VideoProber.
type VideoProber struct {
	Info      ports.VideoInfo
	Err       error
	ProbeFunc func(path string) (ports.VideoInfo, error)

	// Recorded calls for verification
	ProbedPaths []string
}

func (m *VideoProber) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	m.ProbedPaths = append(m.ProbedPaths, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	if m.Err != nil {
		return ports.VideoInfo{}, m.Err
	}
	return m.Info, nil
}

var _ ports.VideoProber = (*VideoProber)(nil)
