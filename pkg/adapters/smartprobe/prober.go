// Package smartprobe provides a video prober that tries a fast in-process
// container parser first and falls back to ffprobe for anything it cannot
// read.
package smartprobe

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/grainfx/pkg/adapters/ffprobe"
	"github.com/user/grainfx/pkg/adapters/mp4probe"
	"github.com/user/grainfx/pkg/ports"
)

// ErrProbeFailed is returned when every backend failed to read the file.
var ErrProbeFailed = errors.New("smartprobe: probe failed")

// Options configures the smart prober.
type Options struct {
	// FFprobePath is the ffprobe binary used as fallback. Empty disables it.
	FFprobePath string
}

// Prober tries each backend in order and returns the first success.
type Prober struct {
	backends []ports.VideoProber
	logger   ports.Logger
}

// New creates the default chain: mp4ff, then ffprobe when available.
func New(opts Options, logger ports.Logger) *Prober {
	backends := []ports.VideoProber{mp4probe.New()}
	if opts.FFprobePath != "" {
		backends = append(backends, ffprobe.New(opts.FFprobePath))
	}
	return NewWithBackends(logger, backends...)
}

// NewWithBackends creates a prober over explicit backends.
func NewWithBackends(logger ports.Logger, backends ...ports.VideoProber) *Prober {
	return &Prober{backends: backends, logger: logger.WithComponent("probe")}
}

// Probe implements ports.VideoProber.
func (p *Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	var errs []error
	for _, b := range p.backends {
		info, err := b.Probe(ctx, path)
		if err == nil {
			p.logger.Debug("Probed %s with %s: %dx%d at %s fps, %d frames",
				path, info.Prober, info.Width, info.Height, info.FrameRate, info.FrameCount)
			return info, nil
		}
		if ctx.Err() != nil {
			return ports.VideoInfo{}, ctx.Err()
		}
		p.logger.Debug("Probe backend failed for %s: %s", path, err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ports.VideoInfo{}, fmt.Errorf("%w: no backends configured", ErrProbeFailed)
	}
	return ports.VideoInfo{}, fmt.Errorf("%w: %w", ErrProbeFailed, errors.Join(errs...))
}

// Ensure Prober implements ports.VideoProber
var _ ports.VideoProber = (*Prober)(nil)
