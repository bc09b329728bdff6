// Package still implements the file stage for still images.
package still

import (
	"context"
	"time"

	"github.com/user/grainfx/pkg/effects"
	"github.com/user/grainfx/pkg/pipeline"
	"github.com/user/grainfx/pkg/ports"
)

// Stage loads an image, runs the still chain over it and saves the result.
type Stage struct {
	codec  ports.ImageCodec
	fs     ports.FileSystem
	chain  *effects.Chain
	seeder *effects.Seeder
	sink   ports.PreviewSink
	logger ports.Logger
}

// NewStage creates a new still stage. A nil chain selects effects.StillChain.
func NewStage(codec ports.ImageCodec, fs ports.FileSystem, chain *effects.Chain, seeder *effects.Seeder, sink ports.PreviewSink, logger ports.Logger) *Stage {
	if chain == nil {
		chain = effects.StillChain()
	}
	return &Stage{
		codec:  codec,
		fs:     fs,
		chain:  chain,
		seeder: seeder,
		sink:   sink,
		logger: logger.WithComponent("still"),
	}
}

// Execute processes one image file.
func (s *Stage) Execute(ctx context.Context, job pipeline.FileJob) (pipeline.FileResult, error) {
	result := pipeline.FileResult{Name: job.Name, Output: job.Dest, Chain: s.chain.String()}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	src, err := s.codec.Load(job.Source)
	if err != nil {
		return result, pipeline.Fail(pipeline.StepLoad, err)
	}
	b := src.Bounds()
	s.logger.Debug("Loaded %s: %dx%d", job.Name, b.Dx(), b.Dy())

	out := s.chain.Apply(src, s.seeder.ForFile(job.Name))

	if err := s.codec.Save(job.Dest, out); err != nil {
		return result, pipeline.FailPartial(pipeline.StepSave, err)
	}

	if s.sink != nil && s.sink.Enabled() {
		if err := s.sink.SaveStill(job.Name, src, out); err != nil {
			s.logger.Warn("Failed to save preview for %s: %s", job.Name, err)
		}
	}

	result.Width = out.Bounds().Dx()
	result.Height = out.Bounds().Dy()
	if size, err := s.fs.Size(job.Dest); err == nil {
		result.Bytes = size
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

var _ pipeline.FileStage = (*Stage)(nil)
