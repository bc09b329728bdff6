// Package clip implements the file stage for video clips: probe, decode
// frame by frame, transform, re-encode.
package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/grainfx/pkg/effects"
	"github.com/user/grainfx/pkg/pipeline"
	"github.com/user/grainfx/pkg/ports"
)

// ErrInvalidVideo is returned when probing yields no usable size or rate.
var ErrInvalidVideo = errors.New("clip: invalid video metadata")

// Options configures the clip stage.
type Options struct {
	Encoder ports.EncoderOptions
	// KeepAudio copies the source audio track into the output.
	KeepAudio bool
}

// DefaultOptions returns the default clip options.
func DefaultOptions() Options {
	return Options{
		Encoder:   ports.EncoderOptions{Preset: "medium", CRF: 23},
		KeepAudio: true,
	}
}

// Stage runs the video chain over every frame of a clip.
type Stage struct {
	prober  ports.VideoProber
	decoder ports.VideoDecoder
	encoder ports.VideoEncoder
	fs      ports.FileSystem
	chain   *effects.Chain
	seeder  *effects.Seeder
	sink    ports.PreviewSink
	logger  ports.Logger
	opts    Options
}

// NewStage creates a new clip stage. A nil chain selects effects.VideoChain.
func NewStage(prober ports.VideoProber, decoder ports.VideoDecoder, encoder ports.VideoEncoder, fs ports.FileSystem,
	chain *effects.Chain, seeder *effects.Seeder, sink ports.PreviewSink, logger ports.Logger, opts Options) *Stage {
	if chain == nil {
		chain = effects.VideoChain()
	}
	return &Stage{
		prober:  prober,
		decoder: decoder,
		encoder: encoder,
		fs:      fs,
		chain:   chain,
		seeder:  seeder,
		sink:    sink,
		logger:  logger.WithComponent("clip"),
		opts:    opts,
	}
}

// Execute processes one clip.
func (s *Stage) Execute(ctx context.Context, job pipeline.FileJob) (pipeline.FileResult, error) {
	result := pipeline.FileResult{Name: job.Name, Output: job.Dest, Chain: s.chain.String()}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	info, err := s.prober.Probe(ctx, job.Source)
	if err != nil {
		return result, pipeline.Fail(pipeline.StepProbe, err)
	}
	if info.Width <= 0 || info.Height <= 0 || info.FrameRate.IsZero() {
		return result, pipeline.Fail(pipeline.StepProbe,
			fmt.Errorf("%w: %dx%d at %s fps", ErrInvalidVideo, info.Width, info.Height, info.FrameRate))
	}
	s.logger.Debug("Video %s: %dx%d at %s fps, %d frames, codec %s, audio %t, rotation %d",
		job.Name, info.Width, info.Height, info.FrameRate, info.FrameCount, info.Codec, info.HasAudio, info.Rotation)
	// Frames are decoded upright, so the output is written at the display
	// size without a rotation matrix.
	width, height := info.DisplaySize()

	src, err := s.decoder.Open(ctx, job.Source, info)
	if err != nil {
		return result, pipeline.Fail(pipeline.StepDecode, err)
	}
	defer src.Close()

	encOpts := s.opts.Encoder
	if s.opts.KeepAudio && info.HasAudio {
		encOpts.AudioFrom = job.Source
	}
	if err := s.encoder.Begin(ctx, job.Dest, width, height, info.FrameRate, encOpts); err != nil {
		return result, pipeline.Fail(pipeline.StepEncode, err)
	}

	frames, err := s.transcode(ctx, job.Name, src)
	if err != nil {
		if abortErr := s.encoder.Abort(); abortErr != nil {
			s.logger.Debug("Abort encoder for %s: %s", job.Name, abortErr)
		}
		return result, err
	}

	if err := s.encoder.End(); err != nil {
		return result, pipeline.FailPartial(pipeline.StepEncode, err)
	}
	s.logger.Debug("Encoded %d frames for %s", frames, job.Name)

	result.Width = width
	result.Height = height
	result.Video = &pipeline.VideoResult{
		FrameRate: info.FrameRate,
		Frames:    frames,
		HasAudio:  encOpts.AudioFrom != "",
		Probe:     info.Prober,
	}
	if size, err := s.fs.Size(job.Dest); err == nil {
		result.Bytes = size
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// transcode pulls frames from src until EOF, transforms and encodes them.
// The encoder is running, so every error it returns is partial.
func (s *Stage) transcode(ctx context.Context, name string, src ports.FrameSource) (int, error) {
	transform := s.chain.FrameFunc(s.seeder, name)
	preview := s.sink != nil && s.sink.Enabled()

	frames := 0
	for {
		select {
		case <-ctx.Done():
			return frames, pipeline.FailPartial(pipeline.StepEncode, ctx.Err())
		default:
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, pipeline.FailPartial(pipeline.StepDecode, fmt.Errorf("frame %d: %w", frames, err))
		}

		out := transform(frame.Image, frame.Timestamp)

		if preview {
			if err := s.sink.SaveFrame(name, frame.Index, frame.Image, out); err != nil {
				s.logger.Warn("Failed to save preview for %s: %s", name, err)
				preview = false
			}
		}

		if err := s.encoder.EncodeFrame(out); err != nil {
			return frames, pipeline.FailPartial(pipeline.StepEncode, fmt.Errorf("frame %d: %w", frame.Index, err))
		}
		frames++
	}
}

var _ pipeline.FileStage = (*Stage)(nil)
