// Package ffmpegdecoder decodes video files into frames by reading raw RGBA
// from an ffmpeg process, one frame at a time.
package ffmpegdecoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/user/grainfx/pkg/adapters/ffmpegtool"
	"github.com/user/grainfx/pkg/ports"
)

var (
	// ErrDecodeFailed is returned when ffmpeg cannot decode the file.
	ErrDecodeFailed = errors.New("ffmpegdecoder: decode failed")

	// ErrInvalidSize is returned by Open when the expected frame size is unknown.
	ErrInvalidSize = errors.New("ffmpegdecoder: invalid frame size")
)

// Decoder implements ports.VideoDecoder with an external ffmpeg process.
type Decoder struct {
	ffmpegPath string
}

// New creates a decoder that runs the ffmpeg binary at ffmpegPath.
func New(ffmpegPath string) *Decoder {
	return &Decoder{ffmpegPath: ffmpegPath}
}

// Open starts decoding path. ffmpeg applies the display rotation, so
// frames come out upright at info.DisplaySize().
func (d *Decoder) Open(ctx context.Context, path string, info ports.VideoInfo) (ports.FrameSource, error) {
	if d.ffmpegPath == "" {
		return nil, ffmpegtool.ErrFFmpegNotFound
	}
	width, height := info.DisplaySize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s := &frameSource{
		width:  width,
		height: height,
		rate:   info.FrameRate,
	}
	s.cmd = exec.CommandContext(ctx, d.ffmpegPath, buildArgs(path, width, height)...)
	s.cmd.Stderr = &s.stderr

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	s.stdout = stdout

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return s, nil
}

func buildArgs(path string, width, height int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn", "-dn",
		"-vsync", "passthrough", // one output frame per decoded frame
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"pipe:1",
	}
}

// frameSource reads consecutive frames from ffmpeg's stdout.
type frameSource struct {
	width  int
	height int
	rate   ports.Rational

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr ffmpegtool.StderrBuffer
	index  int
	done   bool
	err    error
}

// Next returns the next frame. Each frame owns its pixel buffer.
func (s *frameSource) Next() (ports.VideoFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		if s.err != nil {
			return ports.VideoFrame{}, s.err
		}
		return ports.VideoFrame{}, io.EOF
	}

	buf := make([]byte, s.width*s.height*4)
	_, err := io.ReadFull(s.stdout, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.finish()
		if s.err != nil {
			return ports.VideoFrame{}, s.err
		}
		return ports.VideoFrame{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.finish()
		if s.err == nil {
			s.err = fmt.Errorf("%w: truncated frame %d", ErrDecodeFailed, s.index)
		}
		return ports.VideoFrame{}, s.err
	default:
		s.finish()
		return ports.VideoFrame{}, fmt.Errorf("%w: read frame %d: %v", ErrDecodeFailed, s.index, err)
	}

	img := &image.NRGBA{
		Pix:    buf,
		Stride: s.width * 4,
		Rect:   image.Rect(0, 0, s.width, s.height),
	}
	frame := ports.VideoFrame{
		Index:     s.index,
		Timestamp: s.rate.FrameTime(s.index),
		Image:     img,
	}
	s.index++
	return frame, nil
}

// finish waits for ffmpeg and records why decoding ended.
func (s *frameSource) finish() {
	if s.done {
		return
	}
	s.done = true
	s.stdout.Close()
	if err := s.cmd.Wait(); err != nil {
		s.err = fmt.Errorf("%w: %v: %s", ErrDecodeFailed, err, s.stderr.Tail(5))
		return
	}
	if s.index == 0 {
		s.err = fmt.Errorf("%w: no frames decoded", ErrDecodeFailed)
	}
}

// Close stops ffmpeg if it is still running.
func (s *frameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}
	s.done = true
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	return nil
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)
