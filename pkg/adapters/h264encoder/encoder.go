// Package h264encoder encodes frames to H.264 by piping raw RGBA into an
// ffmpeg process running libx264. The output container follows the
// destination file extension.
package h264encoder

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/user/grainfx/pkg/adapters/ffmpegtool"
	"github.com/user/grainfx/pkg/ports"
	"golang.org/x/image/draw"
)

// Default encoding parameters.
const (
	DefaultPreset = "medium"
	DefaultCRF    = 23
)

// Encoder implements ports.VideoEncoder using an external ffmpeg process.
type Encoder struct {
	ffmpegPath string

	mu         sync.Mutex
	width      int
	height     int
	path       string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     ffmpegtool.StderrBuffer
	frame      *image.NRGBA
	frameCount int
	rescaled   int
}

// New creates an encoder that runs the ffmpeg binary at ffmpegPath.
func New(ffmpegPath string) *Encoder {
	return &Encoder{ffmpegPath: ffmpegPath}
}

// Begin starts ffmpeg writing to path.
func (e *Encoder) Begin(ctx context.Context, path string, width, height int, rate ports.Rational, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ffmpegPath == "" {
		return ffmpegtool.ErrFFmpegNotFound
	}
	if width <= 0 || height <= 0 || rate.IsZero() {
		return fmt.Errorf("%w: %dx%d at %s fps", ErrInvalidParams, width, height, rate)
	}
	if e.stdin != nil {
		return fmt.Errorf("h264encoder: already encoding %s", e.path)
	}

	e.width = width
	e.height = height
	e.path = path
	e.frame = image.NewNRGBA(image.Rect(0, 0, width, height))
	e.frameCount = 0
	e.rescaled = 0
	e.stderr.Reset()

	e.cmd = exec.CommandContext(ctx, e.ffmpegPath, buildArgs(path, width, height, rate, opts)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	e.stdin = stdin
	return nil
}

// buildArgs returns the ffmpeg command line. Size and rate are given for
// both the raw input and the output so the encoder never infers them.
func buildArgs(path string, width, height int, rate ports.Rational, opts ports.EncoderOptions) []string {
	size := fmt.Sprintf("%dx%d", width, height)

	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	crf := opts.CRF
	if crf <= 0 || crf > 51 {
		crf = DefaultCRF
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-y",             // Overwrite output
		"-f", "rawvideo", // Input format
		"-pix_fmt", "rgba", // Input pixel format
		"-s", size, // Input size
		"-r", rate.String(), // Input frame rate
		"-i", "pipe:0", // Read from stdin
	}

	if opts.AudioFrom != "" {
		args = append(args,
			"-i", opts.AudioFrom,
			"-map", "0:v:0",
			"-map", "1:a?", // audio is optional
			"-c:a", "aac",
			// Silence pads a short track so the video stream alone sets
			// the output length; a long track is cut at the last frame.
			"-af", "apad",
			"-shortest",
		)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-pix_fmt", pixelFormat(width, height),
		"-s", size,
		"-r", rate.String(),
		"-movflags", "+faststart",
		path,
	)
	return args
}

// pixelFormat picks yuv420p, which needs even dimensions; odd sizes fall
// back to yuv444p so the frame size is kept exactly.
func pixelFormat(width, height int) string {
	if width%2 == 0 && height%2 == 0 {
		return "yuv420p"
	}
	return "yuv444p"
}

// EncodeFrame writes one frame. Frames whose size differs from the size
// given to Begin are rescaled to it.
func (e *Encoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	b := img.Bounds()
	if b.Dx() == e.width && b.Dy() == e.height {
		draw.Draw(e.frame, e.frame.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(e.frame, e.frame.Bounds(), img, b, draw.Src, nil)
		e.rescaled++
	}

	if _, err := e.stdin.Write(e.frame.Pix); err != nil {
		return fmt.Errorf("failed to write frame %d: %w: %s", e.frameCount, err, e.stderr.Tail(3))
	}
	e.frameCount++
	return nil
}

// End closes the input and waits for ffmpeg to finish the file. On failure
// the partial output is removed.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	err := e.cmd.Wait()

	if e.frameCount == 0 {
		os.Remove(e.path)
		return ErrNoFrames
	}
	if err != nil {
		os.Remove(e.path)
		return fmt.Errorf("%w: %v: %s", ErrEncodingFailed, err, e.stderr.Tail(5))
	}
	return nil
}

// Abort kills ffmpeg and removes the partial output. It is a no-op when
// nothing is being encoded.
func (e *Encoder) Abort() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return nil
	}

	e.stdin.Close()
	e.stdin = nil
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()

	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove partial output: %w", err)
	}
	return nil
}

// FrameCount returns the number of frames written since Begin.
func (e *Encoder) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

// Rescaled returns how many frames since Begin needed rescaling.
func (e *Encoder) Rescaled() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rescaled
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
