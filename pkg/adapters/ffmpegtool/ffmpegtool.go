// Package ffmpegtool locates the ffmpeg and ffprobe executables used by the
// video adapters. Resolution happens once, at startup; the adapters receive
// the resulting paths.
package ffmpegtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be found.
	ErrFFmpegNotFound = errors.New("ffmpegtool: ffmpeg not found")

	// ErrFFprobeNotFound is returned when no ffprobe executable can be found.
	ErrFFprobeNotFound = errors.New("ffmpegtool: ffprobe not found")
)

// Paths holds resolved executable locations. FFprobe may be empty when only
// ffmpeg is installed; probing then relies on the container parser.
type Paths struct {
	FFmpeg  string
	FFprobe string
}

// Resolve finds ffmpeg and ffprobe. Explicit paths win; see FindFFmpeg and
// FindFFprobe for the search order. A missing ffprobe is not an error.
func Resolve(ffmpegPath, ffprobePath string) (Paths, error) {
	ffmpeg, err := FindFFmpeg(ffmpegPath)
	if err != nil {
		return Paths{}, err
	}
	ffprobe, err := FindFFprobe(ffprobePath, ffmpeg)
	if err != nil && ffprobePath != "" {
		return Paths{}, err
	}
	return Paths{FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

// IsAvailable reports whether ffmpeg can be found with the default search.
func IsAvailable() bool {
	_, err := FindFFmpeg("")
	return err == nil
}

// FindFFmpeg searches for ffmpeg.
// Priority: 1) custom, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	if path, err := exec.LookPath(execName("ffmpeg")); err == nil {
		return path, nil
	}

	for _, p := range commonPaths("ffmpeg") {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// FindFFprobe searches for ffprobe.
// Priority: 1) custom, 2) next to ffmpeg, 3) PATH, 4) common locations
func FindFFprobe(custom, ffmpegPath string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFprobeNotFound, custom)
	}

	if ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), execName("ffprobe"))
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}

	if path, err := exec.LookPath(execName("ffprobe")); err == nil {
		return path, nil
	}

	for _, p := range commonPaths("ffprobe") {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFprobeNotFound
}

// Version returns the first line of `ffmpeg -version`.
func Version(ctx context.Context, ffmpegPath string) (string, error) {
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s -version: %w", ffmpegPath, err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// StderrTail returns the last n non-empty lines of captured stderr, for
// error messages that stay readable when ffmpeg prints a long banner.
func StderrTail(stderr []byte, n int) string {
	lines := bytes.Split(bytes.TrimSpace(stderr), []byte("\n"))
	var kept []string
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if l := strings.TrimSpace(string(lines[i])); l != "" {
			kept = append([]string{l}, kept...)
		}
	}
	return strings.Join(kept, "\n")
}

func execName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func commonPaths(name string) []string {
	switch runtime.GOOS {
	case "windows":
		exe := execName(name)
		return []string{
			`C:\ffmpeg\bin\` + exe,
			`C:\Program Files\ffmpeg\bin\` + exe,
			`C:\Program Files (x86)\ffmpeg\bin\` + exe,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/" + name,
			"/usr/local/bin/" + name,
			"/usr/bin/" + name,
		}
	default:
		return []string{
			"/usr/bin/" + name,
			"/usr/local/bin/" + name,
			"/opt/homebrew/bin/" + name,
			"/snap/bin/" + name,
		}
	}
}

// StderrBuffer collects a child process's stderr. It is safe to read while
// the process is still writing to it.
type StderrBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *StderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Tail returns the last n non-empty lines written so far.
func (b *StderrBuffer) Tail(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return StderrTail(b.buf.Bytes(), n)
}

// Reset discards everything written so far.
func (b *StderrBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
