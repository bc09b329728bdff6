package ffmpegdecoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/grainfx/pkg/adapters/ffmpegtool"
	"github.com/user/grainfx/pkg/ports"
)

func findFFmpeg(t *testing.T) string {
	t.Helper()
	path, err := ffmpegtool.FindFFmpeg("")
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	return path
}

func makeClip(t *testing.T, ffmpeg, path string, width, height, fps, frames int) {
	t.Helper()
	cmd := exec.Command(ffmpeg, "-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc=size=%dx%d:rate=%d", width, height, fps),
		"-frames:v", fmt.Sprint(frames), "-c:v", "libx264", "-pix_fmt", "yuv420p", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("ffmpeg cannot render test clip: %v: %s", err, out)
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("in.mov", 640, 480)
	want := map[string]string{"-i": "in.mov", "-f": "rawvideo", "-pix_fmt": "rgba", "-s": "640x480"}
	for i := 0; i < len(args)-1; i++ {
		if v, ok := want[args[i]]; ok {
			if args[i+1] != v {
				t.Errorf("%s = %s, want %s", args[i], args[i+1], v)
			}
			delete(want, args[i])
		}
	}
	if len(want) != 0 {
		t.Errorf("missing args: %v", want)
	}
	if args[len(args)-1] != "pipe:1" {
		t.Errorf("expected output to stdout, got %s", args[len(args)-1])
	}
}

func TestOpen_InvalidSize(t *testing.T) {
	_, err := New("/bin/true").Open(context.Background(), "x.mov", ports.VideoInfo{})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestOpen_NoFFmpeg(t *testing.T) {
	_, err := New("").Open(context.Background(), "x.mov", ports.VideoInfo{Width: 2, Height: 2})
	if !errors.Is(err, ffmpegtool.ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestDecode_AllFrames(t *testing.T) {
	ffmpeg := findFFmpeg(t)
	path := filepath.Join(t.TempDir(), "clip.mov")
	makeClip(t, ffmpeg, path, 64, 48, 30, 5)

	info := ports.VideoInfo{Width: 64, Height: 48, FrameRate: ports.Rational{Num: 30, Den: 1}}
	src, err := New(ffmpeg).Open(context.Background(), path, info)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	var frames []ports.VideoFrame
	for {
		f, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		frames = append(frames, f)
	}

	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if b := f.Image.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("frame %d size %v", i, b)
		}
	}
	if frames[3].Timestamp != 100*time.Millisecond {
		t.Errorf("frame 3 timestamp = %v, want 100ms", frames[3].Timestamp)
	}

	// EOF is sticky
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("expected io.EOF again, got %v", err)
	}
}

func TestDecode_CorruptFile(t *testing.T) {
	ffmpeg := findFFmpeg(t)
	path := filepath.Join(t.TempDir(), "broken.mov")
	if err := os.WriteFile(path, []byte("this is not a movie"), 0644); err != nil {
		t.Fatal(err)
	}

	info := ports.VideoInfo{Width: 64, Height: 48, FrameRate: ports.Rational{Num: 30, Den: 1}}
	src, err := New(ffmpeg).Open(context.Background(), path, info)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	_, err = src.Next()
	if !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestClose_BeforeEOF(t *testing.T) {
	ffmpeg := findFFmpeg(t)
	path := filepath.Join(t.TempDir(), "clip.mov")
	makeClip(t, ffmpeg, path, 64, 48, 30, 30)

	info := ports.VideoInfo{Width: 64, Height: 48, FrameRate: ports.Rational{Num: 30, Den: 1}}
	src, err := New(ffmpeg).Open(context.Background(), path, info)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := src.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
