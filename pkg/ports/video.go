package ports

import (
	"context"
	"fmt"
	"time"
)

// Rational is an exact frame rate such as 30/1 or 30000/1001.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the rate as frames per second. A zero denominator yields 0.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsZero reports whether the rate is unknown.
func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

// String formats the rate the way ffmpeg accepts it on the command line.
func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// FrameTime returns the presentation time of the frame at index i.
func (r Rational) FrameTime(i int) time.Duration {
	if r.IsZero() {
		return 0
	}
	return time.Duration(int64(i) * r.Den * int64(time.Second) / r.Num)
}

// VideoInfo is the metadata the video runner must carry from source to output.
type VideoInfo struct {
	Width      int
	Height     int
	FrameRate  Rational
	FrameCount int // 0 when the container does not say
	Duration   time.Duration
	Codec      string
	HasAudio   bool
	Rotation   int    // clockwise display rotation: 0, 90, 180 or 270
	Prober     string // backend that produced the metadata
}

// DisplaySize returns the frame size after the display rotation is
// applied. Quarter turns swap width and height.
func (v VideoInfo) DisplaySize() (int, int) {
	if v.Rotation == 90 || v.Rotation == 270 {
		return v.Height, v.Width
	}
	return v.Width, v.Height
}

// NormalizeRotation folds a rotation in degrees into 0, 90, 180 or 270.
// Values that are not quarter turns yield 0.
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	if deg%90 != 0 {
		return 0
	}
	return deg
}

// VideoProber reads stream metadata without decoding frames.
type VideoProber interface {
	Probe(ctx context.Context, path string) (VideoInfo, error)
}
