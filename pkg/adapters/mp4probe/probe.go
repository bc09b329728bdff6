// Package mp4probe reads video metadata from MP4 and QuickTime files with a
// pure Go box parser, without starting any external process.
package mp4probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/grainfx/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the file has no usable video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")

	// ErrFragmented is returned for fragmented files, whose sample tables
	// live in the fragments rather than in the moov box.
	ErrFragmented = errors.New("mp4probe: fragmented files are not supported")
)

// Name identifies this backend in VideoInfo.Prober.
const Name = "mp4ff"

// Prober implements ports.VideoProber.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and reads its video track metadata.
func (p *Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	if err := ctx.Err(); err != nil {
		return ports.VideoInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads video metadata from an MP4/QuickTime stream. Media data
// is not loaded.
func ProbeReader(reader io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}
	if mp4File.IsFragmented() {
		return ports.VideoInfo{}, ErrFragmented
	}
	if mp4File.Moov == nil {
		return ports.VideoInfo{}, fmt.Errorf("%w: no moov box", ErrNoVideoTrack)
	}

	info := ports.VideoInfo{Prober: Name}
	var video *mp4.TrakBox
	for _, trak := range mp4File.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			if video == nil {
				video = trak
			}
		case "soun":
			info.HasAudio = true
		}
	}
	if video == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	if err := readTrack(video, &info); err != nil {
		return ports.VideoInfo{}, err
	}
	if video.Tkhd != nil {
		rotation, err := readRotation(reader, video.Tkhd.TrackID)
		if err != nil {
			return ports.VideoInfo{}, fmt.Errorf("read display matrix: %w", err)
		}
		info.Rotation = rotation
	}
	return info, nil
}

func readTrack(trak *mp4.TrakBox, info *ports.VideoInfo) error {
	if trak.Mdia.Mdhd == nil || trak.Mdia.Mdhd.Timescale == 0 {
		return fmt.Errorf("%w: missing media timescale", ErrNoVideoTrack)
	}
	timescale := trak.Mdia.Mdhd.Timescale
	info.Duration = time.Duration(trak.Mdia.Mdhd.Duration) * time.Second / time.Duration(timescale)

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return fmt.Errorf("%w: no sample table found", ErrNoVideoTrack)
	}
	stbl := trak.Mdia.Minf.Stbl

	if stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				info.Width = int(vse.Width)
				info.Height = int(vse.Height)
				info.Codec = vse.Type()
				break
			}
		}
	}
	if (info.Width == 0 || info.Height == 0) && trak.Tkhd != nil {
		info.Width = int(trak.Tkhd.Width >> 16)
		info.Height = int(trak.Tkhd.Height >> 16)
	}
	if info.Width == 0 || info.Height == 0 {
		return fmt.Errorf("%w: frame size unknown", ErrNoVideoTrack)
	}

	if stbl.Stsz != nil {
		info.FrameCount = int(stbl.Stsz.SampleNumber)
	}
	if stbl.Stts != nil {
		info.FrameRate = frameRate(stbl.Stts.SampleCount, stbl.Stts.SampleTimeDelta, timescale)
	}
	if info.FrameRate.IsZero() {
		return fmt.Errorf("%w: frame rate unknown", ErrNoVideoTrack)
	}
	return nil
}

// frameRate derives the rate from the most common sample duration, which
// is the nominal rate of a constant-frame-rate clip.
func frameRate(counts, deltas []uint32, timescale uint32) ports.Rational {
	var bestCount, bestDelta uint32
	for i := range counts {
		if i >= len(deltas) || deltas[i] == 0 {
			continue
		}
		if counts[i] > bestCount {
			bestCount, bestDelta = counts[i], deltas[i]
		}
	}
	if bestDelta == 0 {
		return ports.Rational{}
	}
	return reduce(int64(timescale), int64(bestDelta))
}

func reduce(num, den int64) ports.Rational {
	a, b := num, den
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return ports.Rational{}
	}
	return ports.Rational{Num: num / a, Den: den / a}
}

// Ensure Prober implements ports.VideoProber
var _ ports.VideoProber = (*Prober)(nil)
