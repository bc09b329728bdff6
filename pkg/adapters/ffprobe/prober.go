// Package ffprobe reads video metadata by running ffprobe and parsing its
// JSON output. It handles any container ffmpeg understands.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/user/grainfx/pkg/adapters/ffmpegtool"
	"github.com/user/grainfx/pkg/ports"
)

// ErrNoVideoStream is returned when ffprobe reports no video stream.
var ErrNoVideoStream = errors.New("ffprobe: no video stream found")

// Name identifies this backend in VideoInfo.Prober.
const Name = "ffprobe"

// Prober implements ports.VideoProber with an ffprobe executable.
type Prober struct {
	path string
}

// New creates a Prober that runs the ffprobe binary at path.
func New(path string) *Prober {
	return &Prober{path: path}
}

// Probe runs a single ffprobe JSON call against path.
func (p *Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	if p.path == "" {
		return ports.VideoInfo{}, ffmpegtool.ErrFFprobeNotFound
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("ffprobe %q: %w: %s", path, err, ffmpegtool.StderrTail(stderr.Bytes(), 3))
	}
	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into VideoInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (ports.VideoInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	info := ports.VideoInfo{Prober: Name}
	var video *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil && s.Disposition["attached_pic"] != 1 {
				video = s
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if video == nil {
		return ports.VideoInfo{}, ErrNoVideoStream
	}

	info.Width = video.Width
	info.Height = video.Height
	info.Codec = video.CodecName
	info.FrameCount = parseInt(video.NbFrames)
	info.Rotation = video.rotation()

	info.FrameRate = ParseRational(video.AvgFrameRate)
	if info.FrameRate.IsZero() {
		info.FrameRate = ParseRational(video.RFrameRate)
	}

	seconds := parseFloat(video.Duration)
	if seconds == 0 {
		seconds = parseFloat(raw.Format.Duration)
	}
	info.Duration = time.Duration(seconds * float64(time.Second))

	if info.Width <= 0 || info.Height <= 0 {
		return ports.VideoInfo{}, fmt.Errorf("%w: frame size unknown", ErrNoVideoStream)
	}
	if info.FrameRate.IsZero() {
		return ports.VideoInfo{}, fmt.Errorf("%w: frame rate unknown", ErrNoVideoStream)
	}
	if info.FrameCount == 0 && info.Duration > 0 {
		info.FrameCount = int(math.Round(info.Duration.Seconds() * info.FrameRate.Float()))
	}
	return info, nil
}

// ParseRational parses ffprobe rates such as "30/1", "30000/1001" or "25".
// Anything unparsable, including "0/0", yields the zero Rational.
func ParseRational(s string) ports.Rational {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	if !found {
		den = "1"
	}
	n, err1 := strconv.ParseInt(num, 10, 64)
	d, err2 := strconv.ParseInt(den, 10, 64)
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return ports.Rational{}
	}
	return ports.Rational{Num: n, Den: d}
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index        int               `json:"index"`
	CodecName    string            `json:"codec_name"`
	CodecType    string            `json:"codec_type"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	RFrameRate   string            `json:"r_frame_rate"`
	NbFrames     string            `json:"nb_frames"`
	Duration     string            `json:"duration"`
	Disposition  map[string]int    `json:"disposition"`
	Tags         map[string]string `json:"tags"`
	SideData     []ffprobeSideData `json:"side_data_list"`
}

type ffprobeSideData struct {
	Type     string  `json:"side_data_type"`
	Rotation float64 `json:"rotation"`
}

// rotation returns the clockwise display rotation. The display matrix side
// data counts counterclockwise; the legacy rotate tag counts clockwise.
func (s *ffprobeStream) rotation() int {
	for _, sd := range s.SideData {
		if sd.Type == "Display Matrix" {
			return ports.NormalizeRotation(-int(math.Round(sd.Rotation)))
		}
	}
	if tag, ok := s.Tags["rotate"]; ok {
		return ports.NormalizeRotation(parseInt(tag))
	}
	return 0
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// Ensure Prober implements ports.VideoProber
var _ ports.VideoProber = (*Prober)(nil)
