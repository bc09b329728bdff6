// Package summarizer builds reports of batch runs.
package summarizer

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/user/grainfx/pkg/batch"
)

// Summary contains everything reported about one run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Mode        string    `json:"mode"`

	Run      RunInfo       `json:"run"`
	Settings Settings      `json:"settings"`
	Files    []FileInfo    `json:"files"`
	Failures []FailureInfo `json:"failures,omitempty"`
	Skipped  []string      `json:"skipped,omitempty"`
}

// RunInfo contains run-level counters.
type RunInfo struct {
	InputDir    string `json:"input_dir"`
	OutputDir   string `json:"output_dir"`
	Policy      string `json:"policy"`
	Listed      int    `json:"listed"`
	Processed   int    `json:"processed"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	Frames      int    `json:"frames,omitempty"`
	InputBytes  int64  `json:"input_bytes"`
	OutputBytes int64  `json:"output_bytes"`
	DurationMs  int64  `json:"duration_ms"`
	Interrupted bool   `json:"interrupted,omitempty"`
}

// Settings contains the processing configuration.
type Settings struct {
	Chain   string  `json:"chain"`
	Seed    *uint64 `json:"seed,omitempty"`
	Encoder string  `json:"encoder,omitempty"` // e.g. "libx264 preset medium crf 23"
	Quality int     `json:"jpeg_quality,omitempty"`
	FFmpeg  string  `json:"ffmpeg,omitempty"`
}

// FileInfo describes one output file.
type FileInfo struct {
	Name       string `json:"name"`
	Output     string `json:"output"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Bytes      int64  `json:"bytes"`
	DurationMs int64  `json:"duration_ms"`

	// Video only
	FrameRate string `json:"frame_rate,omitempty"`
	Frames    int    `json:"frames,omitempty"`
	HasAudio  bool   `json:"has_audio,omitempty"`
	Probe     string `json:"probe,omitempty"`
}

// FailureInfo describes one failed file.
type FailureInfo struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// NewSummary creates a new Summary with a fresh run id and the current
// timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithStats copies counters, per-file results and failures from a run.
func (b *Builder) WithStats(stats *batch.RunStats) *Builder {
	s := b.summary
	s.Mode = stats.Mode
	s.Run = RunInfo{
		InputDir:    stats.InputDir,
		OutputDir:   stats.OutputDir,
		Policy:      string(stats.Policy),
		Listed:      stats.Listed,
		Processed:   stats.Processed,
		Skipped:     stats.Skipped,
		Failed:      stats.Failed,
		Frames:      stats.Frames(),
		InputBytes:  stats.InputBytes,
		OutputBytes: stats.OutputBytes,
		DurationMs:  stats.Elapsed.Milliseconds(),
		Interrupted: stats.Interrupted,
	}
	if s.Settings.Chain == "" {
		s.Settings.Chain = stats.Chain
	}

	s.Files = make([]FileInfo, 0, len(stats.Results))
	for _, r := range stats.Results {
		f := FileInfo{
			Name:       r.Name,
			Output:     filepath.Base(r.Output),
			Width:      r.Width,
			Height:     r.Height,
			Bytes:      r.Bytes,
			DurationMs: r.Elapsed.Milliseconds(),
		}
		if v := r.Video; v != nil {
			f.FrameRate = v.FrameRate.String()
			f.Frames = v.Frames
			f.HasAudio = v.HasAudio
			f.Probe = v.Probe
		}
		s.Files = append(s.Files, f)
	}

	s.Failures = nil
	for _, fe := range stats.Failures {
		s.Failures = append(s.Failures, FailureInfo{Name: fe.Name, Stage: fe.Stage, Error: fe.Err.Error()})
	}
	s.Skipped = append([]string(nil), stats.SkippedNames...)
	return b
}

// WithSettings sets the processing configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
