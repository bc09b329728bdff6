package batch

import (
	"time"

	"github.com/user/grainfx/pkg/pipeline"
)

// RunStats tracks what a run did.
type RunStats struct {
	Mode      string
	InputDir  string
	OutputDir string
	Policy    Policy
	Chain     string

	Listed      int
	Matched     int
	Processed   int
	Skipped     int
	Failed      int
	InputBytes  int64
	OutputBytes int64

	Started     time.Time
	Elapsed     time.Duration
	Interrupted bool

	Results      []pipeline.FileResult
	Failures     []*FileError
	SkippedNames []string
}

// Frames returns the number of video frames written across all results.
func (s *RunStats) Frames() int {
	n := 0
	for _, r := range s.Results {
		if r.Video != nil {
			n += r.Video.Frames
		}
	}
	return n
}
