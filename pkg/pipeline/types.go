package pipeline

import (
	"errors"
	"time"

	"github.com/user/grainfx/pkg/ports"
)

// =============================================================================
// File Stage Types
// =============================================================================

// FileJob names one input file and where its output goes.
type FileJob struct {
	Name   string // base name of the input, used in logs and previews
	Source string // full path of the input file
	Dest   string // full path of the output file
}

// FileResult describes a finished output file.
type FileResult struct {
	Name    string
	Output  string
	Width   int
	Height  int
	Bytes   int64
	Elapsed time.Duration
	Video   *VideoResult // nil for still images
	Chain   string       // effect chain applied, e.g. "distortion > grain"
}

// VideoResult carries the clip metadata preserved from source to output.
type VideoResult struct {
	FrameRate ports.Rational
	Frames    int
	HasAudio  bool
	Probe     string // prober that produced the metadata
}

// FileStage processes one file.
type FileStage = Stage[FileJob, FileResult]

// Step names used in StepError.
const (
	StepLoad    = "load"
	StepProbe   = "probe"
	StepDecode  = "decode"
	StepEncode  = "encode"
	StepSave    = "save"
	StepPreview = "preview"
)

// StepError records which step of a file stage failed. Partial is set
// when the step ran after the destination file was opened, so it may hold
// a partial output.
type StepError struct {
	Step    string
	Err     error
	Partial bool
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a StepError. A nil err returns nil.
func Fail(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// FailPartial is Fail for steps that run after the destination file was
// opened for writing.
func FailPartial(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err, Partial: true}
}

// LeftPartial reports whether err came from a step that may have left a
// partial destination file. Errors from earlier steps, and untagged
// errors, never touched it.
func LeftPartial(err error) bool {
	var se *StepError
	return errors.As(err, &se) && se.Partial
}
