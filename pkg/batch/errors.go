package batch

import (
	"errors"
	"fmt"

	"github.com/user/grainfx/pkg/pipeline"
)

var (
	// ErrInputDir is returned when the input directory cannot be listed.
	ErrInputDir = errors.New("batch: input directory unavailable")
	// ErrOutputDir is returned when the output directory cannot be created.
	ErrOutputDir = errors.New("batch: cannot create output directory")
	// ErrFilesFailed is returned by a continue-policy run with failures.
	ErrFilesFailed = errors.New("batch: some files failed")
	// ErrInvalidPolicy is returned for an unknown failure policy name.
	ErrInvalidPolicy = errors.New("batch: invalid failure policy")
)

// FileError reports the failure of one file.
type FileError struct {
	Name  string
	Stage string // step that failed, e.g. "load" or "encode"
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Name, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// newFileError wraps a stage error, taking the step name from a
// pipeline.StepError when there is one.
func newFileError(name string, err error) *FileError {
	fe := &FileError{Name: name, Stage: "process", Err: err}
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) {
		fe.Stage = stepErr.Step
		fe.Err = stepErr.Err
	}
	return fe
}
