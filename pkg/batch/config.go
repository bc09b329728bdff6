package batch

import (
	"fmt"
	"strings"
)

// Policy decides what happens after a file fails.
type Policy string

const (
	// PolicyAbort stops the run at the first failure.
	PolicyAbort Policy = "abort"
	// PolicyContinue records the failure and moves on to the next file.
	PolicyContinue Policy = "continue"
)

// ParsePolicy parses a policy name. The empty string selects PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyContinue:
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("%w: %q (want abort or continue)", ErrInvalidPolicy, s)
	}
}

// Config holds the per-run settings.
type Config struct {
	InputDir  string
	OutputDir string
	Policy    Policy
}
