package pipeline

import (
	"errors"
	"fmt"

	"github.com/jjant/elm-test-rs/internal/execution"
)

// Kind classifies why a stage failed
type Kind int

const (
	// KindUserInput covers bad flags and file patterns matching nothing
	KindUserInput Kind = iota + 1
	// KindEnvironment covers a missing project, unreadable files or assets
	KindEnvironment
	// KindProcessStart means an external tool could not be started
	KindProcessStart
	// KindProcessFailure means an external tool failed or produced bad output
	KindProcessFailure
	// KindInternal means an invariant of the generated project was broken
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user input error"
	case KindEnvironment:
		return "environment error"
	case KindProcessStart:
		return "process start error"
	case KindProcessFailure:
		return "process failure"
	case KindInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// StageError is the failure of one pipeline stage
type StageError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func fail(stage Stage, kind Kind, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// processFailure classifies an error returned by an external tool adapter
func processFailure(stage Stage, err error) error {
	if errors.Is(err, execution.ErrStart) {
		return fail(stage, KindProcessStart, err)
	}
	return fail(stage, KindProcessFailure, err)
}

// ExitStatus carries a non-zero supervisor exit code to the command boundary
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("tests exited with code %d", e.Code)
}

// ExitCode maps the result of a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}
	return 1
}

// KindOf returns the kind of a stage error, or 0 for other errors
func KindOf(err error) Kind {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind
	}
	return 0
}
