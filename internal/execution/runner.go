package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrStart is returned when an external command cannot be started
var ErrStart = errors.New("command failed to start")

// ExitError reports an external command that exited unsuccessfully
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Runner executes external tools with the stdio policy of the pipeline:
// stdin closed, stdout captured or discarded, stderr passed through.
type Runner struct {
	stderr io.Writer
	logger *zap.Logger
}

// NewRunner creates a new Runner writing tool diagnostics to stderr
func NewRunner(stderr io.Writer, logger *zap.Logger) *Runner {
	return &Runner{stderr: stderr, logger: logger}
}

// Run executes name with args in dir. A nil stdout discards the output.
func (r *Runner) Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("Running command",
		zap.String("command", name),
		zap.String("args", strings.Join(args, " ")),
		zap.String("dir", dir))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Debug("Command failed", zap.String("command", name), zap.Int("code", exitErr.ExitCode()))
		return &ExitError{Command: name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("%w: %s: %v", ErrStart, name, err)
}
