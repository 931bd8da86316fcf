package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// SupervisorEntry is the supervisor module, relative to the generated root
const SupervisorEntry = "js/node_supervisor.js"

// ErrHandoff is returned when the runner path cannot be sent to the supervisor
var ErrHandoff = errors.New("failed to send runner path to supervisor")

// Supervisor starts the JavaScript runtime hosting the test supervisor
type Supervisor struct {
	runtime string
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.Logger
}

// NewSupervisor creates a Supervisor using the runtime executable
func NewSupervisor(runtime string, stdout, stderr io.Writer, logger *zap.Logger) *Supervisor {
	return &Supervisor{runtime: runtime, stdout: stdout, stderr: stderr, logger: logger}
}

// Launch starts the supervisor in dir, sends it the runner module path as
// a single line and waits for it to exit. The returned code is the
// supervisor's exit code, or 1 when no code can be obtained.
func (s *Supervisor) Launch(ctx context.Context, dir, runnerPath string) (int, error) {
	cmd := exec.CommandContext(ctx, s.runtime, SupervisorEntry)
	cmd.Dir = dir
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return 1, fmt.Errorf("%w: %s: %v", ErrStart, s.runtime, err)
	}
	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("%w: %s: %v", ErrStart, s.runtime, err)
	}
	s.logger.Debug("Supervisor started", zap.Int("pid", cmd.Process.Pid), zap.String("dir", dir))

	if _, err := io.WriteString(stdin, runnerPath+"\n"); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 1, fmt.Errorf("%w: %v", ErrHandoff, err)
	}
	if err := stdin.Close(); err != nil {
		s.logger.Debug("Closing supervisor stdin", zap.Error(err))
	}

	code := waitCode(cmd.Wait(), s.logger)
	s.logger.Debug("Supervisor exited", zap.Int("code", code))
	return code, nil
}

func waitCode(err error, logger *zap.Logger) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means the process was killed by a signal
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return 1
	}
	logger.Warn("Error attempting to wait for supervisor", zap.Error(err))
	return 1
}
