package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jjant/elm-test-rs/internal/elmjson"
)

// ExtraPackages must be in the solved dependencies because the generated
// runner and reporter modules import them.
var ExtraPackages = []string{
	"elm/core",
	"elm/json",
	"elm/time",
	"elm/random",
	"billstclair/elm-xml-eeue56",
	"jorgengranseth/elm-string-format",
}

// Solver invokes `elm-json solve` to compute a consistent dependency set
type Solver struct {
	runner *Runner
	path   string
}

// NewSolver creates a Solver for the executable at path
func NewSolver(runner *Runner, path string) *Solver {
	return &Solver{runner: runner, path: path}
}

// Solve returns the dependencies elm-json prints for the elm.json at
// configPath with extra packages forced in. Output that does not decode is
// reported as malformed whatever the exit status, since elm-json reports
// conflicts on stderr.
func (s *Solver) Solve(ctx context.Context, configPath string, extra []string) (elmjson.Dependencies, error) {
	args := []string{"solve", "--test", "--extra"}
	args = append(args, extra...)
	args = append(args, "--", configPath)

	var stdout bytes.Buffer
	runErr := s.runner.Run(ctx, filepath.Dir(configPath), &stdout, s.path, args...)
	if errors.Is(runErr, ErrStart) {
		return elmjson.Dependencies{}, runErr
	}

	deps, err := elmjson.ParseDependencies(stdout.Bytes())
	if err != nil {
		if runErr != nil {
			return elmjson.Dependencies{}, fmt.Errorf("%w (%v)", err, runErr)
		}
		return elmjson.Dependencies{}, err
	}
	if runErr != nil {
		return elmjson.Dependencies{}, runErr
	}
	return deps, nil
}
