package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the Elm project configuration file
const ConfigFile = "elm.json"

// ErrNotElmProject is returned when no elm.json is found above the start directory
var ErrNotElmProject = errors.New("could not find elm.json in this directory or any parent")

// FindRoot walks up from start to the first directory containing elm.json
// and returns its canonical path.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNotElmProject, start)
		}
		dir = parent
	}
}

// Layout describes the generated project under elm-stuff. Every path is absolute.
type Layout struct {
	ProjectRoot string
	Root        string
}

// NewLayout returns the layout of elm-stuff/tests-<elmVersion> in projectRoot
func NewLayout(projectRoot, elmVersion string) Layout {
	return Layout{
		ProjectRoot: projectRoot,
		Root:        filepath.Join(projectRoot, "elm-stuff", "tests-"+elmVersion),
	}
}

// ConfigPath is the generated elm.json
func (l Layout) ConfigPath() string { return filepath.Join(l.Root, ConfigFile) }

// SrcDir holds generated Elm modules
func (l Layout) SrcDir() string { return filepath.Join(l.Root, "src") }

// JSDir holds compiled artifacts and control modules
func (l Layout) JSDir() string { return filepath.Join(l.Root, "js") }

// RunnerSource is the generated Runner.elm
func (l Layout) RunnerSource() string { return filepath.Join(l.SrcDir(), "Runner.elm") }

// RunnerJS is the compiled runner
func (l Layout) RunnerJS() string { return filepath.Join(l.JSDir(), "Runner.elm.js") }

// ReporterJS is the compiled reporter
func (l Layout) ReporterJS() string { return filepath.Join(l.JSDir(), "Reporter.elm.js") }

// NodeRunner is the worker control module handed to the supervisor
func (l Layout) NodeRunner() string { return filepath.Join(l.JSDir(), "node_runner.js") }

// NodeSupervisor is the supervisor control module
func (l Layout) NodeSupervisor() string { return filepath.Join(l.JSDir(), "node_supervisor.js") }

// RunRecord is where the summary of the last run is stored
func (l Layout) RunRecord() string { return filepath.Join(l.Root, "last-run.json") }

// Prepare creates the generated directories. Existing files are left for
// the pipeline to overwrite.
func (l Layout) Prepare() error {
	for _, dir := range []string{l.SrcDir(), l.JSDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
	}
	return nil
}
