package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jjant/elm-test-rs/internal/pipeline"
	"github.com/jjant/elm-test-rs/internal/storage"
	"github.com/jjant/elm-test-rs/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	deps *Dependencies
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(deps *Dependencies) *RunCommand {
	return &RunCommand{deps: deps}
}

// Execute runs the pipeline. A non-zero exit code of the tests is returned
// as a *pipeline.ExitStatus.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.deps.Config
	root, err := pipeline.LoadProject(cfg)
	if err != nil {
		return err
	}

	p := rc.deps.NewPipeline()
	progress := ui.NewStageProgress(rc.deps.Stderr)
	p.SetProgress(progress)

	outcome, err := p.Run(cmd.Context(), root)
	progress.Finish()
	if err != nil {
		return err
	}

	record := storage.NewRecord(outcome.Modules, outcome.ExitCode, outcome.Duration)
	record.ProjectRoot = root
	record.Compiler = cfg.Compiler
	record.Seed = cfg.Seed
	record.FuzzRuns = cfg.FuzzRuns
	record.Workers = cfg.Workers
	record.Reporter = cfg.Report
	if err := storage.NewJSONStorage(outcome.Layout.RunRecord()).Save(record); err != nil {
		rc.deps.Logger.Warn("Failed to save run record", zap.Error(err))
	}

	if outcome.ExitCode != 0 {
		return &pipeline.ExitStatus{Code: outcome.ExitCode}
	}
	return nil
}
