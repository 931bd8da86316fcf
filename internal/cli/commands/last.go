package commands

import (
	"github.com/spf13/cobra"

	"github.com/jjant/elm-test-rs/internal/pipeline"
	"github.com/jjant/elm-test-rs/internal/project"
	"github.com/jjant/elm-test-rs/internal/storage"
	"github.com/jjant/elm-test-rs/internal/ui"
)

// LastCommand handles the last command
type LastCommand struct {
	deps *Dependencies
}

// NewLastCommand creates a new LastCommand
func NewLastCommand(deps *Dependencies) *LastCommand {
	return &LastCommand{deps: deps}
}

// Execute prints the record saved by the previous run
func (lc *LastCommand) Execute(cmd *cobra.Command, args []string) error {
	root, err := pipeline.LoadProject(lc.deps.Config)
	if err != nil {
		return err
	}
	layout := project.NewLayout(root, lc.deps.Config.ElmVersion)
	record, err := storage.NewJSONStorage(layout.RunRecord()).Load()
	if err != nil {
		return err
	}
	ui.NewFormatter(lc.deps.Stdout, root).PrintRunRecord(record)
	return nil
}
