package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jjant/elm-test-rs/internal/pipeline"
	"github.com/jjant/elm-test-rs/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	deps       *Dependencies
	newBrowser func(formatter *ui.Formatter) ui.Browser
}

// NewListCommand creates a new ListCommand
func NewListCommand(deps *Dependencies) *ListCommand {
	return &ListCommand{
		deps: deps,
		newBrowser: func(formatter *ui.Formatter) ui.Browser {
			return ui.NewModuleBrowser(formatter)
		},
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.deps.Config
	root, err := pipeline.LoadProject(cfg)
	if err != nil {
		return err
	}

	modules, err := lc.deps.NewPipeline().Discover(cmd.Context(), root)
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		color.New(color.FgYellow).Fprintln(lc.deps.Stdout, "No test modules found")
		return nil
	}

	formatter := ui.NewFormatter(lc.deps.Stdout, root)
	if !cfg.Flags.Interactive {
		formatter.PrintModuleList(modules)
		return nil
	}

	selected, err := lc.newBrowser(formatter).Browse(modules)
	if err != nil {
		return err
	}
	if selected != nil {
		fmt.Fprintln(lc.deps.Stdout, "Run it with:", color.CyanString("elm-test-rs run %s", formatter.Relative(string(selected.Path))))
	}
	return nil
}
