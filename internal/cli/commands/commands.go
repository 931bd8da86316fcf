package commands

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jjant/elm-test-rs/internal/cli"
	"github.com/jjant/elm-test-rs/internal/config"
	"github.com/jjant/elm-test-rs/internal/discovery"
	"github.com/jjant/elm-test-rs/internal/execution"
	"github.com/jjant/elm-test-rs/internal/logging"
	"github.com/jjant/elm-test-rs/internal/patch"
	"github.com/jjant/elm-test-rs/internal/pipeline"
)

// Dependencies are shared by the commands. The logger and the adapters
// depend on flags and project settings, so they are built once those are
// known.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewPipeline wires the external tools named by the loaded configuration
func (d *Dependencies) NewPipeline() *pipeline.Pipeline {
	cfg := d.Config
	runner := execution.NewRunner(d.Stderr, d.Logger)
	adapters := pipeline.Adapters{
		Compiler:   execution.NewCompiler(runner, cfg.Compiler),
		Solver:     execution.NewSolver(runner, cfg.Solver),
		Supervisor: execution.NewSupervisor(cfg.Runtime, d.Stdout, d.Stderr, d.Logger),
		Parser:     discovery.NewElmParser(),
	}
	return pipeline.New(cfg, adapters, patch.NewToken(), d.Logger)
}

// Commands holds all CLI commands
type Commands struct {
	deps *Dependencies
	Run  *RunCommand
	List *ListCommand
	Last *LastCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(deps *Dependencies) *Commands {
	return &Commands{
		deps: deps,
		Run:  NewRunCommand(deps),
		List: NewListCommand(deps),
		Last: NewLastCommand(deps),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, cli.FlagVerbose, "v", false, "Log every pipeline step to stderr")
	rootCmd.PersistentFlags().StringVar(&flags.Assets, cli.FlagAssets, "", "Directory holding the templates and the Elm helper library")

	// Config flags are only known after parsing, so the logger is built here
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.deps.Config.Flags = flags.ToConfigFlags(cmd, args)
		logger, err := logging.New(flags.Verbose)
		if err != nil {
			return err
		}
		c.deps.Logger = logger
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if c.deps.Logger != nil {
			_ = c.deps.Logger.Sync()
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [FILES...]",
		Short: "Compile and run Elm tests",
		Long: "Discover Elm test modules (tests/**/*.elm by default, or the given files and glob patterns), " +
			"compile them into a generated runner and execute it with node workers",
		RunE: c.Run.Execute,
	}
	runCmd.Flags().StringVar(&flags.Compiler, cli.FlagCompiler, config.DefaultCompiler, "Path to the Elm compiler")
	runCmd.Flags().Uint32Var(&flags.Seed, cli.FlagSeed, 0, "Initial random seed for fuzz tests (random by default)")
	runCmd.Flags().Uint32Var(&flags.FuzzRuns, cli.FlagFuzz, config.DefaultFuzzRuns, "Number of iterations of each fuzz test")
	runCmd.Flags().Uint32VarP(&flags.Workers, cli.FlagWorkers, "w", 0, "Number of worker threads (CPU count by default)")
	runCmd.Flags().StringVar(&flags.Report, cli.FlagReport, config.DefaultReport, "Report format: console, json or junit")
	runCmd.Flags().StringVarP(&flags.Filter, cli.FlagFilter, "f", "", "Only run test modules whose name matches (supports wildcards, e.g. 'Api.*')")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list [FILES...]",
		Short: "List discovered test modules",
		Long:  "Find test modules and their exposed tests without compiling or running anything",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, cli.FlagFilter, "f", "", "Only list test modules whose name matches (supports wildcards)")
	listCmd.Flags().BoolVarP(&flags.Interactive, cli.FlagInteractive, "i", false, "Browse the modules in an interactive viewer")
	rootCmd.AddCommand(listCmd)

	lastCmd := &cobra.Command{
		Use:   "last",
		Short: "Show the previous run",
		Long:  "Display the record of the last run, including the seed needed to reproduce it",
		Args:  cobra.NoArgs,
		RunE:  c.Last.Execute,
	}
	rootCmd.AddCommand(lastCmd)
}
