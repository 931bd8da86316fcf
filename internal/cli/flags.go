package cli

import (
	"github.com/spf13/cobra"

	"github.com/jjant/elm-test-rs/internal/config"
)

// Flag names shared by the commands
const (
	FlagCompiler    = "compiler"
	FlagSeed        = "seed"
	FlagFuzz        = "fuzz"
	FlagWorkers     = "workers"
	FlagReport      = "report"
	FlagFilter      = "filter"
	FlagAssets      = "assets"
	FlagInteractive = "interactive"
	FlagVerbose     = "verbose"
)

// Flags holds command-line flags
type Flags struct {
	Compiler    string
	Seed        uint32
	FuzzRuns    uint32
	Workers     uint32
	Report      string
	Filter      string
	Assets      string
	Interactive bool
	Verbose     bool
}

// ToConfigFlags converts CLI flags to config flags. Positional args are the
// test files or glob patterns. Only flags given on the command line override
// settings from the project file and the environment.
func (f *Flags) ToConfigFlags(cmd *cobra.Command, args []string) config.Flags {
	changed := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		return flag != nil && flag.Changed
	}
	return config.Flags{
		Compiler:    f.Compiler,
		CompilerSet: changed(FlagCompiler),
		Seed:        f.Seed,
		SeedSet:     changed(FlagSeed),
		FuzzRuns:    f.FuzzRuns,
		FuzzSet:     changed(FlagFuzz),
		Workers:     f.Workers,
		WorkersSet:  changed(FlagWorkers),
		Report:      f.Report,
		ReportSet:   changed(FlagReport),
		Assets:      f.Assets,
		Filter:      f.Filter,
		Files:       args,
		Interactive: f.Interactive,
		Verbose:     f.Verbose,
	}
}
