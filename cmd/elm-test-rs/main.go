package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jjant/elm-test-rs/internal/cli"
	"github.com/jjant/elm-test-rs/internal/cli/commands"
	"github.com/jjant/elm-test-rs/internal/config"
	"github.com/jjant/elm-test-rs/internal/pipeline"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "elm-test-rs",
		Short:         "Fast Elm test runner",
		Long:          `Discover, compile and run the tests of an Elm project in parallel node workers. Test modules are found under tests/ unless files or glob patterns are given.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(&commands.Dependencies{
		Config: cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	cmds.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var status *pipeline.ExitStatus
	if err != nil && !errors.As(err, &status) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(pipeline.ExitCode(err))
}
