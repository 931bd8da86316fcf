package execution

import "context"

// Compiler invokes `elm make` without --optimize
type Compiler struct {
	runner *Runner
	path   string
}

// NewCompiler creates a Compiler for the executable at path
func NewCompiler(runner *Runner, path string) *Compiler {
	return &Compiler{runner: runner, path: path}
}

// Compile compiles sources into output from within dir. Compiler output
// other than diagnostics is discarded.
func (c *Compiler) Compile(ctx context.Context, dir, output string, sources []string) error {
	args := append([]string{"make", "--output=" + output}, sources...)
	return c.runner.Run(ctx, dir, nil, c.path, args...)
}
