package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jjant/elm-test-rs/internal/config"
	"github.com/jjant/elm-test-rs/internal/discovery"
	"github.com/jjant/elm-test-rs/internal/domain"
	"github.com/jjant/elm-test-rs/internal/elmjson"
	"github.com/jjant/elm-test-rs/internal/execution"
	"github.com/jjant/elm-test-rs/internal/generate"
	"github.com/jjant/elm-test-rs/internal/patch"
	"github.com/jjant/elm-test-rs/internal/project"
)

// Compiler compiles Elm sources into output from within dir
type Compiler interface {
	Compile(ctx context.Context, dir, output string, sources []string) error
}

// Solver resolves the dependencies of the elm.json at configPath
type Solver interface {
	Solve(ctx context.Context, configPath string, extra []string) (elmjson.Dependencies, error)
}

// Supervisor runs the compiled tests and returns their exit code
type Supervisor interface {
	Launch(ctx context.Context, dir, runnerPath string) (int, error)
}

// Adapters are the external collaborators of the pipeline
type Adapters struct {
	Compiler   Compiler
	Solver     Solver
	Supervisor Supervisor
	Parser     discovery.TestParser
}

// Outcome is the result of a pipeline run that reached the supervisor
type Outcome struct {
	ExitCode int
	Modules  []domain.ModuleTests
	Layout   project.Layout
	Duration time.Duration
}

// Pipeline prepares, compiles and runs the tests of one project.
// Stages run strictly in order and the first failure stops the run.
type Pipeline struct {
	config   *config.Config
	adapters Adapters
	scanner  *discovery.Scanner
	filter   *discovery.Filter
	patcher  *patch.Patcher
	progress ProgressSink
	logger   *zap.Logger
}

// New creates a Pipeline. The token is passed to the patcher explicitly
// so that every run states which identity tag it injects.
func New(cfg *config.Config, adapters Adapters, token patch.Token, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		config:   cfg,
		adapters: adapters,
		scanner:  discovery.NewScanner(logger),
		filter:   discovery.NewFilter(),
		patcher:  patch.New(token),
		progress: noProgress{},
		logger:   logger,
	}
}

// SetProgress sets the sink notified at the start of each stage
func (p *Pipeline) SetProgress(progress ProgressSink) {
	if progress == nil {
		progress = noProgress{}
	}
	p.progress = progress
}

// LoadProject locates the Elm project above cfg.ProjectPath and layers the
// project's settings into cfg. It returns the canonical project root.
func LoadProject(cfg *config.Config) (string, error) {
	root, err := project.FindRoot(cfg.ProjectPath)
	if err != nil {
		return "", fail(StageValidate, KindEnvironment, err)
	}
	if err := cfg.Load(root); err != nil {
		return "", fail(StageValidate, KindEnvironment, err)
	}
	return root, nil
}

// Run executes every stage for the project at root
func (p *Pipeline) Run(ctx context.Context, root string) (*Outcome, error) {
	start := time.Now()

	p.progress.OnStage(StageValidate)
	reporter, err := domain.ParseReporter(p.config.Report)
	if err != nil {
		return nil, fail(StageValidate, KindUserInput, err)
	}
	if err := p.config.Validate(); err != nil {
		return nil, fail(StageValidate, KindUserInput, err)
	}

	p.progress.OnStage(StageDiscover)
	files, err := p.collect(root)
	if err != nil {
		return nil, err
	}

	p.progress.OnStage(StageConfigure)
	layout := project.NewLayout(root, p.config.ElmVersion)
	syn, err := p.synthesize(layout)
	if err != nil {
		return nil, err
	}
	if err := layout.Prepare(); err != nil {
		return nil, fail(StageConfigure, KindEnvironment, err)
	}
	if err := writeConfig(layout, syn.Config); err != nil {
		return nil, fail(StageConfigure, KindEnvironment, err)
	}

	p.progress.OnStage(StageSolve)
	deps, err := p.adapters.Solver.Solve(ctx, layout.ConfigPath(), execution.ExtraPackages)
	if err != nil {
		return nil, processFailure(StageSolve, err)
	}
	syn.Config.Dependencies = deps
	if err := writeConfig(layout, syn.Config); err != nil {
		return nil, fail(StageSolve, KindEnvironment, err)
	}
	p.logger.Debug("Dependencies solved",
		zap.Int("direct", len(deps.Direct)),
		zap.Int("indirect", len(deps.Indirect)))

	p.progress.OnStage(StageCompileTests)
	sources := make([]string, len(files))
	for i, f := range files {
		sources[i] = string(f)
	}
	if err := p.adapters.Compiler.Compile(ctx, layout.Root, os.DevNull, sources); err != nil {
		return nil, processFailure(StageCompileTests, err)
	}

	p.progress.OnStage(StageFindTests)
	modules, err := p.findTests(ctx, files, syn.SourceRoots)
	if err != nil {
		return nil, err
	}
	modules = p.filter.FilterByModule(modules, p.config.Flags.Filter)
	if len(modules) == 0 {
		return nil, fail(StageFindTests, KindUserInput, fmt.Errorf("no test module matches filter %q", p.config.Flags.Filter))
	}

	p.progress.OnStage(StageGenerateRunner)
	if err := p.render("Runner.elm", layout.RunnerSource(), generate.RunnerReplacements(modules)); err != nil {
		return nil, templateFailure(StageGenerateRunner, err)
	}

	p.progress.OnStage(StageCompileRunner)
	runnerSource, err := filepath.Rel(layout.Root, layout.RunnerSource())
	if err != nil {
		return nil, fail(StageCompileRunner, KindInternal, err)
	}
	if err := p.adapters.Compiler.Compile(ctx, layout.Root, layout.RunnerJS(), []string{filepath.ToSlash(runnerSource)}); err != nil {
		return nil, processFailure(StageCompileRunner, err)
	}

	p.progress.OnStage(StagePatch)
	patched, err := p.patcher.PatchFile(layout.RunnerJS())
	if err != nil {
		if errors.Is(err, patch.ErrPatternNotFound) {
			return nil, fail(StagePatch, KindInternal, err)
		}
		return nil, fail(StagePatch, KindEnvironment, err)
	}
	p.logger.Debug("Compiled runner patched",
		zap.Int("variants", patched.Variants),
		zap.Int("check_matches", patched.CheckMatches))
	if patched.CheckMatches > 1 {
		p.logger.Warn("Several check placeholders found, only the first was replaced", zap.Int("matches", patched.CheckMatches))
	}

	p.progress.OnStage(StageCompileReporter)
	reporterSource := p.config.GetTemplatePath("Reporter.elm")
	if err := p.adapters.Compiler.Compile(ctx, layout.Root, layout.ReporterJS(), []string{reporterSource}); err != nil {
		return nil, processFailure(StageCompileReporter, err)
	}

	p.progress.OnStage(StageGenerateControl)
	if err := p.generateControl(layout, reporter); err != nil {
		return nil, err
	}

	p.progress.OnStage(StageSupervise)
	code, err := p.adapters.Supervisor.Launch(ctx, layout.Root, layout.NodeRunner())
	if err != nil {
		return nil, processFailure(StageSupervise, err)
	}

	return &Outcome{
		ExitCode: code,
		Modules:  modules,
		Layout:   layout,
		Duration: time.Since(start),
	}, nil
}

// Discover finds test modules and their exposed tests without compiling
// anything. Module names are resolved against the host project's source
// directories.
func (p *Pipeline) Discover(ctx context.Context, root string) ([]domain.ModuleTests, error) {
	files, err := p.collect(root)
	if err != nil {
		return nil, err
	}
	syn, err := p.synthesize(project.NewLayout(root, p.config.ElmVersion))
	if err != nil {
		return nil, err
	}
	modules, err := p.findTests(ctx, files, syn.SourceRoots)
	if err != nil {
		return nil, err
	}
	return p.filter.FilterByModule(modules, p.config.Flags.Filter), nil
}

func (p *Pipeline) collect(root string) ([]domain.TestFile, error) {
	files, err := p.scanner.Collect(root, p.config.Flags.Files)
	if err != nil {
		return nil, fail(StageDiscover, KindUserInput, err)
	}
	if len(files) == 0 {
		return nil, fail(StageDiscover, KindUserInput, errors.New("no test files found"))
	}
	p.logger.Debug("Test files discovered", zap.Int("count", len(files)))
	return files, nil
}

func (p *Pipeline) synthesize(layout project.Layout) (*project.Synthesis, error) {
	hostConfig, err := os.ReadFile(filepath.Join(layout.ProjectRoot, project.ConfigFile))
	if err != nil {
		return nil, fail(StageConfigure, KindEnvironment, fmt.Errorf("unable to read elm.json: %w", err))
	}
	syn, err := project.Synthesize(hostConfig, layout, p.config.ElmVersion, p.config.GetHelperSourcePath())
	if err != nil {
		return nil, fail(StageConfigure, KindEnvironment, err)
	}
	for _, c := range syn.Collisions {
		p.logger.Warn("Test dependency already required with another version",
			zap.String("package", c.Package),
			zap.String("kept", c.Version),
			zap.String("test_version", c.TestVersion))
	}
	return syn, nil
}

func (p *Pipeline) findTests(ctx context.Context, files []domain.TestFile, roots []string) ([]domain.ModuleTests, error) {
	modules := make([]domain.ModuleTests, 0, len(files))
	for _, file := range files {
		module, err := discovery.ResolveModuleName(roots, file)
		if err != nil {
			return nil, fail(StageFindTests, KindInternal, err)
		}
		content, err := os.ReadFile(string(file))
		if err != nil {
			return nil, fail(StageFindTests, KindEnvironment, err)
		}
		tests, err := p.adapters.Parser.ExposedTests(ctx, content)
		if err != nil {
			return nil, fail(StageFindTests, KindInternal, fmt.Errorf("%s: %w", file, err))
		}
		p.logger.Debug("Module parsed", zap.String("module", string(module)), zap.Strings("tests", tests))
		modules = append(modules, domain.ModuleTests{Path: file, Module: module, Tests: tests})
	}
	return modules, nil
}

func (p *Pipeline) render(template, output string, replacements map[string]string) error {
	return generate.RenderFile(p.config.GetTemplatePath(template), output, replacements)
}

// generateControl writes the node runner and supervisor modules, each with
// the polyfills inlined.
func (p *Pipeline) generateControl(layout project.Layout, reporter domain.Reporter) error {
	polyfills, err := os.ReadFile(p.config.GetTemplatePath("node_polyfills.js"))
	if err != nil {
		return fail(StageGenerateControl, KindEnvironment, fmt.Errorf("unable to read polyfills: %w", err))
	}
	cfg := p.config
	runner := generate.NodeRunnerReplacements(string(polyfills), cfg.Seed, cfg.FuzzRuns)
	if err := p.render("node_runner.js", layout.NodeRunner(), runner); err != nil {
		return templateFailure(StageGenerateControl, err)
	}
	supervisor := generate.SupervisorReplacements(string(polyfills), cfg.Workers, cfg.Seed, cfg.FuzzRuns, reporter)
	if err := p.render("node_supervisor.js", layout.NodeSupervisor(), supervisor); err != nil {
		return templateFailure(StageGenerateControl, err)
	}
	return nil
}

func templateFailure(stage Stage, err error) error {
	if errors.Is(err, generate.ErrTemplateMismatch) {
		return fail(stage, KindInternal, err)
	}
	return fail(stage, KindEnvironment, err)
}

// writeConfig writes the generated elm.json. It is written once before
// solving so that the solver can read it, and again with the solution.
func writeConfig(layout project.Layout, cfg *elmjson.ApplicationConfig) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(layout.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("unable to write generated elm.json: %w", err)
	}
	return nil
}
