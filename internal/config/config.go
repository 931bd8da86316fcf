package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"

	"fortio.org/safecast"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	ElmVersion  string
	AssetsPath  string

	// External tools
	Compiler string
	Solver   string
	Runtime  string

	// Supervisor settings
	Seed     uint32
	FuzzRuns uint32
	Workers  uint32
	Report   string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags. The *Set fields record whether a flag was
// given explicitly so that it can override file and environment settings.
type Flags struct {
	Compiler    string
	CompilerSet bool
	Seed        uint32
	SeedSet     bool
	FuzzRuns    uint32
	FuzzSet     bool
	Workers     uint32
	WorkersSet  bool
	Report      string
	ReportSet   bool
	Assets      string
	Filter      string
	Files       []string
	Interactive bool
	Verbose     bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath: DefaultProjectPath,
		ElmVersion:  DefaultElmVersion,
		AssetsPath:  defaultAssetsPath(),
		Compiler:    DefaultCompiler,
		Solver:      DefaultSolver,
		Runtime:     DefaultRuntime,
		Seed:        rand.Uint32(),
		FuzzRuns:    DefaultFuzzRuns,
		Workers:     defaultWorkers(),
		Report:      DefaultReport,
	}
}

// Load layers the project file, the environment and the flags over the
// defaults, in increasing order of precedence.
func (c *Config) Load(projectRoot string) error {
	if err := c.loadProjectFile(filepath.Join(projectRoot, ProjectFile)); err != nil {
		return err
	}
	if err := c.loadEnv(filepath.Join(projectRoot, EnvFile)); err != nil {
		return err
	}
	c.applyFlags()

	// The generated project is compiled from its own directory, so a
	// relative asset root would point elsewhere.
	assets, err := filepath.Abs(c.AssetsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve assets path %s: %w", c.AssetsPath, err)
	}
	c.AssetsPath = assets
	return nil
}

func (c *Config) applyFlags() {
	f := c.Flags
	if f.CompilerSet {
		c.Compiler = f.Compiler
	}
	if f.SeedSet {
		c.Seed = f.Seed
	}
	if f.FuzzSet {
		c.FuzzRuns = f.FuzzRuns
	}
	if f.WorkersSet {
		c.Workers = f.Workers
	}
	if f.ReportSet {
		c.Report = f.Report
	}
	if f.Assets != "" {
		c.AssetsPath = f.Assets
	}
}

// GetTemplatePath returns the path of a template shipped with the assets
func (c *Config) GetTemplatePath(name string) string {
	return filepath.Join(c.AssetsPath, "templates", name)
}

// GetHelperSourcePath returns the Elm helper library source directory
func (c *Config) GetHelperSourcePath() string {
	return filepath.Join(c.AssetsPath, "elm", "src")
}

// Validate checks values that cannot be fixed up later
func (c *Config) Validate() error {
	if c.Workers == 0 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Compiler == "" {
		return fmt.Errorf("compiler must not be empty")
	}
	return nil
}

func defaultWorkers() uint32 {
	n, err := safecast.Conv[uint32](runtime.NumCPU())
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// defaultAssetsPath is the directory of the running executable, with
// symlinks resolved so that package-manager shims find the real install.
func defaultAssetsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
