package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type projectFile struct {
	Compiler string     `toml:"compiler"`
	Seed     uint32     `toml:"seed"`
	Fuzz     uint32     `toml:"fuzz"`
	Workers  uint32     `toml:"workers"`
	Report   string     `toml:"report"`
	Tools    toolsTable `toml:"tools"`
}

type toolsTable struct {
	Solver  string `toml:"solver"`
	Runtime string `toml:"runtime"`
}

func (c *Config) loadProjectFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	var pf projectFile
	meta, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("compiler") {
		c.Compiler = pf.Compiler
	}
	if meta.IsDefined("seed") {
		c.Seed = pf.Seed
	}
	if meta.IsDefined("fuzz") {
		c.FuzzRuns = pf.Fuzz
	}
	if meta.IsDefined("workers") {
		c.Workers = pf.Workers
	}
	if meta.IsDefined("report") {
		c.Report = pf.Report
	}
	if meta.IsDefined("tools", "solver") {
		c.Solver = pf.Tools.Solver
	}
	if meta.IsDefined("tools", "runtime") {
		c.Runtime = pf.Tools.Runtime
	}
	return nil
}

// loadEnv reads the project .env file without touching the process
// environment; variables already set in the process take precedence.
func (c *Config) loadEnv(path string) error {
	vars := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		vars, err = godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvCompiler); ok {
		c.Compiler = v
	}
	if v, ok := lookup(EnvSolver); ok {
		c.Solver = v
	}
	if v, ok := lookup(EnvRuntime); ok {
		c.Runtime = v
	}
	if v, ok := lookup(EnvAssets); ok {
		c.AssetsPath = v
	}
	return nil
}
