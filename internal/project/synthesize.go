package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jjant/elm-test-rs/internal/elmjson"
)

// TestsDir is the implicit source directory holding the tests
const TestsDir = "tests"

// Synthesis is the generated project configuration before dependency solving
type Synthesis struct {
	Config *elmjson.ApplicationConfig
	// SourceRoots are the canonical source directories of the host project,
	// tests/ included, used to derive module names.
	SourceRoots []string
	Collisions  []elmjson.Collision
}

// Synthesize derives the generated project's elm.json from the host
// project's elm.json. Source directories are made relative to the
// generated root, tests/ plus the generated src/ and the helper library
// are added, and test dependencies are promoted.
func Synthesize(hostConfig []byte, layout Layout, elmVersion, helperSrc string) (*Synthesis, error) {
	parsed, err := elmjson.Parse(hostConfig)
	if err != nil {
		return nil, err
	}
	app, err := parsed.AsApplication(elmVersion)
	if err != nil {
		return nil, fmt.Errorf("could not convert package elm.json: %w", err)
	}

	dirs := append(append([]string{}, app.SourceDirectories...), TestsDir)
	roots := make([]string, 0, len(dirs))
	sourceDirs := make([]string, 0, len(dirs)+2)
	for _, dir := range dirs {
		canonical, err := canonicalDir(filepath.Join(layout.ProjectRoot, dir))
		if err != nil {
			return nil, fmt.Errorf("source directory %q: %w", dir, err)
		}
		rel, err := filepath.Rel(layout.Root, canonical)
		if err != nil {
			return nil, fmt.Errorf("could not get relative path of %s: %w", canonical, err)
		}
		roots = append(roots, canonical)
		sourceDirs = append(sourceDirs, filepath.ToSlash(rel))
	}
	sourceDirs = append(sourceDirs, "src", filepath.ToSlash(helperSrc))

	app.SourceDirectories = dedupe(sourceDirs)
	collisions := app.PromoteTestDependencies()

	return &Synthesis{Config: app, SourceRoots: dedupe(roots), Collisions: collisions}, nil
}

func canonicalDir(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", resolved)
	}
	return resolved, nil
}

// dedupe drops repeated entries, keeping the first occurrence. A project
// that already lists tests/ as a source directory would otherwise make
// every test module ambiguous.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
