package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T, elmJSON string, dirs ...string) string {
	t.Helper()
	root := canonicalTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(elmJSON), 0644))
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	return root
}

const appJSON = `{
    "type": "application",
    "source-directories": ["src", "lib"],
    "elm-version": "0.19.1",
    "dependencies": {"direct": {"elm/core": "1.0.5"}, "indirect": {}},
    "test-dependencies": {"direct": {"elm-explorations/test": "2.1.0"}, "indirect": {}}
}`

func TestSynthesize_Application(t *testing.T) {
	root := setupProject(t, appJSON, "src", "lib", "tests")
	layout := NewLayout(root, "0.19.1")

	syn, err := Synthesize([]byte(appJSON), layout, "0.19.1", "/opt/elm-test-rs/elm/src")
	require.NoError(t, err)

	require.Equal(t, []string{
		"../../src",
		"../../lib",
		"../../tests",
		"src",
		"/opt/elm-test-rs/elm/src",
	}, syn.Config.SourceDirectories)
	require.Equal(t, []string{
		filepath.Join(root, "src"),
		filepath.Join(root, "lib"),
		filepath.Join(root, "tests"),
	}, syn.SourceRoots)
	require.Equal(t, "2.1.0", syn.Config.Dependencies.Direct["elm-explorations/test"])
	require.Empty(t, syn.Config.TestDependencies.Direct)
}

func TestSynthesize_Package(t *testing.T) {
	pkgJSON := `{
    "type": "package",
    "name": "author/project",
    "summary": "",
    "license": "BSD-3-Clause",
    "version": "1.0.0",
    "exposed-modules": ["Project"],
    "elm-version": "0.19.0 <= v < 0.20.0",
    "dependencies": {"elm/core": "1.0.0 <= v < 2.0.0"},
    "test-dependencies": {"elm-explorations/test": "2.0.0 <= v < 3.0.0"}
}`
	root := setupProject(t, pkgJSON, "src", "tests")

	syn, err := Synthesize([]byte(pkgJSON), NewLayout(root, "0.19.1"), "0.19.1", "/opt/helpers")
	require.NoError(t, err)
	require.Equal(t, []string{"../../src", "../../tests", "src", "/opt/helpers"}, syn.Config.SourceDirectories)
	require.Equal(t, map[string]string{"elm/core": "1.0.0", "elm-explorations/test": "2.0.0"}, syn.Config.Dependencies.Direct)
}

func TestSynthesize_TestsAlreadyListed(t *testing.T) {
	cfg := `{"type": "application", "source-directories": ["src", "tests"], "elm-version": "0.19.1",
	"dependencies": {"direct": {}, "indirect": {}}, "test-dependencies": {"direct": {}, "indirect": {}}}`
	root := setupProject(t, cfg, "src", "tests")

	syn, err := Synthesize([]byte(cfg), NewLayout(root, "0.19.1"), "0.19.1", "/opt/helpers")
	require.NoError(t, err)
	require.Len(t, syn.SourceRoots, 2)
}

func TestSynthesize_Errors(t *testing.T) {
	t.Run("missing source directory", func(t *testing.T) {
		root := setupProject(t, appJSON, "src", "tests")
		_, err := Synthesize([]byte(appJSON), NewLayout(root, "0.19.1"), "0.19.1", "/opt/helpers")
		require.Error(t, err)
	})

	t.Run("missing tests directory", func(t *testing.T) {
		root := setupProject(t, appJSON, "src", "lib")
		_, err := Synthesize([]byte(appJSON), NewLayout(root, "0.19.1"), "0.19.1", "/opt/helpers")
		require.Error(t, err)
	})

	t.Run("malformed config", func(t *testing.T) {
		root := setupProject(t, appJSON, "src", "lib", "tests")
		_, err := Synthesize([]byte(`{"type":`), NewLayout(root, "0.19.1"), "0.19.1", "/opt/helpers")
		require.Error(t, err)
	})
}
