package elmjson

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const applicationJSON = `{
    "type": "application",
    "source-directories": ["src"],
    "elm-version": "0.19.1",
    "dependencies": {
        "direct": {"elm/core": "1.0.5", "elm/html": "1.0.0"},
        "indirect": {"elm/json": "1.1.3", "elm/random": "1.0.0"}
    },
    "test-dependencies": {
        "direct": {"elm-explorations/test": "2.1.0", "elm/random": "1.0.0"},
        "indirect": {"elm/bytes": "1.0.8", "elm/json": "1.1.2"}
    }
}`

const packageJSON = `{
    "type": "package",
    "name": "author/project",
    "summary": "A package",
    "license": "BSD-3-Clause",
    "version": "1.0.0",
    "exposed-modules": ["Project"],
    "elm-version": "0.19.0 <= v < 0.20.0",
    "dependencies": {"elm/core": "1.0.0 <= v < 2.0.0"},
    "test-dependencies": {"elm-explorations/test": "2.0.0 <= v < 3.0.0"}
}`

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestParse(t *testing.T) {
	t.Run("application", func(t *testing.T) {
		cfg, err := Parse([]byte(applicationJSON))
		require.NoError(t, err)
		require.NotNil(t, cfg.Application)
		require.Nil(t, cfg.Package)
		require.Equal(t, []string{"src"}, cfg.Application.SourceDirectories)
	})

	t.Run("package", func(t *testing.T) {
		cfg, err := Parse([]byte(packageJSON))
		require.NoError(t, err)
		require.NotNil(t, cfg.Package)
		require.Equal(t, "author/project", cfg.Package.Name)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Parse([]byte(`{"type": "library"}`))
		require.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse([]byte(`type = "application"`))
		require.Error(t, err)
	})
}

func TestPackageToApplication(t *testing.T) {
	cfg, err := Parse([]byte(packageJSON))
	require.NoError(t, err)

	app, err := cfg.AsApplication("0.19.1")
	require.NoError(t, err)

	require.Equal(t, "application", app.Type)
	require.Equal(t, "0.19.1", app.ElmVersion)
	require.Equal(t, []string{"src"}, app.SourceDirectories)
	require.Equal(t, map[string]string{"elm/core": "1.0.0"}, app.Dependencies.Direct)
	require.Equal(t, map[string]string{"elm-explorations/test": "2.0.0"}, app.TestDependencies.Direct)
	require.NotNil(t, app.Dependencies.Indirect)
}

func TestPackageToApplication_BadConstraint(t *testing.T) {
	pkg := &PackageConfig{Dependencies: map[string]string{"elm/core": "latest"}}
	_, err := pkg.ToApplication("0.19.1")
	require.Error(t, err)
}

func TestPinConstraint(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
		wantErr    bool
	}{
		{constraint: "1.0.0 <= v < 2.0.0", want: "1.0.0"},
		{constraint: "1.2.3<=v<=1.2.3", want: "1.2.3"},
		{constraint: "1.0.0", wantErr: true},
		{constraint: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			got, err := PinConstraint(tt.constraint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPromoteTestDependencies(t *testing.T) {
	cfg, err := Parse([]byte(applicationJSON))
	require.NoError(t, err)
	app := cfg.Application

	collisions := app.PromoteTestDependencies()

	wantDirect := map[string]string{
		"elm/core":              "1.0.5",
		"elm/html":              "1.0.0",
		"elm-explorations/test": "2.1.0",
		"elm/random":            "1.0.0",
	}
	wantIndirect := map[string]string{
		"elm/json":  "1.1.3",
		"elm/bytes": "1.0.8",
	}
	if diff := cmp.Diff(wantDirect, app.Dependencies.Direct); diff != "" {
		t.Errorf("direct mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantIndirect, app.Dependencies.Indirect); diff != "" {
		t.Errorf("indirect mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, app.TestDependencies.Direct)
	require.Empty(t, app.TestDependencies.Indirect)

	require.Len(t, collisions, 1)
	require.Equal(t, Collision{Package: "elm/json", Version: "1.1.3", TestVersion: "1.1.2"}, collisions[0])
}

func TestPromoteTestDependencies_Idempotent(t *testing.T) {
	cfg, err := Parse([]byte(applicationJSON))
	require.NoError(t, err)
	app := cfg.Application

	app.PromoteTestDependencies()
	direct, indirect := keys(app.Dependencies.Direct), keys(app.Dependencies.Indirect)

	require.Empty(t, app.PromoteTestDependencies())
	require.Equal(t, direct, keys(app.Dependencies.Direct))
	require.Equal(t, indirect, keys(app.Dependencies.Indirect))
}

func TestMarshal_RoundTrip(t *testing.T) {
	app := &ApplicationConfig{SourceDirectories: []string{"../../tests", "src"}, ElmVersion: "0.19.1"}

	data, err := app.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), `"indirect": {}`)
	require.NotContains(t, string(data), "null")

	cfg, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, app.SourceDirectories, cfg.Application.SourceDirectories)
}

func TestParseDependencies(t *testing.T) {
	t.Run("solver output", func(t *testing.T) {
		deps, err := ParseDependencies([]byte(`{"direct": {"elm/core": "1.0.5"}, "indirect": {}}`))
		require.NoError(t, err)
		require.Equal(t, "1.0.5", deps.Direct["elm/core"])
	})

	malformed := []string{
		``,
		`error: no solution`,
		`{"direct": {"elm/core": 1}}`,
		`{"indirect": {}}`,
		`{"direct": {}, "unexpected": true}`,
	}
	for _, input := range malformed {
		t.Run("malformed "+input, func(t *testing.T) {
			_, err := ParseDependencies([]byte(input))
			require.True(t, errors.Is(err, ErrMalformedDependencies), "got %v", err)
		})
	}
}
