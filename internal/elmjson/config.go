// Package elmjson reads and writes elm.json project files.
package elmjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedDependencies is returned when solver output is not a dependency set
var ErrMalformedDependencies = errors.New("wrongly formed dependencies")

const (
	typeApplication = "application"
	typePackage     = "package"
)

// Dependencies are exact package versions split by how they are required
type Dependencies struct {
	Direct   map[string]string `json:"direct"`
	Indirect map[string]string `json:"indirect"`
}

// ApplicationConfig is the elm.json of an application
type ApplicationConfig struct {
	Type              string       `json:"type"`
	SourceDirectories []string     `json:"source-directories"`
	ElmVersion        string       `json:"elm-version"`
	Dependencies      Dependencies `json:"dependencies"`
	TestDependencies  Dependencies `json:"test-dependencies"`
}

// PackageConfig is the elm.json of a package. Dependencies are constraints
// such as "1.0.0 <= v < 2.0.0".
type PackageConfig struct {
	Type             string            `json:"type"`
	Name             string            `json:"name"`
	Summary          string            `json:"summary"`
	License          string            `json:"license"`
	Version          string            `json:"version"`
	ExposedModules   json.RawMessage   `json:"exposed-modules"`
	ElmVersion       string            `json:"elm-version"`
	Dependencies     map[string]string `json:"dependencies"`
	TestDependencies map[string]string `json:"test-dependencies"`
}

// Config is either a package or an application; exactly one field is set
type Config struct {
	Package     *PackageConfig
	Application *ApplicationConfig
}

// Parse decodes an elm.json of either shape
func Parse(data []byte) (Config, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("invalid elm.json: %w", err)
	}

	switch head.Type {
	case typeApplication:
		var app ApplicationConfig
		if err := json.Unmarshal(data, &app); err != nil {
			return Config{}, fmt.Errorf("invalid application elm.json: %w", err)
		}
		app.normalize()
		return Config{Application: &app}, nil
	case typePackage:
		var pkg PackageConfig
		if err := json.Unmarshal(data, &pkg); err != nil {
			return Config{}, fmt.Errorf("invalid package elm.json: %w", err)
		}
		return Config{Package: &pkg}, nil
	default:
		return Config{}, fmt.Errorf("invalid elm.json: unknown type %q", head.Type)
	}
}

// AsApplication returns the application shape of the config, converting a
// package when needed.
func (c Config) AsApplication(elmVersion string) (*ApplicationConfig, error) {
	if c.Application != nil {
		return c.Application, nil
	}
	if c.Package != nil {
		return c.Package.ToApplication(elmVersion)
	}
	return nil, errors.New("empty elm.json config")
}

var constraintPattern = regexp.MustCompile(`^\s*(\d+\.\d+\.\d+)\s*<=?\s*v\s*<=?\s*(\d+\.\d+\.\d+)\s*$`)

// PinConstraint returns the lower bound of a package constraint
func PinConstraint(constraint string) (string, error) {
	m := constraintPattern.FindStringSubmatch(constraint)
	if m == nil {
		return "", fmt.Errorf("invalid version constraint %q", constraint)
	}
	return m[1], nil
}

// ToApplication converts a package config into an equivalent application.
// Name, version and exposed modules are dropped and every constraint is
// pinned to its lower bound. Dependency solving fixes the rest.
func (p *PackageConfig) ToApplication(elmVersion string) (*ApplicationConfig, error) {
	direct, err := pinAll(p.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	testDirect, err := pinAll(p.TestDependencies)
	if err != nil {
		return nil, fmt.Errorf("test-dependencies: %w", err)
	}

	app := &ApplicationConfig{
		Type:              typeApplication,
		SourceDirectories: []string{"src"},
		ElmVersion:        elmVersion,
		Dependencies:      Dependencies{Direct: direct},
		TestDependencies:  Dependencies{Direct: testDirect},
	}
	app.normalize()
	return app, nil
}

func pinAll(constraints map[string]string) (map[string]string, error) {
	pinned := make(map[string]string, len(constraints))
	for name, constraint := range constraints {
		v, err := PinConstraint(constraint)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pinned[name] = v
	}
	return pinned, nil
}

// Collision records a test dependency that was already a normal dependency
type Collision struct {
	Package     string
	Version     string
	TestVersion string
}

// PromoteTestDependencies moves test dependencies into the normal ones.
// A normal dependency always keeps its version. A test-direct package that
// was an indirect dependency becomes direct. Running it twice is a no-op.
func (a *ApplicationConfig) PromoteTestDependencies() []Collision {
	a.normalize()
	var collisions []Collision

	for name, version := range a.TestDependencies.Direct {
		if existing, ok := a.Dependencies.Direct[name]; ok {
			if existing != version {
				collisions = append(collisions, Collision{Package: name, Version: existing, TestVersion: version})
			}
			continue
		}
		if existing, ok := a.Dependencies.Indirect[name]; ok {
			if existing != version {
				collisions = append(collisions, Collision{Package: name, Version: existing, TestVersion: version})
			}
			delete(a.Dependencies.Indirect, name)
			a.Dependencies.Direct[name] = existing
			continue
		}
		a.Dependencies.Direct[name] = version
	}

	for name, version := range a.TestDependencies.Indirect {
		existing, inDirect := a.Dependencies.Direct[name]
		if !inDirect {
			existing, inDirect = a.Dependencies.Indirect[name]
		}
		if inDirect {
			if existing != version {
				collisions = append(collisions, Collision{Package: name, Version: existing, TestVersion: version})
			}
			continue
		}
		a.Dependencies.Indirect[name] = version
	}

	a.TestDependencies = Dependencies{Direct: map[string]string{}, Indirect: map[string]string{}}
	return collisions
}

// Marshal renders the config in elm.json form
func (a *ApplicationConfig) Marshal() ([]byte, error) {
	a.normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("marshal elm.json: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDependencies decodes the dependency set printed by the solver
func ParseDependencies(data []byte) (Dependencies, error) {
	var deps Dependencies
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&deps); err != nil {
		return Dependencies{}, fmt.Errorf("%w: %v", ErrMalformedDependencies, err)
	}
	if deps.Direct == nil {
		return Dependencies{}, fmt.Errorf("%w: missing direct dependencies", ErrMalformedDependencies)
	}
	if deps.Indirect == nil {
		deps.Indirect = map[string]string{}
	}
	return deps, nil
}

// normalize replaces nil maps so they serialize as {} rather than null
func (a *ApplicationConfig) normalize() {
	if a.Type == "" {
		a.Type = typeApplication
	}
	if a.SourceDirectories == nil {
		a.SourceDirectories = []string{}
	}
	for _, deps := range []*Dependencies{&a.Dependencies, &a.TestDependencies} {
		if deps.Direct == nil {
			deps.Direct = map[string]string{}
		}
		if deps.Indirect == nil {
			deps.Indirect = map[string]string{}
		}
	}
}
