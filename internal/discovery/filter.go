package discovery

import (
	"path/filepath"
	"strings"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// Filter restricts which modules are included in the runner
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByModule keeps modules whose dotted name matches pattern.
// Patterns support "*" and "?" (e.g. "Api.*" or "*User*"); a pattern without
// wildcards matches any module containing it.
func (f *Filter) FilterByModule(modules []domain.ModuleTests, pattern string) []domain.ModuleTests {
	if pattern == "" {
		return modules
	}

	var filtered []domain.ModuleTests
	for _, m := range modules {
		if matchModule(pattern, string(m.Module)) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func matchModule(pattern, name string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	// Module names contain no separators, so "*" also crosses dots.
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}
