package domain

import "strings"

// TestFile is the canonical absolute path of an Elm source file containing tests
type TestFile string

// Module is a dotted Elm module name such as "Api.UserTest"
type Module string

// Segments returns the dot-separated parts of the module name
func (m Module) Segments() []string {
	return strings.Split(string(m), ".")
}

// TestEntry is one exposed test value of a module
type TestEntry struct {
	Module Module
	Name   string
}

// Qualified returns the fully-qualified reference to the test value
func (e TestEntry) Qualified() string {
	return string(e.Module) + "." + e.Name
}

// ModuleTests groups the exposed tests discovered in a single test file
type ModuleTests struct {
	Path   TestFile
	Module Module
	Tests  []string
}

// Entries expands the group into individual test entries
func (m ModuleTests) Entries() []TestEntry {
	entries := make([]TestEntry, 0, len(m.Tests))
	for _, name := range m.Tests {
		entries = append(entries, TestEntry{Module: m.Module, Name: name})
	}
	return entries
}

// CountTests returns the total number of tests across all modules
func CountTests(modules []ModuleTests) int {
	total := 0
	for _, m := range modules {
		total += len(m.Tests)
	}
	return total
}
