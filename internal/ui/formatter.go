package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out         io.Writer
	projectRoot string
}

// NewFormatter creates a new Formatter. Paths are shown relative to projectRoot.
func NewFormatter(out io.Writer, projectRoot string) *Formatter {
	return &Formatter{
		out:         out,
		projectRoot: projectRoot,
	}
}

// PrintModuleList prints the discovered test modules as a tree with their
// exposed tests.
func (f *Formatter) PrintModuleList(modules []domain.ModuleTests) {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	color.New(color.FgGreen).Fprintf(f.out, "Found %d test module(s) with %d test(s):\n\n",
		len(modules), domain.CountTests(modules))

	for i, m := range modules {
		isLastModule := i == len(modules)-1
		branch, indent := "├── ", "│   "
		if isLastModule {
			branch, indent = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%s", branch, m.Module)
		fmt.Fprintf(f.out, " (%s)\n", f.Relative(string(m.Path)))

		if len(m.Tests) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", indent, red.Sprint("(no tests exposed)"))
			continue
		}
		for j, test := range m.Tests {
			leaf := "├── "
			if j == len(m.Tests)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, leaf, yellow.Sprint(test))
		}
	}
}

// PrintRunRecord prints the summary of a recorded run
func (f *Formatter) PrintRunRecord(record *domain.RunRecord) {
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                         Last Test Run                         ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	rows := []struct {
		label string
		value string
	}{
		{"Run ID", record.ID},
		{"Timestamp", record.Timestamp},
		{"Test Modules", fmt.Sprint(len(record.Modules))},
		{"Tests", fmt.Sprint(record.TotalTests)},
		{"Seed", fmt.Sprint(record.Seed)},
		{"Fuzz Runs", fmt.Sprint(record.FuzzRuns)},
		{"Workers", fmt.Sprint(record.Workers)},
		{"Reporter", record.Reporter},
		{"Duration", fmt.Sprintf("%.2fs", record.DurationSeconds)},
		{"Exit Code", fmt.Sprint(record.ExitCode)},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		white.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if record.ExitCode == 0 {
		color.New(color.FgGreen).Fprintln(f.out, "✓ All tests passed!")
	} else {
		color.New(color.FgRed).Fprintf(f.out, "✗ Tests exited with code %d\n", record.ExitCode)
	}
	fmt.Fprintln(f.out, "Rerun with the same seed:", cyan.Sprintf("elm-test-rs run --seed %d --fuzz %d", record.Seed, record.FuzzRuns))
}

// PrintError prints err in red
func (f *Formatter) PrintError(err error) {
	color.New(color.FgRed).Fprintf(f.out, "Error: %v\n", err)
}

// Relative returns path relative to the project root when it is inside it
func (f *Formatter) Relative(path string) string {
	if f.projectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(f.projectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
