package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/jjant/elm-test-rs/internal/pipeline"
)

var stageLabels = map[pipeline.Stage]string{
	pipeline.StageValidate:        "Checking configuration",
	pipeline.StageDiscover:        "Looking for test files",
	pipeline.StageConfigure:       "Generating elm.json",
	pipeline.StageSolve:           "Solving dependencies",
	pipeline.StageCompileTests:    "Compiling test files",
	pipeline.StageFindTests:       "Finding exposed tests",
	pipeline.StageGenerateRunner:  "Generating runner",
	pipeline.StageCompileRunner:   "Compiling runner",
	pipeline.StagePatch:           "Patching compiled runner",
	pipeline.StageCompileReporter: "Compiling reporter",
	pipeline.StageGenerateControl: "Generating node modules",
	pipeline.StageSupervise:       "Running tests",
}

// StageLabel returns the human readable description of a stage
func StageLabel(stage pipeline.Stage) string {
	if label, ok := stageLabels[stage]; ok {
		return label
	}
	return string(stage)
}

// StageProgress reports pipeline stages. On a terminal it draws a progress
// bar that is cleared before the tests start printing, otherwise it writes
// one line per stage.
type StageProgress struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewStageProgress creates a StageProgress writing to out. The progress
// bar is only drawn when out is a terminal.
func NewStageProgress(out io.Writer) *StageProgress {
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newBarProgress(f)
	}
	return newLineProgress(out)
}

func newLineProgress(out io.Writer) *StageProgress {
	return &StageProgress{out: out}
}

func newBarProgress(out io.Writer) *StageProgress {
	bar := progressbar.NewOptions(len(pipeline.Stages),
		progressbar.OptionSetDescription(color.CyanString(StageLabel(pipeline.StageValidate))),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &StageProgress{bar: bar, out: out}
}

// OnStage implements pipeline.ProgressSink
func (p *StageProgress) OnStage(stage pipeline.Stage) {
	if p.bar == nil {
		color.New(color.FgCyan).Fprintf(p.out, "→ %s\n", StageLabel(stage))
		return
	}
	if stage == pipeline.StageSupervise {
		p.Finish()
		return
	}
	p.bar.Describe(color.CyanString(StageLabel(stage)))
	_ = p.bar.Set(stageIndex(stage))
}

// Finish clears the progress bar, if any
func (p *StageProgress) Finish() {
	if p.bar != nil && !p.bar.IsFinished() {
		_ = p.bar.Finish()
	}
}

func stageIndex(stage pipeline.Stage) int {
	for i, s := range pipeline.Stages {
		if s == stage {
			return i
		}
	}
	return 0
}
