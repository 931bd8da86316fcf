package pipeline

// Stage names one step of the pipeline
type Stage string

const (
	StageValidate        Stage = "validate"
	StageDiscover        Stage = "discover"
	StageConfigure       Stage = "configure"
	StageSolve           Stage = "solve"
	StageCompileTests    Stage = "compile-tests"
	StageFindTests       Stage = "find-tests"
	StageGenerateRunner  Stage = "generate-runner"
	StageCompileRunner   Stage = "compile-runner"
	StagePatch           Stage = "patch"
	StageCompileReporter Stage = "compile-reporter"
	StageGenerateControl Stage = "generate-control"
	StageSupervise       Stage = "supervise"
)

// Stages lists every stage in execution order
var Stages = []Stage{
	StageValidate,
	StageDiscover,
	StageConfigure,
	StageSolve,
	StageCompileTests,
	StageFindTests,
	StageGenerateRunner,
	StageCompileRunner,
	StagePatch,
	StageCompileReporter,
	StageGenerateControl,
	StageSupervise,
}

// ProgressSink is told when each stage starts
type ProgressSink interface {
	OnStage(stage Stage)
}

type noProgress struct{}

func (noProgress) OnStage(Stage) {}
