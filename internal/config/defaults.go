package config

const (
	// DefaultProjectPath is where the project root lookup starts
	DefaultProjectPath = "."
	// DefaultCompiler is the Elm compiler executable
	DefaultCompiler = "elm"
	// DefaultSolver is the dependency solver executable
	DefaultSolver = "elm-json"
	// DefaultRuntime is the JavaScript runtime hosting the supervisor
	DefaultRuntime = "node"
	// DefaultElmVersion names the generated project directory (tests-<version>)
	DefaultElmVersion = "0.19.1"
	// DefaultFuzzRuns is the number of fuzz iterations per fuzz test
	DefaultFuzzRuns = 100
	// DefaultReport is the default reporter
	DefaultReport = "console"
	// ProjectFile is the optional per-project settings file
	ProjectFile = "elm-test-rs.toml"
	// EnvFile is the optional per-project environment file
	EnvFile = ".env"
)

// Environment variables overriding tool locations
const (
	EnvCompiler = "ELM_TEST_RS_COMPILER"
	EnvSolver   = "ELM_TEST_RS_SOLVER"
	EnvRuntime  = "ELM_TEST_RS_RUNTIME"
	EnvAssets   = "ELM_TEST_RS_ROOT"
)
