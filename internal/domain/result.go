package domain

// RunModule summarizes a module included in a run
type RunModule struct {
	Module string   `json:"module"`
	Path   string   `json:"path"`
	Tests  []string `json:"tests"`
}

// RunRecord is the persisted summary of the last pipeline run
type RunRecord struct {
	ID              string      `json:"id"`
	Timestamp       string      `json:"timestamp"`
	ProjectRoot     string      `json:"project_root"`
	Compiler        string      `json:"compiler"`
	Seed            uint32      `json:"seed"`
	FuzzRuns        uint32      `json:"fuzz_runs"`
	Workers         uint32      `json:"workers"`
	Reporter        string      `json:"reporter"`
	Modules         []RunModule `json:"modules"`
	TotalTests      int         `json:"total_tests"`
	ExitCode        int         `json:"exit_code"`
	Duration        string      `json:"duration"`
	DurationSeconds float64     `json:"duration_seconds"`
}
