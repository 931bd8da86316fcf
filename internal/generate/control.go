package generate

import (
	"strconv"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// NodeRunnerReplacements fills node_runner.js, the module each worker loads
func NodeRunnerReplacements(polyfills string, seed, fuzzRuns uint32) map[string]string {
	return map[string]string{
		"polyfills":   polyfills,
		"initialSeed": strconv.FormatUint(uint64(seed), 10),
		"fuzzRuns":    strconv.FormatUint(uint64(fuzzRuns), 10),
	}
}

// SupervisorReplacements fills node_supervisor.js
func SupervisorReplacements(polyfills string, workers, seed, fuzzRuns uint32, reporter domain.Reporter) map[string]string {
	return map[string]string{
		"polyfills":   polyfills,
		"nb_workers":  strconv.FormatUint(uint64(workers), 10),
		"initialSeed": strconv.FormatUint(uint64(seed), 10),
		"fuzzRuns":    strconv.FormatUint(uint64(fuzzRuns), 10),
		"reporter":    string(reporter),
	}
}
