package domain

import "fmt"

// Reporter is an output format understood by the supervisor
type Reporter string

const (
	ReporterConsole Reporter = "console"
	ReporterJSON    Reporter = "json"
	ReporterJUnit   Reporter = "junit"
)

// Reporters lists every accepted reporter in help order
var Reporters = []Reporter{ReporterConsole, ReporterJSON, ReporterJUnit}

// ParseReporter validates a --report value
func ParseReporter(value string) (Reporter, error) {
	for _, r := range Reporters {
		if string(r) == value {
			return r, nil
		}
	}
	return "", fmt.Errorf("wrong --report value: %q (expected one of console, json, junit)", value)
}
