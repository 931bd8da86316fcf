package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// ErrNoRecord is returned by Load when no run has been recorded yet
var ErrNoRecord = errors.New("no recorded run, use `elm-test-rs run` first")

// NewRecord builds the record of a finished run
func NewRecord(modules []domain.ModuleTests, exitCode int, duration time.Duration) *domain.RunRecord {
	runModules := make([]domain.RunModule, 0, len(modules))
	for _, m := range modules {
		runModules = append(runModules, domain.RunModule{
			Module: string(m.Module),
			Path:   string(m.Path),
			Tests:  m.Tests,
		})
	}
	return &domain.RunRecord{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().Format(time.RFC3339),
		Modules:         runModules,
		TotalTests:      domain.CountTests(modules),
		ExitCode:        exitCode,
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
	}
}

// Save writes the record, replacing any previous one.
func (s *JSONStorage) Save(record *domain.RunRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create record dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// Load reads the last run record.
func (s *JSONStorage) Load() (*domain.RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("read run record: %w", err)
	}
	var record domain.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse run record: %w", err)
	}
	return &record, nil
}
