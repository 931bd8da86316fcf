package storage

import (
	"github.com/jjant/elm-test-rs/internal/domain"
)

// Storage persists and loads the record of the last run (used by `last`).
type Storage interface {
	Save(record *domain.RunRecord) error
	Load() (*domain.RunRecord, error)
}

// JSONStorage stores the run record as JSON in the generated project.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the record at path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}
