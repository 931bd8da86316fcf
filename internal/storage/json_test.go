package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jjant/elm-test-rs/internal/domain"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elm-stuff", "tests-0.19.1", "last-run.json")
	store := NewJSONStorage(path)

	modules := []domain.ModuleTests{
		{Path: "/p/tests/ExampleTest.elm", Module: "ExampleTest", Tests: []string{"suite", "fuzzSuite"}},
		{Path: "/p/tests/Nested/OtherTest.elm", Module: "Nested.OtherTest", Tests: []string{"all"}},
	}
	record := NewRecord(modules, 2, 1500*time.Millisecond)
	record.Seed = 42
	record.Reporter = "json"

	require.NoError(t, store.Save(record))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, record, loaded)
	require.Equal(t, 3, loaded.TotalTests)
	require.Equal(t, "Nested.OtherTest", loaded.Modules[1].Module)
	require.Equal(t, 1.5, loaded.DurationSeconds)

	_, err = uuid.Parse(loaded.ID)
	require.NoError(t, err)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	store := NewJSONStorage(filepath.Join(t.TempDir(), "last-run.json"))

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoRecord)
}

func TestJSONStorage_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-run.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewJSONStorage(path).Load()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoRecord)
}
