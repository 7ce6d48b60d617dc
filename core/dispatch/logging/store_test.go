package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistics-sim/fleetsim/core/model"
)

func sampleRecords() []model.AssignmentRecord {
	return []model.AssignmentRecord{
		{RunID: "r1", TaskID: "id_000", WorkerID: "amr-01", RawEtaSeconds: 12.5, SelectionScore: 12.5, Outcome: model.OutcomeAssigned, SimTime: 1},
		{RunID: "r1", TaskID: "id_001", WorkerID: "", Outcome: model.OutcomeUnresolvedLocation, SimTime: 2},
		{RunID: "r1", TaskID: "id_002", WorkerID: "op-01", RawEtaSeconds: 40, SelectionScore: 50, Outcome: model.OutcomeAssigned, SimTime: 3},
	}
}

func runStoreSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		require.NoError(t, store.Append(ctx, rec))
	}

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "id_000", all[0].TaskID, "append order must be preserved")
	assert.Equal(t, "id_002", all[2].TaskID)
	assert.Equal(t, 12.5, all[0].RawEtaSeconds)

	assigned, err := store.Query(ctx, Query{Outcome: model.OutcomeAssigned})
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	byWorker, err := store.Query(ctx, Query{WorkerID: "op-01"})
	require.NoError(t, err)
	require.Len(t, byWorker, 1)
	assert.Equal(t, "id_002", byWorker[0].TaskID)

	byTask, err := store.Query(ctx, Query{TaskID: "id_001", Outcome: model.OutcomeUnresolvedLocation})
	require.NoError(t, err)
	assert.Len(t, byTask, 1)

	none, err := store.Query(ctx, Query{TaskID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, store.Close())
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	runStoreSuite(t, store)
}

func TestJSONLStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, sampleRecords()[0]))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, store.Append(ctx, sampleRecords()[2]))

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	runStoreSuite(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, sampleRecords()[0]))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()
	all, err := reopened.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "id_000", all[0].TaskID)
}

func TestNewStoreSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	jsonl, err := NewStore(Config{Backend: "jsonl", Path: filepath.Join(dir, "a.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, jsonl)
	require.NoError(t, jsonl.Close())

	sqlite, err := NewStore(Config{Backend: "sqlite", Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqlite)
	require.NoError(t, sqlite.Close())

	_, err = NewStore(Config{Backend: "csv", Path: filepath.Join(dir, "a.csv")})
	assert.Error(t, err)
}
