package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/wish-santa/backend/internal/model/wish"
)

func TestAssignmentStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.json")
	store := NewAssignmentStore(path, nil)
	want := map[string]wish.Wish{
		"1.2.3.4": {Name: "A", Trigram: "AAA", Wish: "W1"},
		"Unknown": {Name: "B", Trigram: "BBB", Wish: "W2"},
	}

	require.NoError(t, store.Save(context.Background(), want))
	first := store.Load()
	require.NoError(t, store.Save(context.Background(), first))
	second := NewAssignmentStore(path, nil).Load()

	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestAssignmentStoreDocumentShape(t *testing.T) {
	path := writeFile(t, t.TempDir(), "assignments.json",
		`{"5.6.7.8":{"name":"B","trigram":"BBB","wish":"W2"}}`)

	got := NewAssignmentStore(path, nil).Load()

	assert.Equal(t, map[string]wish.Wish{"5.6.7.8": {Name: "B", Trigram: "BBB", Wish: "W2"}}, got)
}

func TestAssignmentStoreLoadMissingOrBroken(t *testing.T) {
	dir := t.TempDir()

	missing := NewAssignmentStore(filepath.Join(dir, "absent.json"), nil).Load()
	require.NotNil(t, missing)
	assert.Empty(t, missing)

	broken := NewAssignmentStore(writeFile(t, dir, "broken.json", `{"x":`), nil).Load()
	require.NotNil(t, broken)
	assert.Empty(t, broken)

	null := NewAssignmentStore(writeFile(t, dir, "null.json", `null`), nil).Load()
	require.NotNil(t, null)
	assert.Empty(t, null)
}

func TestAssignmentStoreSaveFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assignments.json")
	store := NewAssignmentStore(path, nil)
	original := map[string]wish.Wish{"a": {Name: "A"}}
	require.NoError(t, store.Save(context.Background(), original))

	// A directory where the file should be makes the final rename fail.
	blocked := NewAssignmentStore(filepath.Join(dir, "blocked"), nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocked", "child"), 0o755))
	err := blocked.Save(context.Background(), map[string]wish.Wish{"b": {Name: "B"}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp", "temp file left behind")
	}
	assert.Equal(t, original, store.Load())
}

func TestAssignmentStoreSaveMissingDirectory(t *testing.T) {
	store := NewAssignmentStore(filepath.Join(t.TempDir(), "missing", "assignments.json"), nil)

	assert.Error(t, store.Save(context.Background(), map[string]wish.Wish{}))
}

func TestAssignmentStoreSaveCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, NewAssignmentStore(path, nil).Save(ctx, map[string]wish.Wish{}), context.Canceled)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
