package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reorgtool/reorg/pkg/fsops"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	return logger.WithContext(context.Background())
}

func newTestManager(t *testing.T) *Manager {
	return New(filepath.Join(t.TempDir(), ".reorg.lock"))
}

func TestPushPop(t *testing.T) {
	ctx := testContext(t)
	m := newTestManager(t)

	first := []reconcile.MoveEntry{{FromPath: "a.txt", ToPath: "docs/a.txt"}}
	second := []reconcile.MoveEntry{{FromPath: "b.txt", ToPath: "docs/b.txt"}}

	require.NoError(t, m.Push(ctx, first), "first push should succeed")
	require.NoError(t, m.Push(ctx, second), "second push should succeed")

	batch, ok, err := m.Pop(ctx)
	require.NoError(t, err, "pop should succeed")
	require.True(t, ok, "a batch should be available")
	assert.Equal(t, second, batch, "pop returns the newest batch")

	batch, ok, err = m.Pop(ctx)
	require.NoError(t, err, "pop should succeed")
	require.True(t, ok, "a batch should be available")
	assert.Equal(t, first, batch, "batches come back newest first")

	_, ok, err = m.Pop(ctx)
	require.NoError(t, err, "pop on an empty log should not error")
	assert.False(t, ok, "empty log has nothing to pop")
}

func TestPushEmptyBatch(t *testing.T) {
	ctx := testContext(t)
	m := newTestManager(t)

	require.NoError(t, m.Push(ctx, nil), "empty push should be a no-op")
	canUndo, pending, err := m.Status(ctx)
	require.NoError(t, err, "status should succeed")
	assert.False(t, canUndo, "empty batches are never recorded")
	assert.Zero(t, pending, "log should stay empty")
}

func TestStatus(t *testing.T) {
	ctx := testContext(t)
	m := newTestManager(t)

	canUndo, pending, err := m.Status(ctx)
	require.NoError(t, err, "status on a missing lock file should succeed")
	assert.False(t, canUndo, "nothing recorded yet")
	assert.Zero(t, pending, "count should be zero")

	require.NoError(t, m.Push(ctx, []reconcile.MoveEntry{{FromPath: "a", ToPath: "b"}}), "push should succeed")
	canUndo, pending, err = m.Status(ctx)
	require.NoError(t, err, "status should succeed")
	assert.True(t, canUndo, "a batch is pending")
	assert.Equal(t, 1, pending, "one batch recorded")
}

func TestLockFileRoundTrip(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), ".reorg.lock")
	batch := []reconcile.MoveEntry{{FromPath: "x", ToPath: "y"}}

	require.NoError(t, New(path).Push(ctx, batch), "push should succeed")

	// A fresh manager sees what the first one wrote.
	got, ok, err := New(path).Pop(ctx)
	require.NoError(t, err, "pop should succeed")
	require.True(t, ok, "batch should survive the round trip")
	assert.Equal(t, batch, got, "batch content should be preserved")

	data, err := os.ReadFile(path)
	require.NoError(t, err, "lock file should exist")
	assert.Contains(t, string(data), "last_updated", "lock file carries its timestamp")
}

func TestUndo(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755), "creating fixture dir")
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "a.txt"), []byte("abc"), 0644), "writing fixture file")

	m := newTestManager(t)
	// Record the move that produced the current layout.
	require.NoError(t, m.Push(ctx, []reconcile.MoveEntry{{FromPath: "a.txt", ToPath: "docs/a.txt"}}), "push should succeed")

	results, err := m.Undo(ctx, fsops.NewMover(root))
	require.NoError(t, err, "undo should succeed")
	require.Len(t, results, 1, "one reversal per recorded move")
	assert.Equal(t, fsops.StatusMoved, results[0].Status, "reversal should land")

	assert.FileExists(t, filepath.Join(root, "a.txt"), "file should be back at its original path")
	assert.NoFileExists(t, filepath.Join(root, "docs", "a.txt"), "applied path should be vacated")

	canUndo, _, err := m.Status(ctx)
	require.NoError(t, err, "status should succeed")
	assert.False(t, canUndo, "undone batch should leave the log")
}

func TestUndoEmptyLog(t *testing.T) {
	ctx := testContext(t)
	m := newTestManager(t)

	_, err := m.Undo(ctx, fsops.NewMover(t.TempDir()))
	require.Error(t, err, "empty log cannot be undone")
	assert.Contains(t, err.Error(), "no moves to undo", "error should name the problem")
}

func TestUndoFailureRestoresBatch(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	// The recorded destination never existed, so the reversal's source is
	// missing and the undo fails.
	m := newTestManager(t)
	batch := []reconcile.MoveEntry{{FromPath: "a.txt", ToPath: "ghost.txt"}}
	require.NoError(t, m.Push(ctx, batch), "push should succeed")

	results, err := m.Undo(ctx, fsops.NewMover(root))
	require.Error(t, err, "undo should report the failure")
	assert.Contains(t, err.Error(), "failed to undo", "error should name the problem")
	require.Len(t, results, 1, "results still describe what was attempted")
	assert.Equal(t, fsops.StatusError, results[0].Status, "reversal should have failed")

	// The batch must survive for a later retry.
	canUndo, pending, err := m.Status(ctx)
	require.NoError(t, err, "status should succeed")
	assert.True(t, canUndo, "failed undo keeps the batch")
	assert.Equal(t, 1, pending, "batch count should be unchanged")
}
