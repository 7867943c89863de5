// Copyright 2025 the reorg authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reorgtool/reorg/pkg/reconcile"
)

func TestMoverApply(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "docs/a.txt", ToPath: "archive/a.txt"},
	}, false)
	require.NoError(t, err, "apply should succeed")
	require.Len(t, results, 1, "one result per move")
	assert.Equal(t, StatusMoved, results[0].Status, "move should land via rename")

	assert.FileExists(t, filepath.Join(root, "archive", "a.txt"), "destination should exist")
	assert.NoFileExists(t, filepath.Join(root, "docs", "a.txt"), "source should be gone")
}

func TestMoverApplyDryRun(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "b.txt", ToPath: "moved.txt"},
	}, true)
	require.NoError(t, err, "apply should succeed")
	require.Len(t, results, 1, "one result per move")
	assert.Equal(t, StatusDryOK, results[0].Status, "viable moves report dry_ok")

	assert.FileExists(t, filepath.Join(root, "b.txt"), "dry run must not touch the source")
	assert.NoFileExists(t, filepath.Join(root, "moved.txt"), "dry run must not create the destination")
}

func TestMoverApplyDestinationExists(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "docs/a.txt", ToPath: "b.txt"},
	}, false)
	require.NoError(t, err, "apply should succeed")
	require.Len(t, results, 1, "one result per move")
	assert.Equal(t, StatusSkip, results[0].Status, "occupied destination should skip")
	assert.Equal(t, "destination_exists", results[0].Reason, "reason should name the conflict")

	assert.FileExists(t, filepath.Join(root, "docs", "a.txt"), "skipped source must stay put")
}

func TestMoverApplySourceMissing(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "ghost.txt", ToPath: "anywhere.txt"},
	}, false)
	require.NoError(t, err, "apply should succeed")
	require.Len(t, results, 1, "one result per move")
	assert.Equal(t, StatusError, results[0].Status, "missing source is an error")
	assert.Equal(t, "source_not_found", results[0].Reason, "reason should name the problem")
}

func TestMoverApplyDeepestFirst(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	// Listed shallow-first on purpose; execution must reorder so the file
	// inside docs moves before docs itself does.
	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "docs", ToPath: "papers"},
		{FromPath: "docs/sub/deep.txt", ToPath: "deep.txt"},
	}, false)
	require.NoError(t, err, "apply should succeed")
	require.Len(t, results, 2, "one result per move")

	assert.Equal(t, "docs/sub/deep.txt", results[0].FromPath, "deepest source runs first")
	assert.Equal(t, StatusMoved, results[0].Status, "file move should land")
	assert.Equal(t, "docs", results[1].FromPath, "shallow source runs last")
	assert.Equal(t, StatusMoved, results[1].Status, "folder move should land")

	assert.FileExists(t, filepath.Join(root, "deep.txt"), "extracted file should be at the root")
	assert.FileExists(t, filepath.Join(root, "papers", "a.txt"), "folder contents should follow the folder")
	assert.NoFileExists(t, filepath.Join(root, "papers", "sub", "deep.txt"), "extracted file must not travel with the folder")
}

func TestMoverApplyUnsafePathFailsBatch(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	_, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "b.txt", ToPath: "ok.txt"},
		{FromPath: "../escape.txt", ToPath: "x.txt"},
	}, false)
	require.Error(t, err, "unsafe path should fail the whole batch")
	assert.Contains(t, err.Error(), "invalid path", "error should name the problem")

	assert.FileExists(t, filepath.Join(root, "b.txt"), "no move may run when validation fails")
	assert.NoFileExists(t, filepath.Join(root, "ok.txt"), "no move may run when validation fails")
}

func TestMoverApplyCreatesParents(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t)

	results, err := NewMover(root).Apply(ctx, []reconcile.MoveEntry{
		{FromPath: "b.txt", ToPath: "a/b/c/b.txt"},
	}, false)
	require.NoError(t, err, "apply should succeed")
	assert.Equal(t, StatusMoved, results[0].Status, "move should land")
	assert.FileExists(t, filepath.Join(root, "a", "b", "c", "b.txt"), "intermediate folders should be created")
}

func TestMoveStatusSucceeded(t *testing.T) {
	assert.True(t, StatusMoved.Succeeded(), "moved counts as success")
	assert.True(t, StatusMovedFallback.Succeeded(), "fallback counts as success")
	assert.False(t, StatusDryOK.Succeeded(), "dry_ok is not a performed move")
	assert.False(t, StatusSkip.Succeeded(), "skip is not a performed move")
	assert.False(t, StatusError.Succeeded(), "error is not a performed move")
}

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 1, pathDepth("a"), "single segment")
	assert.Equal(t, 3, pathDepth("a/b/c"), "three segments")
}

func TestCopyRecursive(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0755), "creating source tree")
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "f.txt"), []byte("data"), 0600), "writing file")

	dst := filepath.Join(root, "dst")
	require.NoError(t, copyRecursive(src, dst), "copy should succeed")

	copied := filepath.Join(dst, "nested", "f.txt")
	require.FileExists(t, copied, "file should be copied")
	info, err := os.Stat(copied)
	require.NoError(t, err, "stat should succeed")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "file mode should be preserved")
}
