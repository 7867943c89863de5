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
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/reorgtool/reorg/pkg/config"
	"github.com/reorgtool/reorg/pkg/reconcile"
)

// 🚚 Mover executes move lists against the root directory.
type Mover struct {
	root string
}

// 🏭 NewMover creates a mover rooted at the given directory.
func NewMover(root string) *Mover {
	return &Mover{root: filepath.Clean(root)}
}

// 🎯 Apply performs the moves and reports a result per entry. Every path
// is validated up front; an unsafe path fails the whole batch before any
// file is touched. Moves run deepest-first so relocating a directory
// cannot invalidate a pending move inside it. With dryRun set nothing is
// touched and viable moves report dry_ok.
//
// Results come back in execution order (the depth-sorted order), one per
// input entry.
func (m *Mover) Apply(ctx context.Context, moves []reconcile.MoveEntry, dryRun bool) ([]MoveResult, error) {
	logger := zerolog.Ctx(ctx)

	for _, move := range moves {
		if !config.ValidateRelPath(move.FromPath) || !config.ValidateRelPath(move.ToPath) {
			return nil, errors.Errorf("invalid path in move: %s -> %s", move.FromPath, move.ToPath)
		}
	}

	sorted := make([]reconcile.MoveEntry, len(moves))
	copy(sorted, moves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pathDepth(sorted[i].FromPath) > pathDepth(sorted[j].FromPath)
	})

	results := make([]MoveResult, 0, len(sorted))
	for _, move := range sorted {
		results = append(results, m.applyOne(ctx, move, dryRun))
	}

	logger.Info().Int("moves", len(results)).Bool("dry_run", dryRun).Msg("move batch processed")
	return results, nil
}

func (m *Mover) applyOne(ctx context.Context, move reconcile.MoveEntry, dryRun bool) MoveResult {
	logger := zerolog.Ctx(ctx)
	result := MoveResult{FromPath: move.FromPath, ToPath: move.ToPath}

	fromAbs, err := config.AbsPath(m.root, move.FromPath)
	if err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}
	toAbs, err := config.AbsPath(m.root, move.ToPath)
	if err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}

	if _, err := os.Lstat(fromAbs); os.IsNotExist(err) {
		result.Status = StatusError
		result.Reason = "source_not_found"
		return result
	}

	if _, err := os.Lstat(toAbs); err == nil {
		result.Status = StatusSkip
		result.Reason = "destination_exists"
		return result
	}

	if dryRun {
		result.Status = StatusDryOK
		logger.Info().Str("from", move.FromPath).Str("to", move.ToPath).Msg("dry run: would move")
		return result
	}

	if err := os.MkdirAll(filepath.Dir(toAbs), 0755); err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}

	if err := os.Rename(fromAbs, toAbs); err == nil {
		result.Status = StatusMoved
		logger.Info().Str("from", move.FromPath).Str("to", move.ToPath).Msg("moved (rename)")
		return result
	}

	// Rename can fail across filesystems; fall back to copy + remove.
	if err := copyRecursive(fromAbs, toAbs); err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		logger.Error().Str("from", move.FromPath).Str("to", move.ToPath).Err(err).Msg("move failed")
		return result
	}
	if err := os.RemoveAll(fromAbs); err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		logger.Error().Str("from", move.FromPath).Err(err).Msg("removing source after copy")
		return result
	}

	result.Status = StatusMovedFallback
	result.Reason = "copy_fallback"
	logger.Info().Str("from", move.FromPath).Str("to", move.ToPath).Msg("moved (copy fallback)")
	return result
}

// pathDepth counts the non-empty segments of a relative path.
func pathDepth(path string) int {
	depth := 0
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			depth++
		}
	}
	return depth
}

// copyRecursive copies a file or directory tree, preserving file modes.
func copyRecursive(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("inspecting source: %w", err)
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Errorf("reading directory: %w", err)
	}
	for _, entry := range entries {
		if err := copyRecursive(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}
	return nil
}
