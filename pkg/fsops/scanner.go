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

// Package fsops is the execution backend: it owns all filesystem I/O,
// turning a directory into a tree snapshot and a move list into renames.
// The structural core (pkg/tree, pkg/draft, pkg/reconcile) never touches
// the disk; this package is where its inputs come from and its outputs go.
package fsops

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/reorgtool/reorg/pkg/config"
	"github.com/reorgtool/reorg/pkg/tree"
)

// 🔭 Scanner builds tree snapshots of the configured root.
type Scanner struct {
	root    string
	ignore  []string
	workers int
}

// 🏭 NewScanner creates a scanner for the configured root.
func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{
		root:    cfg.Root,
		ignore:  cfg.IgnorePatterns,
		workers: cfg.MaxScanWorkers,
	}
}

// 🎯 Scan walks the root and returns its tree snapshot. Entries are
// ordered by name so repeated scans of an unchanged tree are identical.
// Symlinks, ignored patterns and unreadable entries are skipped with a
// log line rather than failing the scan.
func (s *Scanner) Scan(ctx context.Context) (*tree.TreeNode, error) {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return nil, errors.Errorf("resolving root path: %w", err)
	}

	info, err := os.Lstat(abs)
	if os.IsNotExist(err) {
		return nil, errors.Errorf("root path does not exist: %s", abs)
	}
	if err != nil {
		return nil, errors.Errorf("inspecting root path: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root path is not a directory: %s", abs)
	}

	root, err := s.scanDir(ctx, abs, tree.RootPath)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// scanDir scans one directory level. Subdirectories are scanned through a
// bounded errgroup; each child lands in its pre-allocated slot, so the
// output order stays the sorted ReadDir order regardless of scheduling.
func (s *Scanner) scanDir(ctx context.Context, absPath, relPath string) (*tree.TreeNode, error) {
	logger := zerolog.Ctx(ctx)

	node := &tree.TreeNode{
		ID:           relPath,
		Name:         filepath.Base(absPath),
		Kind:         tree.KindFolder,
		RelativePath: relPath,
		Children:     []*tree.TreeNode{},
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		// Unreadable directories stay in the tree as empty folders.
		logger.Warn().Str("path", absPath).Err(err).Msg("cannot read directory")
		return node, nil
	}

	children := make([]*tree.TreeNode, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, entry := range entries {
		childRel := tree.JoinPath(relPath, entry.Name())

		if s.ignored(ctx, childRel) {
			logger.Debug().Str("path", childRel).Msg("entry ignored by pattern")
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			logger.Warn().Str("path", childRel).Msg("skipping symlink")
			continue
		}

		if entry.IsDir() {
			i, entry := i, entry
			g.Go(func() error {
				child, err := s.scanDir(gctx, filepath.Join(absPath, entry.Name()), childRel)
				if err != nil {
					return err
				}
				children[i] = child
				return nil
			})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn().Str("path", childRel).Err(err).Msg("cannot stat entry")
			continue
		}
		children[i] = tree.NewFile(relPath, entry.Name(), info.Size())
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("scanning %s: %w", absPath, err)
	}

	for _, child := range children {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

// 🔍 ignored checks a relative path against the configured glob patterns.
func (s *Scanner) ignored(ctx context.Context, relPath string) bool {
	for _, pattern := range s.ignore {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", relPath).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
