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

// Package reconcile diffs an original tree against an edited draft and
// produces the minimal ordered list of moves that transforms the on-disk
// layout into the drafted one.
package reconcile

import (
	"github.com/reorgtool/reorg/pkg/tree"
)

// MoveEntry describes one relocation, as relative paths from the root.
// The field names are the wire schema shared with the execution backend.
type MoveEntry struct {
	FromPath string `json:"from_path" yaml:"from_path"`
	ToPath   string `json:"to_path" yaml:"to_path"`
}

// ComputeMoves compares original against draft and emits the moves needed
// to replay the draft's layout on disk. It is a pure function of its two
// inputs.
//
// A node is matched across the two trees by name and kind, not by a stable
// identifier (ids are paths, so they change with every move). When two
// siblings share a name and kind the first pre-order match wins; that
// ambiguity is inherent to the path-as-identity model and is resolved
// deterministically, never reported as an error.
//
// Entries are emitted in the original tree's pre-order, which fixes the
// replay order. Nodes that vanished from the draft (deletions, exclusions)
// produce no entry; newly created empty folders have nothing to move and
// are likewise invisible here.
func ComputeMoves(original, draft *tree.TreeNode) []MoveEntry {
	moves := []MoveEntry{}
	if original == nil || draft == nil {
		return moves
	}

	draftByPath := tree.PathIndex(draft)

	for _, node := range tree.PreOrder(original) {
		if node.IsRoot() {
			continue
		}
		path := node.RelativePath

		// Unmoved: same path, same name, same kind.
		if at, ok := draftByPath[path]; ok && at.Name == node.Name && at.Kind == node.Kind {
			continue
		}

		// Relocated: first pre-order name+kind match elsewhere in the draft.
		match := findRelocated(draft, node, path)
		if match == nil {
			// Deleted in the draft; deletions are not moves.
			continue
		}
		moves = append(moves, MoveEntry{FromPath: path, ToPath: match.RelativePath})
	}

	return moves
}

// findRelocated scans the draft in pre-order for a node with the same name
// and kind, skipping the root (never a move target or source) and the node
// sitting at the original path (already ruled out by the caller).
func findRelocated(draft *tree.TreeNode, node *tree.TreeNode, originalPath string) *tree.TreeNode {
	var match *tree.TreeNode
	tree.Walk(draft, func(n *tree.TreeNode) bool {
		if n.IsRoot() || n.RelativePath == originalPath {
			return true
		}
		if n.Name == node.Name && n.Kind == node.Kind {
			match = n
			return false
		}
		return true
	})
	return match
}

// MissingPaths returns the original paths that have no surviving
// counterpart in the draft: neither present at their own path nor matched
// as a relocation. These are draft deletions/exclusions; they are never
// part of the move list and are surfaced separately for preview purposes.
func MissingPaths(original, draft *tree.TreeNode) []string {
	missing := []string{}
	if original == nil || draft == nil {
		return missing
	}

	draftByPath := tree.PathIndex(draft)

	for _, node := range tree.PreOrder(original) {
		if node.IsRoot() {
			continue
		}
		path := node.RelativePath
		if at, ok := draftByPath[path]; ok && at.Name == node.Name && at.Kind == node.Kind {
			continue
		}
		if findRelocated(draft, node, path) == nil {
			missing = append(missing, path)
		}
	}

	return missing
}
