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

// Package draft holds the user-editable working copy of a scanned tree
// and the structural edit operations that mutate it. Every operation
// either applies cleanly or leaves the draft untouched; precondition
// failures are reported as OutcomeUnchanged, never as errors, so callers
// driving the edits (scripts, UI gestures) can simply retry or move on.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reorgtool/reorg/pkg/tree"
)

// 🎯 Outcome tells a caller whether an edit operation changed the draft.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeApplied
)

func (o Outcome) String() string {
	if o == OutcomeApplied {
		return "applied"
	}
	return "unchanged"
}

// 📦 Workspace owns the two tree instances: original (last known-good
// state, read-only) and draft (the working copy every edit targets).
// Nothing outside this package may mutate either tree; the accessors hand
// out the live pointers for reading only.
type Workspace struct {
	original *tree.TreeNode
	draft    *tree.TreeNode
}

// 🏭 New creates a workspace from a freshly scanned tree.
func New(original *tree.TreeNode) *Workspace {
	w := &Workspace{}
	w.LoadOriginal(original)
	return w
}

// 🔄 LoadOriginal replaces both trees from a new snapshot, discarding any
// pending edits. Used after a successful apply or a fresh scan.
func (w *Workspace) LoadOriginal(t *tree.TreeNode) {
	w.original = tree.Clone(t)
	w.draft = tree.Clone(t)
}

// 🔄 ResetDraft discards all pending edits and recreates the draft from
// the original.
func (w *Workspace) ResetDraft() {
	w.draft = tree.Clone(w.original)
}

// Original returns the last known-good tree. Callers must not modify it.
func (w *Workspace) Original() *tree.TreeNode {
	return w.original
}

// Draft returns the working tree. Callers must not modify it.
func (w *Workspace) Draft() *tree.TreeNode {
	return w.draft
}

// ➡️ MoveNode relocates a node (and its subtree) under a target folder.
// Rejected when either id is missing, the target is not a folder, the node
// is the root, or the move would place a folder inside its own subtree.
func (w *Workspace) MoveNode(ctx context.Context, nodeID, targetFolderID string) Outcome {
	logger := zerolog.Ctx(ctx)

	if nodeID == targetFolderID {
		return OutcomeUnchanged
	}
	node := tree.FindByID(w.draft, nodeID)
	target := tree.FindByID(w.draft, targetFolderID)
	if node == nil || target == nil || !target.IsFolder() || node.IsRoot() {
		logger.Debug().Str("node", nodeID).Str("target", targetFolderID).Msg("move rejected")
		return OutcomeUnchanged
	}
	if node.IsFolder() && tree.ContainsID(node, targetFolderID) {
		logger.Debug().Str("node", nodeID).Str("target", targetFolderID).Msg("move rejected: target inside moved subtree")
		return OutcomeUnchanged
	}

	pruned, ok := tree.Detach(w.draft, nodeID)
	if !ok {
		return OutcomeUnchanged
	}
	moved := tree.Repath(node, target.RelativePath)
	w.draft = tree.Attach(pruned, targetFolderID, moved)

	logger.Debug().Str("node", nodeID).Str("target", targetFolderID).Msg("node moved")
	return OutcomeApplied
}

// 📁 CreateFolder adds an empty folder under the given parent. A name
// colliding with an existing direct child gets a one-based parenthesized
// counter: "name (1)", "name (2)", ... until unique.
func (w *Workspace) CreateFolder(ctx context.Context, parentFolderID, proposedName string) Outcome {
	logger := zerolog.Ctx(ctx)

	if proposedName == "" || strings.Contains(proposedName, "/") {
		return OutcomeUnchanged
	}
	parent := tree.FindByID(w.draft, parentFolderID)
	if parent == nil || !parent.IsFolder() {
		logger.Debug().Str("parent", parentFolderID).Msg("create rejected: parent is not a folder")
		return OutcomeUnchanged
	}

	name := uniqueChildName(parent, proposedName)
	folder := tree.NewFolder(parent.RelativePath, name)
	w.draft = tree.Attach(w.draft, parentFolderID, folder)

	logger.Debug().Str("parent", parentFolderID).Str("name", name).Msg("folder created")
	return OutcomeApplied
}

// 🗑️ DeleteFolder removes a node and its entire subtree from the draft.
// There is no confirmation and no recovery here; ResetDraft or a fresh
// scan is the way back.
func (w *Workspace) DeleteFolder(ctx context.Context, folderID string) Outcome {
	return w.detach(ctx, folderID, "deleted")
}

// 🚫 ExcludeNode drops a node from consideration. Structurally identical
// to deletion: the subtree simply leaves the draft.
func (w *Workspace) ExcludeNode(ctx context.Context, nodeID string) Outcome {
	return w.detach(ctx, nodeID, "excluded")
}

func (w *Workspace) detach(ctx context.Context, id, verb string) Outcome {
	pruned, ok := tree.Detach(w.draft, id)
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("node", id).Msg("detach rejected")
		return OutcomeUnchanged
	}
	w.draft = pruned
	zerolog.Ctx(ctx).Debug().Str("node", id).Msg("node " + verb)
	return OutcomeApplied
}

// ✏️ RenameFolder renames a folder in place, cascading the new path
// through every descendant. A sibling already carrying newName makes this
// a silent no-op — unlike CreateFolder, which auto-suffixes; the asymmetry
// is long-standing observed behavior, kept pending product clarification.
func (w *Workspace) RenameFolder(ctx context.Context, folderID, newName string) Outcome {
	logger := zerolog.Ctx(ctx)

	if newName == "" || strings.Contains(newName, "/") {
		return OutcomeUnchanged
	}
	node := tree.FindByID(w.draft, folderID)
	if node == nil || !node.IsFolder() || node.IsRoot() {
		logger.Debug().Str("node", folderID).Msg("rename rejected")
		return OutcomeUnchanged
	}
	if node.Name == newName {
		return OutcomeUnchanged
	}
	parent := tree.FindParentFolder(w.draft, folderID)
	if parent == nil {
		return OutcomeUnchanged
	}
	for _, sibling := range parent.Children {
		if sibling.ID != folderID && sibling.Name == newName {
			logger.Debug().Str("node", folderID).Str("name", newName).Msg("rename rejected: sibling name collision")
			return OutcomeUnchanged
		}
	}

	// In-place rewrite: the folder keeps its position among its siblings.
	updated := tree.Clone(w.draft)
	updatedParent := tree.FindByID(updated, parent.ID)
	if updatedParent == nil {
		return OutcomeUnchanged
	}
	for i, child := range updatedParent.Children {
		if child.ID == folderID {
			child.Name = newName
			updatedParent.Children[i] = tree.Repath(child, updatedParent.RelativePath)
			break
		}
	}
	w.draft = updated

	logger.Debug().Str("node", folderID).Str("name", newName).Msg("folder renamed")
	return OutcomeApplied
}

// uniqueChildName resolves create-time name collisions deterministically.
func uniqueChildName(parent *tree.TreeNode, proposed string) string {
	taken := make(map[string]bool, len(parent.Children))
	for _, child := range parent.Children {
		taken[child.Name] = true
	}
	if !taken[proposed] {
		return proposed
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", proposed, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
