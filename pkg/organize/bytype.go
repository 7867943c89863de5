// Package organize generates move lists that group files into folders
// named after their extensions. The generated moves are applied to a
// draft through the structural edit operations, never through the
// reconciliation diff.
package organize

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reorgtool/reorg/pkg/draft"
	"github.com/reorgtool/reorg/pkg/reconcile"
	"github.com/reorgtool/reorg/pkg/tree"
)

// NoExtension is the folder name used for files without an extension.
const NoExtension = "no-extension"

// extension folders are short names like "mp3" or "pdf"; anything longer
// is assumed to be a regular folder.
const maxExtensionLen = 10

// FileExtension returns a file's extension, lowercased and without the
// dot, or NoExtension when there is none.
func FileExtension(name string) string {
	ext := path.Ext(name)
	// Dotfiles like ".bashrc" have no extension, only a name.
	if ext == "" || ext == "." || ext == name {
		return NoExtension
	}
	return strings.ToLower(ext[1:])
}

// GenerateMoves walks the tree and emits one move per file that is not
// already inside the extension folder it belongs to. Folders that look
// already organized (see isExtensionFolder) are not descended into, so
// repeated runs do not re-nest their contents.
func GenerateMoves(t *tree.TreeNode) []reconcile.MoveEntry {
	moves := []reconcile.MoveEntry{}
	if t == nil {
		return moves
	}
	for _, child := range t.Children {
		collectMoves(child, tree.RootPath, &moves)
	}
	return moves
}

func collectMoves(node *tree.TreeNode, basePath string, moves *[]reconcile.MoveEntry) {
	if !node.IsFolder() {
		ext := FileExtension(node.Name)
		targetPath := tree.JoinPath(tree.JoinPath(basePath, ext), node.Name)

		currentDir := path.Dir(node.RelativePath)
		targetDir := path.Dir(targetPath)
		if currentDir != targetDir {
			*moves = append(*moves, reconcile.MoveEntry{
				FromPath: node.RelativePath,
				ToPath:   targetPath,
			})
		}
		return
	}

	if len(node.Children) == 0 || isExtensionFolder(node) {
		return
	}
	for _, child := range node.Children {
		collectMoves(child, node.RelativePath, moves)
	}
}

// isExtensionFolder treats a folder as already organized when its name is
// a plausible extension and every direct child is a file carrying exactly
// that extension.
func isExtensionFolder(node *tree.TreeNode) bool {
	name := node.Name
	if name == NoExtension || len(name) > maxExtensionLen || strings.Contains(name, ".") {
		return false
	}
	for _, child := range node.Children {
		if child.IsFolder() || FileExtension(child.Name) != name {
			return false
		}
	}
	return len(node.Children) > 0
}

// ApplyToDraft replays a generated move list against the workspace draft:
// missing folders along each target directory are created first, then the
// node is moved. Moves whose target directory cannot be materialized (a
// file is in the way) or whose preconditions no longer hold are skipped.
func ApplyToDraft(ctx context.Context, w *draft.Workspace, moves []reconcile.MoveEntry) draft.Summary {
	logger := zerolog.Ctx(ctx)

	var summary draft.Summary
	for _, move := range moves {
		targetDir, ok := ensureFolder(ctx, w, path.Dir(move.ToPath))
		if !ok {
			summary.Skipped++
			logger.Debug().Str("to", move.ToPath).Msg("organize move skipped: target blocked")
			continue
		}
		if w.MoveNode(ctx, move.FromPath, targetDir) == draft.OutcomeApplied {
			summary.Applied++
		} else {
			summary.Skipped++
		}
	}
	return summary
}

// ensureFolder walks the target directory path segment by segment,
// creating folders that do not exist yet, and returns the folder id.
func ensureFolder(ctx context.Context, w *draft.Workspace, dir string) (string, bool) {
	if dir == "" || dir == tree.RootPath {
		return tree.RootPath, true
	}

	current := tree.RootPath
	for _, segment := range strings.Split(dir, "/") {
		childPath := tree.JoinPath(current, segment)
		existing := tree.FindByID(w.Draft(), childPath)
		if existing != nil {
			if !existing.IsFolder() {
				return "", false
			}
			current = childPath
			continue
		}
		if w.CreateFolder(ctx, current, segment) != draft.OutcomeApplied {
			return "", false
		}
		current = childPath
	}
	return current, true
}
