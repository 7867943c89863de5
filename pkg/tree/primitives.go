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

package tree

// Structural primitives. Every operation here is a pure function: the
// input tree is never modified, the result is a fresh tree. Higher-level
// edit operations (pkg/draft) are compositions of these.

// 🧬 Clone returns a deep copy of the subtree rooted at n, sharing no
// mutable state with the source.
func Clone(n *TreeNode) *TreeNode {
	if n == nil {
		return nil
	}
	out := &TreeNode{
		ID:           n.ID,
		Name:         n.Name,
		Kind:         n.Kind,
		RelativePath: n.RelativePath,
	}
	if n.Size != nil {
		size := *n.Size
		out.Size = &size
	}
	if n.Children != nil {
		out.Children = make([]*TreeNode, 0, len(n.Children))
		for _, child := range n.Children {
			out.Children = append(out.Children, Clone(child))
		}
	}
	return out
}

// 🔍 FindByID returns the first node (pre-order) whose id matches, or nil.
func FindByID(root *TreeNode, id string) *TreeNode {
	var found *TreeNode
	Walk(root, func(n *TreeNode) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// 🔍 FindParentFolder returns the direct parent of the node with the given
// id, or nil if the node is the root or not present.
func FindParentFolder(root *TreeNode, id string) *TreeNode {
	var parent *TreeNode
	Walk(root, func(n *TreeNode) bool {
		for _, child := range n.Children {
			if child.ID == id {
				parent = n
				return false
			}
		}
		return true
	})
	return parent
}

// ✂️ Detach removes the subtree rooted at id and returns the resulting
// tree. It fails (nil, false) when id names the root itself or no node.
func Detach(root *TreeNode, id string) (*TreeNode, bool) {
	if root == nil || id == root.ID {
		return nil, false
	}
	if FindByID(root, id) == nil {
		return nil, false
	}
	return detachClone(root, id), true
}

func detachClone(n *TreeNode, id string) *TreeNode {
	out := Clone(n)
	out.Children = nil
	for _, child := range n.Children {
		if child.ID == id {
			continue
		}
		out.Children = append(out.Children, detachClone(child, id))
	}
	if n.Kind == KindFolder && out.Children == nil {
		out.Children = []*TreeNode{}
	}
	return out
}

// 📎 Attach appends newNode as the last child of the folder identified by
// parentID. If parentID does not resolve to an existing folder the tree is
// returned unchanged (modulo the copy); callers pre-validate.
func Attach(root *TreeNode, parentID string, newNode *TreeNode) *TreeNode {
	out := Clone(root)
	parent := FindByID(out, parentID)
	if parent == nil || !parent.IsFolder() {
		return out
	}
	parent.Children = append(parent.Children, Clone(newNode))
	return out
}

// 🧭 Repath recomputes relative_path/id for node against a new parent
// path, cascading through every descendant. This is the only way
// descendant paths are kept consistent after a move or rename.
func Repath(n *TreeNode, newParentPath string) *TreeNode {
	out := Clone(n)
	repathInPlace(out, newParentPath)
	return out
}

func repathInPlace(n *TreeNode, parentPath string) {
	path := JoinPath(parentPath, n.Name)
	n.RelativePath = path
	n.ID = path
	for _, child := range n.Children {
		repathInPlace(child, path)
	}
}

// 🔍 ContainsID reports whether id names the given node or any of its
// descendants. Used for cycle prevention when moving folders.
func ContainsID(n *TreeNode, id string) bool {
	return FindByID(n, id) != nil
}
