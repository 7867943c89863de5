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

// 📁 NodeKind discriminates files from folders
type NodeKind string

const (
	KindFile   NodeKind = "file"
	KindFolder NodeKind = "folder"
)

// RootPath is the relative path (and id) of every tree's root node.
const RootPath = "."

// 🌳 TreeNode represents a file or folder in a scanned directory tree.
// The field names are the wire schema shared with the execution backend;
// ID always equals RelativePath.
type TreeNode struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Kind         NodeKind    `json:"type" yaml:"type"`
	RelativePath string      `json:"relative_path" yaml:"relative_path"`
	Size         *int64      `json:"size,omitempty" yaml:"size,omitempty"`
	Children     []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// 🔍 IsFolder reports whether the node is a folder.
func (n *TreeNode) IsFolder() bool {
	return n.Kind == KindFolder
}

// 🔍 IsRoot reports whether the node is the tree root.
func (n *TreeNode) IsRoot() bool {
	return n.RelativePath == RootPath
}

// 🧮 JoinPath computes a child's relative path from its parent's.
// The root's children live at bare names, everything else at parent/name.
func JoinPath(parentPath, name string) string {
	if parentPath == RootPath {
		return name
	}
	return parentPath + "/" + name
}

// 🏭 NewFolder creates an empty folder node under the given parent path.
func NewFolder(parentPath, name string) *TreeNode {
	path := JoinPath(parentPath, name)
	return &TreeNode{
		ID:           path,
		Name:         name,
		Kind:         KindFolder,
		RelativePath: path,
		Children:     []*TreeNode{},
	}
}

// 🏭 NewFile creates a file node under the given parent path.
func NewFile(parentPath, name string, size int64) *TreeNode {
	path := JoinPath(parentPath, name)
	return &TreeNode{
		ID:           path,
		Name:         name,
		Kind:         KindFile,
		RelativePath: path,
		Size:         &size,
	}
}

// 🚶 Walk visits the subtree rooted at n in pre-order (node before
// children, children in sequence order). The visit function returns false
// to stop the traversal early; Walk reports whether it ran to completion.
func Walk(n *TreeNode, visit func(*TreeNode) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, child := range n.Children {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}

// 📇 PreOrder returns every node of the tree in pre-order.
func PreOrder(root *TreeNode) []*TreeNode {
	var nodes []*TreeNode
	Walk(root, func(n *TreeNode) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}

// 📇 PathIndex builds a relative_path -> node map via pre-order traversal.
// Duplicate paths are an invariant violation; the first occurrence wins.
func PathIndex(root *TreeNode) map[string]*TreeNode {
	index := make(map[string]*TreeNode)
	Walk(root, func(n *TreeNode) bool {
		if _, ok := index[n.RelativePath]; !ok {
			index[n.RelativePath] = n
		}
		return true
	})
	return index
}
