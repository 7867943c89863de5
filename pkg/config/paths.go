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

package config

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Path safety. Every path crossing into the filesystem layer is relative
// to the configured root and must stay inside it.

// 🔍 ValidateRelPath reports whether a relative path is safe to resolve
// against a root: no absolute paths, no traversal out of the tree.
func ValidateRelPath(rel string) bool {
	if rel == "" || strings.HasPrefix(rel, "/") {
		return false
	}
	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return false
		}
	}
	return true
}

// 🧮 AbsPath resolves a relative path within root, rejecting anything
// that would escape it.
func AbsPath(root, rel string) (string, error) {
	if !ValidateRelPath(rel) {
		return "", errors.Errorf("invalid or unsafe path: %s", rel)
	}
	abs := filepath.Join(root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(root)
	if abs != cleanRoot && !strings.HasPrefix(abs, cleanRoot+string(filepath.Separator)) {
		return "", errors.Errorf("invalid or unsafe path: %s", rel)
	}
	return abs, nil
}
