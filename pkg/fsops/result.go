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

// 📊 MoveStatus is the per-move outcome reported to callers. The values
// are the wire schema shared with every consumer of move results.
type MoveStatus string

const (
	StatusDryOK         MoveStatus = "dry_ok"
	StatusMoved         MoveStatus = "moved"
	StatusMovedFallback MoveStatus = "moved_fallback"
	StatusSkip          MoveStatus = "skip"
	StatusError         MoveStatus = "error"
)

// 🔍 Succeeded reports whether the move actually relocated anything.
func (s MoveStatus) Succeeded() bool {
	return s == StatusMoved || s == StatusMovedFallback
}

// 📄 MoveResult is the outcome of a single move operation.
type MoveResult struct {
	FromPath string     `json:"from_path" yaml:"from_path"`
	ToPath   string     `json:"to_path" yaml:"to_path"`
	Status   MoveStatus `json:"status" yaml:"status"`
	Reason   string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}
