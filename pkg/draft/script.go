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

package draft

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Edit scripts: an ordered list of draft edits, read from a YAML or HCL
// file. They are how a non-interactive caller stages the edits a UI would
// otherwise produce gesture by gesture. Node references are ids (relative
// paths) as of the moment the step runs, so later steps see the effect of
// earlier ones.

// 📜 Step names a single draft edit.
type Step struct {
	Op     string `yaml:"op" json:"op"`
	Node   string `yaml:"node,omitempty" json:"node,omitempty"`     // move, rename, delete, exclude
	Target string `yaml:"target,omitempty" json:"target,omitempty"` // move: destination folder id
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"` // mkdir: parent folder id
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`     // mkdir, rename
}

// 📜 Script is an ordered sequence of steps.
type Script struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// 📊 Summary reports how a script application went. Skipped steps are the
// silent no-ops: their preconditions did not hold when they ran.
type Summary struct {
	Applied int
	Skipped int
}

// Supported step operations.
const (
	OpMove    = "move"
	OpMkdir   = "mkdir"
	OpRename  = "rename"
	OpDelete  = "delete"
	OpExclude = "exclude"
)

// 🎯 ParseScript loads and validates a script file, choosing the parser
// from the file extension.
func ParseScript(ctx context.Context, path string) (*Script, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading edit script")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading script file: %w", err)
	}

	var script *Script
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		script, err = parseYAMLScript(data)
	case strings.HasSuffix(path, ".hcl"):
		script, err = parseHCLScript(data)
	default:
		return nil, errors.Errorf("no script parser for file: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err := script.Validate(); err != nil {
		return nil, errors.Errorf("validating script: %w", err)
	}
	return script, nil
}

func parseYAMLScript(data []byte) (*Script, error) {
	var script Script
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, errors.Errorf("parsing YAML script: %w", err)
	}
	return &script, nil
}

// hclScript mirrors Script for gohcl decoding: one labeled block per step.
type hclScript struct {
	Steps []hclStep `hcl:"step,block"`
}

type hclStep struct {
	Op     string `hcl:"op,label"`
	Node   string `hcl:"node,optional"`
	Target string `hcl:"target,optional"`
	Parent string `hcl:"parent,optional"`
	Name   string `hcl:"name,optional"`
}

func parseHCLScript(data []byte) (*Script, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "script.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL script: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclScript
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL script: %s", diags.Error())
	}

	script := &Script{Steps: make([]Step, 0, len(raw.Steps))}
	for _, s := range raw.Steps {
		script.Steps = append(script.Steps, Step{
			Op:     s.Op,
			Node:   s.Node,
			Target: s.Target,
			Parent: s.Parent,
			Name:   s.Name,
		})
	}
	return script, nil
}

// 🔍 Validate checks that every step names a known op and carries the
// fields that op needs.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		switch step.Op {
		case OpMove:
			if step.Node == "" || step.Target == "" {
				return errors.Errorf("step %d: move requires node and target", i+1)
			}
		case OpMkdir:
			if step.Parent == "" || step.Name == "" {
				return errors.Errorf("step %d: mkdir requires parent and name", i+1)
			}
		case OpRename:
			if step.Node == "" || step.Name == "" {
				return errors.Errorf("step %d: rename requires node and name", i+1)
			}
		case OpDelete, OpExclude:
			if step.Node == "" {
				return errors.Errorf("step %d: %s requires node", i+1, step.Op)
			}
		default:
			return errors.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	return nil
}

// 🏃 Apply runs the script against the workspace draft, step by step.
func (s *Script) Apply(ctx context.Context, w *Workspace) Summary {
	logger := zerolog.Ctx(ctx)

	var summary Summary
	for i, step := range s.Steps {
		var outcome Outcome
		switch step.Op {
		case OpMove:
			outcome = w.MoveNode(ctx, step.Node, step.Target)
		case OpMkdir:
			outcome = w.CreateFolder(ctx, step.Parent, step.Name)
		case OpRename:
			outcome = w.RenameFolder(ctx, step.Node, step.Name)
		case OpDelete:
			outcome = w.DeleteFolder(ctx, step.Node)
		case OpExclude:
			outcome = w.ExcludeNode(ctx, step.Node)
		}

		if outcome == OutcomeApplied {
			summary.Applied++
		} else {
			summary.Skipped++
			logger.Debug().Int("step", i+1).Str("op", step.Op).Str("node", step.Node).Msg("script step skipped")
		}
	}
	return summary
}
