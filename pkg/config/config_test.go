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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     *Config
		wantErr  bool
	}{
		{
			name:     "yaml_full",
			filename: "reorg.yaml",
			content: `
root: /data/library
lock_file: .custom.lock
ignore_patterns:
  - "**/*.log"
  - ".git"
max_scan_workers: 8
`,
			want: &Config{
				Root:           "/data/library",
				LockFile:       ".custom.lock",
				IgnorePatterns: []string{"**/*.log", ".git"},
				MaxScanWorkers: 8,
			},
		},
		{
			name:     "yaml_defaults",
			filename: "reorg.yml",
			content:  `root: /data/library`,
			want: &Config{
				Root:           "/data/library",
				LockFile:       DefaultLockFile,
				MaxScanWorkers: 4,
			},
		},
		{
			name:     "hcl_full",
			filename: "reorg.hcl",
			content: `
root             = "/data/library"
lock_file        = ".custom.lock"
ignore_patterns  = ["**/*.log"]
max_scan_workers = 2
`,
			want: &Config{
				Root:           "/data/library",
				LockFile:       ".custom.lock",
				IgnorePatterns: []string{"**/*.log"},
				MaxScanWorkers: 2,
			},
		},
		{
			name:     "missing_root",
			filename: "reorg.yaml",
			content:  `lock_file: x.lock`,
			wantErr:  true,
		},
		{
			name:     "unknown_yaml_field",
			filename: "reorg.yaml",
			content:  "root: /data\nbogus: true\n",
			wantErr:  true,
		},
		{
			name:     "unsupported_extension",
			filename: "reorg.toml",
			content:  `root = "/data"`,
			wantErr:  true,
		},
		{
			name:     "invalid_hcl",
			filename: "reorg.hcl",
			content:  `root = `,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644), "writing config fixture")

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				assert.Error(t, err, "load should fail")
				return
			}
			require.NoError(t, err, "load should succeed")
			assert.Equal(t, tt.want, cfg, "config should match")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := testContext(t)
	_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "missing file should fail")
}

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{Root: "/data/", MaxScanWorkers: -1}
	require.NoError(t, cfg.Validate(), "validate should succeed")
	assert.Equal(t, "/data", cfg.Root, "root should be cleaned")
	assert.Equal(t, DefaultLockFile, cfg.LockFile, "lock file should default")
	assert.Equal(t, 4, cfg.MaxScanWorkers, "workers should default")
}

func TestLockPath(t *testing.T) {
	cfg := &Config{Root: "/data", LockFile: ".reorg.lock"}
	assert.Equal(t, filepath.Join("/data", ".reorg.lock"), cfg.LockPath(), "relative lock file resolves under root")

	cfg.LockFile = "/var/run/reorg.lock"
	assert.Equal(t, "/var/run/reorg.lock", cfg.LockPath(), "absolute lock file is used as is")
}

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "simple", path: "a.txt", want: true},
		{name: "nested", path: "docs/a.txt", want: true},
		{name: "empty", path: "", want: false},
		{name: "absolute", path: "/etc/passwd", want: false},
		{name: "traversal", path: "../secret", want: false},
		{name: "embedded_traversal", path: "docs/../../secret", want: false},
		{name: "dot_in_name", path: "docs/..hidden", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateRelPath(tt.path), "validity should match")
		})
	}
}

func TestAbsPath(t *testing.T) {
	abs, err := AbsPath("/data", "docs/a.txt")
	require.NoError(t, err, "safe path should resolve")
	assert.Equal(t, filepath.Join("/data", "docs", "a.txt"), abs, "path should be joined under root")

	_, err = AbsPath("/data", "../escape")
	require.Error(t, err, "traversal should be rejected")
	assert.Contains(t, err.Error(), "invalid or unsafe path", "error should name the problem")
}
