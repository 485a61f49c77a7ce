// Copyright 2025 walteh LLC
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
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the configuration snapshot for a single sync run. It is
// supplied once per run and never mutated while the run is active.
type Config struct {
	SourcePath      string `json:"source" yaml:"source" hcl:"source"`
	DestinationPath string `json:"destination" yaml:"destination" hcl:"destination"`

	// Move removes source entries once their transfer is confirmed.
	Move bool `json:"move,omitempty" yaml:"move,omitempty" hcl:"move,optional"`
	// Invert swaps the source/destination roles for this run only.
	Invert bool `json:"invert,omitempty" yaml:"invert,omitempty" hcl:"invert,optional"`
	// IgnoreExisting skips entries already present at the destination.
	IgnoreExisting bool `json:"ignore_existing,omitempty" yaml:"ignore_existing,omitempty" hcl:"ignore_existing,optional"`
	// Compress enables in-flight compression where the tool supports it.
	Compress bool `json:"compress,omitempty" yaml:"compress,omitempty" hcl:"compress,optional"`
	// Delete removes destination entries that have no source counterpart.
	Delete bool `json:"delete,omitempty" yaml:"delete,omitempty" hcl:"delete,optional"`

	// Excludes are extra glob patterns handed to the tool's exclusion
	// flags, on top of the built-in OS metadata exclusions.
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty" hcl:"excludes,optional"`
}

// 🗺️ EffectivePaths are the source/destination actually used for the run.
// They equal the configured pair unless Invert is set, in which case the
// roles are swapped. Computed once at run start.
type EffectivePaths struct {
	Source      string
	Destination string
}

// 🎯 EffectivePaths resolves the configured paths for this run.
func (cfg *Config) EffectivePaths() EffectivePaths {
	if cfg.Invert {
		return EffectivePaths{Source: cfg.DestinationPath, Destination: cfg.SourcePath}
	}
	return EffectivePaths{Source: cfg.SourcePath, Destination: cfg.DestinationPath}
}

// 🔍 Validate checks the configuration before a run starts. A failure here
// means the run never spawns a process.
func (cfg *Config) Validate() error {
	if cfg.SourcePath == "" {
		return errors.Errorf("source is required")
	}
	if cfg.DestinationPath == "" {
		return errors.Errorf("destination is required")
	}

	cfg.SourcePath = filepath.Clean(cfg.SourcePath)
	cfg.DestinationPath = filepath.Clean(cfg.DestinationPath)

	paths := cfg.EffectivePaths()
	info, err := os.Stat(paths.Source)
	if err != nil {
		return errors.Errorf("source %q: %w", paths.Source, err)
	}
	if !info.IsDir() {
		return errors.Errorf("source %q is not a directory", paths.Source)
	}

	for _, pattern := range cfg.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	paths := cfg.EffectivePaths()
	mode := "copy"
	if cfg.Move {
		mode = "move"
	}
	return fmt.Sprintf("%s: %s -> %s", mode, paths.Source, paths.Destination)
}
