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

package tool

import (
	"os/exec"

	"github.com/walteh/syncrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🪟 windowsCopy drives robocopy: recurse including empty directories,
// suppress the per-job headers, and exclude reparse points so junction
// loops cannot recurse.
type windowsCopy struct{}

func (t *windowsCopy) Kind() Kind   { return KindWindowsCopy }
func (t *windowsCopy) Name() string { return "robocopy" }

// Build produces the robocopy invocation for one run.
func (t *windowsCopy) Build(paths config.EffectivePaths, cfg *config.Config) ([]string, []string, error) {
	binary, err := exec.LookPath("robocopy")
	if err != nil {
		return nil, nil, errors.Errorf("%w: robocopy not in PATH", ErrNotFound)
	}

	args, warnings := t.arguments(paths, cfg)
	return append([]string{binary}, args...), warnings, nil
}

// arguments builds everything after the binary. Pure given its inputs.
func (t *windowsCopy) arguments(paths config.EffectivePaths, cfg *config.Config) ([]string, []string) {
	var warnings []string

	argv := []string{paths.Source, paths.Destination, "/E", "/NJH", "/NJS", "/XJ"}
	for _, pattern := range cfg.Excludes {
		argv = append(argv, "/XF", pattern)
	}

	if cfg.Move {
		argv = append(argv, "/MOV")
	}
	if cfg.IgnoreExisting {
		// Closest robocopy equivalent: never overwrite files the
		// destination already has a newer or equal copy of.
		argv = append(argv, "/XO")
	}
	if cfg.Compress {
		warnings = append(warnings, "compression is not supported by robocopy, continuing without it")
	}
	if cfg.Delete {
		argv = append(argv, "/MIR")
		warnings = append(warnings, "mirror mode will DELETE destination entries that are absent from the source")
	}

	return argv, warnings
}

// Success: robocopy exit codes 0-7 are informational (files copied,
// extras detected, mismatches resolved); 8 and above signal failures.
func (t *windowsCopy) Success(exitCode int) bool {
	return exitCode >= 0 && exitCode <= 7
}

func (t *windowsCopy) ReportsProgress() bool { return false }
