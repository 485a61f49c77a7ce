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
	"os"
	"os/exec"
	"strings"

	"github.com/walteh/syncrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🐧 posixSync drives rsync. The source path is given a trailing separator
// so the directory's contents are copied, not the directory itself.
type posixSync struct{}

// alternateLocations are fixed install paths probed before PATH. Homebrew
// on Apple Silicon and MacPorts both install a modern rsync outside PATH
// defaults.
var alternateLocations = []string{
	"/opt/homebrew/bin/rsync",
	"/usr/local/bin/rsync",
	"/opt/local/bin/rsync",
}

func (t *posixSync) Kind() Kind   { return KindPosixSync }
func (t *posixSync) Name() string { return "rsync" }

// locate probes the fixed alternate locations, then falls back to PATH.
func (t *posixSync) locate() (string, error) {
	for _, candidate := range alternateLocations {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	path, err := exec.LookPath("rsync")
	if err != nil {
		return "", errors.Errorf("%w: rsync not in %v or PATH", ErrNotFound, alternateLocations)
	}
	return path, nil
}

// Build produces the rsync invocation for one run.
func (t *posixSync) Build(paths config.EffectivePaths, cfg *config.Config) ([]string, []string, error) {
	binary, err := t.locate()
	if err != nil {
		return nil, nil, err
	}

	args, warnings := t.arguments(paths, cfg)
	return append([]string{binary}, args...), warnings, nil
}

// arguments builds everything after the binary. Pure given its inputs.
func (t *posixSync) arguments(paths config.EffectivePaths, cfg *config.Config) ([]string, []string) {
	argv := []string{"-a", "-v", "-h", "--info=progress2", "--exclude=.DS_Store"}
	for _, pattern := range cfg.Excludes {
		argv = append(argv, "--exclude="+pattern)
	}

	if cfg.Move {
		argv = append(argv, "--remove-source-files")
	}
	if cfg.IgnoreExisting {
		argv = append(argv, "--ignore-existing")
	}
	if cfg.Compress {
		argv = append(argv, "-z")
	}
	if cfg.Delete {
		argv = append(argv, "--delete")
	}

	// Trailing slash: copy the directory contents, not the directory.
	src := strings.TrimRight(paths.Source, "/")
	argv = append(argv, src+"/", paths.Destination)

	return argv, nil
}

// Success: rsync reports a clean run with exit code 0 only. Partial
// transfers (23, 24) and everything else are failures.
func (t *posixSync) Success(exitCode int) bool {
	return exitCode == 0
}

func (t *posixSync) ReportsProgress() bool { return true }
