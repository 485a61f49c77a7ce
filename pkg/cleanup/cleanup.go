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

// Package cleanup repairs the source tree after a move. Robocopy's /MOV
// removes files but leaves their (now empty) directories behind; rsync's
// --remove-source-files has the same gap, but on POSIX the caller keeps
// the tree for reference, so this pass runs only for the Windows profile.
package cleanup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚠️ Warning is a non-fatal cleanup failure. Warnings are logged and never
// alter a Success outcome.
type Warning struct {
	Path string
	Err  error
}

// 🧹 PruneEmptyDirs walks sourceRoot depth-first, recursing into each
// subdirectory before deleting it if it is now empty. Deletion failures
// (permission, in-use) are collected as warnings and the walk continues.
// After the walk the source root is recreated if absent, so the source
// location remains a valid directory after any move.
//
// keepGlobs are doublestar patterns (relative to sourceRoot) whose
// matching subtrees are left untouched.
func PruneEmptyDirs(ctx context.Context, sourceRoot string, keepGlobs []string) []Warning {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root", sourceRoot).Msg("pruning empty directories after move")

	var warnings []Warning
	pruneDir(sourceRoot, sourceRoot, keepGlobs, &warnings)

	// The tool may have removed the root itself. The source must remain
	// a valid directory after any move.
	if _, err := os.Stat(sourceRoot); os.IsNotExist(err) {
		if err := os.MkdirAll(sourceRoot, 0755); err != nil {
			warnings = append(warnings, Warning{
				Path: sourceRoot,
				Err:  errors.Errorf("recreating source root: %w", err),
			})
		}
	}

	for _, w := range warnings {
		logger.Warn().Str("path", w.Path).Err(w.Err).Msg("cleanup warning")
	}

	return warnings
}

// pruneDir removes dir if, after pruning its children, it is empty.
// The root itself is never removed.
func pruneDir(dir, root string, keepGlobs []string, warnings *[]Warning) {
	if kept(dir, root, keepGlobs) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		*warnings = append(*warnings, Warning{Path: dir, Err: errors.Errorf("reading directory: %w", err)})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			pruneDir(filepath.Join(dir, entry.Name()), root, keepGlobs, warnings)
		}
	}

	if dir == root {
		return
	}

	remaining, err := os.ReadDir(dir)
	if err != nil || len(remaining) > 0 {
		return
	}

	if err := os.Remove(dir); err != nil {
		*warnings = append(*warnings, Warning{Path: dir, Err: errors.Errorf("removing empty directory: %w", err)})
	}
}

// kept reports whether dir matches one of the keep globs.
func kept(dir, root string, keepGlobs []string) bool {
	if len(keepGlobs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range keepGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
