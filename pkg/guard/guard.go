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

// Package guard holds the pre-flight safety check that stops a run from
// copying a directory into itself (or a parent into a child), which the
// external tools would happily turn into an unbounded recursive copy.
package guard

import (
	"path/filepath"
	"strings"
)

// 🛡️ CheckRecursive reports whether copying src into dst (or vice versa)
// would recurse. Both paths are resolved to canonical form first, following
// symlinks and normalizing relative segments. Paths that cannot be resolved
// are treated as safe and left for the external tool to reject. Identical
// paths are pointless but not dangerous; only a strict descendant
// relationship in either direction is flagged.
//
// Must run before any process is spawned. A positive result aborts the run
// with zero side effects.
func CheckRecursive(src, dst string) bool {
	srcResolved, srcOK := canonicalize(src)
	dstResolved, dstOK := canonicalize(dst)
	if !srcOK || !dstOK {
		return false
	}

	if srcResolved == dstResolved {
		return false
	}

	return isStrictDescendant(srcResolved, dstResolved) ||
		isStrictDescendant(dstResolved, srcResolved)
}

// canonicalize resolves a path to absolute, symlink-free form. When the
// path does not exist symlink resolution fails; the lexically cleaned
// absolute path is used instead, so the descendant check still sees
// normalized relative segments.
func canonicalize(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return filepath.Clean(abs), true
	}
	return filepath.Clean(resolved), true
}

// isStrictDescendant reports whether child lives strictly below parent.
// The prefix match is bounded by a path-separator boundary, never a plain
// substring match, so "/a/bc" is not a descendant of "/a/b".
func isStrictDescendant(child, parent string) bool {
	prefix := parent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return child != parent && strings.HasPrefix(child, prefix)
}
