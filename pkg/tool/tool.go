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

// Package tool selects and drives the platform-native transfer tool. All
// platform branching — binary lookup, flag sets, exit-code semantics — is
// expressed as one variant dispatch over two capability profiles, rather
// than conditionals scattered through the rest of the codebase.
package tool

import (
	"runtime"

	"github.com/walteh/syncrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🚫 ErrNotFound is returned when the transfer tool binary cannot be
// located. The run aborts before any process is spawned.
var ErrNotFound = errors.New("transfer tool not found")

// 📛 Kind identifies a capability profile.
type Kind int

const (
	// KindPosixSync is an rsync-style POSIX synchronization tool.
	KindPosixSync Kind = iota
	// KindWindowsCopy is a robocopy-style Windows directory copier.
	KindWindowsCopy
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindPosixSync:
		return "posix-sync"
	case KindWindowsCopy:
		return "windows-copy"
	default:
		return "unknown"
	}
}

// 🔌 Tool is the capability profile of one platform-native transfer tool.
// Build is pure given its inputs, except that locating the binary may probe
// fixed alternate installation locations before falling back to PATH.
type Tool interface {
	// Kind identifies the profile.
	Kind() Kind
	// Name is the tool's binary name, for log lines.
	Name() string
	// Build produces the full argv (binary first) for one run, plus any
	// capability warnings to surface as log lines.
	Build(paths config.EffectivePaths, cfg *config.Config) (argv []string, warnings []string, err error)
	// Success reports whether the tool's exit code means a clean run.
	Success(exitCode int) bool
	// ReportsProgress reports whether the tool emits an overall
	// completion percentage on its output stream.
	ReportsProgress() bool
}

// 🏭 ForPlatform returns the profile for the given GOOS value.
func ForPlatform(goos string) Tool {
	if goos == "windows" {
		return &windowsCopy{}
	}
	return &posixSync{}
}

// 🏠 Native returns the profile for the running platform.
func Native() Tool {
	return ForPlatform(runtime.GOOS)
}
