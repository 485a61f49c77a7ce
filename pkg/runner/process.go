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

package runner

import (
	"os"
	"os/exec"

	"gitlab.com/tozd/go/errors"
)

// 🧬 process owns one child transfer-tool process for the lifetime of a
// run. The child is spawned as the leader of its own process group so a
// later terminate reaches any grandchildren the tool itself spawns, and
// stdout/stderr are merged into a single text stream.
type process struct {
	cmd    *exec.Cmd
	output *os.File // read side of the merged stdout+stderr pipe
}

// startProcess spawns argv[0] with the remaining argv as arguments.
func startProcess(argv []string) (*process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = sysProcAttr()

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.Errorf("creating output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, errors.Errorf("starting %s: %w", argv[0], err)
	}

	// The child holds its own copy of the write end; closing ours makes
	// the read side see EOF when the child exits.
	pw.Close()

	return &process{cmd: cmd, output: pr}, nil
}

// terminate signals the whole process group. Safe to call repeatedly.
func (p *process) terminate() {
	terminateGroup(p.cmd)
}

// wait closes the output stream and reaps the child, returning its exit
// code. A child that died without an exit status (killed) reports -1.
func (p *process) wait() int {
	p.output.Close()

	err := p.cmd.Wait()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
