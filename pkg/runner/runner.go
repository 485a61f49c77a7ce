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

// Package runner owns the lifecycle of one sync run: pre-flight checks,
// spawning the transfer tool, classifying its output into events,
// cooperative cancellation, outcome resolution and post-move cleanup.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/classify"
	"github.com/walteh/syncrc/pkg/cleanup"
	"github.com/walteh/syncrc/pkg/config"
	"github.com/walteh/syncrc/pkg/events"
	"github.com/walteh/syncrc/pkg/guard"
	"github.com/walteh/syncrc/pkg/tool"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/semaphore"
)

var (
	// 🚦 ErrRunActive is returned when Start is called while a run is
	// already active. The active run is not disturbed.
	ErrRunActive = errors.New("a sync run is already active")

	// 🛑 ErrRecursivePaths is returned when one path is a strict
	// descendant of the other.
	ErrRecursivePaths = errors.New("source and destination paths overlap")
)

// 🔧 Options configures a Runner.
type Options struct {
	// Tool is the platform profile to drive. Defaults to the native one.
	Tool tool.Tool
	// Listener receives run events. Defaults to a no-op listener.
	Listener events.Listener
}

// 🎮 Runner executes sync runs, one at a time. Events are delivered to the
// listener from the run's worker goroutine, FIFO within a run, with the
// terminal event exactly once. The only state shared across the
// caller/worker boundary is the cancellation flag and the process handle.
type Runner struct {
	tool     tool.Tool
	listener events.Listener

	gate     *semaphore.Weighted // weight-1: at most one active run
	canceled atomic.Bool

	mu   sync.Mutex
	proc *process // current child, nil when idle
}

// 🏭 New creates a runner.
func New(opts Options) *Runner {
	if opts.Tool == nil {
		opts.Tool = tool.Native()
	}
	if opts.Listener == nil {
		opts.Listener = events.NopListener{}
	}
	return &Runner{
		tool:     opts.Tool,
		listener: opts.Listener,
		gate:     semaphore.NewWeighted(1),
	}
}

// 🏃 Start begins a run. Pre-flight checks (configuration validation, the
// recursive-copy guard, tool lookup and command construction) happen
// synchronously; a failure emits one explanatory log line, returns a typed
// error, and never spawns a process. On success the run continues on its
// own worker goroutine and Start returns immediately.
//
// A second Start while a run is active returns ErrRunActive without
// disturbing the active run. Canceling ctx cancels the run cooperatively.
func (r *Runner) Start(ctx context.Context, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)

	if !r.gate.TryAcquire(1) {
		r.emitLog("a sync run is already in progress")
		return ErrRunActive
	}

	release := true
	defer func() {
		if release {
			r.gate.Release(1)
		}
	}()

	if err := cfg.Validate(); err != nil {
		r.emitLog(fmt.Sprintf("configuration error: %v", err))
		return errors.Errorf("validating configuration: %w", err)
	}

	paths := cfg.EffectivePaths()
	if guard.CheckRecursive(paths.Source, paths.Destination) {
		r.emitLog(fmt.Sprintf("refusing to copy: %q and %q overlap", paths.Source, paths.Destination))
		return ErrRecursivePaths
	}

	argv, warnings, err := r.tool.Build(paths, cfg)
	if err != nil {
		r.emitLog(fmt.Sprintf("%s is not installed or could not be found", r.tool.Name()))
		return errors.Errorf("building %s command: %w", r.tool.Name(), err)
	}

	logger.Debug().
		Str("tool", r.tool.Name()).
		Strs("argv", argv).
		Msg("starting sync run")

	r.canceled.Store(false)
	release = false
	go r.run(ctx, cfg, paths, argv, warnings)

	return nil
}

// 🛑 Cancel requests cooperative cancellation of the active run. It never
// blocks; completion is observed through the terminal event. Redundant
// calls after the first only re-issue the terminate signal.
func (r *Runner) Cancel() {
	r.canceled.Store(true)

	r.mu.Lock()
	p := r.proc
	r.mu.Unlock()

	if p != nil {
		p.terminate()
	}
}

// run is the worker. It performs exactly one blocking operation — reading
// the child's merged output line by line — and everything else
// (classification, cleanup, event emission) synchronously around it.
func (r *Runner) run(ctx context.Context, cfg *config.Config, paths config.EffectivePaths, argv, warnings []string) {
	defer r.gate.Release(1)

	logger := zerolog.Ctx(ctx)

	// The caller's context is the cancellation writer.
	stopWatch := context.AfterFunc(ctx, r.Cancel)
	defer stopWatch()

	for _, w := range warnings {
		r.emitLog("warning: " + w)
	}

	proc, err := startProcess(argv)
	if err != nil {
		logger.Error().Err(err).Msg("spawning transfer tool")
		r.emitLog(fmt.Sprintf("failed to start %s: %v", r.tool.Name(), err))
		r.listener.OnRunFinished(events.Outcome{Kind: events.OutcomeFailed, ExitCode: -1})
		return
	}

	r.mu.Lock()
	r.proc = proc
	r.mu.Unlock()

	// Cancel may have raced the spawn.
	if r.canceled.Load() {
		proc.terminate()
	}

	canceledLineSent := false
	classifier := classify.New(r.tool.Kind())

	scanner := bufio.NewScanner(proc.output)
	scanner.Split(scanOutputLines)
	for scanner.Scan() {
		// Polled once per consumed line: cooperative, not preemptive.
		if r.canceled.Load() {
			proc.terminate()
			r.emitLog("canceled by user")
			canceledLineSent = true
			break
		}

		line := classifier.Classify(scanner.Text())
		switch line.Kind {
		case classify.KindProgress:
			r.listener.OnProgress(events.Progress{Percent: line.Percent})
		case classify.KindLog:
			r.listener.OnLog(events.LogLine{Text: line.Text})
		}
	}

	exitCode := proc.wait()

	r.mu.Lock()
	r.proc = nil
	r.mu.Unlock()

	canceled := r.canceled.Load()
	if canceled && !canceledLineSent {
		r.emitLog("canceled by user")
	}

	outcome := resolveOutcome(r.tool, exitCode, canceled)
	logger.Debug().
		Int("exit_code", exitCode).
		Bool("canceled", canceled).
		Str("outcome", outcome.String()).
		Msg("sync run finished")

	if outcome.Success() && cfg.Move && r.tool.Kind() == tool.KindWindowsCopy {
		for _, w := range cleanup.PruneEmptyDirs(ctx, paths.Source, cfg.Excludes) {
			r.emitLog(fmt.Sprintf("cleanup warning: %s: %v", w.Path, w.Err))
		}
	}

	r.listener.OnRunFinished(outcome)
}

func (r *Runner) emitLog(text string) {
	r.listener.OnLog(events.LogLine{Text: text})
}

// resolveOutcome maps an exit code to the terminal outcome. A canceled run
// is always Canceled, regardless of the child's actual exit code.
func resolveOutcome(t tool.Tool, exitCode int, canceled bool) events.Outcome {
	if canceled {
		return events.Outcome{Kind: events.OutcomeCanceled}
	}
	if t.Success(exitCode) {
		return events.Outcome{Kind: events.OutcomeSuccess}
	}
	return events.Outcome{Kind: events.OutcomeFailed, ExitCode: exitCode}
}

// scanOutputLines splits on \n or lone \r. rsync redraws its progress line
// with bare carriage returns, so a newline-only split would sit on one
// ever-growing token until the run ends.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		// Treat \r\n as a single terminator.
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		} else if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// Can't tell yet whether a \n follows.
			return 0, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
