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

// Package ui renders run events on a console. It is one implementation of
// the events.Listener seam; a GUI would register its own.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/events"
)

// 🖥️ Console renders progress as a pterm bar and log lines in color,
// mirroring everything to zerolog for debugging.
type Console struct {
	out  io.Writer
	zlog zerolog.Logger

	mu   sync.Mutex
	bar  *pterm.ProgressbarPrinter
	last int // last percent shown on the bar
}

// 🏭 NewConsole creates a console listener.
func NewConsole(out io.Writer, zlog zerolog.Logger) *Console {
	return &Console{out: out, zlog: zlog}
}

// OnProgress updates the progress bar, starting it lazily on the first
// progress event so log-only runs never show an empty bar.
func (c *Console) OnProgress(p events.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(100).
			WithWriter(c.out).
			WithTitle("syncing").
			Start()
		if err != nil {
			c.zlog.Debug().Err(err).Msg("starting progress bar")
			return
		}
		c.bar = bar
		c.last = 0
	}

	if delta := p.Percent - c.last; delta > 0 {
		c.bar.Add(delta)
		c.last = p.Percent
	}

	c.zlog.Debug().Int("percent", p.Percent).Msg("progress")
}

// OnLog prints one tool output line.
func (c *Console) OnLog(line events.LogLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, color.New(color.Faint).Sprint(line.Text))
	c.zlog.Info().Msg(line.Text)
}

// OnRunFinished stops the bar and prints the terminal outcome.
func (c *Console) OnRunFinished(outcome events.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		if outcome.Success() && c.last < 100 {
			c.bar.Add(100 - c.last)
		}
		_, _ = c.bar.Stop()
		c.bar = nil
	}

	switch outcome.Kind {
	case events.OutcomeSuccess:
		fmt.Fprintf(c.out, "✅ %s\n", color.New(color.FgGreen).Sprint("copy complete"))
	case events.OutcomeCanceled:
		fmt.Fprintf(c.out, "⚠️  %s\n", color.New(color.FgYellow).Sprint("copy canceled"))
	case events.OutcomeFailed:
		fmt.Fprintf(c.out, "❌ %s\n", color.New(color.FgRed).Sprintf("copy failed (exit code %d)", outcome.ExitCode))
	}

	c.zlog.Info().Str("outcome", outcome.String()).Msg("run finished")
}
