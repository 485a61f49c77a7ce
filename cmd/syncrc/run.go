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

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/pkg/events"
	"github.com/walteh/syncrc/pkg/runner"
	"github.com/walteh/syncrc/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one copy/move of the source tree to the destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			cfg, err := buildConfig(ctx)
			if err != nil {
				return err
			}

			console := ui.NewConsole(os.Stdout, *zerolog.Ctx(ctx))
			finish := &finishCapture{done: make(chan events.Outcome, 1)}

			r := runner.New(runner.Options{
				Listener: events.Multi(console, finish),
			})

			if err := r.Start(ctx, cfg); err != nil {
				return errors.Errorf("starting run: %w", err)
			}

			// The terminal event arrives exactly once; Ctrl-C cancels
			// the context, which the runner maps to a cooperative
			// cancel, so this never hangs on user interrupt.
			outcome := <-finish.done
			if !outcome.Success() && outcome.Kind != events.OutcomeCanceled {
				return errors.Errorf("run %s", outcome)
			}

			return nil
		},
	}
}

// finishCapture forwards only the terminal event to a channel.
type finishCapture struct {
	events.NopListener
	done chan events.Outcome
}

func (f *finishCapture) OnRunFinished(outcome events.Outcome) {
	f.done <- outcome
}
