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
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := &cobra.Command{
		Use:   "syncrc",
		Short: "Copy or move a directory tree with the platform's native transfer tool",
		Long: `syncrc drives rsync (POSIX) or robocopy (Windows) for you: it builds the
command, supervises the process, turns its output into progress and log
events, and cleans up after moves. Interrupt (Ctrl-C) cancels the run
cooperatively; the tool's process group is terminated and the run ends
with a canceled outcome.`,
		SilenceUsage: true,
	}

	addRootFlags(root)
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	cobra.OnInitialize(setupLogging)

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
