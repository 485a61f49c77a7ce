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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool

	flagSource         string
	flagDestination    string
	flagMove           bool
	flagInvert         bool
	flagIgnoreExisting bool
	flagCompress       bool
	flagDelete         bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.syncrc.yaml, .syncrc.hcl, ...)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.PersistentFlags().StringVar(&flagSource, "source", "", "source directory (overrides config)")
	cmd.PersistentFlags().StringVar(&flagDestination, "destination", "", "destination directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagMove, "move", false, "remove source entries once transferred")
	cmd.PersistentFlags().BoolVar(&flagInvert, "invert", false, "swap source and destination for this run")
	cmd.PersistentFlags().BoolVar(&flagIgnoreExisting, "ignore-existing", false, "skip entries already present at the destination")
	cmd.PersistentFlags().BoolVar(&flagCompress, "compress", false, "compress data in flight (rsync only)")
	cmd.PersistentFlags().BoolVar(&flagDelete, "delete", false, "remove destination entries absent from the source")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// buildConfig assembles the run configuration from the config file (when
// given) overlaid with any command-line overrides.
func buildConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}

	if configFile != "" {
		loaded, err := config.Load(ctx, configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flagSource != "" {
		cfg.SourcePath = flagSource
	}
	if flagDestination != "" {
		cfg.DestinationPath = flagDestination
	}
	if flagMove {
		cfg.Move = true
	}
	if flagInvert {
		cfg.Invert = true
	}
	if flagIgnoreExisting {
		cfg.IgnoreExisting = true
	}
	if flagCompress {
		cfg.Compress = true
	}
	if flagDelete {
		cfg.Delete = true
	}

	return cfg, nil
}
