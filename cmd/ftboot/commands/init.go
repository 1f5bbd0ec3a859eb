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
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/log"
	"github.com/walteh/ftboot/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// NewInitCmd creates a new init command
func NewInitCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		style     string
		animation string
		logger    bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Choose the display settings and write the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			display := opts.Config.Display
			if cmd.Flags().Changed("style") {
				display.Style = style
			}
			if cmd.Flags().Changed("animation") {
				display.Animation = animation
			}
			if cmd.Flags().Changed("logger") {
				display.Logger = logger
			}

			d := session.NewDisplay(display, nil)
			if err := session.Bootstrap(ctx, d); err != nil {
				return errors.Errorf("bootstrapping session: %w", err)
			}

			if _, err := os.Stat(opts.ConfigFile); err == nil && !force {
				console.Warningf("%s already exists, use --force to overwrite", opts.ConfigFile)
				return nil
			}

			cfg := *opts.Config
			cfg.Display = d.Args()
			data, err := cfg.Marshal()
			if err != nil {
				return errors.Errorf("marshaling config: %w", err)
			}
			if err := os.WriteFile(opts.ConfigFile, data, 0o644); err != nil {
				return errors.Errorf("writing %s: %w", opts.ConfigFile, err)
			}

			console.Successf("wrote %s", opts.ConfigFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "tensor display style (tree, uncompressed, tree+uncompressed)")
	cmd.Flags().StringVar(&animation, "animation", "", "animation style (movie, spacetime, none)")
	cmd.Flags().BoolVar(&logger, "logger", false, "show the log level dialog")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
