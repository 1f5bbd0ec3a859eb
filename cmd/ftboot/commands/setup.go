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
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/setup"
	"gitlab.com/tozd/go/errors"
)

// NewSetupCmd creates a new setup command
func NewSetupCmd(opts *opts.RootOpts, runner setup.CommandRunner) *cobra.Command {
	var (
		python string
		pip    string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install the python packages a notebook session imports",
		Long: `Setup probes each declared python module with an import and installs
the missing ones with pip. The notebook package source can be overridden
with the FIBERTREE_URL environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps := setup.Dependencies(ctx, opts.Config, nil)

			if list {
				data := pterm.TableData{{"module", "source", "optional"}}
				for _, d := range deps {
					opt := ""
					if d.Optional {
						opt = "yes"
					}
					data = append(data, []string{d.Module, d.Source, opt})
				}
				return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
			}

			report, err := setup.Run(ctx, deps, setup.Options{Python: python, Pip: pip, Runner: runner})
			if err != nil {
				return errors.Errorf("setting up: %w", err)
			}

			pterm.Success.Printfln("%d present, %d installed", len(report.Present), len(report.Installed))
			return nil
		},
	}

	cmd.Flags().StringVar(&python, "python", "python3", "python interpreter used to probe imports")
	cmd.Flags().StringVar(&pip, "pip", "pip", "installer command")
	cmd.Flags().BoolVar(&list, "list", false, "list the dependencies without installing")

	return cmd
}
