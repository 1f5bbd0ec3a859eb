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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/fetch"
	"github.com/walteh/ftboot/pkg/locate"
	"gitlab.com/tozd/go/errors"
)

// NewLocateCmd creates a new locate command
func NewLocateCmd(opts *opts.RootOpts) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the notebook data directory, downloading it if needed",
		Long: `Locate checks the configured candidate directories in order and prints
the first one that exists. When none exists the data directory is
downloaded from the configured repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l := locate.FromConfig(fetch.New(opts.Source), opts.Config)

			var (
				p   string
				err error
			)
			if file != "" {
				p, err = l.DataFile(ctx, file)
			} else {
				p, err = l.Locate(ctx, opts.Verbose)
			}
			if err != nil {
				return errors.Errorf("locating data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "print the path of a file inside the data directory")

	return cmd
}
