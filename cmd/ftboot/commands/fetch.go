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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/fetch"
	"github.com/walteh/ftboot/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// NewFetchCmd creates a new fetch command
func NewFetchCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		destination string
		ignore      []string
		progress    bool
		summary     bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <owner> <repo> <directory>",
		Short: "Download every file of a GitHub repository directory",
		Long: `Fetch lists a directory through the GitHub contents API and downloads
each file into a local directory of the same name.
It will:
1. Issue one listing request
2. Create the local directory if needed
3. Download files one at a time, reporting any that fail`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir := remote.Directory{Owner: args[0], Repo: args[1], Path: args[2]}

			fo := fetch.Options{
				Destination: destination,
				Ignore:      append(append([]string(nil), opts.Config.Data.Ignore...), ignore...),
				Verbose:     opts.Verbose,
			}
			if progress {
				fo.Progress = newProgressBar(cmd.ErrOrStderr())
			}

			res, err := fetch.New(opts.Source).Fetch(ctx, dir, fo)
			if err != nil {
				return errors.Errorf("fetching %s: %w", dir, err)
			}

			if summary {
				return renderSummary(res)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&destination, "dest", "", "local directory (defaults to the remote directory path)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob patterns of file names to skip")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a summary table")

	return cmd
}

// 📊 renderSummary prints the fetch counts as a table
func renderSummary(res *fetch.Result) error {
	if !res.Listed {
		pterm.Warning.Println("listing failed, nothing downloaded")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"destination", "written", "failed", "skipped"},
		{res.Destination, strconv.Itoa(len(res.Written)), strconv.Itoa(len(res.Failed)), strconv.Itoa(len(res.Skipped))},
	}).Render()
}
