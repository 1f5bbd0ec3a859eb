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
	"github.com/walteh/ftboot/cmd/ftboot/commands"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/config"
	"github.com/walteh/ftboot/pkg/log"
	"github.com/walteh/ftboot/pkg/remote"
	"github.com/walteh/ftboot/pkg/setup"
	"gitlab.com/tozd/go/errors"

	_ "github.com/walteh/ftboot/pkg/remote/github"
)

// EnvGitHubToken supplies a token when the config does not
const EnvGitHubToken = "GITHUB_TOKEN"

var (
	// Flags
	configFile   string
	debugLogging bool
	verbose      bool
)

func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "ftboot",
		Short: "Bootstrap a fibertree notebook environment",
		Long: `ftboot prepares the environment a fibertree notebook runs in.
It locates or downloads the notebook data directory from GitHub,
installs the python packages the notebooks import, and records the
display settings a session starts with.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context())
			if err := fillRootOpts(ctx, rootOpts); err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewFetchCmd(rootOpts),
		commands.NewLocateCmd(rootOpts),
		commands.NewSetupCmd(rootOpts, setup.ExecRunner{}),
		commands.NewInitCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// fillRootOpts loads the config and builds the remote source
func fillRootOpts(ctx context.Context, o *opts.RootOpts) error {
	cfg, err := config.LoadOrDefault(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv(EnvGitHubToken)
	}

	src, err := remote.Get(ctx, "github", remote.Options{BaseURL: cfg.GitHub.APIURL, Token: token})
	if err != nil {
		return errors.Errorf("creating github source: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", configFile).Str("data", cfg.String()).Msg("root options ready")

	o.Config = cfg
	o.ConfigFile = configFile
	o.Source = src
	o.Verbose = verbose
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&debugLogging, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every file operation")
}

// setupLogging configures zerolog and the console logger based on flags
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.WarnLevel
	if debugLogging {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithZerolog(os.Stdout, zlog))
}
