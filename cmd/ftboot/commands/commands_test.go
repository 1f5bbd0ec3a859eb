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
package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ftboot/cmd/ftboot/commands"
	"github.com/walteh/ftboot/cmd/ftboot/opts"
	"github.com/walteh/ftboot/pkg/config"
	"github.com/walteh/ftboot/pkg/log"
	"github.com/walteh/ftboot/pkg/remote"
	"github.com/walteh/ftboot/pkg/setup"

	_ "github.com/walteh/ftboot/pkg/remote/github"
)

// 🧪 newRootOpts wires a config and a github source backed by a fake contents API
func newRootOpts(t *testing.T) *opts.RootOpts {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/Fibertree-Project/fibertree-notebooks/contents/data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"name": "tensor.yaml", "type": "file", "size": 5, "download_url": "%[1]s/raw/tensor.yaml"},
			{"name": "notes.tmp", "type": "file", "size": 1, "download_url": "%[1]s/raw/notes.tmp"}
		]`, srv.URL)
	})
	mux.HandleFunc("/raw/tensor.yaml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "rank:")
	})
	mux.HandleFunc("/raw/notes.tmp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "x")
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	src, err := remote.Get(context.Background(), "github", remote.Options{BaseURL: srv.URL})
	require.NoError(t, err, "creating source should succeed")

	return &opts.RootOpts{
		Config:     config.Default(),
		ConfigFile: config.DefaultFile,
		Source:     src,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	console := &bytes.Buffer{}
	stdout := &bytes.Buffer{}
	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := log.NewContext(zlog.WithContext(context.Background()), log.NewWithZerolog(console, zlog))

	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), console.String(), err
}

func TestFetchCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	o := newRootOpts(t)

	_, _, err := run(t, commands.NewFetchCmd(o), "Fibertree-Project", "fibertree-notebooks", "data", "--ignore", "*.tmp")
	require.NoError(t, err, "fetch should succeed")

	data, err := os.ReadFile(filepath.Join("data", "tensor.yaml"))
	require.NoError(t, err, "file should be written")
	assert.Equal(t, "rank:", string(data), "content should match")
	assert.NoFileExists(t, filepath.Join("data", "notes.tmp"), "ignored file should not be written")
}

func TestFetchCmdArgs(t *testing.T) {
	_, _, err := run(t, commands.NewFetchCmd(newRootOpts(t)), "only-owner")
	require.Error(t, err, "missing arguments should fail")
}

func TestLocateCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	o := newRootOpts(t)

	out, console, err := run(t, commands.NewLocateCmd(o))
	require.NoError(t, err, "locate should succeed")
	assert.Equal(t, "./data", strings.TrimSpace(out), "download path should be printed")
	assert.Contains(t, console, "Data directory downloaded to: ./data", "download notice should be printed")
	assert.FileExists(t, filepath.Join(dir, "data", "tensor.yaml"), "data should be downloaded")

	out, _, err = run(t, commands.NewLocateCmd(o), "--file", "tensor.yaml")
	require.NoError(t, err, "locating a data file should succeed")
	assert.Equal(t, filepath.Join("data", "tensor.yaml"), filepath.Clean(strings.TrimSpace(out)), "file path should be printed")
}

// 🧪 okRunner reports every module as importable
type okRunner struct{ calls int }

func (r *okRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls++
	return nil, nil
}

func TestSetupCmd(t *testing.T) {
	o := newRootOpts(t)

	runner := &okRunner{}
	out, _, err := run(t, commands.NewSetupCmd(o, runner), "--list")
	require.NoError(t, err, "listing should succeed")
	assert.Contains(t, out, "networkx", "optional module should be listed")
	assert.Zero(t, runner.calls, "listing should not run anything")

	_, console, err := run(t, commands.NewSetupCmd(o, runner))
	require.NoError(t, err, "setup should succeed when everything is present")
	assert.Contains(t, console, "The numpy module is already installed and available to import", "present notice")
	assert.Equal(t, len(setup.Dependencies(context.Background(), o.Config, nil)), runner.calls, "each module should be probed once")
}

func TestInitCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	o := newRootOpts(t)

	_, console, err := run(t, commands.NewInitCmd(o), "--style", "uncompressed", "--animation", "none")
	require.NoError(t, err, "init should succeed")
	assert.Contains(t, console, "wrote .ftboot.yaml", "write notice")

	cfg, err := config.Load(context.Background(), config.DefaultFile)
	require.NoError(t, err, "written config should load")
	assert.Equal(t, "uncompressed", cfg.Display.Style, "style should be saved")
	assert.Equal(t, "none", cfg.Display.Animation, "animation should be saved")

	_, console, err = run(t, commands.NewInitCmd(o), "--style", "tree")
	require.NoError(t, err, "second init should not fail")
	assert.Contains(t, console, "already exists", "existing config should not be overwritten")

	_, _, err = run(t, commands.NewInitCmd(o), "--style", "graph", "--force")
	require.Error(t, err, "unknown style should fail")
}
