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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ftboot/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "version")
	require.NoError(t, err, "version should succeed")
	assert.True(t, strings.HasPrefix(out, "ftboot "), "version output should name the binary")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err, "json version should succeed")

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "output should be json")
	assert.NotEmpty(t, info.GoVersion, "go version should be set")
	assert.NotEmpty(t, info.Platform, "platform should be set")
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(config.DefaultFile, []byte("data: [not, a, map"), 0644), "writing config should succeed")

	_, err := execute(t, "locate")
	require.Error(t, err, "commands that need the config should fail")
	assert.Contains(t, err.Error(), "loading config", "error should come from config loading")

	out, err := execute(t, "version")
	require.NoError(t, err, "version should not load the config")
	assert.Contains(t, out, "ftboot ", "version should still print")
}

func TestLocateThroughRoot(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/Fibertree-Project/fibertree-notebooks/contents/data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"name": "tensor.yaml", "type": "file", "download_url": "%s/raw/tensor.yaml"}]`, srv.URL)
	})
	mux.HandleFunc("/raw/tensor.yaml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "rank:")
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)

	cfgPath := filepath.Join(dir, "ftboot.yaml")
	cfg := "data:\n  candidates: [\"./data\"]\ngithub:\n  api_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644), "writing config should succeed")

	out, err := execute(t, "--config", cfgPath, "locate")
	require.NoError(t, err, "locate should succeed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "./data", lines[len(lines)-1], "located path should be printed")
	assert.FileExists(t, filepath.Join("data", "tensor.yaml"), "data should be downloaded")

	out, err = execute(t, "--config", cfgPath, "locate", "--file", "tensor.yaml")
	require.NoError(t, err, "second locate should succeed")
	assert.Contains(t, out, filepath.Join("data", "tensor.yaml"), "data file path should be printed")
}
