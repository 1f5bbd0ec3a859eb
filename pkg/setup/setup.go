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

// Package setup installs the python packages a fibertree notebook imports.
// Nothing happens until Run is called.
package setup

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/config"
	"github.com/walteh/ftboot/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// Environment variables that override the package source
const (
	EnvPackageURL       = "FIBERTREE_URL"
	EnvPackageURLLegacy = "FIBERREE_URL"
)

// 📦 Dependency is one importable module
type Dependency struct {
	Module   string // import name
	Source   string // pip install argument
	Optional bool   // reported when missing, never installed
}

// 🏃 CommandRunner runs an external command and returns its combined output
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.Bytes(), errors.Errorf("running %s: %w", name, err)
	}
	return out.Bytes(), nil
}

// 🔧 Options configures Run
type Options struct {
	Python string        // interpreter used to probe imports, default python3
	Pip    string        // installer command, default pip
	Runner CommandRunner // default ExecRunner
	Getenv func(string) string
}

func (o *Options) defaults() {
	if o.Python == "" {
		o.Python = "python3"
	}
	if o.Pip == "" {
		o.Pip = "pip"
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
}

// 📊 Report lists what Run found and did
type Report struct {
	Present   []string
	Installed []string
	Missing   []string // optional modules that are absent
	Failed    []string
}

// 🔍 ResolveSource picks the install source for the notebook package.
// FIBERTREE_URL wins, then the legacy misspelled FIBERREE_URL, then the config.
func ResolveSource(ctx context.Context, pkg config.PackageArgs, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvPackageURL)); v != "" {
		return v
	}
	if v := strings.TrimSpace(getenv(EnvPackageURLLegacy)); v != "" {
		zerolog.Ctx(ctx).Warn().Str("variable", EnvPackageURLLegacy).Msg("using misspelled package url variable, prefer " + EnvPackageURL)
		return v
	}
	if pkg.URL != "" {
		return pkg.URL
	}
	return config.DefaultPackageURL
}

// 📋 Dependencies returns the declared dependency list for a notebook session
func Dependencies(ctx context.Context, cfg *config.Config, getenv func(string) string) []Dependency {
	return []Dependency{
		{Module: cfg.Package.Module, Source: ResolveSource(ctx, cfg.Package, getenv)},
		{Module: "numpy", Source: "numpy"},
		{Module: "matplotlib", Source: "matplotlib"},
		{Module: "ipywidgets", Source: "ipywidgets"},
		{Module: "IPython", Source: "ipython"},
		{Module: "tqdm", Source: "tqdm"},
		{Module: "requests", Source: "requests"},
		{Module: "networkx", Optional: true},
	}
}

// 🚀 Run checks every dependency and installs the required ones that are missing.
// All dependencies are attempted; the error lists the ones that could not be installed.
func Run(ctx context.Context, deps []Dependency, opts Options) (*Report, error) {
	opts.defaults()
	console := log.FromContext(ctx)
	logger := zerolog.Ctx(ctx)

	report := &Report{}
	for _, dep := range deps {
		if dep.Module == "" {
			continue
		}

		if _, err := opts.Runner.Run(ctx, opts.Python, "-c", "import "+dep.Module); err == nil {
			console.Plainf("The %s module is already installed and available to import", dep.Module)
			report.Present = append(report.Present, dep.Module)
			continue
		}

		if dep.Optional {
			console.Warningf("The optional %s module is not available", dep.Module)
			report.Missing = append(report.Missing, dep.Module)
			continue
		}

		console.Plainf("The %s module is not available. Installing...", dep.Module)
		out, err := opts.Runner.Run(ctx, opts.Pip, "install", dep.Source, "--quiet")
		if err != nil {
			logger.Debug().Err(err).Str("module", dep.Module).Str("output", string(out)).Msg("install failed")
			console.Errorf("Failed to install %s from %s", dep.Module, dep.Source)
			report.Failed = append(report.Failed, dep.Module)
			continue
		}
		report.Installed = append(report.Installed, dep.Module)
	}

	if len(report.Failed) > 0 {
		return report, errors.Errorf("installing %s", strings.Join(report.Failed, ", "))
	}
	return report, nil
}
