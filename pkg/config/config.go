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

package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// Defaults for the fibertree notebook data set
const (
	DefaultOwner      = "Fibertree-Project"
	DefaultRepo       = "fibertree-notebooks"
	DefaultPath       = "data"
	DefaultModule     = "fibertree"
	DefaultPackageURL = "git+https://github.com/Fibertree-Project/fibertree"
	DefaultStyle      = "tree"
	DefaultAnimation  = "movie"
	DefaultFile       = ".ftboot.yaml"
)

// DefaultCandidates are checked in order for an existing data directory
var DefaultCandidates = []string{"../../data", "../data", "./data"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 DataArgs points at the remote data directory and its local candidates
type DataArgs struct {
	Owner      string   `json:"owner" yaml:"owner"`
	Repo       string   `json:"repo" yaml:"repo"`
	Path       string   `json:"path" yaml:"path"`
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Ignore     []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// 🔑 GitHubArgs configures the GitHub API client
type GitHubArgs struct {
	APIURL string `json:"api_url,omitempty" yaml:"api_url,omitempty"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty"`
}

// 🐍 PackageArgs names the notebook package the setup step installs
type PackageArgs struct {
	Module string `json:"module" yaml:"module"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// 🎨 DisplayArgs holds the notebook display defaults
type DisplayArgs struct {
	Style     string `json:"style" yaml:"style"`
	Animation string `json:"animation" yaml:"animation"`
	Logger    bool   `json:"logger,omitempty" yaml:"logger,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Data    DataArgs    `json:"data" yaml:"data"`
	GitHub  GitHubArgs  `json:"github,omitempty" yaml:"github,omitempty"`
	Package PackageArgs `json:"package" yaml:"package"`
	Display DisplayArgs `json:"display" yaml:"display"`
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Data: DataArgs{
			Owner:      DefaultOwner,
			Repo:       DefaultRepo,
			Path:       DefaultPath,
			Candidates: append([]string(nil), DefaultCandidates...),
		},
		Package: PackageArgs{
			Module: DefaultModule,
			URL:    DefaultPackageURL,
		},
		Display: DisplayArgs{
			Style:     DefaultStyle,
			Animation: DefaultAnimation,
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault loads path when it exists and falls back to Default otherwise
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate fills defaults and checks that the configuration is usable
func (cfg *Config) Validate() error {
	def := Default()

	if cfg.Data.Owner == "" {
		cfg.Data.Owner = def.Data.Owner
	}
	if cfg.Data.Repo == "" {
		cfg.Data.Repo = def.Data.Repo
	}
	if cfg.Data.Path == "" {
		cfg.Data.Path = def.Data.Path
	}
	if len(cfg.Data.Candidates) == 0 {
		cfg.Data.Candidates = def.Data.Candidates
	}
	if cfg.Package.Module == "" {
		cfg.Package.Module = def.Package.Module
	}
	if cfg.Package.URL == "" {
		cfg.Package.URL = def.Package.URL
	}
	if cfg.Display.Style == "" {
		cfg.Display.Style = def.Display.Style
	}
	if cfg.Display.Animation == "" {
		cfg.Display.Animation = def.Display.Animation
	}

	cfg.Data.Path = strings.Trim(path.Clean("/"+cfg.Data.Path), "/")
	if cfg.Data.Path == "" {
		return errors.Errorf("data.path must name a directory")
	}

	if err := cfg.Directory().Validate(); err != nil {
		return errors.Errorf("data: %w", err)
	}

	for _, c := range cfg.Data.Candidates {
		if strings.TrimSpace(c) == "" {
			return errors.Errorf("data.candidates must not contain empty paths")
		}
	}

	return nil
}

// Directory returns the remote reference for the data directory
func (cfg *Config) Directory() remote.Directory {
	return remote.Directory{
		Owner: cfg.Data.Owner,
		Repo:  cfg.Data.Repo,
		Path:  cfg.Data.Path,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> ./%s (%s/%s)", cfg.Directory(), cfg.Data.Path, cfg.Display.Style, cfg.Display.Animation)
}
