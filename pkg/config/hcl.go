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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// evalContext exposes the process environment as env.NAME
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
	}
}

// 📝 Parse parses the config from HCL, on top of the defaults
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "ftboot.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Data *struct {
			Owner      string   `hcl:"owner,optional"`
			Repo       string   `hcl:"repo,optional"`
			Path       string   `hcl:"path,optional"`
			Candidates []string `hcl:"candidates,optional"`
			Ignore     []string `hcl:"ignore,optional"`
		} `hcl:"data,block"`
		GitHub *struct {
			APIURL string `hcl:"api_url,optional"`
			Token  string `hcl:"token,optional"`
		} `hcl:"github,block"`
		Package *struct {
			Module string `hcl:"module,optional"`
			URL    string `hcl:"url,optional"`
		} `hcl:"package,block"`
		Display *struct {
			Style     string `hcl:"style,optional"`
			Animation string `hcl:"animation,optional"`
			Logger    bool   `hcl:"logger,optional"`
		} `hcl:"display,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model; empty values keep their defaults via Validate
	cfg := &Config{}
	if d := hclCfg.Data; d != nil {
		cfg.Data = DataArgs{
			Owner:      d.Owner,
			Repo:       d.Repo,
			Path:       d.Path,
			Candidates: d.Candidates,
			Ignore:     d.Ignore,
		}
	}
	if g := hclCfg.GitHub; g != nil {
		cfg.GitHub = GitHubArgs{APIURL: g.APIURL, Token: g.Token}
	}
	if pk := hclCfg.Package; pk != nil {
		cfg.Package = PackageArgs{Module: pk.Module, URL: pk.URL}
	}
	if d := hclCfg.Display; d != nil {
		cfg.Display = DisplayArgs{Style: d.Style, Animation: d.Animation, Logger: d.Logger}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
