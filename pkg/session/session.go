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

package session

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/config"
	"github.com/walteh/ftboot/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// EnvColab is set inside a Colab kernel
const EnvColab = "COLAB_JUPYTER_IP"

var (
	// Styles are the accepted tensor display styles
	Styles = []string{"tree", "uncompressed", "tree+uncompressed"}
	// Animations are the accepted animation styles
	Animations = []string{"movie", "spacetime", "none"}
)

// 🎨 Display is the display configuration a notebook session starts with
type Display struct {
	Style        string
	Animation    string
	Logger       bool // show the log level dialog
	RunAllButton bool // offer a run-all button (not in Colab)
}

// 🏭 NewDisplay builds the display settings from config and the environment
func NewDisplay(args config.DisplayArgs, getenv func(string) string) Display {
	if getenv == nil {
		getenv = os.Getenv
	}
	d := Display{
		Style:        args.Style,
		Animation:    args.Animation,
		Logger:       args.Logger,
		RunAllButton: getenv(EnvColab) == "",
	}
	if d.Style == "" {
		d.Style = config.DefaultStyle
	}
	if d.Animation == "" {
		d.Animation = config.DefaultAnimation
	}
	return d
}

// 🔍 Validate checks style and animation against the accepted values
func (d Display) Validate() error {
	if !slices.Contains(Styles, d.Style) {
		return errors.Errorf("unknown style %q, options: %s", d.Style, strings.Join(Styles, ", "))
	}
	if !slices.Contains(Animations, d.Animation) {
		return errors.Errorf("unknown animation %q, options: %s", d.Animation, strings.Join(Animations, ", "))
	}
	return nil
}

// Args converts the settings back into their config form
func (d Display) Args() config.DisplayArgs {
	return config.DisplayArgs{Style: d.Style, Animation: d.Animation, Logger: d.Logger}
}

// 🚀 Bootstrap validates the display settings and announces them
func Bootstrap(ctx context.Context, d Display) error {
	console := log.FromContext(ctx)
	console.Header("Running bootstrap")

	if err := d.Validate(); err != nil {
		return errors.Errorf("validating display: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("style", d.Style).
		Str("animation", d.Animation).
		Bool("logger", d.Logger).
		Bool("run_all_button", d.RunAllButton).
		Msg("display configured")

	console.Infof("display style %s, animation %s", d.Style, d.Animation)
	if d.Logger {
		console.Info("log level dialog enabled")
	}
	if !d.RunAllButton {
		console.Info("running in Colab, run-all button disabled")
	}
	return nil
}
