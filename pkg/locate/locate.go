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

// Package locate finds a local copy of the notebook data directory,
// downloading it only when none of the candidate paths exist.
package locate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/config"
	"github.com/walteh/ftboot/pkg/fetch"
	"github.com/walteh/ftboot/pkg/log"
	"github.com/walteh/ftboot/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/singleflight"
)

// 🔧 Options configures a Locator
type Options struct {
	// Candidates are checked in order; the first that exists wins
	Candidates []string
	// Root resolves candidates and the download directory; empty means the working directory
	Root string
	// Ignore is passed through to the fetch
	Ignore []string
}

// 🎯 Locator resolves the data directory
type Locator struct {
	fetcher *fetch.Fetcher
	dir     remote.Directory
	opts    Options
	group   singleflight.Group
}

// 🏭 New creates a locator that falls back to fetching dir
func New(fetcher *fetch.Fetcher, dir remote.Directory, opts Options) *Locator {
	if len(opts.Candidates) == 0 {
		opts.Candidates = config.DefaultCandidates
	}
	return &Locator{
		fetcher: fetcher,
		dir:     dir,
		opts:    opts,
	}
}

// 🏭 FromConfig creates a locator for the configured data directory
func FromConfig(fetcher *fetch.Fetcher, cfg *config.Config) *Locator {
	return New(fetcher, cfg.Directory(), Options{
		Candidates: cfg.Data.Candidates,
		Ignore:     cfg.Data.Ignore,
	})
}

// DownloadPath is the path returned after a download
func (l *Locator) DownloadPath() string {
	return "./" + strings.Trim(l.dir.Path, "/")
}

// 🔍 Locate returns the first existing candidate, or downloads the data and
// returns DownloadPath. The download outcome is not verified.
// Returned paths are resolved against Options.Root when it is set.
// Concurrent callers with the same verbosity share a single lookup.
func (l *Locator) Locate(ctx context.Context, verbose bool) (string, error) {
	key := "locate"
	if verbose {
		key = "locate-verbose"
	}
	v, err, shared := l.group.Do(key, func() (interface{}, error) {
		return l.locate(ctx, verbose)
	})
	if shared {
		zerolog.Ctx(ctx).Debug().Msg("joined in-flight data lookup")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (l *Locator) locate(ctx context.Context, verbose bool) (string, error) {
	console := log.FromContext(ctx)

	if candidate, ok := l.existing(ctx); ok {
		candidate = l.resolve(candidate)
		if verbose {
			console.Plainf("Data directory exists at: %s", candidate)
		}
		return candidate, nil
	}

	_, err := l.fetcher.Fetch(ctx, l.dir, fetch.Options{
		Destination: l.resolve(filepath.FromSlash(strings.Trim(l.dir.Path, "/"))),
		Ignore:      l.opts.Ignore,
		Verbose:     verbose,
	})
	if err != nil {
		return "", errors.Errorf("fetching %s: %w", l.dir, err)
	}

	path := l.resolve(l.DownloadPath())
	console.Plainf("Data directory downloaded to: %s", path)
	return path, nil
}

// existing returns the first candidate that exists
func (l *Locator) existing(ctx context.Context) (string, bool) {
	for _, candidate := range l.opts.Candidates {
		if _, err := os.Stat(l.resolve(candidate)); err == nil {
			return candidate, true
		}
		zerolog.Ctx(ctx).Debug().Str("candidate", candidate).Msg("data directory not found")
	}
	return "", false
}

func (l *Locator) resolve(p string) string {
	if l.opts.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.opts.Root, p)
}

// 📄 DataFile returns the path of name inside the data directory
func (l *Locator) DataFile(ctx context.Context, name string) (string, error) {
	dir, err := l.Locate(ctx, false)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
