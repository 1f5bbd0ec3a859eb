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

// Package fetch downloads every file of a remote directory into a local one.
//
// Network failures never reach the caller: a failed listing prints a single
// notice and creates nothing, a failed file download prints a notice and the
// remaining files are still attempted. Filesystem errors are returned.
package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/log"
	"github.com/walteh/ftboot/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ListingFailedNotice is printed when the listing request fails
const ListingFailedNotice = "Failed to fetch directory contents."

// 📊 Progress receives per-entry progress of a fetch
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

// 🔧 Options tunes a single fetch
type Options struct {
	// Destination is the local directory; empty means dir.Path relative to the working directory
	Destination string
	// Ignore holds doublestar patterns matched against entry names
	Ignore []string
	// Verbose prints a line for every downloaded file
	Verbose bool
	// Progress is optional
	Progress Progress
}

// 📦 Result is what a fetch did
type Result struct {
	Listed      bool     // the listing request succeeded
	Destination string   // local directory the files were written to
	Written     []string // names written, in listing order
	Failed      []string // names whose download failed
	Skipped     []string // names not attempted
}

// 🎯 Fetcher copies remote directories through a Source
type Fetcher struct {
	source remote.Source
}

// 🏭 New creates a fetcher reading from source
func New(source remote.Source) *Fetcher {
	return &Fetcher{source: source}
}

// 📥 Fetch lists dir and downloads each entry, one at a time, into the destination
func (f *Fetcher) Fetch(ctx context.Context, dir remote.Directory, opts Options) (*Result, error) {
	if err := dir.Validate(); err != nil {
		return nil, errors.Errorf("invalid directory: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	dest := opts.Destination
	if dest == "" {
		dest = filepath.FromSlash(strings.Trim(dir.Path, "/"))
	}
	result := &Result{Destination: dest}

	entries, err := f.source.ListDirectory(ctx, dir)
	if err != nil {
		logger.Debug().Err(err).Str("directory", dir.String()).Msg("listing failed")
		console.Error(ListingFailedNotice)
		return result, nil
	}
	result.Listed = true

	if err := os.MkdirAll(dest, 0755); err != nil {
		return result, errors.Errorf("creating directory %s: %w", dest, err)
	}

	console.StartFetch(ctx, log.FetchOperation{
		Source:      dir.String(),
		Destination: dest,
		Verbose:     opts.Verbose,
	})
	defer console.EndFetch(ctx)

	if opts.Progress != nil {
		opts.Progress.Start(len(entries))
		defer opts.Progress.Finish()
	}

	for _, entry := range entries {
		if err := f.fetchEntry(ctx, dest, entry, opts, result); err != nil {
			return result, err
		}
		if opts.Progress != nil {
			opts.Progress.Increment()
		}
	}

	return result, nil
}

// fetchEntry handles one listing entry; only filesystem errors are returned
func (f *Fetcher) fetchEntry(ctx context.Context, dest string, entry remote.Entry, opts Options, result *Result) error {
	console := log.FromContext(ctx)

	skip := func(reason string) {
		result.Skipped = append(result.Skipped, entry.Name)
		console.LogFileOperation(ctx, log.FileOperation{Name: entry.Name, Status: log.FileSkipped, Reason: reason})
	}

	if !safeName(entry.Name) {
		skip("unsafe file name")
		return nil
	}
	if !entry.Downloadable() {
		skip("no download url (" + entry.Type + ")")
		return nil
	}
	if pattern, ok := ignored(ctx, opts.Ignore, entry.Name); ok {
		skip("ignored by " + pattern)
		return nil
	}

	content, err := f.download(ctx, entry.DownloadURL)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", entry.Name).Msg("download failed")
		result.Failed = append(result.Failed, entry.Name)
		console.LogFileOperation(ctx, log.FileOperation{Name: entry.Name, Status: log.FileFailed, Reason: err.Error()})
		return nil
	}

	target := filepath.Join(dest, entry.Name)
	if err := os.WriteFile(target, content, 0644); err != nil {
		return errors.Errorf("writing %s: %w", target, err)
	}

	result.Written = append(result.Written, entry.Name)
	console.LogFileOperation(ctx, log.FileOperation{Name: entry.Name, Status: log.FileDownloaded, Bytes: int64(len(content))})
	return nil
}

// download reads the whole body so a broken transfer never leaves a partial file
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	rc, err := f.source.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading body: %w", err)
	}
	return content, nil
}

// safeName rejects names that would land outside the destination
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// 🔍 ignored checks name against the ignore patterns
func ignored(ctx context.Context, patterns []string, name string) (string, bool) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("file", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return pattern, true
		}
	}
	return "", false
}
