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

package remote

import (
	"context"
	"io"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏭 Factory creates a Source from provider options
type Factory func(ctx context.Context, opts Options) (Source, error)

var registry = map[string]Factory{}

// 📝 Register registers a source factory under a provider name
func Register(name string, factory Factory) {
	registry[name] = factory
}

// 🎯 Get builds the source registered under name
func Get(ctx context.Context, name string, opts Options) (Source, error) {
	factory, ok := registry[name]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return factory(ctx, opts)
}

// 🔧 Options configures a Source
type Options struct {
	// BaseURL overrides the provider API endpoint (empty means the public API)
	BaseURL string
	// Token authenticates API requests (empty means anonymous)
	Token string
}

// Source lists a remote directory and downloads the files it contains
type Source interface {
	// ListDirectory issues the listing request for dir
	ListDirectory(ctx context.Context, dir Directory) ([]Entry, error)
	// Download fetches the raw content behind a direct download URL
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// 📦 Directory identifies a directory inside a remote repository
type Directory struct {
	Owner string // user or organization
	Repo  string // repository name
	Path  string // directory path within the repository
}

// 🔍 Validate checks that every part of the reference is set
func (d Directory) Validate() error {
	if strings.TrimSpace(d.Owner) == "" {
		return errors.New("owner is required")
	}
	if strings.TrimSpace(d.Repo) == "" {
		return errors.New("repo is required")
	}
	if strings.Trim(strings.TrimSpace(d.Path), "/") == "" {
		return errors.New("path is required")
	}
	return nil
}

func (d Directory) String() string {
	return d.Owner + "/" + d.Repo + "/" + strings.Trim(d.Path, "/")
}

// Entry types reported by a listing
const (
	EntryFile    = "file"
	EntryDir     = "dir"
	EntrySymlink = "symlink"
)

// 📄 Entry is one item of a directory listing
type Entry struct {
	Name        string
	Type        string
	Size        int
	DownloadURL string
}

// Downloadable reports whether the entry exposes a direct download URL
func (e Entry) Downloadable() bool {
	return e.DownloadURL != ""
}
