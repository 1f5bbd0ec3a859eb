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

package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/ftboot/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com/"

func init() {
	remote.Register("github", func(ctx context.Context, opts remote.Options) (remote.Source, error) {
		return NewSource(ctx, opts)
	})
}

// GitHubClient defines the GitHub API operations we need
type GitHubClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🎯 Source implements remote.Source against the GitHub contents API
type Source struct {
	client     GitHubClient
	httpClient *http.Client
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetContents(ctx, owner, repo, path, opts)
}

// 🏭 NewSource creates a GitHub source, authenticated when opts.Token is set
func NewSource(ctx context.Context, opts remote.Options) (*Source, error) {
	var tc *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		tc = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(tc)
	if err := applyBaseURL(client, opts.BaseURL); err != nil {
		return nil, err
	}

	return &Source{
		client:     &githubClientWrapper{client: client},
		httpClient: http.DefaultClient,
	}, nil
}

// NewSourceWithClient creates a source around an existing client
func NewSourceWithClient(client GitHubClient, httpClient *http.Client) *Source {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Source{client: client, httpClient: httpClient}
}

func applyBaseURL(c *github.Client, baseURL string) error {
	if baseURL == "" || baseURL == defaultAPIURL {
		return nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return errors.Errorf("parsing api url %q: %w", baseURL, err)
	}
	c.BaseURL = u
	return nil
}

// 📂 ListDirectory lists the entries of dir; anything but a 200 with a directory body is an error
func (s *Source) ListDirectory(ctx context.Context, dir remote.Directory) ([]remote.Entry, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("directory", dir.String()).Msg("listing remote directory")

	if err := dir.Validate(); err != nil {
		return nil, errors.Errorf("invalid directory: %w", err)
	}

	file, contents, resp, err := s.client.GetContents(ctx, dir.Owner, dir.Repo, strings.Trim(dir.Path, "/"), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, errors.Errorf("rate limit exceeded: %w", err)
		}
		return nil, errors.Errorf("listing %s: %w", dir, err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("listing %s: unexpected status code: %d", dir, resp.StatusCode)
	}
	if file != nil {
		return nil, errors.Errorf("listing %s: path is a file, not a directory", dir)
	}

	entries := make([]remote.Entry, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, remote.Entry{
			Name:        c.GetName(),
			Type:        c.GetType(),
			Size:        c.GetSize(),
			DownloadURL: c.GetDownloadURL(),
		})
	}

	logger.Debug().Str("directory", dir.String()).Int("entries", len(entries)).Msg("listed remote directory")

	return entries, nil
}

// 📥 Download fetches the raw bytes behind a direct download URL
func (s *Source) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
