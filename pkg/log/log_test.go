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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := context.Background()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "verbose_fetch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartFetch(ctx, FetchOperation{Source: "o/r/data", Destination: "data", Verbose: true})
				logger.LogFileOperation(ctx, FileOperation{Name: "a.csv", Status: FileDownloaded, Bytes: 3})
				logger.LogFileOperation(ctx, FileOperation{Name: "b.csv", Status: FileFailed, Reason: "404"})
				logger.LogFileOperation(ctx, FileOperation{Name: "nested", Status: FileSkipped, Reason: "no download url"})
			},
			wantLogs: []string{
				"◆ o/r/data → data",
				"Downloaded: a.csv",
				"Failed to download: b.csv",
				fmt.Sprintf("- %-35s %s", "nested", "no download url"),
			},
		},
		{
			name: "quiet_fetch_only_prints_failures",
			op: func(t *testing.T, logger *Logger) {
				logger.StartFetch(ctx, FetchOperation{Source: "o/r/data", Destination: "data"})
				logger.LogFileOperation(ctx, FileOperation{Name: "a.csv", Status: FileDownloaded})
				logger.LogFileOperation(ctx, FileOperation{Name: "nested", Status: FileSkipped})
				logger.LogFileOperation(ctx, FileOperation{Name: "b.csv", Status: FileFailed})
			},
			wantLogs: []string{
				"Failed to download: b.csv",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
				logger.Plain("plain message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
				"plain message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
				logger.Plainf("Data directory exists at: %s", "../data")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
				"Data directory exists at: ../data",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("Running bootstrap")
			},
			wantLogs: []string{
				"ftboot • Running bootstrap",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestEndFetch(t *testing.T) {
	ctx := context.Background()
	logger := NewWithZerolog(io.Discard, zerolog.Nop())

	assert.Nil(t, logger.EndFetch(ctx), "ending without a fetch should return nothing")

	logger.StartFetch(ctx, FetchOperation{Source: "o/r/data", Destination: "data"})
	logger.LogFileOperation(ctx, FileOperation{Name: "a.csv", Status: FileDownloaded})
	logger.LogFileOperation(ctx, FileOperation{Name: "b.csv", Status: FileFailed})

	ops := logger.EndFetch(ctx)
	require.Len(t, ops, 2, "both operations should be recorded")
	assert.Equal(t, "a.csv", ops[0].Name, "operations should keep listing order")
	assert.Equal(t, FileFailed, ops[1].Status, "status should be preserved")

	assert.Nil(t, logger.EndFetch(ctx), "second end should be a no-op")
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a discard logger")
	assert.NotPanics(t, func() { fallback.Info("dropped") }, "discard logger should be usable")
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "downloaded", FileDownloaded.String(), "downloaded status")
	assert.Equal(t, "failed", FileFailed.String(), "failed status")
	assert.Equal(t, "skipped", FileSkipped.String(), "skipped status")
	assert.Equal(t, "unknown", FileStatus(42).String(), "unknown status")
}
