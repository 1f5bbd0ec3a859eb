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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // base width for file names
)

// 🎯 FileStatus is the outcome of a single listed file
type FileStatus int

const (
	FileDownloaded FileStatus = iota
	FileFailed
	FileSkipped
)

func (s FileStatus) String() string {
	switch s {
	case FileDownloaded:
		return "downloaded"
	case FileFailed:
		return "failed"
	case FileSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📄 FileOperation describes what happened to one listed file
type FileOperation struct {
	Name   string     // file name as reported by the listing
	Status FileStatus // outcome
	Bytes  int64      // bytes written, when downloaded
	Reason string     // why it was skipped or failed
}

// 📦 FetchOperation describes one directory fetch
type FetchOperation struct {
	Source      string // owner/repo/path
	Destination string // local directory
	Verbose     bool   // print per-file success lines
}

// 🎯 Logger prints user-facing notices and mirrors them into zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *FetchOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger around an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWithZerolog(io.Discard, zerolog.Nop())
}

type contextKey struct{}

// 🎯 FromContext gets the logger from context, falling back to Discard
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartFetch records the start of a directory fetch
func (l *Logger) StartFetch(ctx context.Context, op FetchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	if op.Verbose {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Source),
			color.New(color.Faint).Sprint("→"),
			color.New(color.FgCyan).Sprint(op.Destination))
	}

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Msg("starting directory fetch")
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	switch op.Status {
	case FileDownloaded:
		return fmt.Sprintf("Downloaded: %s", op.Name)
	case FileFailed:
		return fmt.Sprintf("Failed to download: %s", op.Name)
	default:
		return fmt.Sprintf("%*s%s %-*s %s",
			fileIndent, "",
			color.New(color.FgYellow).Sprint("-"),
			nameWidth, op.Name,
			color.New(color.Faint).Sprint(op.Reason))
	}
}

// 📝 LogFileOperation reports the outcome for one file.
// Successful downloads are only printed when the fetch is verbose.
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	verbose := l.currentOp != nil && l.currentOp.Verbose
	switch op.Status {
	case FileDownloaded:
		if verbose {
			fmt.Fprintln(l.console, color.New(color.FgGreen).Sprint(l.formatFileOperation(op)))
		}
	case FileFailed:
		fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(l.formatFileOperation(op)))
	default:
		if verbose {
			fmt.Fprintln(l.console, l.formatFileOperation(op))
		}
	}

	ev := l.zlog.Info()
	if op.Status == FileFailed {
		ev = l.zlog.Warn()
	}
	ev.Str("file", op.Name).
		Str("status", op.Status.String()).
		Int64("bytes", op.Bytes).
		Str("reason", op.Reason).
		Msg("file operation")
}

// 📝 EndFetch closes the current fetch and returns the recorded operations
func (l *Logger) EndFetch(ctx context.Context) []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Int("files", len(ops)).
		Msg("directory fetch complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("ftboot")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Plain prints a message without decoration
func (l *Logger) Plain(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Plainf prints a formatted message without decoration
func (l *Logger) Plainf(format string, args ...interface{}) {
	l.Plain(fmt.Sprintf(format, args...))
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
