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
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 10 // Width for entry type
	statusWidth = 10 // Width for status text
)

// 🎯 FileOperation represents a file operation for logging
type FileOperation struct {
	Path      string // File path
	Type      string // Entry type (dir/file/root)
	Status    string // Operation status
	IsNew     bool   // Whether the entry was created
	IsPatched bool   // Whether an existing file was patched
	IsFailed  bool   // Whether the operation failed
}

// 📦 ModuleOperation represents a module creation for logging
type ModuleOperation struct {
	Name        string // Module path as given on the command line
	Declaration string // Declaration line inserted into the root file
	Project     string // Project directory
}

// 🎯 Logger prints a human readable report and mirrors it to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer // per-file report lines
	errConsole io.Writer // final error line
	mu         sync.Mutex
	currentOp  *ModuleOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console, errConsole io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:       zlog,
		console:    console,
		errConsole: errConsole,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards everything
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsPatched:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	// Format type with color
	var typeColor color.Attribute
	switch op.Type {
	case "dir":
		typeColor = color.FgCyan
	case "root":
		typeColor = color.FgYellow
	default:
		typeColor = color.FgBlue
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(typeColor).Sprint(fmt.Sprintf("%-*s", typeWidth, op.Type)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatFileOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("path", op.Path).
		Str("type", op.Type).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_patched", op.IsPatched).
		Bool("is_failed", op.IsFailed).
		Msg("file operation")
}

// 📝 StartModuleOperation starts a new module operation
func (l *Logger) StartModuleOperation(ctx context.Context, op ModuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	// Print module header
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Declaration))

	// Log to zerolog
	l.zlog.Info().
		Str("module", op.Name).
		Str("declaration", op.Declaration).
		Str("project", op.Project).
		Msg("starting module operation")
}

// 📝 EndModuleOperation ends the current module operation
func (l *Logger) EndModuleOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	// Log summary
	l.zlog.Info().
		Str("module", l.currentOp.Name).
		Int("files", len(l.operations)).
		Msg("module operation complete")

	l.currentOp = nil
	l.operations = nil
}

// Operations returns the file operations logged since the current module operation started.
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Error prints a single error line. The zerolog copy is at debug level so
// the default stderr output stays one line.
func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := msg
	if err != nil {
		line = fmt.Sprintf("%s: %v", msg, err)
	}
	fmt.Fprintf(l.errConsole, "❌ %s\n", color.New(color.FgRed).Sprint(line))
	l.zlog.Debug().Err(err).Msg(msg)
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
