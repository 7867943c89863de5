// Copyright 2025 the reorg authors
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

	"github.com/reorgtool/reorg/pkg/fsops"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent move entries
	pathWidth   = 35 // Base width for each path
	statusWidth = 15 // Width for status text
)

// 🎯 MoveOperation represents one executed (or previewed) move for logging
type MoveOperation struct {
	From   string           // Source path
	To     string           // Destination path
	Status fsops.MoveStatus // Backend status
	Reason string           // Optional reason (skip/error detail)
}

// 📦 BatchOperation represents a batch of moves for logging
type BatchOperation struct {
	Root   string // Root directory the batch runs against
	Total  int    // Number of moves in the batch
	DryRun bool   // Whether this is a dry run
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []MoveOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatMoveOperation formats a move operation for display
func (l *Logger) formatMoveOperation(op MoveOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case fsops.StatusMoved:
		symbol = '✓'
		symbolColor = color.FgGreen
	case fsops.StatusMovedFallback:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case fsops.StatusDryOK:
		symbol = '•'
		symbolColor = color.FgCyan
	case fsops.StatusSkip:
		symbol = '-'
		symbolColor = color.FgYellow
	case fsops.StatusError:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '?'
		symbolColor = color.FgWhite
	}

	status := string(op.Status)
	if op.Reason != "" {
		status = fmt.Sprintf("%s (%s)", status, op.Reason)
	}

	// Build the line
	return fmt.Sprintf("%s%s %s → %s %s",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, op.From),
		fmt.Sprintf("%-*s", pathWidth, op.To),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogMoveOperation logs one executed move
func (l *Logger) LogMoveOperation(ctx context.Context, op MoveOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatMoveOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("from", op.From).
		Str("to", op.To).
		Str("status", string(op.Status)).
		Str("reason", op.Reason).
		Msg("move operation")
}

// 📝 LogMoveResult logs a backend move result
func (l *Logger) LogMoveResult(ctx context.Context, result fsops.MoveResult) {
	l.LogMoveOperation(ctx, MoveOperation{
		From:   result.FromPath,
		To:     result.ToPath,
		Status: result.Status,
		Reason: result.Reason,
	})
}

// 📝 LogPlannedMove logs a move that has only been computed, not executed
func (l *Logger) LogPlannedMove(from, to string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s%s %s → %s\n",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(color.FgMagenta).Sprint("◆"),
		fmt.Sprintf("%-*s", pathWidth, from),
		to)

	l.zlog.Info().Str("from", from).Str("to", to).Msg("planned move")
}

// 📝 StartBatch starts a new move batch
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	// Print batch header
	mode := "applying"
	if op.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(l.console, "[%s %s]\n",
		mode,
		color.New(color.FgCyan).Sprint(op.Root))

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d move(s)", op.Total),
		color.New(color.Faint).Sprint("•"))

	// Log to zerolog
	l.zlog.Info().
		Str("root", op.Root).
		Int("total", op.Total).
		Bool("dry_run", op.DryRun).
		Msg("starting move batch")
}

// 📝 EndBatch ends the current move batch
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	// Log summary
	l.zlog.Info().
		Str("root", l.currentOp.Root).
		Int("moves", len(l.operations)).
		Msg("move batch complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reorgText := color.New(color.Bold, color.FgCyan).Sprint("reorg")
	fmt.Fprintf(l.console, "\n%s %s\n\n", reorgText, color.New(color.Faint).Sprint("• "+msg))
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
