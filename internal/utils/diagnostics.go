package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects regular and error output
func (d *DiagnosticSystem) SetOutput(output, errorOut io.Writer) {
	d.output = output
	d.errorOut = errorOut
}

// SetColors forces colored output on or off
func (d *DiagnosticSystem) SetColors(enabled bool) {
	d.useColors = enabled
}

// SetShowTime toggles timestamps on leveled messages
func (d *DiagnosticSystem) SetShowTime(enabled bool) {
	d.showTime = enabled
}

// Level returns the configured verbosity
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...any) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...any) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...any) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...any) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Header outputs the tool banner line
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.paint(color.FgCyan).Fprintf(d.output, "fnspec: %s\n", message)
	}
}

// Category outputs a category header like [greet]
func (d *DiagnosticSystem) Category(title string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s[%s]\n", d.getIndent(), title)
	}
}

// Field outputs an indented key/value line
func (d *DiagnosticSystem) Field(key string, value any) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s%s: %v\n", d.getIndent(), d.paint(color.Bold).Sprint(key), value)
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// Success outputs a check-marked line
func (d *DiagnosticSystem) Success(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		d.paint(color.FgGreen).Fprint(d.output, d.getIndent()+"✓ ")
		fmt.Fprintf(d.output, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Failure outputs a cross-marked line to the error writer
func (d *DiagnosticSystem) Failure(format string, args ...any) {
	if d.level >= DiagnosticError {
		d.paint(color.FgRed).Fprint(d.errorOut, d.getIndent()+"✗ ")
		fmt.Fprintf(d.errorOut, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary; keys are printed in the given order
func (d *DiagnosticSystem) Summary(title string, keys []string, stats map[string]any) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s\n", title)
		for _, key := range keys {
			fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
		}
	}
}

// Raw writes text to the regular output regardless of level
func (d *DiagnosticSystem) Raw(text string) {
	fmt.Fprint(d.output, text)
}

func (d *DiagnosticSystem) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if d.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...any) {
	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	output.WriteString(d.paint(attr).Sprintf("[%s]", level))
	output.WriteString(" ")
	output.WriteString(fmt.Sprintf(format, args...))
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}
