// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning, info and section headers, with
// color support and a quiet mode.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode represents the color output modes.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colored output.
	ColorNever
)

// Presenter writes user-facing CLI messages.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a Presenter writing to stdout/stderr with color mode
// detected from the environment.
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a Presenter with explicit outputs and color
// mode, mainly for tests.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *Presenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Presenter{output: output, errorOutput: errorOutput}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("SKILLET_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	}
	return ColorAuto
}

// SetQuiet suppresses info and success output; errors still print.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func (p *Presenter) IsQuiet() bool {
	return p.quiet
}

// Error prints an error with optional context to the error output.
// Errors print even in quiet mode.
func (p *Presenter) Error(err error, context string) {
	msg := err.Error()
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}
	fmt.Fprintln(p.errorOutput, color.RedString("Error: %s", msg))
}

// Success prints a success message.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, color.GreenString("✓ %s", message))
}

// Warning prints a warning message.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, color.YellowString("Warning: %s", message))
}

// Info prints a plain informational message.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section prints a highlighted section header.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, color.CyanString("=== %s ===", title))
}

// defaultPresenter backs the package-level convenience functions.
var defaultPresenter = New()

// Error prints an error via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success prints a success message via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning prints a warning via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info prints an informational message via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section prints a section header via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
