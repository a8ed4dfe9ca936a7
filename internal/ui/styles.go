// Package ui renders terminal output: forms, progress, release notes and
// run history.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var (
	cPurple     = lipgloss.Color("#7D56F4")
	cPink       = lipgloss.Color("#FF79C6")
	cDim        = lipgloss.Color("#6272A4")
	cText       = lipgloss.Color("#F8F8F2")
	cGreen      = lipgloss.Color("#50FA7B")
	cRed        = lipgloss.Color("203")
	cGold       = lipgloss.Color("220")
	cBrightGray = lipgloss.Color("246")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cPurple)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(cDim).
			Italic(true)

	styleSpinner = lipgloss.NewStyle().
			Foreground(cPink)

	styleStatus = lipgloss.NewStyle().
			Foreground(cText)

	styleCount = lipgloss.NewStyle().
			Foreground(cDim)

	styleSuccess = lipgloss.NewStyle().
			Foreground(cGreen).
			Bold(true)

	styleFailure = lipgloss.NewStyle().
			Foreground(cRed).
			Bold(true)

	styleKey = lipgloss.NewStyle().
			Foreground(cGold).
			Bold(true).
			Width(20)

	styleValue = lipgloss.NewStyle().
			Foreground(cText)

	styleStatsDim = lipgloss.NewStyle().
			Foreground(cBrightGray)

	styleContainer = lipgloss.NewStyle().
			Padding(0, 1)
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// InitColor drops all styling when NO_COLOR is set or the terminal has no
// color support.
func InitColor() {
	if termenv.EnvNoColor() || termenv.NewOutput(os.Stdout).EnvColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Wrap word-wraps text at width.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}

// Success renders a completion message.
func Success(msg string, width int) string {
	return styleSuccess.Render(Wrap(msg, width))
}

// Failure renders an error message.
func Failure(msg string, width int) string {
	return styleFailure.Render(Wrap(msg, width))
}

// Title renders a heading.
func Title(text string) string {
	return styleTitle.Render(text)
}

// Dim renders secondary text.
func Dim(text string) string {
	return styleStatsDim.Render(text)
}

// KeyValue renders an aligned "key  value" line.
func KeyValue(key, value string) string {
	return styleKey.Render(key) + styleValue.Render(value)
}

// NewMarkdownRenderer returns a renderer for release notes. format is a
// glamour standard style ("dark", "light", "notty") or "plain" for
// word-wrapped text only.
func NewMarkdownRenderer(format string, width int) func(string) string {
	if width <= 0 {
		width = DefaultWidth
	}
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
