package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fastreer-gui/internal/history"
)

// RenderHistory lists entries newest first, one per line.
func RenderHistory(entries []history.Entry, width int) string {
	if len(entries) == 0 {
		return Dim("No runs recorded yet.")
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(renderEntry(e, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEntry(e history.Entry, width int) string {
	when := fmt.Sprintf("%-8s", FormatRelativeTime(e.StartedAt))
	outcome := outcomeStyle(e.Outcome).Render(fmt.Sprintf("%-10s", e.Outcome))

	var what string
	switch e.Kind {
	case history.KindJob:
		what = fmt.Sprintf("%-10s %d input(s) -> %s  exit=%d  %s",
			e.Mode, len(e.Inputs), e.Output, e.ExitCode, FormatDuration(e.Duration()))
	default:
		what = "update     " + strings.ReplaceAll(e.Message, "\n", " ")
	}

	line := fmt.Sprintf("%s %s %s", Dim(when), outcome, what)
	if width > 0 {
		return Wrap(line, width)
	}
	return line
}

func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "ok", "installed", "up-to-date":
		return styleSuccess
	case "failed":
		return styleFailure
	default:
		return styleStatsDim
	}
}
