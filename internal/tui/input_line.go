package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a prompt label and a text input on one line,
// padded to width.
func renderInputLine(width int, label, inputView string) string {
	if width < 10 {
		width = 10
	}
	// A text input must stay on one visual line.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		width,
		lipgloss.Left,
		lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)+" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > width {
		// Terminate styling so it doesn't bleed past the cut.
		line = xansi.Cut(line, 0, width) + "\x1b[0m"
	}
	return line
}
