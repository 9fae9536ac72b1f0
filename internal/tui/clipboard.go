package tui

import (
	"strings"

	"github.com/atotto/clipboard"
)

// copyToClipboard goes through pbcopy, clip.exe, wl-copy, xclip or xsel,
// whichever the platform has.
func copyToClipboard(s string) error {
	return clipboard.WriteAll(strings.ReplaceAll(s, "\r\n", "\n"))
}
