package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminal fonts render box-drawing characters badly. CASE_TUI_GLYPHS=ascii
// swaps every glyph the TUI draws for a plain ASCII one.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

const envGlyphs = "CASE_TUI_GLYPHS"

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envGlyphs))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

var asciiConnectors = strings.NewReplacer(
	"│   ", "|   ",
	"├── ", "|-- ",
	"└── ", "`-- ",
)

// glyphPrefix converts the connector art from outline.Row.Prefix.
func glyphPrefix(prefix string) string {
	if glyphs() == glyphSetASCII {
		return asciiConnectors.Replace(prefix)
	}
	return prefix
}

func glyphDetached() string {
	if glyphs() == glyphSetASCII {
		return "~ "
	}
	return "⋯ "
}

func glyphHasDescription() string {
	if glyphs() == glyphSetASCII {
		return " +"
	}
	return " ¶"
}

func glyphCrumbSep() string {
	if glyphs() == glyphSetASCII {
		return " > "
	}
	return " › "
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
