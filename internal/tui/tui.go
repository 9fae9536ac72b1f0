package tui

import (
	"context"

	"case-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run loads the outline from s and runs the interactive TUI until the user
// quits. Every edit is saved immediately.
func Run(ctx context.Context, s store.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	o, err := s.Load(ctx)
	if err != nil {
		return err
	}
	m := newAppModel(ctx, o, s, s.Log, opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
