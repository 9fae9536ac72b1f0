package tui

import (
	"case-cli/internal/outline"

	"github.com/charmbracelet/bubbles/list"
)

// rowItem adapts an outline row to bubbles/list.
type rowItem struct {
	row outline.Row
}

func (it rowItem) FilterValue() string { return it.row.Entry.Title() }

func toItems(rows []outline.Row) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{row: r})
	}
	return items
}
