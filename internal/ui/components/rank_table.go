package components

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// NewRankTable creates a focused table styled for ranking lists.
func NewRankTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(1),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle.Padding(0, 1)
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return t
}

// FitTableHeight sizes t to show all of its rows, up to limit.
func FitTableHeight(t *table.Model, limit int) {
	h := len(t.Rows()) + lipgloss.Height(styles.TableHeaderStyle.Render("#"))
	if limit > 0 && h > limit {
		h = limit
	}
	t.SetHeight(h)
}
