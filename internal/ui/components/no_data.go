package components

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// RenderNoData renders a card explaining why a snapshot has nothing to show.
func RenderNoData(snap *models.Snapshot, width int) string {
	var rows []string

	switch {
	case snap == nil:
		rows = append(rows,
			styles.CardTitleStyle.Render("No data"),
			styles.HelpStyle.Render("Nothing has been ingested yet."),
		)
	case !snap.Stats.Readable:
		rows = append(rows,
			styles.CardTitleStyle.Render("No data"),
			styles.ErrorTextStyle.Render("Cannot read "+filepath.Base(snap.Path)),
			"",
			styles.HelpStyle.Render("Fix the path and press r to retry."),
		)
	default:
		st := snap.Stats
		rows = append(rows,
			styles.CardTitleStyle.Render("No data"),
			styles.WarningTextStyle.Render(fmt.Sprintf("No trips counted in %s", filepath.Base(snap.Path))),
			"",
			styles.HelpStyle.Render(fmt.Sprintf("%s data lines read, %s skipped",
				humanize.Comma(st.Lines), humanize.Comma(st.Skipped()))),
		)
	}

	return styles.CardStyle.Width(max(width-6, 40)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
