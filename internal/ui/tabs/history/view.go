package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/report"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	m.sync()

	var content string
	switch {
	case m.historyDisabled():
		content = m.renderDisabled()
	case m.loading:
		content = styles.HelpStyle.Render(fmt.Sprintf("Loading run #%d...", m.detailID))
	case m.detail != nil:
		content = m.renderDetail()
	case len(m.runs) == 0:
		content = m.renderEmpty()
	default:
		content = m.renderList()
	}

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderDisabled() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("Run history is disabled."),
		styles.HelpStyle.Render("Set TRIPSTAT_DATABASE_PATH and run without -no-history to record runs."),
	)
}

func (m *Model) renderEmpty() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No runs recorded yet."),
		styles.HelpStyle.Render("Every ingest is stored here once it completes."),
	)
}

func (m *Model) renderList() string {
	cardWidth := max(m.width-6, 40)

	title := styles.TitleStyle.Render("History")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d most recent runs, newest first", len(m.runs)))

	var rows []string
	if m.errorMsg != "" {
		rows = append(rows, fmt.Sprintf("%s %s", styles.ErrorTextStyle.Render("Error:"), m.errorMsg), "")
	}
	rows = append(rows, m.table.View())

	card := styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", card)
}

func (m *Model) renderDetail() string {
	header := styles.TitleStyle.Render(fmt.Sprintf("Run #%d", m.detailID))
	when := styles.HelpStyle.Render(fmt.Sprintf("Ingested %s (%s) · esc to go back",
		humanize.Time(m.detail.IngestedAt),
		m.detail.IngestedAt.Local().Format("Jan 2, 2006 15:04:05"),
	))

	var b strings.Builder
	if err := report.Render(&b, m.detail); err != nil {
		b.WriteString(styles.ErrorTextStyle.Render(err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, when, "", b.String())
}
