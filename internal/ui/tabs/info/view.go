package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/styles"
	"github.com/j-veylop/tripstat/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections,
		m.renderTitle(),
		m.renderIngestCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Ingest statistics, configuration and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderIngestCard renders what happened to the lines of the last ingest.
func (m *Model) renderIngestCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Last Ingest"))

	snap := m.state.GetSnapshot()
	if snap == nil {
		rows = append(rows, styles.HelpStyle.Render("Nothing ingested yet"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	st := snap.Stats
	rows = append(rows,
		m.renderConfigRow("File", snap.Path),
		m.renderConfigRow("Ingested", humanize.Time(snap.IngestedAt)),
		m.renderConfigRow("Status", ingestStatus(st)),
		"",
		m.renderConfigRow("Data lines", humanize.Comma(st.Lines)),
		m.renderConfigRow("Accepted", fmt.Sprintf("%s (%.1f%%)", humanize.Comma(st.Accepted), st.AcceptRate())),
		m.renderConfigRow("Empty lines", humanize.Comma(st.SkippedEmpty)),
		m.renderConfigRow("Too few fields", humanize.Comma(st.SkippedShort)),
		m.renderConfigRow("Missing field", humanize.Comma(st.SkippedMissing)),
		m.renderConfigRow("Bad hour", humanize.Comma(st.SkippedHour)),
		"",
		m.renderConfigRow("Trips", humanize.Comma(snap.TotalTrips)),
		m.renderConfigRow("Zones", humanize.Comma(int64(snap.DistinctZones))),
	)

	if snap.RunID > 0 {
		rows = append(rows, m.renderConfigRow("Stored as", fmt.Sprintf("run #%d", snap.RunID)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func ingestStatus(st models.IngestStats) string {
	switch {
	case !st.Readable:
		return styles.ErrorTextStyle.Render("file could not be read")
	case st.Truncated:
		return styles.WarningTextStyle.Render("read stopped early, counts are partial")
	default:
		return styles.SuccessTextStyle.Render("complete")
	}
}

// renderConfigCard renders the effective configuration.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		db := m.config.DatabasePath
		if db == "" {
			db = "disabled"
		}
		logFile := m.config.LogFile
		if logFile == "" {
			logFile = "none"
		}
		rows = append(rows,
			m.renderConfigRow("Database", db),
			m.renderConfigRow("Top zones", strconv.Itoa(m.config.TopZones)),
			m.renderConfigRow("Top slots", strconv.Itoa(m.config.TopSlots)),
			m.renderConfigRow("History limit", strconv.Itoa(m.config.HistoryLimit)),
			m.renderConfigRow("Watch debounce", m.config.WatchDebounce.String()),
			m.renderConfigRow("Notifications", strconv.FormatBool(m.config.Notify)),
			m.renderConfigRow("Log level", m.config.LogLevel),
			m.renderConfigRow("Log file", logFile),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About tripstat"))

	rows = append(rows,
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
