package zones

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/ui/components"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// View renders the zones tab.
func (m *Model) View() string {
	m.sync()

	if m.state.IsInitialLoading() {
		return m.spinner.RenderCentered(m.width, m.height)
	}

	sections := []string{m.renderTitle()}
	if m.snap.IsEmpty() {
		sections = append(sections, components.RenderNoData(m.snap, m.width))
	} else {
		sections = append(sections,
			m.renderRanking(),
			m.renderSelectedZone(),
			m.renderDistribution(),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Busiest Zones")

	subtitle := "Pickups ranked by zone"
	if !m.snap.IsEmpty() {
		subtitle = fmt.Sprintf("%s trips in %s zones · %s · updated %s",
			humanize.Comma(m.snap.TotalTrips),
			humanize.Comma(int64(m.snap.DistinctZones)),
			filepath.Base(m.snap.Path),
			humanize.Time(m.state.GetLastUpdated()),
		)
	}

	subtitle = styles.HelpStyle.Render(subtitle)
	if m.state.IsIngestLoading() {
		subtitle = m.spinner.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderRanking() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render(
			fmt.Sprintf("Top %d", len(m.snap.TopZones)))),
		m.table.View(),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSelectedZone() string {
	cardWidth := max(m.width-6, 40)
	contentWidth := max(cardWidth-8, 30)

	zone, ok := m.state.GetSelectedZone()
	if !ok {
		return ""
	}
	share := m.snap.Share(zone.Count)

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.ZoneColor).Render("●")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render(zone.Zone)),
		m.shareBar.View(share, "Share of trips", contentWidth),
		"",
	)

	profile, ok := m.snap.Profiles[zone.Zone]
	if !ok || profile.Total() == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hourly breakdown stored"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	peakHour, peakCount := profile.Peak()
	rows = append(rows,
		"  "+components.RenderHourlyHeatmap(profile),
		fmt.Sprintf("  Peak: %s (%s trips)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(fmt.Sprintf("%02d:00-%02d:00", peakHour, (peakHour+1)%24)),
			humanize.Comma(peakCount),
		),
		"",
	)

	chart := components.RenderCompareChart(profile, m.snap.Hourly, max(contentWidth-10, 24), 6,
		"share of peak by hour")
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "", "  "+components.RenderLegend([]components.LegendItem{
		{Label: zone.Zone, Color: styles.ZoneColor},
		{Label: "All zones", Color: styles.TotalColor},
	}))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDistribution() string {
	cardWidth := max(m.width-6, 40)

	values := make([]int64, len(m.snap.TopZones))
	labels := make([]string, len(m.snap.TopZones))
	for i, z := range m.snap.TopZones {
		values[i] = z.Count
		labels[i] = truncateLabel(z.Zone, 20)
	}

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("▤")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Trips by Zone")))
	for line := range strings.SplitSeq(components.RenderBarChart(values, labels, cardWidth-8), "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "", styles.HelpStyle.Render(fmt.Sprintf("  Top %d hold %.1f%% of all trips",
		len(values), m.snap.Share(sum(values)))))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
