package slots

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/ui/components"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// View renders the slots tab.
func (m *Model) View() string {
	m.sync()

	sections := []string{m.renderTitle()}
	if m.snap.IsEmpty() {
		sections = append(sections, components.RenderNoData(m.snap, m.width))
	} else {
		sections = append(sections,
			m.renderRanking(),
			m.renderSlotDetail(),
			m.renderHourlyTotals(),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Busiest Hours")
	subtitle := styles.HelpStyle.Render("Pickups ranked by zone and hour of day")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderRanking() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◷")
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render(
			fmt.Sprintf("Top %d slots", len(m.snap.TopSlots)))),
		m.table.View(),
	))
}

func (m *Model) renderSlotDetail() string {
	slot, ok := m.selectedSlot()
	if !ok {
		return ""
	}
	cardWidth := max(m.width-6, 40)

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.ZoneColor).Render("●")
	rows = append(rows, fmt.Sprintf("%s %s",
		titleIcon, styles.CardTitleStyle.Render(fmt.Sprintf("%s at %s", slot.Zone, slot.HourLabel()))))

	profile, ok := m.snap.Profiles[slot.Zone]
	if !ok || profile.Total() == 0 {
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("  %s trips; %s is outside the top zones, no hourly breakdown stored",
				humanize.Comma(slot.Count), slot.Zone)))
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	rows = append(rows,
		fmt.Sprintf("  %s of %s trips in %s",
			humanize.Comma(slot.Count), humanize.Comma(profile.Total()), slot.Zone),
		"",
		"  "+components.RenderHourlyHeatmap(profile),
		"",
	)

	chart := components.RenderHourlyCurve(profile, max(cardWidth-18, 24), 6,
		fmt.Sprintf("%s trips per hour", slot.Zone))
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderHourlyTotals() string {
	cardWidth := max(m.width-6, 40)
	peakHour, peakCount := m.snap.Hourly.Peak()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.TotalColor).Render("▤")
	rows = append(rows,
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("All Zones by Hour")),
		"  "+components.RenderHourlyHeatmap(m.snap.Hourly),
		"",
	)

	chart := components.RenderHourlyCurve(m.snap.Hourly, max(cardWidth-18, 24), 8,
		fmt.Sprintf("trips per hour, peak %02d:00 (%s)", peakHour, humanize.Comma(peakCount)))
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
