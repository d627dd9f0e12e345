// Package report prints an ingest snapshot as plain terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/components"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// NoData is printed in place of the tables when nothing was counted.
const NoData = "no data"

const chartWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Render writes the summary, rankings and hourly curve of snap to w.
func Render(w io.Writer, snap *models.Snapshot) error {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("tripstat " + displayPath(snap)))
	b.WriteString("\n")
	b.WriteString(summary(snap))
	b.WriteString("\n\n")

	if snap.IsEmpty() {
		b.WriteString(NoData)
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(styles.SubTitleStyle.Render("Busiest zones"))
	b.WriteString("\n")
	b.WriteString(ZonesTable(snap).Render())
	b.WriteString("\n\n")

	b.WriteString(styles.SubTitleStyle.Render("Busiest hours"))
	b.WriteString("\n")
	b.WriteString(SlotsTable(snap).Render())
	b.WriteString("\n\n")

	peak, _ := snap.Hourly.Peak()
	caption := fmt.Sprintf("trips per hour, peak %02d:00", peak)
	b.WriteString(components.RenderHourlyCurve(snap.Hourly, chartWidth, 8, caption))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func displayPath(snap *models.Snapshot) string {
	if snap == nil || snap.Path == "" {
		return "-"
	}
	return snap.Path
}

// summary is the one-line header: trips, zones and line accounting.
func summary(snap *models.Snapshot) string {
	if snap == nil {
		return styles.HelpStyle.Render("nothing ingested")
	}
	st := snap.Stats
	if !st.Readable {
		return styles.ErrorTextStyle.Render("file could not be read")
	}

	parts := []string{
		humanize.Comma(snap.TotalTrips) + " trips",
		humanize.Comma(int64(snap.DistinctZones)) + " zones",
		fmt.Sprintf("%s of %s lines accepted (%.1f%%)",
			humanize.Comma(st.Accepted), humanize.Comma(st.Lines), st.AcceptRate()),
	}
	line := strings.Join(parts, " · ")

	if st.Skipped() > 0 {
		line += "\n" + styles.HelpStyle.Render(fmt.Sprintf(
			"skipped: %d empty, %d short, %d missing field, %d bad hour",
			st.SkippedEmpty, st.SkippedShort, st.SkippedMissing, st.SkippedHour))
	}
	if st.Truncated {
		line += "\n" + styles.WarningTextStyle.Render("read stopped early; counts are partial")
	}
	return line
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(headers...)
}

// ZonesTable builds the ranked zone table.
func ZonesTable(snap *models.Snapshot) *table.Table {
	t := newTable("#", "Zone", "Trips", "Share", "Peak", "By hour")
	for i, z := range snap.TopZones {
		profile := snap.Profiles[z.Zone]
		peak, _ := profile.Peak()
		t.Row(
			strconv.Itoa(i+1),
			z.Zone,
			humanize.Comma(z.Count),
			fmt.Sprintf("%.1f%%", snap.Share(z.Count)),
			fmt.Sprintf("%02d:00", peak),
			components.RenderSparkline(profile),
		)
	}
	return t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 0 || col == 2 || col == 3:
			return numberStyle
		default:
			return cellStyle
		}
	})
}

// SlotsTable builds the ranked (zone, hour) table.
func SlotsTable(snap *models.Snapshot) *table.Table {
	t := newTable("#", "Zone", "Hour", "Trips", "Of zone")
	for i, s := range snap.TopSlots {
		ofZone := "-"
		if p, ok := snap.Profiles[s.Zone]; ok && p.Total() > 0 {
			ofZone = fmt.Sprintf("%.1f%%", float64(s.Count)/float64(p.Total())*100)
		}
		t.Row(
			strconv.Itoa(i+1),
			s.Zone,
			s.HourLabel(),
			humanize.Comma(s.Count),
			ofZone,
		)
	}
	return t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 0 || col == 3 || col == 4:
			return numberStyle
		default:
			return cellStyle
		}
	})
}
