// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 24 {
		width = 24
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderHourlyCurve plots trips per hour of the day.
func RenderHourlyCurve(p models.HourlyProfile, width, height int, caption string) string {
	if p.Total() == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	return RenderLineChart(p.Floats(), width, height, caption)
}

// RenderCompareChart plots a zone's hourly profile against the all-zone
// totals, both scaled to their own peak so their shapes can be compared.
func RenderCompareChart(zone, total models.HourlyProfile, width, height int, caption string) string {
	if zone.Total() == 0 && total.Total() == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 24 {
		width = 24
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.PlotMany([][]float64{normalize(zone), normalize(total)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)
}

// normalize scales a profile to 0-100 of its own peak.
func normalize(p models.HourlyProfile) []float64 {
	out := p.Floats()
	_, peak := p.Peak()
	if peak == 0 {
		return out
	}
	for i := range out {
		out[i] = out[i] / float64(peak) * 100
	}
	return out
}

// RenderBarChart creates a simple horizontal bar chart of counts.
func RenderBarChart(values []int64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	var maxVal int64
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Find max label length
	maxLabelLen := 0
	for _, l := range labels {
		if n := lipgloss.Width(l); n > maxLabelLen {
			maxLabelLen = n
		}
	}

	barWidth := width - maxLabelLen - 12 // Leave room for label and value
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		barLen := int(float64(v) / float64(maxVal) * float64(barWidth))
		if barLen < 0 {
			barLen = 0
		}

		bar := strings.Repeat("█", barLen)
		lines = append(lines, paddedLabel+" │"+bar+" "+humanize.Comma(v))
	}

	return strings.Join(lines, "\n")
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap creates a 24-hour heatmap of a profile.
func RenderHourlyHeatmap(p models.HourlyProfile) string {
	_, maxVal := p.Peak()
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	result.WriteString("00 ")

	for i, v := range p {
		intensity := int(float64(v) / float64(maxVal) * float64(len(HeatmapBlocks)-1))
		intensity = max(0, min(intensity, len(HeatmapBlocks)-1))

		var style lipgloss.Style
		switch intensity {
		case 0:
			style = lipgloss.NewStyle().Foreground(styles.Subtle)
		case 1:
			style = lipgloss.NewStyle().Foreground(styles.Success)
		case 2:
			style = lipgloss.NewStyle().Foreground(styles.Warning)
		case 3:
			style = lipgloss.NewStyle().Foreground(styles.Error)
		}

		result.WriteString(style.Render(string(HeatmapBlocks[intensity])))

		// Add gap at noon for readability
		if i == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline of a profile.
func RenderSparkline(p models.HourlyProfile) string {
	_, maxVal := p.Peak()
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	for _, v := range p {
		n := int(float64(v) / float64(maxVal) * float64(len(sparkChars)-1))
		result.WriteRune(sparkChars[max(0, min(n, len(sparkChars)-1))])
	}
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
