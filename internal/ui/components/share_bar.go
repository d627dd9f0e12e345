package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// ShareBar renders a zone's share of all trips as a progress bar.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with a gradient from low to high share.
func NewShareBar() ShareBar {
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// View renders the bar with a label and the percentage.
func (s ShareBar) View(percent float64, label string, width int) string {
	barWidth := width - 30 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	s.progress.Width = barWidth

	bar := s.progress.ViewAs(clampPercent(percent) / 100)

	percentStr := styles.GetShareStyle(percent).
		Width(7).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", percent))

	labelStr := styles.ProgressLabelStyle.Width(18).MaxWidth(18).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewCompact renders the bar and percentage without a label.
func (s ShareBar) ViewCompact(percent float64, width int) string {
	barWidth := width - 8
	if barWidth < 5 {
		barWidth = 5
	}
	s.progress.Width = barWidth

	bar := s.progress.ViewAs(clampPercent(percent) / 100)
	percentStr := styles.GetShareStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

func clampPercent(p float64) float64 {
	return max(0, min(p, 100))
}
