package components

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/tripstat/internal/models"
	"github.com/j-veylop/tripstat/internal/ui/styles"
)

// IngestSpinner is shown while a trip file is being read. Its label names
// the file and, once a pass has completed, the size of that pass.
type IngestSpinner struct {
	spinner spinner.Model
	style   lipgloss.Style
	path    string
	prev    *models.IngestStats
}

// NewIngestSpinner creates a spinner with no file set.
func NewIngestSpinner() IngestSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return IngestSpinner{
		spinner: s,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the spinner animation.
func (s IngestSpinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner tick messages.
func (s IngestSpinner) Update(msg tea.Msg) (IngestSpinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// SetPath sets the file being read.
func (s *IngestSpinner) SetPath(path string) {
	s.path = path
}

// SetPrevious records the statistics of the last completed pass. Passes
// over unreadable files are ignored.
func (s *IngestSpinner) SetPrevious(stats models.IngestStats) {
	if !stats.Readable {
		return
	}
	s.prev = &stats
}

// Label describes the ingest in progress.
func (s IngestSpinner) Label() string {
	if s.path == "" {
		return "Ingesting trips..."
	}
	label := fmt.Sprintf("Reading %s...", filepath.Base(s.path))
	if s.prev != nil {
		label += fmt.Sprintf(" (last pass: %s lines, %s accepted)",
			humanize.Comma(s.prev.Lines), humanize.Comma(s.prev.Accepted))
	}
	return label
}

// View renders the spinner followed by its label.
func (s IngestSpinner) View() string {
	return s.spinner.View() + " " + s.style.Render(s.Label())
}

// RenderCentered renders the spinner centered in a width x height area.
func (s IngestSpinner) RenderCentered(width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
