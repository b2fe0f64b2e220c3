// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen pipeline scoreboard with forecast and funnel views
package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealdesk/scoring"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewScoreboard ViewMode = iota
	ViewPipeline
	ViewForecast
	ViewFunnel
)

var viewTabs = []string{"Scoreboard", "Pipeline", "Forecast", "Funnel"}

// Model is the main bubbletea model
type Model struct {
	db     *sql.DB
	engine *scoring.Engine

	viewMode    ViewMode
	selectedRow int

	// Forecast view state
	forecastPeriod scoring.Period
	forecastMethod scoring.Method

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(db *sql.DB) Model {
	return Model{
		db:             db,
		engine:         scoring.NewEngine(scoring.Config{}),
		viewMode:       ViewScoreboard,
		forecastPeriod: scoring.PeriodNextQuarter,
		forecastMethod: scoring.MethodWeightedPipeline,
		width:          80,
		height:         24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewScoreboard:
		return m.renderScoreboardView()
	case ViewPipeline:
		return m.renderPipelineView()
	case ViewForecast:
		return m.renderForecastView()
	case ViewFunnel:
		return m.renderFunnelView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "right":
		m.viewMode = ViewMode((int(m.viewMode) + 1) % len(viewTabs))
		m.selectedRow = 0
		return m, nil
	case "shift+tab", "left":
		m.viewMode = ViewMode((int(m.viewMode) + len(viewTabs) - 1) % len(viewTabs))
		m.selectedRow = 0
		return m, nil
	case "r":
		// Views query the database on render, so a repaint is a refresh
		return m, nil
	}

	switch m.viewMode {
	case ViewScoreboard:
		return m.handleScoreboardKeys(msg)
	case ViewForecast:
		return m.handleForecastKeys(msg)
	}

	return m, nil
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range viewTabs {
		if ViewMode(i) == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	hotStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	warmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	coolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))
)

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case scoring.PriorityHot:
		return hotStyle
	case scoring.PriorityWarm:
		return warmStyle
	}
	return coolStyle
}
