// ABOUTME: Scoreboard view for the TUI
// ABOUTME: Ranked open deals with priority highlighting and factor detail
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/dealdesk/analytics"
	"github.com/harperreed/dealdesk/scoring"
)

func (m Model) handleScoreboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	}
	return m, nil
}

func (m Model) rankedDeals() ([]scoring.ScoreResult, error) {
	contexts, err := analytics.GatherDealContexts(m.db, nil)
	if err != nil {
		return nil, err
	}
	return m.engine.RankDeals(contexts, time.Now())
}

func (m Model) renderScoreboardView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEALDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	ranked, err := m.rankedDeals()
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}

	if len(ranked) == 0 {
		s.WriteString("No open deals to score")
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("tab: switch view • q: quit"))
		return s.String()
	}

	columns := []table.Column{
		{Title: "Score", Width: 6},
		{Title: "Priority", Width: 8},
		{Title: "Deal", Width: 28},
		{Title: "Account", Width: 22},
		{Title: "Amount", Width: 12},
		{Title: "Stage", Width: 14},
		{Title: "Close", Width: 10},
	}

	var rows []table.Row
	for _, r := range ranked {
		rows = append(rows, table.Row{
			fmt.Sprintf("%.0f", r.Score),
			priorityStyle(r.Priority).Render(r.Priority),
			r.DealName,
			r.AccountName,
			fmt.Sprintf("$%.2f", float64(r.Amount)/100.0),
			string(r.Stage),
			r.CloseDate.Format("2006-01-02"),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, m.height-14)),
	)

	selected := m.selectedRow
	if selected >= len(rows) {
		selected = len(rows) - 1
	}
	t.SetCursor(selected)

	s.WriteString(t.View())
	s.WriteString("\n\n")

	// Factor breakdown for the selected deal
	r := ranked[selected]
	s.WriteString(fmt.Sprintf("%s — %s\n", r.DealName, r.RecommendedAction))
	for _, factor := range r.Factors {
		s.WriteString(fmt.Sprintf("  %s\n", factor))
	}

	s.WriteString(helpStyle.Render("↑/↓: select • r: refresh • tab: switch view • q: quit"))
	return s.String()
}
