// ABOUTME: Pipeline view for the TUI
// ABOUTME: Open pipeline totals and weighted value per stage
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/harperreed/dealdesk/db"
)

func (m Model) renderPipelineView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEALDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	summaries, err := db.StageSummaries(m.db)
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}

	if len(summaries) == 0 {
		s.WriteString("Pipeline is empty")
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("tab: switch view • q: quit"))
		return s.String()
	}

	columns := []table.Column{
		{Title: "Stage", Width: 14},
		{Title: "Deals", Width: 6},
		{Title: "Amount", Width: 14},
		{Title: "Avg Prob", Width: 9},
		{Title: "Weighted", Width: 14},
	}

	var total int64
	var weighted float64
	var rows []table.Row
	for _, summary := range summaries {
		stageWeighted := float64(summary.TotalAmount) * summary.AvgProbability / 100
		total += summary.TotalAmount
		weighted += stageWeighted
		rows = append(rows, table.Row{
			string(summary.Stage),
			fmt.Sprintf("%d", summary.DealCount),
			fmt.Sprintf("$%.2f", float64(summary.TotalAmount)/100.0),
			fmt.Sprintf("%.0f%%", summary.AvgProbability),
			fmt.Sprintf("$%.2f", stageWeighted/100.0),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s.WriteString(t.View())
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Total: $%.2f open, $%.2f weighted\n", float64(total)/100.0, weighted/100.0))
	s.WriteString(helpStyle.Render("tab: switch view • q: quit"))
	return s.String()
}
