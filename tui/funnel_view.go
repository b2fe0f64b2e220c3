// ABOUTME: Funnel view for the TUI
// ABOUTME: Stage-to-stage conversion estimates over the trailing 90 days
package tui

import (
	"fmt"
	"strings"

	"github.com/harperreed/dealdesk/analytics"
)

const funnelWindowDays = 90

func (m Model) renderFunnelView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEALDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	report, err := analytics.GenerateFunnelReport(m.db, funnelWindowDays)
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}
	if report.TotalDeals == 0 {
		s.WriteString("No deals in window")
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("tab: switch view • q: quit"))
		return s.String()
	}

	for _, conv := range report.Conversions {
		bar := strings.Repeat("█", int(conv.ConversionRate/5))
		s.WriteString(fmt.Sprintf("  %-14s → %-14s %5.0f%%  %s\n",
			conv.FromStage, conv.ToStage, conv.ConversionRate, bar))
	}

	if len(report.Velocity) > 0 {
		s.WriteString("\n")
		for _, v := range report.Velocity {
			s.WriteString(fmt.Sprintf("  %-14s %3d deal(s), avg %.1f days old\n",
				v.Stage, v.DealCount, v.AvgDays))
		}
	}

	s.WriteString(fmt.Sprintf("\n%d deal(s) in last %d days: %d won, %d lost (win rate %.0f%%)\n",
		report.TotalDeals, funnelWindowDays, report.DealsWon, report.DealsLost, report.WinRate))

	for _, bottleneck := range report.Bottlenecks {
		s.WriteString(hotStyle.Render(fmt.Sprintf("⚠ Bottleneck: %s → %s (%.0f%%)",
			bottleneck.FromStage, bottleneck.ToStage, bottleneck.ConversionRate)))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("tab: switch view • q: quit"))
	return s.String()
}
