// ABOUTME: Forecast view for the TUI
// ABOUTME: Revenue projection with switchable period and method
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/scoring"
)

const historicalWindowDays = 180

var (
	forecastPeriods = []scoring.Period{
		scoring.PeriodNextMonth,
		scoring.PeriodNextQuarter,
		scoring.PeriodNextYear,
	}
	forecastMethods = []scoring.Method{
		scoring.MethodWeightedPipeline,
		scoring.MethodHistoricalTrend,
		scoring.MethodHybrid,
	}
)

func (m Model) handleForecastKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		for i, period := range forecastPeriods {
			if period == m.forecastPeriod {
				m.forecastPeriod = forecastPeriods[(i+1)%len(forecastPeriods)]
				break
			}
		}
	case "m":
		for i, method := range forecastMethods {
			if method == m.forecastMethod {
				m.forecastMethod = forecastMethods[(i+1)%len(forecastMethods)]
				break
			}
		}
	}
	return m, nil
}

func (m Model) renderForecastView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DEALDESK"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	closedWon, err := db.ClosedWonSince(m.db, time.Now().AddDate(0, 0, -historicalWindowDays))
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}
	historical := make([]scoring.ClosedDeal, len(closedWon))
	for i, deal := range closedWon {
		historical[i] = scoring.ClosedDeal{Amount: deal.Amount, CloseDate: deal.CloseDate}
	}

	summaries, err := db.StageSummaries(m.db)
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}
	pipeline := make([]scoring.StagePipeline, len(summaries))
	for i, summary := range summaries {
		pipeline[i] = scoring.StagePipeline{
			Stage:          summary.Stage,
			DealCount:      summary.DealCount,
			TotalAmount:    summary.TotalAmount,
			AvgProbability: summary.AvgProbability,
		}
	}

	result, err := m.engine.Forecast(historical, pipeline, m.forecastPeriod, m.forecastMethod)
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v", err))
		return s.String()
	}

	s.WriteString(fmt.Sprintf("Period: %s    Method: %s\n\n", result.Period, result.Method))
	s.WriteString(fmt.Sprintf("Expected:          $%.2f\n", result.Expected/100.0))
	s.WriteString(fmt.Sprintf("Range:             $%.2f - $%.2f\n", result.Low/100.0, result.High/100.0))
	s.WriteString(fmt.Sprintf("Weighted pipeline: $%.2f\n", result.WeightedPipeline/100.0))
	s.WriteString(fmt.Sprintf("Monthly run rate:  $%.2f\n", result.MonthlyRunRate/100.0))

	if len(result.Breakdown) > 0 {
		s.WriteString("\n")
		for _, stage := range result.Breakdown {
			s.WriteString(fmt.Sprintf("  %-14s %d deal(s), $%.2f\n",
				stage.Stage, stage.DealCount, float64(stage.TotalAmount)/100.0))
		}
	}

	s.WriteString(helpStyle.Render("p: cycle period • m: cycle method • tab: switch view • q: quit"))
	return s.String()
}
