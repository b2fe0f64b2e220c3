// ABOUTME: Conversion funnel reporting over pipeline stage counts
// ABOUTME: Estimates stage-to-stage conversion from the current distribution
package analytics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

// StageConversion estimates the rate at which deals move between two adjacent
// funnel stages.
type StageConversion struct {
	FromStage      models.Stage `json:"from_stage"`
	ToStage        models.Stage `json:"to_stage"`
	ConversionRate float64      `json:"conversion_rate"`
	DealsInStage   int          `json:"deals_in_stage"`
	DealsConverted int          `json:"deals_converted"`
}

// StageVelocity is how long the open deals of one stage have been sitting in
// the pipeline.
type StageVelocity struct {
	Stage     models.Stage `json:"stage"`
	DealCount int          `json:"deal_count"`
	AvgDays   float64      `json:"avg_days"`
}

// FunnelReport summarizes pipeline flow, close outcomes, and stage velocity.
type FunnelReport struct {
	Conversions []StageConversion `json:"conversions"`
	TotalDeals  int               `json:"total_deals"`
	DealsWon    int               `json:"deals_won"`
	DealsLost   int               `json:"deals_lost"`
	WinRate     float64           `json:"win_rate"`
	LossRate    float64           `json:"loss_rate"`
	Bottlenecks []StageConversion `json:"bottlenecks"`
	Velocity    []StageVelocity   `json:"velocity,omitempty"`
}

// funnelStages is the won path; closed_lost counts only toward outcomes.
var funnelStages = []models.Stage{
	models.StageProspecting,
	models.StageQualification,
	models.StageProposal,
	models.StageNegotiation,
	models.StageClosedWon,
}

// Funnel builds a conversion report from deal counts per stage. Stage
// transitions are not tracked historically, so each conversion is estimated
// from the cumulative distribution: deals at or past the next stage over
// deals at or past the current one. Conversions under 50% are flagged as
// bottlenecks.
func Funnel(stageCounts map[models.Stage]int) *FunnelReport {
	report := &FunnelReport{}

	for _, count := range stageCounts {
		report.TotalDeals += count
	}

	for i := 0; i < len(funnelStages)-1; i++ {
		inStage := cumulativeCount(stageCounts, funnelStages[i:])
		converted := cumulativeCount(stageCounts, funnelStages[i+1:])

		rate := 0.0
		if inStage > 0 {
			rate = float64(converted) / float64(inStage) * 100
		}

		report.Conversions = append(report.Conversions, StageConversion{
			FromStage:      funnelStages[i],
			ToStage:        funnelStages[i+1],
			ConversionRate: rate,
			DealsInStage:   inStage,
			DealsConverted: converted,
		})
	}

	report.DealsWon = stageCounts[models.StageClosedWon]
	report.DealsLost = stageCounts[models.StageClosedLost]
	closed := report.DealsWon + report.DealsLost
	if closed > 0 {
		report.WinRate = float64(report.DealsWon) / float64(closed) * 100
		report.LossRate = float64(report.DealsLost) / float64(closed) * 100
	}

	for _, conv := range report.Conversions {
		if conv.ConversionRate < 50 {
			report.Bottlenecks = append(report.Bottlenecks, conv)
		}
	}

	return report
}

func cumulativeCount(stageCounts map[models.Stage]int, stages []models.Stage) int {
	total := 0
	for _, stage := range stages {
		total += stageCounts[stage]
	}
	return total
}

// StageVelocities averages how many days each stage's open deals have been in
// the pipeline, in funnel order. Stage-entry times are not tracked, so age is
// measured from deal creation.
func StageVelocities(deals []models.Deal, now time.Time) []StageVelocity {
	totals := make(map[models.Stage]float64)
	counts := make(map[models.Stage]int)
	for _, deal := range deals {
		if !deal.Open() {
			continue
		}
		totals[deal.Stage] += now.Sub(deal.CreatedAt).Hours() / 24
		counts[deal.Stage]++
	}

	var velocities []StageVelocity
	for _, stage := range models.OpenStages {
		if counts[stage] == 0 {
			continue
		}
		velocities = append(velocities, StageVelocity{
			Stage:     stage,
			DealCount: counts[stage],
			AvgDays:   totals[stage] / float64(counts[stage]),
		})
	}
	return velocities
}

// GenerateFunnelReport builds the conversion report for a trailing window and
// attaches velocity for the currently open deals.
func GenerateFunnelReport(database *sql.DB, windowDays int) (*FunnelReport, error) {
	counts, err := db.StageCountsSince(database, time.Now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to count deals by stage: %w", err)
	}

	openDeals, err := db.FindOpenDeals(database, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open deals: %w", err)
	}

	report := Funnel(counts)
	report.Velocity = StageVelocities(openDeals, time.Now())
	return report, nil
}
