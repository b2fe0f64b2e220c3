// ABOUTME: Analytics CLI commands
// ABOUTME: Deal scoring, forecasting, pipeline, funnel, and activity reports
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/analytics"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/scoring"
)

// ScoreCommand ranks open deals by priority score.
func ScoreCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	account := fs.String("account", "", "Score deals for one account only")
	limit := fs.Int("limit", 0, "Show only the top N deals")
	verbose := fs.Bool("verbose", false, "Show factor breakdown per deal")
	_ = fs.Parse(args)

	var accountIDPtr *uuid.UUID
	if *account != "" {
		acct, err := resolveAccount(database, *account)
		if err != nil {
			return err
		}
		accountIDPtr = &acct.ID
	}

	contexts, err := analytics.GatherDealContexts(database, accountIDPtr)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine(scoring.Config{})
	ranked, err := engine.RankDeals(contexts, time.Now())
	if err != nil {
		return fmt.Errorf("failed to score deals: %w", err)
	}

	if len(ranked) == 0 {
		fmt.Println("No open deals to score")
		return nil
	}
	if *limit > 0 && len(ranked) > *limit {
		ranked = ranked[:*limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tPRIORITY\tDEAL\tACCOUNT\tAMOUNT\tSTAGE\tACTION")
	_, _ = fmt.Fprintln(w, "-----\t--------\t----\t-------\t------\t-----\t------")
	for _, r := range ranked {
		_, _ = fmt.Fprintf(w, "%.0f\t%s\t%s\t%s\t$%.2f\t%s\t%s\n",
			r.Score, r.Priority, r.DealName, r.AccountName,
			float64(r.Amount)/100.0, r.Stage, r.RecommendedAction)
	}
	_ = w.Flush()

	if *verbose {
		for _, r := range ranked {
			fmt.Printf("\n%s (%.0f, %s)\n", r.DealName, r.Score, r.Priority)
			for _, factor := range r.Factors {
				fmt.Printf("  %s\n", factor)
			}
		}
	}

	return nil
}

// ForecastCommand projects revenue for a period.
func ForecastCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	period := fs.String("period", string(scoring.PeriodNextQuarter), "Forecast period (next_month, next_quarter, next_year)")
	method := fs.String("method", string(scoring.MethodWeightedPipeline), "Forecast method (weighted_pipeline, historical_trend, hybrid)")
	_ = fs.Parse(args)

	closedWon, err := db.ClosedWonSince(database, time.Now().AddDate(0, 0, -180))
	if err != nil {
		return fmt.Errorf("failed to fetch closed-won deals: %w", err)
	}
	historical := make([]scoring.ClosedDeal, len(closedWon))
	for i, deal := range closedWon {
		historical[i] = scoring.ClosedDeal{Amount: deal.Amount, CloseDate: deal.CloseDate}
	}

	summaries, err := db.StageSummaries(database)
	if err != nil {
		return fmt.Errorf("failed to summarize pipeline: %w", err)
	}
	pipeline := make([]scoring.StagePipeline, len(summaries))
	for i, s := range summaries {
		pipeline[i] = scoring.StagePipeline{
			Stage:          s.Stage,
			DealCount:      s.DealCount,
			TotalAmount:    s.TotalAmount,
			AvgProbability: s.AvgProbability,
		}
	}

	engine := scoring.NewEngine(scoring.Config{})
	result, err := engine.Forecast(historical, pipeline, scoring.Period(*period), scoring.Method(*method))
	if err != nil {
		return err
	}

	fmt.Printf("Forecast (%s, %s)\n", result.Period, result.Method)
	fmt.Printf("  Expected: $%.2f\n", result.Expected/100.0)
	fmt.Printf("  Range:    $%.2f - $%.2f\n", result.Low/100.0, result.High/100.0)
	fmt.Printf("  Weighted pipeline: $%.2f\n", result.WeightedPipeline/100.0)
	fmt.Printf("  Monthly run rate:  $%.2f\n", result.MonthlyRunRate/100.0)

	if len(result.Breakdown) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "STAGE\tDEALS\tAMOUNT")
		for _, stage := range result.Breakdown {
			_, _ = fmt.Fprintf(w, "%s\t%d\t$%.2f\n",
				stage.Stage, stage.DealCount, float64(stage.TotalAmount)/100.0)
		}
		_ = w.Flush()
	}

	return nil
}

// PipelineCommand summarizes the open pipeline by stage.
func PipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	_ = fs.Parse(args)

	summaries, err := db.StageSummaries(database)
	if err != nil {
		return fmt.Errorf("failed to summarize pipeline: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("Pipeline is empty")
		return nil
	}

	var total int64
	var weighted float64

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tDEALS\tAMOUNT\tAVG PROB\tWEIGHTED")
	_, _ = fmt.Fprintln(w, "-----\t-----\t------\t--------\t--------")
	for _, s := range summaries {
		stageWeighted := float64(s.TotalAmount) * s.AvgProbability / 100
		total += s.TotalAmount
		weighted += stageWeighted
		_, _ = fmt.Fprintf(w, "%s\t%d\t$%.2f\t%.0f%%\t$%.2f\n",
			s.Stage, s.DealCount, float64(s.TotalAmount)/100.0,
			s.AvgProbability, stageWeighted/100.0)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: $%.2f open, $%.2f weighted\n", float64(total)/100.0, weighted/100.0)
	return nil
}

// FunnelCommand reports stage-to-stage conversion rates.
func FunnelCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("funnel", flag.ExitOnError)
	windowDays := fs.Int("window", 90, "Trailing window in days")
	_ = fs.Parse(args)

	report, err := analytics.GenerateFunnelReport(database, *windowDays)
	if err != nil {
		return err
	}
	if report.TotalDeals == 0 {
		fmt.Println("No deals in window")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FROM\tTO\tRATE\tIN STAGE\tCONVERTED")
	for _, conv := range report.Conversions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%d\t%d\n",
			conv.FromStage, conv.ToStage, conv.ConversionRate,
			conv.DealsInStage, conv.DealsConverted)
	}
	_ = w.Flush()

	if len(report.Velocity) > 0 {
		fmt.Println()
		vw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(vw, "STAGE\tDEALS\tAVG AGE")
		for _, v := range report.Velocity {
			_, _ = fmt.Fprintf(vw, "%s\t%d\t%.1f days\n", v.Stage, v.DealCount, v.AvgDays)
		}
		_ = vw.Flush()
	}

	fmt.Printf("\n%d deal(s): %d won, %d lost (win rate %.0f%%)\n",
		report.TotalDeals, report.DealsWon, report.DealsLost, report.WinRate)
	for _, bottleneck := range report.Bottlenecks {
		fmt.Printf("⚠ Bottleneck: %s → %s (%.0f%%)\n",
			bottleneck.FromStage, bottleneck.ToStage, bottleneck.ConversionRate)
	}

	return nil
}

// ActivityCommand summarizes logged activity by type.
func ActivityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	windowDays := fs.Int("window", 30, "Trailing window in days")
	_ = fs.Parse(args)

	counts, err := db.TypeCountsSince(database, time.Now().AddDate(0, 0, -*windowDays))
	if err != nil {
		return fmt.Errorf("failed to count activities: %w", err)
	}

	report := analytics.ActivitySummary(counts)
	if report.TotalActivities == 0 {
		fmt.Println("No activity in window")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tCOUNT")
	for _, tc := range report.ByType {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", tc.Type, tc.Count)
	}
	_ = w.Flush()

	fmt.Printf("\n%d activities in last %d days, busiest: %s\n",
		report.TotalActivities, *windowDays, report.BusiestType)
	return nil
}
