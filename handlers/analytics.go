// ABOUTME: Analytics MCP tool handlers
// ABOUTME: Implements score_deals, sales_forecast, conversion_rates, and activity_summary
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/analytics"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/scoring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Forecasting reads a trailing 180-day closed-won window.
const historicalWindowDays = 180

type AnalyticsHandlers struct {
	db     *sql.DB
	engine *scoring.Engine
}

func NewAnalyticsHandlers(database *sql.DB, engine *scoring.Engine) *AnalyticsHandlers {
	return &AnalyticsHandlers{db: database, engine: engine}
}

type ScoreDealsInput struct {
	AccountID string `json:"account_id,omitempty" jsonschema:"Score deals for one account only"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Return only the top N deals"`
}

type FactorOutput struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

type ScoredDealOutput struct {
	DealID            string         `json:"deal_id"`
	DealName          string         `json:"deal_name"`
	AccountName       string         `json:"account_name"`
	Amount            int64          `json:"amount"`
	Stage             string         `json:"stage"`
	Score             float64        `json:"score"`
	Priority          string         `json:"priority"`
	RecommendedAction string         `json:"recommended_action"`
	Factors           []FactorOutput `json:"factors"`
	DaysInPipeline    int            `json:"days_in_pipeline"`
	CloseDate         string         `json:"close_date"`
}

type ScoreDealsOutput struct {
	Deals []ScoredDealOutput `json:"deals"`
	Count int                `json:"count"`
}

func scoreToOutput(result *scoring.ScoreResult) ScoredDealOutput {
	factors := make([]FactorOutput, len(result.Factors))
	for i, f := range result.Factors {
		factors[i] = FactorOutput{Label: f.Label, Points: f.Points}
	}
	return ScoredDealOutput{
		DealID:            result.DealID.String(),
		DealName:          result.DealName,
		AccountName:       result.AccountName,
		Amount:            result.Amount,
		Stage:             string(result.Stage),
		Score:             result.Score,
		Priority:          result.Priority,
		RecommendedAction: result.RecommendedAction,
		Factors:           factors,
		DaysInPipeline:    result.DaysInPipeline,
		CloseDate:         result.CloseDate.Format(time.RFC3339),
	}
}

func (h *AnalyticsHandlers) ScoreDeals(_ context.Context, request *mcp.CallToolRequest, input ScoreDealsInput) (*mcp.CallToolResult, ScoreDealsOutput, error) {
	var accountID *uuid.UUID
	if input.AccountID != "" {
		id, err := uuid.Parse(input.AccountID)
		if err != nil {
			return nil, ScoreDealsOutput{}, fmt.Errorf("invalid account_id: %w", err)
		}
		accountID = &id
	}

	contexts, err := analytics.GatherDealContexts(h.db, accountID)
	if err != nil {
		return nil, ScoreDealsOutput{}, err
	}

	ranked, err := h.engine.RankDeals(contexts, time.Now())
	if err != nil {
		return nil, ScoreDealsOutput{}, fmt.Errorf("failed to score deals: %w", err)
	}

	if input.Limit > 0 && len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}

	output := ScoreDealsOutput{Deals: make([]ScoredDealOutput, len(ranked)), Count: len(ranked)}
	for i := range ranked {
		output.Deals[i] = scoreToOutput(&ranked[i])
	}

	return nil, output, nil
}

type SalesForecastInput struct {
	Period string `json:"period,omitempty" jsonschema:"Forecast period: next_month, next_quarter, next_year (default next_quarter)"`
	Method string `json:"method,omitempty" jsonschema:"Forecast method: weighted_pipeline, historical_trend, hybrid (default weighted_pipeline)"`
}

type StageBreakdownOutput struct {
	Stage       string `json:"stage"`
	DealCount   int    `json:"deal_count"`
	TotalAmount int64  `json:"total_amount"`
}

type SalesForecastOutput struct {
	Period           string                 `json:"period"`
	Method           string                 `json:"method"`
	Expected         float64                `json:"expected"`
	Low              float64                `json:"low"`
	High             float64                `json:"high"`
	WeightedPipeline float64                `json:"weighted_pipeline"`
	MonthlyRunRate   float64                `json:"monthly_run_rate"`
	Breakdown        []StageBreakdownOutput `json:"breakdown"`
}

func (h *AnalyticsHandlers) SalesForecast(_ context.Context, request *mcp.CallToolRequest, input SalesForecastInput) (*mcp.CallToolResult, SalesForecastOutput, error) {
	period := scoring.PeriodNextQuarter
	if input.Period != "" {
		period = scoring.Period(input.Period)
	}
	method := scoring.MethodWeightedPipeline
	if input.Method != "" {
		method = scoring.Method(input.Method)
	}

	closedWon, err := db.ClosedWonSince(h.db, time.Now().AddDate(0, 0, -historicalWindowDays))
	if err != nil {
		return nil, SalesForecastOutput{}, fmt.Errorf("failed to fetch closed-won deals: %w", err)
	}
	historical := make([]scoring.ClosedDeal, len(closedWon))
	for i, deal := range closedWon {
		historical[i] = scoring.ClosedDeal{Amount: deal.Amount, CloseDate: deal.CloseDate}
	}

	summaries, err := db.StageSummaries(h.db)
	if err != nil {
		return nil, SalesForecastOutput{}, fmt.Errorf("failed to summarize pipeline: %w", err)
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

	result, err := h.engine.Forecast(historical, pipeline, period, method)
	if err != nil {
		// Parameter errors surface directly, never substituted
		return nil, SalesForecastOutput{}, err
	}

	output := SalesForecastOutput{
		Period:           string(result.Period),
		Method:           string(result.Method),
		Expected:         result.Expected,
		Low:              result.Low,
		High:             result.High,
		WeightedPipeline: result.WeightedPipeline,
		MonthlyRunRate:   result.MonthlyRunRate,
		Breakdown:        make([]StageBreakdownOutput, len(result.Breakdown)),
	}
	for i, stage := range result.Breakdown {
		output.Breakdown[i] = StageBreakdownOutput{
			Stage:       string(stage.Stage),
			DealCount:   stage.DealCount,
			TotalAmount: stage.TotalAmount,
		}
	}

	return nil, output, nil
}

type ConversionRatesInput struct {
	WindowDays int `json:"window_days,omitempty" jsonschema:"Trailing window in days (default 90)"`
}

func (h *AnalyticsHandlers) ConversionRates(_ context.Context, request *mcp.CallToolRequest, input ConversionRatesInput) (*mcp.CallToolResult, *analytics.FunnelReport, error) {
	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = 90
	}

	report, err := analytics.GenerateFunnelReport(h.db, windowDays)
	if err != nil {
		return nil, nil, err
	}

	return nil, report, nil
}

type ActivitySummaryInput struct {
	WindowDays int `json:"window_days,omitempty" jsonschema:"Trailing window in days (default 30)"`
}

func (h *AnalyticsHandlers) ActivitySummary(_ context.Context, request *mcp.CallToolRequest, input ActivitySummaryInput) (*mcp.CallToolResult, *analytics.ActivityReport, error) {
	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}

	counts, err := db.TypeCountsSince(h.db, time.Now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count activities: %w", err)
	}

	return nil, analytics.ActivitySummary(counts), nil
}
