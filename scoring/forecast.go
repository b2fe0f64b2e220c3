// ABOUTME: Revenue forecasting over pipeline and historical snapshots
// ABOUTME: Weighted pipeline, historical trend, and hybrid projection methods
package scoring

import (
	"time"

	"github.com/harperreed/dealdesk/models"
)

// Period selects the forecast horizon.
type Period string

const (
	PeriodNextMonth   Period = "next_month"
	PeriodNextQuarter Period = "next_quarter"
	PeriodNextYear    Period = "next_year"
)

// Method selects the projection formula.
type Method string

const (
	MethodWeightedPipeline Method = "weighted_pipeline"
	MethodHistoricalTrend  Method = "historical_trend"
	MethodHybrid           Method = "hybrid"
)

// The historical input is a trailing 180-day closed-won window, so the run
// rate divides by six months.
const historicalWindowMonths = 6

// Hybrid blend weights.
const (
	pipelineWeight   = 0.6
	historicalWeight = 0.4
)

// The band is a fixed ±20%, not derived from variance.
const confidenceFactor = 0.2

// ClosedDeal is one closed-won deal inside the historical window.
type ClosedDeal struct {
	Amount    int64     `json:"amount"` // in cents
	CloseDate time.Time `json:"close_date"`
}

// StagePipeline aggregates the open deals of one stage.
type StagePipeline struct {
	Stage          models.Stage `json:"stage"`
	DealCount      int          `json:"deal_count"`
	TotalAmount    int64        `json:"total_amount"` // in cents
	AvgProbability float64      `json:"avg_probability"`
}

// StageBreakdown echoes the pipeline input as an auditable trace of the
// weighted-pipeline term.
type StageBreakdown struct {
	Stage       models.Stage `json:"stage"`
	DealCount   int          `json:"deal_count"`
	TotalAmount int64        `json:"total_amount"`
}

// ForecastResult is a derived revenue projection, recomputed per request.
// Monetary figures are in cents.
type ForecastResult struct {
	Period           Period           `json:"period"`
	Method           Method           `json:"method"`
	Expected         float64          `json:"expected"`
	Low              float64          `json:"low"`
	High             float64          `json:"high"`
	WeightedPipeline float64          `json:"weighted_pipeline"`
	MonthlyRunRate   float64          `json:"monthly_run_rate"`
	Breakdown        []StageBreakdown `json:"breakdown"`
}

func periodMultiplier(period Period) (float64, error) {
	switch period {
	case PeriodNextMonth:
		return 1, nil
	case PeriodNextQuarter:
		return 3, nil
	case PeriodNextYear:
		return 12, nil
	}
	return 0, &InvalidParameterError{Param: "period", Value: string(period)}
}

// Forecast projects revenue for the period from the current pipeline and a
// trailing closed-won window. Unknown period or method values fail with
// InvalidParameterError; nothing is silently substituted.
func (e *Engine) Forecast(historical []ClosedDeal, pipeline []StagePipeline, period Period, method Method) (*ForecastResult, error) {
	multiplier, err := periodMultiplier(period)
	if err != nil {
		return nil, err
	}

	weighted := 0.0
	breakdown := make([]StageBreakdown, 0, len(pipeline))
	for _, stage := range pipeline {
		weighted += float64(stage.TotalAmount) * stage.AvgProbability / 100
		breakdown = append(breakdown, StageBreakdown{
			Stage:       stage.Stage,
			DealCount:   stage.DealCount,
			TotalAmount: stage.TotalAmount,
		})
	}

	// Documented fallback: an empty history projects the configured run rate
	// rather than a silent zero.
	monthlyRunRate := float64(e.cfg.FallbackMonthlyRunRate)
	if len(historical) > 0 {
		total := int64(0)
		for _, deal := range historical {
			total += deal.Amount
		}
		monthlyRunRate = float64(total) / historicalWindowMonths
	}

	var expected float64
	switch method {
	case MethodWeightedPipeline:
		expected = weighted
	case MethodHistoricalTrend:
		expected = monthlyRunRate * multiplier
	case MethodHybrid:
		expected = weighted*pipelineWeight + monthlyRunRate*multiplier*historicalWeight
	default:
		return nil, &InvalidParameterError{Param: "method", Value: string(method)}
	}

	return &ForecastResult{
		Period:           period,
		Method:           method,
		Expected:         expected,
		Low:              expected * (1 - confidenceFactor),
		High:             expected * (1 + confidenceFactor),
		WeightedPipeline: weighted,
		MonthlyRunRate:   monthlyRunRate,
		Breakdown:        breakdown,
	}, nil
}
