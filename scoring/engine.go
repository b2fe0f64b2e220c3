// ABOUTME: Deal scoring engine with additive weighted factors
// ABOUTME: Pure computation over snapshots, no I/O or shared state
package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/models"
)

// Monetary constants in cents.
const (
	defaultReferenceDealSize      = 10_000_000 // $100k baseline deal
	defaultFallbackMonthlyRunRate = 10_000_000 // $100k/month when no history exists

	accountRevenueTier1 = 5_000_000_000 // $50M annual revenue
	accountRevenueTier2 = 1_000_000_000 // $10M annual revenue
)

// Priority buckets and their recommended actions. Thresholds are fixed
// product behavior, not configuration.
const (
	PriorityHot  = "Hot"
	PriorityWarm = "Warm"
	PriorityCool = "Cool"

	ActionHot  = "Immediate attention needed"
	ActionWarm = "Schedule follow-up this week"
	ActionCool = "Nurture with automated touchpoints"

	hotThreshold  = 75
	warmThreshold = 50
)

// Config tunes the engine's monetary baselines. Zero values take defaults.
type Config struct {
	// ReferenceDealSize is the baseline deal amount in cents that the size
	// factor measures against.
	ReferenceDealSize int64
	// FallbackMonthlyRunRate, in cents, stands in for the historical monthly
	// run rate when the closed-won window is empty.
	FallbackMonthlyRunRate int64
}

// Engine scores and ranks open deals and projects revenue. It is stateless:
// every call recomputes from the inputs passed in, so concurrent use needs no
// synchronization.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.ReferenceDealSize <= 0 {
		cfg.ReferenceDealSize = defaultReferenceDealSize
	}
	if cfg.FallbackMonthlyRunRate <= 0 {
		cfg.FallbackMonthlyRunRate = defaultFallbackMonthlyRunRate
	}
	return &Engine{cfg: cfg}
}

// Factor is one labeled, signed contribution to a deal's score.
type Factor struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

func (f Factor) String() string {
	return fmt.Sprintf("%s: %+.0f", f.Label, f.Points)
}

// ScoreResult is the derived priority of one deal. It is recomputed on demand
// and never persisted.
type ScoreResult struct {
	DealID            uuid.UUID    `json:"deal_id"`
	DealName          string       `json:"deal_name"`
	AccountName       string       `json:"account_name"`
	Amount            int64        `json:"amount"`
	Stage             models.Stage `json:"stage"`
	Score             float64      `json:"score"`
	Priority          string       `json:"priority"`
	RecommendedAction string       `json:"recommended_action"`
	Factors           []Factor     `json:"factors"`
	DaysInPipeline    int          `json:"days_in_pipeline"`
	CloseDate         time.Time    `json:"close_date"`
}

// DealContext bundles one open deal with the account data and trailing-30-day
// activity count the factors need.
type DealContext struct {
	Deal             *models.Deal
	Account          *models.Account
	RecentActivities int
}

func validateDeal(ctx DealContext) error {
	deal := ctx.Deal
	if deal == nil {
		return &InvalidDealError{Field: "deal", Reason: "is nil"}
	}
	if !deal.Stage.Valid() {
		return &InvalidDealError{DealID: deal.ID, Field: "stage", Reason: fmt.Sprintf("unknown value %q", deal.Stage)}
	}
	if deal.Stage.Terminal() {
		return &InvalidDealError{DealID: deal.ID, Field: "stage", Reason: "is terminal, only open deals are scored"}
	}
	if deal.Amount < 0 {
		return &InvalidDealError{DealID: deal.ID, Field: "amount", Reason: "is negative"}
	}
	if deal.CloseDate.IsZero() {
		return &InvalidDealError{DealID: deal.ID, Field: "close_date", Reason: "is missing"}
	}
	if ctx.Account == nil {
		return &InvalidDealError{DealID: deal.ID, Field: "account", Reason: "is nil"}
	}
	if ctx.Account.AnnualRevenue < 0 {
		return &InvalidDealError{DealID: deal.ID, Field: "annual_revenue", Reason: "is negative"}
	}
	if ctx.RecentActivities < 0 {
		return &InvalidDealError{DealID: deal.ID, Field: "recent_activities", Reason: "is negative"}
	}
	return nil
}

// ScoreDeal computes the 0-100 priority score for one open deal as of now.
// Six factors are summed, each independently bounded, then the total is
// clamped to [0, 100].
func (e *Engine) ScoreDeal(ctx DealContext, now time.Time) (*ScoreResult, error) {
	if err := validateDeal(ctx); err != nil {
		return nil, err
	}

	deal := ctx.Deal
	account := ctx.Account
	factors := make([]Factor, 0, 6)

	// 1. Deal size, capped at 30 points
	sizeScore := float64(deal.Amount) / float64(e.cfg.ReferenceDealSize) * 15
	if sizeScore > 30 {
		sizeScore = 30
	}
	factors = append(factors, Factor{Label: "Deal size", Points: sizeScore})

	// 2. Stage progression
	stageScore := stagePoints(deal.Stage)
	factors = append(factors, Factor{Label: fmt.Sprintf("Stage (%s)", deal.Stage), Points: stageScore})

	// 3. Pipeline age: stale deals are penalized, fresh ones rewarded
	daysOpen := daysBetween(deal.CreatedAt, now)
	var ageScore float64
	switch {
	case daysOpen > 90:
		ageScore = -10
	case daysOpen > 60:
		ageScore = -5
	default:
		ageScore = 5
	}
	factors = append(factors, Factor{Label: "Pipeline age", Points: ageScore})

	// 4. Account quality by annual revenue
	var accountScore float64
	switch {
	case account.AnnualRevenue > accountRevenueTier1:
		accountScore = 15
	case account.AnnualRevenue > accountRevenueTier2:
		accountScore = 10
	default:
		accountScore = 5
	}
	factors = append(factors, Factor{Label: "Account size", Points: accountScore})

	// 5. Recent engagement
	var engagementScore float64
	switch {
	case ctx.RecentActivities > 5:
		engagementScore = 15
	case ctx.RecentActivities > 2:
		engagementScore = 10
	}
	factors = append(factors, Factor{Label: "Recent engagement", Points: engagementScore})

	// 6. Close date urgency. Both edges of 0 < d < 30 fall to the +5 branch.
	daysToClose := daysBetween(now, deal.CloseDate)
	var urgencyScore float64
	switch {
	case daysToClose > 0 && daysToClose < 30:
		urgencyScore = 10
	case daysToClose < 0:
		urgencyScore = -5 // overdue
	default:
		urgencyScore = 5
	}
	factors = append(factors, Factor{Label: "Close date urgency", Points: urgencyScore})

	score := 0.0
	for _, f := range factors {
		score += f.Points
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	priority, action := bucket(score)

	return &ScoreResult{
		DealID:            deal.ID,
		DealName:          deal.Name,
		AccountName:       account.Name,
		Amount:            deal.Amount,
		Stage:             deal.Stage,
		Score:             score,
		Priority:          priority,
		RecommendedAction: action,
		Factors:           factors,
		DaysInPipeline:    daysOpen,
		CloseDate:         deal.CloseDate,
	}, nil
}

// RankDeals scores every deal and orders the results by score descending,
// then amount descending, then close date ascending. No truncation: callers
// take a prefix for top-N views.
func (e *Engine) RankDeals(deals []DealContext, now time.Time) ([]ScoreResult, error) {
	results := make([]ScoreResult, 0, len(deals))
	for _, ctx := range deals {
		result, err := e.ScoreDeal(ctx, now)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Amount != results[j].Amount {
			return results[i].Amount > results[j].Amount
		}
		return results[i].CloseDate.Before(results[j].CloseDate)
	})

	return results, nil
}

func stagePoints(stage models.Stage) float64 {
	switch stage {
	case models.StageProspecting:
		return 5
	case models.StageQualification:
		return 10
	case models.StageProposal:
		return 20
	case models.StageNegotiation:
		return 25
	}
	return 0
}

func bucket(score float64) (priority, action string) {
	switch {
	case score >= hotThreshold:
		return PriorityHot, ActionHot
	case score >= warmThreshold:
		return PriorityWarm, ActionWarm
	}
	return PriorityCool, ActionCool
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
