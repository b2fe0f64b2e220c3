// ABOUTME: Tests for the deal scoring engine
// ABOUTME: Pins factor values, boundaries, clamping, ordering, and validation
package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// testContext builds a mid-range deal: $50k proposal, 45 days old, closing in
// 45 days, $5M account, quiet engagement.
func testContext() DealContext {
	return DealContext{
		Deal: &models.Deal{
			ID:        uuid.New(),
			Name:      "Test Deal",
			Amount:    5_000_000,
			Stage:     models.StageProposal,
			CreatedAt: testNow.AddDate(0, 0, -45),
			CloseDate: testNow.AddDate(0, 0, 45),
		},
		Account: &models.Account{
			ID:            uuid.New(),
			Name:          "Test Corp",
			AnnualRevenue: 500_000_000,
		},
		RecentActivities: 1,
	}
}

func factorPoints(t *testing.T, result *ScoreResult, label string) float64 {
	t.Helper()
	for _, f := range result.Factors {
		if f.Label == label {
			return f.Points
		}
	}
	t.Fatalf("factor %q not found in %v", label, result.Factors)
	return 0
}

func TestScoreDealScenario(t *testing.T) {
	// $500k negotiation deal, 10 days old, $60M account, 6 recent
	// activities, closing in 20 days: every factor maxes and the raw sum of
	// 100 clamps to exactly 100.
	engine := NewEngine(Config{})

	ctx := DealContext{
		Deal: &models.Deal{
			ID:        uuid.New(),
			Name:      "Enterprise Platform",
			Amount:    50_000_000,
			Stage:     models.StageNegotiation,
			CreatedAt: testNow.AddDate(0, 0, -10),
			CloseDate: testNow.AddDate(0, 0, 20),
		},
		Account: &models.Account{
			ID:            uuid.New(),
			Name:          "Globex",
			AnnualRevenue: 6_000_000_000,
		},
		RecentActivities: 6,
	}

	result, err := engine.ScoreDeal(ctx, testNow)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, PriorityHot, result.Priority)
	assert.Equal(t, ActionHot, result.RecommendedAction)
	assert.Equal(t, 10, result.DaysInPipeline)

	assert.Equal(t, 30.0, factorPoints(t, result, "Deal size"))
	assert.Equal(t, 25.0, factorPoints(t, result, "Stage (negotiation)"))
	assert.Equal(t, 5.0, factorPoints(t, result, "Pipeline age"))
	assert.Equal(t, 15.0, factorPoints(t, result, "Account size"))
	assert.Equal(t, 15.0, factorPoints(t, result, "Recent engagement"))
	assert.Equal(t, 10.0, factorPoints(t, result, "Close date urgency"))
}

func TestScoreAlwaysInRange(t *testing.T) {
	engine := NewEngine(Config{})

	contexts := []DealContext{
		testContext(),
		{
			// Worst case: stale overdue prospecting deal, small account
			Deal: &models.Deal{
				ID:        uuid.New(),
				Amount:    0,
				Stage:     models.StageProspecting,
				CreatedAt: testNow.AddDate(0, 0, -200),
				CloseDate: testNow.AddDate(0, 0, -60),
			},
			Account: &models.Account{ID: uuid.New(), AnnualRevenue: 100_000},
		},
		{
			// Best case inputs, raw sum over 100
			Deal: &models.Deal{
				ID:        uuid.New(),
				Amount:    900_000_000,
				Stage:     models.StageNegotiation,
				CreatedAt: testNow.AddDate(0, 0, -5),
				CloseDate: testNow.AddDate(0, 0, 10),
			},
			Account:          &models.Account{ID: uuid.New(), AnnualRevenue: 9_000_000_000},
			RecentActivities: 20,
		},
	}

	for _, ctx := range contexts {
		result, err := engine.ScoreDeal(ctx, testNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
	}
}

func TestStageFactorLookup(t *testing.T) {
	engine := NewEngine(Config{})

	expected := map[models.Stage]float64{
		models.StageProspecting:   5,
		models.StageQualification: 10,
		models.StageProposal:      20,
		models.StageNegotiation:   25,
	}

	for stage, points := range expected {
		ctx := testContext()
		ctx.Deal.Stage = stage

		result, err := engine.ScoreDeal(ctx, testNow)
		require.NoError(t, err)
		assert.Equal(t, points, factorPoints(t, result, "Stage ("+string(stage)+")"), "stage %s", stage)
	}
}

func TestZeroAmountDeal(t *testing.T) {
	engine := NewEngine(Config{})

	ctx := testContext()
	ctx.Deal.Amount = 0

	result, err := engine.ScoreDeal(ctx, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.0, factorPoints(t, result, "Deal size"))
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 100.0)
}

func TestUrgencyBoundaries(t *testing.T) {
	engine := NewEngine(Config{})

	cases := []struct {
		name      string
		closeDate time.Time
		points    float64
	}{
		{"closes today", testNow, 5},
		{"closes in exactly 30 days", testNow.AddDate(0, 0, 30), 5},
		{"closes in 29 days", testNow.AddDate(0, 0, 29), 10},
		{"closes in 1 day", testNow.AddDate(0, 0, 1), 10},
		{"overdue", testNow.AddDate(0, 0, -2), -5},
		{"far out", testNow.AddDate(0, 0, 120), 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testContext()
			ctx.Deal.CloseDate = tc.closeDate

			result, err := engine.ScoreDeal(ctx, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.points, factorPoints(t, result, "Close date urgency"))
		})
	}
}

func TestPipelineAgeBoundaries(t *testing.T) {
	engine := NewEngine(Config{})

	cases := []struct {
		daysOpen int
		points   float64
	}{
		{5, 5},
		{60, 5},
		{61, -5},
		{90, -5},
		{91, -10},
		{200, -10},
	}

	for _, tc := range cases {
		ctx := testContext()
		ctx.Deal.CreatedAt = testNow.AddDate(0, 0, -tc.daysOpen)

		result, err := engine.ScoreDeal(ctx, testNow)
		require.NoError(t, err)
		assert.Equal(t, tc.points, factorPoints(t, result, "Pipeline age"), "days open %d", tc.daysOpen)
	}
}

func TestEngagementBoundaries(t *testing.T) {
	engine := NewEngine(Config{})

	cases := []struct {
		activities int
		points     float64
	}{
		{0, 0},
		{2, 0},
		{3, 10},
		{5, 10},
		{6, 15},
	}

	for _, tc := range cases {
		ctx := testContext()
		ctx.RecentActivities = tc.activities

		result, err := engine.ScoreDeal(ctx, testNow)
		require.NoError(t, err)
		assert.Equal(t, tc.points, factorPoints(t, result, "Recent engagement"), "%d activities", tc.activities)
	}
}

func TestAccountQualityTiers(t *testing.T) {
	engine := NewEngine(Config{})

	cases := []struct {
		revenue int64
		points  float64
	}{
		{500_000, 5},
		{1_000_000_000, 5},  // exactly $10M stays in the base tier
		{1_000_000_001, 10}, // just over $10M
		{5_000_000_000, 10}, // exactly $50M
		{5_000_000_001, 15},
	}

	for _, tc := range cases {
		ctx := testContext()
		ctx.Account.AnnualRevenue = tc.revenue

		result, err := engine.ScoreDeal(ctx, testNow)
		require.NoError(t, err)
		assert.Equal(t, tc.points, factorPoints(t, result, "Account size"), "revenue %d", tc.revenue)
	}
}

func TestScoreDealIdempotent(t *testing.T) {
	engine := NewEngine(Config{})
	ctx := testContext()

	first, err := engine.ScoreDeal(ctx, testNow)
	require.NoError(t, err)
	second, err := engine.ScoreDeal(ctx, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRankDealsOrdering(t *testing.T) {
	engine := NewEngine(Config{})

	// Three deals engineered to score differently, plus two exact ties
	big := testContext()
	big.Deal.Name = "big"
	big.Deal.Amount = 80_000_000
	big.RecentActivities = 6

	small := testContext()
	small.Deal.Name = "small"
	small.Deal.Amount = 100_000
	small.Deal.Stage = models.StageProspecting

	tieA := testContext()
	tieA.Deal.Name = "tie-a"
	tieA.Deal.CloseDate = testNow.AddDate(0, 0, 60)

	tieB := testContext()
	tieB.Deal.Name = "tie-b"
	tieB.Deal.CloseDate = testNow.AddDate(0, 0, 40)

	results, err := engine.RankDeals([]DealContext{small, tieA, big, tieB}, testNow)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Non-increasing by score
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	assert.Equal(t, "big", results[0].DealName)
	assert.Equal(t, "small", results[3].DealName)

	// Equal score and amount: earlier close date wins
	assert.Equal(t, "tie-b", results[1].DealName)
	assert.Equal(t, "tie-a", results[2].DealName)
}

func TestRankDealsAmountTieBreak(t *testing.T) {
	engine := NewEngine(Config{})

	// Identical inputs except amount, with both amounts past the size cap
	// so the scores come out equal and only the amount tie-break differs.
	a := testContext()
	a.Deal.Name = "larger"
	a.Deal.Amount = 40_000_000 // size factor capped at 30
	b := testContext()
	b.Deal.Name = "smaller"
	b.Deal.Amount = 30_000_000 // also capped at 30

	results, err := engine.RankDeals([]DealContext{b, a}, testNow)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "larger", results[0].DealName)
}

func TestScoreDealValidation(t *testing.T) {
	engine := NewEngine(Config{})

	cases := []struct {
		name   string
		mutate func(*DealContext)
	}{
		{"negative amount", func(ctx *DealContext) { ctx.Deal.Amount = -1 }},
		{"missing close date", func(ctx *DealContext) { ctx.Deal.CloseDate = time.Time{} }},
		{"terminal stage", func(ctx *DealContext) { ctx.Deal.Stage = models.StageClosedWon }},
		{"unknown stage", func(ctx *DealContext) { ctx.Deal.Stage = "stalled" }},
		{"nil account", func(ctx *DealContext) { ctx.Account = nil }},
		{"negative revenue", func(ctx *DealContext) { ctx.Account.AnnualRevenue = -5 }},
		{"negative activities", func(ctx *DealContext) { ctx.RecentActivities = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testContext()
			tc.mutate(&ctx)

			result, err := engine.ScoreDeal(ctx, testNow)
			assert.Nil(t, result)

			var dealErr *InvalidDealError
			require.True(t, errors.As(err, &dealErr), "expected InvalidDealError, got %v", err)
		})
	}
}

func TestPriorityBuckets(t *testing.T) {
	cases := []struct {
		score    float64
		priority string
		action   string
	}{
		{100, PriorityHot, ActionHot},
		{75, PriorityHot, ActionHot},
		{74.9, PriorityWarm, ActionWarm},
		{50, PriorityWarm, ActionWarm},
		{49.9, PriorityCool, ActionCool},
		{0, PriorityCool, ActionCool},
	}

	for _, tc := range cases {
		priority, action := bucket(tc.score)
		assert.Equal(t, tc.priority, priority, "score %v", tc.score)
		assert.Equal(t, tc.action, action, "score %v", tc.score)
	}
}
