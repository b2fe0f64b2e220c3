// ABOUTME: Tests for the conversion funnel report
// ABOUTME: Covers cumulative conversion math, win rate, and bottlenecks
package analytics

import (
	"testing"
	"time"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunnelConversions(t *testing.T) {
	counts := map[models.Stage]int{
		models.StageProspecting:   10,
		models.StageQualification: 5,
		models.StageProposal:      3,
		models.StageNegotiation:   1,
		models.StageClosedWon:     1,
		models.StageClosedLost:    4,
	}

	report := Funnel(counts)
	require.Len(t, report.Conversions, 4)

	// prospecting -> qualification: 10 of 20 deals are past prospecting
	first := report.Conversions[0]
	assert.Equal(t, models.StageProspecting, first.FromStage)
	assert.Equal(t, 20, first.DealsInStage)
	assert.Equal(t, 10, first.DealsConverted)
	assert.Equal(t, 50.0, first.ConversionRate)

	// negotiation -> closed_won: 1 of 2
	last := report.Conversions[3]
	assert.Equal(t, models.StageNegotiation, last.FromStage)
	assert.Equal(t, models.StageClosedWon, last.ToStage)
	assert.Equal(t, 50.0, last.ConversionRate)

	assert.Equal(t, 24, report.TotalDeals)
	assert.Equal(t, 1, report.DealsWon)
	assert.Equal(t, 4, report.DealsLost)
	assert.Equal(t, 20.0, report.WinRate)
	assert.Equal(t, 80.0, report.LossRate)
}

func TestFunnelEmptyPipeline(t *testing.T) {
	report := Funnel(map[models.Stage]int{})

	assert.Equal(t, 0, report.TotalDeals)
	assert.Equal(t, 0.0, report.WinRate)
	require.Len(t, report.Conversions, 4)
	for _, conv := range report.Conversions {
		assert.Equal(t, 0.0, conv.ConversionRate)
	}
}

func TestFunnelBottlenecks(t *testing.T) {
	counts := map[models.Stage]int{
		models.StageProspecting: 8,
		models.StageClosedWon:   2,
	}

	report := Funnel(counts)

	// prospecting -> qualification converts 2 of 10; everything downstream
	// converts 2 of 2
	require.NotEmpty(t, report.Bottlenecks)
	assert.Equal(t, models.StageProspecting, report.Bottlenecks[0].FromStage)
	assert.Len(t, report.Bottlenecks, 1)
}

func TestStageVelocities(t *testing.T) {
	now := time.Now()
	deals := []models.Deal{
		{Name: "Fresh", Stage: models.StageProspecting, CreatedAt: now.AddDate(0, 0, -10)},
		{Name: "Aging", Stage: models.StageProspecting, CreatedAt: now.AddDate(0, 0, -30)},
		{Name: "Late", Stage: models.StageNegotiation, CreatedAt: now.AddDate(0, 0, -5)},
		{Name: "Done", Stage: models.StageClosedWon, CreatedAt: now.AddDate(0, 0, -90)},
	}

	velocities := StageVelocities(deals, now)
	require.Len(t, velocities, 2)

	// Funnel order, closed deals excluded
	assert.Equal(t, models.StageProspecting, velocities[0].Stage)
	assert.Equal(t, 2, velocities[0].DealCount)
	assert.InDelta(t, 20.0, velocities[0].AvgDays, 0.1)

	assert.Equal(t, models.StageNegotiation, velocities[1].Stage)
	assert.Equal(t, 1, velocities[1].DealCount)
	assert.InDelta(t, 5.0, velocities[1].AvgDays, 0.1)
}

func TestStageVelocitiesEmpty(t *testing.T) {
	assert.Empty(t, StageVelocities(nil, time.Now()))
}

func TestGenerateFunnelReport(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Acme Corp"}
	require.NoError(t, db.CreateAccount(database, account))

	open := &models.Deal{AccountID: account.ID, Name: "Open Deal", Amount: 40_000_00, Stage: models.StageProposal}
	require.NoError(t, db.CreateDeal(database, open, nil))

	won := &models.Deal{AccountID: account.ID, Name: "Won Deal", Amount: 20_000_00, Stage: models.StageClosedWon}
	require.NoError(t, db.CreateDeal(database, won, nil))

	report, err := GenerateFunnelReport(database, 90)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalDeals)
	assert.Equal(t, 1, report.DealsWon)
	assert.Equal(t, 100.0, report.WinRate)

	require.Len(t, report.Velocity, 1)
	assert.Equal(t, models.StageProposal, report.Velocity[0].Stage)
	assert.Equal(t, 1, report.Velocity[0].DealCount)
	assert.InDelta(t, 0.0, report.Velocity[0].AvgDays, 0.1)
}
