// ABOUTME: Tests for scoring snapshot assembly
// ABOUTME: Covers open-deal filtering, account scoping, and engagement counts
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

func TestGatherDealContexts(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Acme Corp", AnnualRevenue: 5_000_000_00}
	require.NoError(t, db.CreateAccount(database, account))

	open := &models.Deal{AccountID: account.ID, Name: "Open Deal", Amount: 50_000_00, Stage: models.StageProposal}
	require.NoError(t, db.CreateDeal(database, open, nil))

	closed := &models.Deal{AccountID: account.ID, Name: "Closed Deal", Amount: 10_000_00, Stage: models.StageClosedLost}
	require.NoError(t, db.CreateDeal(database, closed, nil))

	activity := &models.Activity{
		AccountID:  account.ID,
		Type:       models.ActivityCall,
		OccurredAt: time.Now(),
	}
	require.NoError(t, db.LogActivity(database, activity))

	contexts, err := GatherDealContexts(database, nil)
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	ctx := contexts[0]
	assert.Equal(t, "Open Deal", ctx.Deal.Name)
	assert.Equal(t, account.ID, ctx.Account.ID)
	// Creation of each deal logs an activity, plus the call above
	assert.Equal(t, 3, ctx.RecentActivities)
}

func TestGatherDealContextsAccountScope(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	first := &models.Account{Name: "Acme Corp"}
	require.NoError(t, db.CreateAccount(database, first))
	second := &models.Account{Name: "Globex"}
	require.NoError(t, db.CreateAccount(database, second))

	for _, account := range []*models.Account{first, second} {
		deal := &models.Deal{AccountID: account.ID, Name: account.Name + " Deal", Amount: 20_000_00, Stage: models.StageProspecting}
		require.NoError(t, db.CreateDeal(database, deal, nil))
	}

	contexts, err := GatherDealContexts(database, &second.ID)
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, "Globex Deal", contexts[0].Deal.Name)

	all, err := GatherDealContexts(database, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
