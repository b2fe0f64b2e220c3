// ABOUTME: Scoring snapshot assembly
// ABOUTME: Loads open deals with account and engagement data for the engine
package analytics

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/scoring"
)

// Scoring reads a trailing 30-day engagement window.
const engagementWindowDays = 30

// GatherDealContexts snapshots every open deal with its account and
// trailing-30-day activity count in one pass, caching per-account lookups.
// An accountID scopes the snapshot to one account.
func GatherDealContexts(database *sql.DB, accountID *uuid.UUID) ([]scoring.DealContext, error) {
	deals, err := db.FindOpenDeals(database, accountID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open deals: %w", err)
	}

	accounts := make(map[uuid.UUID]*models.Account)
	activityCounts := make(map[uuid.UUID]int)

	contexts := make([]scoring.DealContext, 0, len(deals))
	for i := range deals {
		deal := &deals[i]

		account, ok := accounts[deal.AccountID]
		if !ok {
			account, err = db.GetAccount(database, deal.AccountID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch account: %w", err)
			}
			if account == nil {
				return nil, fmt.Errorf("deal %s references missing account %s", deal.ID, deal.AccountID)
			}
			accounts[deal.AccountID] = account

			count, err := db.CountRecentActivities(database, deal.AccountID, engagementWindowDays)
			if err != nil {
				return nil, fmt.Errorf("failed to count activities: %w", err)
			}
			activityCounts[deal.AccountID] = count
		}

		contexts = append(contexts, scoring.DealContext{
			Deal:             deal,
			Account:          account,
			RecentActivities: activityCounts[deal.AccountID],
		})
	}

	return contexts, nil
}
