// ABOUTME: Dashboard statistics for CRM overview surfaces
// ABOUTME: Aggregates pipeline, account, and activity state from the database
package analytics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/dealdesk/db"
)

// Deals open longer than this without an update need attention.
const staleDealDays = 60

type DashboardStats struct {
	TotalAccounts int               `json:"total_accounts"`
	TotalDeals    int               `json:"total_deals"`
	OpenPipeline  int64             `json:"open_pipeline"` // in cents
	Pipeline      []db.StageSummary `json:"pipeline"`
	StaleDeals    []StaleDeal       `json:"stale_deals,omitempty"`
	RecentFeed    []FeedItem        `json:"recent_feed,omitempty"`
}

type StaleDeal struct {
	Name      string `json:"name"`
	DaysStale int    `json:"days_stale"`
}

type FeedItem struct {
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description"`
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	accounts, err := db.ListAccounts(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	stats.TotalAccounts = len(accounts)
	for _, account := range accounts {
		stats.TotalDeals += account.DealCount
	}

	pipeline, err := db.StageSummaries(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pipeline: %w", err)
	}
	stats.Pipeline = pipeline
	for _, stage := range pipeline {
		stats.OpenPipeline += stage.TotalAmount
	}

	openDeals, err := db.FindOpenDeals(database, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open deals: %w", err)
	}

	now := time.Now()
	for _, deal := range openDeals {
		daysStale := int(now.Sub(deal.UpdatedAt).Hours() / 24)
		if daysStale > staleDealDays {
			stats.StaleDeals = append(stats.StaleDeals, StaleDeal{
				Name:      deal.Name,
				DaysStale: daysStale,
			})
		}
	}

	activities, err := db.LatestActivities(database, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	for _, activity := range activities {
		description := activity.Description
		if description == "" {
			description = activity.Type
		}
		stats.RecentFeed = append(stats.RecentFeed, FeedItem{
			OccurredAt:  activity.OccurredAt,
			Description: description,
		})
	}

	return stats, nil
}
