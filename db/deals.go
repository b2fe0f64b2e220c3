// ABOUTME: Deal database operations
// ABOUTME: Handles deal lifecycle, stage transitions, and pipeline queries
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/models"
)

// CreateDeal inserts a deal and logs a deal_created activity against its
// account in the same transaction. Probability defaults from the stage when
// nil and terminal stages force 100/0 regardless of the supplied value; close
// date defaults to 90 days out when unset.
func CreateDeal(database *sql.DB, deal *models.Deal, probability *int) error {
	deal.ID = uuid.New()
	now := time.Now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	if deal.Stage == "" {
		deal.Stage = models.StageProspecting
	}
	prob := deal.Stage.DefaultProbability()
	if probability != nil {
		prob = *probability
	}
	switch deal.Stage {
	case models.StageClosedWon:
		prob = 100
	case models.StageClosedLost:
		prob = 0
	}
	deal.Probability = prob
	if deal.CloseDate.IsZero() {
		deal.CloseDate = now.AddDate(0, 0, 90)
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO deals (id, account_id, name, amount, stage, probability, close_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, deal.ID.String(), deal.AccountID.String(), deal.Name, deal.Amount, string(deal.Stage), deal.Probability, deal.CloseDate, deal.CreatedAt, deal.UpdatedAt)
	if err != nil {
		return err
	}

	activity := &models.Activity{
		AccountID:   deal.AccountID,
		Type:        models.ActivityDealCreated,
		Description: fmt.Sprintf("New deal %q created for $%.2f", deal.Name, float64(deal.Amount)/100.0),
		OccurredAt:  now,
	}
	if err := insertActivityTx(tx, activity); err != nil {
		return err
	}

	return tx.Commit()
}

func GetDeal(database *sql.DB, id uuid.UUID) (*models.Deal, error) {
	deal := &models.Deal{}

	err := database.QueryRow(`
		SELECT id, account_id, name, amount, stage, probability, close_date, created_at, updated_at
		FROM deals WHERE id = ?
	`, id.String()).Scan(
		&deal.ID,
		&deal.AccountID,
		&deal.Name,
		&deal.Amount,
		&deal.Stage,
		&deal.Probability,
		&deal.CloseDate,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return deal, nil
}

// UpdateDealStage moves a deal to a new stage and logs a deal_updated activity
// in the same transaction. Probability defaults from the stage when nil;
// terminal stages force 100/0 regardless of the supplied value.
func UpdateDealStage(database *sql.DB, dealID uuid.UUID, newStage models.Stage, probability *int, note string) (*models.Deal, error) {
	deal, err := GetDeal(database, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, fmt.Errorf("deal not found: %s", dealID)
	}

	prob := newStage.DefaultProbability()
	if probability != nil {
		prob = *probability
	}
	switch newStage {
	case models.StageClosedWon:
		prob = 100
	case models.StageClosedLost:
		prob = 0
	}

	now := time.Now()

	tx, err := database.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE deals SET stage = ?, probability = ?, updated_at = ? WHERE id = ?
	`, string(newStage), prob, now, dealID.String())
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Deal %q moved to %s", deal.Name, newStage)
	if note != "" {
		description += ". " + note
	}
	activity := &models.Activity{
		AccountID:   deal.AccountID,
		Type:        models.ActivityDealUpdated,
		Description: description,
		OccurredAt:  now,
	}
	if err := insertActivityTx(tx, activity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	deal.Stage = newStage
	deal.Probability = prob
	deal.UpdatedAt = now
	return deal, nil
}

// FindOpenDeals returns non-terminal deals, optionally scoped to one account,
// ordered by amount descending. A limit of 0 returns every open deal, so the
// scoring snapshot never silently truncates the pipeline.
func FindOpenDeals(database *sql.DB, accountID *uuid.UUID, limit int) ([]models.Deal, error) {
	query := `
		SELECT id, account_id, name, amount, stage, probability, close_date, created_at, updated_at
		FROM deals
		WHERE stage NOT IN (?, ?)`
	params := []interface{}{string(models.StageClosedWon), string(models.StageClosedLost)}

	if accountID != nil {
		query += " AND account_id = ?"
		params = append(params, accountID.String())
	}

	query += " ORDER BY amount DESC"
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}

	return queryDeals(database, query, params...)
}

// FindDeals returns deals filtered by stage and/or account, most recently
// updated first.
func FindDeals(database *sql.DB, stage models.Stage, accountID *uuid.UUID, limit int) ([]models.Deal, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, account_id, name, amount, stage, probability, close_date, created_at, updated_at
		FROM deals WHERE 1=1`
	var params []interface{}

	if stage != "" {
		query += " AND stage = ?"
		params = append(params, string(stage))
	}
	if accountID != nil {
		query += " AND account_id = ?"
		params = append(params, accountID.String())
	}

	query += " ORDER BY updated_at DESC LIMIT ?"
	params = append(params, limit)

	return queryDeals(database, query, params...)
}

// ClosedWonSince returns closed-won deals whose close date falls on or after
// the given time, oldest first. Feeds the historical forecast window.
func ClosedWonSince(database *sql.DB, since time.Time) ([]models.Deal, error) {
	return queryDeals(database, `
		SELECT id, account_id, name, amount, stage, probability, close_date, created_at, updated_at
		FROM deals
		WHERE stage = ? AND close_date >= ?
		ORDER BY close_date
	`, string(models.StageClosedWon), since)
}

func queryDeals(database *sql.DB, query string, params ...interface{}) ([]models.Deal, error) {
	rows, err := database.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var d models.Deal
		if err := rows.Scan(&d.ID, &d.AccountID, &d.Name, &d.Amount, &d.Stage, &d.Probability, &d.CloseDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}

	return deals, rows.Err()
}

// StageSummary aggregates the open pipeline for one stage.
type StageSummary struct {
	Stage          models.Stage `json:"stage"`
	DealCount      int          `json:"deal_count"`
	TotalAmount    int64        `json:"total_amount"`
	AvgProbability float64      `json:"avg_probability"`
}

// StageSummaries groups open deals by stage with count, total amount, and
// average probability, in funnel order.
func StageSummaries(database *sql.DB) ([]StageSummary, error) {
	rows, err := database.Query(`
		SELECT stage, COUNT(*), SUM(amount), AVG(probability)
		FROM deals
		WHERE stage NOT IN (?, ?)
		GROUP BY stage
	`, string(models.StageClosedWon), string(models.StageClosedLost))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byStage := make(map[models.Stage]StageSummary)
	for rows.Next() {
		var s StageSummary
		if err := rows.Scan(&s.Stage, &s.DealCount, &s.TotalAmount, &s.AvgProbability); err != nil {
			return nil, err
		}
		byStage[s.Stage] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Funnel order, skipping empty stages
	var summaries []StageSummary
	for _, stage := range models.OpenStages {
		if s, ok := byStage[stage]; ok {
			summaries = append(summaries, s)
		}
	}

	return summaries, nil
}

// StageCountsSince counts deals per stage created on or after the given time.
// Feeds the conversion funnel report.
func StageCountsSince(database *sql.DB, since time.Time) (map[models.Stage]int, error) {
	rows, err := database.Query(`
		SELECT stage, COUNT(*)
		FROM deals
		WHERE created_at >= ?
		GROUP BY stage
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Stage]int)
	for rows.Next() {
		var stage models.Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[stage] = count
	}

	return counts, rows.Err()
}
