// ABOUTME: Activity log database operations
// ABOUTME: Append-only account activity log with ULID keys and window queries
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/models"
	"github.com/oklog/ulid/v2"
)

// LogActivity appends one activity row. The log is never updated or deleted.
func LogActivity(database *sql.DB, activity *models.Activity) error {
	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertActivityTx(tx, activity); err != nil {
		return err
	}

	return tx.Commit()
}

func insertActivityTx(tx *sql.Tx, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = ulid.Make().String()
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now()
	}

	_, err := tx.Exec(`
		INSERT INTO activities (id, account_id, activity_type, description, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`, activity.ID, activity.AccountID.String(), activity.Type, activity.Description, activity.OccurredAt)

	return err
}

// CountRecentActivities counts activities against an account within the
// trailing window. Feeds the engagement scoring factor.
func CountRecentActivities(database *sql.DB, accountID uuid.UUID, windowDays int) (int, error) {
	since := time.Now().AddDate(0, 0, -windowDays)

	var count int
	err := database.QueryRow(`
		SELECT COUNT(*) FROM activities
		WHERE account_id = ? AND occurred_at >= ?
	`, accountID.String(), since).Scan(&count)

	return count, err
}

// RecentActivities returns the newest activities for an account.
func RecentActivities(database *sql.DB, accountID uuid.UUID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := database.Query(`
		SELECT id, account_id, activity_type, description, occurred_at
		FROM activities
		WHERE account_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?
	`, accountID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Type, &a.Description, &a.OccurredAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// LatestActivities returns the newest activities across all accounts.
func LatestActivities(database *sql.DB, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := database.Query(`
		SELECT id, account_id, activity_type, description, occurred_at
		FROM activities
		ORDER BY occurred_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Type, &a.Description, &a.OccurredAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// TypeCountsSince counts activities per type on or after the given time.
// Feeds the activity summary report.
func TypeCountsSince(database *sql.DB, since time.Time) (map[string]int, error) {
	rows, err := database.Query(`
		SELECT activity_type, COUNT(*)
		FROM activities
		WHERE occurred_at >= ?
		GROUP BY activity_type
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var activityType string
		var count int
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, err
		}
		counts[activityType] = count
	}

	return counts, rows.Err()
}
