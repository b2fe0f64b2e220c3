// ABOUTME: Tests for the activity log
// ABOUTME: Covers ULID keys, window counts, and type aggregates
package db

import (
	"testing"
	"time"

	"github.com/harperreed/dealdesk/models"
)

func TestLogActivity(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Activity Corp"}
	if err := CreateAccount(database, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	activity := &models.Activity{
		AccountID:   account.ID,
		Type:        models.ActivityCall,
		Description: "Intro call with procurement",
	}

	if err := LogActivity(database, activity); err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	if activity.ID == "" {
		t.Error("Activity ID was not set")
	}
	if len(activity.ID) != 26 {
		t.Errorf("Expected 26-char ULID, got %q", activity.ID)
	}
	if activity.OccurredAt.IsZero() {
		t.Error("OccurredAt was not defaulted")
	}

	activities, err := RecentActivities(database, account.ID, 10)
	if err != nil {
		t.Fatalf("RecentActivities failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("Expected 1 activity, got %d", len(activities))
	}
	if activities[0].Description != activity.Description {
		t.Error("Activity description mismatch")
	}
}

func TestCountRecentActivitiesWindow(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Activity Corp"}
	if err := CreateAccount(database, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	ages := []int{1, 5, 29, 45, 100}
	for _, daysAgo := range ages {
		activity := &models.Activity{
			AccountID:  account.ID,
			Type:       models.ActivityEmail,
			OccurredAt: time.Now().AddDate(0, 0, -daysAgo),
		}
		if err := LogActivity(database, activity); err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
	}

	count, err := CountRecentActivities(database, account.ID, 30)
	if err != nil {
		t.Fatalf("CountRecentActivities failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 activities in 30-day window, got %d", count)
	}

	count, err = CountRecentActivities(database, account.ID, 7)
	if err != nil {
		t.Fatalf("CountRecentActivities failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 activities in 7-day window, got %d", count)
	}
}

func TestTypeCountsSince(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Activity Corp"}
	if err := CreateAccount(database, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	types := []string{models.ActivityCall, models.ActivityCall, models.ActivityEmail}
	for _, activityType := range types {
		activity := &models.Activity{AccountID: account.ID, Type: activityType}
		if err := LogActivity(database, activity); err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
	}

	counts, err := TypeCountsSince(database, time.Now().AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("TypeCountsSince failed: %v", err)
	}
	if counts[models.ActivityCall] != 2 {
		t.Errorf("Expected 2 calls, got %d", counts[models.ActivityCall])
	}
	if counts[models.ActivityEmail] != 1 {
		t.Errorf("Expected 1 email, got %d", counts[models.ActivityEmail])
	}
}

func TestLatestActivitiesOrder(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := &models.Account{Name: "Activity Corp"}
	if err := CreateAccount(database, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	for _, daysAgo := range []int{3, 1, 2} {
		activity := &models.Activity{
			AccountID:   account.ID,
			Type:        models.ActivityNote,
			Description: "note",
			OccurredAt:  time.Now().AddDate(0, 0, -daysAgo),
		}
		if err := LogActivity(database, activity); err != nil {
			t.Fatalf("LogActivity failed: %v", err)
		}
	}

	activities, err := LatestActivities(database, 2)
	if err != nil {
		t.Fatalf("LatestActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(activities))
	}
	if !activities[0].OccurredAt.After(activities[1].OccurredAt) {
		t.Error("Expected newest-first ordering")
	}
}
