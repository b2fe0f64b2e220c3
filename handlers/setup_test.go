// ABOUTME: Shared test helpers for MCP handler tests
// ABOUTME: In-memory database setup and fixture builders
package handlers

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := db.InitSchema(database); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}

	return database
}

func createAccount(t *testing.T, database *sql.DB, name string, revenue int64) *models.Account {
	t.Helper()

	account := &models.Account{Name: name, AnnualRevenue: revenue}
	if err := db.CreateAccount(database, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return account
}

func createDeal(t *testing.T, database *sql.DB, account *models.Account, name string, amount int64, stage models.Stage) *models.Deal {
	t.Helper()

	deal := &models.Deal{AccountID: account.ID, Name: name, Amount: amount, Stage: stage}
	if err := db.CreateDeal(database, deal, nil); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	return deal
}
