// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	industry TEXT,
	annual_revenue INTEGER NOT NULL DEFAULT 0,
	employees INTEGER,
	website TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_name ON accounts(name);
CREATE INDEX IF NOT EXISTS idx_accounts_industry ON accounts(industry);

CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	name TEXT NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0,
	stage TEXT NOT NULL,
	probability INTEGER NOT NULL,
	close_date DATE NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_account_id ON deals(account_id);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	description TEXT,
	occurred_at DATETIME NOT NULL,
	FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE INDEX IF NOT EXISTS idx_activities_account_id ON activities(account_id);
CREATE INDEX IF NOT EXISTS idx_activities_occurred_at ON activities(occurred_at);
`

func InitSchema(database *sql.DB) error {
	_, err := database.Exec(schema)
	return err
}
