// ABOUTME: Account database operations
// ABOUTME: Handles account creation, lookup, search, and pipeline aggregates
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/models"
)

func CreateAccount(database *sql.DB, account *models.Account) error {
	account.ID = uuid.New()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := database.Exec(`
		INSERT INTO accounts (id, name, industry, annual_revenue, employees, website, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, account.ID.String(), account.Name, account.Industry, account.AnnualRevenue, account.Employees, account.Website, account.CreatedAt, account.UpdatedAt)

	return err
}

func GetAccount(database *sql.DB, id uuid.UUID) (*models.Account, error) {
	account := &models.Account{}

	err := database.QueryRow(`
		SELECT id, name, industry, annual_revenue, employees, website, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id.String()).Scan(
		&account.ID,
		&account.Name,
		&account.Industry,
		&account.AnnualRevenue,
		&account.Employees,
		&account.Website,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccount corrects mutable account fields (revenue, industry, employees,
// website). Name and timestamps of creation are left alone.
func UpdateAccount(database *sql.DB, account *models.Account) error {
	account.UpdatedAt = time.Now()

	_, err := database.Exec(`
		UPDATE accounts
		SET industry = ?, annual_revenue = ?, employees = ?, website = ?, updated_at = ?
		WHERE id = ?
	`, account.Industry, account.AnnualRevenue, account.Employees, account.Website, account.UpdatedAt, account.ID.String())

	return err
}

// FindAccounts searches accounts by name substring, industry, and minimum
// annual revenue, ordered by revenue descending.
func FindAccounts(database *sql.DB, query, industry string, minRevenue int64, limit int) ([]models.Account, error) {
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `
		SELECT id, name, industry, annual_revenue, employees, website, created_at, updated_at
		FROM accounts WHERE 1=1`
	var params []interface{}

	if query != "" {
		sqlQuery += " AND name LIKE ?"
		params = append(params, "%"+query+"%")
	}
	if industry != "" {
		sqlQuery += " AND industry = ?"
		params = append(params, industry)
	}
	if minRevenue > 0 {
		sqlQuery += " AND annual_revenue >= ?"
		params = append(params, minRevenue)
	}

	sqlQuery += " ORDER BY annual_revenue DESC LIMIT ?"
	params = append(params, limit)

	rows, err := database.Query(sqlQuery, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Industry, &a.AnnualRevenue, &a.Employees, &a.Website, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// AccountSummary is an account with its deal aggregates attached.
type AccountSummary struct {
	models.Account
	DealCount      int   `json:"deal_count"`
	TotalDealValue int64 `json:"total_deal_value"`
}

// ListAccounts returns every account with deal count and total deal value,
// ordered by annual revenue descending.
func ListAccounts(database *sql.DB) ([]AccountSummary, error) {
	rows, err := database.Query(`
		SELECT a.id, a.name, a.industry, a.annual_revenue, a.employees, a.website, a.created_at, a.updated_at,
		       COUNT(d.id), COALESCE(SUM(d.amount), 0)
		FROM accounts a
		LEFT JOIN deals d ON a.id = d.account_id
		GROUP BY a.id
		ORDER BY a.annual_revenue DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []AccountSummary
	for rows.Next() {
		var s AccountSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Industry, &s.AnnualRevenue, &s.Employees, &s.Website, &s.CreatedAt, &s.UpdatedAt, &s.DealCount, &s.TotalDealValue); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
