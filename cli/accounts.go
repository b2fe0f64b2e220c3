// ABOUTME: Account CLI commands
// ABOUTME: Human-friendly commands for managing accounts
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

// AddAccountCommand adds a new account.
func AddAccountCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-account", flag.ExitOnError)
	name := fs.String("name", "", "Account name (required)")
	industry := fs.String("industry", "", "Industry tag")
	revenue := fs.Int64("revenue", 0, "Annual revenue in cents")
	employees := fs.Int("employees", 0, "Employee count")
	website := fs.String("website", "", "Company website")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *revenue < 0 {
		return fmt.Errorf("--revenue cannot be negative")
	}

	account := &models.Account{
		Name:          *name,
		Industry:      *industry,
		AnnualRevenue: *revenue,
		Employees:     *employees,
		Website:       *website,
	}

	if err := db.CreateAccount(database, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("✓ Account created: %s (ID: %s)\n", account.Name, account.ID)
	if account.Industry != "" {
		fmt.Printf("  Industry: %s\n", account.Industry)
	}
	if account.AnnualRevenue > 0 {
		fmt.Printf("  Revenue: $%.2f\n", float64(account.AnnualRevenue)/100.0)
	}

	return nil
}

// ListAccountsCommand lists all accounts with deal aggregates.
func ListAccountsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-accounts", flag.ExitOnError)
	_ = fs.Parse(args)

	summaries, err := db.ListAccounts(database)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No accounts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tINDUSTRY\tREVENUE\tDEALS\tDEAL VALUE\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t-------\t-----\t----------\t--")

	for _, s := range summaries {
		industry := s.Industry
		if industry == "" {
			industry = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t$%.2f\t%d\t$%.2f\t%s\n",
			s.Name, industry, float64(s.AnnualRevenue)/100.0,
			s.DealCount, float64(s.TotalDealValue)/100.0, s.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d account(s)\n", len(summaries))
	return nil
}

// SearchAccountsCommand searches accounts by name, industry, or revenue floor.
func SearchAccountsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("search-accounts", flag.ExitOnError)
	query := fs.String("query", "", "Search term for account name")
	industry := fs.String("industry", "", "Filter by industry")
	minRevenue := fs.Int64("min-revenue", 0, "Minimum annual revenue in cents")
	limit := fs.Int("limit", 10, "Maximum results")
	_ = fs.Parse(args)

	accounts, err := db.FindAccounts(database, *query, *industry, *minRevenue, *limit)
	if err != nil {
		return fmt.Errorf("failed to search accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tINDUSTRY\tREVENUE\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t-------\t--")
	for _, account := range accounts {
		industryTag := account.Industry
		if industryTag == "" {
			industryTag = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t$%.2f\t%s\n",
			account.Name, industryTag, float64(account.AnnualRevenue)/100.0, account.ID.String()[:8])
	}
	_ = w.Flush()

	return nil
}

// resolveAccount finds an account by name prefix or UUID. Used by commands
// that take a -account flag.
func resolveAccount(database *sql.DB, ref string) (*models.Account, error) {
	if id, err := uuid.Parse(ref); err == nil {
		account, err := db.GetAccount(database, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lookup account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("no account with ID %s", ref)
		}
		return account, nil
	}

	matches, err := db.FindAccounts(database, ref, "", 0, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup account: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no account matching %q", ref)
	}
	// Prefer an exact name match over a prefix hit
	for i := range matches {
		if strings.EqualFold(matches[i].Name, ref) {
			return &matches[i], nil
		}
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%d accounts match %q, be more specific", len(matches), ref)
	}
	return &matches[0], nil
}
