// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for managing deals and logging activity
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

// AddDealCommand adds a new deal.
func AddDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	name := fs.String("name", "", "Deal name (required)")
	account := fs.String("account", "", "Account name or ID (required)")
	amount := fs.Int64("amount", 0, "Deal amount in cents")
	stage := fs.String("stage", "prospecting", "Stage (prospecting, qualification, proposal, negotiation, closed_won, closed_lost)")
	closeDate := fs.String("close", "", "Expected close date (YYYY-MM-DD, defaults to 90 days out)")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *account == "" {
		return fmt.Errorf("--account is required")
	}
	if *amount < 0 {
		return fmt.Errorf("--amount cannot be negative")
	}

	acct, err := resolveAccount(database, *account)
	if err != nil {
		return err
	}

	parsedStage, err := models.ParseStage(*stage)
	if err != nil {
		return err
	}

	deal := &models.Deal{
		AccountID: acct.ID,
		Name:      *name,
		Amount:    *amount,
		Stage:     parsedStage,
	}
	if *closeDate != "" {
		parsed, err := time.Parse("2006-01-02", *closeDate)
		if err != nil {
			return fmt.Errorf("invalid --close date (use YYYY-MM-DD): %w", err)
		}
		deal.CloseDate = parsed
	}

	if err := db.CreateDeal(database, deal, nil); err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", deal.Name, deal.ID)
	fmt.Printf("  Account: %s\n", acct.Name)
	fmt.Printf("  Amount: $%.2f\n", float64(deal.Amount)/100.0)
	fmt.Printf("  Stage: %s (%d%%)\n", deal.Stage, deal.Probability)
	fmt.Printf("  Close: %s\n", deal.CloseDate.Format("2006-01-02"))

	return nil
}

// ListDealsCommand lists deals with optional stage and account filters.
func ListDealsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	account := fs.String("account", "", "Filter by account name or ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	var stageFilter models.Stage
	if *stage != "" {
		parsed, err := models.ParseStage(*stage)
		if err != nil {
			return err
		}
		stageFilter = parsed
	}

	var accountIDPtr *uuid.UUID
	if *account != "" {
		acct, err := resolveAccount(database, *account)
		if err != nil {
			return err
		}
		accountIDPtr = &acct.ID
	}

	deals, err := db.FindDeals(database, stageFilter, accountIDPtr, *limit)
	if err != nil {
		return fmt.Errorf("failed to find deals: %w", err)
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	accountNames := make(map[uuid.UUID]string)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tACCOUNT\tAMOUNT\tSTAGE\tCLOSE\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t-----\t-----\t--")

	for _, deal := range deals {
		accountName, ok := accountNames[deal.AccountID]
		if !ok {
			accountName = "-"
			if acct, err := db.GetAccount(database, deal.AccountID); err == nil && acct != nil {
				accountName = acct.Name
			}
			accountNames[deal.AccountID] = accountName
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t$%.2f\t%s\t%s\t%s\n",
			deal.Name, accountName, float64(deal.Amount)/100.0,
			deal.Stage, deal.CloseDate.Format("2006-01-02"), deal.ID.String()[:8])
	}
	_ = w.Flush()

	var total int64
	for _, deal := range deals {
		total += deal.Amount
	}
	fmt.Printf("\nTotal: %d deal(s) - $%.2f\n", len(deals), float64(total)/100.0)

	return nil
}

// MoveDealCommand transitions a deal to a new stage.
func MoveDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	stage := fs.String("stage", "", "New stage (required)")
	probability := fs.Int("probability", -1, "Updated win probability (defaults from stage)")
	note := fs.String("note", "", "Note about the transition")
	_ = fs.Parse(args)

	if len(fs.Args()) != 1 {
		return fmt.Errorf("usage: move-deal [flags] <deal-id>")
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}

	dealID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid deal ID: %w", err)
	}

	parsedStage, err := models.ParseStage(*stage)
	if err != nil {
		return err
	}

	var probabilityPtr *int
	if *probability >= 0 {
		if *probability > 100 {
			return fmt.Errorf("--probability must be between 0 and 100")
		}
		probabilityPtr = probability
	}

	deal, err := db.UpdateDealStage(database, dealID, parsedStage, probabilityPtr, *note)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deal moved: %s → %s (%d%%)\n", deal.Name, deal.Stage, deal.Probability)
	return nil
}

// LogActivityCommand records an activity against an account.
func LogActivityCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	account := fs.String("account", "", "Account name or ID (required)")
	activityType := fs.String("type", "note", "Activity type (call, email, meeting, demo, note)")
	description := fs.String("description", "", "Free-text description")
	_ = fs.Parse(args)

	if *account == "" {
		return fmt.Errorf("--account is required")
	}

	acct, err := resolveAccount(database, *account)
	if err != nil {
		return err
	}

	activity := &models.Activity{
		AccountID:   acct.ID,
		Type:        *activityType,
		Description: *description,
	}
	if err := db.LogActivity(database, activity); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("✓ Logged %s for %s\n", activity.Type, acct.Name)
	return nil
}
