// ABOUTME: Demo-data seeder for local development and demos.
// ABOUTME: Populates accounts, deals, and activities with a plausible pipeline.

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

type seedAccount struct {
	name     string
	industry string
	revenue  int64
}

var seedAccounts = []seedAccount{
	{"Acme Manufacturing", "manufacturing", 12_000_000_000},
	{"Globex Logistics", "logistics", 6_500_000_000},
	{"Initech Software", "software", 900_000_000},
	{"Umbrella Health", "healthcare", 3_200_000_000},
	{"Stark Industries", "aerospace", 48_000_000_000},
	{"Wayne Enterprises", "conglomerate", 75_000_000_000},
	{"Hooli Cloud", "software", 22_000_000_000},
	{"Pied Piper", "software", 120_000_000},
}

var dealNames = []string{
	"Enterprise License", "Platform Migration", "Annual Renewal",
	"Pilot Expansion", "Support Contract", "Data Integration",
	"Multi-Year Agreement", "Team Rollout", "API Access",
	"Professional Services", "Training Package", "Site License",
}

var activityTypes = []string{
	models.ActivityCall, models.ActivityEmail, models.ActivityMeeting,
	models.ActivityDemo, models.ActivityNote,
}

func main() {
	dbPath := flag.String("db", "", "Path to database file (required)")
	count := flag.Int("count", 20, "Number of deals to create")
	wipe := flag.Bool("wipe", false, "Delete existing data before seeding")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible output")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("Error: -db flag is required")
	}

	if err := run(*dbPath, *count, *wipe, *seed); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(dbPath string, count int, wipe bool, seed int64) error {
	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	if wipe {
		for _, table := range []string{"activities", "deals", "accounts"} {
			if _, err := database.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to wipe %s: %w", table, err)
			}
		}
		log.Println("Existing data wiped")
	} else {
		var existing int
		if err := database.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&existing); err != nil {
			return fmt.Errorf("failed to check existing data: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("database already has %d account(s); re-run with -wipe to replace", existing)
		}
	}

	rng := rand.New(rand.NewSource(seed))

	accounts := make([]*models.Account, 0, len(seedAccounts))
	for _, sa := range seedAccounts {
		account := &models.Account{
			Name:          sa.name,
			Industry:      sa.industry,
			AnnualRevenue: sa.revenue,
			Employees:     50 + rng.Intn(5000),
		}
		if err := db.CreateAccount(database, account); err != nil {
			return fmt.Errorf("failed to create account %s: %w", sa.name, err)
		}
		accounts = append(accounts, account)
	}
	log.Printf("Created %d accounts", len(accounts))

	now := time.Now()
	for i := 0; i < count; i++ {
		account := accounts[rng.Intn(len(accounts))]
		stage := models.Stages[rng.Intn(len(models.Stages))]

		deal := &models.Deal{
			AccountID: account.ID,
			Name:      fmt.Sprintf("%s - %s", account.Name, dealNames[rng.Intn(len(dealNames))]),
			Amount:    int64(5_000+rng.Intn(495_000)) * 100,
			Stage:     stage,
			CloseDate: now.AddDate(0, 0, rng.Intn(180)-30),
		}
		if stage.Terminal() {
			// Closed deals land inside the trailing forecast window
			deal.CloseDate = now.AddDate(0, 0, -rng.Intn(170))
		}
		if err := db.CreateDeal(database, deal, nil); err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}
	}
	log.Printf("Created %d deals", count)

	activityCount := 0
	for _, account := range accounts {
		for i := 0; i < rng.Intn(8); i++ {
			activity := &models.Activity{
				AccountID:  account.ID,
				Type:       activityTypes[rng.Intn(len(activityTypes))],
				OccurredAt: now.AddDate(0, 0, -rng.Intn(45)),
			}
			if err := db.LogActivity(database, activity); err != nil {
				return fmt.Errorf("failed to log activity: %w", err)
			}
			activityCount++
		}
	}
	log.Printf("Logged %d activities", activityCount)

	log.Println("Seeding completed successfully")
	return nil
}
