// ABOUTME: Tests for deal MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/dealdesk/models"
)

func TestCreateDeal(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	handler := NewDealHandlers(database)

	input := CreateDealInput{
		AccountID: account.ID.String(),
		Name:      "Enterprise License",
		Amount:    50_000_00,
		Stage:     "qualification",
	}

	_, output, err := handler.CreateDeal(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	if output.ID == "" {
		t.Error("ID was not set")
	}
	if output.Stage != "qualification" {
		t.Errorf("Expected stage qualification, got %q", output.Stage)
	}
	if output.Probability != 20 {
		t.Errorf("Expected stage-default probability 20, got %d", output.Probability)
	}
	if output.CloseDate == "" {
		t.Error("CloseDate default was not applied")
	}
}

func TestCreateDealValidation(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	handler := NewDealHandlers(database)
	ctx := context.Background()

	if _, _, err := handler.CreateDeal(ctx, nil, CreateDealInput{AccountID: account.ID.String()}); err == nil {
		t.Error("Expected error for missing name")
	}
	if _, _, err := handler.CreateDeal(ctx, nil, CreateDealInput{Name: "No Account"}); err == nil {
		t.Error("Expected error for missing account_id")
	}

	input := CreateDealInput{AccountID: "00000000-0000-0000-0000-000000000001", Name: "Ghost Deal"}
	if _, _, err := handler.CreateDeal(ctx, nil, input); err == nil {
		t.Error("Expected error for unknown account")
	}

	input = CreateDealInput{AccountID: account.ID.String(), Name: "Bad Stage", Stage: "Prospecting"}
	if _, _, err := handler.CreateDeal(ctx, nil, input); err == nil {
		t.Error("Expected error for unrecognized stage")
	}

	bad := 150
	input = CreateDealInput{AccountID: account.ID.String(), Name: "Bad Prob", Probability: &bad}
	if _, _, err := handler.CreateDeal(ctx, nil, input); err == nil {
		t.Error("Expected error for probability out of range")
	}

	input = CreateDealInput{AccountID: account.ID.String(), Name: "Bad Date", CloseDate: "next tuesday"}
	if _, _, err := handler.CreateDeal(ctx, nil, input); err == nil {
		t.Error("Expected error for unparseable close date")
	}
}

func TestCreateDealExplicitFields(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	handler := NewDealHandlers(database)

	probability := 55
	closeDate := time.Now().AddDate(0, 0, 30).UTC().Truncate(time.Second)
	input := CreateDealInput{
		AccountID:   account.ID.String(),
		Name:        "Custom Terms",
		Amount:      75_000_00,
		Stage:       "proposal",
		Probability: &probability,
		CloseDate:   closeDate.Format(time.RFC3339),
	}

	_, output, err := handler.CreateDeal(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	if output.Probability != 55 {
		t.Errorf("Expected explicit probability 55, got %d", output.Probability)
	}
	if output.CloseDate != closeDate.Format(time.RFC3339) {
		t.Errorf("Expected close date %s, got %s", closeDate.Format(time.RFC3339), output.CloseDate)
	}
}

func TestCreateDealTerminalStage(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	handler := NewDealHandlers(database)

	// Creating directly in a closed stage ignores the supplied probability
	fifty := 50
	input := CreateDealInput{
		AccountID:   account.ID.String(),
		Name:        "Backfilled Win",
		Amount:      30_000_00,
		Stage:       "closed_won",
		Probability: &fifty,
	}

	_, output, err := handler.CreateDeal(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	if output.Probability != 100 {
		t.Errorf("Closed-won probability must be 100, got %d", output.Probability)
	}

	input.Name = "Backfilled Loss"
	input.Stage = "closed_lost"
	_, output, err = handler.CreateDeal(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	if output.Probability != 0 {
		t.Errorf("Closed-lost probability must be 0, got %d", output.Probability)
	}
}

func TestUpdateDealStage(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	deal := createDeal(t, database, account, "Enterprise License", 50_000_00, models.StageProspecting)

	handler := NewDealHandlers(database)

	input := UpdateDealStageInput{ID: deal.ID.String(), Stage: "negotiation", Note: "verbal commit"}
	_, output, err := handler.UpdateDealStage(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("UpdateDealStage failed: %v", err)
	}
	if output.Stage != "negotiation" {
		t.Errorf("Expected stage negotiation, got %q", output.Stage)
	}
	if output.Probability != 60 {
		t.Errorf("Expected stage-default probability 60, got %d", output.Probability)
	}
}

func TestUpdateDealStageTerminal(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	deal := createDeal(t, database, account, "Enterprise License", 50_000_00, models.StageNegotiation)

	handler := NewDealHandlers(database)

	probability := 70
	input := UpdateDealStageInput{ID: deal.ID.String(), Stage: "closed_won", Probability: &probability}
	_, output, err := handler.UpdateDealStage(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("UpdateDealStage failed: %v", err)
	}
	// Terminal stages pin probability regardless of the supplied value
	if output.Probability != 100 {
		t.Errorf("Expected probability forced to 100, got %d", output.Probability)
	}
}

func TestLogActivity(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	handler := NewDealHandlers(database)

	input := LogActivityInput{AccountID: account.ID.String(), Type: "meeting", Description: "Quarterly review"}
	_, output, err := handler.LogActivity(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}
	if len(output.ID) != 26 {
		t.Errorf("Expected 26-char ULID, got %q", output.ID)
	}
	if output.Type != "meeting" {
		t.Errorf("Expected type meeting, got %q", output.Type)
	}
	if output.OccurredAt == "" {
		t.Error("OccurredAt was not defaulted")
	}
}

func TestLogActivityErrors(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewDealHandlers(database)
	ctx := context.Background()

	if _, _, err := handler.LogActivity(ctx, nil, LogActivityInput{Type: "call"}); err == nil {
		t.Error("Expected error for missing account_id")
	}

	input := LogActivityInput{AccountID: "00000000-0000-0000-0000-000000000001", Type: "call"}
	if _, _, err := handler.LogActivity(ctx, nil, input); err == nil {
		t.Error("Expected error for unknown account")
	}
}

func TestGetPipelineSummary(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	account := createAccount(t, database, "Acme Corp", 10_000_000_00)
	createDeal(t, database, account, "Deal A", 100_000_00, models.StageProposal)
	createDeal(t, database, account, "Deal B", 50_000_00, models.StageProposal)
	createDeal(t, database, account, "Deal C", 20_000_00, models.StageClosedWon)

	handler := NewDealHandlers(database)

	_, output, err := handler.GetPipelineSummary(context.Background(), nil, GetPipelineSummaryInput{})
	if err != nil {
		t.Fatalf("GetPipelineSummary failed: %v", err)
	}

	if len(output.Stages) != 1 {
		t.Fatalf("Expected 1 open stage, got %d", len(output.Stages))
	}
	stage := output.Stages[0]
	if stage.Stage != "proposal" {
		t.Errorf("Expected stage proposal, got %q", stage.Stage)
	}
	if stage.DealCount != 2 {
		t.Errorf("Expected 2 deals, got %d", stage.DealCount)
	}
	if stage.TotalAmount != 150_000_00 {
		t.Errorf("Expected total 15000000, got %d", stage.TotalAmount)
	}
	// proposal defaults to probability 40
	if stage.WeightedValue != 6_000_000 {
		t.Errorf("Expected weighted value 6000000, got %f", stage.WeightedValue)
	}

	if output.TotalPipeline != 150_000_00 {
		t.Errorf("Expected open pipeline 15000000, got %d", output.TotalPipeline)
	}
	if output.ClosedWonCount != 1 {
		t.Errorf("Expected 1 closed-won deal in window, got %d", output.ClosedWonCount)
	}
	if output.ClosedLostCount != 0 {
		t.Errorf("Expected 0 closed-lost deals, got %d", output.ClosedLostCount)
	}
}
