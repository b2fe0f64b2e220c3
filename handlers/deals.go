// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, update_deal_stage, log_activity, and pipeline tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DealHandlers struct {
	db *sql.DB
}

func NewDealHandlers(database *sql.DB) *DealHandlers {
	return &DealHandlers{db: database}
}

type CreateDealInput struct {
	AccountID   string `json:"account_id" jsonschema:"Account ID (required)"`
	Name        string `json:"name" jsonschema:"Deal name (required)"`
	Amount      int64  `json:"amount,omitempty" jsonschema:"Deal amount in cents"`
	Stage       string `json:"stage,omitempty" jsonschema:"Deal stage: prospecting, qualification, proposal, negotiation, closed_won, closed_lost"`
	Probability *int   `json:"probability,omitempty" jsonschema:"Win probability 0-100 (defaults from stage)"`
	CloseDate   string `json:"close_date,omitempty" jsonschema:"Expected close date in ISO 8601 format (defaults to 90 days out)"`
}

type DealOutput struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Stage       string `json:"stage"`
	Probability int    `json:"probability"`
	CloseDate   string `json:"close_date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func dealToOutput(deal *models.Deal) DealOutput {
	return DealOutput{
		ID:          deal.ID.String(),
		AccountID:   deal.AccountID.String(),
		Name:        deal.Name,
		Amount:      deal.Amount,
		Stage:       string(deal.Stage),
		Probability: deal.Probability,
		CloseDate:   deal.CloseDate.Format(time.RFC3339),
		CreatedAt:   deal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   deal.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *DealHandlers) CreateDeal(_ context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Name == "" {
		return nil, DealOutput{}, fmt.Errorf("name is required")
	}
	if input.AccountID == "" {
		return nil, DealOutput{}, fmt.Errorf("account_id is required")
	}
	if input.Amount < 0 {
		return nil, DealOutput{}, fmt.Errorf("amount cannot be negative")
	}

	accountID, err := uuid.Parse(input.AccountID)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("invalid account_id: %w", err)
	}

	account, err := db.GetAccount(h.db, accountID)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to lookup account: %w", err)
	}
	if account == nil {
		return nil, DealOutput{}, fmt.Errorf("account not found")
	}

	stage := models.StageProspecting
	if input.Stage != "" {
		stage, err = models.ParseStage(input.Stage)
		if err != nil {
			return nil, DealOutput{}, err
		}
	}

	deal := &models.Deal{
		AccountID: accountID,
		Name:      input.Name,
		Amount:    input.Amount,
		Stage:     stage,
	}
	if input.Probability != nil && (*input.Probability < 0 || *input.Probability > 100) {
		return nil, DealOutput{}, fmt.Errorf("probability must be between 0 and 100")
	}
	if input.CloseDate != "" {
		closeDate, err := time.Parse(time.RFC3339, input.CloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid close_date format (use ISO 8601/RFC3339): %w", err)
		}
		deal.CloseDate = closeDate
	}

	if err := db.CreateDeal(h.db, deal, input.Probability); err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	return nil, dealToOutput(deal), nil
}

type UpdateDealStageInput struct {
	ID          string `json:"id" jsonschema:"Deal ID (required)"`
	Stage       string `json:"stage" jsonschema:"New stage (required)"`
	Probability *int   `json:"probability,omitempty" jsonschema:"Updated win probability (defaults from stage)"`
	Note        string `json:"note,omitempty" jsonschema:"Optional note about the transition"`
}

func (h *DealHandlers) UpdateDealStage(_ context.Context, request *mcp.CallToolRequest, input UpdateDealStageInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	if input.Stage == "" {
		return nil, DealOutput{}, fmt.Errorf("stage is required")
	}

	dealID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	stage, err := models.ParseStage(input.Stage)
	if err != nil {
		return nil, DealOutput{}, err
	}

	if input.Probability != nil && (*input.Probability < 0 || *input.Probability > 100) {
		return nil, DealOutput{}, fmt.Errorf("probability must be between 0 and 100")
	}

	deal, err := db.UpdateDealStage(h.db, dealID, stage, input.Probability, input.Note)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}

	return nil, dealToOutput(deal), nil
}

type LogActivityInput struct {
	AccountID   string `json:"account_id" jsonschema:"Account ID (required)"`
	Type        string `json:"type" jsonschema:"Activity type: call, email, meeting, demo, note"`
	Description string `json:"description,omitempty" jsonschema:"Free-text description"`
}

type ActivityOutput struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

func activityToOutput(activity *models.Activity) ActivityOutput {
	return ActivityOutput{
		ID:          activity.ID,
		AccountID:   activity.AccountID.String(),
		Type:        activity.Type,
		Description: activity.Description,
		OccurredAt:  activity.OccurredAt.Format(time.RFC3339),
	}
}

func (h *DealHandlers) LogActivity(_ context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	if input.AccountID == "" {
		return nil, ActivityOutput{}, fmt.Errorf("account_id is required")
	}
	if input.Type == "" {
		return nil, ActivityOutput{}, fmt.Errorf("type is required")
	}

	accountID, err := uuid.Parse(input.AccountID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("invalid account_id: %w", err)
	}

	account, err := db.GetAccount(h.db, accountID)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to lookup account: %w", err)
	}
	if account == nil {
		return nil, ActivityOutput{}, fmt.Errorf("account not found")
	}

	activity := &models.Activity{
		AccountID:   accountID,
		Type:        input.Type,
		Description: input.Description,
	}

	if err := db.LogActivity(h.db, activity); err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, activityToOutput(activity), nil
}

type GetPipelineSummaryInput struct{}

type StageSummaryOutput struct {
	Stage          string  `json:"stage"`
	DealCount      int     `json:"deal_count"`
	TotalAmount    int64   `json:"total_amount"`
	AvgProbability float64 `json:"avg_probability"`
	WeightedValue  float64 `json:"weighted_value"`
}

type GetPipelineSummaryOutput struct {
	Stages           []StageSummaryOutput `json:"stages"`
	TotalPipeline    int64                `json:"total_pipeline"`
	WeightedPipeline float64              `json:"weighted_pipeline"`
	ClosedWonCount   int                  `json:"closed_won_count"`
	ClosedLostCount  int                  `json:"closed_lost_count"`
}

// GetPipelineSummary reports the open pipeline by stage plus close outcomes
// over the trailing 90 days.
func (h *DealHandlers) GetPipelineSummary(_ context.Context, request *mcp.CallToolRequest, input GetPipelineSummaryInput) (*mcp.CallToolResult, GetPipelineSummaryOutput, error) {
	summaries, err := db.StageSummaries(h.db)
	if err != nil {
		return nil, GetPipelineSummaryOutput{}, fmt.Errorf("failed to summarize pipeline: %w", err)
	}

	output := GetPipelineSummaryOutput{Stages: make([]StageSummaryOutput, len(summaries))}
	for i, s := range summaries {
		weighted := float64(s.TotalAmount) * s.AvgProbability / 100
		output.Stages[i] = StageSummaryOutput{
			Stage:          string(s.Stage),
			DealCount:      s.DealCount,
			TotalAmount:    s.TotalAmount,
			AvgProbability: s.AvgProbability,
			WeightedValue:  weighted,
		}
		output.TotalPipeline += s.TotalAmount
		output.WeightedPipeline += weighted
	}

	counts, err := db.StageCountsSince(h.db, time.Now().AddDate(0, 0, -90))
	if err != nil {
		return nil, GetPipelineSummaryOutput{}, fmt.Errorf("failed to count closed deals: %w", err)
	}
	output.ClosedWonCount = counts[models.StageClosedWon]
	output.ClosedLostCount = counts[models.StageClosedLost]

	return nil, output, nil
}
