// ABOUTME: Account MCP tool handlers
// ABOUTME: Implements add_account, search_accounts, list_accounts, and details tools
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

type AccountHandlers struct {
	db *sql.DB
}

func NewAccountHandlers(database *sql.DB) *AccountHandlers {
	return &AccountHandlers{db: database}
}

type AddAccountInput struct {
	Name          string `json:"name" jsonschema:"Account name (required)"`
	Industry      string `json:"industry,omitempty" jsonschema:"Industry tag"`
	AnnualRevenue int64  `json:"annual_revenue,omitempty" jsonschema:"Annual revenue in cents"`
	Employees     int    `json:"employees,omitempty" jsonschema:"Employee count"`
	Website       string `json:"website,omitempty" jsonschema:"Company website"`
}

type AccountOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry,omitempty"`
	AnnualRevenue int64  `json:"annual_revenue"`
	Employees     int    `json:"employees,omitempty"`
	Website       string `json:"website,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func accountToOutput(account *models.Account) AccountOutput {
	return AccountOutput{
		ID:            account.ID.String(),
		Name:          account.Name,
		Industry:      account.Industry,
		AnnualRevenue: account.AnnualRevenue,
		Employees:     account.Employees,
		Website:       account.Website,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *AccountHandlers) AddAccount(_ context.Context, request *mcp.CallToolRequest, input AddAccountInput) (*mcp.CallToolResult, AccountOutput, error) {
	if input.Name == "" {
		return nil, AccountOutput{}, fmt.Errorf("name is required")
	}
	if input.AnnualRevenue < 0 {
		return nil, AccountOutput{}, fmt.Errorf("annual_revenue cannot be negative")
	}

	account := &models.Account{
		Name:          input.Name,
		Industry:      input.Industry,
		AnnualRevenue: input.AnnualRevenue,
		Employees:     input.Employees,
		Website:       input.Website,
	}

	if err := db.CreateAccount(h.db, account); err != nil {
		return nil, AccountOutput{}, fmt.Errorf("failed to create account: %w", err)
	}

	return nil, accountToOutput(account), nil
}

type SearchAccountsInput struct {
	Query      string `json:"query,omitempty" jsonschema:"Search term for account name"`
	Industry   string `json:"industry,omitempty" jsonschema:"Filter by industry"`
	MinRevenue int64  `json:"min_revenue,omitempty" jsonschema:"Minimum annual revenue in cents"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type SearchAccountsOutput struct {
	Accounts []AccountOutput `json:"accounts"`
	Count    int             `json:"count"`
}

func (h *AccountHandlers) SearchAccounts(_ context.Context, request *mcp.CallToolRequest, input SearchAccountsInput) (*mcp.CallToolResult, SearchAccountsOutput, error) {
	accounts, err := db.FindAccounts(h.db, input.Query, input.Industry, input.MinRevenue, input.Limit)
	if err != nil {
		return nil, SearchAccountsOutput{}, fmt.Errorf("failed to search accounts: %w", err)
	}

	output := SearchAccountsOutput{Accounts: make([]AccountOutput, len(accounts)), Count: len(accounts)}
	for i, account := range accounts {
		output.Accounts[i] = accountToOutput(&account)
	}

	return nil, output, nil
}

type ListAccountsInput struct{}

type AccountSummaryOutput struct {
	AccountOutput
	DealCount      int   `json:"deal_count"`
	TotalDealValue int64 `json:"total_deal_value"`
}

type ListAccountsOutput struct {
	Accounts []AccountSummaryOutput `json:"accounts"`
	Count    int                    `json:"count"`
}

func (h *AccountHandlers) ListAccounts(_ context.Context, request *mcp.CallToolRequest, input ListAccountsInput) (*mcp.CallToolResult, ListAccountsOutput, error) {
	summaries, err := db.ListAccounts(h.db)
	if err != nil {
		return nil, ListAccountsOutput{}, fmt.Errorf("failed to list accounts: %w", err)
	}

	output := ListAccountsOutput{Accounts: make([]AccountSummaryOutput, len(summaries)), Count: len(summaries)}
	for i, s := range summaries {
		output.Accounts[i] = AccountSummaryOutput{
			AccountOutput:  accountToOutput(&s.Account),
			DealCount:      s.DealCount,
			TotalDealValue: s.TotalDealValue,
		}
	}

	return nil, output, nil
}

type GetAccountDetailsInput struct {
	ID string `json:"id" jsonschema:"Account ID (required)"`
}

type GetAccountDetailsOutput struct {
	Account          AccountOutput    `json:"account"`
	Deals            []DealOutput     `json:"deals"`
	RecentActivities []ActivityOutput `json:"recent_activities"`
	TotalDealValue   int64            `json:"total_deal_value"`
	OpenDeals        int              `json:"open_deals"`
}

func (h *AccountHandlers) GetAccountDetails(_ context.Context, request *mcp.CallToolRequest, input GetAccountDetailsInput) (*mcp.CallToolResult, GetAccountDetailsOutput, error) {
	if input.ID == "" {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("id is required")
	}

	accountID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	account, err := db.GetAccount(h.db, accountID)
	if err != nil {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("account not found")
	}

	deals, err := db.FindDeals(h.db, "", &accountID, 100)
	if err != nil {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("failed to get deals: %w", err)
	}

	activities, err := db.RecentActivities(h.db, accountID, 10)
	if err != nil {
		return nil, GetAccountDetailsOutput{}, fmt.Errorf("failed to get activities: %w", err)
	}

	output := GetAccountDetailsOutput{
		Account:          accountToOutput(account),
		Deals:            make([]DealOutput, len(deals)),
		RecentActivities: make([]ActivityOutput, len(activities)),
	}
	for i, deal := range deals {
		output.Deals[i] = dealToOutput(&deal)
		output.TotalDealValue += deal.Amount
		if deal.Open() {
			output.OpenDeals++
		}
	}
	for i, activity := range activities {
		output.RecentActivities[i] = activityToOutput(&activity)
	}

	return nil, output, nil
}
