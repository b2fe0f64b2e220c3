// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for assistant integration
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/harperreed/dealdesk/handlers"
	"github.com/harperreed/dealdesk/scoring"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting dealdesk MCP server...")

	accountHandlers := handlers.NewAccountHandlers(db)
	dealHandlers := handlers.NewDealHandlers(db)
	analyticsHandlers := handlers.NewAnalyticsHandlers(db, scoring.NewEngine(scoring.Config{}))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dealdesk",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_account",
		Description: "Add a new account to the pipeline",
	}, accountHandlers.AddAccount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_accounts",
		Description: "Search accounts by name, industry, or revenue floor",
	}, accountHandlers.SearchAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_accounts",
		Description: "List all accounts with deal counts and totals",
	}, accountHandlers.ListAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_account_details",
		Description: "Get an account with its deals and recent activity",
	}, accountHandlers.GetAccountDetails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal against an account",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal_stage",
		Description: "Move a deal to a new pipeline stage",
	}, dealHandlers.UpdateDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log a call, email, meeting, demo, or note against an account",
	}, dealHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pipeline_summary",
		Description: "Summarize the open pipeline by stage with weighted values",
	}, dealHandlers.GetPipelineSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_deals",
		Description: "Rank open deals by priority score with factor breakdowns",
	}, analyticsHandlers.ScoreDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sales_forecast",
		Description: "Project revenue over a period using weighted pipeline, historical trend, or hybrid",
	}, analyticsHandlers.SalesForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "conversion_rates",
		Description: "Estimate stage-to-stage conversion rates and flag bottlenecks",
	}, analyticsHandlers.ConversionRates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "activity_summary",
		Description: "Summarize logged activity by type over a trailing window",
	}, analyticsHandlers.ActivitySummary)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
