// ABOUTME: Entry point for the dealdesk MCP server and CLI
// ABOUTME: Routes to MCP, CRM, web, or TUI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/harperreed/dealdesk/cli"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/tui"
	"github.com/harperreed/dealdesk/web"
)

const version = "0.1.0"

func main() {
	// Optional .env for DEALDESK_DB_PATH and friends
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/dealdesk/dealdesk.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit (use with 'crm')")
	port := flag.Int("port", 8080, "Port for the web server (use with 'web')")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("dealdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		database, err := db.OpenDatabase(getDatabasePath(*dbPath))
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		log.Printf("Database: %s", finalDBPath)

		if *initOnly {
			log.Println("Database initialized successfully")
			os.Exit(0)
		}

		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		switch crmCommand {
		// Account commands
		case "add-account":
			if err := cli.AddAccountCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-accounts":
			if err := cli.ListAccountsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "search-accounts":
			if err := cli.SearchAccountsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Deal commands
		case "add-deal":
			if err := cli.AddDealCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-deals":
			if err := cli.ListDealsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "move-deal":
			if err := cli.MoveDealCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "log-activity":
			if err := cli.LogActivityCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Analytics commands
		case "score":
			if err := cli.ScoreCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "forecast":
			if err := cli.ForecastCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "pipeline":
			if err := cli.PipelineCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "funnel":
			if err := cli.FunnelCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "activity":
			if err := cli.ActivityCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}

	case "web":
		database, err := db.OpenDatabase(getDatabasePath(*dbPath))
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		server := web.NewServer(database)
		if err := server.Start(*port); err != nil {
			log.Fatalf("Web server failed: %v", err)
		}

	case "tui":
		database, err := db.OpenDatabase(getDatabasePath(*dbPath))
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		program := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	if envPath := os.Getenv("DEALDESK_DB_PATH"); envPath != "" {
		return envPath
	}
	return filepath.Join(xdg.DataHome, "dealdesk", "dealdesk.db")
}

func printUsage() {
	fmt.Printf(`dealdesk v%s - Deal scoring and revenue forecasting

USAGE:
  dealdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/dealdesk/dealdesk.db)
  --init                 Initialize database and exit (use with 'crm')
  --port <n>             Web server port (default: 8080, use with 'web')

COMMANDS:
  mcp                    Start MCP server on stdio
  crm                    Pipeline management commands
  web                    Start the read-only JSON API server
  tui                    Interactive terminal scoreboard

CRM COMMANDS:
  dealdesk crm add-account     Add a new account
    --name <name>                 Account name (required)
    --industry <industry>         Industry tag
    --revenue <cents>             Annual revenue in cents
    --employees <n>               Employee count
    --website <url>               Company website

  dealdesk crm list-accounts   List accounts with deal aggregates

  dealdesk crm search-accounts Search accounts
    --query <text>                Search by name
    --industry <industry>         Filter by industry
    --min-revenue <cents>         Minimum annual revenue
    --limit <n>                   Max results (default: 10)

  dealdesk crm add-deal        Add a new deal
    --name <name>                 Deal name (required)
    --account <name|id>           Account (required)
    --amount <cents>              Deal amount in cents
    --stage <stage>               Stage (default: prospecting)
    --close <YYYY-MM-DD>          Expected close date (default: 90 days out)

  dealdesk crm list-deals      List deals
    --stage <stage>               Filter by stage
    --account <name|id>           Filter by account
    --limit <n>                   Max results (default: 50)

  dealdesk crm move-deal [flags] <id>  Move a deal to a new stage
    --stage <stage>               New stage (required)
    --probability <0-100>         Override win probability
    --note <text>                 Note about the transition

  dealdesk crm log-activity    Log an activity against an account
    --account <name|id>           Account (required)
    --type <type>                 call, email, meeting, demo, note (default: note)
    --description <text>          Free-text description

  dealdesk crm score           Rank open deals by priority score
    --account <name|id>           Score one account only
    --limit <n>                   Show only the top N deals
    --verbose                     Show factor breakdown per deal

  dealdesk crm forecast        Project revenue
    --period <period>             next_month, next_quarter, next_year
    --method <method>             weighted_pipeline, historical_trend, hybrid

  dealdesk crm pipeline        Summarize the open pipeline by stage
  dealdesk crm funnel          Stage conversion rates (--window <days>)
  dealdesk crm activity        Activity summary by type (--window <days>)

EXAMPLES:
  # Start MCP server
  dealdesk mcp

  # Add an account and a deal
  dealdesk crm add-account --name "Acme Corp" --revenue 1000000000
  dealdesk crm add-deal --name "Enterprise License" --account "Acme Corp" --amount 5000000

  # Who needs attention today?
  dealdesk crm score --limit 5 --verbose

  # What does next quarter look like?
  dealdesk crm forecast --period next_quarter --method hybrid
`, version)
}
