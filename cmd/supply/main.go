package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/supply/internal/config"
	"github.com/hpungsan/supply/internal/db"
	"github.com/hpungsan/supply/internal/list"
	"github.com/hpungsan/supply/internal/mcp"
	"github.com/hpungsan/supply/internal/ops"
	"github.com/hpungsan/supply/internal/seed"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"category": true, "item": true, "items": true,
	"shopping": true, "summary": true,
	"export": true, "import": true, "reset": true,
	"ui":   true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _   _ _ __  _ __ | |_   _
  / __| | | | '_ \| '_ \| | | | |
  \__ \ |_| | |_) | |_) | | |_| |
  |___/\__,_| .__/| .__/|_|\__, |
            |_|   |_|      |___/

  Household supplies and shopping list

  Usage: supply <command> [options]
         supply --help

  MCP server mode requires piped input.`)
}

// openState opens the database under baseDir and loads the live document,
// seeding it on first run.
func openState(ctx context.Context, baseDir string, cfg *config.Config) (*sql.DB, *ops.State, error) {
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db.ConfigurePool(database, cfg)

	st, err := ops.Open(ctx, db.NewDocumentStore(database), func(ctx context.Context) *list.Document {
		return seed.Load(ctx, cfg, time.Now())
	})
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load data: %w", err)
	}
	return database, st, nil
}

// warnUnknownDisabled reports disabled tool or type names that match nothing.
func warnUnknownDisabled(cfg *config.Config) {
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled_tools in config: %s\n", strings.Join(unknown, ", "))
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled_types in config: %s\n", strings.Join(unknown, ", "))
	}
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'supply --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".supply")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	database, st, err := openState(context.Background(), baseDir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if isCLIMode() {
		app := newCLIApp(st, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// MCP server mode (default)
	warnUnknownDisabled(cfg)
	if err := mcp.Run(st, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}
