// Package main provides a CLI for manual database migration management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dfirmansy/userledger/internal/config"
	"github.com/dfirmansy/userledger/internal/database"
	"github.com/dfirmansy/userledger/internal/logging"
)

func main() {
	var (
		action        = flag.String("action", "up", "Migration action: up, status")
		migrationsDir = flag.String("dir", "./migrations", "Migrations directory path")
		help          = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger := logging.NewStructuredLogger(appConfig.Logging.Level, "userledger-migrate", "dev")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(appConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to create database connection pool: %v", err)
	}
	defer pool.Close()

	if err := database.ValidateConnection(ctx, pool); err != nil {
		log.Fatalf("FATAL: Database connection validation failed: %v", err)
	}

	runner := database.NewMigrationRunner(pool, *migrationsDir, logger)

	switch *action {
	case "up":
		if err := runner.RunMigrations(ctx); err != nil {
			log.Fatalf("FATAL: Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

	case "status":
		showMigrationStatus(ctx, runner)

	default:
		log.Fatalf("ERROR: Unknown action: %s", *action)
	}
}

func showHelp() {
	fmt.Println("Migration CLI for userledger")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  go run cmd/migrate/main.go [flags]")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  -action string")
	fmt.Println("        Migration action: up, status (default \"up\")")
	fmt.Println("  -dir string")
	fmt.Println("        Migrations directory path (default \"./migrations\")")
	fmt.Println("  -help")
	fmt.Println("        Show help information")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  go run cmd/migrate/main.go -action=up")
	fmt.Println("  go run cmd/migrate/main.go -action=status")
}

func showMigrationStatus(ctx context.Context, runner *database.MigrationRunner) {
	status, err := runner.Status(ctx)
	if err != nil {
		log.Fatalf("ERROR: Failed to get migration status: %v", err)
	}

	fmt.Println("\nMigration Status:")
	fmt.Println("================")

	if len(status.Executed) == 0 {
		fmt.Println("No migrations have been executed yet.")
	} else {
		fmt.Printf("Executed migrations (%d):\n", len(status.Executed))
		for _, version := range status.Executed {
			fmt.Printf("  + %s\n", version)
		}
	}

	if len(status.Pending) > 0 {
		fmt.Printf("\nPending migrations (%d):\n", len(status.Pending))
		for _, migration := range status.Pending {
			fmt.Printf("  o %s (%s)\n", migration.Version, migration.Filename)
		}
	} else {
		fmt.Println("\nAll migrations are up to date!")
	}

	fmt.Println("================")
}
