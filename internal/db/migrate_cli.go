package db

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand against the database
// at dbPath.
func RunMigrateCommand(args []string, dbPath string) error {
	if len(args) < 1 {
		PrintMigrateHelp(os.Stderr)
		return fmt.Errorf("missing migrate action")
	}
	action := args[0]
	if action == "help" {
		PrintMigrateHelp(os.Stdout)
		return nil
	}

	migrations, err := MigrationsFS()
	if err != nil {
		return fmt.Errorf("failed to get migrations filesystem: %w", err)
	}
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	switch action {
	case "up":
		log.Printf("Running migrations...")
		if err := database.MigrateUp(migrations); err != nil {
			return err
		}
		log.Println("All migrations applied successfully")

	case "down":
		log.Printf("Rolling back one migration...")
		if err := database.MigrateDown(migrations); err != nil {
			return err
		}
		log.Println("Migration rolled back successfully")

	case "status":
		return printMigrateStatus(os.Stdout, database, migrations)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: pixc-raster migrate force <version_number>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := database.MigrateForce(migrations, v); err != nil {
			return err
		}
		log.Printf("Forced migration version to %d", v)

	default:
		PrintMigrateHelp(os.Stderr)
		return fmt.Errorf("unknown migrate action: %s", action)
	}
	return nil
}

func printMigrateStatus(w io.Writer, database *DB, migrations fs.FS) error {
	version, dirty, err := database.MigrateVersion(migrations)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	latest, err := GetLatestMigrationVersion(migrations)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Current version: %d\n", version)
	fmt.Fprintf(w, "Latest version:  %d\n", latest)
	fmt.Fprintf(w, "Dirty:           %t\n", dirty)
	switch {
	case dirty:
		fmt.Fprintln(w, "Database is dirty; fix the schema and run 'migrate force <version>'")
	case version < latest:
		fmt.Fprintf(w, "%d migration(s) pending\n", latest-version)
	default:
		fmt.Fprintln(w, "Database is up to date")
	}
	return nil
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: pixc-raster migrate <action> [args]

Actions:
  up              Apply all pending migrations
  down            Roll back the most recent migration
  status          Show current and latest migration versions
  force <version> Set the recorded version without running migrations
  help            Show this help
`)
}
