package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatbrain/beatbrain/internal/database/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
	Long: `Commands for managing the beatbrain database schema.

The serve command applies pending migrations automatically at startup;
these commands exist for inspection and manual control.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied state of each migration",
	RunE:  runMigrateStatus,
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "rollback <target-version>",
	Short: "Roll back migrations above the target version",
	Long: `Roll back applied migrations, newest first, until the schema is at the
target version. Use target 0 to roll back everything. Migrations without
a down step are unregistered but their schema changes remain.`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrateRollback,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateRollbackCmd)
}

// openMigrator opens the application database and returns a migrator with
// the full registry loaded. The caller owns the returned close func.
func openMigrator() (*migrations.Migrator, func(), error) {
	_, db, closeFn, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}

	migrator := migrations.NewMigrator(db.DB, slog.Default())
	migrator.RegisterAll(migrations.AllMigrations())

	return migrator, closeFn, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	migrator, closeFn, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	current, err := migrator.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	fmt.Printf("schema is at version %d\n", current)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	migrator, closeFn, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeFn()

	statuses, err := migrator.Statuses(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED\tAPPLIED AT")
	for _, s := range statuses {
		appliedAt := "-"
		if s.AppliedAt != nil {
			appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", s.Version, s.Name, s.Applied, appliedAt)
	}
	return w.Flush()
}

func runMigrateRollback(cmd *cobra.Command, args []string) error {
	target, err := strconv.Atoi(args[0])
	if err != nil || target < 0 {
		return fmt.Errorf("target version must be a non-negative integer, got %q", args[0])
	}

	migrator, closeFn, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if err := migrator.Rollback(ctx, target); err != nil {
		return fmt.Errorf("rolling back migrations: %w", err)
	}

	current, err := migrator.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	fmt.Printf("schema is at version %d\n", current)
	return nil
}
