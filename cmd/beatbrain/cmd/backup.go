package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatbrain/beatbrain/internal/service"
	"github.com/beatbrain/beatbrain/pkg/format"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Database backup commands",
	Long: `Commands for backing up and restoring the beatbrain database.

Backups are gzip-compressed snapshots with a checksum sidecar, written to
the configured backup directory (default: a backups/ directory next to
the database file). The serve command can also run these on a schedule.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup now",
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <filename>",
	Short: "Restore the database from a backup",
	Long: `Restore the database from a backup.

A safety backup of the current database is taken first. The backup's
checksum is verified and the restored file must pass an integrity check
before it replaces the live database.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete backups beyond the retention limit",
	RunE:  runBackupCleanup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupCleanupCmd)
}

// openBackupService opens the application database and builds the backup
// service against the configured backup directory.
func openBackupService() (*service.BackupService, func(), error) {
	cfg, db, closeFn, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}

	backups := service.NewBackupService(
		db.DB,
		cfg.Backup.BackupPath(cfg.Database.Path),
		cfg.Backup.Retention,
	)
	return backups, closeFn, nil
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	backups, closeFn, err := openBackupService()
	if err != nil {
		return err
	}
	defer closeFn()

	meta, err := backups.CreateBackup(cmd.Context())
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	fmt.Printf("created %s (%s, checksum %s)\n", meta.Filename, format.Bytes(meta.FileSize), meta.Checksum)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	backups, closeFn, err := openBackupService()
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := backups.ListBackups(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tCREATED\tSIZE\tVERSION")
	for _, b := range list {
		version := b.AppVersion
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			b.Filename, format.RelativeTime(b.CreatedAt), format.Bytes(b.FileSize), version)
	}
	return w.Flush()
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	backups, closeFn, err := openBackupService()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := backups.RestoreBackup(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}

	fmt.Println("database restored")
	return nil
}

func runBackupCleanup(cmd *cobra.Command, args []string) error {
	backups, closeFn, err := openBackupService()
	if err != nil {
		return err
	}
	defer closeFn()

	removed, err := backups.CleanupOldBackups(cmd.Context())
	if err != nil {
		return fmt.Errorf("cleaning up backups: %w", err)
	}

	fmt.Printf("removed %d backups\n", removed)
	return nil
}
