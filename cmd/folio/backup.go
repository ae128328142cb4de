package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"folio/internal/backup"
	"folio/internal/config"
	"folio/internal/db"
	"folio/internal/logging"
	"folio/internal/models"
)

func backupCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a compressed database backup and prune old ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel)

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			m, err := backup.NewManager(cfg.BackupDir, database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				backups, err := m.ListBackups()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tCREATED")
				for _, b := range backups {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, backup.FormatSize(b.Size), b.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			}

			info, removed, err := m.Run(cmd.Context())
			if err != nil {
				return err
			}
			models.LogActivity(database, "backup", info.Name, "created", "Backup written via CLI", "", "")
			fmt.Fprintf(out, "%s (%s), %d old backups removed\n", info.Path, backup.FormatSize(info.Size), removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead of creating one")
	return cmd
}
