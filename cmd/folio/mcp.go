package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"folio/internal/backup"
	"folio/internal/config"
	"folio/internal/db"
	"folio/internal/logging"
	mcptools "folio/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve sanitizer and inbox tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs stay on stderr.
			logging.Setup(cfg.LogLevel)

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			backups, err := backup.NewManager(cfg.BackupDir, database)
			if err != nil {
				return err
			}

			s := server.NewMCPServer(
				"folio",
				"1.0.0",
				server.WithToolCapabilities(true),
			)
			mcptools.RegisterTools(s, database, backups)

			if err := server.ServeStdio(s); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}
