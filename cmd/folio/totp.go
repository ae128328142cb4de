package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"folio/internal/auth"
	"folio/internal/config"
)

func totpSetupCmd() *cobra.Command {
	var qrPath string
	cmd := &cobra.Command{
		Use:   "totp-setup",
		Short: "Generate an authenticator secret for the admin account",
		Long: `Prints a new TOTP secret and writes its QR code as a PNG. Set the secret as
ADMIN_TOTP_SECRET to require a code at inbox sign in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			key, png, err := auth.GenerateTOTPSecret(cfg.AdminUser, cfg.Site.Name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrPath, png, 0600); err != nil {
				return fmt.Errorf("write QR code: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Secret:  %s\n", key.Secret())
			fmt.Fprintf(out, "QR code: %s\n", qrPath)
			fmt.Fprintf(out, "\nAdd to your environment:\n  ADMIN_TOTP_SECRET=%s\n", key.Secret())
			return nil
		},
	}
	cmd.Flags().StringVar(&qrPath, "qr", "totp-qr.png", "where to write the QR code PNG")
	return cmd
}
