package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"folio/internal/sanitize"
)

type sanitizeOutput struct {
	Fields map[string]string `json:"fields"`
	Valid  bool              `json:"isValid"`
	Errors map[string]string `json:"errors"`
}

func sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize",
		Short: "Sanitize and validate a JSON form read from stdin",
		Long: `Reads one JSON object from stdin, cleans each field by its name, validates
the result and prints {"fields", "isValid", "errors"} as JSON. Exits 1 when
the form is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSanitize(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runSanitize(r io.Reader, w io.Writer) error {
	var fields map[string]any
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return fmt.Errorf("read form: %w", err)
	}

	clean, res := sanitize.Clean(fields)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sanitizeOutput{Fields: clean, Valid: res.Valid, Errors: res.Errors}); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if !res.Valid {
		return errInvalidForm
	}
	return nil
}
