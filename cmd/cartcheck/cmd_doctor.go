package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

var doctorFlags struct {
	format string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run the system information checks against the database and cache",
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFlags.format, "format", formatTable, "Output format: table, markdown or json")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(doctorFlags.format); err != nil {
		return err
	}
	return withApp(cmd, func(a *app.App) error {
		sys := a.SystemContext(cmd.Context())
		ds, err := a.Validation.SystemInformation(cmd.Context(), sys)
		if err != nil {
			return err
		}
		if err := writeDiagnostics(cmd.OutOrStdout(), ds, doctorFlags.format); err != nil {
			return err
		}
		if diag.HasErrors(ds) {
			return fmt.Errorf("system checks failed: %v", diag.IDs(ds))
		}
		return nil
	})
}
