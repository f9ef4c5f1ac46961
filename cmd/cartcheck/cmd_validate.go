package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/services"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

var validateFlags struct {
	operation string
	format    string
	strict    bool
}

var validateCmd = &cobra.Command{
	Use:   "validate <cart-guid>",
	Short: "Validate one stored cart for checkout or its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.operation, "op", services.SweepCheckout, "Pass to run: checkout or contents")
	f.StringVar(&validateFlags.format, "format", formatTable, "Output format: table, markdown or json")
	f.BoolVar(&validateFlags.strict, "strict", false, "Exit non-zero when any diagnostic is reported")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(validateFlags.format); err != nil {
		return err
	}
	return withApp(cmd, func(a *app.App) error {
		ctx := cmd.Context()
		cart, err := a.LoadCart(ctx, args[0])
		if err != nil {
			return err
		}
		var ds []diag.Diagnostic
		switch validateFlags.operation {
		case services.SweepCheckout:
			ds, err = a.Validation.ValidateCheckout(ctx, cart)
		case services.SweepContents:
			ds, err = a.Validation.ValidateCartContents(ctx, cart)
		default:
			return fmt.Errorf("unknown --op %q (want checkout or contents)", validateFlags.operation)
		}
		if err != nil {
			return fmt.Errorf("validate cart %s: %w", cart.GUID, err)
		}
		if err := writeDiagnostics(cmd.OutOrStdout(), ds, validateFlags.format); err != nil {
			return err
		}
		if validateFlags.strict {
			return services.RequireValid(ds)
		}
		return nil
	})
}
