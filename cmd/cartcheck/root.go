package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cartcheck",
	Short: "Validate shopping carts against the configured rule profile",
	Long: "cartcheck runs the cart, item and SKU validation rules against stored carts.\n" +
		"Connection settings come from the environment (DB_DRIVER, POSTGRES_*, REDIS_ADDR, ...).",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.Version = version
}

// withApp builds the application for one command run and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
