package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/services"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

var itemFlags struct {
	format  string
	request string
	parent  string
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Check a cart mutation without applying it",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <cart-guid>",
	Short: "Check adding an item (and its bundle constituents) to a cart",
	Long: "The item is read from --request, a YAML or JSON document:\n\n" +
		"  sku_code: BUNDLE-1\n  quantity: 1\n  constituents:\n    - {sku_code: PART-A, quantity: 1}\n",
	Args: cobra.ExactArgs(1),
	RunE: runItemAdd,
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update <cart-guid> <item-guid> <quantity>",
	Short: "Check changing the quantity of a cart item",
	Args:  cobra.ExactArgs(3),
	RunE:  runItemUpdate,
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <cart-guid> <item-guid>",
	Short: "Check removing an item from a cart",
	Args:  cobra.ExactArgs(2),
	RunE:  runItemRemove,
}

func init() {
	itemCmd.PersistentFlags().StringVar(&itemFlags.format, "format", formatTable, "Output format: table, markdown or json")

	f := itemAddCmd.Flags()
	f.StringVar(&itemFlags.request, "request", "", "Path to the item request document (required)")
	f.StringVar(&itemFlags.parent, "parent", "", "GUID of the cart item the new item hangs under")
	_ = itemAddCmd.MarkFlagRequired("request")

	itemCmd.AddCommand(itemAddCmd, itemUpdateCmd, itemRemoveCmd)
}

func readItemRequest(path string) (services.ItemRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return services.ItemRequest{}, fmt.Errorf("read request: %w", err)
	}
	var req services.ItemRequest
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return services.ItemRequest{}, fmt.Errorf("parse request: %w", err)
	}
	if req.SkuCode == "" {
		return services.ItemRequest{}, fmt.Errorf("request has no sku_code")
	}
	return req, nil
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	if err := checkFormat(itemFlags.format); err != nil {
		return err
	}
	req, err := readItemRequest(itemFlags.request)
	if err != nil {
		return err
	}
	return runMutation(cmd, args[0], func(a *app.App, cartGUID string) ([]diag.Diagnostic, error) {
		cart, err := a.LoadCart(cmd.Context(), cartGUID)
		if err != nil {
			return nil, err
		}
		return a.Validation.ValidateAddToCart(cmd.Context(), cart, req, itemFlags.parent)
	})
}

func runItemUpdate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(itemFlags.format); err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("quantity %q: %w", args[2], err)
	}
	return runMutation(cmd, args[0], func(a *app.App, cartGUID string) ([]diag.Diagnostic, error) {
		cart, err := a.LoadCart(cmd.Context(), cartGUID)
		if err != nil {
			return nil, err
		}
		return a.Validation.ValidateUpdateQuantity(cmd.Context(), cart, args[1], qty)
	})
}

func runItemRemove(cmd *cobra.Command, args []string) error {
	if err := checkFormat(itemFlags.format); err != nil {
		return err
	}
	return runMutation(cmd, args[0], func(a *app.App, cartGUID string) ([]diag.Diagnostic, error) {
		cart, err := a.LoadCart(cmd.Context(), cartGUID)
		if err != nil {
			return nil, err
		}
		return a.Validation.ValidateRemoveFromCart(cmd.Context(), cart, args[1])
	})
}

// runMutation prints the diagnostics and fails the command when the mutation
// would be rejected.
func runMutation(cmd *cobra.Command, cartGUID string, check func(a *app.App, cartGUID string) ([]diag.Diagnostic, error)) error {
	return withApp(cmd, func(a *app.App) error {
		ds, err := check(a, cartGUID)
		if err != nil {
			return err
		}
		if err := writeDiagnostics(cmd.OutOrStdout(), ds, itemFlags.format); err != nil {
			return err
		}
		return services.RequireValid(ds)
	})
}
