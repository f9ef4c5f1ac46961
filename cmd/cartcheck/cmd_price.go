package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
)

var priceFlags struct {
	currency string
	sale     int64
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Manage store prices",
}

var priceSetCmd = &cobra.Command{
	Use:   "set <store-code> <sku-code> <list-amount>",
	Short: "Write a store price in minor units and invalidate cached copies",
	Args:  cobra.ExactArgs(3),
	RunE:  runPriceSet,
}

func init() {
	f := priceSetCmd.Flags()
	f.StringVar(&priceFlags.currency, "currency", "USD", "ISO currency code")
	f.Int64Var(&priceFlags.sale, "sale", 0, "Sale amount in minor units (0 for none)")
	priceCmd.AddCommand(priceSetCmd)
}

func runPriceSet(cmd *cobra.Command, args []string) error {
	list, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil || list < 0 {
		return fmt.Errorf("list amount %q must be a non-negative integer", args[2])
	}
	p := &commerce.Price{
		StoreCode:  args[0],
		SkuCode:    args[1],
		Currency:   priceFlags.currency,
		ListAmount: list,
	}
	if priceFlags.sale > 0 {
		sale := priceFlags.sale
		p.SaleAmount = &sale
	}
	return withApp(cmd, func(a *app.App) error {
		if err := a.SetPrice(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "price %s/%s set to %d %s\n", p.StoreCode, p.SkuCode, p.Lowest(), p.Currency)
		return nil
	})
}
