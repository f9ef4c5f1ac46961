package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yungbote/cartcheck/internal/app"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
)

const demoStore = "DEMO"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small demo catalog and three demo carts",
	Long: "seed writes the DEMO store with its catalog, prices, inventory and carts\n" +
		"demo-ok, demo-short and demo-bundle. It does nothing when DEMO already exists.",
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app.App) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		existing, err := a.Repos.Store.GetByCode(dbctx.From(ctx), demoStore)
		if err != nil {
			return err
		}
		if existing != nil {
			fmt.Fprintln(out, "demo data already present")
			return nil
		}

		var products, carts int
		err = a.DB.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			products, carts, err = seedDemo(dbctx.WithTx(ctx, tx), a)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seeded store %s with %d products and %d carts\n", demoStore, products, carts)
		return nil
	})
}

// seedDemo writes the demo data through the transaction attached to ctx.
func seedDemo(ctx context.Context, a *app.App) (int, int, error) {
	dbc := dbctx.From(ctx)
	if _, err := a.Repos.Store.Create(dbc, []*commerce.Store{{
		Code:           demoStore,
		Name:           "Demo store",
		CatalogCode:    "DEMO-CAT",
		Currency:       "USD",
		WarehouseCodes: []string{"WH-DEMO"},
		Enabled:        true,
	}}); err != nil {
		return 0, 0, fmt.Errorf("seed store: %w", err)
	}
	if _, err := a.Repos.Shopper.Create(dbc, []*commerce.Shopper{{
		GUID:      "demo-shopper",
		StoreCode: demoStore,
		Email:     "shopper@example.com",
		FirstName: "Demo",
	}}); err != nil {
		return 0, 0, fmt.Errorf("seed shopper: %w", err)
	}

	products := []*commerce.Product{
		{Code: "TSHIRT", Name: "T-shirt"},
		{Code: "MUG", Name: "Mug"},
		{Code: "GIFTCARD", Name: "Gift card", InventoryPolicy: commerce.InventoryAlwaysInStock},
		{Code: "BUNDLE", Name: "Starter bundle", BundleType: commerce.BundleCalculated, MinConstituentSelections: 2, MaxConstituentSelections: 3},
		{Code: "PART-A", Name: "Part A", NotSoldSeparately: true},
		{Code: "PART-B", Name: "Part B", NotSoldSeparately: true},
	}
	if err := a.Repos.Product.CreateProducts(dbc, products); err != nil {
		return 0, 0, fmt.Errorf("seed products: %w", err)
	}
	var skus []*commerce.ProductSku
	codes := make([]string, 0, len(products))
	for _, p := range products {
		skus = append(skus, &commerce.ProductSku{Code: p.Code + "-1", ProductCode: p.Code})
		codes = append(codes, p.Code)
	}
	if err := a.Repos.Product.CreateSkus(dbc, skus); err != nil {
		return 0, 0, fmt.Errorf("seed skus: %w", err)
	}
	if err := a.Repos.Catalog.Add(dbc, "DEMO-CAT", codes...); err != nil {
		return 0, 0, fmt.Errorf("seed catalog: %w", err)
	}
	for _, s := range skus {
		if err := a.SetPrice(ctx, &commerce.Price{StoreCode: demoStore, SkuCode: s.Code, Currency: "USD", ListAmount: 1500}); err != nil {
			return 0, 0, fmt.Errorf("seed price %s: %w", s.Code, err)
		}
	}
	if err := a.Repos.Inventory.Upsert(dbc, []*commerce.InventoryRecord{
		{WarehouseCode: "WH-DEMO", SkuCode: "TSHIRT-1", OnHand: 50},
		{WarehouseCode: "WH-DEMO", SkuCode: "MUG-1", OnHand: 2, Allocated: 1},
		{WarehouseCode: "WH-DEMO", SkuCode: "BUNDLE-1", OnHand: 10},
		{WarehouseCode: "WH-DEMO", SkuCode: "PART-A-1", OnHand: 10},
		{WarehouseCode: "WH-DEMO", SkuCode: "PART-B-1", OnHand: 10},
	}); err != nil {
		return 0, 0, fmt.Errorf("seed inventory: %w", err)
	}

	carts := []*commerce.Cart{
		{
			GUID:                "demo-ok",
			StoreCode:           demoStore,
			ShopperGUID:         "demo-shopper",
			BillingAddressGUID:  "addr-1",
			ShippingAddressGUID: "addr-1",
			Items: []*commerce.CartItem{
				{SkuCode: "TSHIRT-1", Quantity: 1},
				{SkuCode: "GIFTCARD-1", Quantity: 1, Ordering: 1},
			},
		},
		{
			GUID:        "demo-short",
			StoreCode:   demoStore,
			ShopperGUID: "demo-shopper",
			Items:       []*commerce.CartItem{{SkuCode: "MUG-1", Quantity: 3}},
		},
		{
			GUID:                "demo-bundle",
			StoreCode:           demoStore,
			ShopperGUID:         "demo-shopper",
			BillingAddressGUID:  "addr-1",
			ShippingAddressGUID: "addr-1",
			Items: []*commerce.CartItem{{
				SkuCode:  "BUNDLE-1",
				Quantity: 1,
				Children: []*commerce.CartItem{
					{SkuCode: "PART-A-1", Quantity: 1, BundleConstituent: true},
					{SkuCode: "PART-B-1", Quantity: 0, BundleConstituent: true, Ordering: 1},
				},
			}},
		},
	}
	for _, c := range carts {
		if err := a.Repos.Cart.Create(dbc, c); err != nil {
			return 0, 0, fmt.Errorf("seed cart %s: %w", c.GUID, err)
		}
	}
	return len(products), len(carts), nil
}
