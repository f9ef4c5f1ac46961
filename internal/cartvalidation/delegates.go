package cartvalidation

import (
	"context"

	"github.com/yungbote/cartcheck/internal/validation"
)

func byItemStore(c *ItemContext) validation.Selector { return validation.ByStoreCode(c.StoreCode()) }
func bySkuStore(c *SkuContext) validation.Selector   { return validation.ByStoreCode(c.StoreCode()) }

// SkuDelegate validates the SKU of an item against the rules at point. Items
// whose SKU is unknown produce no SKU context.
func SkuDelegate(reg *validation.Registry, b *Builders, point validation.ExtensionPoint[*SkuContext]) validation.Rule[*ItemContext] {
	build := func(ctx context.Context, item *ItemContext) ([]*SkuContext, error) {
		if item == nil || item.Sku == nil {
			return nil, nil
		}
		sc, err := b.Sku.Build(ctx, item)
		if err != nil {
			return nil, err
		}
		return []*SkuContext{sc}, nil
	}
	return validation.NewDelegate[*ItemContext, *SkuContext](build, validation.FromRegistry(reg, point, bySkuStore))
}

// ItemTreeDelegate validates every item of the cart tree against point,
// each root followed by its descendants.
func ItemTreeDelegate(reg *validation.Registry, b *Builders, point validation.ExtensionPoint[*ItemContext], op Operation) validation.Rule[*CartContext] {
	build := func(ctx context.Context, cc *CartContext) ([]*ItemContext, error) {
		out := make([]*ItemContext, 0, len(cc.Items))
		for _, item := range cc.Items {
			ic, err := b.RootContext(ctx, cc, item, op)
			if err != nil {
				return nil, err
			}
			out = append(out, ic)
		}
		return out, nil
	}
	return validation.NewDelegate[*CartContext, *ItemContext](build, validation.FromRegistry(reg, point, byItemStore)).
		WithChildren(b.ChildContexts)
}

// ConstituentDelegate validates every descendant of an item against point,
// leaving the item itself to the caller. Registering it under the point it
// delegates to would visit grandchildren twice.
func ConstituentDelegate(reg *validation.Registry, b *Builders, point validation.ExtensionPoint[*ItemContext]) validation.Rule[*ItemContext] {
	return validation.NewDelegate(validation.Builder[*ItemContext, *ItemContext](b.ChildContexts), validation.FromRegistry(reg, point, byItemStore)).
		WithChildren(b.ChildContexts)
}
