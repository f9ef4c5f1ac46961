package cartvalidation

import (
	"context"
	"errors"
	"iter"
	"sort"

	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/faults"
)

// ErrCyclicItemTree is returned when an item is reachable from itself.
var ErrCyclicItemTree = errors.New("cart item tree contains a cycle")

// ChildOrder decides the order children of one item are visited in.
// Implementations return a new slice.
type ChildOrder func(children []*commerce.CartItem) []*commerce.CartItem

// ByOrdering visits children by their Ordering field, keeping stored order on ties.
func ByOrdering(children []*commerce.CartItem) []*commerce.CartItem {
	out := AsStored(children)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out
}

// AsStored visits children in the order they are held by the parent.
func AsStored(children []*commerce.CartItem) []*commerce.CartItem {
	out := make([]*commerce.CartItem, len(children))
	copy(out, children)
	return out
}

// ChildOrderByName maps the CHILD_ORDER setting to a ChildOrder.
func ChildOrderByName(name string) (ChildOrder, bool) {
	switch name {
	case "", "ordering":
		return ByOrdering, true
	case "stored":
		return AsStored, true
	default:
		return nil, false
	}
}

// Builders bundles the three context builders with the traversal of item trees.
type Builders struct {
	Cart       *CartContextBuilder
	Item       *ItemContextBuilder
	Sku        *SkuContextBuilder
	Parents    ParentResolver
	ChildOrder ChildOrder
}

// Deps lists the collaborators NewBuilders wires in.
type Deps struct {
	Stores     StoreLookup
	Shoppers   ShopperLookup
	Skus       SkuLookup
	Prices     PriceLookup
	Catalog    CatalogLookup
	Inventory  InventoryLookup
	Parents    ParentResolver
	Clock      Clock
	ChildOrder ChildOrder
}

func NewBuilders(d Deps) *Builders {
	parents := d.Parents
	if parents == nil {
		parents = CartParents
	}
	order := d.ChildOrder
	if order == nil {
		order = ByOrdering
	}
	return &Builders{
		Cart:       &CartContextBuilder{Stores: d.Stores, Shoppers: d.Shoppers},
		Item:       &ItemContextBuilder{Skus: d.Skus, Clock: d.Clock},
		Sku:        &SkuContextBuilder{Prices: d.Prices, Catalog: d.Catalog, Inventory: d.Inventory},
		Parents:    parents,
		ChildOrder: order,
	}
}

// RootContext builds the context of a top-level item of cc.
func (b *Builders) RootContext(ctx context.Context, cc *CartContext, item *commerce.CartItem, op Operation) (*ItemContext, error) {
	return b.Item.Build(ctx, ItemInput{
		Cart:      cc.Cart,
		Item:      item,
		Parent:    b.Parents.ParentOf(cc.Cart, item),
		Shopper:   cc.Shopper,
		Store:     cc.Store,
		Operation: op,
	})
}

// ChildContexts builds one context per child of parent, with parent as the
// enclosing context.
func (b *Builders) ChildContexts(ctx context.Context, parent *ItemContext) ([]*ItemContext, error) {
	if parent == nil || parent.Item == nil || len(parent.Item.Children) == 0 {
		return nil, nil
	}
	order := b.ChildOrder
	if order == nil {
		order = ByOrdering
	}
	kids := order(parent.Item.Children)
	out := make([]*ItemContext, 0, len(kids))
	for _, child := range kids {
		if onChain(parent, child) {
			return nil, faults.New(faults.CodeInvalidState, "child contexts", "item "+child.GUID, ErrCyclicItemTree)
		}
		c, err := b.Item.Build(ctx, ItemInput{
			Cart:          parent.Cart,
			Item:          child,
			Parent:        parent.Item,
			Shopper:       parent.Shopper,
			Store:         parent.Store,
			Operation:     parent.Operation,
			ParentContext: parent,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AllContexts walks the tree under root depth first, yielding each node
// before its children. Child contexts are built as the walk reaches them.
// A fault is yielded once and ends the walk. The sequence can be ranged over
// again and rebuilds every context.
func (b *Builders) AllContexts(ctx context.Context, root *ItemContext) iter.Seq2[*ItemContext, error] {
	return func(yield func(*ItemContext, error) bool) {
		if root == nil {
			return
		}
		b.walk(ctx, root, yield)
	}
}

func (b *Builders) walk(ctx context.Context, node *ItemContext, yield func(*ItemContext, error) bool) bool {
	if !yield(node, nil) {
		return false
	}
	if err := ctx.Err(); err != nil {
		yield(nil, err)
		return false
	}
	kids, err := b.ChildContexts(ctx, node)
	if err != nil {
		yield(nil, err)
		return false
	}
	for _, kid := range kids {
		if !b.walk(ctx, kid, yield) {
			return false
		}
	}
	return true
}

func onChain(c *ItemContext, item *commerce.CartItem) bool {
	for ; c != nil; c = c.parent {
		if c.Item == item || (item.GUID != "" && c.Item != nil && c.Item.GUID == item.GUID) {
			return true
		}
	}
	return false
}
