package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/checkout"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/validation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// ItemRequest describes an item a shopper asks to add, with the bundle
// constituents they picked.
type ItemRequest struct {
	SkuCode      string            `json:"sku_code" yaml:"sku_code"`
	Quantity     int               `json:"quantity" yaml:"quantity"`
	Fields       map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Constituents []ItemRequest     `json:"constituents,omitempty" yaml:"constituents,omitempty"`
}

type CartValidationService interface {
	ValidateAddToCart(ctx context.Context, cart *commerce.Cart, req ItemRequest, parentGUID string) ([]diag.Diagnostic, error)
	ValidateUpdateQuantity(ctx context.Context, cart *commerce.Cart, itemGUID string, quantity int) ([]diag.Diagnostic, error)
	ValidateRemoveFromCart(ctx context.Context, cart *commerce.Cart, itemGUID string) ([]diag.Diagnostic, error)
	ValidateCartContents(ctx context.Context, cart *commerce.Cart) ([]diag.Diagnostic, error)
	ValidateCheckout(ctx context.Context, cart *commerce.Cart) ([]diag.Diagnostic, error)
	SystemInformation(ctx context.Context, sys *cartvalidation.SystemContext) ([]diag.Diagnostic, error)
}

type cartValidationService struct {
	log      *logger.Logger
	reg      *validation.Registry
	builders *cartvalidation.Builders
	checkout *checkout.Orchestrator
	metrics  *observability.Metrics
}

func NewCartValidationService(log *logger.Logger, reg *validation.Registry, builders *cartvalidation.Builders, orch *checkout.Orchestrator, metrics *observability.Metrics) CartValidationService {
	return &cartValidationService{
		log:      log.With("service", "CartValidationService"),
		reg:      reg,
		builders: builders,
		checkout: orch,
		metrics:  metrics,
	}
}

func (s *cartValidationService) ValidateAddToCart(ctx context.Context, cart *commerce.Cart, req ItemRequest, parentGUID string) ([]diag.Diagnostic, error) {
	return s.observe(ctx, "add", cart, func(cc *cartvalidation.CartContext) ([]diag.Diagnostic, error) {
		var parent *commerce.CartItem
		if parentGUID != "" {
			if parent = cart.ItemByGUID(parentGUID); parent == nil {
				return nil, faults.New(faults.CodeNotFound, "validate add to cart", "parent item "+parentGUID, nil)
			}
		}
		item := transientItem(cart, req, parentGUID, false)
		ic, err := s.builders.Item.Build(ctx, cartvalidation.ItemInput{
			Cart:      cart,
			Item:      item,
			Parent:    parent,
			Shopper:   cc.Shopper,
			Store:     cc.Store,
			Operation: cartvalidation.OperationAdd,
		})
		if err != nil {
			return nil, err
		}
		sel := validation.ByStoreCode(cc.StoreCode())
		tree := validation.NewAggregate(
			validation.Rule[*cartvalidation.ItemContext](validation.AggregateFor(s.reg, cartvalidation.ItemAddToCart, sel)),
			cartvalidation.ConstituentDelegate(s.reg, s.builders, cartvalidation.ItemAddToCart),
		)
		return tree.Validate(ctx, ic)
	})
}

func (s *cartValidationService) ValidateUpdateQuantity(ctx context.Context, cart *commerce.Cart, itemGUID string, quantity int) ([]diag.Diagnostic, error) {
	return s.observe(ctx, "update", cart, func(cc *cartvalidation.CartContext) ([]diag.Diagnostic, error) {
		item := cart.ItemByGUID(itemGUID)
		if item == nil {
			return nil, faults.New(faults.CodeNotFound, "validate update quantity", "item "+itemGUID, nil)
		}
		updated := *item
		updated.Quantity = quantity
		return s.validateItem(ctx, cc, &updated, s.builders.Parents.ParentOf(cart, item), cartvalidation.OperationUpdate, cartvalidation.ItemUpdateQuantity)
	})
}

func (s *cartValidationService) ValidateRemoveFromCart(ctx context.Context, cart *commerce.Cart, itemGUID string) ([]diag.Diagnostic, error) {
	return s.observe(ctx, "remove", cart, func(cc *cartvalidation.CartContext) ([]diag.Diagnostic, error) {
		item := cart.ItemByGUID(itemGUID)
		if item == nil {
			return nil, faults.New(faults.CodeNotFound, "validate remove from cart", "item "+itemGUID, nil)
		}
		return s.validateItem(ctx, cc, item, s.builders.Parents.ParentOf(cart, item), cartvalidation.OperationNoop, cartvalidation.ItemRemoveFromCart)
	})
}

func (s *cartValidationService) ValidateCartContents(ctx context.Context, cart *commerce.Cart) ([]diag.Diagnostic, error) {
	return s.observe(ctx, "contents", cart, func(cc *cartvalidation.CartContext) ([]diag.Diagnostic, error) {
		return validation.AggregateFor(s.reg, cartvalidation.CartContents, validation.ByStoreCode(cc.StoreCode())).Validate(ctx, cc)
	})
}

// ValidateCheckout resolves the cart's store and shopper and runs the checkout pass.
func (s *cartValidationService) ValidateCheckout(ctx context.Context, cart *commerce.Cart) ([]diag.Diagnostic, error) {
	cc, err := s.builders.Cart.Build(ctx, cart)
	if err != nil {
		return nil, err
	}
	return s.checkout.Validate(ctx, cart, cc.Shopper, cc.Store)
}

func (s *cartValidationService) SystemInformation(ctx context.Context, sys *cartvalidation.SystemContext) ([]diag.Diagnostic, error) {
	start := time.Now()
	ds, err := validation.AggregateFor(s.reg, cartvalidation.SystemInformation, validation.Any()).Validate(ctx, sys)
	s.metrics.ObservePass("system", "", ds, err, time.Since(start))
	return ds, err
}

func (s *cartValidationService) validateItem(ctx context.Context, cc *cartvalidation.CartContext, item, parent *commerce.CartItem, op cartvalidation.Operation, point validation.ExtensionPoint[*cartvalidation.ItemContext]) ([]diag.Diagnostic, error) {
	ic, err := s.builders.Item.Build(ctx, cartvalidation.ItemInput{
		Cart:      cc.Cart,
		Item:      item,
		Parent:    parent,
		Shopper:   cc.Shopper,
		Store:     cc.Store,
		Operation: op,
	})
	if err != nil {
		return nil, err
	}
	return validation.AggregateFor(s.reg, point, validation.ByStoreCode(cc.StoreCode())).Validate(ctx, ic)
}

// observe builds the cart context, runs fn and records the pass.
func (s *cartValidationService) observe(ctx context.Context, op string, cart *commerce.Cart, fn func(*cartvalidation.CartContext) ([]diag.Diagnostic, error)) ([]diag.Diagnostic, error) {
	start := time.Now()
	var ds []diag.Diagnostic
	cc, err := s.builders.Cart.Build(ctx, cart)
	if err == nil {
		ds, err = fn(cc)
	}
	store := ""
	if cart != nil {
		store = cart.StoreCode
	}
	s.metrics.ObservePass(op, store, ds, err, time.Since(start))
	if err != nil {
		s.log.Warn("cart validation aborted", "operation", op, "store", store, "error", err)
		return nil, err
	}
	if len(ds) > 0 {
		s.log.Debug("cart validation produced diagnostics", "operation", op, "store", store, "diagnostics", diag.IDs(ds))
	}
	return ds, nil
}

func transientItem(cart *commerce.Cart, req ItemRequest, parentGUID string, constituent bool) *commerce.CartItem {
	item := &commerce.CartItem{
		ID:                uuid.New(),
		GUID:              uuid.NewString(),
		ParentGUID:        parentGUID,
		SkuCode:           req.SkuCode,
		Quantity:          req.Quantity,
		BundleConstituent: constituent,
	}
	if cart != nil {
		item.CartGUID = cart.GUID
	}
	if len(req.Fields) > 0 {
		item.Fields = datatypes.JSONMap{}
		for k, v := range req.Fields {
			item.Fields[k] = v
		}
	}
	for i, sub := range req.Constituents {
		child := transientItem(cart, sub, item.GUID, true)
		child.Ordering = i
		item.Children = append(item.Children, child)
	}
	return item
}
