// Package checkout runs the validation pass that gates order placement.
package checkout

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/validation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const operation = "checkout"

type Orchestrator struct {
	reg      *validation.Registry
	builders *cartvalidation.Builders
	log      *logger.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

func NewOrchestrator(reg *validation.Registry, builders *cartvalidation.Builders, log *logger.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		reg:      reg,
		builders: builders,
		log:      log.With("service", "CheckoutOrchestrator"),
		metrics:  metrics,
		tracer:   observability.Tracer(),
	}
}

// Validate runs the cart rules for the store followed by the item rules for
// every item of the tree, in traversal order. Diagnostics never stop the pass;
// the first fault aborts it and no diagnostics are returned.
func (o *Orchestrator) Validate(ctx context.Context, cart *commerce.Cart, shopper *commerce.Shopper, store *commerce.Store) ([]diag.Diagnostic, error) {
	if cart == nil || store == nil {
		return nil, faults.New(faults.CodeInvalidState, "checkout validate", "cart and store are required", nil)
	}
	ctx, span := o.tracer.Start(ctx, "checkout.Validate", trace.WithAttributes(
		attribute.String("cart.guid", cart.GUID),
		attribute.String("store.code", store.Code),
		attribute.Int("cart.items", len(cart.Items)),
	))
	defer span.End()
	start := time.Now()

	ds, err := o.validate(ctx, cart, shopper, store)

	o.metrics.ObservePass(operation, store.Code, ds, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Warn("checkout validation aborted", "cart_guid", cart.GUID, "store", store.Code, "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("diagnostics", len(ds)))
	o.log.Debug("checkout validation finished",
		"cart_guid", cart.GUID,
		"store", store.Code,
		"diagnostics", diag.IDs(ds),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

func (o *Orchestrator) validate(ctx context.Context, cart *commerce.Cart, shopper *commerce.Shopper, store *commerce.Store) ([]diag.Diagnostic, error) {
	sel := validation.ByStoreCode(store.Code)
	cc := o.builders.Cart.BuildFor(cart, shopper, store)

	cartRules := validation.AggregateFor(o.reg, cartvalidation.CartAtCheckout, sel)
	itemRules := validation.AggregateFor(o.reg, cartvalidation.ItemAtCheckout, sel)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("rules.cart", cartRules.Len()),
		attribute.Int("rules.item", itemRules.Len()),
	)

	out, err := cartRules.Validate(ctx, cc)
	if err != nil {
		return nil, err
	}

	for _, root := range cc.Items {
		rc, err := o.builders.RootContext(ctx, cc, root, cartvalidation.OperationNoop)
		if err != nil {
			return nil, err
		}
		for ic, err := range o.builders.AllContexts(ctx, rc) {
			if err != nil {
				return nil, err
			}
			ds, err := itemRules.Validate(ctx, ic)
			if err != nil {
				return nil, err
			}
			out = append(out, ds...)
		}
	}
	return out, nil
}
