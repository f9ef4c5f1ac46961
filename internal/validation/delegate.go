package validation

import (
	"context"

	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// Builder derives zero or more inner contexts from an outer one. Returning no
// contexts means the inner level does not apply (for example an unknown SKU).
type Builder[O, I any] func(ctx context.Context, outer O) ([]I, error)

// Single adapts a one-to-one context builder.
func Single[O, I any](build func(ctx context.Context, outer O) (I, error)) Builder[O, I] {
	return func(ctx context.Context, outer O) ([]I, error) {
		in, err := build(ctx, outer)
		if err != nil {
			return nil, err
		}
		return []I{in}, nil
	}
}

// RuleSource picks the inner rule for a built inner context.
type RuleSource[I any] func(inner I) Rule[I]

// Static always uses r.
func Static[I any](r Rule[I]) RuleSource[I] {
	return func(I) Rule[I] { return r }
}

// FromRegistry looks up point in reg with the selector derived from each
// inner context. The lookup happens at evaluation time, so a delegate may be
// registered before the rules it delegates to.
func FromRegistry[I any](reg *Registry, point ExtensionPoint[I], selector func(I) Selector) RuleSource[I] {
	return func(inner I) Rule[I] {
		return AggregateFor(reg, point, selector(inner))
	}
}

// Children expands an inner context into the contexts of its child nodes,
// each built with the given node as parent.
type Children[I any] func(ctx context.Context, node I) ([]I, error)

// Delegate is a rule over O that validates a derived inner level I instead
// of checking a predicate itself. With children configured the inner level is
// walked depth first, parent before children, and every node is validated.
type Delegate[O, I any] struct {
	build    Builder[O, I]
	source   RuleSource[I]
	children Children[I]
}

func NewDelegate[O, I any](build Builder[O, I], source RuleSource[I]) *Delegate[O, I] {
	return &Delegate[O, I]{build: build, source: source}
}

// WithChildren makes the inner level hierarchical.
func (d *Delegate[O, I]) WithChildren(children Children[I]) *Delegate[O, I] {
	d.children = children
	return d
}

func (d *Delegate[O, I]) Validate(ctx context.Context, outer O) ([]diag.Diagnostic, error) {
	inners, err := d.build(ctx, outer)
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	for _, in := range inners {
		ds, err := d.validateNode(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}

func (d *Delegate[O, I]) validateNode(ctx context.Context, node I) ([]diag.Diagnostic, error) {
	var out []diag.Diagnostic
	if rule := d.source(node); rule != nil {
		ds, err := rule.Validate(ctx, node)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	if d.children == nil {
		return out, nil
	}
	kids, err := d.children(ctx, node)
	if err != nil {
		return nil, err
	}
	for _, kid := range kids {
		ds, err := d.validateNode(ctx, kid)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}
