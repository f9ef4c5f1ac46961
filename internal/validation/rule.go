// Package validation is the rule composition core: typed rules, ordered
// aggregates, the extension registry and delegating rules that bridge
// between context levels.
//
// Rules report business failures as diagnostics. A returned error is an
// infrastructure fault and aborts the whole pass.
package validation

import (
	"context"

	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// Rule checks one context of type C.
type Rule[C any] interface {
	Validate(ctx context.Context, c C) ([]diag.Diagnostic, error)
}

// RuleFunc adapts a function to Rule.
type RuleFunc[C any] func(ctx context.Context, c C) ([]diag.Diagnostic, error)

func (f RuleFunc[C]) Validate(ctx context.Context, c C) ([]diag.Diagnostic, error) {
	return f(ctx, c)
}

// CheckFunc adapts a pure predicate that cannot fail.
type CheckFunc[C any] func(c C) []diag.Diagnostic

func (f CheckFunc[C]) Validate(_ context.Context, c C) ([]diag.Diagnostic, error) {
	return f(c), nil
}

// Named is implemented by rules that expose a stable wiring name.
type Named interface {
	Name() string
}

type namedRule[C any] struct {
	name string
	Rule[C]
}

func (n namedRule[C]) Name() string { return n.name }

// WithName attaches a wiring name to r.
func WithName[C any](name string, r Rule[C]) Rule[C] {
	return namedRule[C]{name: name, Rule: r}
}

// NameOf returns the wiring name of r, or "" when it has none.
func NameOf(r any) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return ""
}
