package validation

import (
	"context"

	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// Aggregate runs its rules in registration order against the same context
// and concatenates their diagnostics. Duplicates are kept.
//
// Rules are added at configuration time only; Validate never mutates the list.
type Aggregate[C any] struct {
	rules []Rule[C]
}

func NewAggregate[C any](rules ...Rule[C]) *Aggregate[C] {
	a := &Aggregate[C]{}
	a.Add(rules...)
	return a
}

func (a *Aggregate[C]) Add(rules ...Rule[C]) {
	for _, r := range rules {
		if r != nil {
			a.rules = append(a.rules, r)
		}
	}
}

func (a *Aggregate[C]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.rules)
}

func (a *Aggregate[C]) Validate(ctx context.Context, c C) ([]diag.Diagnostic, error) {
	if a == nil {
		return nil, nil
	}
	var out []diag.Diagnostic
	for _, r := range a.rules {
		ds, err := r.Validate(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}
