package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// ValidationError rejects a cart mutation and carries every diagnostic the
// pass produced.
type ValidationError struct {
	Diagnostics []diag.Diagnostic
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(diag.IDs(e.Diagnostics), ", "))
}

// RequireValid returns nil for an empty list and a *ValidationError otherwise.
func RequireValid(ds []diag.Diagnostic) error {
	if len(ds) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(ds))
	copy(out, ds)
	return &ValidationError{Diagnostics: out}
}
