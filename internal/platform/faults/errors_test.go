package faults

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, want: CodeNotFound},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: CodeRetryable},
		{name: "pg deadlock", err: &pgconn.PgError{Code: "40P01"}, want: CodeRetryable},
		{name: "pg too many connections", err: &pgconn.PgError{Code: "53300"}, want: CodeUnavailable},
		{name: "refused", err: errors.New("dial tcp: connection refused"), want: CodeUnavailable},
		{name: "other", err: errors.New("boom"), want: CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("price.lookup", tc.err)
			if CodeOf(got) != tc.want {
				t.Fatalf("code: want=%q got=%q (%v)", tc.want, CodeOf(got), got)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("mapped error should wrap the cause")
			}
		})
	}
}

func TestMapErrorKeepsExistingFault(t *testing.T) {
	orig := New(CodeInvalidState, "items.walk", "cycle", nil)
	if got := MapError("other", orig); got != orig {
		t.Fatalf("existing fault should be returned unchanged, got %v", got)
	}
	if MapError("x", nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Wrap(CodeUnavailable, "op", errors.New("x"))) {
		t.Fatalf("unavailable should be retryable")
	}
	if Retryable(Wrap(CodeInternal, "op", errors.New("x"))) {
		t.Fatalf("internal should not be retryable")
	}
	if got := New(CodeInternal, "op", "msg", nil).Error(); got != "op: msg (internal)" {
		t.Fatalf("Error(): got %q", got)
	}
}
