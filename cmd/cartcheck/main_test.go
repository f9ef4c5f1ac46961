package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/services"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

// execute runs rootCmd with a context that outlives subtests; cobra keeps the
// first context it hands each package-level subcommand.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cartcheck.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")
}

func TestSeedValidateAndSweep(t *testing.T) {
	sqliteEnv(t)

	if out, err := execute(t, "seed"); err != nil {
		t.Fatalf("seed: %v\n%s", err, out)
	}
	if out, err := execute(t, "seed"); err != nil || !strings.Contains(out, "already present") {
		t.Fatalf("second seed: want no-op got %q err=%v", out, err)
	}

	tests := []struct {
		cart string
		want []string
	}{
		{"demo-ok", []string{}},
		{"demo-short", []string{"need.billing.address", "need.shipping.address", "item.insufficient.inventory"}},
		{"demo-bundle", []string{"bundle.does.not.contain.min.constituents"}},
	}
	for _, tt := range tests {
		t.Run(tt.cart, func(t *testing.T) {
			out, err := execute(t, "validate", tt.cart, "--format", "json", "--op", "checkout", "--strict=false")
			if err != nil {
				t.Fatalf("validate: %v\n%s", err, out)
			}
			var ds []diag.Diagnostic
			if err := json.Unmarshal([]byte(out), &ds); err != nil {
				t.Fatalf("decode output: %v\n%s", err, out)
			}
			got := diag.IDs(ds)
			if got == nil {
				got = []string{}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("diagnostic ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	out, err := execute(t, "sweep", "--format", "json", "--concurrency", "2")
	if err != nil {
		t.Fatalf("sweep: %v\n%s", err, out)
	}
	var res services.CartSweepOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode sweep: %v\n%s", err, out)
	}
	if res.Carts != 3 || res.Valid != 1 || res.Invalid != 2 || res.Faulted != 0 {
		t.Fatalf("sweep: unexpected %+v", res)
	}

	if out, err := execute(t, "validate", "demo-short", "--format", "table", "--strict"); err == nil {
		t.Fatalf("validate --strict: want error for invalid cart\n%s", out)
	}
	if out, err := execute(t, "doctor", "--format", "table"); err != nil || !strings.Contains(out, "valid") {
		t.Fatalf("doctor: got %q err=%v", out, err)
	}
}

func TestRenderDiagnosticsTable(t *testing.T) {
	ds := []diag.Diagnostic{
		diag.Error("item.insufficient.inventory", "Item 'MUG-1' only has 1 available but 3 were requested.",
			diag.P("item-code", "MUG-1")).WithResolution("line-item", "li-1"),
	}
	var buf bytes.Buffer
	if err := writeDiagnostics(&buf, ds, formatMarkdown); err != nil {
		t.Fatalf("writeDiagnostics: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"item.insufficient.inventory", "line-item:li-1", "| Kind |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown output missing %q:\n%s", want, out)
		}
	}
	if err := checkFormat("yaml"); err == nil {
		t.Fatalf("checkFormat: want error for yaml")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rejected", services.RequireValid([]diag.Diagnostic{diag.Error("cart.empty", "empty")}), 2},
		{"not found", faults.New(faults.CodeNotFound, "load cart", "cart x", nil), 3},
		{"retryable", faults.Wrap(faults.CodeRetryable, "load cart", errors.New("deadlock")), 4},
		{"wrapped unavailable", fmt.Errorf("validate: %w", faults.New(faults.CodeUnavailable, "price lookup", "", nil)), 4},
		{"internal", faults.New(faults.CodeInternal, "op", "", nil), 5},
		{"plain", errors.New("bad flag"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode: want=%d got=%d", tt.want, got)
			}
		})
	}
}
