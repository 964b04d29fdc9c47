package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.want {
			t.Fatalf("%s -> %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	if got := MetadataFor(Code("MYSTERY")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", got)
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("expected nil for untyped error")
	}
	if typed := As(nil); typed != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "redis ping")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %s", err.Code())
	}
}

func TestDiagnoseCollectsChainAndDriverDetail(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		ConstraintName: "ux_orders_number",
		TableName:      "orders",
	}
	err := Wrap(CodeInternal, fmt.Errorf("insert order: %w", cause), "create order")

	diag := Diagnose(err)
	if diag.Code != CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %s", diag.Code)
	}
	if len(diag.Chain) < 3 {
		t.Fatalf("expected full unwrap chain, got %v", diag.Chain)
	}
	if diag.DB == nil || diag.DB.Code != "23505" {
		t.Fatalf("expected driver detail, got %+v", diag.DB)
	}
	if diag.DB.Constraint != "ux_orders_number" {
		t.Fatalf("expected constraint name, got %q", diag.DB.Constraint)
	}

	fields := diag.Fields()
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected pg_code flattened, got %v", fields["pg_code"])
	}
}

func TestDiagnoseNilError(t *testing.T) {
	diag := Diagnose(nil)
	if diag.Message != "" || diag.Chain != nil || diag.DB != nil {
		t.Fatalf("expected empty diagnostics, got %+v", diag)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "bad transition").
		WithDetails(map[string]string{"from": "delivered", "to": "pending"})

	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details")
	}
	if details["from"] != "delivered" {
		t.Fatalf("unexpected details %v", details)
	}
}
