package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "redis unavailable")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match cause via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected code %q, got %q", CodeDependency, err.Code())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "order missing").WithDetails(map[string]string{"order_code": "FLAM-A1B2C3"})
	outer := fmt.Errorf("loading order: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatalf("expected typed error in chain")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected code %q, got %q", CodeNotFound, typed.Code())
	}
	if typed.Details() == nil {
		t.Fatalf("expected details to survive wrapping")
	}
}

func TestAsReturnsNilForUntypedError(t *testing.T) {
	t.Parallel()

	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("expected nil for untyped error, got %v", typed)
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected fallback status 500, got %d", meta.HTTPStatus)
	}
}

func TestDumpFlattensChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeInternal, cause, "handler failed")

	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected code %q, got %q", CodeInternal, d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain to include cause, got %v", d.Chain)
	}
}
