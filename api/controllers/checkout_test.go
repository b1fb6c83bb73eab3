package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/flamoure/flamoure-backend/internal/checkout"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

type stubCheckoutService struct {
	result checkoutsvc.Result
	err    error
	inputs []checkoutsvc.SubmitInput
}

func (s *stubCheckoutService) Submit(ctx context.Context, input checkoutsvc.SubmitInput) (checkoutsvc.Result, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return checkoutsvc.Result{}, s.err
	}
	return s.result, nil
}

func TestCheckoutSubmit(t *testing.T) {
	stub := &stubCheckoutService{result: checkoutsvc.Result{
		OrderID:   uuid.New(),
		OrderCode: "FLAM-AB12CD",
		Total:     10000,
		Currency:  "IDR",
	}}

	body := strings.NewReader(`{"customerName":"Ana Putri","customerPhone":"0812345678"}`)
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/checkout", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.inputs) != 1 {
		t.Fatalf("expected one Submit call, got %d", len(stub.inputs))
	}
	if stub.inputs[0].SessionID != "sess-1" {
		t.Fatalf("expected session id from context, got %q", stub.inputs[0].SessionID)
	}

	var payload struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.OrderCode != "FLAM-AB12CD" {
		t.Fatalf("expected order code in response, got %q", payload.Data.OrderCode)
	}
}

func TestCheckoutSubmitRejectsShortName(t *testing.T) {
	stub := &stubCheckoutService{}

	body := strings.NewReader(`{"customerName":"A","customerPhone":"0812345678"}`)
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/checkout", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if len(stub.inputs) != 0 {
		t.Fatalf("service should not run on invalid payload")
	}
}

func TestCheckoutSubmitMapsEmptyCart(t *testing.T) {
	stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}

	body := strings.NewReader(`{"customerName":"Ana Putri","customerPhone":"0812345678"}`)
	rec := httptest.NewRecorder()
	CheckoutSubmit(stub, testLogger()).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/checkout", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if payload.Error.Message != "cart is empty" {
		t.Fatalf("expected validation message passthrough, got %q", payload.Error.Message)
	}
}
