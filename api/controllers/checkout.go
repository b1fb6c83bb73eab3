package controllers

import (
	"net/http"

	"github.com/flamoure/flamoure-backend/api/middleware"
	"github.com/flamoure/flamoure-backend/api/responses"
	"github.com/flamoure/flamoure-backend/api/validators"
	checkoutsvc "github.com/flamoure/flamoure-backend/internal/checkout"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
)

// CheckoutSubmit converts the visitor's cart into a pending order and
// returns the WhatsApp handoff link.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var input checkoutsvc.SubmitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.SessionID = middleware.SessionIDFromContext(r.Context())

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
