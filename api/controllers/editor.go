package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/flamoure/flamoure-backend/api/responses"
	"github.com/flamoure/flamoure-backend/api/validators"
	editorsvc "github.com/flamoure/flamoure-backend/internal/editor"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
)

type createEditorSessionRequest struct {
	Template  string `json:"template" validate:"required"`
	SlotCount int    `json:"slotCount" validate:"omitempty,min=2,max=4"`
}

// EditorCreate opens a composition session for the given template.
func EditorCreate(svc editorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}

		var payload createEditorSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), payload.Template, payload.SlotCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// EditorGet returns the current state of a composition session.
func EditorGet(svc editorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}

		sessionID, err := parseEditorSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// EditorApply dispatches one edit operation onto the session.
func EditorApply(svc editorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}

		sessionID, err := parseEditorSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var op editorsvc.Operation
		if err := validators.DecodeJSONBody(r, &op); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Apply(r.Context(), sessionID, op)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// EditorFinalize reads the finished composition for handoff to the cart.
func EditorFinalize(svc editorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}

		sessionID, err := parseEditorSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Finalize(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EditorDiscard drops the session. Discarding an unknown session is a no-op.
func EditorDiscard(svc editorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "editor service unavailable"))
			return
		}

		sessionID, err := parseEditorSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.Discard(r.Context(), sessionID)
		responses.WriteSuccess(w, map[string]string{"status": "discarded"})
	}
}

func parseEditorSessionID(r *http.Request) (string, error) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "editorSessionID"))
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "editor session id is required")
	}
	return sessionID, nil
}
