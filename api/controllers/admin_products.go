package controllers

import (
	"net/http"
	"strings"

	"github.com/flamoure/flamoure-backend/api/responses"
	"github.com/flamoure/flamoure-backend/api/validators"
	productsvc "github.com/flamoure/flamoure-backend/internal/products"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

// AdminProductList returns a paginated catalog page, inactive listings included.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListInput{
			Filters: productsvc.ListFilters{
				IncludeInactive: true,
				Query:           strings.TrimSpace(r.URL.Query().Get("q")),
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseProductType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
				return
			}
			input.Filters.Type = &parsed
		}

		list, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminProductGet returns one listing regardless of its active flag.
func AdminProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Slug          string  `json:"slug" validate:"required,min=2,max=80"`
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	Type          string  `json:"type" validate:"required"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         int64   `json:"price" validate:"required,min=0"`
	OriginalPrice *int64  `json:"originalPrice,omitempty" validate:"omitempty,min=0"`
	ImageURL      *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	SlotCount     *int    `json:"slotCount,omitempty" validate:"omitempty,min=2,max=4"`
	SortOrder     int     `json:"sortOrder"`
	IsActive      bool    `json:"isActive"`
}

func (p createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	productType, err := enums.ParseProductType(p.Type)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}
	return productsvc.CreateProductInput{
		Slug:          strings.TrimSpace(p.Slug),
		Name:          strings.TrimSpace(p.Name),
		Type:          productType,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		ImageURL:      p.ImageURL,
		SlotCount:     p.SlotCount,
		SortOrder:     p.SortOrder,
		IsActive:      p.IsActive,
	}, nil
}

// AdminProductCreate registers a new listing.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         *int64  `json:"price,omitempty" validate:"omitempty,min=0"`
	OriginalPrice *int64  `json:"originalPrice,omitempty" validate:"omitempty,min=0"`
	ImageURL      *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	SlotCount     *int    `json:"slotCount,omitempty" validate:"omitempty,min=2,max=4"`
	SortOrder     *int    `json:"sortOrder,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// AdminProductUpdate applies a partial edit to a listing.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, productsvc.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Price:         payload.Price,
			OriginalPrice: payload.OriginalPrice,
			ImageURL:      payload.ImageURL,
			SlotCount:     payload.SlotCount,
			SortOrder:     payload.SortOrder,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductDelete removes a listing from the catalog.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
