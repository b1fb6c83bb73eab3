package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

// ProductDTO is the storefront and admin read shape.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Type          enums.ProductType `json:"type"`
	Description   *string           `json:"description,omitempty"`
	Price         int64             `json:"price"`
	OriginalPrice *int64            `json:"originalPrice,omitempty"`
	ImageURL      *string           `json:"imageUrl,omitempty"`
	SlotCount     *int              `json:"slotCount,omitempty"`
	SortOrder     int               `json:"sortOrder"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toDTO(m *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            m.ID,
		Slug:          m.Slug,
		Name:          m.Name,
		Type:          m.Type,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		ImageURL:      m.ImageURL,
		SlotCount:     m.SlotCount,
		SortOrder:     m.SortOrder,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ListFilters describe the supported catalog filter knobs.
type ListFilters struct {
	Type            *enums.ProductType `json:"type,omitempty"`
	IncludeInactive bool               `json:"includeInactive,omitempty"`
	Query           string             `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one catalog page.
type ListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor *string      `json:"nextCursor,omitempty"`
	HasMore    bool         `json:"hasMore"`
}

// CreateProductInput is the admin payload for a new listing.
type CreateProductInput struct {
	Slug          string
	Name          string
	Type          enums.ProductType
	Description   *string
	Price         int64
	OriginalPrice *int64
	ImageURL      *string
	SlotCount     *int
	SortOrder     int
	IsActive      bool
}

// UpdateProductInput applies partial edits to a listing. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *int64
	OriginalPrice *int64
	ImageURL      *string
	SlotCount     *int
	SortOrder     *int
	IsActive      *bool
}
