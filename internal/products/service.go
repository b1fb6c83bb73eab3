// Package product owns the storefront catalog: public browse reads and the
// admin listing lifecycle.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
	"github.com/flamoure/flamoure-backend/pkg/pagination"
)

// Service exposes catalog operations.
type Service interface {
	Catalog(ctx context.Context, productType *enums.ProductType) ([]ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// Catalog returns every active listing in display order, optionally filtered
// by product type.
func (s *service) Catalog(ctx context.Context, productType *enums.ProductType) ([]ProductDTO, error) {
	var typeFilter *string
	if productType != nil {
		if !productType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
		}
		v := string(*productType)
		typeFilter = &v
	}

	rows, err := s.repo.ListActiveOrdered(ctx, typeFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toDTO(row), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(row), nil
}

// GetActive loads a product for purchase paths; inactive listings are
// treated as unavailable rather than missing.
func (s *service) GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return row, nil
}

// List pages the catalog for the admin surface.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.Parse(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, input.Filters, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	result := &ListResult{
		Items:   make([]ProductDTO, 0, len(rows)),
		HasMore: hasMore,
	}
	for i := range rows {
		result.Items = append(result.Items, *toDTO(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		result.NextCursor = &next
	}
	return result, nil
}

// Create inserts a new listing.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	row := &models.Product{
		Slug:          strings.TrimSpace(input.Slug),
		Name:          strings.TrimSpace(input.Name),
		Type:          input.Type,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		ImageURL:      input.ImageURL,
		SlotCount:     input.SlotCount,
		SortOrder:     input.SortOrder,
		IsActive:      input.IsActive,
	}

	saved, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toDTO(saved), nil
}

// Update applies the non-nil fields of input to an existing listing.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		row.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		row.OriginalPrice = input.OriginalPrice
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}
	if input.SlotCount != nil {
		if err := validateSlotCount(row.Type, input.SlotCount); err != nil {
			return nil, err
		}
		row.SlotCount = input.SlotCount
	}
	if input.SortOrder != nil {
		row.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	saved, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return toDTO(saved), nil
}

// Delete removes a listing outright. Deactivation is the usual path; delete
// exists for listings created by mistake.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) loadByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return row, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return validateSlotCount(input.Type, input.SlotCount)
}

func validateSlotCount(productType enums.ProductType, slotCount *int) error {
	if slotCount == nil {
		return nil
	}
	if productType != enums.ProductTypePhotostrip {
		return pkgerrors.New(pkgerrors.CodeValidation, "slot count applies only to photostrips")
	}
	if *slotCount < 2 || *slotCount > 4 {
		return pkgerrors.New(pkgerrors.CodeValidation, "slot count must be between 2 and 4")
	}
	return nil
}
