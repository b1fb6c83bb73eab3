package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/internal/pricing"
	"github.com/flamoure/flamoure-backend/internal/templates"
	"github.com/flamoure/flamoure-backend/pkg/db/models"
	"github.com/flamoure/flamoure-backend/pkg/enums"
	pkgerrors "github.com/flamoure/flamoure-backend/pkg/errors"
)

const (
	minPhotostripImages = 2
	maxPhotostripImages = 4
)

type productLoader interface {
	GetActive(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for one storefront session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, qty int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, lineID uuid.UUID) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	repo     *Repository
	products productLoader
	rule     pricing.BundleRule
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, products productLoader, rule pricing.BundleRule) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if rule.Size < 1 || rule.Price < 0 || rule.UnitPrice < 0 {
		return nil, fmt.Errorf("invalid bundle rule")
	}
	return &service{repo: repo, products: products, rule: rule}, nil
}

// AddItemInput is the payload for adding a product to the cart. Template and
// Images are required for photostrips and rejected for merch.
type AddItemInput struct {
	ProductID uuid.UUID
	Qty       int
	Template  string
	Images    []string
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(doc), nil
}

// AddItem appends a product to the cart, merging into an existing line where
// the merge rules allow. Merch merges on product id; photostrips merge only
// when template and the ordered image list match exactly.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	qty := input.Qty
	if qty < 1 {
		qty = 1
	}

	prod, err := s.products.GetActive(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := validateComposition(prod, input); err != nil {
		return nil, err
	}

	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := doc.mergeTarget(prod.ID, prod.Type, input.Template, input.Images); i >= 0 {
		doc.Lines[i].Qty += qty
	} else {
		images := make([]string, len(input.Images))
		copy(images, input.Images)
		doc.Lines = append(doc.Lines, Line{
			ID:          uuid.New(),
			ProductID:   prod.ID,
			ProductType: prod.Type,
			ProductName: prod.Name,
			UnitPrice:   prod.Price,
			Qty:         qty,
			Template:    input.Template,
			Images:      images,
			AddedAt:     time.Now().UTC(),
		})
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.viewOf(doc), nil
}

// UpdateQuantity sets a line's quantity. Quantities below one are rejected
// and leave the cart untouched; dropping a line is an explicit RemoveItem,
// never a side effect of a quantity edit.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, qty int) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			doc.Lines[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.viewOf(doc), nil
}

// RemoveItem deletes one line. Remaining lines keep their order.
func (s *service) RemoveItem(ctx context.Context, sessionID string, lineID uuid.UUID) (*View, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	doc.Lines = append(doc.Lines[:idx], doc.Lines[idx+1:]...)

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.viewOf(doc), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.repo.Delete(ctx, sessionID)
}

func validateComposition(prod *models.Product, input AddItemInput) error {
	if prod.Type == enums.ProductTypeMerch {
		if input.Template != "" || len(input.Images) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "merch items do not carry a composition")
		}
		return nil
	}

	if !templates.Exists(input.Template) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown photostrip template")
	}
	maxImages := maxPhotostripImages
	if prod.SlotCount != nil && *prod.SlotCount > 0 {
		maxImages = *prod.SlotCount
	}
	if len(input.Images) < minPhotostripImages || len(input.Images) > maxImages {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"photostrip requires between %d and %d images", minPhotostripImages, maxImages))
	}
	for _, img := range input.Images {
		if img == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "photostrip image reference cannot be empty")
		}
	}
	return nil
}

func (s *service) viewOf(doc *Document) *View {
	lines := make([]LineView, 0, len(doc.Lines))
	priced := make([]pricing.LineItem, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		// Flat extended total for display; the quote owns bundle arithmetic.
		lineTotal := line.UnitPrice * int64(line.Qty)
		lines = append(lines, LineView{Line: line, LineTotal: lineTotal})
		priced = append(priced, pricing.LineItem{
			ProductType: line.ProductType,
			UnitPrice:   line.UnitPrice,
			Qty:         line.Qty,
		})
	}
	return &View{
		SessionID: doc.SessionID,
		Lines:     lines,
		Quote:     pricing.ComputeQuote(priced, s.rule),
	}
}
