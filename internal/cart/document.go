// Package cart keeps the visitor's cart as a session-scoped document in
// Redis and prices it through the bundle engine.
package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/flamoure/flamoure-backend/internal/pricing"
	"github.com/flamoure/flamoure-backend/pkg/enums"
)

// Line is one cart entry. Photostrip lines carry the finalized composition;
// merch lines carry only product identity.
type Line struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"productId"`
	ProductType enums.ProductType `json:"productType"`
	ProductName string            `json:"productName"`
	UnitPrice   int64             `json:"unitPrice"`
	Qty         int               `json:"qty"`
	Template    string            `json:"template,omitempty"`
	Images      []string          `json:"images,omitempty"`
	AddedAt     time.Time         `json:"addedAt"`
}

// Document is the stored cart for one session.
type Document struct {
	SessionID string    `json:"sessionId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// sameComposition reports whether two photostrip lines hold the identical
// ordered image list. Order matters: a reordered strip is a different item.
func sameComposition(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeTarget finds the line a new entry folds into, or -1. Merch merges on
// product id alone; photostrips additionally require an identical
// composition so distinct strips of the same product stay separate lines.
func (d *Document) mergeTarget(productID uuid.UUID, productType enums.ProductType, template string, images []string) int {
	for i, line := range d.Lines {
		if line.ProductID != productID || line.ProductType != productType {
			continue
		}
		if productType == enums.ProductTypePhotostrip {
			if line.Template != template || !sameComposition(line.Images, images) {
				continue
			}
		}
		return i
	}
	return -1
}

// View is the priced cart returned to the client.
type View struct {
	SessionID string        `json:"sessionId"`
	Lines     []LineView    `json:"lines"`
	Quote     pricing.Quote `json:"quote"`
}

// LineView is a Line plus its extended total.
type LineView struct {
	Line
	LineTotal int64 `json:"lineTotal"`
}
