// Package pricing computes cart totals, applying the photostrip bundle rule
// to a shared pool of bundlable units.
package pricing

import "github.com/flamoure/flamoure-backend/pkg/enums"

// BundleRule describes the N-for-fixed-price discount applied to photostrips.
type BundleRule struct {
	// Size is how many units form one bundle.
	Size int
	// Price is the fixed price charged per complete bundle.
	Price int64
	// UnitPrice is charged per unit left outside a complete bundle.
	UnitPrice int64
}

// DefaultRule mirrors the storefront's standing offer: 4 strips for 10000,
// 3000 each otherwise.
var DefaultRule = BundleRule{
	Size:      4,
	Price:     10000,
	UnitPrice: 3000,
}

// LineItem is the minimal cart line surface the engine prices against.
type LineItem struct {
	ProductType enums.ProductType
	UnitPrice   int64
	Qty         int
}

// Quote breaks a computed total down for display and order snapshots.
type Quote struct {
	Subtotal       int64
	BundleDiscount int64
	Total          int64
}

// ComputeTotal returns the cart total. Bundlable units are pooled across all
// photostrip lines before the bundle arithmetic runs, so splitting a quantity
// across lines never changes the result.
func ComputeTotal(items []LineItem, rule BundleRule) int64 {
	return ComputeQuote(items, rule).Total
}

// ComputeQuote prices the cart and reports how much the bundle rule saved
// relative to flat per-unit pricing.
func ComputeQuote(items []LineItem, rule BundleRule) Quote {
	var flatTotal int64
	var poolUnits int

	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		if item.ProductType == enums.ProductTypePhotostrip {
			poolUnits += item.Qty
			continue
		}
		flatTotal += item.UnitPrice * int64(item.Qty)
	}

	bundleCount := int64(poolUnits / rule.Size)
	remainder := int64(poolUnits % rule.Size)
	bundleTotal := bundleCount*rule.Price + remainder*rule.UnitPrice

	undiscounted := rule.UnitPrice * int64(poolUnits)

	return Quote{
		Subtotal:       flatTotal + undiscounted,
		BundleDiscount: undiscounted - bundleTotal,
		Total:          flatTotal + bundleTotal,
	}
}
