package pricing

import (
	"testing"

	"github.com/flamoure/flamoure-backend/pkg/enums"
)

func strip(qty int) LineItem {
	return LineItem{ProductType: enums.ProductTypePhotostrip, UnitPrice: 3000, Qty: qty}
}

func merch(price int64, qty int) LineItem {
	return LineItem{ProductType: enums.ProductTypeMerch, UnitPrice: price, Qty: qty}
}

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		items []LineItem
		want  int64
	}{
		{name: "empty cart", items: nil, want: 0},
		{name: "exact bundle", items: []LineItem{strip(4)}, want: 10000},
		{name: "bundle plus one", items: []LineItem{strip(5)}, want: 13000},
		{name: "below bundle size", items: []LineItem{strip(3)}, want: 9000},
		{name: "pooled across lines", items: []LineItem{strip(2), strip(2)}, want: 10000},
		{name: "two bundles", items: []LineItem{strip(8)}, want: 20000},
		{name: "merch only", items: []LineItem{merch(14900, 2)}, want: 29800},
		{name: "mixed cart", items: []LineItem{merch(14900, 2), strip(4)}, want: 39800},
		{name: "zero qty ignored", items: []LineItem{strip(0), merch(7900, 0)}, want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeTotal(tc.items, DefaultRule)
			if got != tc.want {
				t.Fatalf("ComputeTotal() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeTotal_Idempotent(t *testing.T) {
	t.Parallel()

	items := []LineItem{strip(5), merch(7900, 1)}
	first := ComputeTotal(items, DefaultRule)
	second := ComputeTotal(items, DefaultRule)
	if first != second {
		t.Fatalf("repeated calls diverged: %d then %d", first, second)
	}
}

func TestComputeTotal_SplitInvariance(t *testing.T) {
	t.Parallel()

	merged := ComputeTotal([]LineItem{strip(6)}, DefaultRule)
	split := ComputeTotal([]LineItem{strip(1), strip(2), strip(3)}, DefaultRule)
	if merged != split {
		t.Fatalf("split pool priced differently: merged=%d split=%d", merged, split)
	}
}

func TestComputeQuote_Breakdown(t *testing.T) {
	t.Parallel()

	q := ComputeQuote([]LineItem{strip(4), merch(14900, 1)}, DefaultRule)
	if q.Subtotal != 26900 {
		t.Fatalf("Subtotal = %d, want 26900", q.Subtotal)
	}
	if q.BundleDiscount != 2000 {
		t.Fatalf("BundleDiscount = %d, want 2000", q.BundleDiscount)
	}
	if q.Total != 24900 {
		t.Fatalf("Total = %d, want 24900", q.Total)
	}
	if q.Subtotal-q.BundleDiscount != q.Total {
		t.Fatalf("breakdown does not reconcile: %d - %d != %d", q.Subtotal, q.BundleDiscount, q.Total)
	}
}

func TestComputeQuote_NoDiscountBelowBundleSize(t *testing.T) {
	t.Parallel()

	q := ComputeQuote([]LineItem{strip(3)}, DefaultRule)
	if q.BundleDiscount != 0 {
		t.Fatalf("BundleDiscount = %d, want 0", q.BundleDiscount)
	}
	if q.Total != 9000 {
		t.Fatalf("Total = %d, want 9000", q.Total)
	}
}
