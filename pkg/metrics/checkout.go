package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts storefront conversions and their pricing outcomes.
type CheckoutMetrics struct {
	ordersCreated  *prometheus.CounterVec
	bundleDiscount prometheus.Counter
	uploadFailures prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders created through checkout, labeled by outcome.",
	}, []string{"outcome"})
	bundleDiscount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_bundle_discount_total",
		Help: "Cumulative bundle discount granted, in store currency units.",
	})
	uploadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_upload_failures_total",
		Help: "Photostrip image attachments that failed during checkout.",
	})
	reg.MustRegister(ordersCreated, bundleDiscount, uploadFailures)
	return &CheckoutMetrics{
		ordersCreated:  ordersCreated,
		bundleDiscount: bundleDiscount,
		uploadFailures: uploadFailures,
	}
}

// IncOrderCreated increments the conversion counter for the given outcome.
func (c *CheckoutMetrics) IncOrderCreated(outcome string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddBundleDiscount records the discount granted on a completed checkout.
func (c *CheckoutMetrics) AddBundleDiscount(amount int64) {
	if c == nil || c.bundleDiscount == nil || amount <= 0 {
		return
	}
	c.bundleDiscount.Add(float64(amount))
}

// IncUploadFailure counts a failed image attachment.
func (c *CheckoutMetrics) IncUploadFailure() {
	if c == nil || c.uploadFailures == nil {
		return
	}
	c.uploadFailures.Inc()
}
