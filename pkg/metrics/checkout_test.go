package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.IncOrderCreated("created")
	m.IncOrderCreated("created")
	m.AddBundleDiscount(2000)
	m.AddBundleDiscount(-500)
	m.IncUploadFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_orders_created_total", "outcome", "created"); err != nil {
		t.Fatalf("fetch orders created: %v", err)
	} else if got != 2 {
		t.Fatalf("expected orders created=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_bundle_discount_total", "", ""); err != nil {
		t.Fatalf("fetch bundle discount: %v", err)
	} else if got != 2000 {
		t.Fatalf("expected negative discount ignored, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_upload_failures_total", "", ""); err != nil {
		t.Fatalf("fetch upload failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected upload failures=1, got %f", got)
	}
}

func TestHTTPMetricsExportsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.IncInFlight()
	m.ObserveRequest("POST", "/api/checkout", "201", 120*time.Millisecond)
	m.DecInFlight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/checkout"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.IncOrderCreated("created")
	m.AddBundleDiscount(100)
	m.IncUploadFailure()

	h := NewHTTPMetrics(nil)
	h.IncInFlight()
	h.ObserveRequest("GET", "/", "200", time.Millisecond)
	h.DecInFlight()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
