package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPricingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)
	m.IncQuote("wholesale", "tier")
	m.IncQuote("wholesale", "tier")
	m.IncQuote("retail", "fallback")
	m.IncCartMutation("add")
	m.IncLockBusy("add")
	m.AddCartsSwept(3)
	m.AddCartsSwept(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "textilehouse_pricing_quotes_total")
	if mf == nil {
		t.Fatal("quotes metric missing")
	}
	var wholesaleTier float64
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "mode", "wholesale") && matchesLabel(metric.GetLabel(), "source", "tier") {
			wholesaleTier = metric.GetCounter().GetValue()
		}
	}
	if wholesaleTier != 2 {
		t.Fatalf("expected 2 wholesale tier quotes, got %f", wholesaleTier)
	}

	if got, err := fetchCounterValue(mfs, "textilehouse_cart_mutations_total", "op", "add"); err != nil || got != 1 {
		t.Fatalf("expected 1 add mutation, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "textilehouse_cart_lock_busy_total", "op", "add"); err != nil || got != 1 {
		t.Fatalf("expected 1 busy lock, got %f (%v)", got, err)
	}

	swept := findMetricFamily(mfs, "textilehouse_cart_swept_total")
	if swept == nil || swept.GetMetric()[0].GetCounter().GetValue() != 3 {
		t.Fatalf("expected 3 swept carts")
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.IncQuote("retail", "tier")
	m.IncCartMutation("add")
	m.IncLockBusy("add")
	m.AddCartsSwept(1)
}
