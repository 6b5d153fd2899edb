package enums

import "testing"

func TestNormalizePricingMode(t *testing.T) {
	cases := map[string]PricingMode{
		"":           PricingModeRetail,
		"retail":     PricingModeRetail,
		"WHOLESALE":  PricingModeWholesale,
		" Wholesale": PricingModeWholesale,
		"bulk":       PricingModeRetail,
		"wholesale2": PricingModeRetail,
	}
	for input, want := range cases {
		if got := NormalizePricingMode(input); got != want {
			t.Fatalf("NormalizePricingMode(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParsePricingModeIsStrict(t *testing.T) {
	if mode, err := ParsePricingMode("Wholesale"); err != nil || mode != PricingModeWholesale {
		t.Fatalf("expected wholesale, got %s (%v)", mode, err)
	}
	if _, err := ParsePricingMode("bulk"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestParseCurrencyUppercases(t *testing.T) {
	c, err := ParseCurrency("usd")
	if err != nil || c != CurrencyUSD {
		t.Fatalf("expected USD, got %s (%v)", c, err)
	}
	if _, err := ParseCurrency("BTC"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}

func TestParseProductEnums(t *testing.T) {
	if c, err := ParseProductCategory(" Linen "); err != nil || c != ProductCategoryLinen {
		t.Fatalf("expected linen, got %s (%v)", c, err)
	}
	if u, err := ParseProductUnit("YARD"); err != nil || u != ProductUnitYard {
		t.Fatalf("expected yard, got %s (%v)", u, err)
	}
	if _, err := ParseProductUnit("bolt"); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func TestInquiryStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to InquiryStatus
		ok       bool
	}{
		{InquiryStatusNew, InquiryStatusContacted, true},
		{InquiryStatusNew, InquiryStatusClosed, true},
		{InquiryStatusContacted, InquiryStatusClosed, true},
		{InquiryStatusContacted, InquiryStatusNew, false},
		{InquiryStatusClosed, InquiryStatusContacted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}
