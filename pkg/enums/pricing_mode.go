package enums

import (
	"fmt"
	"strings"
)

// PricingMode selects which tier table prices a request.
type PricingMode string

const (
	PricingModeRetail    PricingMode = "retail"
	PricingModeWholesale PricingMode = "wholesale"
)

var validPricingModes = []PricingMode{
	PricingModeRetail,
	PricingModeWholesale,
}

// String implements fmt.Stringer.
func (m PricingMode) String() string {
	return string(m)
}

// IsValid reports whether the mode is recognized.
func (m PricingMode) IsValid() bool {
	for _, candidate := range validPricingModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePricingMode is the strict parser used on admin writes.
func ParsePricingMode(value string) (PricingMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPricingModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing mode %q", value)
}

// NormalizePricingMode is the lenient parser used by shoppers: anything that
// is not "wholesale" (case-insensitive) prices as retail.
func NormalizePricingMode(value string) PricingMode {
	if strings.EqualFold(strings.TrimSpace(value), string(PricingModeWholesale)) {
		return PricingModeWholesale
	}
	return PricingModeRetail
}

// PricingModes lists every mode in a fixed order.
func PricingModes() []PricingMode {
	return append([]PricingMode(nil), validPricingModes...)
}
