package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// QuoteInput carries everything needed to price one product at one quantity.
type QuoteInput struct {
	Slug     string
	Mode     enums.PricingMode
	Quantity int
	Tiers    Table
	Fallback decimal.Decimal
	Currency enums.Currency
}

// PriceQuote is a derived, never persisted, price for a quantity.
type PriceQuote struct {
	Slug       string
	Mode       enums.PricingMode
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Currency   enums.Currency
	Source     Source
}

// Quote resolves the unit price and rounded total. Quantities below 1 are
// quoted as 1.
func Quote(in QuoteInput, rounding Rounding) PriceQuote {
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}
	mode := in.Mode
	if !mode.IsValid() {
		mode = enums.PricingModeRetail
	}
	unit, source := ResolveWithSource(in.Tiers.tiers, quantity, in.Fallback)
	return PriceQuote{
		Slug:       in.Slug,
		Mode:       mode,
		Quantity:   quantity,
		UnitPrice:  unit,
		TotalPrice: rounding.Total(unit, quantity),
		Currency:   in.Currency,
		Source:     source,
	}
}
