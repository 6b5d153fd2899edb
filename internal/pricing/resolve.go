package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Source says which rule produced a resolved unit price.
type Source string

const (
	// SourceTier: the quantity met a tier minimum.
	SourceTier Source = "tier"
	// SourceEntryTier: the quantity is below every minimum, so the
	// lowest tier applies.
	SourceEntryTier Source = "entry_tier"
	// SourceFallback: no tiers exist; the product base price applies.
	SourceFallback Source = "fallback"
)

// Resolve picks the unit price for quantity from tiers.
//
// Quantities below 1 count as 1. With no tiers the fallback price is
// returned. Otherwise the tier with the highest minimum not above
// quantity wins, and a quantity below every minimum gets the lowest
// tier's price rather than the fallback. tiers may arrive in any order
// and is not modified.
func Resolve(tiers []Tier, quantity int, fallback decimal.Decimal) decimal.Decimal {
	price, _ := resolve(tiers, quantity, fallback)
	return price
}

// ResolveWithSource is Resolve that also reports which rule applied.
func ResolveWithSource(tiers []Tier, quantity int, fallback decimal.Decimal) (decimal.Decimal, Source) {
	return resolve(tiers, quantity, fallback)
}

func resolve(tiers []Tier, quantity int, fallback decimal.Decimal) (decimal.Decimal, Source) {
	if quantity < 1 {
		quantity = 1
	}
	if len(tiers) == 0 {
		return fallback, SourceFallback
	}

	descending := make([]Tier, len(tiers))
	copy(descending, tiers)
	sort.SliceStable(descending, func(i, j int) bool {
		return descending[i].MinQuantity > descending[j].MinQuantity
	})

	for _, tier := range descending {
		if tier.MinQuantity <= quantity {
			return tier.UnitPrice, SourceTier
		}
	}
	return descending[len(descending)-1].UnitPrice, SourceEntryTier
}
