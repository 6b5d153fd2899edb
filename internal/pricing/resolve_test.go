package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func bulkTiers() []Tier {
	return []Tier{
		{MinQuantity: 50, UnitPrice: d("40")},
		{MinQuantity: 100, UnitPrice: d("35")},
	}
}

func TestResolveSelectsBestTier(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     string
		source   Source
	}{
		{name: "below every minimum uses entry tier", quantity: 10, want: "40", source: SourceEntryTier},
		{name: "exactly first minimum", quantity: 50, want: "40", source: SourceTier},
		{name: "between tiers", quantity: 75, want: "40", source: SourceTier},
		{name: "exactly top minimum", quantity: 100, want: "35", source: SourceTier},
		{name: "above top minimum", quantity: 150, want: "35", source: SourceTier},
		{name: "zero clamps to one", quantity: 0, want: "40", source: SourceEntryTier},
		{name: "negative clamps to one", quantity: -7, want: "40", source: SourceEntryTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := ResolveWithSource(bulkTiers(), tt.quantity, d("50"))
			require.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
			require.Equal(t, tt.source, source)
		})
	}
}

func TestResolveEmptyTiersUsesFallback(t *testing.T) {
	for _, q := range []int{1, 2, 10, 500, 100000} {
		got, source := ResolveWithSource(nil, q, d("29.99"))
		require.True(t, got.Equal(d("29.99")), "quantity %d got %s", q, got)
		require.Equal(t, SourceFallback, source)
	}
}

func TestResolveIgnoresInputOrderAndDoesNotMutate(t *testing.T) {
	unsorted := []Tier{
		{MinQuantity: 100, UnitPrice: d("35")},
		{MinQuantity: 10, UnitPrice: d("45")},
		{MinQuantity: 50, UnitPrice: d("40")},
	}
	before := append([]Tier(nil), unsorted...)

	require.True(t, Resolve(unsorted, 1, d("60")).Equal(d("45")))
	require.True(t, Resolve(unsorted, 60, d("60")).Equal(d("40")))
	require.True(t, Resolve(unsorted, 1000, d("60")).Equal(d("35")))
	require.Equal(t, before, unsorted)
}

func TestResolveIsDeterministic(t *testing.T) {
	tiers := bulkTiers()
	first := Resolve(tiers, 75, d("50"))
	for i := 0; i < 100; i++ {
		require.True(t, Resolve(tiers, 75, d("50")).Equal(first))
	}
}

func TestResolveIsMonotonicForDescendingPrices(t *testing.T) {
	table := MustTable(
		Tier{MinQuantity: 1, UnitPrice: d("12.50")},
		Tier{MinQuantity: 25, UnitPrice: d("11.75")},
		Tier{MinQuantity: 100, UnitPrice: d("10.00")},
		Tier{MinQuantity: 250, UnitPrice: d("10.00")},
		Tier{MinQuantity: 1000, UnitPrice: d("8.40")},
	)
	previous := table.Resolve(-5, d("15"))
	for q := -4; q <= 1500; q++ {
		current := table.Resolve(q, d("15"))
		require.False(t, current.GreaterThan(previous), "price rose from %s to %s at quantity %d", previous, current, q)
		previous = current
	}
}

func TestTableResolveMatchesFreeFunction(t *testing.T) {
	table := MustTable(bulkTiers()...)
	for _, q := range []int{1, 49, 50, 99, 100, 101} {
		require.True(t, table.Resolve(q, d("50")).Equal(Resolve(bulkTiers(), q, d("50"))))
	}
	require.True(t, Table{}.Resolve(3, d("9.99")).Equal(d("9.99")))
}
