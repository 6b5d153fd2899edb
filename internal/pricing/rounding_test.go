package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

func TestRoundingTotalThreeAtNineteenPointNineNineNine(t *testing.T) {
	for _, mode := range []Rounding{RoundHalfUp, RoundHalfEven} {
		got := mode.Total(d("19.999"), 3)
		require.True(t, got.Equal(d("60.00")), "%s: got %s", mode, got)
		require.Equal(t, "60.00", got.StringFixed(MoneyPlaces))
	}
}

func TestRoundingHalfBoundary(t *testing.T) {
	tests := []struct {
		amount   string
		halfUp   string
		halfEven string
	}{
		{amount: "10.005", halfUp: "10.01", halfEven: "10.00"},
		{amount: "10.015", halfUp: "10.02", halfEven: "10.02"},
		{amount: "10.025", halfUp: "10.03", halfEven: "10.02"},
		{amount: "0.125", halfUp: "0.13", halfEven: "0.12"},
		{amount: "10.0049", halfUp: "10.00", halfEven: "10.00"},
	}
	for _, tt := range tests {
		require.True(t, RoundHalfUp.Round(d(tt.amount)).Equal(d(tt.halfUp)), "half up %s", tt.amount)
		require.True(t, RoundHalfEven.Round(d(tt.amount)).Equal(d(tt.halfEven)), "half even %s", tt.amount)
	}
}

func TestRoundingTotalAtBoundary(t *testing.T) {
	// 2.0025 * 2 = 4.005
	require.True(t, RoundHalfUp.Total(d("2.0025"), 2).Equal(d("4.01")))
	require.True(t, RoundHalfEven.Total(d("2.0025"), 2).Equal(d("4.00")))
}

func TestParseRounding(t *testing.T) {
	r, err := ParseRounding("")
	require.NoError(t, err)
	require.Equal(t, RoundHalfUp, r)

	r, err = ParseRounding(" HALF_EVEN ")
	require.NoError(t, err)
	require.Equal(t, RoundHalfEven, r)

	_, err = ParseRounding("ceil")
	require.Error(t, err)
}

func TestQuote(t *testing.T) {
	table := MustTable(bulkTiers()...)
	q := Quote(QuoteInput{
		Slug:     "linen-natural",
		Mode:     enums.PricingModeWholesale,
		Quantity: 120,
		Tiers:    table,
		Fallback: d("50"),
		Currency: enums.CurrencyUSD,
	}, RoundHalfUp)

	require.Equal(t, "linen-natural", q.Slug)
	require.Equal(t, enums.PricingModeWholesale, q.Mode)
	require.Equal(t, 120, q.Quantity)
	require.True(t, q.UnitPrice.Equal(d("35")))
	require.True(t, q.TotalPrice.Equal(d("4200")))
	require.Equal(t, enums.CurrencyUSD, q.Currency)
	require.Equal(t, SourceTier, q.Source)
}

func TestQuoteClampsQuantityAndDefaultsMode(t *testing.T) {
	q := Quote(QuoteInput{Quantity: 0, Fallback: d("19.999")}, RoundHalfUp)
	require.Equal(t, 1, q.Quantity)
	require.Equal(t, enums.PricingModeRetail, q.Mode)
	require.True(t, q.TotalPrice.Equal(d("20.00")))
	require.Equal(t, SourceFallback, q.Source)
}
