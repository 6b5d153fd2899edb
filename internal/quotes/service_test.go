package quotes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/metrics"
)

type stubReader struct {
	details map[string]*product.Detail
}

func (s stubReader) GetProduct(_ context.Context, id uuid.UUID) (*product.Detail, error) {
	for _, d := range s.details {
		if d.Product.ID == id {
			return d, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s stubReader) GetProductBySlug(_ context.Context, slug string) (*product.Detail, error) {
	if d, ok := s.details[slug]; ok {
		return d, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fixtures() stubReader {
	linen := &product.Detail{
		Product: models.Product{
			ID: uuid.New(), Slug: "linen-natural", Currency: enums.CurrencyUSD,
			BasePrice: dec("50"), IsActive: true,
		},
		Retail: pricing.MustTable(
			pricing.Tier{MinQuantity: 50, UnitPrice: dec("40")},
			pricing.Tier{MinQuantity: 100, UnitPrice: dec("35")},
		),
		Wholesale: pricing.MustTable(pricing.Tier{MinQuantity: 200, UnitPrice: dec("28")}),
	}
	plain := &product.Detail{
		Product: models.Product{ID: uuid.New(), Slug: "muslin", Currency: enums.CurrencyEUR, BasePrice: dec("29.99"), IsActive: true},
	}
	retired := &product.Detail{
		Product: models.Product{ID: uuid.New(), Slug: "retired", Currency: enums.CurrencyUSD, BasePrice: dec("1")},
	}
	return stubReader{details: map[string]*product.Detail{
		linen.Product.Slug:   linen,
		plain.Product.Slug:   plain,
		retired.Product.Slug: retired,
	}}
}

func newService(t *testing.T, reg prometheus.Registerer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Products: fixtures(),
		Rounding: pricing.RoundHalfUp,
		Metrics:  metrics.NewPricingMetrics(reg),
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func TestQuoteSelectsBestTier(t *testing.T) {
	svc := newService(t, nil)
	cases := []struct {
		qty  int
		unit string
	}{
		{10, "40"},
		{75, "40"},
		{150, "35"},
		{0, "40"},
		{-5, "40"},
	}
	for _, tc := range cases {
		quote, err := svc.Quote(context.Background(), "linen-natural", tc.qty, "")
		require.NoError(t, err)
		require.True(t, quote.UnitPrice.Equal(dec(tc.unit)), "qty %d: got %s", tc.qty, quote.UnitPrice)
		require.Equal(t, enums.PricingModeRetail, quote.Mode)
		require.GreaterOrEqual(t, quote.Quantity, 1)
	}
}

func TestQuoteModeIsLenient(t *testing.T) {
	svc := newService(t, nil)

	quote, err := svc.Quote(context.Background(), "linen-natural", 250, "WholeSale")
	require.NoError(t, err)
	require.Equal(t, enums.PricingModeWholesale, quote.Mode)
	require.True(t, quote.UnitPrice.Equal(dec("28")))
	require.Equal(t, "7000.00", quote.TotalPrice.StringFixed(2))

	quote, err = svc.Quote(context.Background(), "linen-natural", 250, "bulk")
	require.NoError(t, err)
	require.Equal(t, enums.PricingModeRetail, quote.Mode)
}

func TestQuoteWithoutTiersUsesBasePrice(t *testing.T) {
	svc := newService(t, nil)
	quote, err := svc.Quote(context.Background(), "muslin", 500, "retail")
	require.NoError(t, err)
	require.True(t, quote.UnitPrice.Equal(dec("29.99")))
	require.Equal(t, pricing.SourceFallback, quote.Source)
	require.Equal(t, enums.CurrencyEUR, quote.Currency)
	require.Equal(t, "14995.00", quote.TotalPrice.StringFixed(2))
}

func TestQuoteMissingOrInactiveProduct(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Quote(context.Background(), "nope", 1, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Quote(context.Background(), "retired", 1, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Quote(context.Background(), " ", 1, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQuoteRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newService(t, reg)

	_, err := svc.Quote(context.Background(), "muslin", 3, "")
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "textilehouse_pricing_quotes_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["mode"] == "retail" && labels["source"] == string(pricing.SourceFallback) {
				found = m.GetCounter().GetValue() == 1
			}
		}
	}
	require.True(t, found, "expected one retail fallback quote")
}

func TestPriceList(t *testing.T) {
	svc := newService(t, nil)

	list, err := svc.PriceList(context.Background(), "linen-natural", "wholesale")
	require.NoError(t, err)
	require.Equal(t, enums.PricingModeWholesale, list.Mode)
	require.Len(t, list.Tiers, 1)
	require.True(t, list.Fallback.Equal(dec("50")))

	list, err = svc.PriceList(context.Background(), "linen-natural", "")
	require.NoError(t, err)
	require.Len(t, list.Tiers, 2)
	require.Equal(t, 50, list.Tiers[0].MinQuantity)
}
