package quotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/metrics"
)

// PriceList is the tier ladder a storefront renders next to a product.
type PriceList struct {
	Slug     string
	Mode     enums.PricingMode
	Currency enums.Currency
	Fallback decimal.Decimal
	Tiers    []pricing.Tier
}

// Service answers price questions for catalog products.
type Service interface {
	Quote(ctx context.Context, slug string, quantity int, modeRaw string) (*pricing.PriceQuote, error)
	PriceList(ctx context.Context, slug string, modeRaw string) (*PriceList, error)
}

// ServiceParams configures the quote service.
type ServiceParams struct {
	Products product.Reader
	Rounding pricing.Rounding
	Metrics  *metrics.PricingMetrics
	Logger   *logger.Logger
}

type service struct {
	products product.Reader
	rounding pricing.Rounding
	metrics  *metrics.PricingMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	rounding := params.Rounding
	if rounding == "" {
		rounding = pricing.RoundHalfUp
	}
	return &service{
		products: params.Products,
		rounding: rounding,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Quote prices quantity units of the product. Quantities below 1 are
// quoted as 1; any mode other than wholesale is retail.
func (s *service) Quote(ctx context.Context, slug string, quantity int, modeRaw string) (*pricing.PriceQuote, error) {
	detail, err := s.activeProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	mode := enums.NormalizePricingMode(modeRaw)

	quote := pricing.Quote(pricing.QuoteInput{
		Slug:     detail.Product.Slug,
		Mode:     mode,
		Quantity: quantity,
		Tiers:    detail.Table(mode),
		Fallback: detail.Fallback(mode),
		Currency: detail.Product.Currency,
	}, s.rounding)

	s.metrics.IncQuote(string(mode), string(quote.Source))
	ctx = s.logg.WithPricingMode(s.logg.WithProductSlug(ctx, quote.Slug), string(quote.Mode))
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"quantity": quote.Quantity,
		"source":   quote.Source,
	}), "pricing.quote")
	return &quote, nil
}

func (s *service) PriceList(ctx context.Context, slug string, modeRaw string) (*PriceList, error) {
	detail, err := s.activeProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	mode := enums.NormalizePricingMode(modeRaw)
	return &PriceList{
		Slug:     detail.Product.Slug,
		Mode:     mode,
		Currency: detail.Product.Currency,
		Fallback: detail.Fallback(mode),
		Tiers:    detail.Table(mode).Tiers(),
	}, nil
}

func (s *service) activeProduct(ctx context.Context, slug string) (*product.Detail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	detail, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !detail.Product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return detail, nil
}
