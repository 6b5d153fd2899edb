package product

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// Detail is a product with its tier tables already validated.
type Detail struct {
	Product   models.Product
	Retail    pricing.Table
	Wholesale pricing.Table
}

// Table returns the tier table for mode.
func (d Detail) Table(mode enums.PricingMode) pricing.Table {
	if mode == enums.PricingModeWholesale {
		return d.Wholesale
	}
	return d.Retail
}

// Fallback returns the per-unit price used when mode has no tiers.
func (d Detail) Fallback(mode enums.PricingMode) decimal.Decimal {
	return d.Product.FallbackPrice(mode)
}

// CreateProductInput carries a validated create request.
type CreateProductInput struct {
	Slug               string
	Name               string
	Description        *string
	Category           enums.ProductCategory
	Unit               enums.ProductUnit
	Colors             []string
	Currency           enums.Currency
	BasePrice          decimal.Decimal
	WholesaleBasePrice *decimal.Decimal
	IsActive           *bool
	RetailTiers        []pricing.RawTier
	WholesaleTiers     []pricing.RawTier
}

// UpdateProductInput is a partial update. A non-nil tier slice replaces that
// mode's table; an empty slice clears it.
type UpdateProductInput struct {
	Name                    *string
	Description             *string
	Category                *enums.ProductCategory
	Unit                    *enums.ProductUnit
	Colors                  *[]string
	Currency                *enums.Currency
	BasePrice               *decimal.Decimal
	WholesaleBasePrice      *decimal.Decimal
	ClearWholesaleBasePrice bool
	IsActive                *bool
	RetailTiers             *[]pricing.RawTier
	WholesaleTiers          *[]pricing.RawTier
}
