package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/api/responses"
	"github.com/angelmondragon/textilehouse-backend/api/validators"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	productsvc "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

// AdminCreateProduct creates a product and its tier tables. Products without
// a currency take defaultCurrency.
func AdminCreateProduct(svc productsvc.Service, defaultCurrency enums.Currency, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput(defaultCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(detail))
	}
}

// AdminUpdateProduct applies a partial update. Any tier list present in the
// body replaces that mode's table.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(detail))
	}
}

func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type replaceTiersResponse struct {
	Product  productResponse    `json:"product"`
	Rejected []pricing.Rejected `json:"rejected"`
}

// AdminReplaceTiers rewrites one mode's tier table for the product named by
// slug. Dropped rows are reported back so the caller can fix the sheet.
func AdminReplaceTiers(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		mode, err := enums.ParsePricingMode(chi.URLParam(r, "mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing mode"))
			return
		}

		var payload replaceTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, rejected, err := svc.ReplaceTiers(r.Context(), chi.URLParam(r, "slug"), mode, payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rejected == nil {
			rejected = []pricing.Rejected{}
		}

		responses.WriteSuccess(w, replaceTiersResponse{Product: newProductResponse(detail), Rejected: rejected})
	}
}

// Tier lists arrive under the catalog's historical names: price_tiers for
// retail-only products, tiers_retail/tiers_wholesale for dual-mode ones.
type createProductRequest struct {
	Slug               string            `json:"slug" validate:"required,max=120"`
	Name               string            `json:"name" validate:"required,max=200"`
	Description        *string           `json:"description,omitempty"`
	Category           string            `json:"category" validate:"required,product_category"`
	Unit               string            `json:"unit" validate:"required,product_unit"`
	Colors             []string          `json:"colors,omitempty" validate:"omitempty,dive,required,max=40"`
	Currency           string            `json:"currency,omitempty" validate:"omitempty,currency"`
	BasePrice          *decimal.Decimal  `json:"base_price" validate:"required"`
	WholesaleBasePrice *decimal.Decimal  `json:"wholesale_base_price,omitempty"`
	IsActive           *bool             `json:"is_active,omitempty"`
	PriceTiers         []pricing.RawTier `json:"price_tiers,omitempty"`
	TiersRetail        []pricing.RawTier `json:"tiers_retail,omitempty"`
	TiersWholesale     []pricing.RawTier `json:"tiers_wholesale,omitempty"`
}

func (r createProductRequest) toCreateInput(defaultCurrency enums.Currency) (productsvc.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	unit, err := enums.ParseProductUnit(strings.TrimSpace(r.Unit))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	currency := defaultCurrency
	if strings.TrimSpace(r.Currency) != "" {
		currency, err = enums.ParseCurrency(strings.TrimSpace(r.Currency))
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
	}

	retail, err := pickRetailTiers(r.PriceTiers, r.TiersRetail)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	return productsvc.CreateProductInput{
		Slug:               validators.SanitizeString(r.Slug, 120),
		Name:               validators.SanitizeString(r.Name, 200),
		Description:        r.Description,
		Category:           category,
		Unit:               unit,
		Colors:             r.Colors,
		Currency:           currency,
		BasePrice:          *r.BasePrice,
		WholesaleBasePrice: r.WholesaleBasePrice,
		IsActive:           r.IsActive,
		RetailTiers:        retail,
		WholesaleTiers:     r.TiersWholesale,
	}, nil
}

type updateProductRequest struct {
	Name                    *string            `json:"name,omitempty" validate:"omitempty,max=200"`
	Description             *string            `json:"description,omitempty"`
	Category                *string            `json:"category,omitempty"`
	Unit                    *string            `json:"unit,omitempty"`
	Colors                  *[]string          `json:"colors,omitempty" validate:"omitempty,dive,required,max=40"`
	Currency                *string            `json:"currency,omitempty"`
	BasePrice               *decimal.Decimal   `json:"base_price,omitempty"`
	WholesaleBasePrice      *decimal.Decimal   `json:"wholesale_base_price,omitempty"`
	ClearWholesaleBasePrice bool               `json:"clear_wholesale_base_price,omitempty"`
	IsActive                *bool              `json:"is_active,omitempty"`
	PriceTiers              *[]pricing.RawTier `json:"price_tiers,omitempty"`
	TiersRetail             *[]pricing.RawTier `json:"tiers_retail,omitempty"`
	TiersWholesale          *[]pricing.RawTier `json:"tiers_wholesale,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:                    r.Name,
		Description:             r.Description,
		Colors:                  r.Colors,
		BasePrice:               r.BasePrice,
		WholesaleBasePrice:      r.WholesaleBasePrice,
		ClearWholesaleBasePrice: r.ClearWholesaleBasePrice,
		IsActive:                r.IsActive,
		WholesaleTiers:          r.TiersWholesale,
	}
	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	if r.Unit != nil {
		unit, err := enums.ParseProductUnit(strings.TrimSpace(*r.Unit))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	if r.Currency != nil {
		currency, err := enums.ParseCurrency(strings.TrimSpace(*r.Currency))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = &currency
	}
	switch {
	case r.PriceTiers != nil && r.TiersRetail != nil:
		return input, pkgerrors.New(pkgerrors.CodeValidation, "send price_tiers or tiers_retail, not both")
	case r.TiersRetail != nil:
		input.RetailTiers = r.TiersRetail
	case r.PriceTiers != nil:
		input.RetailTiers = r.PriceTiers
	}
	return input, nil
}

type replaceTiersRequest struct {
	Tiers []pricing.RawTier `json:"tiers" validate:"required"`
}

func pickRetailTiers(priceTiers, tiersRetail []pricing.RawTier) ([]pricing.RawTier, error) {
	if len(priceTiers) > 0 && len(tiersRetail) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "send price_tiers or tiers_retail, not both")
	}
	if len(tiersRetail) > 0 {
		return tiersRetail, nil
	}
	return priceTiers, nil
}
