package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	productsvc "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
)

type tierResponse struct {
	Min   int     `json:"min"`
	Price float64 `json:"price"`
}

type productResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Slug               string         `json:"slug"`
	Name               string         `json:"name"`
	Description        *string        `json:"description,omitempty"`
	Category           string         `json:"category"`
	Unit               string         `json:"unit"`
	Colors             []string       `json:"colors"`
	Currency           string         `json:"currency"`
	BasePrice          float64        `json:"basePrice"`
	WholesaleBasePrice *float64       `json:"wholesaleBasePrice,omitempty"`
	IsActive           bool           `json:"isActive"`
	TiersRetail        []tierResponse `json:"tiersRetail"`
	TiersWholesale     []tierResponse `json:"tiersWholesale"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

type productListResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

type priceListResponse struct {
	Slug          string         `json:"slug"`
	Mode          string         `json:"mode"`
	Currency      string         `json:"currency"`
	FallbackPrice float64        `json:"fallbackPrice"`
	Tiers         []tierResponse `json:"tiers"`
}

func newTierResponses(tiers []pricing.Tier) []tierResponse {
	out := make([]tierResponse, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, tierResponse{Min: tier.MinQuantity, Price: tier.UnitPrice.InexactFloat64()})
	}
	return out
}

func newProductResponse(detail *productsvc.Detail) productResponse {
	p := detail.Product
	colors := []string(p.Colors)
	if colors == nil {
		colors = []string{}
	}
	resp := productResponse{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category.String(),
		Unit:           p.Unit.String(),
		Colors:         colors,
		Currency:       p.Currency.String(),
		BasePrice:      p.BasePrice.InexactFloat64(),
		IsActive:       p.IsActive,
		TiersRetail:    newTierResponses(detail.Retail.Tiers()),
		TiersWholesale: newTierResponses(detail.Wholesale.Tiers()),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.WholesaleBasePrice.Valid {
		v := p.WholesaleBasePrice.Decimal.InexactFloat64()
		resp.WholesaleBasePrice = &v
	}
	return resp
}

func newPriceListResponse(list *quotes.PriceList) priceListResponse {
	return priceListResponse{
		Slug:          list.Slug,
		Mode:          list.Mode.String(),
		Currency:      list.Currency.String(),
		FallbackPrice: list.Fallback.InexactFloat64(),
		Tiers:         newTierResponses(list.Tiers),
	}
}
