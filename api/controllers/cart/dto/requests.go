package cartdto

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
)

// AddItemRequest mirrors the storefront's add-to-cart body. Price and
// PriceTiers are still sent by older clients; the server reprices from the
// catalog regardless.
type AddItemRequest struct {
	ProductID  string            `json:"productId" validate:"required"`
	Quantity   *int              `json:"quantity" validate:"required"`
	Mode       string            `json:"mode,omitempty"`
	Price      *decimal.Decimal  `json:"price,omitempty"`
	PriceTiers []pricing.RawTier `json:"priceTiers,omitempty"`
}

// UpdateItemRequest carries the same legacy price fields as AddItemRequest.
type UpdateItemRequest struct {
	Quantity   *int              `json:"quantity" validate:"required"`
	Price      *decimal.Decimal  `json:"price,omitempty"`
	PriceTiers []pricing.RawTier `json:"priceTiers,omitempty"`
}
