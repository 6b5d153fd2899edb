package cartdto

import (
	"time"

	"github.com/google/uuid"
)

type PriceTier struct {
	Min   int     `json:"min"`
	Price float64 `json:"price"`
}

type LineItem struct {
	ProductID  uuid.UUID   `json:"productId"`
	Slug       string      `json:"slug"`
	Name       string      `json:"name"`
	Mode       string      `json:"mode"`
	Quantity   int         `json:"quantity"`
	Price      float64     `json:"price"`
	BasePrice  float64     `json:"basePrice"`
	PriceTiers []PriceTier `json:"priceTiers"`
	LineTotal  float64     `json:"lineTotal"`
	AddedAt    time.Time   `json:"addedAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
	Currency  string     `json:"currency,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
